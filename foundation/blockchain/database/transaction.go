package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
)

// TransactionID represents the identity of a transaction. It is calculated
// from the inputs and outputs of the transaction.
type TransactionID digest.Digest

// Digest returns the id as a plain digest.
func (id TransactionID) Digest() digest.Digest {
	return digest.Digest(id)
}

// String implements the fmt.Stringer interface.
func (id TransactionID) String() string {
	return digest.Digest(id).Hex()
}

// MarshalText implements the encoding.TextMarshaler interface.
func (id TransactionID) MarshalText() ([]byte, error) {
	return digest.Digest(id).MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (id *TransactionID) UnmarshalText(text []byte) error {
	return (*digest.Digest)(id).UnmarshalText(text)
}

// =============================================================================

// OutputIndex represents the position of an output inside the transaction
// that produced it. Real outputs are never negative.
type OutputIndex int32

// String implements the fmt.Stringer interface.
func (oi OutputIndex) String() string {
	return strconv.FormatInt(int64(oi), 10)
}

// CoinbaseOutputIndex is the index used by the coinbase input together with
// an id of all zero bits. No real output can have this index.
const CoinbaseOutputIndex OutputIndex = -1

// =============================================================================

// TransactionInput references an output of a prior transaction that is being
// spent.
type TransactionInput struct {
	UTXOID      TransactionID `json:"utxo_id"`      // Bitcoin: Id of the transaction holding the output.
	OutputIndex OutputIndex   `json:"output_index"` // Bitcoin: Index of the output in that transaction.
}

// NewTransactionInput constructs an input referencing the specified output.
func NewTransactionInput(utxoID TransactionID, outputIndex OutputIndex) TransactionInput {
	return TransactionInput{
		UTXOID:      utxoID,
		OutputIndex: outputIndex,
	}
}

// NewCoinbaseInput constructs the input used by a transaction that creates
// new value.
func NewCoinbaseInput() TransactionInput {
	return TransactionInput{
		UTXOID:      TransactionID{},
		OutputIndex: CoinbaseOutputIndex,
	}
}

// IsCoinbase reports whether this is the coinbase input.
func (in TransactionInput) IsCoinbase() bool {
	return in.UTXOID == TransactionID{} && in.OutputIndex == CoinbaseOutputIndex
}

// String implements the fmt.Stringer interface. This form is part of the
// input used to identify a transaction.
func (in TransactionInput) String() string {
	return in.UTXOID.String() + in.OutputIndex.String()
}

// =============================================================================

// TransactionOutput represents value being assigned to an address.
type TransactionOutput struct {
	To     Address `json:"to"`     // Bitcoin: Party receiving the value.
	Amount Amount  `json:"amount"` // Bitcoin: Value being received.
}

// NewTransactionOutput constructs an output paying the amount to the address.
func NewTransactionOutput(to Address, amount Amount) TransactionOutput {
	return TransactionOutput{
		To:     to,
		Amount: amount,
	}
}

// String implements the fmt.Stringer interface. This form is part of the
// input used to identify a transaction.
func (out TransactionOutput) String() string {
	return out.To.String() + out.Amount.String()
}

// =============================================================================

// Transaction represents value moving from a set of prior outputs to a set of
// new outputs. A transaction can't be changed once constructed.
type Transaction struct {
	id       TransactionID
	inputs   []TransactionInput
	outputs  []TransactionOutput
	locktime uint32 // Minimum block height for inclusion. Separates transactions with the same inputs and outputs.
}

// NewTransaction constructs a transaction and calculates its id. The inputs
// and outputs are copied so the caller can't change the transaction later.
func NewTransaction(inputs []TransactionInput, outputs []TransactionOutput, locktime uint32) (Transaction, error) {
	tx := Transaction{
		inputs:   append([]TransactionInput(nil), inputs...),
		outputs:  append([]TransactionOutput(nil), outputs...),
		locktime: locktime,
	}
	tx.id = hashTransactionData(tx.inputs, tx.outputs)

	if err := tx.validateFormat(); err != nil {
		return Transaction{}, err
	}

	return tx, nil
}

// NewCoinbaseTransaction constructs a transaction creating the amount of new
// value for the address.
func NewCoinbaseTransaction(to Address, amount Amount, locktime uint32) (Transaction, error) {
	inputs := []TransactionInput{NewCoinbaseInput()}
	outputs := []TransactionOutput{NewTransactionOutput(to, amount)}

	return NewTransaction(inputs, outputs, locktime)
}

// ID returns the identity of the transaction.
func (tx Transaction) ID() TransactionID {
	return tx.id
}

// Inputs returns a copy of the inputs of the transaction.
func (tx Transaction) Inputs() []TransactionInput {
	return append([]TransactionInput(nil), tx.inputs...)
}

// Outputs returns a copy of the outputs of the transaction.
func (tx Transaction) Outputs() []TransactionOutput {
	return append([]TransactionOutput(nil), tx.outputs...)
}

// Locktime returns the minimum block height the transaction can be in.
func (tx Transaction) Locktime() uint32 {
	return tx.locktime
}

// IsCoinbase reports whether the transaction creates new value.
func (tx Transaction) IsCoinbase() bool {
	return len(tx.inputs) > 0 && tx.inputs[0].IsCoinbase()
}

// TotalOutput returns the sum of the amounts of all the outputs.
func (tx Transaction) TotalOutput() Amount {
	var sum Amount
	for _, out := range tx.outputs {
		sum = sum.Add(out.Amount)
	}

	return sum
}

// Hash implements the merkle Hashable interface. The leaf for a transaction
// is the raw bytes of its id.
func (tx Transaction) Hash() digest.Digest {
	return digest.Hash(tx.id[:])
}

// Equals implements the merkle Hashable interface. Transactions with the
// same id are the same.
func (tx Transaction) Equals(otherTx Transaction) bool {
	return tx.id == otherTx.id
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s:%d:%d", tx.id, len(tx.inputs), len(tx.outputs))
}

// validateFormat makes sure the transaction has inputs and outputs and that
// a coinbase input only shows up in a transaction with one input and one
// output.
func (tx Transaction) validateFormat() error {
	if len(tx.inputs) == 0 {
		return &TxError{ID: tx.id, Msg: "transaction has no inputs"}
	}

	if len(tx.outputs) == 0 {
		return &TxError{ID: tx.id, Msg: "transaction has no outputs"}
	}

	var containsCoinbase bool
	for _, in := range tx.inputs {
		if in.IsCoinbase() {
			containsCoinbase = true
			break
		}
	}

	if containsCoinbase && (len(tx.inputs) != 1 || len(tx.outputs) != 1) {
		return &TxError{ID: tx.id, Msg: "transaction has the coinbase input, but it doesn't satisfy all coinbase requirements"}
	}

	return nil
}

// hashTransactionData calculates the id from the text form of every input
// followed by every output with nothing between them.
func hashTransactionData(inputs []TransactionInput, outputs []TransactionOutput) TransactionID {
	var sb strings.Builder
	for _, in := range inputs {
		sb.WriteString(in.String())
	}
	for _, out := range outputs {
		sb.WriteString(out.String())
	}

	return TransactionID(digest.Hash([]byte(sb.String())))
}

// =============================================================================

// transactionJSON is the form of a transaction in JSON documents.
type transactionJSON struct {
	ID       TransactionID       `json:"id"`
	Inputs   []TransactionInput  `json:"inputs"`
	Outputs  []TransactionOutput `json:"outputs"`
	Locktime uint32              `json:"locktime"`
}

// MarshalJSON implements the json.Marshaler interface.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:       tx.id,
		Inputs:   tx.inputs,
		Outputs:  tx.outputs,
		Locktime: tx.locktime,
	})
}

// UnmarshalJSON implements the json.Unmarshaler interface. The transaction
// is constructed again from its parts and the stored id must match.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var tj transactionJSON
	if err := json.Unmarshal(data, &tj); err != nil {
		return err
	}

	ntx, err := NewTransaction(tj.Inputs, tj.Outputs, tj.Locktime)
	if err != nil {
		return err
	}

	if tj.ID != ntx.id {
		return &TxError{ID: ntx.id, Msg: fmt.Sprintf("stored id %s does not match", tj.ID)}
	}

	*tx = ntx
	return nil
}
