package database_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func realInput(s string, index database.OutputIndex) database.TransactionInput {
	return database.NewTransactionInput(database.TransactionID(digest.Hash([]byte(s))), index)
}

// =============================================================================

func Test_TransactionFormat(t *testing.T) {
	type table struct {
		name    string
		inputs  []database.TransactionInput
		outputs []database.TransactionOutput
		valid   bool
	}

	alice := database.NewTransactionOutput("alice", 50)
	bob := database.NewTransactionOutput("bob", 25)

	tt := []table{
		{
			name:    "coinbase",
			inputs:  []database.TransactionInput{database.NewCoinbaseInput()},
			outputs: []database.TransactionOutput{alice},
			valid:   true,
		},
		{
			name:    "spend",
			inputs:  []database.TransactionInput{realInput("a", 0), realInput("b", 3)},
			outputs: []database.TransactionOutput{alice, bob},
			valid:   true,
		},
		{
			name:    "coinbase-extra-input",
			inputs:  []database.TransactionInput{database.NewCoinbaseInput(), realInput("a", 0)},
			outputs: []database.TransactionOutput{alice},
			valid:   false,
		},
		{
			name:    "coinbase-second",
			inputs:  []database.TransactionInput{realInput("a", 0), database.NewCoinbaseInput()},
			outputs: []database.TransactionOutput{alice},
			valid:   false,
		},
		{
			name:    "coinbase-two-outputs",
			inputs:  []database.TransactionInput{database.NewCoinbaseInput()},
			outputs: []database.TransactionOutput{alice, bob},
			valid:   false,
		},
		{
			name:    "no-inputs",
			outputs: []database.TransactionOutput{alice},
			valid:   false,
		},
		{
			name:   "no-outputs",
			inputs: []database.TransactionInput{realInput("a", 0)},
			valid:  false,
		},
		{
			name:    "zero-id-real-index",
			inputs:  []database.TransactionInput{database.NewTransactionInput(database.TransactionID{}, 0), realInput("a", 0)},
			outputs: []database.TransactionOutput{alice},
			valid:   true,
		},
	}

	t.Log("Given the need to validate the format of transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s transaction.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx, err := database.NewTransaction(tst.inputs, tst.outputs, 0)

					switch tst.valid {
					case true:
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to construct the transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to construct the transaction.", success, testID)

						if tx.ID().Digest().IsZero() {
							t.Fatalf("\t%s\tTest %d:\tShould have an id.", failed, testID)
						}

					case false:
						if !errors.Is(err, database.ErrInvalidTransaction) {
							t.Fatalf("\t%s\tTest %d:\tShould get ErrInvalidTransaction, got %v.", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould get ErrInvalidTransaction.", success, testID)

						var txErr *database.TxError
						if !errors.As(err, &txErr) {
							t.Fatalf("\t%s\tTest %d:\tShould get a TxError.", failed, testID)
						}
						if txErr.ID.Digest().IsZero() || txErr.Msg == "" {
							t.Fatalf("\t%s\tTest %d:\tShould get the id and a description: %v", failed, testID, txErr)
						}
						if !strings.Contains(err.Error(), txErr.ID.String()) {
							t.Fatalf("\t%s\tTest %d:\tShould mention the id in the error: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould get the id and a description.", success, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_TransactionID(t *testing.T) {
	t.Log("Given the need to identify transactions.")
	{
		tx, err := database.NewCoinbaseTransaction("alice", 50, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transaction: %v", failed, err)
		}

		text := strings.Repeat("0", 64) + "-1" + "alice" + "50 LUX"
		exp := database.TransactionID(digest.Hash([]byte(text)))
		if tx.ID() != exp {
			t.Logf("\t%s\tgot: %s", failed, tx.ID())
			t.Logf("\t%s\texp: %s", failed, exp)
			t.Fatalf("\t%s\tShould hash the inputs followed by the outputs.", failed)
		}
		t.Logf("\t%s\tShould hash the inputs followed by the outputs.", success)

		if !tx.IsCoinbase() {
			t.Fatalf("\t%s\tShould be a coinbase transaction.", failed)
		}
		t.Logf("\t%s\tShould be a coinbase transaction.", success)

		tx2, err := database.NewCoinbaseTransaction("alice", 50, 10)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transaction: %v", failed, err)
		}
		if tx2.ID() != tx.ID() || tx2.Locktime() != 10 {
			t.Fatalf("\t%s\tShould not include the locktime in the id.", failed)
		}
		t.Logf("\t%s\tShould not include the locktime in the id.", success)

		in := realInput("a", 7)
		spend, err := database.NewTransaction([]database.TransactionInput{in}, []database.TransactionOutput{{To: "bob", Amount: -3}}, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transaction: %v", failed, err)
		}

		text = digest.Hash([]byte("a")).Hex() + "7" + "bob" + "-3 LUX"
		if spend.ID() != database.TransactionID(digest.Hash([]byte(text))) {
			t.Fatalf("\t%s\tShould render the index and amount in decimal.", failed)
		}
		t.Logf("\t%s\tShould render the index and amount in decimal.", success)
	}
}

func Test_TransactionImmutable(t *testing.T) {
	t.Log("Given the need to keep transactions from changing.")
	{
		inputs := []database.TransactionInput{realInput("a", 0)}
		outputs := []database.TransactionOutput{database.NewTransactionOutput("alice", 50)}

		tx, err := database.NewTransaction(inputs, outputs, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transaction: %v", failed, err)
		}

		inputs[0].OutputIndex = 9
		outputs[0].Amount = 1

		got := tx.Outputs()
		got[0].Amount = 2

		if tx.Inputs()[0].OutputIndex != 0 || tx.Outputs()[0].Amount != 50 {
			t.Fatalf("\t%s\tShould not be changed by the caller's slices.", failed)
		}
		t.Logf("\t%s\tShould not be changed by the caller's slices.", success)

		if tx.TotalOutput() != 50 {
			t.Fatalf("\t%s\tShould total the outputs, got %s.", failed, tx.TotalOutput())
		}
		t.Logf("\t%s\tShould total the outputs.", success)
	}
}

func Test_TransactionJSON(t *testing.T) {
	t.Log("Given the need to store transactions as JSON.")
	{
		tx, err := database.NewTransaction(
			[]database.TransactionInput{realInput("a", 1)},
			[]database.TransactionOutput{database.NewTransactionOutput("alice", 50), database.NewTransactionOutput("bob", 5)},
			3,
		)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the transaction: %v", failed, err)
		}

		data, err := json.Marshal(tx)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to marshal the transaction: %v", failed, err)
		}

		var got database.Transaction
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("\t%s\tShould be able to unmarshal the transaction: %v", failed, err)
		}

		if got.ID() != tx.ID() || got.Locktime() != 3 || len(got.Outputs()) != 2 {
			t.Fatalf("\t%s\tShould get back the same transaction.", failed)
		}
		t.Logf("\t%s\tShould get back the same transaction.", success)

		tampered := strings.Replace(string(data), `"alice"`, `"mallory"`, 1)
		if err := json.Unmarshal([]byte(tampered), &got); !errors.Is(err, database.ErrInvalidTransaction) {
			t.Fatalf("\t%s\tShould reject a stored id that doesn't match, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould reject a stored id that doesn't match.", success)
	}
}

func Test_Amount(t *testing.T) {
	t.Log("Given the need to work with amounts.")
	{
		if s := database.Sum(10, 20, -5); s != 25 {
			t.Fatalf("\t%s\tShould sum the amounts, got %d.", failed, s)
		}
		if s := database.Amount(7).Sub(10); s.String() != "-3 LUX" {
			t.Fatalf("\t%s\tShould display the amount, got %s.", failed, s)
		}
		t.Logf("\t%s\tShould work with amounts.", success)
	}
}
