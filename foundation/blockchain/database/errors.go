package database

import (
	"errors"
	"fmt"
)

// Set of errors returned when constructing and validating chain values.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBlock       = errors.New("invalid block")
	ErrNonceExhausted     = errors.New("nonce space exhausted")
)

// =============================================================================

// TxError represents a transaction that could not be constructed. The id is
// the one calculated from the rejected inputs and outputs.
type TxError struct {
	ID  TransactionID
	Msg string
}

// Error implements the error interface.
func (txe *TxError) Error() string {
	return fmt.Sprintf("transaction %s: %s", txe.ID, txe.Msg)
}

// Is allows errors.Is to match any TxError against ErrInvalidTransaction.
func (txe *TxError) Is(target error) bool {
	return target == ErrInvalidTransaction
}
