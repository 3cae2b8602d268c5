package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
	"github.com/xiuxiu62/luxcoin/foundation/validate"
)

// txRequest is the document describing a transaction to identify.
type txRequest struct {
	Inputs   []inputRequest  `json:"inputs" validate:"required,min=1,dive"`
	Outputs  []outputRequest `json:"outputs" validate:"required,min=1,dive"`
	Locktime uint32          `json:"locktime"`
}

type inputRequest struct {
	UTXOID      string `json:"utxo_id" validate:"required,len=64,hexadecimal"`
	OutputIndex *int32 `json:"output_index" validate:"required,gte=-1"`
}

type outputRequest struct {
	To     string `json:"to" validate:"required"`
	Amount *int64 `json:"amount" validate:"required"`
}

// toTransaction constructs the transaction described by the request.
func (r txRequest) toTransaction() (database.Transaction, error) {
	inputs := make([]database.TransactionInput, len(r.Inputs))
	for i, in := range r.Inputs {
		utxoID, err := digest.FromHex(in.UTXOID)
		if err != nil {
			return database.Transaction{}, fmt.Errorf("input %d: %w", i, err)
		}
		inputs[i] = database.NewTransactionInput(database.TransactionID(utxoID), database.OutputIndex(*in.OutputIndex))
	}

	outputs := make([]database.TransactionOutput, len(r.Outputs))
	for i, out := range r.Outputs {
		outputs[i] = database.NewTransactionOutput(database.Address(out.To), database.Amount(*out.Amount))
	}

	return database.NewTransaction(inputs, outputs, r.Locktime)
}

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx <file>",
		Short: "Print the id of the transaction described in the JSON file, - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			var req txRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("decoding transaction: %w", err)
			}

			if err := validate.Check(req); err != nil {
				return err
			}

			tx, err := req.toTransaction()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tx.ID())
			fmt.Fprintf(out, "coinbase: %t total: %s\n", tx.IsCoinbase(), tx.TotalOutput())

			return nil
		},
	}

	return cmd
}
