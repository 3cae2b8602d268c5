package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/merkle"
)

func merkleCmd() *cobra.Command {
	var proof int

	cmd := &cobra.Command{
		Use:   "merkle <leaf>...",
		Short: "Print the merkle root of the leaves",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]merkle.Bytes, len(args))
			for i, arg := range args {
				values[i] = merkle.Bytes(arg)
			}

			tree, err := merkle.NewTree(values)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tree.RootHex())

			if proof < 0 {
				return nil
			}

			if proof >= len(values) {
				return fmt.Errorf("proof index %d out of range for %d leaves", proof, len(values))
			}

			hashes, order, err := tree.Proof(values[proof])
			if err != nil {
				return err
			}

			for i, hash := range hashes {
				side := "right"
				if order[i] == 0 {
					side = "left"
				}
				fmt.Fprintf(out, "%s %s\n", hash.Hex0x(), side)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&proof, "proof", -1, "Print the proof for the leaf at this index.")

	return cmd
}
