package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
)

func hashCmd() *cobra.Command {
	var prefixed bool

	cmd := &cobra.Command{
		Use:   "hash <text>",
		Short: "Print the digest of the text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := digest.Hash([]byte(args[0]))

			if prefixed {
				fmt.Fprintln(cmd.OutOrStdout(), d.Hex0x())
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), d.Hex())
			return nil
		},
	}

	cmd.Flags().BoolVar(&prefixed, "prefix", false, "Print the digest with the 0x prefix.")

	return cmd
}
