package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/digest"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/pow"
)

func targetCmd() *cobra.Command {
	var check string

	cmd := &cobra.Command{
		Use:   "target <zero-bits>",
		Short: "Print the target for the number of leading zero bits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bits, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("parsing zero bits: %w", err)
			}

			target, err := pow.NewTarget(uint(bits))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, target)

			if check == "" {
				return nil
			}

			hash, err := digest.FromHex(check)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "met: %t zero bits: %d\n", target.IsMet(hash), pow.LeadingZeroBits(hash))
			return nil
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "Report if this hex digest meets the target.")

	return cmd
}
