package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database"
	"github.com/xiuxiu62/luxcoin/foundation/blockchain/database/storage"
	"github.com/xiuxiu62/luxcoin/foundation/logger"
)

func verifyCmd() *cobra.Command {
	var dbPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Validate every block of the chain stored on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ev := func(string, ...any) {}
			if verbose {
				log, err := logger.New("LUX")
				if err != nil {
					return err
				}
				defer log.Sync()
				ev = logger.EvHandler(log)
			}

			// Opening the storage creates a missing directory.
			info, err := os.Stat(dbPath)
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dbPath)
			}

			disk, err := storage.NewDisk(dbPath)
			if err != nil {
				return err
			}
			defer disk.Close()

			latest, height, err := database.ValidateChain(disk, ev)
			if err != nil {
				return fmt.Errorf("block %d: %w", height+1, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "height: %d\n", height)
			if height > 0 {
				fmt.Fprintf(out, "latest: %s\n", latest.Hash())
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "zblock/blocks", "Path to the directory holding the blocks.")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every validation step.")

	return cmd
}
