// Package cmd contains the lux tooling commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// New constructs the root command with every subcommand attached.
func New() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "lux",
		Short:        "Luxcoin hashing and chain tooling",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		hashCmd(),
		merkleCmd(),
		targetCmd(),
		txCmd(),
		verifyCmd(),
	)

	return rootCmd
}
