// This program provides tooling for computing and checking luxcoin hashes,
// merkle roots, targets and transaction ids, and for validating a stored chain.
package main

import (
	"os"

	"github.com/xiuxiu62/luxcoin/app/tooling/lux/cmd"
)

func main() {
	if err := cmd.New().Execute(); err != nil {
		os.Exit(1)
	}
}
