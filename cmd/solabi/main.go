package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "solabi",
		Short: "Solidity ABI encoder, decoder, and EIP-712 hasher",
		Long: `solabi works with the contract ABI from the command line: encode and
decode head/tail data, produce packed encodings, compute function
selectors, and inspect type layouts.

Custom struct, enum, and value types can be supplied with repeated
--struct, --enum, and --udt flags and then referenced by name in type
strings.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		encodeCmd(),
		decodeCmd(),
		packedCmd(),
		selectorCmd(),
		inspectCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
