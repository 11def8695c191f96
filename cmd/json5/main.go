package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "json5",
		Short: "Parse, validate and reformat JSON5 documents",
	}

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newJSONCmd())
	rootCmd.AddCommand(newLSPCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
