package main

import (
	"github.com/dhamidi/json5/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer("0.1.0", debug)
			return server.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&debug, "debug", false, "log protocol traffic to stderr")

	return cmd
}
