package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/json5"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a JSON5 document, preserving comments",
		Long: `Reformat a JSON5 document to stdout.

If no file is provided, reads JSON5 from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			value, comments, err := json5.ParseWithComments(string(source))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			output, err := json5.SerializeWithComments(value, comments)
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}
			output += "\n"

			if fmtOverwrite {
				return os.WriteFile(filename, []byte(output), 0644)
			}
			_, err = io.WriteString(os.Stdout, output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
