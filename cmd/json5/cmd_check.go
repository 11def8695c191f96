package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/json5"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate JSON5 documents",
		Long: `Validate JSON5 documents and report positioned parse errors.

If no file is provided, reads JSON5 from stdin. The exit status is
nonzero when any document fails to parse.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			type document struct {
				name   string
				source string
			}

			var docs []document
			if len(args) == 0 {
				source, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				docs = append(docs, document{"<stdin>", string(source)})
			}
			for _, filename := range args {
				source, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				docs = append(docs, document{filename, string(source)})
			}

			bold := color.New(color.Bold)
			failed := 0
			for _, doc := range docs {
				if _, err := json5.Parse(doc.source); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %s\n", bold.Sprint(doc.name), color.RedString(err.Error()))
					failed++
					continue
				}
				fmt.Printf("%s: %s\n", bold.Sprint(doc.name), color.GreenString("ok"))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents invalid", failed, len(docs))
			}
			return nil
		},
	}
}
