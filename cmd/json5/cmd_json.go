package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dhamidi/json5"
	"github.com/spf13/cobra"
)

func newJSONCmd() *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Convert a JSON5 document to JSON",
		Long: `Convert a JSON5 document to JSON on stdout.

If no file is provided, reads JSON5 from stdin. Comments are dropped,
object member order is kept, and Infinity and NaN become null, as JSON
has no spelling for them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error

			if len(args) == 0 {
				source, err = io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				source, err = os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			value, err := json5.Parse(string(source))
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			var output []byte
			if compact {
				output, err = json.Marshal(jsonValue(value))
			} else {
				output, err = json.MarshalIndent(jsonValue(value), "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			fmt.Println(string(output))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "emit compact JSON without indentation")

	return cmd
}

// jsonValue rewrites the parts of a parsed graph JSON cannot express:
// Infinity and NaN become null.
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return nil
		}
	case []any:
		for i, elem := range x {
			x[i] = jsonValue(elem)
		}
	case *json5.Object:
		for _, k := range x.Keys() {
			member, _ := x.Get(k)
			x.Set(k, jsonValue(member))
		}
	}
	return v
}
