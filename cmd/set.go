package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/internal/editlog"
	"github.com/oakwood-commons/jsonlens/pkg/core"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
)

func newSetCmd(o *rootOptions) *cobra.Command {
	var asPatch bool
	cmd := &cobra.Command{
		Use:   "set <path> <value> [file]",
		Short: "Replace one scalar value and print the result",
		Long: `set replaces the scalar at path with value and prints the new document.

The value is typed the same way the inline editor types it: null, true and
false, plain decimal numbers, and "double quoted" text become the matching
JSON value; anything else is taken as a string.`,
		Example: "\n  jsonlens set server.port 8081 config.json\n  jsonlens set 'items[0].name' '\"42\"' data.json --patch\n",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := o.readDocument(cmd, args[2:])
			if err != nil {
				return err
			}
			engine, err := core.New(core.WithLogger(*logger.FromContext(cmd.Context())))
			if err != nil {
				return err
			}
			change, err := engine.Set(root, args[0], args[1])
			if err != nil {
				return err
			}

			if asPatch {
				edits := editlog.New(root)
				edits.Record(change.Path, change.Old, change.New)
				patch, err := edits.Patch()
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(patch))
				return err
			}
			return o.printValue(cmd.OutOrStdout(), change.Root)
		},
	}
	cmd.Flags().BoolVar(&asPatch, "patch", false, "print the change as an RFC 6902 JSON Patch instead of the document")
	cmd.Flags().StringVarP(&o.output, "output", "o", "json", "output format: json|minify|yaml|tree")
	return cmd
}
