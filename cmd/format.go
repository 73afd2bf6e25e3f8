package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/internal/formatter"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
)

func newFormatCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "format [file]",
		Short: "Pretty-print strict JSON with --indent spaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			text, err := formatter.FormatJSON(data, o.indent)
			if err != nil {
				return err
			}
			logger.FromContext(cmd.Context()).V(1).Info("formatted", logger.FileKey, source, logger.ActionKey, "format")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}

func newMinifyCmd(_ *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "minify [file]",
		Short: "Print strict JSON without insignificant whitespace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, source, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			text, err := formatter.MinifyJSON(data)
			if err != nil {
				return err
			}
			logger.FromContext(cmd.Context()).V(1).Info("minified", logger.FileKey, source, logger.ActionKey, "minify")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
