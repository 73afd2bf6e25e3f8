package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/pkg/core"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
	"github.com/oakwood-commons/jsonlens/pkg/settings"
)

// readInput returns the raw bytes of the file argument, "-" or piped stdin.
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	in := cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, args[0], fmt.Errorf("read input: %w", err)
		}
		return data, args[0], nil
	}
	if len(args) == 0 && in == os.Stdin && !stdinIsPiped() {
		return nil, "", errNoInput
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, "-", fmt.Errorf("read stdin: %w", err)
	}
	return data, "-", nil
}

// readDocument reads and decodes the input document with --input-format.
func (o *rootOptions) readDocument(cmd *cobra.Command, args []string) (jsonvalue.Value, error) {
	data, source, err := readInput(cmd, args)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	format, err := loader.ParseFormat(o.inputFormat)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	ctx := cmd.Context()
	if run, ok := settings.FromContext(ctx); ok {
		run.EntryPointSettings.Path = source
		run.EntryPointSettings.FromStdin = source == "-"
	}
	v, err := loader.Load(data, format)
	if err != nil {
		return jsonvalue.Value{}, err
	}
	logger.FromContext(ctx).V(1).Info("document loaded", logger.FileKey, source, logger.FormatKey, string(format))
	return v, nil
}

// reloader re-reads a file argument and reapplies --expression. Stdin cannot
// be read twice, so it has no reloader.
func (o *rootOptions) reloader(cmd *cobra.Command, args []string) func() (jsonvalue.Value, error) {
	if len(args) == 0 || args[0] == "-" {
		return nil
	}
	return func() (jsonvalue.Value, error) {
		root, err := o.readDocument(cmd, args)
		if err != nil {
			return jsonvalue.Value{}, err
		}
		return o.applyExpression(cmd.Context(), root)
	}
}

// applyExpression evaluates --expression against root and returns its result.
func (o *rootOptions) applyExpression(ctx context.Context, root jsonvalue.Value) (jsonvalue.Value, error) {
	if o.expression == "" {
		return root, nil
	}
	engine, err := core.New(core.WithLogger(*logger.FromContext(ctx)))
	if err != nil {
		return jsonvalue.Value{}, err
	}
	res, err := engine.Evaluate(o.expression, root)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("expression %q: %w", o.expression, err)
	}
	return res.Value, nil
}

// resolvePath parses --path against root; the empty path selects the root.
func (o *rootOptions) resolvePath(root jsonvalue.Value) (jsonvalue.Path, error) {
	if o.path == "" {
		return jsonvalue.Path{}, nil
	}
	p, err := jsonvalue.ParsePath(root, o.path)
	if err != nil {
		return nil, fmt.Errorf("--path: %w", err)
	}
	return p, nil
}
