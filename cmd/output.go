package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/oakwood-commons/jsonlens/internal/formatter"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// colorAllowed reports whether styling is permitted at all: not disabled by
// --no-color or $NO_COLOR.
func (o *rootOptions) colorAllowed() bool {
	if o.noColor {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set && !o.color {
		return false
	}
	return true
}

// useColor reports whether static output is highlighted: forced with
// --color, otherwise only when stdout is a terminal.
func (o *rootOptions) useColor() bool {
	if !o.colorAllowed() {
		return false
	}
	return o.color || stdoutIsTerminal()
}

func (o *rootOptions) printValue(out io.Writer, v jsonvalue.Value) error {
	var text string
	switch o.output {
	case formatter.OutputMinify:
		text = formatter.Minify(v) + "\n"
	case formatter.OutputYAML:
		s, err := formatter.FormatYAML(v, formatter.YAMLFormatOptions{Indent: o.indent, LiteralBlockStrings: true})
		if err != nil {
			return fmt.Errorf("format yaml: %w", err)
		}
		text = s
	case formatter.OutputTree:
		text = formatter.FormatAsTree(v, formatter.TreeOptions{
			NoValues:     o.treeNoValues,
			MaxDepth:     o.treeDepth,
			MaxStringLen: o.cfg.MaxStringLen(),
			ArrayStyle:   o.arrayStyle,
			Icons:        true,
		})
	default:
		text = o.formatJSON(v) + "\n"
	}
	_, err := io.WriteString(out, text)
	return err
}

// formatJSON renders indented JSON, highlighted when color is on.
func (o *rootOptions) formatJSON(v jsonvalue.Value) string {
	if !o.useColor() {
		return formatter.Format(v, o.indent)
	}
	color.NoColor = false
	return formatter.Highlight(v, o.indent, formatter.NewColors())
}
