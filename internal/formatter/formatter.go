// Package formatter renders jsonvalue trees as text: indented or minified JSON,
// YAML, a static tree and color-highlighted JSON for terminals.
package formatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
)

// Output modes accepted by -o/--output.
const (
	OutputJSON   = "json"
	OutputMinify = "minify"
	OutputYAML   = "yaml"
	OutputTree   = "tree"
)

// Outputs lists the valid output modes.
var Outputs = []string{OutputJSON, OutputMinify, OutputYAML, OutputTree}

// ValidateOutput returns an error if mode is not one of Outputs.
func ValidateOutput(mode string) error {
	for _, o := range Outputs {
		if mode == o {
			return nil
		}
	}
	return fmt.Errorf("invalid output %q: valid values are %s", mode, strings.Join(Outputs, ", "))
}

// IndentString returns n spaces; n <= 0 yields "" (compact output).
func IndentString(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

// Format renders v as JSON indented by indent spaces, keeping member order.
func Format(v jsonvalue.Value, indent int) string {
	return string(jsonvalue.MarshalIndent(v, IndentString(indent)))
}

// Minify renders v as compact JSON.
func Minify(v jsonvalue.Value) string {
	return string(jsonvalue.Marshal(v))
}

// FormatJSON parses strict JSON text and re-renders it with indent spaces.
// Blank input fails with loader.ErrEmptyInput, bad input with loader.ErrInvalidJSON.
func FormatJSON(input []byte, indent int) (string, error) {
	v, err := parseStrict(input, "format")
	if err != nil {
		return "", err
	}
	return Format(v, indent), nil
}

// MinifyJSON parses strict JSON text and re-renders it compactly.
func MinifyJSON(input []byte) (string, error) {
	v, err := parseStrict(input, "minify")
	if err != nil {
		return "", err
	}
	return Minify(v), nil
}

func parseStrict(input []byte, action string) (jsonvalue.Value, error) {
	v, err := loader.LoadJSON(input)
	if errors.Is(err, loader.ErrEmptyInput) {
		return jsonvalue.Value{}, fmt.Errorf("%w: nothing to %s", loader.ErrEmptyInput, action)
	}
	return v, err
}
