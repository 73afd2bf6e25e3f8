// Package editor implements the inline scalar editor: a small state machine
// around a text buffer whose content is turned back into a typed JSON value
// on commit.
package editor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

var numberRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Placeholder is the hint shown in an empty edit field.
const Placeholder = `Type: null, true, 5000, "text", etc.`

// Infer converts edited text to a scalar value. It never fails: anything that
// is not null, a boolean, a quoted string or a plain decimal number becomes
// the trimmed text as a string.
func Infer(text string) jsonvalue.Value {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "null":
		return jsonvalue.Null()
	case trimmed == "true":
		return jsonvalue.Bool(true)
	case trimmed == "false":
		return jsonvalue.Bool(false)
	case isQuoted(trimmed):
		return jsonvalue.String(trimmed[1 : len(trimmed)-1])
	case numberRe.MatchString(trimmed):
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			if v, err := jsonvalue.Number(f); err == nil {
				return v
			}
		}
	}
	return jsonvalue.String(trimmed)
}

// PreviewType names the kind Infer would produce for text: "string",
// "number", "boolean" or "null". Blank input previews as "string".
func PreviewType(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return "string"
	case trimmed == "null":
		return "null"
	case trimmed == "true" || trimmed == "false":
		return "boolean"
	case isQuoted(trimmed):
		return "string"
	case numberRe.MatchString(trimmed):
		return "number"
	default:
		return "string"
	}
}

func isQuoted(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`)
}

// InitialText is the buffer content an edit session starts with: strings
// without quotes, null as "null", numbers and booleans in their JSON form.
func InitialText(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindString:
		return v.AsString()
	case jsonvalue.KindNumber:
		return jsonvalue.FormatNumber(v.AsNumber())
	case jsonvalue.KindBool:
		return strconv.FormatBool(v.AsBool())
	default:
		return "null"
	}
}
