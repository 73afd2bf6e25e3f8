// Package render flattens a JSON value into the list of visible tree lines
// for a given expansion state, and applies the actions a user can take on a
// line: copying its value, key or path and committing an inline edit.
package render

import (
	"strconv"
	"unicode/utf8"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// Options control how lines are produced.
type Options struct {
	InlineEdit bool
	// MaxStringLen is the requested truncation length for long strings; it is
	// capped at classify.Medium and 0 means classify.Short.
	MaxStringLen int
	// ExpandedStrings holds the paths of strings shown in full.
	ExpandedStrings map[jsonvalue.PathKey]bool
}

// Line is one visible node of the tree.
type Line struct {
	Path       jsonvalue.Path
	Key        string
	HasKey     bool // false only for the root
	Depth      int
	Kind       jsonvalue.Kind
	Value      jsonvalue.Value
	Expandable bool
	Expanded   bool
	ChildCount int
	Focused    bool
	Display    string
	TypeLabel  string
	Tooltip    string
	Analysis   *classify.Analysis // strings only
	Truncated  bool
	Editable   bool
}

// Walk returns the visible lines of root in display order. Children of a
// container are emitted only when the container is expanded in state.
func Walk(root jsonvalue.Value, state treestate.State, opts Options) []Line {
	var lines []Line
	walk(&lines, root, jsonvalue.Path{}, "", false, 0, state, opts)
	return lines
}

func walk(lines *[]Line, v jsonvalue.Value, path jsonvalue.Path, key string, hasKey bool, depth int, state treestate.State, opts Options) {
	line := NewLine(v, path, opts)
	line.Key, line.HasKey = key, hasKey
	line.Depth = depth
	line.Expanded = line.Expandable && state.IsExpanded(path)
	line.Focused = state.IsFocused(path)
	*lines = append(*lines, line)

	if !line.Expanded {
		return
	}
	for _, c := range v.Children() {
		childKey := c.Segment.KeyName()
		if c.Segment.IsIndex() {
			childKey = strconv.Itoa(c.Segment.IndexValue())
		}
		walk(lines, c.Value, path.Append(c.Segment), childKey, true, depth+1, state, opts)
	}
}

// NewLine builds the line for a single node without key, depth or state
// information.
func NewLine(v jsonvalue.Value, path jsonvalue.Path, opts Options) Line {
	line := Line{
		Path:       path,
		Kind:       v.Kind(),
		Value:      v,
		Expandable: v.IsContainer(),
		ChildCount: v.Len(),
		TypeLabel:  v.Kind().String(),
		Tooltip:    Tooltip(v, path),
		Editable:   opts.InlineEdit && !v.IsContainer(),
	}
	if v.Kind() == jsonvalue.KindString {
		a := classify.AnalyzeString(v.AsString())
		line.Analysis = &a
		full := opts.ExpandedStrings[path.Key()]
		shown := classify.TruncateFor(a, v.AsString(), opts.MaxStringLen, full)
		line.Truncated = shown != v.AsString()
		line.Display = `"` + shown + `"`
	} else {
		line.Display = Summary(v)
	}
	return line
}

// Summary is the inline text of a non-string node: scalars in JSON form,
// arrays as "[] (n)" and objects as "{}".
func Summary(v jsonvalue.Value) string {
	switch v.Kind() {
	case jsonvalue.KindNull:
		return "null"
	case jsonvalue.KindBool:
		return strconv.FormatBool(v.AsBool())
	case jsonvalue.KindNumber:
		return jsonvalue.FormatNumber(v.AsNumber())
	case jsonvalue.KindString:
		return v.AsString()
	case jsonvalue.KindArray:
		return "[] (" + strconv.Itoa(v.Len()) + ")"
	default:
		return "{}"
	}
}

// Tooltip describes a node with its type, size and dotted path.
func Tooltip(v jsonvalue.Value, path jsonvalue.Path) string {
	at := " - Path: " + path.Display()
	switch v.Kind() {
	case jsonvalue.KindString:
		return "String (" + strconv.Itoa(utf8.RuneCountInString(v.AsString())) + " chars)" + at
	case jsonvalue.KindNumber:
		return "Number" + at
	case jsonvalue.KindBool:
		return "Boolean" + at
	case jsonvalue.KindNull:
		return "Null" + at
	case jsonvalue.KindArray:
		return "Array (" + strconv.Itoa(v.Len()) + " items)" + at
	default:
		return "Object (" + strconv.Itoa(v.Len()) + " properties)" + at
	}
}

// FindLine returns the index of the line addressing path, or -1.
func FindLine(lines []Line, path jsonvalue.Path) int {
	for i := range lines {
		if lines[i].Path.Equal(path) {
			return i
		}
	}
	return -1
}
