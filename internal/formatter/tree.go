package formatter

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/render"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited). Deeper containers show their summary.
	MaxDepth int
	// MaxStringLen is the truncation request for long strings, as in the viewer.
	MaxStringLen int
	// ArrayStyle controls how array indices are displayed:
	// "index" = [0], [1]; "numbered" = 1, 2; "bullet" = •; "none" = skip index.
	ArrayStyle string
	// Icons prefixes classified strings with their type icon.
	Icons bool
}

// ValidArrayStyles contains all valid array style values.
var ValidArrayStyles = []string{"index", "numbered", "bullet", "none"}

// ValidateArrayStyle returns an error if the style is invalid.
func ValidateArrayStyle(style string) error {
	if style == "" {
		return nil
	}
	for _, valid := range ValidArrayStyles {
		if style == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid array-style %q: valid values are index, numbered, bullet, none", style)
}

// FormatArrayIndex formats an array index based on style.
func FormatArrayIndex(i int, style string) string {
	switch style {
	case "numbered":
		return strconv.Itoa(i + 1)
	case "bullet":
		return "•"
	case "none":
		return ""
	default:
		return "[" + strconv.Itoa(i) + "]"
	}
}

// FormatAsTree renders root as an ASCII tree. The lines come from the same walk
// the interactive viewer uses, so strings are truncated the same way.
func FormatAsTree(root jsonvalue.Value, opts TreeOptions) string {
	state := treestate.New()
	if opts.MaxDepth <= 0 {
		state = state.ExpandAll(root)
	} else {
		for _, p := range treestate.ContainerPaths(root) {
			if len(p) <= opts.MaxDepth {
				state = state.SetExpanded(p, true)
			}
		}
	}
	lines := render.Walk(root, state, render.Options{MaxStringLen: opts.MaxStringLen})

	tree := treeprint.New()
	if len(lines) == 0 {
		return tree.String()
	}
	if !root.IsContainer() {
		tree.AddNode(leafText(lines[0], opts))
		return tree.String()
	}

	// branches[d] is the branch receiving children at depth d+1
	branches := []treeprint.Tree{tree}
	for _, line := range lines[1:] {
		parent := branches[line.Depth-1]
		label := lineLabel(line, opts)
		if line.Expanded && line.ChildCount > 0 {
			branches = append(branches[:line.Depth], parent.AddBranch(label))
			continue
		}
		branches = branches[:line.Depth]
		parent.AddNode(leafLabel(line, label, opts))
	}
	return tree.String()
}

func lineLabel(line render.Line, opts TreeOptions) string {
	seg, _ := line.Path.Last()
	if seg.IsIndex() {
		label := FormatArrayIndex(seg.IndexValue(), opts.ArrayStyle)
		if label == "" {
			return "(item)"
		}
		return label
	}
	return line.Key
}

func leafLabel(line render.Line, label string, opts TreeOptions) string {
	if opts.NoValues {
		return label
	}
	return label + ": " + leafText(line, opts)
}

func leafText(line render.Line, opts TreeOptions) string {
	text := line.Display
	if opts.Icons && line.Analysis != nil {
		if icon := classify.Icon(line.Analysis.Type); icon != "" {
			text = icon + " " + text
		}
	}
	return text
}
