package jsonvalue

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPath is the sentinel matched by every *PathError.
var ErrPath = errors.New("path error")

// PathError reports a path segment that does not address a node.
type PathError struct {
	Path    Path
	Segment Segment
	Reason  string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %s: %s", e.Path.Display(), e.Reason)
}

// Is makes errors.Is(err, ErrPath) succeed for any *PathError.
func (e *PathError) Is(target error) bool {
	return target == ErrPath
}

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object member.
func Key(k string) Segment { return Segment{key: k} }

// Index returns a segment addressing an array element.
func Index(i int) Segment { return Segment{index: i, isIndex: true} }

// IsIndex reports whether the segment addresses an array element.
func (s Segment) IsIndex() bool { return s.isIndex }

// KeyName returns the object key; empty for index segments.
func (s Segment) KeyName() string { return s.key }

// IndexValue returns the array index; -1 for key segments.
func (s Segment) IndexValue() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String renders the segment as it appears in a dotted path.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// Path addresses a node from the root. The empty path is the root.
type Path []Segment

// PathKey is a comparable, collision-free encoding of a Path used as a map key.
type PathKey string

// RootKey is the key of the empty path.
const RootKey PathKey = "[]"

// Append returns a new path with seg added. The receiver is not modified.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Parent returns the path without its last segment. The root's parent is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])
	return out
}

// Last returns the final segment and false when p is the root.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// IsRoot reports whether p is the empty path.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Equal reports structural equality of two paths.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Key encodes the path as a JSON array of its segments (keys quoted, indices bare).
// Keys containing '.' or any other character cannot collide with segment boundaries.
func (p Path) Key() PathKey {
	if len(p) == 0 {
		return RootKey
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
		} else {
			b.WriteString(strconv.Quote(s.key))
		}
	}
	b.WriteByte(']')
	return PathKey(b.String())
}

// Dotted joins the segments with '.', the form used for copy-path.
// The root renders as the empty string.
func (p Path) Dotted() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

// Display is Dotted with "root" for the empty path.
func (p Path) Display() string {
	if len(p) == 0 {
		return "root"
	}
	return p.Dotted()
}

// Pointer renders the path as an RFC 6901 JSON Pointer.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		if s.isIndex {
			b.WriteString(strconv.Itoa(s.index))
			continue
		}
		esc := strings.ReplaceAll(s.key, "~", "~0")
		b.WriteString(strings.ReplaceAll(esc, "/", "~1"))
	}
	return b.String()
}

// ChildAt returns the child of v addressed by seg.
func ChildAt(v Value, seg Segment) (Value, error) {
	return childAt(v, seg, Path{seg})
}

func childAt(v Value, seg Segment, at Path) (Value, error) {
	switch v.kind {
	case KindArray:
		if !seg.isIndex {
			return Value{}, &PathError{Path: at, Segment: seg, Reason: fmt.Sprintf("expected numeric index into array but got '%s'", seg.key)}
		}
		if seg.index < 0 || seg.index >= len(v.items) {
			return Value{}, &PathError{Path: at, Segment: seg, Reason: fmt.Sprintf("index %d out of range", seg.index)}
		}
		return v.items[seg.index], nil
	case KindObject:
		if seg.isIndex {
			return Value{}, &PathError{Path: at, Segment: seg, Reason: fmt.Sprintf("cannot index object with %d", seg.index)}
		}
		i, ok := v.index[seg.key]
		if !ok {
			return Value{}, &PathError{Path: at, Segment: seg, Reason: fmt.Sprintf("key '%s' not found", seg.key)}
		}
		return v.members[i].Value, nil
	default:
		return Value{}, &PathError{Path: at, Segment: seg, Reason: fmt.Sprintf("cannot descend into %s at '%s'", v.kind, seg)}
	}
}

// At walks path from root and returns the addressed node.
func At(root Value, path Path) (Value, error) {
	cur := root
	for i, seg := range path {
		next, err := childAt(cur, seg, path[:i+1])
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// WithValueAt returns a new root in which the node at path is replaced by
// newValue. Every container on the path is copied; all other nodes are shared
// with root, which is left untouched.
func WithValueAt(root Value, path Path, newValue Value) (Value, error) {
	return withValueAt(root, path, 0, newValue)
}

func withValueAt(cur Value, path Path, depth int, newValue Value) (Value, error) {
	if depth == len(path) {
		return newValue, nil
	}
	seg := path[depth]
	at := path[:depth+1]
	child, err := childAt(cur, seg, at)
	if err != nil {
		return Value{}, err
	}
	replaced, err := withValueAt(child, path, depth+1, newValue)
	if err != nil {
		return Value{}, err
	}
	switch cur.kind {
	case KindArray:
		items := make([]Value, len(cur.items))
		copy(items, cur.items)
		items[seg.index] = replaced
		return Value{kind: KindArray, items: items}, nil
	default:
		members := make([]Member, len(cur.members))
		copy(members, cur.members)
		members[cur.index[seg.key]].Value = replaced
		// keys are unchanged so the index can be shared
		return Value{kind: KindObject, members: members, index: cur.index}, nil
	}
}

// Resolve converts raw string segments into a typed Path against root:
// a segment addressing an array must be a decimal index, anything else is a key.
func Resolve(root Value, raw ...string) (Path, error) {
	path := make(Path, 0, len(raw))
	cur := root
	for _, r := range raw {
		var seg Segment
		if cur.kind == KindArray {
			idx, err := strconv.Atoi(r)
			if err != nil {
				return nil, &PathError{Path: path.Append(Key(r)), Segment: Key(r), Reason: fmt.Sprintf("expected numeric index into array but got '%s'", r)}
			}
			seg = Index(idx)
		} else {
			seg = Key(r)
		}
		path = path.Append(seg)
		next, err := childAt(cur, seg, path)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return path, nil
}

// ParsePath parses a dotted or bracketed path expression and resolves it
// against root. Examples: "items.0.name", "items[0].name", `meta["a.b"]`.
// A bracket-quoted segment is always a key.
func ParsePath(root Value, expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "_" || expr == "$" {
		return Path{}, nil
	}
	expr = strings.TrimPrefix(strings.TrimPrefix(expr, "_"), "$")

	path := Path{}
	cur := root
	step := func(raw string, quoted bool) error {
		var seg Segment
		if cur.kind == KindArray && !quoted {
			idx, err := strconv.Atoi(raw)
			if err != nil {
				return &PathError{Path: path.Append(Key(raw)), Segment: Key(raw), Reason: fmt.Sprintf("expected numeric index into array but got '%s'", raw)}
			}
			seg = Index(idx)
		} else {
			seg = Key(raw)
		}
		path = path.Append(seg)
		next, err := childAt(cur, seg, path)
		if err != nil {
			return err
		}
		cur = next
		return nil
	}

	var current strings.Builder
	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		s := current.String()
		current.Reset()
		return step(s, false)
	}
	for i := 0; i < len(expr); i++ {
		ch := expr[i]
		switch ch {
		case '.':
			if err := flush(); err != nil {
				return nil, err
			}
		case '[':
			if err := flush(); err != nil {
				return nil, err
			}
			j := strings.IndexByte(expr[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated '[' in %q", ErrPath, expr)
			}
			inner := expr[i+1 : i+j]
			quoted := len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"'
			if quoted {
				unq, err := strconv.Unquote(inner)
				if err != nil {
					unq = inner[1 : len(inner)-1]
				}
				inner = unq
			}
			if err := step(inner, quoted); err != nil {
				return nil, err
			}
			i += j
		default:
			current.WriteByte(ch)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return path, nil
}
