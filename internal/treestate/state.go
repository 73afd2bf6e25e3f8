// Package treestate tracks which containers of a JSON tree are expanded and
// which node has focus. Every transition returns a new State; the receiver is
// never modified, so a State can be kept as a snapshot.
package treestate

import (
	"sort"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// State is the expand/collapse and focus state of one tree view.
type State struct {
	expanded map[jsonvalue.PathKey]struct{}
	focused  jsonvalue.Path
	hasFocus bool
}

// New returns a State with only the root expanded and no focus.
func New() State {
	return State{expanded: map[jsonvalue.PathKey]struct{}{jsonvalue.RootKey: {}}}
}

func (s State) clone() State {
	exp := make(map[jsonvalue.PathKey]struct{}, len(s.expanded))
	for k := range s.expanded {
		exp[k] = struct{}{}
	}
	return State{expanded: exp, focused: s.focused, hasFocus: s.hasFocus}
}

// IsExpanded reports whether the container at path is expanded.
func (s State) IsExpanded(path jsonvalue.Path) bool {
	_, ok := s.expanded[path.Key()]
	return ok
}

// Focused returns the focused path, if any.
func (s State) Focused() (jsonvalue.Path, bool) {
	return s.focused, s.hasFocus
}

// IsFocused reports whether path is the focused node.
func (s State) IsFocused(path jsonvalue.Path) bool {
	return s.hasFocus && s.focused.Equal(path)
}

// Expanded returns the expanded path keys in sorted order.
func (s State) Expanded() []jsonvalue.PathKey {
	keys := make([]jsonvalue.PathKey, 0, len(s.expanded))
	for k := range s.expanded {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Toggle flips the expansion of path.
func (s State) Toggle(path jsonvalue.Path) State {
	out := s.clone()
	k := path.Key()
	if _, ok := out.expanded[k]; ok {
		delete(out.expanded, k)
	} else {
		out.expanded[k] = struct{}{}
	}
	return out
}

// SetExpanded sets the expansion of path explicitly.
func (s State) SetExpanded(path jsonvalue.Path, expanded bool) State {
	if s.IsExpanded(path) == expanded {
		return s
	}
	return s.Toggle(path)
}

// ToggleRecursive expands (or collapses) the container at path together with
// every descendant container, where node is the value found at path.
func (s State) ToggleRecursive(node jsonvalue.Value, path jsonvalue.Path, expand bool) State {
	out := s.clone()
	visitContainers(node, path, func(p jsonvalue.Path) {
		if expand {
			out.expanded[p.Key()] = struct{}{}
		} else {
			delete(out.expanded, p.Key())
		}
	})
	if !node.IsContainer() {
		// a scalar target still toggles its own key
		if expand {
			out.expanded[path.Key()] = struct{}{}
		} else {
			delete(out.expanded, path.Key())
		}
	}
	return out
}

// Focus moves focus to path.
func (s State) Focus(path jsonvalue.Path) State {
	out := s.clone()
	out.focused = append(jsonvalue.Path{}, path...)
	out.hasFocus = true
	return out
}

// ExpandAll expands the root and every container of root. Focus is kept.
func (s State) ExpandAll(root jsonvalue.Value) State {
	out := State{
		expanded: map[jsonvalue.PathKey]struct{}{jsonvalue.RootKey: {}},
		focused:  s.focused,
		hasFocus: s.hasFocus,
	}
	for _, p := range ContainerPaths(root) {
		out.expanded[p.Key()] = struct{}{}
	}
	return out
}

// CollapseAll leaves only the root expanded. Focus is kept.
func (s State) CollapseAll() State {
	out := New()
	out.focused = s.focused
	out.hasFocus = s.hasFocus
	return out
}

// Prune drops expansion entries that no longer address a container in root
// and clears a focus that no longer addresses any node. The root key is kept.
func (s State) Prune(root jsonvalue.Value) State {
	valid := make(map[jsonvalue.PathKey]struct{})
	visitContainers(root, jsonvalue.Path{}, func(p jsonvalue.Path) {
		valid[p.Key()] = struct{}{}
	})
	out := State{expanded: make(map[jsonvalue.PathKey]struct{}, len(s.expanded))}
	for k := range s.expanded {
		if _, ok := valid[k]; ok || k == jsonvalue.RootKey {
			out.expanded[k] = struct{}{}
		}
	}
	if s.hasFocus {
		if _, err := jsonvalue.At(root, s.focused); err == nil {
			out.focused = s.focused
			out.hasFocus = true
		}
	}
	return out
}

// ContainerPaths lists the path of every container below root in pre-order,
// array elements by index and object members in insertion order. The root
// itself is not included.
func ContainerPaths(root jsonvalue.Value) []jsonvalue.Path {
	var paths []jsonvalue.Path
	visitContainers(root, jsonvalue.Path{}, func(p jsonvalue.Path) {
		if !p.IsRoot() {
			paths = append(paths, p)
		}
	})
	return paths
}

func visitContainers(v jsonvalue.Value, path jsonvalue.Path, fn func(jsonvalue.Path)) {
	if !v.IsContainer() {
		return
	}
	fn(path)
	for _, c := range v.Children() {
		if c.Value.IsContainer() {
			visitContainers(c.Value, path.Append(c.Segment), fn)
		}
	}
}
