package render

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// ErrNoCopyTarget is returned when OnCopy is not configured.
var ErrNoCopyTarget = errors.New("no copy handler configured")

// Actions connects tree lines to the host. OnCopy receives text to place on
// the clipboard; OnDataChange receives the new root after a commit.
type Actions struct {
	OnCopy       func(text string) error
	OnDataChange func(root jsonvalue.Value)
}

// CopyText is the clipboard form of a value: strings verbatim, everything
// else as JSON indented by two spaces.
func CopyText(v jsonvalue.Value) string {
	if v.Kind() == jsonvalue.KindString {
		return v.AsString()
	}
	return string(jsonvalue.MarshalIndent(v, "  "))
}

// CopyValue copies the line's value.
func (a Actions) CopyValue(line Line) error {
	return a.copy(CopyText(line.Value))
}

// CopyKey copies the line's key. Lines without a key (the root) are ignored.
func (a Actions) CopyKey(line Line) error {
	if !line.HasKey {
		return nil
	}
	return a.copy(line.Key)
}

// CopyPath copies the dot-joined path of the line; the root copies as "".
func (a Actions) CopyPath(line Line) error {
	return a.copy(line.Path.Dotted())
}

func (a Actions) copy(text string) error {
	if a.OnCopy == nil {
		return ErrNoCopyTarget
	}
	return a.OnCopy(text)
}

// Commit replaces the node at path with newValue and hands the resulting root
// to OnDataChange. root itself is left untouched and tree state is not
// consulted, so expansion and focus survive the edit.
func (a Actions) Commit(root jsonvalue.Value, path jsonvalue.Path, newValue jsonvalue.Value) (jsonvalue.Value, error) {
	updated, err := jsonvalue.WithValueAt(root, path, newValue)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("commit edit: %w", err)
	}
	if a.OnDataChange != nil {
		a.OnDataChange(updated)
	}
	return updated, nil
}
