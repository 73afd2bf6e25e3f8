// Package editlog records the inline edits made to a document and exports
// them as an RFC 6902 JSON Patch or as a line diff of the formatted text.
package editlog

import (
	"errors"
	"fmt"
	"time"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// ErrDiverged is returned by Verify when replaying the patch on the base
// document does not reproduce the current document.
var ErrDiverged = errors.New("edit log does not reproduce the current document")

// Entry is one committed edit.
type Entry struct {
	Path jsonvalue.Path
	Old  jsonvalue.Value
	New  jsonvalue.Value
	At   time.Time
}

// Log is an append-only list of edits applied on top of a base document.
type Log struct {
	base    jsonvalue.Value
	entries []Entry
	now     func() time.Time
}

// New starts an empty log for base.
func New(base jsonvalue.Value) *Log {
	return &Log{base: base, now: time.Now}
}

// Base returns the document the log starts from.
func (l *Log) Base() jsonvalue.Value { return l.base }

// Record appends an edit. Edits that do not change the value are dropped.
func (l *Log) Record(path jsonvalue.Path, old, updated jsonvalue.Value) {
	if jsonvalue.Equal(old, updated) {
		return
	}
	l.entries = append(l.entries, Entry{
		Path: append(jsonvalue.Path{}, path...),
		Old:  old,
		New:  updated,
		At:   l.now(),
	})
}

// Len returns the number of recorded edits.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the recorded edits in order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Patch renders the edits as a JSON Patch document: a "test" of the old value
// followed by a "replace" with the new one for every edit.
func (l *Log) Patch() ([]byte, error) {
	ops := make([]jsonvalue.Value, 0, 2*len(l.entries))
	for _, e := range l.entries {
		ptr := jsonvalue.String(e.Path.Pointer())
		ops = append(ops,
			jsonvalue.Object(
				jsonvalue.Member{Key: "op", Value: jsonvalue.String("test")},
				jsonvalue.Member{Key: "path", Value: ptr},
				jsonvalue.Member{Key: "value", Value: e.Old},
			),
			jsonvalue.Object(
				jsonvalue.Member{Key: "op", Value: jsonvalue.String("replace")},
				jsonvalue.Member{Key: "path", Value: ptr},
				jsonvalue.Member{Key: "value", Value: e.New},
			),
		)
	}
	data := jsonvalue.MarshalIndent(jsonvalue.Array(ops...), "  ")
	if _, err := jsonpatch.DecodePatch(data); err != nil {
		return nil, fmt.Errorf("encode edit log: %w", err)
	}
	return data, nil
}

// Verify replays the patch on the base document and checks that it yields current.
func (l *Log) Verify(current jsonvalue.Value) error {
	if len(l.entries) == 0 {
		if jsonvalue.Equal(l.base, current) {
			return nil
		}
		return ErrDiverged
	}
	data, err := l.Patch()
	if err != nil {
		return err
	}
	out, err := ApplyPatch(jsonvalue.Marshal(l.base), data)
	if err != nil {
		return err
	}
	if !jsonpatch.Equal(out, jsonvalue.Marshal(current)) {
		return ErrDiverged
	}
	return nil
}

// ApplyPatch applies an RFC 6902 patch to a JSON document.
func ApplyPatch(doc, patch []byte) ([]byte, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}
	out, err := p.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}
