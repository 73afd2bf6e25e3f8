package editor

import (
	"errors"
	"fmt"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

var (
	// ErrFinished is returned by operations on an editor that was already committed or cancelled.
	ErrFinished = errors.New("edit session already finished")
	// ErrNotEditable is returned by New for arrays and objects.
	ErrNotEditable = errors.New("only scalar values can be edited inline")
)

// Status is the lifecycle state of an Editor.
type Status int

const (
	Editing Status = iota
	Committed
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Editing:
		return "editing"
	case Committed:
		return "committed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Editor is a single inline edit session for one scalar.
type Editor struct {
	original jsonvalue.Value
	buffer   string
	status   Status
	result   jsonvalue.Value
}

// New starts an edit session for v with the buffer set to InitialText(v).
func New(v jsonvalue.Value) (*Editor, error) {
	if v.IsContainer() {
		return nil, fmt.Errorf("%w: got %s", ErrNotEditable, v.Kind())
	}
	return &Editor{original: v, buffer: InitialText(v)}, nil
}

// Status reports the current lifecycle state.
func (e *Editor) Status() Status { return e.status }

// Buffer returns the current text.
func (e *Editor) Buffer() string { return e.buffer }

// Original returns the value the session was started with.
func (e *Editor) Original() jsonvalue.Value { return e.original }

// PreviewType is the kind the buffer would commit as.
func (e *Editor) PreviewType() string { return PreviewType(e.buffer) }

// SetBuffer replaces the text being edited.
func (e *Editor) SetBuffer(text string) error {
	if e.status != Editing {
		return ErrFinished
	}
	e.buffer = text
	return nil
}

// Commit ends the session and returns the inferred value. Enter and losing
// focus both commit.
func (e *Editor) Commit() (jsonvalue.Value, error) {
	if e.status != Editing {
		return jsonvalue.Value{}, ErrFinished
	}
	e.status = Committed
	e.result = Infer(e.buffer)
	return e.result, nil
}

// Cancel ends the session without producing a value.
func (e *Editor) Cancel() error {
	if e.status != Editing {
		return ErrFinished
	}
	e.status = Cancelled
	return nil
}

// Result returns the committed value and whether the session was committed.
func (e *Editor) Result() (jsonvalue.Value, bool) {
	return e.result, e.status == Committed
}

// Changed reports whether a committed value differs from the original.
func (e *Editor) Changed() bool {
	return e.status == Committed && !jsonvalue.Equal(e.original, e.result)
}
