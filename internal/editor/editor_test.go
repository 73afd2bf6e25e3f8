package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

func TestInfer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"null", "null"},
		{" true ", "true"},
		{"false", "false"},
		{"42", "42"},
		{"-3.5", "-3.5"},
		{"007", "7"},
		{`"42"`, `"42"`},
		{`"`, `"\""`},
		{`""`, `""`},
		{`"a"b"`, `"a\"b"`},
		{"1e5", `"1e5"`},
		{"3.", `"3."`},
		{".5", `".5"`},
		{"+1", `"+1"`},
		{"hello world", `"hello world"`},
		{"  padded  ", `"padded"`},
		{"", `""`},
		{"NULL", `"NULL"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Infer(tt.in).String())
		})
	}
}

func TestInferHugeIntegerStaysString(t *testing.T) {
	digits := "1"
	for range 400 {
		digits += "0"
	}
	v := Infer(digits)
	assert.Equal(t, jsonvalue.KindString, v.Kind())
}

func TestPreviewType(t *testing.T) {
	assert.Equal(t, "string", PreviewType(""))
	assert.Equal(t, "string", PreviewType("   "))
	assert.Equal(t, "null", PreviewType("null"))
	assert.Equal(t, "boolean", PreviewType("false"))
	assert.Equal(t, "number", PreviewType("-12.25"))
	assert.Equal(t, "string", PreviewType(`"12"`))
	assert.Equal(t, "string", PreviewType("abc"))
}

func TestInitialText(t *testing.T) {
	assert.Equal(t, "hi", InitialText(jsonvalue.String("hi")))
	assert.Equal(t, "null", InitialText(jsonvalue.Null()))
	assert.Equal(t, "true", InitialText(jsonvalue.Bool(true)))
	assert.Equal(t, "1.5", InitialText(jsonvalue.MustNumber(1.5)))
}

func TestEditorCommit(t *testing.T) {
	ed, err := New(jsonvalue.String("old"))
	require.NoError(t, err)
	assert.Equal(t, Editing, ed.Status())
	assert.Equal(t, "old", ed.Buffer())

	require.NoError(t, ed.SetBuffer("5000"))
	assert.Equal(t, "number", ed.PreviewType())

	v, err := ed.Commit()
	require.NoError(t, err)
	assert.Equal(t, float64(5000), v.AsNumber())
	assert.Equal(t, Committed, ed.Status())
	assert.True(t, ed.Changed())

	got, ok := ed.Result()
	assert.True(t, ok)
	assert.True(t, jsonvalue.Equal(v, got))
}

func TestEditorCancel(t *testing.T) {
	ed, err := New(jsonvalue.MustNumber(1))
	require.NoError(t, err)
	require.NoError(t, ed.SetBuffer("2"))
	require.NoError(t, ed.Cancel())
	assert.Equal(t, Cancelled, ed.Status())

	_, ok := ed.Result()
	assert.False(t, ok)
	assert.False(t, ed.Changed())
}

func TestEditorFinishedIsNoOp(t *testing.T) {
	ed, err := New(jsonvalue.Bool(true))
	require.NoError(t, err)
	_, err = ed.Commit()
	require.NoError(t, err)

	assert.ErrorIs(t, ed.SetBuffer("x"), ErrFinished)
	assert.Equal(t, "true", ed.Buffer())
	_, err = ed.Commit()
	assert.ErrorIs(t, err, ErrFinished)
	assert.ErrorIs(t, ed.Cancel(), ErrFinished)
	assert.Equal(t, Committed, ed.Status())
}

func TestEditorUnchangedCommit(t *testing.T) {
	ed, err := New(jsonvalue.String("same"))
	require.NoError(t, err)
	_, err = ed.Commit()
	require.NoError(t, err)
	assert.False(t, ed.Changed())
}

func TestNewRejectsContainers(t *testing.T) {
	_, err := New(jsonvalue.Array())
	assert.ErrorIs(t, err, ErrNotEditable)
	_, err = New(jsonvalue.Object())
	assert.ErrorIs(t, err, ErrNotEditable)
}
