package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/internal/editor"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

type recorder struct {
	copied  []string
	changes []jsonvalue.Value
}

func (r *recorder) actions() Actions {
	return Actions{
		OnCopy: func(text string) error {
			r.copied = append(r.copied, text)
			return nil
		},
		OnDataChange: func(v jsonvalue.Value) { r.changes = append(r.changes, v) },
	}
}

func TestCopyValue(t *testing.T) {
	doc := parse(t, `{"s":"plain \"text\"","o":{"a":[1]}}`)
	lines := Walk(doc, treestate.New(), Options{})
	var r recorder
	a := r.actions()

	require.NoError(t, a.CopyValue(lines[1]))
	require.NoError(t, a.CopyValue(lines[2]))
	assert.Equal(t, []string{
		`plain "text"`,
		"{\n  \"a\": [\n    1\n  ]\n}",
	}, r.copied)
}

func TestCopyKeyAndPath(t *testing.T) {
	doc := parse(t, `{"list":[{"id":7}]}`)
	state := treestate.New().ExpandAll(doc)
	lines := Walk(doc, state, Options{})
	var r recorder
	a := r.actions()

	require.NoError(t, a.CopyKey(lines[0]))
	assert.Empty(t, r.copied, "root has no key")

	require.NoError(t, a.CopyKey(lines[2]))
	require.NoError(t, a.CopyPath(lines[3]))
	require.NoError(t, a.CopyPath(lines[0]))
	assert.Equal(t, []string{"0", "list.0.id", ""}, r.copied)
}

func TestCopyWithoutHandler(t *testing.T) {
	err := Actions{}.CopyValue(Line{Value: jsonvalue.Null()})
	assert.ErrorIs(t, err, ErrNoCopyTarget)
}

func TestCopyErrorPropagates(t *testing.T) {
	boom := errors.New("clipboard unavailable")
	a := Actions{OnCopy: func(string) error { return boom }}
	assert.ErrorIs(t, a.CopyPath(Line{}), boom)
}

func TestCommitScenario(t *testing.T) {
	doc := parse(t, `{"x":[1,{"y":"z"}]}`)
	path, err := jsonvalue.Resolve(doc, "x", "1", "y")
	require.NoError(t, err)

	ed, err := editor.New(jsonvalue.String("z"))
	require.NoError(t, err)
	require.NoError(t, ed.SetBuffer("Z"))
	v, err := ed.Commit()
	require.NoError(t, err)

	var r recorder
	updated, err := r.actions().Commit(doc, path, v)
	require.NoError(t, err)
	require.Len(t, r.changes, 1)
	assert.Equal(t, `{"x":[1,{"y":"Z"}]}`, r.changes[0].String())
	assert.True(t, jsonvalue.Equal(updated, r.changes[0]))
	assert.Equal(t, `{"x":[1,{"y":"z"}]}`, doc.String())
}

func TestCommitKeepsTreeState(t *testing.T) {
	doc := parse(t, `{"a":{"b":1}}`)
	state := treestate.New().ExpandAll(doc).Focus(jsonvalue.Path{jsonvalue.Key("a"), jsonvalue.Key("b")})
	before := state.Expanded()

	updated, err := Actions{}.Commit(doc, jsonvalue.Path{jsonvalue.Key("a"), jsonvalue.Key("b")}, jsonvalue.Bool(true))
	require.NoError(t, err)

	lines := Walk(updated, state, Options{})
	assert.Equal(t, before, state.Expanded())
	assert.Equal(t, "true", lines[2].Display)
	assert.True(t, lines[2].Focused)
}

func TestCommitInvalidPath(t *testing.T) {
	var r recorder
	_, err := r.actions().Commit(parse(t, `[1]`), jsonvalue.Path{jsonvalue.Index(5)}, jsonvalue.Null())
	require.ErrorIs(t, err, jsonvalue.ErrPath)
	assert.Empty(t, r.changes)
}

func TestTriggers(t *testing.T) {
	doc := parse(t, `{"a":{"b":{}}}`)
	trig := NewTriggers(TriggerConfig{ExpandAllTrigger: 3})
	state := treestate.New()

	state = trig.Apply(state, doc, TriggerConfig{ExpandAllTrigger: 3})
	assert.Len(t, state.Expanded(), 1, "unchanged counter does nothing")

	state = trig.Apply(state, doc, TriggerConfig{ExpandAllTrigger: 4})
	assert.Len(t, state.Expanded(), 3)

	state = trig.Apply(state, doc, TriggerConfig{ExpandAllTrigger: 4})
	assert.Len(t, state.Expanded(), 3)

	state = trig.Apply(state, doc, TriggerConfig{ExpandAllTrigger: 4, CollapseAllTrigger: 1})
	assert.Len(t, state.Expanded(), 1)

	state = trig.Apply(state, doc, TriggerConfig{ExpandAllTrigger: 5, CollapseAllTrigger: 2})
	assert.Len(t, state.Expanded(), 1, "collapse wins when both counters move")
}
