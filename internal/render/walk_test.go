package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

func parse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func dotted(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Path.Display()
	}
	return out
}

func TestWalkCollapsedShowsRootChildren(t *testing.T) {
	doc := parse(t, `{"a":{"b":1},"c":[1,2]}`)
	lines := Walk(doc, treestate.New(), Options{})
	assert.Equal(t, []string{"root", "a", "c"}, dotted(lines))

	assert.False(t, lines[0].HasKey)
	assert.True(t, lines[0].Expanded)
	assert.Equal(t, "{}", lines[0].Display)
	assert.Equal(t, "a", lines[1].Key)
	assert.Equal(t, 1, lines[1].Depth)
	assert.False(t, lines[1].Expanded)
	assert.Equal(t, "[] (2)", lines[2].Display)
	assert.Equal(t, 2, lines[2].ChildCount)
}

func TestWalkExpandAllOrder(t *testing.T) {
	doc := parse(t, `{"z":{"b":1},"a":[true,null]}`)
	lines := Walk(doc, treestate.New().ExpandAll(doc), Options{})
	assert.Equal(t, []string{"root", "z", "z.b", "a", "a.0", "a.1"}, dotted(lines))
	assert.Equal(t, "0", lines[4].Key)
	assert.Equal(t, 2, lines[4].Depth)
	assert.Equal(t, "true", lines[4].Display)
	assert.Equal(t, "null", lines[5].Display)
}

func TestWalkRootNotExpanded(t *testing.T) {
	doc := parse(t, `[1,2]`)
	state := treestate.New().Toggle(jsonvalue.Path{})
	lines := Walk(doc, state, Options{})
	require.Len(t, lines, 1)
	assert.False(t, lines[0].Expanded)
}

func TestWalkScalarRoot(t *testing.T) {
	lines := Walk(jsonvalue.MustNumber(1e21), treestate.New(), Options{InlineEdit: true})
	require.Len(t, lines, 1)
	assert.Equal(t, "1e+21", lines[0].Display)
	assert.False(t, lines[0].Expandable)
	assert.False(t, lines[0].Expanded)
	assert.True(t, lines[0].Editable)
}

func TestWalkFocusAndStalePaths(t *testing.T) {
	doc := parse(t, `{"a":[{"b":2}]}`)
	a0 := jsonvalue.Path{jsonvalue.Key("a"), jsonvalue.Index(0)}
	state := treestate.New().
		Toggle(jsonvalue.Path{jsonvalue.Key("a")}).
		Toggle(a0).
		Toggle(jsonvalue.Path{jsonvalue.Key("gone"), jsonvalue.Index(3)}).
		Focus(a0)

	lines := Walk(doc, state, Options{})
	assert.Equal(t, []string{"root", "a", "a.0", "a.0.b"}, dotted(lines))
	idx := FindLine(lines, a0)
	require.Equal(t, 2, idx)
	assert.True(t, lines[idx].Focused)
	assert.Equal(t, -1, FindLine(lines, jsonvalue.Path{jsonvalue.Key("gone")}))

	stale := Walk(doc, treestate.New().Focus(jsonvalue.Path{jsonvalue.Key("x")}), Options{})
	for _, l := range stale {
		assert.False(t, l.Focused)
	}
}

func TestWalkDotInKeyDoesNotCollide(t *testing.T) {
	doc := parse(t, `{"a.b":{"x":1},"a":{"b":{"y":2}}}`)
	state := treestate.New().Toggle(jsonvalue.Path{jsonvalue.Key("a.b")})
	lines := Walk(doc, state, Options{})
	require.Len(t, lines, 4)
	assert.Equal(t, "x", lines[2].Key)
	assert.False(t, lines[3].Expanded)
}

func TestWalkEditable(t *testing.T) {
	doc := parse(t, `{"s":"x","o":{}}`)
	lines := Walk(doc, treestate.New(), Options{InlineEdit: true})
	assert.True(t, lines[1].Editable)
	assert.False(t, lines[2].Editable)

	lines = Walk(doc, treestate.New(), Options{})
	assert.False(t, lines[1].Editable)
}

func TestWalkStringTruncation(t *testing.T) {
	long := strings.Repeat("abc def ", 1250)
	doc := jsonvalue.Object(jsonvalue.Member{Key: "text", Value: jsonvalue.String(long)})

	lines := Walk(doc, treestate.New(), Options{MaxStringLen: 1000})
	line := lines[1]
	require.NotNil(t, line.Analysis)
	assert.Equal(t, classify.TypeLongText, line.Analysis.Type)
	assert.True(t, line.Truncated)
	assert.LessOrEqual(t, utf8.RuneCountInString(line.Display), 503)

	opts := Options{ExpandedStrings: map[jsonvalue.PathKey]bool{line.Path.Key(): true}}
	full := Walk(doc, treestate.New(), opts)[1]
	assert.False(t, full.Truncated)
	assert.Equal(t, `"`+long+`"`, full.Display)
}

func TestWalkStringAnalysis(t *testing.T) {
	doc := parse(t, `["https://example.com",1]`)
	lines := Walk(doc, treestate.New(), Options{})
	require.NotNil(t, lines[1].Analysis)
	assert.Equal(t, classify.TypeURL, lines[1].Analysis.Type)
	assert.Nil(t, lines[2].Analysis)
	assert.Equal(t, `"https://example.com"`, lines[1].Display)
}

func TestTooltip(t *testing.T) {
	doc := parse(t, `{"s":"héllo","n":1,"b":false,"z":null,"a":[1],"o":{"k":1,"j":2}}`)
	want := map[string]string{
		"s": "String (5 chars) - Path: s",
		"n": "Number - Path: n",
		"b": "Boolean - Path: b",
		"z": "Null - Path: z",
		"a": "Array (1 items) - Path: a",
		"o": "Object (2 properties) - Path: o",
	}
	for _, line := range Walk(doc, treestate.New(), Options{})[1:] {
		assert.Equal(t, want[line.Key], line.Tooltip)
	}
	assert.Equal(t, "Object (6 properties) - Path: root", Tooltip(doc, nil))
}
