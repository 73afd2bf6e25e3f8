package cel

import (
	"errors"
	"testing"

	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

func parse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	require.NoError(t, err)
	return v
}

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	eval, err := NewEvaluator()
	require.NoError(t, err)
	require.NotNil(t, eval.Environment())
	return eval
}

func TestEvaluatePlainPath(t *testing.T) {
	eval := newEvaluator(t)
	root := parse(t, `{"items":[{"z":1,"a":2}],"meta":{"a.b":"dotted"}}`)

	tests := []struct {
		expr string
		want string
		path string
	}{
		{expr: "_", want: root.String(), path: ""},
		{expr: "_.items[0]", want: `{"z":1,"a":2}`, path: "items.0"},
		{expr: "items.0.a", want: `2`, path: "items.0.a"},
		{expr: `_.meta["a.b"]`, want: `"dotted"`, path: "meta.a.b"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			res, err := eval.Evaluate(tt.expr, root)
			require.NoError(t, err)
			assert.True(t, res.IsPath)
			assert.Equal(t, tt.want, res.Value.String(), "member order is kept")
			assert.Equal(t, tt.path, res.Path.Dotted())
		})
	}
}

func TestEvaluatePlainPathMissing(t *testing.T) {
	eval := newEvaluator(t)
	_, err := eval.Evaluate("_.items[3]", parse(t, `{"items":[1]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonvalue.ErrPath))
}

func TestEvaluateCEL(t *testing.T) {
	eval := newEvaluator(t)
	root := parse(t, `{"x":10,"name":"svc","items":[{"name":"a","ok":true,"price":10},{"name":"b","ok":false,"price":20}]}`)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "equality", expr: "_.x == 10", want: "true"},
		{name: "and", expr: "_.x > 5 && _.x < 20", want: "true"},
		{name: "or", expr: "_.x < 5 || _.x > 20", want: "false"},
		{name: "string ext", expr: "_.name.upperAscii()", want: `"SVC"`},
		{name: "filter", expr: "_.items.filter(i, i.ok).map(i, i.name)", want: `["a"]`},
		{name: "map", expr: "_.items.map(i, i.price)", want: `[10,20]`},
		{name: "size", expr: "size(_.items)", want: "2"},
		{name: "map literal sorted", expr: `{"b": 1, "a": null}`, want: `{"a":null,"b":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := eval.Evaluate(tt.expr, root)
			require.NoError(t, err)
			assert.False(t, res.IsPath)
			assert.Equal(t, tt.want, res.Value.String())
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	eval := newEvaluator(t)
	root := parse(t, `{"x":1}`)

	_, err := eval.Evaluate("_.x ==", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation error")

	_, err = eval.Evaluate("_.missing == 1", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eval error")
}

func TestIsPlainPath(t *testing.T) {
	for _, expr := range []string{"_", "$", "_.a", "a.b.c", "_.items[0].name", `_["a.b"]`, "items.0"} {
		assert.True(t, IsPlainPath(expr), expr)
	}
	for _, expr := range []string{"", "_.x == 1", "_.items.filter(x, x.ok)", "size(_)", "_.a + 1"} {
		assert.False(t, IsPlainPath(expr), expr)
	}
}

func TestToGo(t *testing.T) {
	tests := []struct {
		name string
		in   ref.Val
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "null", in: types.NullValue, want: nil},
		{name: "bool", in: types.Bool(true), want: true},
		{name: "int", in: types.Int(42), want: int64(42)},
		{name: "uint", in: types.Uint(7), want: uint64(7)},
		{name: "double", in: types.Double(3.5), want: 3.5},
		{name: "string", in: types.String("hi"), want: "hi"},
		{name: "bytes", in: types.Bytes("data"), want: []byte("data")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToGo(tt.in))
		})
	}
}

func TestFunctionsExcludeOperators(t *testing.T) {
	funcs := newEvaluator(t).Functions()
	assert.Greater(t, len(funcs), 10)
	assert.Contains(t, funcs, "filter")
	assert.Contains(t, funcs, "size")
	for _, f := range funcs {
		assert.NotEqual(t, byte('@'), f[0], f)
		assert.NotContains(t, f, "_==_")
	}
}
