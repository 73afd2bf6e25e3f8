// Package cel evaluates --expression queries against a jsonvalue document.
// The document is bound to the variable "_".
package cel

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// RootVar is the CEL variable holding the document.
const RootVar = "_"

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// Result is the outcome of an evaluation. Path is set when the expression was a
// plain path into the document, so callers can focus the addressed node.
type Result struct {
	Value  jsonvalue.Value
	Path   jsonvalue.Path
	IsPath bool
}

// NewEvaluator creates a new CEL evaluator with the standard extension libraries.
func NewEvaluator() (*Evaluator, error) {
	env, err := newStandardCELEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Environment returns the CEL environment for introspection.
func (e *Evaluator) Environment() *cel.Env {
	return e.env
}

func newStandardCELEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 5+len(opts))
	allOpts = append(allOpts,
		cel.Variable(RootVar, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	return cel.NewEnv(allOpts...)
}

// plainPathRe matches expressions that only select a node: _.a.b[0]["c.d"].
var plainPathRe = regexp.MustCompile(`^(?:_|\$)?(?:\.?[A-Za-z0-9_-]+|\[(?:\d+|"(?:[^"\\]|\\.)*")\])*$`)

// IsPlainPath reports whether expr only walks into the document. Such
// expressions are resolved directly so member order and the node's path survive.
func IsPlainPath(expr string) bool {
	expr = strings.TrimSpace(expr)
	return expr != "" && plainPathRe.MatchString(expr)
}

// Evaluate runs expr against root. Plain paths resolve without CEL; anything
// else is compiled and evaluated, and the result converted back to a Value.
// CEL results built from maps have their keys sorted.
func (e *Evaluator) Evaluate(expr string, root jsonvalue.Value) (Result, error) {
	if IsPlainPath(expr) {
		path, err := jsonvalue.ParsePath(root, expr)
		switch {
		case err == nil:
			v, err := jsonvalue.At(root, path)
			if err != nil {
				return Result{}, err
			}
			return Result{Value: v, Path: path, IsPath: true}, nil
		case !strings.Contains(expr, "-"):
			return Result{}, err
		}
		// "_.a-b" is a subtraction in CEL when no key "a-b" exists
	}

	out, err := e.EvaluateAny(expr, jsonvalue.ToAny(root))
	if err != nil {
		return Result{}, err
	}
	v, err := jsonvalue.FromAny(out)
	if err != nil {
		return Result{}, fmt.Errorf("convert result: %w", err)
	}
	return Result{Value: v}, nil
}

// EvaluateAny evaluates expr with data bound to "_" and returns plain Go values.
func (e *Evaluator) EvaluateAny(expr string, data any) (any, error) {
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	result, _, err := prg.Eval(map[string]any{RootVar: data})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	return ToGo(result), nil
}

// ToGo converts CEL values to Go values recursively. Lists become []any and
// maps become map[string]any with keys rendered by fmt.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	case traits.Lister:
		out := make([]any, 0, int(sizeOf(v)))
		for it := v.Iterator(); it.HasNext() == types.True; {
			out = append(out, ToGo(it.Next()))
		}
		return out
	case traits.Mapper:
		out := make(map[string]any, int(sizeOf(v)))
		for it := v.Iterator(); it.HasNext() == types.True; {
			k := it.Next()
			out[fmt.Sprint(ToGo(k))] = ToGo(v.Get(k))
		}
		return out
	}
	return val.Value()
}

func sizeOf(s traits.Sizer) types.Int {
	if n, ok := s.Size().(types.Int); ok {
		return n
	}
	return 0
}

// Functions lists the non-operator functions and macros of the environment,
// sorted by name. Shown in the viewer's help.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	for _, fn := range e.env.Functions() {
		if !isOperator(fn.Name()) {
			seen[fn.Name()] = true
		}
	}
	for _, m := range e.env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]", "_?_:_":
		return true
	}
	return false
}
