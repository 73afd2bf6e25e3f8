// Package core is the embeddable jsonlens API: load a document, evaluate
// expressions against it, render it as tree lines or text and replace scalar
// values the same way the tree viewer does.
package core

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jsonlens/internal/cel"
	"github.com/oakwood-commons/jsonlens/internal/editor"
	"github.com/oakwood-commons/jsonlens/internal/formatter"
	"github.com/oakwood-commons/jsonlens/internal/render"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
)

type (
	// Result is an expression result; Path is set when the expression was a plain path.
	Result = cel.Result
	// Line is one rendered row of the tree.
	Line = render.Line
	// RenderOptions controls how lines are rendered.
	RenderOptions = render.Options
	// TreeState holds the expanded paths and focus of a tree.
	TreeState = treestate.State
)

// Evaluator evaluates expressions against a root value.
type Evaluator interface {
	Evaluate(expr string, root jsonvalue.Value) (Result, error)
}

// Formatter renders a value in one of the output formats.
type Formatter interface {
	Format(v jsonvalue.Value, output string, indent int) (string, error)
}

// Engine bundles an evaluator and formatter behind one API.
type Engine struct {
	Evaluator Evaluator
	Formatter Formatter
	Indent    int
	Logger    logr.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithEvaluator sets a custom evaluator.
func WithEvaluator(e Evaluator) Option {
	return func(c *Engine) {
		c.Evaluator = e
	}
}

// WithFormatter sets a custom formatter.
func WithFormatter(f Formatter) Option {
	return func(c *Engine) {
		c.Formatter = f
	}
}

// WithIndent sets the indentation width used by Format.
func WithIndent(n int) Option {
	return func(c *Engine) {
		c.Indent = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(lgr logr.Logger) Option {
	return func(c *Engine) {
		c.Logger = lgr
	}
}

// New creates an Engine with the CEL evaluator and the built-in formatter.
func New(opts ...Option) (*Engine, error) {
	engine := &Engine{
		Indent: 2,
		Logger: logr.Discard(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.Evaluator == nil {
		eval, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		engine.Evaluator = eval
	}
	if engine.Formatter == nil {
		engine.Formatter = defaultFormatter{}
	}
	return engine, nil
}

// LoadBytes decodes JSON, YAML or TOML input into a value.
func LoadBytes(data []byte) (jsonvalue.Value, error) {
	return loader.Load(data, loader.FormatAuto)
}

// LoadFile reads and decodes a file, detecting its format from the content.
func LoadFile(path string) (jsonvalue.Value, error) {
	return loader.LoadFile(path, loader.FormatAuto)
}

// LoadObject converts an already decoded Go value (maps, slices, scalars).
func LoadObject(value any) (jsonvalue.Value, error) {
	if value == nil {
		return jsonvalue.Value{}, fmt.Errorf("load object: nil value")
	}
	return jsonvalue.FromAny(value)
}

// Evaluate runs the evaluator against root.
func (e *Engine) Evaluate(expr string, root jsonvalue.Value) (Result, error) {
	if e == nil || e.Evaluator == nil {
		return Result{}, fmt.Errorf("evaluator is not configured")
	}
	res, err := e.Evaluator.Evaluate(expr, root)
	if err != nil {
		return Result{}, err
	}
	e.Logger.V(1).Info("expression evaluated", "expression", expr, "plain_path", res.IsPath)
	return res, nil
}

// Lines renders the visible rows of root for state.
func (e *Engine) Lines(root jsonvalue.Value, state TreeState, opts RenderOptions) []Line {
	return render.Walk(root, state, opts)
}

// Format renders v as json, minify, yaml or tree output.
func (e *Engine) Format(v jsonvalue.Value, output string) (string, error) {
	if e == nil || e.Formatter == nil {
		return "", fmt.Errorf("formatter is not configured")
	}
	return e.Formatter.Format(v, output, e.Indent)
}

// Change describes one committed scalar replacement.
type Change struct {
	Root jsonvalue.Value
	Path jsonvalue.Path
	Old  jsonvalue.Value
	New  jsonvalue.Value
}

// Set parses raw the way the inline editor does and writes it at the dotted
// path. Only scalar values can be replaced.
func (e *Engine) Set(root jsonvalue.Value, path, raw string) (Change, error) {
	p, err := jsonvalue.ParsePath(root, path)
	if err != nil {
		return Change{}, err
	}
	old, err := jsonvalue.At(root, p)
	if err != nil {
		return Change{}, err
	}
	ed, err := editor.New(old)
	if err != nil {
		return Change{}, fmt.Errorf("%s: %w", p.Display(), err)
	}
	if err := ed.SetBuffer(raw); err != nil {
		return Change{}, err
	}
	newValue, err := ed.Commit()
	if err != nil {
		return Change{}, err
	}
	updated, err := render.Actions{}.Commit(root, p, newValue)
	if err != nil {
		return Change{}, err
	}
	e.Logger.V(1).Info("value set", "path", p.Display(), "type", newValue.Kind().String())
	return Change{Root: updated, Path: p, Old: old, New: newValue}, nil
}

type defaultFormatter struct{}

func (defaultFormatter) Format(v jsonvalue.Value, output string, indent int) (string, error) {
	switch output {
	case formatter.OutputJSON, "":
		return formatter.Format(v, indent), nil
	case formatter.OutputMinify:
		return formatter.Minify(v), nil
	case formatter.OutputYAML:
		return formatter.FormatYAML(v, formatter.YAMLFormatOptions{Indent: indent, LiteralBlockStrings: true})
	case formatter.OutputTree:
		return formatter.FormatAsTree(v, formatter.TreeOptions{Icons: true}), nil
	default:
		return "", formatter.ValidateOutput(output)
	}
}
