package formatter

import (
	"strings"

	"github.com/fatih/color"

	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// Colors holds one print function per JSON token class.
type Colors struct {
	Key    func(string, ...any) string
	String func(string, ...any) string
	Number func(string, ...any) string
	Bool   func(string, ...any) string
	Null   func(string, ...any) string
	Punct  func(string, ...any) string
}

// NewColors returns the default terminal palette.
func NewColors() *Colors {
	c := &Colors{
		Key:    color.New(color.FgCyan).SprintfFunc(),
		String: color.RGB(8, 196, 16).SprintfFunc(),
		Number: color.RGB(128, 216, 236).SprintfFunc(),
		Bool:   color.New(color.FgMagenta).SprintfFunc(),
		Null:   color.RGB(168, 0, 196).SprintfFunc(),
		Punct:  color.New(color.FgHiBlack).SprintfFunc(),
	}
	// the text is never a format string
	for _, f := range []*func(string, ...any) string{&c.Key, &c.String, &c.Number, &c.Bool, &c.Null, &c.Punct} {
		inner := *f
		*f = func(s string, _ ...any) string {
			return inner(strings.ReplaceAll(s, "%", "%%"))
		}
	}
	return c
}

// Highlight renders v like Format with every token wrapped in its color.
// A nil Colors renders plain text. fatih/color drops the escapes on its own
// when color.NoColor is set.
func Highlight(v jsonvalue.Value, indent int, c *Colors) string {
	if c == nil {
		return Format(v, indent)
	}
	var b strings.Builder
	h := highlighter{b: &b, c: c, indent: IndentString(indent)}
	h.value(v, "")
	return b.String()
}

type highlighter struct {
	b      *strings.Builder
	c      *Colors
	indent string
}

func (h highlighter) value(v jsonvalue.Value, prefix string) {
	switch v.Kind() {
	case jsonvalue.KindNull:
		h.b.WriteString(h.c.Null("null"))
	case jsonvalue.KindBool:
		h.b.WriteString(h.c.Bool(v.String()))
	case jsonvalue.KindNumber:
		h.b.WriteString(h.c.Number(v.String()))
	case jsonvalue.KindString:
		h.b.WriteString(h.c.String(v.String()))
	case jsonvalue.KindArray:
		items := v.Items()
		if len(items) == 0 {
			h.b.WriteString(h.c.Punct("[]"))
			return
		}
		inner := prefix + h.indent
		h.b.WriteString(h.c.Punct("["))
		for i, item := range items {
			if i > 0 {
				h.b.WriteString(h.c.Punct(","))
			}
			h.newline(inner)
			h.value(item, inner)
		}
		h.newline(prefix)
		h.b.WriteString(h.c.Punct("]"))
	case jsonvalue.KindObject:
		members := v.Members()
		if len(members) == 0 {
			h.b.WriteString(h.c.Punct("{}"))
			return
		}
		inner := prefix + h.indent
		h.b.WriteString(h.c.Punct("{"))
		for i, m := range members {
			if i > 0 {
				h.b.WriteString(h.c.Punct(","))
			}
			h.newline(inner)
			h.b.WriteString(h.c.Key(jsonvalue.String(m.Key).String()))
			h.b.WriteString(h.c.Punct(":"))
			if h.indent != "" {
				h.b.WriteByte(' ')
			}
			h.value(m.Value, inner)
		}
		h.newline(prefix)
		h.b.WriteString(h.c.Punct("}"))
	}
}

func (h highlighter) newline(prefix string) {
	if h.indent == "" {
		return
	}
	h.b.WriteByte('\n')
	h.b.WriteString(prefix)
}
