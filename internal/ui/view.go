package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/render"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

const (
	markerExpanded  = "▾ "
	markerCollapsed = "▸ "
	markerLeaf      = "  "
	indentUnit      = "  "

	// without color the focused row is marked in a gutter
	gutterFocused = "› "
	gutterPlain   = "  "
)

// segment is a run of text drawn with one style.
type segment struct {
	text  string
	style lipgloss.Style
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render draws the current frame as a string.
func (m *Model) Render() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')

	var body []string
	if m.showHelp {
		body = strings.Split(m.helpText(), "\n")
	} else {
		body = m.renderBody()
	}
	h := m.bodyHeight()
	for i := 0; i < h; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.appName
	if line, ok := m.FocusedLine(); ok {
		title += " · " + line.Path.Display()
	}
	if m.edits.Len() > 0 {
		title += fmt.Sprintf(" · %d edit(s)", m.edits.Len())
	}
	return m.styles.header.Render(runewidth.Truncate(title, m.Width, "…"))
}

func (m *Model) renderBody() []string {
	var out []string
	h := m.bodyHeight()
	for i := m.offset; i < len(m.lines) && len(out) < h; i++ {
		line := m.lines[i]
		out = append(out, m.renderLine(line))
		if line.Focused && m.previews[line.Path.Key()] {
			out = append(out, m.renderPreview(line))
		}
	}
	return out
}

func (m *Model) renderLine(line render.Line) string {
	segs := []segment{{text: strings.Repeat(indentUnit, line.Depth), style: lipgloss.NewStyle()}}
	marker := markerLeaf
	if line.Expandable {
		marker = markerCollapsed
		if line.Expanded {
			marker = markerExpanded
		}
	}
	segs = append(segs, segment{text: marker, style: m.styles.punct})
	if line.HasKey {
		segs = append(segs,
			segment{text: line.Key, style: m.styles.key},
			segment{text: ": ", style: m.styles.punct},
		)
	}

	if m.edit != nil && line.Path.Equal(m.editPath) {
		// the input carries its own cursor styling and is not truncated
		prefix := m.drawSegments(segs, line.Focused, m.Width)
		badge := m.styles.badge.Render(" " + m.edit.PreviewType() + " ")
		return prefix + m.input.View() + " " + badge
	}

	segs = append(segs, segment{text: line.Display, style: m.valueStyle(line.Kind)})
	if line.Analysis != nil && line.Analysis.Type != classify.TypeNormal {
		segs = append(segs, segment{
			text:  " " + classify.Icon(line.Analysis.Type) + " " + classify.Describe(*line.Analysis),
			style: m.styles.muted,
		})
	}
	if line.Editable && line.Focused {
		segs = append(segs, segment{text: " ✎", style: m.styles.muted})
	}
	return m.drawSegments(segs, line.Focused, m.Width)
}

func (m *Model) renderPreview(line render.Line) string {
	indent := strings.Repeat(indentUnit, line.Depth+2)
	if m.noColor {
		indent += gutterPlain
	}
	info, err := classify.PreviewImage(line.Value.AsString())
	if err != nil {
		return m.styles.err.Render(runewidth.Truncate(indent+"⚠ "+err.Error(), m.Width, "…"))
	}
	return m.styles.muted.Render(runewidth.Truncate(indent+"🖼 "+info.String(), m.Width, "…"))
}

// drawSegments renders segs within width cells. A focused row is drawn as
// one selected run so the highlight spans the whole text.
func (m *Model) drawSegments(segs []segment, focused bool, width int) string {
	if m.noColor {
		gutter := gutterPlain
		if focused {
			gutter = gutterFocused
		}
		segs = append([]segment{{text: gutter, style: lipgloss.NewStyle()}}, segs...)
	}
	if focused {
		var plain strings.Builder
		for _, s := range segs {
			plain.WriteString(s.text)
		}
		return m.styles.selected.Render(runewidth.Truncate(plain.String(), width, "…"))
	}
	var b strings.Builder
	remaining := width
	for _, s := range segs {
		w := runewidth.StringWidth(s.text)
		if w <= remaining || width <= 0 {
			b.WriteString(s.style.Render(s.text))
			remaining -= w
			continue
		}
		b.WriteString(s.style.Render(runewidth.Truncate(s.text, remaining, "…")))
		break
	}
	return b.String()
}

func (m *Model) valueStyle(k jsonvalue.Kind) lipgloss.Style {
	switch k {
	case jsonvalue.KindString:
		return m.styles.str
	case jsonvalue.KindNumber:
		return m.styles.number
	case jsonvalue.KindBool:
		return m.styles.boolean
	case jsonvalue.KindNull:
		return m.styles.null
	default:
		return m.styles.punct
	}
}

func (m *Model) renderStatus() string {
	var text string
	style := m.styles.status
	switch {
	case m.flash != "":
		text = m.flash
		style = m.styles.success
		if m.flashErr {
			style = m.styles.err
		}
	case m.edit != nil:
		text = "enter commit · esc cancel · type: " + m.edit.PreviewType()
	case m.showHelp:
		text = "press any key to close help"
	default:
		if warnings := m.tracker.Warnings(); len(warnings) > 0 {
			text = "⚠ " + warnings[0]
			style = m.styles.err
		} else if line, ok := m.FocusedLine(); ok {
			text = line.Tooltip
			style = m.styles.muted
		}
	}
	return style.Render(runewidth.Truncate(text, m.Width, "…"))
}
