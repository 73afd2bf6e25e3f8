package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/jsonlens/internal/config"
)

// Theme holds the colors of the tree view. A nil color renders unstyled.
type Theme struct {
	Key         color.Color
	String      color.Color
	Number      color.Color
	Boolean     color.Color
	Null        color.Color
	Punctuation color.Color
	SelectedFG  color.Color
	SelectedBG  color.Color
	BadgeFG     color.Color
	BadgeBG     color.Color
	Status      color.Color
	Error       color.Color
	Success     color.Color
	Muted       color.Color
}

// ThemeFromConfig converts the configured color tokens into lipgloss colors.
func ThemeFromConfig(tc config.ThemeConfig) Theme {
	return Theme{
		Key:         toColor(tc.Key),
		String:      toColor(tc.String),
		Number:      toColor(tc.Number),
		Boolean:     toColor(tc.Boolean),
		Null:        toColor(tc.Null),
		Punctuation: toColor(tc.Punctuation),
		SelectedFG:  toColor(tc.SelectedFG),
		SelectedBG:  toColor(tc.SelectedBG),
		BadgeFG:     toColor(tc.BadgeFG),
		BadgeBG:     toColor(tc.BadgeBG),
		Status:      toColor(tc.Status),
		Error:       toColor(tc.Error),
		Success:     toColor(tc.Success),
		Muted:       toColor(tc.Muted),
	}
}

// DefaultTheme is the theme selected by the embedded default config.
func DefaultTheme() Theme {
	cfg, err := config.Default()
	if err != nil {
		return Theme{}
	}
	tc, _ := cfg.SelectedTheme()
	return ThemeFromConfig(tc)
}

func toColor(c config.ColorValue) color.Color {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

// styles are the lipgloss styles derived from a Theme.
type styles struct {
	key      lipgloss.Style
	str      lipgloss.Style
	number   lipgloss.Style
	boolean  lipgloss.Style
	null     lipgloss.Style
	punct    lipgloss.Style
	selected lipgloss.Style
	badge    lipgloss.Style
	header   lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	success  lipgloss.Style
	muted    lipgloss.Style
}

func fg(c color.Color) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != nil {
		s = s.Foreground(c)
	}
	return s
}

func newStyles(t Theme, noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{
			key: plain, str: plain, number: plain, boolean: plain, null: plain, punct: plain,
			selected: plain,
			badge:    plain, header: plain, status: plain, err: plain, success: plain, muted: plain,
		}
	}
	selected := fg(t.SelectedFG)
	if t.SelectedBG != nil {
		selected = selected.Background(t.SelectedBG)
	} else {
		selected = selected.Reverse(true)
	}
	badge := fg(t.BadgeFG)
	if t.BadgeBG != nil {
		badge = badge.Background(t.BadgeBG)
	}
	return styles{
		key:      fg(t.Key),
		str:      fg(t.String),
		number:   fg(t.Number),
		boolean:  fg(t.Boolean),
		null:     fg(t.Null).Italic(true),
		punct:    fg(t.Punctuation),
		selected: selected,
		badge:    badge.Bold(true),
		header:   fg(t.Status).Bold(true),
		status:   fg(t.Status),
		err:      fg(t.Error),
		success:  fg(t.Success),
		muted:    fg(t.Muted),
	}
}
