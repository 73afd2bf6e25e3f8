// Package config holds the jsonlens configuration schema and its loader.
package config

import (
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the merged configuration: embedded defaults overlaid by the user's file.
type Config struct {
	App         AppConfig         `yaml:"app"`
	UI          UIConfig          `yaml:"ui"`
	Performance PerformanceConfig `yaml:"performance"`
}

// AppConfig contains application metadata shown in help and the TUI header.
type AppConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// UIConfig holds viewer settings. Pointer fields distinguish "unset" from the zero value
// so a user file only overrides what it names.
type UIConfig struct {
	Theme        string                 `yaml:"theme,omitempty"`
	KeyMode      string                 `yaml:"key_mode,omitempty"`
	InlineEdit   *bool                  `yaml:"inline_edit,omitempty"`
	MaxStringLen *int                   `yaml:"max_string_len,omitempty"`
	Indent       *int                   `yaml:"indent,omitempty"`
	CopyFeedback string                 `yaml:"copy_feedback,omitempty"`
	Themes       map[string]ThemeConfig `yaml:"themes,omitempty"`
}

// PerformanceConfig feeds the string render metrics tracker.
type PerformanceConfig struct {
	MemoryLimitMB      *int `yaml:"memory_limit_mb,omitempty"`
	MaxVeryLongStrings *int `yaml:"max_very_long_strings,omitempty"`
}

// ColorValue stores a color token (ANSI number, hex or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig maps tree elements to color tokens. An empty token means "no color".
type ThemeConfig struct {
	Key         ColorValue `yaml:"key"`
	String      ColorValue `yaml:"string"`
	Number      ColorValue `yaml:"number"`
	Boolean     ColorValue `yaml:"boolean"`
	Null        ColorValue `yaml:"null"`
	Punctuation ColorValue `yaml:"punctuation"`
	SelectedFG  ColorValue `yaml:"selected_fg"`
	SelectedBG  ColorValue `yaml:"selected_bg"`
	BadgeFG     ColorValue `yaml:"badge_fg"`
	BadgeBG     ColorValue `yaml:"badge_bg"`
	Status      ColorValue `yaml:"status"`
	Error       ColorValue `yaml:"error"`
	Success     ColorValue `yaml:"success"`
	Muted       ColorValue `yaml:"muted"`
}

// Fallbacks used when neither the embedded defaults nor the user set a value.
const (
	DefaultTheme        = "dark"
	DefaultKeyMode      = "vim"
	DefaultMaxStringLen = 100
	DefaultIndent       = 2
	DefaultCopyFeedback = 1500 * time.Millisecond
)

// InlineEditEnabled reports ui.inline_edit.
func (c Config) InlineEditEnabled() bool {
	return c.UI.InlineEdit != nil && *c.UI.InlineEdit
}

// MaxStringLen returns ui.max_string_len, or DefaultMaxStringLen when unset or not positive.
func (c Config) MaxStringLen() int {
	if c.UI.MaxStringLen == nil || *c.UI.MaxStringLen <= 0 {
		return DefaultMaxStringLen
	}
	return *c.UI.MaxStringLen
}

// Indent returns ui.indent. Zero is allowed and means compact output.
func (c Config) Indent() int {
	if c.UI.Indent == nil || *c.UI.Indent < 0 {
		return DefaultIndent
	}
	return *c.UI.Indent
}

// CopyFeedback returns how long the "copied" indicator stays visible.
func (c Config) CopyFeedback() time.Duration {
	if c.UI.CopyFeedback == "" {
		return DefaultCopyFeedback
	}
	d, err := time.ParseDuration(c.UI.CopyFeedback)
	if err != nil || d <= 0 {
		return DefaultCopyFeedback
	}
	return d
}

// ThemeName returns the selected theme, falling back to DefaultTheme.
func (c Config) ThemeName() string {
	if c.UI.Theme == "" {
		return DefaultTheme
	}
	return c.UI.Theme
}

// KeyMode returns the selected key mode, falling back to DefaultKeyMode.
func (c Config) KeyMode() string {
	if c.UI.KeyMode == "" {
		return DefaultKeyMode
	}
	return c.UI.KeyMode
}

// SelectedTheme returns the colors of the selected theme.
func (c Config) SelectedTheme() (ThemeConfig, bool) {
	th, ok := c.UI.Themes[c.ThemeName()]
	return th, ok
}
