package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up under the user's config directory.
const FileName = "config.yaml"

// AppDir is the directory under $XDG_CONFIG_HOME (or ~/.config) holding FileName.
const AppDir = "jsonlens"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embedded     Config
	embeddedErr  error
)

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default config once and returns a copy of it.
func Default() (Config, error) {
	embeddedOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embedded); err != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", err)
		}
	})
	if embeddedErr != nil {
		return Config{}, embeddedErr
	}
	return Merge(Config{}, embedded), nil
}

// Load returns the embedded defaults merged with the file at path.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	user, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg = Merge(cfg, user)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a config document without merging defaults. Unknown keys are rejected
// so typos surface instead of being silently ignored.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Merge overlays every field set in override onto base. Themes merge per name;
// a partially specified theme inherits the unset colors from the base theme of the same name.
func Merge(base, override Config) Config {
	out := base
	if override.App.Name != "" {
		out.App.Name = override.App.Name
	}
	if override.App.Description != "" {
		out.App.Description = override.App.Description
	}
	if override.UI.Theme != "" {
		out.UI.Theme = override.UI.Theme
	}
	if override.UI.KeyMode != "" {
		out.UI.KeyMode = override.UI.KeyMode
	}
	if override.UI.InlineEdit != nil {
		out.UI.InlineEdit = boolPtr(*override.UI.InlineEdit)
	}
	if override.UI.MaxStringLen != nil {
		out.UI.MaxStringLen = intPtr(*override.UI.MaxStringLen)
	}
	if override.UI.Indent != nil {
		out.UI.Indent = intPtr(*override.UI.Indent)
	}
	if override.UI.CopyFeedback != "" {
		out.UI.CopyFeedback = override.UI.CopyFeedback
	}
	out.UI.Themes = make(map[string]ThemeConfig, len(base.UI.Themes)+len(override.UI.Themes))
	for name, th := range base.UI.Themes {
		out.UI.Themes[name] = th
	}
	for name, th := range override.UI.Themes {
		out.UI.Themes[name] = mergeTheme(out.UI.Themes[name], th)
	}
	if override.Performance.MemoryLimitMB != nil {
		out.Performance.MemoryLimitMB = intPtr(*override.Performance.MemoryLimitMB)
	}
	if override.Performance.MaxVeryLongStrings != nil {
		out.Performance.MaxVeryLongStrings = intPtr(*override.Performance.MaxVeryLongStrings)
	}
	return out
}

func mergeTheme(base, override ThemeConfig) ThemeConfig {
	pick := func(b, o ColorValue) ColorValue {
		if o != "" {
			return o
		}
		return b
	}
	return ThemeConfig{
		Key:         pick(base.Key, override.Key),
		String:      pick(base.String, override.String),
		Number:      pick(base.Number, override.Number),
		Boolean:     pick(base.Boolean, override.Boolean),
		Null:        pick(base.Null, override.Null),
		Punctuation: pick(base.Punctuation, override.Punctuation),
		SelectedFG:  pick(base.SelectedFG, override.SelectedFG),
		SelectedBG:  pick(base.SelectedBG, override.SelectedBG),
		BadgeFG:     pick(base.BadgeFG, override.BadgeFG),
		BadgeBG:     pick(base.BadgeBG, override.BadgeBG),
		Status:      pick(base.Status, override.Status),
		Error:       pick(base.Error, override.Error),
		Success:     pick(base.Success, override.Success),
		Muted:       pick(base.Muted, override.Muted),
	}
}

// Validate checks enumerations and ranges.
func (c Config) Validate() error {
	if _, ok := c.UI.Themes[c.ThemeName()]; !ok {
		return fmt.Errorf("%w: unknown theme %q (available: %s)", ErrInvalid, c.ThemeName(), strings.Join(c.ThemeNames(), ", "))
	}
	switch c.KeyMode() {
	case "vim", "function":
	default:
		return fmt.Errorf("%w: key_mode must be vim or function, got %q", ErrInvalid, c.KeyMode())
	}
	if c.UI.Indent != nil && (*c.UI.Indent < 0 || *c.UI.Indent > 8) {
		return fmt.Errorf("%w: indent must be between 0 and 8, got %d", ErrInvalid, *c.UI.Indent)
	}
	if c.UI.MaxStringLen != nil && *c.UI.MaxStringLen < 0 {
		return fmt.Errorf("%w: max_string_len must not be negative", ErrInvalid)
	}
	if c.Performance.MemoryLimitMB != nil && *c.Performance.MemoryLimitMB <= 0 {
		return fmt.Errorf("%w: memory_limit_mb must be positive", ErrInvalid)
	}
	return nil
}

// ThemeNames returns the configured theme names in ascending order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for name := range c.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Marshal renders the config as YAML, the format of the `config` command.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ResolvePath returns explicit when set, otherwise $XDG_CONFIG_HOME/jsonlens/config.yaml
// or ~/.config/jsonlens/config.yaml if that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, AppDir, FileName)
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppDir, FileName)
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
