// Package tui embeds the jsonlens tree viewer in other programs.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/jsonlens/internal/config"
	"github.com/oakwood-commons/jsonlens/internal/ui"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// defaultFallbackTermWidth is used when terminal size cannot be detected.
const defaultFallbackTermWidth = 120

// Result is the document and edit log of a finished session.
type Result = ui.Result

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr, and stdin, then falling back to the COLUMNS environment variable.
// If detection fails completely, returns (120, 24).
func DetectTerminalSize() (width int, height int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// Config controls an embedded viewer. Zero values fall back to the built-in
// configuration.
type Config struct {
	AppName    string
	Width      int
	Height     int
	StartKeys  []string
	NoColor    bool
	KeyMode    string
	Theme      string
	InlineEdit bool
	ExpandAll  bool
	// Focus is a dotted path (items.0.name) focused at startup.
	Focus        string
	Logger       logr.Logger
	OnDataChange func(jsonvalue.Value)
	// Reload supplies a fresh document when the reload key is pressed.
	Reload func() (jsonvalue.Value, error)
}

// options resolves cfg against the built-in configuration.
func (cfg Config) options(root jsonvalue.Value) (ui.Options, error) {
	defaults, err := config.Default()
	if err != nil {
		return ui.Options{}, err
	}
	opts := ui.Options{
		AppName:      strings.TrimSpace(cfg.AppName),
		KeyMode:      ui.KeyMode(defaults.KeyMode()),
		InlineEdit:   cfg.InlineEdit,
		MaxStringLen: defaults.MaxStringLen(),
		ExpandAll:    cfg.ExpandAll,
		NoColor:      cfg.NoColor,
		CopyFeedback: defaults.CopyFeedback(),
		Logger:       cfg.Logger,
		OnDataChange: cfg.OnDataChange,
		Reload:       cfg.Reload,
	}
	if opts.AppName == "" {
		opts.AppName = defaults.App.Name
	}
	if cfg.KeyMode != "" {
		if !ui.IsValidKeyMode(cfg.KeyMode) {
			return ui.Options{}, fmt.Errorf("invalid key mode %q", cfg.KeyMode)
		}
		opts.KeyMode = ui.KeyMode(cfg.KeyMode)
	}
	theme := defaults.ThemeName()
	if cfg.Theme != "" {
		theme = cfg.Theme
	}
	tc, ok := defaults.UI.Themes[theme]
	if !ok {
		return ui.Options{}, fmt.Errorf("unknown theme %q: available themes are %s", theme, strings.Join(defaults.ThemeNames(), ", "))
	}
	opts.Theme = ui.ThemeFromConfig(tc)
	if cfg.Focus != "" {
		p, err := jsonvalue.ParsePath(root, cfg.Focus)
		if err != nil {
			return ui.Options{}, err
		}
		opts.Focus = p
	}
	return opts, nil
}

// Run starts the viewer on root and blocks until the user quits.
func Run(ctx context.Context, root jsonvalue.Value, cfg Config, opts ...tea.ProgramOption) (Result, error) {
	o, err := cfg.options(root)
	if err != nil {
		return Result{Root: root}, err
	}
	return ui.Run(ctx, root, o, cfg.Width, cfg.Height, cfg.StartKeys, opts...)
}

// RenderSnapshot renders one frame of the viewer after StartKeys are applied.
// A zero Width or Height uses the detected terminal size.
func RenderSnapshot(root jsonvalue.Value, cfg Config) (string, error) {
	o, err := cfg.options(root)
	if err != nil {
		return "", err
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return ui.RenderSnapshot(root, ui.SnapshotConfig{
		Width:     w,
		Height:    h,
		StartKeys: cfg.StartKeys,
		Options:   o,
	}), nil
}

// WithIO returns tea.ProgramOptions to set custom input/output.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
