package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/internal/config"
	"github.com/oakwood-commons/jsonlens/internal/editlog"
	"github.com/oakwood-commons/jsonlens/internal/formatter"
	"github.com/oakwood-commons/jsonlens/internal/ui"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
	"github.com/oakwood-commons/jsonlens/pkg/settings"
)

// errNoInput is returned by readDocument when neither a file nor piped stdin is available.
var errNoInput = errors.New("no input provided")

// rootOptions holds every flag of the jsonlens command tree plus the merged config.
type rootOptions struct {
	// persistent
	configFile  string
	debug       bool
	inputFormat string
	indent      int
	noColor     bool
	color       bool

	// root only
	output       string
	interactive  bool
	inlineEdit   bool
	expandAll    bool
	expression   string
	path         string
	editLog      string
	diff         bool
	snapshot     bool
	width        int
	height       int
	keyMode      string
	theme        string
	press        []string
	treeNoValues bool
	treeDepth    int
	arrayStyle   string

	cfg config.Config

	// reload re-reads the file argument for the viewer's reload key
	reload func() (jsonvalue.Value, error)

	// debugLog holds --debug output while the viewer owns the terminal
	debugLog *debugCollector
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}
	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [file]",
		Short: "View, query and edit JSON documents",
		Long: `jsonlens prints, queries and interactively explores JSON documents.

Input comes from a file argument, "-" or piped stdin. YAML and TOML input is
converted to JSON. With -i the document opens in a collapsible tree viewer
where values can be copied and, with --inline-edit, edited in place.`,
		Example: "\n  jsonlens data.json\n  cat data.json | jsonlens -o yaml\n  jsonlens data.json -e '_.items.filter(x, x.enabled)'\n  jsonlens data.json -i --inline-edit --edit-log edits.json\n",
		Args:    cobra.MaximumNArgs(1),
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.runRoot(cmd, args)
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/jsonlens/config.yaml)")
	pf.BoolVar(&o.debug, "debug", false, "enable debug logging on stderr")
	pf.StringVar(&o.inputFormat, "input-format", string(loader.FormatAuto), "input format: auto|json|yaml|toml")
	pf.IntVar(&o.indent, "indent", config.DefaultIndent, "indentation width for JSON and YAML output (default from config)")
	pf.BoolVar(&o.noColor, "no-color", false, "disable color output")
	pf.BoolVar(&o.color, "color", false, "force color output even when stdout is not a terminal")

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", formatter.OutputJSON, "output format: "+strings.Join(formatter.Outputs, "|"))
	f.BoolVarP(&o.interactive, "interactive", "i", false, "open the document in the interactive tree viewer")
	f.BoolVar(&o.inlineEdit, "inline-edit", false, "allow editing scalar values in the tree viewer (default from config)")
	f.BoolVar(&o.expandAll, "expand-all", false, "start the tree viewer fully expanded")
	f.StringVarP(&o.expression, "expression", "e", "", "CEL expression using '_' as root, e.g. '_.items[0].name' or 'size(_.items)'")
	f.StringVar(&o.path, "path", "", "dotted path to select for output or focus in the viewer, e.g. items.0.name")
	f.StringVar(&o.editLog, "edit-log", "", "write committed edits as an RFC 6902 JSON Patch to this file")
	f.BoolVar(&o.diff, "diff", false, "print a line diff of the document after the viewer exits")
	f.BoolVar(&o.snapshot, "snapshot", false, "render a single viewer frame to stdout and exit; honors --width/--height")
	f.IntVar(&o.width, "width", 0, "snapshot width in columns (default terminal width)")
	f.IntVar(&o.height, "height", 0, "snapshot height in rows (default terminal height)")
	f.StringVar(&o.keyMode, "keymap", "", "keybinding mode: vim or function (default from config)")
	f.StringVar(&o.theme, "theme", "", "color theme name (default from config; see 'jsonlens config themes')")
	f.StringArrayVar(&o.press, "press", nil, "simulate keys on startup, e.g. --press '<CR>' --press 'jjy'")
	f.BoolVar(&o.treeNoValues, "tree-no-values", false, "show structure only in tree output")
	f.IntVar(&o.treeDepth, "tree-depth", 0, "limit tree output depth (0 = unlimited)")
	f.StringVar(&o.arrayStyle, "array-style", "index", "array index style in tree output: index|numbered|bullet|none")

	cmd.AddCommand(
		newFormatCmd(o),
		newMinifyCmd(o),
		newAnalyzeCmd(o),
		newSetCmd(o),
		newVersionCmd(),
		newConfigCmd(o),
	)
	return cmd
}

// Execute runs the jsonlens command tree with os.Args.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// setup loads the config, applies config defaults to unset flags and
// attaches the logger and run settings to the command context.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	var level int8
	if o.debug {
		level = -1
	}
	var lgr *logr.Logger
	switch {
	case o.interactive && !o.snapshot && o.debug:
		// the viewer owns the terminal; entries are printed after it exits
		o.debugLog = newDebugCollector(defaultDebugLines)
		lgr = logger.GetTo(level, o.debugLog)
	case o.interactive && !o.snapshot:
		lgr = logger.GetNoopLogger()
	default:
		lgr = logger.Get(level)
	}
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	path := config.ResolvePath(o.configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	o.cfg = cfg
	if path != "" {
		lgr.V(1).Info("config loaded", logger.FileKey, path)
	}

	flags := cmd.Flags()
	if !flags.Changed("indent") {
		o.indent = cfg.Indent()
	}
	if f := flags.Lookup("inline-edit"); f != nil && !f.Changed {
		o.inlineEdit = cfg.InlineEditEnabled()
	}
	if o.keyMode == "" {
		o.keyMode = cfg.KeyMode()
	}
	if !ui.IsValidKeyMode(o.keyMode) {
		return fmt.Errorf("invalid keymap %q: valid values are vim, function", o.keyMode)
	}
	if o.theme == "" {
		o.theme = cfg.ThemeName()
	}
	if _, ok := cfg.UI.Themes[o.theme]; !ok {
		return fmt.Errorf("unknown theme %q: available themes are %s", o.theme, strings.Join(cfg.ThemeNames(), ", "))
	}
	if o.indent < 0 {
		return fmt.Errorf("invalid indent %d: must not be negative", o.indent)
	}
	if _, err := loader.ParseFormat(o.inputFormat); err != nil {
		return err
	}

	run := settings.NewCliParams()
	run.MinLogLevel = level
	run.NoColor = !o.useColor()
	run.InputFormat = o.inputFormat
	run.Indent = o.indent
	run.InlineEdit = o.inlineEdit
	run.Interactive = o.interactive

	ctx := logger.WithLogger(cmd.Context(), lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

func (o *rootOptions) runRoot(cmd *cobra.Command, args []string) error {
	if err := formatter.ValidateOutput(o.output); err != nil {
		return err
	}
	if err := formatter.ValidateArrayStyle(o.arrayStyle); err != nil {
		return err
	}
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)

	root, err := o.readDocument(cmd, args)
	if errors.Is(err, errNoInput) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	root, err = o.applyExpression(ctx, root)
	if err != nil {
		return err
	}
	focus, err := o.resolvePath(root)
	if err != nil {
		return err
	}

	o.reload = o.reloader(cmd, args)
	out := cmd.OutOrStdout()
	if o.snapshot {
		w, h := snapshotSize(o.width, o.height)
		frame := ui.RenderSnapshot(root, ui.SnapshotConfig{
			Width:     w,
			Height:    h,
			StartKeys: o.press,
			Options:   o.uiOptions(*lgr, focus),
		})
		_, err := fmt.Fprintln(out, frame)
		return err
	}
	if o.interactive {
		return o.runInteractive(cmd, root, focus)
	}

	selected, err := jsonvalue.At(root, focus)
	if err != nil {
		return err
	}
	lgr.V(1).Info("printing document", logger.FormatKey, o.output, logger.PathKey, focus.Display())
	return o.printValue(out, selected)
}

func (o *rootOptions) uiOptions(lgr logr.Logger, focus jsonvalue.Path) ui.Options {
	tc := o.cfg.UI.Themes[o.theme]
	perf := o.cfg.Performance
	opts := ui.Options{
		AppName:      o.cfg.App.Name,
		KeyMode:      ui.KeyMode(o.keyMode),
		InlineEdit:   o.inlineEdit,
		MaxStringLen: o.cfg.MaxStringLen(),
		ExpandAll:    o.expandAll,
		Focus:        focus,
		Theme:        ui.ThemeFromConfig(tc),
		NoColor:      !o.colorAllowed(),
		CopyFeedback: o.cfg.CopyFeedback(),
		Logger:       lgr,
		OnDataChange: func(v jsonvalue.Value) {
			lgr.V(1).Info("document changed", "size", len(jsonvalue.Marshal(v)))
		},
		Reload: o.reload,
	}
	if perf.MemoryLimitMB != nil {
		opts.Metrics.MemoryLimitMB = *perf.MemoryLimitMB
	}
	if perf.MaxVeryLongStrings != nil {
		opts.Metrics.MaxVeryLongStrings = *perf.MaxVeryLongStrings
	}
	return opts
}

func (o *rootOptions) runInteractive(cmd *cobra.Command, root jsonvalue.Value, focus jsonvalue.Path) error {
	ctx := cmd.Context()
	lgr := logger.FromContext(ctx)

	if o.debugLog != nil {
		defer func() {
			_ = o.debugLog.Flush(cmd.ErrOrStderr())
		}()
	}
	progOpts, cleanup := getProgramOptions()
	defer cleanup()

	res, err := ui.Run(ctx, root, o.uiOptions(*lgr, focus), o.width, o.height, o.press, progOpts...)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		if err := o.printValue(cmd.OutOrStdout(), res.Root); err != nil {
			return err
		}
	}
	return o.reportEdits(cmd.OutOrStdout(), lgr, res)
}

// reportEdits writes the edit log and diff requested on the command line.
func (o *rootOptions) reportEdits(out io.Writer, lgr *logr.Logger, res ui.Result) error {
	if res.Edits == nil || res.Edits.Len() == 0 {
		return nil
	}
	lgr.V(1).Info("edits committed", "count", res.Edits.Len())

	if o.editLog != "" {
		if err := res.Edits.Verify(res.Root); err != nil {
			return fmt.Errorf("edit log: %w", err)
		}
		patch, err := res.Edits.Patch()
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.editLog, append(patch, '\n'), 0o600); err != nil {
			return fmt.Errorf("write edit log: %w", err)
		}
		lgr.V(1).Info("edit log written", logger.FileKey, o.editLog)
	}
	if o.diff {
		before := formatter.Format(res.Edits.Base(), o.indent)
		after := formatter.Format(res.Root, o.indent)
		diff := editlog.LineDiff(before, after)
		ins, del := editlog.Stats(diff)
		if _, err := fmt.Fprintf(out, "%s%d insertion(s), %d deletion(s)\n", diff, ins, del); err != nil {
			return err
		}
	}
	return nil
}
