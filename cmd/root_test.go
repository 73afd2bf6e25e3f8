package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonlens/internal/editlog"
	"github.com/oakwood-commons/jsonlens/internal/editor"
	"github.com/oakwood-commons/jsonlens/internal/ui"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
	"github.com/oakwood-commons/jsonlens/pkg/loader"
	"github.com/oakwood-commons/jsonlens/pkg/logger"
)

// runCLI executes a fresh command tree with stdin and returns combined output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origTTY := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	t.Cleanup(func() { stdoutIsTerminal = origTTY })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const sampleDoc = `{"name":"demo","items":[{"id":1,"enabled":true},{"id":2,"enabled":false}],"server":{"host":"localhost","port":8080}}`

func TestCLI_DefaultPrintsIndentedJSON(t *testing.T) {
	out, err := runCLI(t, `{"b":1,"a":[true,null]}`)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}\n", out)
}

func TestCLI_IndentFlag(t *testing.T) {
	out, err := runCLI(t, `{"a":1}`, "--indent", "4")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": 1\n}\n", out)
}

func TestCLI_IndentFromConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ui:\n  indent: 3\n"), 0o600))

	out, err := runCLI(t, `{"a":1}`, "--config-file", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n   \"a\": 1\n}\n", out)
}

func TestCLI_OutputModes(t *testing.T) {
	tests := map[string]struct {
		args []string
		want string
	}{
		"minify": {args: []string{"-o", "minify"}, want: "{\"b\":1,\"a\":[true,null]}\n"},
		"yaml":   {args: []string{"-o", "yaml"}, want: "b: 1\na:\n  - true\n  - null\n"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := runCLI(t, `{"b":1,"a":[true,null]}`, tc.args...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestCLI_TreeOutput(t *testing.T) {
	out, err := runCLI(t, `{"server":{"host":"localhost","port":8080}}`, "-o", "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "└── server")
	assert.Contains(t, out, "port: 8080")

	out, err = runCLI(t, `{"server":{"host":"localhost","port":8080}}`, "-o", "tree", "--tree-no-values")
	require.NoError(t, err)
	assert.Contains(t, out, "server")
	assert.NotContains(t, out, "8080")
}

func TestCLI_InvalidOutputFails(t *testing.T) {
	_, err := runCLI(t, `{}`, "-o", "table")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")
}

func TestCLI_YAMLInput(t *testing.T) {
	out, err := runCLI(t, "a: 1\nb: [x]\n", "--input-format", "yaml", "-o", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":[\"x\"]}\n", out)
}

func TestCLI_FileArgument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"k":"v"}`), 0o600))

	out, err := runCLI(t, "", path, "-o", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"k\":\"v\"}\n", out)

	_, err = runCLI(t, "", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCLI_InvalidDocumentFails(t *testing.T) {
	_, err := runCLI(t, `{"a":`, "--input-format", "json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, loader.ErrInvalidJSON), "got %v", err)
}

func TestCLI_Expression(t *testing.T) {
	tests := map[string]struct {
		expr string
		want string
	}{
		"plain path":    {expr: "_.items[0].id", want: "1\n"},
		"function call": {expr: "size(_.items)", want: "2\n"},
		"filter":        {expr: "_.items.filter(x, x.enabled).map(x, x.id)", want: "[1]\n"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out, err := runCLI(t, sampleDoc, "-e", tc.expr, "-o", "minify")
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestCLI_ExpressionErrorIsReported(t *testing.T) {
	_, err := runCLI(t, sampleDoc, "-e", "_.items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "_.items[")
}

func TestCLI_PathSelectsSubtree(t *testing.T) {
	out, err := runCLI(t, sampleDoc, "--path", "server", "-o", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"host\":\"localhost\",\"port\":8080}\n", out)

	out, err = runCLI(t, sampleDoc, "--path", "items.1.id")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestCLI_PathMissingFails(t *testing.T) {
	_, err := runCLI(t, sampleDoc, "--path", "server.missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, jsonvalue.ErrPath), "got %v", err)
}

func TestCLI_NoInputShowsHelp(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	origPiped := stdinIsPiped
	stdinIsPiped = func() bool { return false }
	defer func() { stdinIsPiped = origPiped }()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "jsonlens [file]")
	assert.Contains(t, out.String(), "Examples:")
}

func TestCLI_FormatAndMinify(t *testing.T) {
	out, err := runCLI(t, `{"a" : [1, 2]}`, "format", "--indent", "1")
	require.NoError(t, err)
	assert.Equal(t, "{\n \"a\": [\n  1,\n  2\n ]\n}\n", out)

	out, err = runCLI(t, "{\n  \"a\" : [1, 2]\n}\n", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":[1,2]}\n", out)
}

func TestCLI_FormatErrors(t *testing.T) {
	_, err := runCLI(t, "  \n", "format")
	require.Error(t, err)
	assert.True(t, errors.Is(err, loader.ErrEmptyInput), "got %v", err)

	_, err = runCLI(t, "{'a': 1}", "minify")
	require.Error(t, err)
	assert.True(t, errors.Is(err, loader.ErrInvalidJSON), "got %v", err)
}

func TestCLI_SetReplacesScalar(t *testing.T) {
	out, err := runCLI(t, `{"x":[1,{"y":"a"}]}`, "set", "x.1.y", `"Z"`, "-o", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"x\":[1,{\"y\":\"Z\"}]}\n", out)

	out, err = runCLI(t, `{"port":8080}`, "set", "port", "8081", "-o", "minify")
	require.NoError(t, err)
	assert.Equal(t, "{\"port\":8081}\n", out)
}

func TestCLI_SetPatch(t *testing.T) {
	out, err := runCLI(t, `{"name":"old"}`, "set", "name", "new", "--patch")
	require.NoError(t, err)
	assert.Contains(t, out, "replace")
	assert.Contains(t, out, "/name")
	assert.Contains(t, out, "new")
}

func TestCLI_SetRejectsContainer(t *testing.T) {
	_, err := runCLI(t, `{"obj":{"a":1}}`, "set", "obj", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, editor.ErrNotEditable), "got %v", err)
}

func TestCLI_Analyze(t *testing.T) {
	doc := `{"site":"https://example.com/a","note":"hi","nested":{"raw":"{\"a\":1}"}}`
	out, err := runCLI(t, doc, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "URL")
	assert.Contains(t, out, "JSON String")
	assert.Contains(t, out, "strings: 3")
}

func TestCLI_Version(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "jsonlens "), "got %q", out)

	out, err = runCLI(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit")
}

func TestCLI_ConfigCommands(t *testing.T) {
	out, err := runCLI(t, "", "config")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: dark")
	assert.Contains(t, out, "key_mode: vim")

	out, err = runCLI(t, "", "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* dark")

	out, err = runCLI(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "(built-in defaults)\n", out)
}

func TestCLI_RejectsUnknownThemeAndKeymap(t *testing.T) {
	_, err := runCLI(t, `{}`, "--theme", "neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown theme")

	_, err = runCLI(t, `{}`, "--keymap", "emacs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid keymap")
}

func TestCLI_Snapshot(t *testing.T) {
	out, err := runCLI(t, sampleDoc, "--snapshot", "--width", "60", "--height", "10", "--no-color")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 10)
	assert.Contains(t, lines[0], "jsonlens")
	assert.Contains(t, out, "name: \"demo\"")
	assert.NotContains(t, out, "\x1b[")
}

func TestCLI_SnapshotPressKeys(t *testing.T) {
	out, err := runCLI(t, sampleDoc, "--snapshot", "--width", "60", "--height", "20", "--no-color", "--press", "<F1>")
	require.NoError(t, err)
	assert.Contains(t, out, "Keys (vim mode)")

	out, err = runCLI(t, sampleDoc, "--snapshot", "--width", "60", "--height", "20", "--no-color", "--path", "server.port")
	require.NoError(t, err)
	assert.Contains(t, out, "server.port")
	assert.Contains(t, out, "port: 8080")
}

func TestSnapshotSizePrefersFlags(t *testing.T) {
	w, h := snapshotSize(40, 12)
	assert.Equal(t, 40, w)
	assert.Equal(t, 12, h)

	origSize := termGetSize
	termGetSize = func(int) (int, int, error) { return 0, 0, errors.New("no tty") }
	t.Setenv("COLUMNS", "")
	defer func() { termGetSize = origSize }()

	w, h = snapshotSize(0, 0)
	assert.Equal(t, defaultFallbackTermWidth, w)
	assert.Equal(t, defaultSnapshotHeight, h)
}

func TestReportEditsWritesPatchAndDiff(t *testing.T) {
	base := jsonvalue.Object(jsonvalue.Member{Key: "name", Value: jsonvalue.String("old")})
	edits := editlog.New(base)
	path := jsonvalue.Path{}.Append(jsonvalue.Key("name"))
	updated, err := jsonvalue.WithValueAt(base, path, jsonvalue.String("new"))
	require.NoError(t, err)
	edits.Record(path, jsonvalue.String("old"), jsonvalue.String("new"))

	logPath := filepath.Join(t.TempDir(), "edits.json")
	o := &rootOptions{editLog: logPath, diff: true, indent: 2}
	var out bytes.Buffer
	require.NoError(t, o.reportEdits(&out, logger.GetNoopLogger(), ui.Result{Root: updated, Edits: edits}))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "replace")
	assert.Contains(t, out.String(), "-  \"name\": \"old\"")
	assert.Contains(t, out.String(), "+  \"name\": \"new\"")
	assert.Contains(t, out.String(), "1 insertion(s), 1 deletion(s)")
}

func TestReportEditsNoEditsIsNoop(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "edits.json")
	o := &rootOptions{editLog: logPath, diff: true}
	var out bytes.Buffer
	require.NoError(t, o.reportEdits(&out, logger.GetNoopLogger(), ui.Result{Root: jsonvalue.Null()}))
	assert.Empty(t, out.String())
	_, err := os.Stat(logPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRootFlagsAreDocumented(t *testing.T) {
	cmd := newRootCmd()
	check := func(f *pflag.Flag) {
		assert.NotEmpty(t, f.Usage, "flag --%s has no usage", f.Name)
	}
	cmd.Flags().VisitAll(check)
	cmd.PersistentFlags().VisitAll(check)
	for _, sub := range cmd.Commands() {
		sub.Flags().VisitAll(check)
	}
	assert.Equal(t, "o", cmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "e", cmd.Flags().Lookup("expression").Shorthand)
}

func TestCLI_TreeDepthShowsKeysDownToLimit(t *testing.T) {
	out, err := runCLI(t, `{"level1":{"level2":{"level3":"deep"}}}`, "-o", "tree", "--tree-depth", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "level2")
	assert.NotContains(t, out, "level3")
}
