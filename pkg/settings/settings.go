// Package settings holds build metadata and the per-execution parameters
// shared by the jsonlens commands, plus context helpers to pass them along.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "jsonlens"

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// EntryPointSettings records where the input document comes from.
type EntryPointSettings struct {
	FromAPI   bool
	FromCli   bool
	FromStdin bool
	Path      string
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds configuration settings for a single execution.
type Run struct {
	MinLogLevel        int8
	EntryPointSettings EntryPointSettings
	IsQuiet            bool
	NoColor            bool
	ExitOnError        bool
	// InputFormat is one of auto, json, yaml or toml.
	InputFormat string
	Indent      int
	InlineEdit  bool
	Interactive bool
}

// NewCliParams returns the defaults for a CLI invocation.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		EntryPointSettings: EntryPointSettings{
			FromAPI: false,
			FromCli: true,
		},
		IsQuiet:     false,
		NoColor:     false,
		ExitOnError: true,
		InputFormat: "auto",
		Indent:      2,
	}
}

// IndentString returns Indent spaces; a non-positive Indent means 2.
func (r *Run) IndentString() string {
	n := r.Indent
	if n <= 0 {
		n = 2
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
