package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/metrics"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

func newAnalyzeCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Classify every string value and report size warnings",
		Long: `analyze walks every string in the document and prints its path, detected
type (base64 image or data, URL, JSON, XML, long text), length and the
estimated payload size, followed by totals and performance warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := o.readDocument(cmd, args)
			if err != nil {
				return err
			}
			return o.analyze(cmd.OutOrStdout(), root)
		},
	}
}

func (o *rootOptions) metricsConfig() metrics.Config {
	var cfg metrics.Config
	if p := o.cfg.Performance.MemoryLimitMB; p != nil {
		cfg.MemoryLimitMB = *p
	}
	if p := o.cfg.Performance.MaxVeryLongStrings; p != nil {
		cfg.MaxVeryLongStrings = *p
	}
	return cfg
}

func (o *rootOptions) analyze(out io.Writer, root jsonvalue.Value) error {
	tracker := metrics.NewTracker(o.metricsConfig())
	rows := [][]string{{"PATH", "TYPE", "LENGTH", "SIZE"}}

	var walk func(v jsonvalue.Value, path jsonvalue.Path)
	walk = func(v jsonvalue.Value, path jsonvalue.Path) {
		switch v.Kind() {
		case jsonvalue.KindString:
			s := v.AsString()
			a := classify.AnalyzeString(s)
			tracker.TrackString(a.Length, 0)
			size := a.Metadata.EstimatedSize
			if size == "" {
				size = classify.FormatBytes(int64(len(s)))
			}
			rows = append(rows, []string{path.Display(), typeLabel(a), strconv.Itoa(utf8.RuneCountInString(s)), size})
		case jsonvalue.KindArray, jsonvalue.KindObject:
			for _, c := range v.Children() {
				walk(c.Value, path.Append(c.Segment))
			}
		}
	}
	walk(root, jsonvalue.Path{})
	if _, err := io.WriteString(out, alignColumns(rows)); err != nil {
		return err
	}

	snap := tracker.Snapshot()
	fmt.Fprintf(out, "\nstrings: %d  long: %d  very long: %d  memory: %s\n",
		snap.TotalStrings, snap.LongStrings, snap.VeryLongStrings, tracker.FormattedMemoryUsage())
	for _, w := range tracker.Warnings() {
		fmt.Fprintf(out, "⚠ %s\n", w)
	}
	return nil
}

func typeLabel(a classify.Analysis) string {
	desc := classify.Describe(a)
	if icon := classify.Icon(a.Type); icon != "" {
		return icon + " " + desc
	}
	return desc
}

// alignColumns pads every cell to its column's display width. Wide runes
// count as two cells, so CJK keys stay aligned.
func alignColumns(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i == len(row)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(padRight(cell, widths[i]))
			b.WriteString("  ")
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
