package cmd

import (
	"io"
	"strings"
	"sync"
)

const defaultDebugLines = 500

// debugCollector holds log lines written while the tree viewer owns the
// terminal. Only the last maxLines lines are kept.
type debugCollector struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
}

func newDebugCollector(maxLines int) *debugCollector {
	if maxLines <= 0 {
		maxLines = defaultDebugLines
	}
	return &debugCollector{maxLines: maxLines}
}

// Write implements io.Writer so a logger can use the collector as its sink.
func (d *debugCollector) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		d.lines = append(d.lines, line)
	}
	if len(d.lines) > d.maxLines {
		d.lines = d.lines[len(d.lines)-d.maxLines:]
	}
	return len(p), nil
}

// Flush writes the held lines to w in arrival order and empties the collector.
func (d *debugCollector) Flush(w io.Writer) error {
	d.mu.Lock()
	lines := d.lines
	d.lines = nil
	d.mu.Unlock()
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}
