// Package metrics tallies the strings a tree view renders and raises
// warnings when a document is heavy enough to slow the view down.
package metrics

import (
	"fmt"
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

const (
	// LongThreshold and VeryLongThreshold are rune counts above which a
	// rendered string counts as long or very long.
	LongThreshold     = classify.Medium
	VeryLongThreshold = classify.Long

	// bytesPerChar estimates in-memory size of a character.
	bytesPerChar = 2
)

// Config holds the warning thresholds.
type Config struct {
	MemoryLimitMB      int
	MaxVeryLongStrings int
	RenderTimeLimit    time.Duration
}

// DefaultConfig returns the built-in thresholds: 50 MB, 10 very long strings, 1s.
func DefaultConfig() Config {
	return Config{MemoryLimitMB: 50, MaxVeryLongStrings: 10, RenderTimeLimit: time.Second}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalStrings         int
	LongStrings          int
	VeryLongStrings      int
	EstimatedMemoryBytes int64
	RenderTime           time.Duration
}

// Tracker accumulates render statistics. It is safe for concurrent use.
type Tracker struct {
	mu   sync.Mutex
	cfg  Config
	snap Snapshot
}

// NewTracker creates a Tracker. Zero fields of cfg fall back to DefaultConfig.
func NewTracker(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.MemoryLimitMB <= 0 {
		cfg.MemoryLimitMB = def.MemoryLimitMB
	}
	if cfg.MaxVeryLongStrings <= 0 {
		cfg.MaxVeryLongStrings = def.MaxVeryLongStrings
	}
	if cfg.RenderTimeLimit <= 0 {
		cfg.RenderTimeLimit = def.RenderTimeLimit
	}
	return &Tracker{cfg: cfg}
}

// Config returns the thresholds in effect.
func (t *Tracker) Config() Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cfg
}

// TrackString records one rendered string of length runes.
func (t *Tracker) TrackString(length int, renderTime time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.TotalStrings++
	if length > LongThreshold {
		t.snap.LongStrings++
	}
	if length > VeryLongThreshold {
		t.snap.VeryLongStrings++
	}
	t.snap.EstimatedMemoryBytes += int64(length) * bytesPerChar
	t.snap.RenderTime += renderTime
}

// TrackValue records every string leaf of v with no render time.
func (t *Tracker) TrackValue(v jsonvalue.Value) {
	switch v.Kind() {
	case jsonvalue.KindString:
		t.TrackString(utf8.RuneCountInString(v.AsString()), 0)
	case jsonvalue.KindArray, jsonvalue.KindObject:
		for _, c := range v.Children() {
			t.TrackValue(c.Value)
		}
	}
}

// AddRenderTime adds d to the accumulated render time.
func (t *Tracker) AddRenderTime(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.RenderTime += d
}

// Snapshot returns the current counters.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

// Reset clears all counters.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = Snapshot{}
}

// Warnings lists the thresholds currently exceeded.
func (t *Tracker) Warnings() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.warnings()
}

func (t *Tracker) warnings() []string {
	var out []string
	limit := int64(t.cfg.MemoryLimitMB) * 1024 * 1024
	if t.snap.EstimatedMemoryBytes > limit {
		mb := math.Round(float64(t.snap.EstimatedMemoryBytes) / 1024 / 1024)
		out = append(out, fmt.Sprintf("Memory usage (%.0fMB) exceeds limit (%dMB)", mb, t.cfg.MemoryLimitMB))
	}
	if t.snap.VeryLongStrings > t.cfg.MaxVeryLongStrings {
		out = append(out, fmt.Sprintf("%d very long strings detected - consider narrowing the view with --path or --expression", t.snap.VeryLongStrings))
	}
	if t.snap.RenderTime > t.cfg.RenderTimeLimit {
		out = append(out, fmt.Sprintf("Total render time (%dms) is high - performance may be affected", t.snap.RenderTime.Milliseconds()))
	}
	return out
}

// FormattedMemoryUsage renders the memory estimate, e.g. "1.5 KB".
func (t *Tracker) FormattedMemoryUsage() string {
	return classify.FormatBytes(t.Snapshot().EstimatedMemoryBytes)
}

// IsPerformanceGood reports no warnings, under half the render time limit and
// under 80% of the memory limit.
func (t *Tracker) IsPerformanceGood() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	limit := float64(t.cfg.MemoryLimitMB) * 1024 * 1024
	return len(t.warnings()) == 0 &&
		t.snap.RenderTime < t.cfg.RenderTimeLimit/2 &&
		float64(t.snap.EstimatedMemoryBytes) < limit*0.8
}
