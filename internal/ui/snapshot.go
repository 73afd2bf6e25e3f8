package ui

import (
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// SnapshotConfig configures a single rendered frame.
type SnapshotConfig struct {
	Width     int
	Height    int
	StartKeys []string
	Options   Options
}

// RenderSnapshot renders one frame of the tree viewer for root after the
// start keys have been applied. Used for --snapshot and tests.
func RenderSnapshot(root jsonvalue.Value, cfg SnapshotConfig) string {
	m := New(root, cfg.Options)
	if cfg.Width > 0 {
		m.Width = cfg.Width
	}
	if cfg.Height > 0 {
		m.Height = cfg.Height
	}
	m.clampScroll()
	ApplyStartupKeys(m, cfg.StartKeys)
	return m.Render()
}
