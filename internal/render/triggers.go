package render

import (
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// TriggerConfig carries monotonically increasing counters. Bumping a counter
// requests the matching bulk operation once.
type TriggerConfig struct {
	ExpandAllTrigger   uint64
	CollapseAllTrigger uint64
}

// Triggers remembers the last counter values it acted on.
type Triggers struct {
	lastExpand   uint64
	lastCollapse uint64
}

// NewTriggers returns Triggers that treat the counters in cfg as already seen.
func NewTriggers(cfg TriggerConfig) *Triggers {
	return &Triggers{lastExpand: cfg.ExpandAllTrigger, lastCollapse: cfg.CollapseAllTrigger}
}

// Apply runs expand-all when ExpandAllTrigger grew since the last call and
// collapse-all when CollapseAllTrigger grew. When both grew, expand runs first
// so the collapse wins.
func (t *Triggers) Apply(state treestate.State, root jsonvalue.Value, cfg TriggerConfig) treestate.State {
	if cfg.ExpandAllTrigger > t.lastExpand {
		state = state.ExpandAll(root)
	}
	if cfg.CollapseAllTrigger > t.lastCollapse {
		state = state.CollapseAll()
	}
	t.lastExpand = cfg.ExpandAllTrigger
	t.lastCollapse = cfg.CollapseAllTrigger
	return state
}
