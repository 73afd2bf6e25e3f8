package ui

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/jsonlens/internal/editlog"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

// Result is the state of a finished session.
type Result struct {
	Root  jsonvalue.Value
	Edits *editlog.Log
}

// Run starts the interactive tree viewer and blocks until the user quits.
// Width/height of 0 let the terminal decide; startKeys are applied before
// the program starts.
func Run(ctx context.Context, root jsonvalue.Value, o Options, width, height int, startKeys []string, progOpts ...tea.ProgramOption) (Result, error) {
	m := New(root, o)
	if width > 0 && height > 0 {
		m.Width, m.Height = width, height
		progOpts = append(progOpts, tea.WithWindowSize(width, height))
	}
	ApplyStartupKeys(m, startKeys)

	progOpts = append(progOpts, tea.WithContext(ctx))
	final, err := tea.NewProgram(m, progOpts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		m = fm
	}
	res := Result{Root: m.Root(), Edits: m.EditLog()}
	if err != nil {
		return res, fmt.Errorf("run tree viewer: %w", err)
	}
	return res, nil
}
