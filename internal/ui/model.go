package ui

import (
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/jsonlens/internal/classify"
	"github.com/oakwood-commons/jsonlens/internal/config"
	"github.com/oakwood-commons/jsonlens/internal/editlog"
	"github.com/oakwood-commons/jsonlens/internal/editor"
	"github.com/oakwood-commons/jsonlens/internal/metrics"
	"github.com/oakwood-commons/jsonlens/internal/render"
	"github.com/oakwood-commons/jsonlens/internal/treestate"
	"github.com/oakwood-commons/jsonlens/pkg/jsonvalue"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	flashCopied = "✓ Copied"
)

// Options configures a Model.
type Options struct {
	AppName      string
	KeyMode      KeyMode
	InlineEdit   bool
	MaxStringLen int
	ExpandAll    bool
	// Focus selects the initially focused node; ancestors are expanded.
	Focus        jsonvalue.Path
	Theme        Theme
	NoColor      bool
	CopyFeedback time.Duration
	Metrics      metrics.Config
	Logger       logr.Logger
	// OnDataChange is called with the new root after every committed edit.
	OnDataChange func(jsonvalue.Value)
	// Reload re-reads the document for the reload key; nil disables it.
	Reload func() (jsonvalue.Value, error)
}

// DocumentMsg replaces the viewed document.
type DocumentMsg struct {
	Root jsonvalue.Value
}

// flashClearMsg clears the flash message with the matching ID.
type flashClearMsg struct {
	ID int
}

// Model is the bubbletea model of the tree viewer.
type Model struct {
	root     jsonvalue.Value
	state    treestate.State
	triggers *render.Triggers
	trigCfg  render.TriggerConfig
	opts     render.Options
	actions  render.Actions
	reload   func() (jsonvalue.Value, error)
	lines    []render.Line
	cursor   int
	offset   int

	Width  int
	Height int

	keyMode  KeyMode
	appName  string
	showHelp bool
	previews map[jsonvalue.PathKey]bool

	edit     *editor.Editor
	editPath jsonvalue.Path
	input    textinput.Model

	flash        string
	flashErr     bool
	flashID      int
	copyFeedback time.Duration

	tracker *metrics.Tracker
	edits   *editlog.Log
	logger  logr.Logger
	styles  styles
	noColor bool

	quitting bool
}

// New builds a Model for root.
func New(root jsonvalue.Value, o Options) *Model {
	if o.KeyMode == "" {
		o.KeyMode = DefaultKeyMode
	}
	if o.CopyFeedback <= 0 {
		o.CopyFeedback = config.DefaultCopyFeedback
	}
	if o.AppName == "" {
		o.AppName = "jsonlens"
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = editor.Placeholder
	ti.CharLimit = 0
	ti.SetWidth(40)

	m := &Model{
		root:         root,
		state:        treestate.New(),
		triggers:     render.NewTriggers(render.TriggerConfig{}),
		Width:        defaultWidth,
		Height:       defaultHeight,
		keyMode:      o.KeyMode,
		appName:      o.AppName,
		previews:     map[jsonvalue.PathKey]bool{},
		input:        ti,
		copyFeedback: o.CopyFeedback,
		tracker:      metrics.NewTracker(o.Metrics),
		edits:        editlog.New(root),
		logger:       o.Logger,
		styles:       newStyles(o.Theme, o.NoColor),
		noColor:      o.NoColor,
		reload:       o.Reload,
		opts: render.Options{
			InlineEdit:      o.InlineEdit,
			MaxStringLen:    o.MaxStringLen,
			ExpandedStrings: map[jsonvalue.PathKey]bool{},
		},
	}
	onChange := o.OnDataChange
	m.actions = render.Actions{
		OnCopy: CopyToClipboard,
		OnDataChange: func(v jsonvalue.Value) {
			if onChange != nil {
				onChange(v)
			}
		},
	}

	if o.ExpandAll {
		m.trigCfg.ExpandAllTrigger++
	}
	if len(o.Focus) > 0 {
		for p := o.Focus.Parent(); ; p = p.Parent() {
			m.state = m.state.SetExpanded(p, true)
			if p.IsRoot() {
				break
			}
		}
		m.state = m.state.Focus(o.Focus)
	} else {
		m.state = m.state.SetExpanded(jsonvalue.Path{}, true)
	}
	m.refresh()
	return m
}

// Root returns the current document.
func (m *Model) Root() jsonvalue.Value { return m.root }

// SetRoot replaces the document. Expansion and focus are kept where their
// paths still exist, an open edit is cancelled and the edit log starts over
// from root.
func (m *Model) SetRoot(root jsonvalue.Value) {
	if m.edit != nil {
		_ = m.edit.Cancel()
		m.endEdit()
	}
	m.root = root
	m.state = m.state.Prune(root)
	m.edits = editlog.New(root)
	m.logger.V(1).Info("document replaced", "expanded", len(m.state.Expanded()))
	m.refresh()
}

// EditLog returns the edits committed in this session.
func (m *Model) EditLog() *editlog.Log { return m.edits }

// Lines returns the visible lines.
func (m *Model) Lines() []render.Line { return m.lines }

// FocusedLine returns the line under the cursor.
func (m *Model) FocusedLine() (render.Line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return render.Line{}, false
	}
	return m.lines[m.cursor], true
}

// Editing reports whether an inline edit is in progress.
func (m *Model) Editing() bool { return m.edit != nil }

// Flash returns the current flash message.
func (m *Model) Flash() string { return m.flash }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.input.SetWidth(max(10, m.Width/2))
		m.clampScroll()
		return m, nil
	case DocumentMsg:
		m.SetRoot(msg.Root)
		return m, nil
	case flashClearMsg:
		if msg.ID == m.flashID {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil
	case tea.KeyPressMsg:
		if m.edit != nil {
			return m, m.handleEditKey(msg)
		}
		if m.showHelp {
			switch msg.String() {
			case "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			default:
				m.showHelp = false
				return m, nil
			}
		}
		return m, m.handleAction(ActionForKey(m.keyMode, msg.String()))
	}
	if m.edit != nil {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleAction(a Action) tea.Cmd {
	line, ok := m.FocusedLine()
	if !ok {
		if a == ActionQuit {
			m.quitting = true
			return tea.Quit
		}
		return nil
	}
	switch a {
	case ActionDown:
		m.moveTo(m.cursor + 1)
	case ActionUp:
		m.moveTo(m.cursor - 1)
	case ActionTop:
		m.moveTo(0)
	case ActionBottom:
		m.moveTo(len(m.lines) - 1)
	case ActionPageDown:
		m.moveTo(m.cursor + m.bodyHeight())
	case ActionPageUp:
		m.moveTo(m.cursor - m.bodyHeight())
	case ActionActivate:
		switch {
		case line.Expandable:
			m.state = m.state.Toggle(line.Path)
			m.refresh()
		case line.Editable:
			return m.startEdit(line)
		default:
			return m.copy(m.actions.CopyValue, line)
		}
	case ActionExpand:
		if line.Expandable && !line.Expanded {
			m.state = m.state.SetExpanded(line.Path, true)
			m.refresh()
		}
	case ActionCollapse:
		if line.Expandable && line.Expanded {
			m.state = m.state.SetExpanded(line.Path, false)
		} else if !line.Path.IsRoot() {
			m.state = m.state.Focus(line.Path.Parent())
		}
		m.refresh()
	case ActionToggleRecursive:
		if line.Expandable {
			m.state = m.state.ToggleRecursive(line.Value, line.Path, !line.Expanded)
			m.refresh()
		}
	case ActionExpandAll:
		m.trigCfg.ExpandAllTrigger++
		m.refresh()
	case ActionCollapseAll:
		m.trigCfg.CollapseAllTrigger++
		m.refresh()
	case ActionCopyValue:
		return m.copy(m.actions.CopyValue, line)
	case ActionCopyKey:
		if !line.HasKey {
			return nil
		}
		return m.copy(m.actions.CopyKey, line)
	case ActionCopyPath:
		return m.copy(m.actions.CopyPath, line)
	case ActionEdit:
		if line.Editable {
			return m.startEdit(line)
		}
		if !line.Expandable && !m.opts.InlineEdit {
			return m.setFlash("⚠ inline editing is disabled (use --inline-edit)", true)
		}
	case ActionToggleString:
		key := line.Path.Key()
		if line.Truncated || m.opts.ExpandedStrings[key] {
			if m.opts.ExpandedStrings[key] {
				delete(m.opts.ExpandedStrings, key)
			} else {
				m.opts.ExpandedStrings[key] = true
			}
			m.refresh()
		}
	case ActionTogglePreview:
		if line.Analysis != nil && line.Analysis.Type == classify.TypeBase64Image {
			key := line.Path.Key()
			m.previews[key] = !m.previews[key]
		}
	case ActionOpenURL:
		if line.Analysis != nil && line.Analysis.Type == classify.TypeURL {
			if err := OpenURL(line.Value.AsString()); err != nil {
				return m.setFlash("⚠ "+err.Error(), true)
			}
			return m.setFlash("✓ Opened in browser", false)
		}
	case ActionReload:
		if m.reload == nil {
			return m.setFlash("⚠ nothing to reload", true)
		}
		root, err := m.reload()
		if err != nil {
			return m.setFlash("⚠ "+err.Error(), true)
		}
		m.SetRoot(root)
		return m.setFlash("✓ Reloaded", false)
	case ActionHelp:
		m.showHelp = true
	case ActionQuit:
		m.quitting = true
		return tea.Quit
	case ActionNone:
	}
	return nil
}

// copy hands the text to the clipboard and shows the copied flash whatever
// the outcome.
func (m *Model) copy(fn func(render.Line) error, line render.Line) tea.Cmd {
	if err := fn(line); err != nil {
		m.logger.V(1).Info("clipboard write failed", "path", line.Path.Display(), "error", err.Error())
	}
	return m.setFlash(flashCopied, false)
}

func (m *Model) startEdit(line render.Line) tea.Cmd {
	ed, err := editor.New(line.Value)
	if err != nil {
		return m.setFlash("⚠ "+err.Error(), true)
	}
	m.edit = ed
	m.editPath = line.Path
	m.input.SetValue(ed.Buffer())
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.commitEdit()
	case "esc":
		_ = m.edit.Cancel()
		m.endEdit()
		return nil
	case "ctrl+c":
		m.quitting = true
		return tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	_ = m.edit.SetBuffer(m.input.Value())
	return cmd
}

func (m *Model) commitEdit() tea.Cmd {
	_ = m.edit.SetBuffer(m.input.Value())
	newValue, err := m.edit.Commit()
	if err != nil {
		m.endEdit()
		return m.setFlash("⚠ "+err.Error(), true)
	}
	old := m.edit.Original()
	path := m.editPath
	m.endEdit()

	updated, err := m.actions.Commit(m.root, path, newValue)
	if err != nil {
		m.logger.Error(err, "commit failed", "path", path.Display())
		return m.setFlash("⚠ "+err.Error(), true)
	}
	m.root = updated
	m.edits.Record(path, old, newValue)
	m.logger.V(1).Info("value edited", "path", path.Display(), "type", newValue.Kind().String())
	m.refresh()
	return nil
}

func (m *Model) endEdit() {
	m.edit = nil
	m.editPath = nil
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flash = text
	m.flashErr = isErr
	m.flashID++
	id := m.flashID
	return tea.Tick(m.copyFeedback, func(time.Time) tea.Msg {
		return flashClearMsg{ID: id}
	})
}

func (m *Model) moveTo(idx int) {
	if len(m.lines) == 0 {
		return
	}
	idx = max(0, min(idx, len(m.lines)-1))
	if idx == m.cursor {
		return
	}
	m.lines[m.cursor].Focused = false
	m.cursor = idx
	m.lines[idx].Focused = true
	m.state = m.state.Focus(m.lines[idx].Path)
	m.clampScroll()
}

// refresh applies pending triggers, re-walks the tree and keeps the focus
// on the nearest visible ancestor of the focused path.
func (m *Model) refresh() {
	start := time.Now()
	m.state = m.triggers.Apply(m.state, m.root, m.trigCfg)
	m.lines = render.Walk(m.root, m.state, m.opts)
	elapsed := time.Since(start)

	m.tracker.Reset()
	for _, l := range m.lines {
		if l.Analysis != nil {
			m.tracker.TrackString(l.Analysis.Length, 0)
		}
	}
	m.tracker.AddRenderTime(elapsed)

	m.cursor = 0
	if focus, ok := m.state.Focused(); ok {
		for p := focus; ; p = p.Parent() {
			if idx := render.FindLine(m.lines, p); idx >= 0 {
				m.cursor = idx
				break
			}
			if p.IsRoot() {
				break
			}
		}
	}
	if len(m.lines) > 0 {
		if !m.state.IsFocused(m.lines[m.cursor].Path) {
			m.state = m.state.Focus(m.lines[m.cursor].Path)
		}
		m.lines[m.cursor].Focused = true
	}
	m.clampScroll()
}

// bodyHeight is the number of tree rows that fit between header and status.
func (m *Model) bodyHeight() int {
	return max(1, m.Height-2)
}

func (m *Model) clampScroll() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	m.offset = max(0, min(m.offset, max(0, len(m.lines)-h)))
}
