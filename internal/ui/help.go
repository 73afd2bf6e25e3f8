package ui

import (
	"fmt"
	"strings"
)

// helpRows lists the actions shown in the help overlay, in display order.
var helpRows = []struct {
	action Action
	desc   string
}{
	{ActionDown, "move down"},
	{ActionUp, "move up"},
	{ActionTop, "go to top"},
	{ActionBottom, "go to bottom"},
	{ActionActivate, "toggle container / edit or copy leaf"},
	{ActionExpand, "expand"},
	{ActionCollapse, "collapse or go to parent"},
	{ActionToggleRecursive, "toggle subtree"},
	{ActionExpandAll, "expand all"},
	{ActionCollapseAll, "collapse all"},
	{ActionCopyValue, "copy value"},
	{ActionCopyKey, "copy key"},
	{ActionCopyPath, "copy path"},
	{ActionEdit, "edit value"},
	{ActionToggleString, "show full string"},
	{ActionTogglePreview, "image preview info"},
	{ActionOpenURL, "open URL"},
	{ActionReload, "reload document"},
	{ActionHelp, "help"},
	{ActionQuit, "quit"},
}

// HelpText renders the key reference for mode.
func HelpText(mode KeyMode, inlineEdit bool) string {
	rows := make([][2]string, 0, len(helpRows))
	width := 0
	for _, r := range helpRows {
		if r.action == ActionEdit && !inlineEdit {
			continue
		}
		keys := keyLabel(mode, r.action)
		if keys == "" {
			continue
		}
		width = max(width, len(keys))
		rows = append(rows, [2]string{keys, r.desc})
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Keys (%s mode)\n\n", mode)
	for _, r := range rows {
		fmt.Fprintf(&b, "  %-*s  %s\n", width, r[0], r[1])
	}
	if inlineEdit {
		b.WriteString("\nWhile editing: enter commit, esc cancel\n")
		b.WriteString("Values: null, true/false, numbers, \"quoted\" strings; anything else is text\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) helpText() string {
	return HelpText(m.keyMode, m.opts.InlineEdit)
}
