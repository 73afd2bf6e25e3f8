package ui

import (
	"sort"
	"strings"
)

// KeyMode represents the keybinding mode for the UI.
type KeyMode string

const (
	// KeyModeVim enables single-letter shortcuts (j/k navigation, y copy).
	KeyModeVim KeyMode = "vim"
	// KeyModeFunction disables single-key shortcuts, uses function keys only.
	KeyModeFunction KeyMode = "function"
)

// DefaultKeyMode is the default keybinding mode.
const DefaultKeyMode = KeyModeVim

// ValidKeyModes lists all valid key modes for validation.
var ValidKeyModes = []KeyMode{KeyModeVim, KeyModeFunction}

// IsValidKeyMode checks if a key mode string is valid.
func IsValidKeyMode(mode string) bool {
	for _, m := range ValidKeyModes {
		if string(m) == mode {
			return true
		}
	}
	return false
}

// Action is what a key press asks the tree view to do.
type Action string

const (
	ActionNone            Action = ""
	ActionDown            Action = "down"
	ActionUp              Action = "up"
	ActionTop             Action = "top"
	ActionBottom          Action = "bottom"
	ActionPageDown        Action = "page_down"
	ActionPageUp          Action = "page_up"
	ActionActivate        Action = "activate"
	ActionExpand          Action = "expand"
	ActionCollapse        Action = "collapse"
	ActionToggleRecursive Action = "toggle_recursive"
	ActionExpandAll       Action = "expand_all"
	ActionCollapseAll     Action = "collapse_all"
	ActionCopyValue       Action = "copy_value"
	ActionCopyKey         Action = "copy_key"
	ActionCopyPath        Action = "copy_path"
	ActionEdit            Action = "edit"
	ActionToggleString    Action = "toggle_string"
	ActionTogglePreview   Action = "toggle_preview"
	ActionOpenURL         Action = "open_url"
	ActionReload          Action = "reload"
	ActionHelp            Action = "help"
	ActionQuit            Action = "quit"
)

// commonKeyBindings apply in every mode.
var commonKeyBindings = map[string]Action{
	"down":      ActionDown,
	"up":        ActionUp,
	"home":      ActionTop,
	"end":       ActionBottom,
	"pgdown":    ActionPageDown,
	"pgup":      ActionPageUp,
	"enter":     ActionActivate,
	"space":     ActionActivate,
	"right":     ActionExpand,
	"left":      ActionCollapse,
	"alt+enter": ActionToggleRecursive,
	"f1":        ActionHelp,
	"f2":        ActionEdit,
	"ctrl+c":    ActionQuit,
}

// VimKeyBindings maps single keys to actions in vim mode.
var VimKeyBindings = map[string]Action{
	"j": ActionDown,
	"k": ActionUp,
	"g": ActionTop,
	"G": ActionBottom,
	"l": ActionExpand,
	"h": ActionCollapse,
	"L": ActionToggleRecursive,
	"E": ActionExpandAll,
	"C": ActionCollapseAll,
	"y": ActionCopyValue,
	"K": ActionCopyKey,
	"p": ActionCopyPath,
	"e": ActionEdit,
	"v": ActionToggleString,
	"P": ActionTogglePreview,
	"o": ActionOpenURL,
	"R": ActionReload,
	"?": ActionHelp,
	"q": ActionQuit,
}

// FunctionKeyBindings maps function keys to actions in function mode.
var FunctionKeyBindings = map[string]Action{
	"f3":  ActionCopyValue,
	"f4":  ActionCopyKey,
	"f5":  ActionCopyPath,
	"f6":  ActionExpandAll,
	"f7":  ActionCollapseAll,
	"f8":  ActionToggleString,
	"f9":  ActionTogglePreview,
	"f10": ActionQuit,
	"f11": ActionOpenURL,
	"f12": ActionReload,
}

// ActionForKey resolves a key string (as produced by tea.KeyPressMsg.String)
// to an action in the given mode.
func ActionForKey(mode KeyMode, key string) Action {
	if a, ok := commonKeyBindings[key]; ok {
		return a
	}
	switch mode {
	case KeyModeFunction:
		return FunctionKeyBindings[key]
	default:
		return VimKeyBindings[key]
	}
}

// KeysForAction lists the keys bound to action in mode, common keys first.
func KeysForAction(mode KeyMode, action Action) []string {
	var common, specific []string
	for k, a := range commonKeyBindings {
		if a == action {
			common = append(common, k)
		}
	}
	bindings := VimKeyBindings
	if mode == KeyModeFunction {
		bindings = FunctionKeyBindings
	}
	for k, a := range bindings {
		if a == action {
			specific = append(specific, k)
		}
	}
	sort.Strings(common)
	sort.Strings(specific)
	return append(specific, common...)
}

// keyLabel joins the bound keys for display in help.
func keyLabel(mode KeyMode, action Action) string {
	return strings.Join(KeysForAction(mode, action), "/")
}
