// Package keymap provides the viewer's key bindings. Bindings are grouped by
// input mode and resolved to named commands, so the model's Update dispatches
// on commands rather than on raw keys.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the TUI.
type Mode string

const (
	ModeNormal Mode = "normal" // Reading the document
	ModeSearch Mode = "search" // Typing a search query
	ModeSelect Mode = "select" // Extending a text selection with the keyboard
	ModeMenu   Mode = "menu"   // A command menu is open
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands. Most map one to one onto viewer commands.
const (
	CmdQuit       Command = "quit"
	CmdToggleHelp Command = "toggle_help"

	CmdScrollDown Command = "scroll_down"
	CmdScrollUp   Command = "scroll_up"
	CmdNextPage   Command = "next_page"
	CmdPrevPage   Command = "prev_page"
	CmdFirstPage  Command = "first_page"
	CmdLastPage   Command = "last_page"

	CmdZoomIn   Command = "zoom_in"
	CmdZoomOut  Command = "zoom_out"
	CmdZoomMenu Command = "zoom_menu"

	CmdSidebar    Command = "sidebar"
	CmdThumbnails Command = "thumbnails"
	CmdOutline    Command = "outline"
	CmdSearch     Command = "search"
	CmdNextResult Command = "next_result"
	CmdPrevResult Command = "prev_result"

	CmdBeginSelect        Command = "begin_select"
	CmdCopy               Command = "copy"
	CmdHighlightTool      Command = "highlight_tool"
	CmdHighlightSelection Command = "highlight_selection"
	CmdNextAnnotation     Command = "next_annotation"
	CmdDeleteAnnotation   Command = "delete_annotation"
	CmdUndo               Command = "undo"
	CmdRedo               Command = "redo"
	CmdDownload           Command = "download"
	CmdClear              Command = "clear"
)

// Search, select and menu mode commands.
const (
	CmdSubmit     Command = "submit"
	CmdCancel     Command = "cancel"
	CmdCursorNext Command = "cursor_next"
	CmdCursorPrev Command = "cursor_prev"
	CmdWordNext   Command = "word_next"
	CmdWordPrev   Command = "word_prev"
	CmdToggleCase Command = "toggle_match_case"
	CmdToggleWord Command = "toggle_whole_word"
	CmdToggleGlob Command = "toggle_wildcard"
)

// Binding ties a key binding to a command.
type Binding struct {
	key.Binding
	Command  Command
	Category string
}

// Keymap holds the bindings of every mode.
type Keymap struct {
	Name  string
	Modes map[Mode][]Binding
}

// Lookup returns the command msg triggers in mode. The first matching
// binding wins.
func (k *Keymap) Lookup(mode Mode, msg tea.KeyMsg) (Command, bool) {
	for _, b := range k.Modes[mode] {
		if b.Enabled() && key.Matches(msg, b.Binding) {
			return b.Command, true
		}
	}
	return "", false
}

// Bindings returns the bindings of mode.
func (k *Keymap) Bindings(mode Mode) []key.Binding {
	bs := k.Modes[mode]
	out := make([]key.Binding, len(bs))
	for i, b := range bs {
		out[i] = b.Binding
	}
	return out
}

// Categories returns mode's bindings grouped by category, in first-seen order.
func (k *Keymap) Categories(mode Mode) [][]key.Binding {
	var order []string
	groups := make(map[string][]key.Binding)
	for _, b := range k.Modes[mode] {
		if _, ok := groups[b.Category]; !ok {
			order = append(order, b.Category)
		}
		groups[b.Category] = append(groups[b.Category], b.Binding)
	}
	out := make([][]key.Binding, len(order))
	for i, c := range order {
		out[i] = groups[c]
	}
	return out
}

// Help adapts one mode of a Keymap to bubbles/help.
type Help struct {
	Keymap *Keymap
	Mode   Mode
	// Short lists the commands shown in the one-line help.
	Short []Command
}

// ShortHelp implements help.KeyMap.
func (h Help) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, cmd := range h.Short {
		for _, b := range h.Keymap.Modes[h.Mode] {
			if b.Command == cmd {
				out = append(out, b.Binding)
				break
			}
		}
	}
	return out
}

// FullHelp implements help.KeyMap.
func (h Help) FullHelp() [][]key.Binding {
	return h.Keymap.Categories(h.Mode)
}
