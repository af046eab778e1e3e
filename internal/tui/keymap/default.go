package keymap

import "github.com/charmbracelet/bubbles/key"

func bind(cmd Command, category, help string, keys ...string) Binding {
	return Binding{
		Binding:  key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], help)),
		Command:  cmd,
		Category: category,
	}
}

// Default returns the default keymap.
func Default() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode][]Binding{
			ModeNormal: defaultNormalBindings(),
			ModeSearch: defaultSearchBindings(),
			ModeSelect: defaultSelectBindings(),
			ModeMenu:   defaultMenuBindings(),
		},
	}
}

// ShortHelp lists the commands shown in the one-line help of each mode.
func ShortHelp(mode Mode) []Command {
	switch mode {
	case ModeSearch:
		return []Command{CmdSubmit, CmdNextResult, CmdToggleCase, CmdCancel}
	case ModeSelect:
		return []Command{CmdWordNext, CmdCursorNext, CmdSubmit, CmdCancel}
	case ModeMenu:
		return []Command{CmdCursorNext, CmdSubmit, CmdCancel}
	default:
		return []Command{CmdNextPage, CmdSearch, CmdSidebar, CmdZoomMenu, CmdBeginSelect, CmdToggleHelp, CmdQuit}
	}
}

func defaultNormalBindings() []Binding {
	return []Binding{
		bind(CmdScrollDown, "Navigation", "scroll down", "j", "down"),
		bind(CmdScrollUp, "Navigation", "scroll up", "k", "up"),
		bind(CmdNextPage, "Navigation", "next page", "n", "right", "pgdown"),
		bind(CmdPrevPage, "Navigation", "previous page", "p", "left", "pgup"),
		bind(CmdFirstPage, "Navigation", "first page", "g", "home"),
		bind(CmdLastPage, "Navigation", "last page", "G", "end"),

		bind(CmdZoomIn, "View", "zoom in", "+", "="),
		bind(CmdZoomOut, "View", "zoom out", "-"),
		bind(CmdZoomMenu, "View", "zoom menu", "z"),
		bind(CmdSidebar, "View", "sidebar", "b"),
		bind(CmdThumbnails, "View", "thumbnails", "t"),
		bind(CmdOutline, "View", "outline", "o"),

		bind(CmdSearch, "Search", "search", "/"),
		bind(CmdNextResult, "Search", "next result", "]"),
		bind(CmdPrevResult, "Search", "previous result", "["),

		bind(CmdBeginSelect, "Annotate", "select text", "v"),
		bind(CmdCopy, "Annotate", "copy selection", "y"),
		bind(CmdHighlightTool, "Annotate", "highlight tool", "h"),
		bind(CmdHighlightSelection, "Annotate", "highlight selection", "H"),
		bind(CmdNextAnnotation, "Annotate", "next annotation", "a"),
		bind(CmdDeleteAnnotation, "Annotate", "delete annotation", "x"),
		bind(CmdUndo, "Annotate", "undo", "u"),
		bind(CmdRedo, "Annotate", "redo", "ctrl+r", "U"),

		bind(CmdDownload, "Document", "download", "d"),
		bind(CmdClear, "Document", "clear", "esc"),
		bind(CmdToggleHelp, "Document", "help", "?"),
		bind(CmdQuit, "Document", "quit", "q", "ctrl+c"),
	}
}

func defaultSearchBindings() []Binding {
	return []Binding{
		bind(CmdSubmit, "Search", "search", "enter"),
		bind(CmdNextResult, "Search", "next result", "ctrl+n", "down"),
		bind(CmdPrevResult, "Search", "previous result", "ctrl+p", "up"),
		bind(CmdToggleCase, "Search", "match case", "alt+c"),
		bind(CmdToggleWord, "Search", "whole word", "alt+w"),
		bind(CmdToggleGlob, "Search", "wildcard", "alt+g"),
		bind(CmdCancel, "Search", "close", "esc"),
		bind(CmdQuit, "Search", "quit", "ctrl+c"),
	}
}

func defaultSelectBindings() []Binding {
	return []Binding{
		bind(CmdWordNext, "Select", "next word", "w", "right", "l"),
		bind(CmdWordPrev, "Select", "previous word", "b", "left", "h"),
		bind(CmdCursorNext, "Select", "next line", "j", "down"),
		bind(CmdCursorPrev, "Select", "previous line", "k", "up"),
		bind(CmdSubmit, "Select", "finish", "enter", "v"),
		bind(CmdCancel, "Select", "cancel", "esc"),
		bind(CmdQuit, "Select", "quit", "ctrl+c"),
	}
}

func defaultMenuBindings() []Binding {
	return []Binding{
		bind(CmdCursorNext, "Menu", "down", "j", "down", "tab"),
		bind(CmdCursorPrev, "Menu", "up", "k", "up", "shift+tab"),
		bind(CmdSubmit, "Menu", "choose", "enter", " "),
		bind(CmdCancel, "Menu", "close", "esc", "q"),
		bind(CmdQuit, "Menu", "quit", "ctrl+c"),
	}
}
