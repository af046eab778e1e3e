package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/pdfcontainer/internal/config"
)

// runMsg carries work posted to the UI goroutine by the element scheduler.
type runMsg struct {
	fn func()
}

// invalidateMsg asks for a redraw after the element's state changed.
type invalidateMsg struct{}

// configChangedMsg is sent when the config file changed on disk.
type configChangedMsg struct {
	cfg *config.Config
}

// flashMsg shows a transient status line message.
type flashMsg struct {
	text  string
	isErr bool
}

// clearFlashMsg clears the status line message with the given id.
type clearFlashMsg struct {
	id int
}

const flashDuration = 3 * time.Second

func clearFlashAfter(id int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{id: id}
	})
}
