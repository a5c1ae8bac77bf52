package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/live"
)

// fatalErrorMsg is sent to the Bubble Tea program when a background subsystem
// encounters an unrecoverable error. The app should quit and show the error.
type fatalErrorMsg struct{ err error }

func fatalCmd(err error) tea.Cmd {
	return tea.Batch(tea.Printf("fatal: %v\n", err), tea.Quit)
}

// updateMsg carries a live session update into the event loop.
type updateMsg struct{ upd *live.Update }

// timerMsg runs a scheduled hook callback on the event loop.
type timerMsg struct {
	fn        func()
	cancelled bool
}

// inboxMsg wraps a message posted from another goroutine.
type inboxMsg struct{ msg tea.Msg }

// reindexDoneMsg reports a finished re-index.
type reindexDoneMsg struct {
	count int
	err   error
}
