package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/render"
)

// post hands msg to the event loop. It gives up once the app is closed.
func (a *App) post(msg tea.Msg) {
	select {
	case a.msgs <- msg:
	case <-a.done:
	}
}

// wait delivers the next posted message.
func (a *App) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-a.msgs:
			return inboxMsg{msg: msg}
		case <-a.done:
			return nil
		}
	}
}

func (a *App) onUpdate(upd *live.Update) { a.post(updateMsg{upd: upd}) }

// Fatal stops the app with err. It is safe to call from any goroutine.
func (a *App) Fatal(err error) { a.post(fatalErrorMsg{err: err}) }

// loopScheduler runs hook timers on the Bubble Tea event loop.
type loopScheduler struct{ a *App }

func (s loopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	msg := &timerMsg{fn: fn}
	t := time.AfterFunc(d, func() { s.a.post(msg) })
	return func() {
		t.Stop()
		msg.cancelled = true
	}
}

// viewScroller scrolls the palette list or the page viewer.
type viewScroller struct{ a *App }

func (s viewScroller) ScrollIntoView(n *dom.Node) {
	s.a.palette.ScrollIntoView(n)
}

func (s viewScroller) ScrollToTop(n *dom.Node, offset int) {
	if line, ok := render.LineOf(n); ok {
		s.a.viewer.ScrollToLine(line - offset)
	}
}

// panelPrompter shows values in the prompt overlay.
type panelPrompter struct{ a *App }

func (p panelPrompter) Prompt(title, value string) {
	p.a.prompt.ShowText(title, value)
}
