package app

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/markdown"
)

// keyEvent translates a terminal key into a keydown event with DOM key
// names.
func keyEvent(msg tea.KeyMsg) *dom.Event {
	e := &dom.Event{Type: dom.KeyDown, Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyUp:
		e.Key = "ArrowUp"
	case tea.KeyDown:
		e.Key = "ArrowDown"
	case tea.KeyLeft:
		e.Key = "ArrowLeft"
	case tea.KeyRight:
		e.Key = "ArrowRight"
	case tea.KeyEnter:
		e.Key = "Enter"
	case tea.KeyEsc:
		e.Key = "Escape"
	case tea.KeyTab:
		e.Key = "Tab"
	case tea.KeyShiftTab:
		e.Key, e.Shift = "Tab", true
	case tea.KeyBackspace:
		e.Key = "Backspace"
	case tea.KeySpace:
		e.Key = " "
	case tea.KeyRunes:
		e.Key = string(msg.Runes)
		if len(msg.Runes) == 1 && unicode.IsUpper(msg.Runes[0]) {
			e.Shift = true
		}
	default:
		s := msg.String()
		if k, ok := strings.CutPrefix(s, "alt+"); ok {
			s = k
		}
		if k, ok := strings.CutPrefix(s, "ctrl+"); ok {
			e.Ctrl = true
			s = k
		}
		e.Key = s
	}
	return e
}

// dispatchKey delivers a key to the focused element, or the body. It
// reports whether a listener consumed it.
func (a *App) dispatchKey(msg tea.KeyMsg) bool {
	e := keyEvent(msg)
	target := a.sk.Doc.ActiveElement()
	if target == nil {
		target = a.sk.Doc.Body()
	}
	target.Dispatch(e)
	return e.DefaultPrevented()
}

// handleMouse routes pointer input to the palette while it is open and to
// the panels otherwise.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	dx, dy := msg.X-a.lastX, msg.Y-a.lastY
	a.lastX, a.lastY = msg.X, msg.Y

	if a.palette.Visible() {
		entry := a.palette.EntryAt(msg.X, msg.Y)
		switch {
		case msg.Action == tea.MouseActionMotion:
			if entry != nil {
				entry.Dispatch(&dom.Event{Type: dom.MouseOver, X: msg.X, Y: msg.Y, MovementX: dx, MovementY: dy})
			}
		case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
			if entry != nil {
				entry.Dispatch(&dom.Event{Type: dom.Click, X: msg.X, Y: msg.Y})
			} else if !a.palette.Contains(msg.X, msg.Y) {
				a.sk.Doc.DispatchWindow(dom.NewCustomEvent("close-search", nil))
			}
		}
		return nil
	}

	layout := a.layout()
	if msg.Y >= layout.Height {
		return nil
	}
	reg := layout.regionAt(msg.X)

	if msg.Action != tea.MouseActionPress {
		return nil
	}
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if reg == regionPage {
			var cmd tea.Cmd
			a.viewer, cmd = a.viewer.Update(msg)
			return cmd
		}
		return nil
	}
	if msg.Button != tea.MouseButtonLeft {
		return nil
	}

	switch reg {
	case regionTree:
		a.setFocus(focusTree)
		return a.tree.Click(msg.Y)
	case regionInfo:
		a.setFocus(focusInfo)
		return a.info.Click(msg.Y)
	default:
		a.setFocus(focusPage)
		row := msg.Y - 1 // title row
		if blk, ok := a.viewer.CodeHeaderAt(row); ok {
			a.copyBlock(blk)
			return nil
		}
		if line, ok := a.viewer.LineAt(row); ok {
			if l := a.viewer.Page().Lines[line]; l.Kind == markdown.LineHeading && l.Anchor != "" {
				a.jumpToHeading(l.Anchor)
			}
		}
	}
	return nil
}
