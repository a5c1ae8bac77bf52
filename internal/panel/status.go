package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/lore/internal/theme"
)

// Flash kinds.
const (
	FlashInfo  = "info"
	FlashWarn  = "warn"
	FlashError = "error"
)

// Status is the status bar at the bottom.
type Status struct {
	width     int
	mode      string
	route     string
	root      string
	clipboard string
	flash     string
	flashKind string
	theme     *theme.Theme
}

func NewStatus(root string) Status {
	return Status{
		root: root,
		mode: "READ",
	}
}

func (s *Status) SetTheme(th *theme.Theme) { s.theme = th }

// SetMode sets the label shown in the mode badge.
func (s *Status) SetMode(mode string) {
	s.mode = mode
}

func (s *Status) SetRoute(route string) {
	s.route = route
}

func (s *Status) SetWidth(width int) {
	s.width = width
}

func (s *Status) SetClipboard(label string) {
	s.clipboard = label
}

// SetFlash shows message until the next ClearFlash.
func (s *Status) SetFlash(kind, message string) {
	s.flashKind = kind
	s.flash = message
}

func (s *Status) ClearFlash() {
	s.flash = ""
	s.flashKind = ""
}

// Flash returns the current flash message.
func (s Status) Flash() string {
	return s.flash
}

func (s Status) View() string {
	if s.width == 0 {
		return ""
	}
	th := s.theme

	bgStyle := lipgloss.NewStyle().
		Background(th.StatusBg)

	modeStyle := lipgloss.NewStyle().
		Background(th.Accent).
		Foreground(th.Bg).
		Bold(true).
		Padding(0, 1)

	textStyle := lipgloss.NewStyle().
		Background(th.StatusBg).
		Foreground(th.StatusFg).
		Padding(0, 1)

	mode := modeStyle.Render(s.mode)

	var middle string
	if s.flash != "" {
		fg := th.StatusFg
		switch s.flashKind {
		case FlashError:
			fg = th.Error
		case FlashWarn:
			fg = th.Warn
		}
		middle = textStyle.Foreground(fg).Render(s.flash)
	} else {
		route := s.route
		if route == "" {
			route = s.root
		}
		middle = textStyle.Render(route)
	}

	right := ""
	if s.clipboard != "" {
		right = textStyle.Render(s.clipboard)
	}

	left := fmt.Sprintf("%s %s", mode, middle)
	if room := s.width - lipgloss.Width(right); lipgloss.Width(left) > room {
		left = ansi.Truncate(left, max(room, 0), "…")
	}

	padLen := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	padding := bgStyle.Render(strings.Repeat(" ", padLen))

	return left + padding + right
}
