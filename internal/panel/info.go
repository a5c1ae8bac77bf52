package panel

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/markdown"
	"github.com/pfassina/lore/internal/theme"
)

// HeadingSelectedMsg is sent when an outline heading is chosen.
type HeadingSelectedMsg struct {
	Anchor string
}

// BacklinkSelectedMsg is sent when a backlink is chosen.
type BacklinkSelectedMsg struct {
	Path string
}

type infoItem struct {
	label  string
	anchor string
	path   string
	header bool
}

// Info is the outline and backlinks panel.
type Info struct {
	width   int
	height  int
	items   []infoItem
	cursor  int
	offset  int
	focused bool
	theme   *theme.Theme
}

func NewInfo() Info {
	return Info{}
}

func (i *Info) SetTheme(th *theme.Theme) { i.theme = th }

// SetPage replaces the outline and backlinks. The cursor moves to the first
// selectable item.
func (i *Info) SetPage(headings []markdown.Heading, backlinks []live.Result) {
	i.items = i.items[:0]
	if len(headings) > 0 {
		i.items = append(i.items, infoItem{label: "Outline", header: true})
		for _, h := range headings {
			indent := strings.Repeat("  ", max(h.Level-1, 0))
			i.items = append(i.items, infoItem{label: indent + h.Text, anchor: h.Anchor})
		}
	}
	if len(backlinks) > 0 {
		i.items = append(i.items, infoItem{label: "Backlinks", header: true})
		for _, b := range backlinks {
			i.items = append(i.items, infoItem{label: b.Title, path: b.Path})
		}
	}
	i.cursor = i.step(-1, 1)
	i.offset = 0
}

func (i *Info) Clear() {
	i.items = nil
	i.cursor = 0
	i.offset = 0
}

// step returns the next selectable index after from in direction dir, or
// from when there is none.
func (i *Info) step(from, dir int) int {
	for j := from + dir; j >= 0 && j < len(i.items); j += dir {
		if !i.items[j].header {
			return j
		}
	}
	return max(from, 0)
}

func (i *Info) viewHeight() int {
	return max(i.height-2, 1)
}

func (i *Info) scrollToCursor() {
	if i.cursor < i.offset {
		i.offset = i.cursor
	}
	if i.cursor-i.offset >= i.viewHeight() {
		i.offset = i.cursor - i.viewHeight() + 1
	}
}

func (i Info) Update(msg tea.Msg) (Info, tea.Cmd) {
	if !i.focused {
		return i, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			i.cursor = i.step(i.cursor, 1)
			i.scrollToCursor()
		case "k", "up":
			i.cursor = i.step(i.cursor, -1)
			i.scrollToCursor()
		case "enter", "l":
			return i, i.selectItem(i.cursor)
		}
	}
	return i, nil
}

func (i *Info) selectItem(j int) tea.Cmd {
	if j < 0 || j >= len(i.items) || i.items[j].header {
		return nil
	}
	item := i.items[j]
	if item.path != "" {
		return func() tea.Msg { return BacklinkSelectedMsg{Path: item.path} }
	}
	return func() tea.Msg { return HeadingSelectedMsg{Anchor: item.anchor} }
}

// Click selects the item drawn at row (0 is the title row).
func (i *Info) Click(row int) tea.Cmd {
	j := i.offset + row - 1
	if row < 1 || j >= len(i.items) || i.items[j].header {
		return nil
	}
	i.cursor = j
	return i.selectItem(j)
}

func (i Info) View() string {
	if i.width == 0 || i.height == 0 {
		return ""
	}
	th := i.theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(th.Dim).
		Padding(0, 1)
	if i.focused {
		titleStyle = titleStyle.Foreground(th.Accent).Underline(true)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Info"))
	b.WriteByte('\n')

	if len(i.items) == 0 {
		dim := lipgloss.NewStyle().Foreground(th.Dim).Padding(0, 1)
		b.WriteString(dim.Render("No items"))
		b.WriteByte('\n')
		return b.String()
	}

	for j := i.offset; j < len(i.items) && j-i.offset < i.viewHeight(); j++ {
		item := i.items[j]
		line := ansi.Truncate(" "+item.label, i.width-1, "…")
		style := lipgloss.NewStyle().Foreground(th.Text)
		switch {
		case item.header:
			style = lipgloss.NewStyle().Foreground(th.Heading).Bold(true)
		case j == i.cursor && i.focused:
			style = lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
		case item.path != "":
			style = lipgloss.NewStyle().Foreground(th.Link)
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}

	return b.String()
}

func (i *Info) SetSize(width, height int) {
	i.width = width
	i.height = height
}

func (i *Info) SetFocused(focused bool) {
	i.focused = focused
}
