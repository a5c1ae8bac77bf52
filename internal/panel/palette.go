package panel

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/render"
	"github.com/pfassina/lore/internal/theme"
)

// paletteHeader is the number of rows above the first entry: border, title,
// input and a blank line.
const paletteHeader = 4

// Palette draws the search palette from the document. Visibility, the
// result list and the active entry all live in the document; Palette only
// owns the text cursor and the list scroll offset.
type Palette struct {
	sk       *render.Skeleton
	input    textinput.Model
	theme    *theme.Theme
	width    int
	height   int
	offset   int
	shortcut string
}

func NewPalette(sk *render.Skeleton) Palette {
	ti := textinput.New()
	ti.Placeholder = "Search documentation..."
	ti.Prompt = "/ "
	ti.CharLimit = 256
	ti.Focus()
	if v, ok := sk.Input.Attr("placeholder"); ok {
		ti.Placeholder = v
	}
	return Palette{sk: sk, input: ti}
}

// SetTheme sets the color theme for the palette.
func (p *Palette) SetTheme(th *theme.Theme) { p.theme = th }

// SetShortcutLabel sets the shortcut shown in the title.
func (p *Palette) SetShortcutLabel(s string) { p.shortcut = s }

func (p *Palette) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = p.boxWidth() - 8
}

// Visible reports whether the search container is shown.
func (p *Palette) Visible() bool { return !p.sk.Container.Hidden() }

// HandleKey feeds a key to the text input. When the text changes the
// document input is updated and an input event is dispatched on it.
func (p *Palette) HandleKey(msg tea.KeyMsg) tea.Cmd {
	prev := p.sk.Input.Value()
	p.input.SetValue(prev)
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if v := p.input.Value(); v != prev {
		p.sk.Input.SetValue(v)
		p.sk.Input.Dispatch(&dom.Event{Type: dom.Input, Target: p.sk.Input})
	}
	return cmd
}

// ScrollIntoView scrolls the list the least amount needed to show n.
func (p *Palette) ScrollIntoView(n *dom.Node) {
	if n == nil || n.Parent() != p.sk.List {
		return
	}
	idx, rows := n.Index(), p.rows()
	switch {
	case idx < p.offset:
		p.offset = idx
	case idx >= p.offset+rows:
		p.offset = idx - rows + 1
	}
}

// Offset returns the index of the first visible entry.
func (p *Palette) Offset() int { return p.offset }

// Origin returns the screen position of the palette's top-left corner.
func (p *Palette) Origin() (x, y int) {
	x = (p.width - p.boxWidth()) / 2
	y = p.height / 6
	return max(x, 0), y
}

// EntryAt returns the list entry drawn at screen position (x, y).
func (p *Palette) EntryAt(x, y int) *dom.Node {
	if !p.Visible() {
		return nil
	}
	ox, oy := p.Origin()
	row, col := y-oy-paletteHeader, x-ox
	if row < 0 || row >= p.rows() || col < 0 || col >= p.boxWidth() {
		return nil
	}
	entries := p.sk.List.Children()
	if idx := p.offset + row; idx < len(entries) {
		return entries[idx]
	}
	return nil
}

// Contains reports whether (x, y) falls inside the palette box.
func (p *Palette) Contains(x, y int) bool {
	ox, oy := p.Origin()
	return x >= ox && x < ox+p.boxWidth() && y >= oy && y < oy+p.boxHeight()
}

func (p *Palette) boxWidth() int {
	w := p.width * 3 / 5
	if w > 90 {
		w = 90
	}
	if w < 30 {
		w = min(30, p.width)
	}
	return w
}

// rows is the number of entry rows the list shows.
func (p *Palette) rows() int {
	r := p.height/2 - paletteHeader
	if r < 3 {
		r = 3
	}
	return r
}

func (p *Palette) boxHeight() int {
	n := min(p.sk.List.ChildCount()-p.offset, p.rows())
	if n < 1 {
		n = 1 // "No results"
	}
	return paletteHeader + n + 2 // footer and bottom border
}

func (p *Palette) View() string {
	if !p.Visible() {
		return ""
	}
	th := p.theme
	width := p.boxWidth()
	inner := width - 4

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Accent).
		Padding(0, 1).
		Width(width - 2)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	title := titleStyle.Render("Search")
	if p.shortcut != "" {
		title += " " + dim.Render(p.shortcut)
	}

	in := p.input
	in.SetValue(p.sk.Input.Value())

	lines := []string{title, in.View(), ""}

	entries := p.sk.List.Children()
	if len(entries) == 0 {
		lines = append(lines, dim.Render("No results"))
	}
	end := min(len(entries), p.offset+p.rows())
	for i := p.offset; i < end; i++ {
		lines = append(lines, p.entryLine(entries[i], inner))
	}

	footer := "↑/↓ move · enter open · esc close"
	if extra := len(entries) - end; extra > 0 {
		footer = fmt.Sprintf("%d more · %s", extra, footer)
	}
	lines = append(lines, dim.Render(ansi.Truncate(footer, inner, "…")))

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func (p *Palette) entryLine(e *dom.Node, width int) string {
	th := p.theme
	var title, extra string
	for i, c := range e.Children() {
		if i == 0 {
			title = c.TextContent()
		} else {
			extra = c.TextContent()
		}
	}
	if link := e.FirstChild(); link != nil {
		if href, _ := link.Attr("href"); strings.Contains(href, "#") {
			title = "# " + title
		}
	}

	active := e.HasClass(render.ActiveClass)
	prefix := "  "
	style := lipgloss.NewStyle().Foreground(th.Text)
	if active {
		prefix = "> "
		style = lipgloss.NewStyle().Foreground(th.Accent).Background(th.Selected).Bold(true)
	}

	line := prefix + title
	if extra != "" && extra != title {
		line += "  " + extra
	}
	line = ansi.Truncate(line, width, "…")
	if pad := width - ansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	return style.Render(line)
}
