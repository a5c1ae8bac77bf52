// Package viewer displays a rendered page in a scrollable viewport.
package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/lore/internal/markdown"
	"github.com/pfassina/lore/internal/theme"
)

// Viewer is the page panel. Page lines are laid out into screen rows; text
// wraps to the width and code is truncated.
type Viewer struct {
	vp    viewport.Model
	page  *markdown.Page
	theme *theme.Theme

	// lineRow is the first row of each page line.
	lineRow []int
	// rowLine is the page line drawn on each row.
	rowLine []int
	// rowBlock is the code block whose header is drawn on a row, or -1.
	rowBlock []int

	width   int
	height  int
	focused bool
}

func New() Viewer {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return Viewer{vp: vp}
}

func (v *Viewer) SetTheme(th *theme.Theme) {
	v.theme = th
	v.layout()
}

func (v *Viewer) SetSize(width, height int) {
	v.width, v.height = width, height
	v.vp.Width = width
	v.vp.Height = height
	top := v.TopLine()
	v.layout()
	v.ScrollToLine(top)
}

func (v *Viewer) SetFocused(focused bool) { v.focused = focused }

// SetPage shows page from the top.
func (v *Viewer) SetPage(page *markdown.Page) {
	v.page = page
	v.layout()
	v.vp.GotoTop()
}

// Page returns the page on display, or nil.
func (v *Viewer) Page() *markdown.Page { return v.page }

// ScrollToLine puts page line at the top of the viewport, as far as the
// content allows.
func (v *Viewer) ScrollToLine(line int) {
	if len(v.lineRow) == 0 {
		return
	}
	line = min(max(line, 0), len(v.lineRow)-1)
	v.vp.SetYOffset(v.lineRow[line])
}

// TopLine returns the page line drawn on the top row.
func (v *Viewer) TopLine() int {
	return v.lineAtRow(v.vp.YOffset)
}

// LineAt returns the page line drawn on a viewport row.
func (v *Viewer) LineAt(row int) (int, bool) {
	r := v.vp.YOffset + row
	if row < 0 || row >= v.height || r >= len(v.rowLine) {
		return 0, false
	}
	return v.rowLine[r], true
}

// CodeHeaderAt returns the code block whose header is drawn on a viewport
// row.
func (v *Viewer) CodeHeaderAt(row int) (int, bool) {
	r := v.vp.YOffset + row
	if row < 0 || row >= v.height || r >= len(v.rowBlock) || v.rowBlock[r] < 0 {
		return 0, false
	}
	return v.rowBlock[r], true
}

// CodeBlockAtTop returns the first code block that is at least partly
// visible.
func (v *Viewer) CodeBlockAtTop() (int, bool) {
	if v.page == nil {
		return 0, false
	}
	for r := v.vp.YOffset; r < len(v.rowLine) && r < v.vp.YOffset+v.height; r++ {
		if l := v.page.Lines[v.rowLine[r]]; l.Kind == markdown.LineCode {
			return l.Block, true
		}
	}
	return 0, false
}

func (v *Viewer) lineAtRow(r int) int {
	if r < 0 || r >= len(v.rowLine) {
		return 0
	}
	return v.rowLine[r]
}

func (v Viewer) Update(msg tea.Msg) (Viewer, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		switch msg.String() {
		case "g":
			v.vp.GotoTop()
			return v, nil
		case "G":
			v.vp.GotoBottom()
			return v, nil
		}
	case tea.MouseMsg:
	default:
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v Viewer) View() string {
	if v.width == 0 || v.height == 0 {
		return ""
	}
	if v.page == nil {
		dim := lipgloss.NewStyle().Foreground(v.theme.Dim).Padding(1, 2)
		return dim.Render("No document open. Press ctrl+k to search.")
	}
	return v.vp.View()
}

// layout renders the page into rows and rebuilds the row maps.
func (v *Viewer) layout() {
	v.lineRow, v.rowLine, v.rowBlock = v.lineRow[:0], v.rowLine[:0], v.rowBlock[:0]
	if v.page == nil || v.theme == nil || v.width <= 0 {
		v.vp.SetContent("")
		return
	}
	th := v.theme
	var rows []string
	add := func(line, block int, s string) {
		rows = append(rows, s)
		v.rowLine = append(v.rowLine, line)
		v.rowBlock = append(v.rowBlock, block)
	}

	text := lipgloss.NewStyle().Foreground(th.Text)
	code := lipgloss.NewStyle().Foreground(th.Code)
	dim := lipgloss.NewStyle().Foreground(th.Dim)

	for i, l := range v.page.Lines {
		v.lineRow = append(v.lineRow, len(rows))
		indent := strings.Repeat("  ", l.Indent)
		avail := max(v.width-1-len(indent), 8)

		switch l.Kind {
		case markdown.LineBlank:
			add(i, -1, "")
		case markdown.LineHeading:
			style := lipgloss.NewStyle().Foreground(th.Heading).Bold(true)
			if l.Level == 1 {
				style = style.Underline(true)
			}
			for _, w := range wrap(strings.Repeat("#", l.Level)+" "+l.Text, avail) {
				add(i, -1, indent+style.Render(w))
			}
		case markdown.LineCode:
			if blk := v.page.CodeBlocks[l.Block]; blk.Start == i {
				header := "copy"
				if blk.Lang != "" {
					header = fmt.Sprintf("%s · copy", blk.Lang)
				}
				add(i, l.Block, indent+dim.Render("╭ "+header))
			}
			add(i, -1, indent+code.Render(ansi.Truncate("│ "+l.Text, avail, "…")))
		case markdown.LineQuote:
			for _, w := range wrap(l.Text, avail-2) {
				add(i, -1, indent+dim.Render("▎ ")+text.Italic(true).Render(w))
			}
		case markdown.LineRule:
			add(i, -1, indent+dim.Render(strings.Repeat("─", avail)))
		case markdown.LineTable:
			add(i, -1, indent+text.Render(ansi.Truncate(l.Text, avail, "…")))
		case markdown.LineItem:
			for j, w := range wrap(l.Text, avail-2) {
				if j > 0 {
					w = "  " + w
				}
				add(i, -1, indent+text.Render(w))
			}
		default:
			for _, w := range wrap(l.Text, avail) {
				add(i, -1, indent+text.Render(w))
			}
		}
	}
	v.vp.SetContent(strings.Join(rows, "\n"))
}

func wrap(s string, width int) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(ansi.Wrap(s, max(width, 1), ""), "\n")
}
