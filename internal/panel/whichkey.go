package panel

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfassina/lore/internal/theme"
)

const whichKeyGap = 3

// WhichKeyEntry is one binding available after the typed prefix. Group
// entries lead to further bindings.
type WhichKeyEntry struct {
	Key   string
	Label string
	Group bool
}

// WhichKey shows the bindings reachable from a partially typed leader
// sequence.
type WhichKey struct {
	entries []WhichKeyEntry
	prefix  string
	width   int
	theme   *theme.Theme
}

func NewWhichKey() WhichKey {
	return WhichKey{}
}

// SetEntries replaces the entries. Actions sort before groups, each by key.
func (w *WhichKey) SetEntries(prefix string, entries []WhichKeyEntry) {
	w.prefix = prefix
	w.entries = entries
	sort.Slice(w.entries, func(i, j int) bool {
		a, b := w.entries[i], w.entries[j]
		if a.Group != b.Group {
			return !a.Group
		}
		return a.Key < b.Key
	})
}

func (w *WhichKey) SetTheme(th *theme.Theme) { w.theme = th }

func (w *WhichKey) SetWidth(width int) {
	w.width = width
}

func (w *WhichKey) Clear() {
	w.entries = nil
	w.prefix = ""
}

// Columns returns how many entry columns fit in the popup.
func (w WhichKey) Columns() int {
	inner := w.innerWidth()
	cell := 0
	for _, e := range w.entries {
		cell = max(cell, lipgloss.Width(keyLabel(e.Key))+1+lipgloss.Width(e.Label))
	}
	if cell == 0 {
		return 1
	}
	return min(max(1, (inner+whichKeyGap)/(cell+whichKeyGap)), len(w.entries))
}

// innerWidth is the text width inside border and padding.
func (w WhichKey) innerWidth() int {
	width := w.width
	if width == 0 {
		width = 60
	}
	return max(width-4, 10)
}

func (w WhichKey) View() string {
	if len(w.entries) == 0 {
		return ""
	}

	th := w.theme
	if th == nil {
		def := theme.DefaultTheme()
		th = &def
	}
	inner := w.innerWidth()

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1).
		Width(inner + 2)
	title := lipgloss.NewStyle().Bold(true).Foreground(th.Accent)
	key := lipgloss.NewStyle().Bold(true).Foreground(th.Link)
	action := lipgloss.NewStyle().Foreground(th.Text)
	group := lipgloss.NewStyle().Foreground(th.Accent)
	hint := lipgloss.NewStyle().Foreground(th.Dim)

	cells := make([]string, len(w.entries))
	for i, e := range w.entries {
		label := action.Render(e.Label)
		if e.Group {
			label = group.Render(e.Label)
		}
		cells[i] = key.Render(keyLabel(e.Key)) + " " + label
	}

	// Column-major, so groups end up together in the last column.
	cols := w.Columns()
	rows := (len(cells) + cols - 1) / cols
	colWidth := (inner + whichKeyGap) / cols

	lines := []string{title.Render(w.breadcrumb())}
	for r := 0; r < rows; r++ {
		var b strings.Builder
		for c := 0; c < cols; c++ {
			i := c*rows + r
			if i >= len(cells) {
				break
			}
			if c > 0 {
				pad := colWidth*c - lipgloss.Width(b.String())
				b.WriteString(strings.Repeat(" ", max(pad, 1)))
			}
			b.WriteString(cells[i])
		}
		lines = append(lines, b.String())
	}
	lines = append(lines, hint.Render("esc cancel"))

	return border.Render(strings.Join(lines, "\n"))
}

// breadcrumb spells the typed prefix, e.g. "Leader › SPC › f".
func (w WhichKey) breadcrumb() string {
	parts := []string{"Leader"}
	for _, r := range w.prefix {
		parts = append(parts, keyLabel(string(r)))
	}
	return strings.Join(parts, " › ")
}

// keyLabel spells out keys that render as blanks.
func keyLabel(k string) string {
	return strings.ReplaceAll(k, " ", "SPC")
}
