package panel

import (
	"fmt"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/theme"
)

// FileSelectedMsg is sent when a document is selected in the tree.
type FileSelectedMsg struct {
	Path string
}

// Tree is the document tree panel.
type Tree struct {
	allEntries []docs.Entry
	entries    []docs.Entry
	collapsed  map[string]bool
	current    string
	cursor     int
	offset     int
	width      int
	height     int
	focused    bool
	showHelp   bool
	theme      *theme.Theme
}

func NewTree() Tree {
	return Tree{
		collapsed: make(map[string]bool),
	}
}

// SetTheme sets the color theme for the tree panel.
func (t *Tree) SetTheme(th *theme.Theme) { t.theme = th }

// SetEntries replaces the tree contents, keeping collapsed directories.
func (t *Tree) SetEntries(entries []docs.Entry) {
	t.allEntries = entries
	t.rebuildVisible()
}

// SetCurrent marks the open document and moves the cursor to it.
func (t *Tree) SetCurrent(p string) {
	t.current = p
	for i, e := range t.entries {
		if e.Path == p {
			t.cursor = i
			t.scrollToCursor()
			return
		}
	}
}

// rebuildVisible filters allEntries based on collapsed state.
func (t *Tree) rebuildVisible() {
	t.entries = t.entries[:0]
	for _, e := range t.allEntries {
		if t.isHiddenByCollapse(e.Path) {
			continue
		}
		t.entries = append(t.entries, e)
	}
	// Clamp cursor
	if t.cursor >= len(t.entries) {
		t.cursor = len(t.entries) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// isHiddenByCollapse checks if any ancestor directory of p is collapsed.
func (t *Tree) isHiddenByCollapse(p string) bool {
	dir := path.Dir(p)
	for dir != "." {
		if t.collapsed[dir] {
			return true
		}
		dir = path.Dir(dir)
	}
	return false
}

func (t *Tree) viewHeight() int {
	return max(t.height-2, 1) // title + bottom padding
}

func (t *Tree) scrollToCursor() {
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor-t.offset >= t.viewHeight() {
		t.offset = t.cursor - t.viewHeight() + 1
	}
}

func (t Tree) Update(msg tea.Msg) (Tree, tea.Cmd) {
	if !t.focused {
		return t, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// When help is shown, any key dismisses it
		if t.showHelp {
			t.showHelp = false
			return t, nil
		}

		switch msg.String() {
		case "j", "down":
			if t.cursor < len(t.entries)-1 {
				t.cursor++
				t.scrollToCursor()
			}
		case "k", "up":
			if t.cursor > 0 {
				t.cursor--
				t.scrollToCursor()
			}
		case "enter", "l":
			return t, t.activate(t.cursor)
		case "h":
			if t.cursor < len(t.entries) {
				entry := t.entries[t.cursor]
				if entry.IsDir {
					t.collapsed[entry.Path] = true
					t.rebuildVisible()
				}
			}
		case "G":
			if len(t.entries) == 0 {
				break
			}
			t.cursor = len(t.entries) - 1
			t.scrollToCursor()
		case "g":
			t.cursor = 0
			t.offset = 0
		case "?":
			t.showHelp = !t.showHelp
		}
	}

	return t, nil
}

// activate toggles a directory or selects a document.
func (t *Tree) activate(i int) tea.Cmd {
	if i < 0 || i >= len(t.entries) {
		return nil
	}
	entry := t.entries[i]
	if entry.IsDir {
		t.collapsed[entry.Path] = !t.collapsed[entry.Path]
		t.rebuildVisible()
		return nil
	}
	return func() tea.Msg {
		return FileSelectedMsg{Path: entry.Path}
	}
}

// Click activates the entry drawn at row (0 is the panel's title row).
func (t *Tree) Click(row int) tea.Cmd {
	i := t.offset + row - 1
	if row < 1 || i >= len(t.entries) {
		return nil
	}
	t.cursor = i
	return t.activate(i)
}

func (t Tree) View() string {
	if t.width == 0 || t.height == 0 {
		return ""
	}
	th := t.theme

	var titleStyle lipgloss.Style
	if t.focused {
		titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Accent).
			Underline(true).
			Padding(0, 1)
	} else {
		titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Dim).
			Padding(0, 1)
	}

	var b strings.Builder

	// Title row with optional ? hint
	title := titleStyle.Render("Docs")
	if t.focused && !t.showHelp {
		hint := lipgloss.NewStyle().Foreground(th.Dim).Render("?")
		gap := t.width - 2 - lipgloss.Width(title) - lipgloss.Width(hint)
		b.WriteString(title)
		if gap > 0 {
			b.WriteString(strings.Repeat(" ", gap))
			b.WriteString(hint)
		}
	} else {
		b.WriteString(title)
	}
	b.WriteByte('\n')

	viewHeight := t.viewHeight()

	// Reserve space for help if showing
	if t.showHelp {
		viewHeight = max(viewHeight-8, 0)
	}

	for i := t.offset; i < len(t.entries) && i-t.offset < viewHeight; i++ {
		entry := t.entries[i]
		indent := strings.Repeat("  ", entry.Depth)
		icon := "  "
		if entry.IsDir {
			if t.collapsed[entry.Path] {
				icon = "▸ "
			} else {
				icon = "▾ "
			}
		}

		name := entry.Name
		if !entry.IsDir {
			name = strings.TrimSuffix(name, path.Ext(name))
		}
		line := ansi.Truncate(indent+icon+name, t.width-2, "…")
		if pad := t.width - 2 - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}

		style := lipgloss.NewStyle().Foreground(th.Text)
		switch {
		case i == t.cursor && t.focused:
			style = lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
		case entry.Path == t.current:
			style = lipgloss.NewStyle().Foreground(th.Link)
		case entry.IsDir:
			style = lipgloss.NewStyle().Foreground(th.Subtle)
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}

	if t.showHelp {
		b.WriteString(t.renderHelp())
	}

	return b.String()
}

func (t Tree) renderHelp() string {
	th := t.theme
	dim := lipgloss.NewStyle().Foreground(th.Dim)
	key := lipgloss.NewStyle().Foreground(th.Accent).Bold(true)
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(th.Border).
		Padding(0, 1).
		Width(max(t.width-6, 10))

	lines := []struct{ k, v string }{
		{"j/k", "Navigate"},
		{"enter", "Open / Toggle dir"},
		{"h", "Collapse dir"},
		{"g/G", "Top / Bottom"},
		{"?", "Toggle help"},
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", key.Render(fmt.Sprintf("%-5s", l.k)), dim.Render(l.v)))
	}

	return border.Render(strings.TrimRight(sb.String(), "\n"))
}

func (t *Tree) SetSize(width, height int) {
	t.width = width
	t.height = height
}

func (t *Tree) SetFocused(focused bool) {
	t.focused = focused
}

func (t Tree) ShowingHelp() bool {
	return t.showHelp
}
