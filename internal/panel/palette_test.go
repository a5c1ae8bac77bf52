package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfassina/lore/internal/dom"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/render"
	"github.com/pfassina/lore/internal/theme"
)

func openPalette(t *testing.T, n int) (*Palette, *render.Skeleton) {
	t.Helper()
	sk := render.Layout(dom.NewDocument(), "dark")
	results := make([]live.Result, n)
	for i := range results {
		results[i] = live.Result{Path: "doc.md", Title: "Doc"}
	}
	sk.SetResults(results)
	sk.Container.SetHidden(false)

	p := NewPalette(sk)
	th := theme.DefaultTheme()
	p.SetTheme(&th)
	p.SetSize(100, 40)
	return &p, sk
}

func TestPaletteEntryAt(t *testing.T) {
	p, sk := openPalette(t, 3)
	x, y := p.Origin()
	require.Equal(t, 20, x)
	require.Equal(t, 6, y)

	first := y + paletteHeader
	assert.Same(t, sk.List.FirstChild(), p.EntryAt(x+5, first))
	assert.Same(t, sk.List.LastChild(), p.EntryAt(x+5, first+2))
	assert.Nil(t, p.EntryAt(x+5, first+3), "below the last entry")
	assert.Nil(t, p.EntryAt(x-1, first), "left of the box")
	assert.True(t, p.Contains(x, y))
	assert.False(t, p.Contains(0, 0))

	sk.Container.SetHidden(true)
	assert.Nil(t, p.EntryAt(x+5, first))
}

func TestPaletteScrollIntoView(t *testing.T) {
	p, sk := openPalette(t, 40)
	entries := sk.List.Children()
	rows := p.rows()

	p.ScrollIntoView(entries[rows+2])
	assert.Equal(t, 3, p.Offset())

	p.ScrollIntoView(entries[5])
	assert.Equal(t, 3, p.Offset(), "visible entries do not scroll")

	p.ScrollIntoView(entries[0])
	assert.Equal(t, 0, p.Offset())

	p.ScrollIntoView(sk.Input)
	assert.Equal(t, 0, p.Offset(), "non-entries are ignored")
}

func TestPaletteHandleKeyDispatchesInput(t *testing.T) {
	p, sk := openPalette(t, 0)
	var seen []string
	sk.Input.AddEventListener(dom.Input, func(*dom.Event) { seen = append(seen, sk.Input.Value()) })

	p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	p.HandleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("o")})
	p.HandleKey(tea.KeyMsg{Type: tea.KeyLeft})

	assert.Equal(t, []string{"g", "go"}, seen, "cursor moves do not dispatch")
	assert.Equal(t, "go", sk.Input.Value())
}

func TestPaletteViewMarksActiveEntry(t *testing.T) {
	p, sk := openPalette(t, 2)
	sk.List.LastChild().AddClass(render.ActiveClass)

	out := p.View()
	assert.Contains(t, out, "> Doc")
	assert.Contains(t, out, "esc close")

	sk.Container.SetHidden(true)
	assert.Empty(t, p.View())
}
