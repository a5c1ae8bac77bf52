package app

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfassina/lore/internal/config"
	"github.com/pfassina/lore/internal/hooks"
	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/palette"
	"github.com/pfassina/lore/internal/render"
	"github.com/pfassina/lore/internal/session"
)

type pushed struct {
	event   string
	payload any
}

type fakeChannel struct {
	events []pushed
	closed bool
}

func (c *fakeChannel) PushEventTo(_, event string, payload any) error {
	c.events = append(c.events, pushed{event, payload})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func (c *fakeChannel) names() []string {
	var out []string
	for _, e := range c.events {
		out = append(out, e.event)
	}
	return out
}

type harness struct {
	app    *App
	ch     *fakeChannel
	store  *session.Store
	copied []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{ch: &fakeChannel{}, store: session.NewStore(t.TempDir())}
	cfg := config.Default()
	cfg.DocsPath = t.TempDir()

	a, err := New(Options{
		Config: cfg,
		Connect: func(func(*live.Update), func(error)) (Channel, error) {
			return h.ch, nil
		},
		Store:      h.store,
		DetectDark: func() bool { return false },
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
		Logger: log.New(io.Discard),
	})
	require.NoError(t, err)
	t.Cleanup(a.Close)
	h.app = a
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.app.Update(msg)
	return cmd
}

// drain runs the next posted message, such as a fired timer.
func (h *harness) drain(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.app.msgs:
		h.send(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no message posted")
	}
}

func (h *harness) update(upd *live.Update) { h.send(updateMsg{upd: upd}) }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func results(paths ...string) *[]live.Result {
	out := make([]live.Result, len(paths))
	for i, p := range paths {
		out[i] = live.Result{Path: p, Title: strings.TrimSuffix(p, ".md")}
	}
	return &out
}

func TestPaletteSelectsWithKeyboard(t *testing.T) {
	h := newHarness(t)
	h.update(&live.Update{Results: results("a.md", "b.md")})

	h.send(tea.KeyMsg{Type: tea.KeyCtrlK})
	require.True(t, h.app.palette.Visible())
	assert.True(t, h.app.sk.List.FirstChild().HasClass(render.ActiveClass))

	h.send(tea.KeyMsg{Type: tea.KeyDown})
	assert.True(t, h.app.sk.List.LastChild().HasClass(render.ActiveClass))
	assert.False(t, h.app.sk.List.FirstChild().HasClass(render.ActiveClass))

	h.drain(t) // focus delay
	require.Same(t, h.app.sk.Input, h.app.sk.Doc.ActiveElement())

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, h.app.palette.Visible())
	require.Equal(t, []string{"search", "navigate"}, h.ch.names())
	assert.Equal(t, palette.NavigatePayload{Path: "/b.md"}, h.ch.events[1].payload)
}

func TestPaletteTypingSearches(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlK})
	h.send(runes("g"))
	h.send(runes("o"))

	require.Equal(t, []string{"search", "search"}, h.ch.names())
	assert.Equal(t, palette.SearchPayload{Search: palette.SearchInput{Input: "go"}}, h.ch.events[1].payload)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, h.app.palette.Visible())
}

func TestPaletteClickOutsideCloses(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeyCtrlK})
	require.True(t, h.app.palette.Visible())

	h.send(tea.MouseMsg{X: 0, Y: 39, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.False(t, h.app.palette.Visible())
}

func TestPaletteHoverNeedsMovement(t *testing.T) {
	h := newHarness(t)
	h.update(&live.Update{Results: results("a.md", "b.md")})
	h.send(tea.KeyMsg{Type: tea.KeyCtrlK})

	x, y := h.app.palette.Origin()
	second := y + 5
	h.app.lastX, h.app.lastY = x+4, second
	h.send(tea.MouseMsg{X: x + 4, Y: second, Action: tea.MouseActionMotion})
	assert.True(t, h.app.sk.List.FirstChild().HasClass(render.ActiveClass), "no movement, no takeover")

	h.send(tea.MouseMsg{X: x + 5, Y: second, Action: tea.MouseActionMotion})
	assert.True(t, h.app.sk.List.LastChild().HasClass(render.ActiveClass))
}

const guide = "# Guide\n\nIntro.\n\n## Build\n\n```sh\nmake\n```\n"

func TestDocumentUpdateFillsPanels(t *testing.T) {
	h := newHarness(t)
	h.update(&live.Update{
		Route: "guide.md",
		Document: &live.Document{
			Path:      "guide.md",
			Title:     "Guide",
			Source:    guide,
			Backlinks: []live.Result{{Path: "index.md", Title: "Home"}},
		},
	})

	require.NotNil(t, h.app.viewer.Page())
	assert.Equal(t, "Guide", h.app.viewer.Page().Title)
	assert.Contains(t, h.app.View(), "Home")

	saved, err := h.store.Load()
	require.NoError(t, err)
	assert.Equal(t, "guide.md", saved.Route)

	h.app.CopyCode()
	h.app.sync()
	assert.Equal(t, []string{"make"}, h.copied)
	assert.True(t, h.app.copying())
}

func TestFlashEvent(t *testing.T) {
	h := newHarness(t)
	h.update(live.Flash("error", "no such document: x.md"))
	assert.Equal(t, "no such document: x.md", h.app.status.Flash())
}

func TestToggleTreeRoundTrip(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.app.treeOpen)

	h.app.ToggleTree()
	require.Equal(t, []string{"toggle-sidebar"}, h.ch.names())
	assert.Equal(t, map[string]bool{"open": false}, h.ch.events[0].payload)

	h.update(&live.Update{Events: []live.PushedEvent{{Name: "close-sidebar"}}})
	assert.False(t, h.app.treeOpen)
	assert.False(t, h.app.state.ShowTree)
	assert.Equal(t, 0, h.app.layout().TreeWidth)
}

func TestLeaderSetsColorMode(t *testing.T) {
	h := newHarness(t)
	require.False(t, h.app.dark)

	h.send(tea.KeyMsg{Type: tea.KeySpace})
	h.send(runes("c"))
	h.send(runes("d"))

	assert.False(t, h.app.leader.active)
	assert.True(t, h.app.sk.Doc.Root().HasClass("dark"))
	assert.True(t, h.app.dark)
	assert.Equal(t, hooks.ModeDark, h.app.state.Items[hooks.ColorModeKey])
	assert.Contains(t, h.ch.names(), "set-color-mode")
}

func TestLeaderUnknownKeyCancels(t *testing.T) {
	h := newHarness(t)
	h.send(tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, h.app.leader.active)
	h.send(runes("x"))
	assert.False(t, h.app.leader.active)
}

func TestFatalClosesChannel(t *testing.T) {
	h := newHarness(t)
	go h.app.Fatal(errors.New("watcher died"))
	h.drain(t)
	assert.True(t, h.ch.closed)
}

func TestNewBindings(t *testing.T) {
	b := newBindings(config.DefaultKeybinds())
	require.Contains(t, b, " ")
	assert.NotNil(t, b[" "].Action)

	find := b["f"]
	require.NotNil(t, find)
	assert.Equal(t, "+find", find.Label)
	assert.Contains(t, find.Children, "f")
	assert.Contains(t, find.Children, "r")

	assert.Nil(t, newBindings([]config.Keybind{{Sequence: "Space x", Action: "nope"}})["x"])
}

func TestKeyEvent(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		key  string
		ctrl bool
		alt  bool
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, "ArrowDown", false, false},
		{tea.KeyMsg{Type: tea.KeyUp}, "ArrowUp", false, false},
		{tea.KeyMsg{Type: tea.KeyEnter}, "Enter", false, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, "Escape", false, false},
		{tea.KeyMsg{Type: tea.KeyTab}, "Tab", false, false},
		{tea.KeyMsg{Type: tea.KeyCtrlK}, "k", true, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p"), Alt: true}, "p", false, true},
		{runes("x"), "x", false, false},
	}
	for _, tt := range tests {
		e := keyEvent(tt.msg)
		assert.Equal(t, tt.key, e.Key, tt.msg.String())
		assert.Equal(t, tt.ctrl, e.Ctrl, tt.msg.String())
		assert.Equal(t, tt.alt, e.Alt, tt.msg.String())
	}
}

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout(120, 40, true, true, true, 30, 30)
	assert.Equal(t, 120, l.TreeWidth+l.PageWidth+l.InfoWidth)
	assert.Equal(t, 39, l.Height)
	assert.Equal(t, regionTree, l.regionAt(0))
	assert.Equal(t, regionPage, l.regionAt(l.TreeWidth))
	assert.Equal(t, regionInfo, l.regionAt(119))

	l = ComputeLayout(120, 40, false, false, false, 30, 30)
	assert.Equal(t, 120, l.PageWidth)
	assert.Equal(t, 40, l.Height)
}

func TestOverlayAt(t *testing.T) {
	base := "aaaaaa\nbbbbbb\ncccccc"
	got := overlayAt(base, "XX\nYY", 2, 1, 6)
	assert.Equal(t, "aaaaaa\nbbXXbb\nccYYcc", got)
}
