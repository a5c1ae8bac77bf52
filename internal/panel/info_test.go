package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/live"
	"github.com/pfassina/lore/internal/markdown"
)

func newInfo() Info {
	i := NewInfo()
	i.SetSize(30, 20)
	i.SetFocused(true)
	i.SetPage(
		[]markdown.Heading{{Level: 1, Text: "Setup", Anchor: "setup"}, {Level: 2, Text: "Install", Anchor: "install"}},
		[]live.Result{{Path: "index.md", Title: "Home"}},
	)
	return i
}

func TestInfo_CursorSkipsHeaders(t *testing.T) {
	i := newInfo()
	if i.cursor != 1 {
		t.Fatalf("cursor = %d, want 1 (first heading)", i.cursor)
	}

	down := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	i, _ = i.Update(down)
	i, _ = i.Update(down)
	if i.cursor != 4 {
		t.Fatalf("cursor = %d, want 4 (backlink)", i.cursor)
	}
	i, _ = i.Update(down)
	if i.cursor != 4 {
		t.Errorf("cursor moved past the end: %d", i.cursor)
	}

	_, cmd := i.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should select the backlink")
	}
	if got, ok := cmd().(BacklinkSelectedMsg); !ok || got.Path != "index.md" {
		t.Errorf("got %#v", cmd())
	}
}

func TestInfo_ClickHeading(t *testing.T) {
	i := newInfo()
	if cmd := i.Click(1); cmd != nil {
		t.Error("section header should not be selectable")
	}
	cmd := i.Click(3)
	if cmd == nil {
		t.Fatal("click on heading should select it")
	}
	if got := cmd().(HeadingSelectedMsg); got.Anchor != "install" {
		t.Errorf("anchor = %q, want install", got.Anchor)
	}
}

func TestInfo_Unfocused(t *testing.T) {
	i := newInfo()
	i.SetFocused(false)
	_, cmd := i.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("unfocused panel should ignore keys")
	}
}

func TestPrompt_ShowTextDismissesOnAnyKey(t *testing.T) {
	p := NewPrompt()
	p.ShowText("Copy", "go test ./...")
	if p.Value() != "go test ./..." {
		t.Fatalf("value = %q", p.Value())
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if p.Visible() {
		t.Error("prompt should close")
	}
	if _, ok := cmd().(PromptCancelledMsg); !ok {
		t.Error("expected PromptCancelledMsg")
	}
}
