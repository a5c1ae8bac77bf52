package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	th := DefaultTheme()

	// Verify all fields are populated (non-empty).
	fields := []struct {
		name  string
		color lipgloss.Color
	}{
		{"Bg", th.Bg},
		{"Accent", th.Accent},
		{"Subtle", th.Subtle},
		{"Text", th.Text},
		{"Dim", th.Dim},
		{"Border", th.Border},
		{"StatusBg", th.StatusBg},
		{"StatusFg", th.StatusFg},
		{"Error", th.Error},
		{"Warn", th.Warn},
		{"Selected", th.Selected},
		{"Heading", th.Heading},
		{"Code", th.Code},
		{"Link", th.Link},
	}

	for _, f := range fields {
		if string(f.color) == "" {
			t.Errorf("DefaultTheme().%s is empty", f.name)
		}
	}
}

func TestNamed(t *testing.T) {
	for _, name := range Names() {
		if got := Named(name, true); got.Name != name {
			t.Errorf("Named(%q).Name = %q", name, got.Name)
		}
	}
	if got := Named("solarized", true); got.Name != "catppuccin" {
		t.Errorf("unknown theme: got %q, want catppuccin", got.Name)
	}
	dark, light := Named("nord", true), Named("nord", false)
	if dark.Bg == light.Bg {
		t.Error("light variant shares the dark background")
	}
	if light.Name != "nord" {
		t.Errorf("light variant name = %q", light.Name)
	}
}
