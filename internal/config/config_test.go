package config

import (
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"light mode", func(c *Config) { c.ColorMode = "light" }, false},
		{"unknown mode", func(c *Config) { c.ColorMode = "sepia" }, true},
		{"empty shortcut", func(c *Config) { c.SearchShortcut = "" }, true},
		{"shortcut without modifier", func(c *Config) { c.SearchShortcut = "k" }, true},
		{"cmd shortcut", func(c *Config) { c.SearchShortcut = "cmd+k" }, true},
		{"meta shortcut", func(c *Config) { c.SearchShortcut = "meta+k" }, true},
		{"ctrl+i reads as tab", func(c *Config) { c.SearchShortcut = "ctrl+i" }, true},
		{"alt shortcut", func(c *Config) { c.SearchShortcut = "alt+p" }, false},
		{"no include", func(c *Config) { c.Include = nil }, true},
		{"zero limit", func(c *Config) { c.ResultLimit = 0 }, true},
		{"negative delay", func(c *Config) { c.FocusDelayMs = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaletteOptions(t *testing.T) {
	cfg := Default()
	cfg.SearchShortcut = "alt+p"
	cfg.FocusDelayMs = 10

	opts := cfg.PaletteOptions()
	if !opts.Shortcut.Alt || opts.Shortcut.Ctrl || opts.Shortcut.Key != "p" {
		t.Errorf("Shortcut = %+v", opts.Shortcut)
	}
	if opts.FocusDelay != 10*time.Millisecond {
		t.Errorf("FocusDelay = %v", opts.FocusDelay)
	}
	if opts.ListID != "search-list" {
		t.Errorf("ListID = %q", opts.ListID)
	}
}

func TestDefaultKeybindsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, kb := range DefaultKeybinds() {
		if seen[kb.Sequence] {
			t.Errorf("duplicate sequence %q", kb.Sequence)
		}
		seen[kb.Sequence] = true
	}
}
