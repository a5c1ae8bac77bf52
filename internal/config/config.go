package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/pfassina/lore/internal/palette"
)

type Config struct {
	DocsPath       string
	Include        []string
	Listen         string // SSH listen address for serve
	HTTPListen     string // WebSocket listen address for serve
	Theme          string
	ColorMode      string
	Colors         map[string]string
	SearchShortcut string
	FocusDelayMs   int
	ResultLimit    int
	AnchorOffset   int
	TreeWidth      int
	InfoWidth      int
	ShowTree       bool
	ShowInfo       bool
	ShowStatus     bool
	LeaderKey      string
	LeaderTimeout  int // milliseconds
	LogLevel       string
	LogFile        string // empty means <docs>/.lore/lore.log
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DocsPath:       filepath.Join(home, "docs"),
		Include:        []string{"**/*.md"},
		Listen:         ":2222",
		HTTPListen:     ":8080",
		Theme:          "catppuccin",
		ColorMode:      "system",
		SearchShortcut: "ctrl+k",
		FocusDelayMs:   50,
		ResultLimit:    50,
		AnchorOffset:   2,
		TreeWidth:      30,
		InfoWidth:      30,
		ShowTree:       true,
		ShowInfo:       true,
		ShowStatus:     true,
		LeaderKey:      " ",
		LeaderTimeout:  500,
		LogLevel:       "info",
	}
}

var colorModes = []string{"system", "dark", "light"}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !slices.Contains(colorModes, c.ColorMode) {
		return fmt.Errorf("color_mode %q: want one of %v", c.ColorMode, colorModes)
	}
	if _, err := palette.ParseShortcut(c.SearchShortcut); err != nil {
		return fmt.Errorf("search_shortcut: %w", err)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include: at least one glob is required")
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("result_limit must be positive, got %d", c.ResultLimit)
	}
	if c.FocusDelayMs < 0 || c.AnchorOffset < 0 {
		return fmt.Errorf("focus_delay_ms and anchor_offset must not be negative")
	}
	return nil
}

// PaletteOptions returns the search palette options for c. Validate first.
func (c Config) PaletteOptions() palette.Options {
	opts := palette.DefaultOptions()
	if sc, err := palette.ParseShortcut(c.SearchShortcut); err == nil {
		opts.Shortcut = sc
	}
	opts.FocusDelay = time.Duration(c.FocusDelayMs) * time.Millisecond
	return opts
}
