package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines a color palette used by all TUI panels.
// Panels hold a *Theme pointer so in-place mutations (e.g. after a color
// mode change) are visible on the next View() call.
type Theme struct {
	Name     string
	Bg       lipgloss.Color
	Accent   lipgloss.Color
	Subtle   lipgloss.Color
	Text     lipgloss.Color
	Dim      lipgloss.Color
	Border   lipgloss.Color
	StatusBg lipgloss.Color
	StatusFg lipgloss.Color
	Error    lipgloss.Color
	Warn     lipgloss.Color
	// Selected is the background of the active search result.
	Selected lipgloss.Color
	Heading  lipgloss.Color
	Code     lipgloss.Color
	Link     lipgloss.Color
}

var dark = map[string]Theme{
	"catppuccin": {
		Bg:       lipgloss.Color("#1e1e2e"),
		Accent:   lipgloss.Color("#cba6f7"),
		Subtle:   lipgloss.Color("#6c7086"),
		Text:     lipgloss.Color("#cdd6f4"),
		Dim:      lipgloss.Color("#585b70"),
		Border:   lipgloss.Color("#45475a"),
		StatusBg: lipgloss.Color("#313244"),
		StatusFg: lipgloss.Color("#cdd6f4"),
		Error:    lipgloss.Color("#f38ba8"),
		Warn:     lipgloss.Color("#f9e2af"),
		Selected: lipgloss.Color("#45475a"),
		Heading:  lipgloss.Color("#89b4fa"),
		Code:     lipgloss.Color("#a6e3a1"),
		Link:     lipgloss.Color("#74c7ec"),
	},
	"nord": {
		Bg:       lipgloss.Color("#2e3440"),
		Accent:   lipgloss.Color("#88c0d0"),
		Subtle:   lipgloss.Color("#4c566a"),
		Text:     lipgloss.Color("#eceff4"),
		Dim:      lipgloss.Color("#434c5e"),
		Border:   lipgloss.Color("#3b4252"),
		StatusBg: lipgloss.Color("#3b4252"),
		StatusFg: lipgloss.Color("#eceff4"),
		Error:    lipgloss.Color("#bf616a"),
		Warn:     lipgloss.Color("#ebcb8b"),
		Selected: lipgloss.Color("#434c5e"),
		Heading:  lipgloss.Color("#81a1c1"),
		Code:     lipgloss.Color("#a3be8c"),
		Link:     lipgloss.Color("#8fbcbb"),
	},
	"gruvbox": {
		Bg:       lipgloss.Color("#282828"),
		Accent:   lipgloss.Color("#d79921"),
		Subtle:   lipgloss.Color("#665c54"),
		Text:     lipgloss.Color("#ebdbb2"),
		Dim:      lipgloss.Color("#504945"),
		Border:   lipgloss.Color("#3c3836"),
		StatusBg: lipgloss.Color("#3c3836"),
		StatusFg: lipgloss.Color("#ebdbb2"),
		Error:    lipgloss.Color("#fb4934"),
		Warn:     lipgloss.Color("#fabd2f"),
		Selected: lipgloss.Color("#504945"),
		Heading:  lipgloss.Color("#83a598"),
		Code:     lipgloss.Color("#b8bb26"),
		Link:     lipgloss.Color("#8ec07c"),
	},
	"tokyo-night": {
		Bg:       lipgloss.Color("#1a1b26"),
		Accent:   lipgloss.Color("#7aa2f7"),
		Subtle:   lipgloss.Color("#565f89"),
		Text:     lipgloss.Color("#c0caf5"),
		Dim:      lipgloss.Color("#414868"),
		Border:   lipgloss.Color("#292e42"),
		StatusBg: lipgloss.Color("#1f2335"),
		StatusFg: lipgloss.Color("#c0caf5"),
		Error:    lipgloss.Color("#f7768e"),
		Warn:     lipgloss.Color("#e0af68"),
		Selected: lipgloss.Color("#292e42"),
		Heading:  lipgloss.Color("#7aa2f7"),
		Code:     lipgloss.Color("#9ece6a"),
		Link:     lipgloss.Color("#7dcfff"),
	},
}

// light is shared by every named theme; only catppuccin ships a light
// flavor worth matching.
var light = Theme{
	Bg:       lipgloss.Color("#eff1f5"),
	Accent:   lipgloss.Color("#8839ef"),
	Subtle:   lipgloss.Color("#9ca0b0"),
	Text:     lipgloss.Color("#4c4f69"),
	Dim:      lipgloss.Color("#acb0be"),
	Border:   lipgloss.Color("#ccd0da"),
	StatusBg: lipgloss.Color("#e6e9ef"),
	StatusFg: lipgloss.Color("#4c4f69"),
	Error:    lipgloss.Color("#d20f39"),
	Warn:     lipgloss.Color("#df8e1d"),
	Selected: lipgloss.Color("#ccd0da"),
	Heading:  lipgloss.Color("#1e66f5"),
	Code:     lipgloss.Color("#40a02b"),
	Link:     lipgloss.Color("#209fb5"),
}

// DefaultTheme returns the default color palette (catppuccin-inspired).
func DefaultTheme() Theme {
	return Named("catppuccin", true)
}

// Named returns the named theme in its dark or light variant, defaulting to
// catppuccin for unknown names.
func Named(name string, isDark bool) Theme {
	t, ok := dark[name]
	if !ok {
		name = "catppuccin"
		t = dark[name]
	}
	if !isDark {
		t = light
	}
	t.Name = name
	return t
}

// Names lists the built-in theme names.
func Names() []string {
	return []string{"catppuccin", "gruvbox", "nord", "tokyo-night"}
}
