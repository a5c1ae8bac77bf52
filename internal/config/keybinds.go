package config

// Keybind represents a key binding configuration.
type Keybind struct {
	Sequence string
	Action   string
	Label    string
}

// DefaultKeybinds returns the default leader key bindings.
func DefaultKeybinds() []Keybind {
	return []Keybind{
		{Sequence: "Space Space", Action: "search", Label: "search"},
		{Sequence: "Space f f", Action: "search", Label: "find document"},
		{Sequence: "Space f r", Action: "reindex", Label: "reindex library"},
		{Sequence: "Space v t", Action: "toggle_tree", Label: "toggle tree"},
		{Sequence: "Space v i", Action: "toggle_info", Label: "toggle info"},
		{Sequence: "Space v s", Action: "toggle_status", Label: "toggle status"},
		{Sequence: "Space c d", Action: "color_dark", Label: "dark"},
		{Sequence: "Space c l", Action: "color_light", Label: "light"},
		{Sequence: "Space c s", Action: "color_system", Label: "system"},
		{Sequence: "Space y", Action: "copy_code", Label: "copy code block"},
		{Sequence: "Space z z", Action: "zen_mode", Label: "zen mode"},
		{Sequence: "Space q q", Action: "quit", Label: "quit"},
	}
}
