package session

// State represents persisted session state.
type State struct {
	// Route is the last opened document, with an optional #fragment.
	Route     string `json:"route,omitempty"`
	Query     string `json:"query,omitempty"`
	ShowTree  bool   `json:"show_tree"`
	ShowInfo  bool   `json:"show_info"`
	TreeWidth int    `json:"tree_width,omitempty"`
	InfoWidth int    `json:"info_width,omitempty"`
	// Items backs client-side key/value storage such as the color mode.
	Items map[string]string `json:"items,omitempty"`
}

// Default returns the default session state.
func Default() State {
	return State{
		ShowTree:  true,
		ShowInfo:  true,
		TreeWidth: 30,
		InfoWidth: 30,
	}
}
