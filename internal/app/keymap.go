package app

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pfassina/lore/internal/config"
	"github.com/pfassina/lore/internal/hooks"
)

// Binding represents a leader key binding.
type Binding struct {
	Key      string
	Label    string
	Action   func(a *App) tea.Cmd
	Children map[string]*Binding
}

// LeaderState tracks the leader key sequence.
type LeaderState struct {
	active   bool
	keys     string
	node     map[string]*Binding
	showHelp bool
	// seq invalidates timeouts from earlier key presses.
	seq int
}

// leaderTimeoutMsg signals leader key timeout.
type leaderTimeoutMsg struct{ seq int }

var groupLabels = map[string]string{
	"f": "+find",
	"v": "+view",
	"c": "+color",
	"z": "+zen",
	"q": "+quit",
}

var actions = map[string]func(a *App) tea.Cmd{
	"search": func(a *App) tea.Cmd {
		a.OpenSearch()
		return nil
	},
	"reindex": func(a *App) tea.Cmd {
		return a.Reindex()
	},
	"toggle_tree": func(a *App) tea.Cmd {
		a.ToggleTree()
		return nil
	},
	"toggle_info": func(a *App) tea.Cmd {
		a.ToggleInfo()
		return nil
	},
	"toggle_status": func(a *App) tea.Cmd {
		a.ToggleStatus()
		return nil
	},
	"color_dark": func(a *App) tea.Cmd {
		a.SetColorMode(hooks.ModeDark)
		return nil
	},
	"color_light": func(a *App) tea.Cmd {
		a.SetColorMode(hooks.ModeLight)
		return nil
	},
	"color_system": func(a *App) tea.Cmd {
		a.SetColorMode(hooks.ModeSystem)
		return nil
	},
	"copy_code": func(a *App) tea.Cmd {
		a.CopyCode()
		return nil
	},
	"zen_mode": func(a *App) tea.Cmd {
		a.ToggleZen()
		return nil
	},
	"quit": func(a *App) tea.Cmd {
		a.Close()
		return tea.Quit
	},
}

// newBindings builds the leader tree from keybinds. Sequences start with
// the leader; unknown actions are skipped.
func newBindings(keybinds []config.Keybind) map[string]*Binding {
	root := make(map[string]*Binding)
	for _, kb := range keybinds {
		action, ok := actions[kb.Action]
		if !ok {
			continue
		}
		keys := strings.Fields(kb.Sequence)
		if len(keys) < 2 {
			continue
		}
		node := root
		for i, k := range keys[1:] {
			key := k
			if k == "Space" {
				key = " "
			}
			if i == len(keys)-2 {
				node[key] = &Binding{Key: k, Label: kb.Label, Action: action}
				break
			}
			group, ok := node[key]
			if !ok || group.Children == nil {
				label := groupLabels[key]
				if label == "" {
					label = "+" + k
				}
				group = &Binding{Key: k, Label: label, Children: make(map[string]*Binding)}
				node[key] = group
			}
			node = group.Children
		}
	}
	return root
}

func (a *App) initLeader() {
	a.bindings = newBindings(config.DefaultKeybinds())
	a.leader = LeaderState{}
}

func (a *App) leaderTick() tea.Cmd {
	a.leader.seq++
	seq := a.leader.seq
	return tea.Tick(time.Duration(a.cfg.LeaderTimeout)*time.Millisecond, func(time.Time) tea.Msg {
		return leaderTimeoutMsg{seq: seq}
	})
}

// handleLeaderKey processes a key during leader mode.
// Returns true if the key was consumed by the leader system.
func (a *App) handleLeaderKey(key string) (consumed bool, cmd tea.Cmd) {
	if !a.leader.active {
		if key != a.cfg.LeaderKey {
			return false, nil
		}
		a.leader.active = true
		a.leader.keys = ""
		a.leader.node = a.bindings
		a.leader.showHelp = false
		// Start timeout for which-key popup
		return true, a.leaderTick()
	}

	// We're in leader mode - accumulate the key
	a.leader.keys += key

	if binding, ok := a.leader.node[key]; ok {
		if binding.Children != nil {
			// This is a group - wait for next key
			a.leader.node = binding.Children
			a.leader.showHelp = false
			return true, a.leaderTick()
		}
		// Leaf binding - execute
		a.cancelLeader()
		if binding.Action != nil {
			return true, binding.Action(a)
		}
		return true, nil
	}

	// No match - cancel leader mode
	a.cancelLeader()
	return true, nil
}

func (a *App) handleLeaderTimeout(seq int) {
	if a.leader.active && seq == a.leader.seq {
		a.leader.showHelp = true
	}
}

func (a *App) cancelLeader() {
	a.leader.active = false
	a.leader.showHelp = false
}
