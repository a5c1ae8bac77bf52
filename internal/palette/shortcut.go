package palette

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pfassina/lore/internal/dom"
)

// Shortcut is a modifier plus letter key combination.
type Shortcut struct {
	Ctrl, Alt bool
	Key       string
}

// reservedCtrl lists ctrl combinations a terminal sends as other keys or
// that the host keeps for itself.
var reservedCtrl = map[string]string{
	"c": "quits",
	"h": "is Backspace on many terminals",
	"i": "is Tab",
	"l": "moves focus",
	"m": "is Enter",
	"[": "is Escape",
}

// ParseShortcut parses forms like "ctrl+k" or "alt+p". Meta modifiers are
// rejected since terminals do not report them.
func ParseShortcut(s string) (Shortcut, error) {
	var sc Shortcut
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	key := parts[len(parts)-1]
	if utf8.RuneCountInString(key) != 1 {
		return sc, fmt.Errorf("parse shortcut %q: want a single key", s)
	}
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl":
			sc.Ctrl = true
		case "alt":
			sc.Alt = true
		case "meta", "cmd", "super":
			return sc, fmt.Errorf("parse shortcut %q: terminals do not report %s, use ctrl or alt", s, mod)
		default:
			return sc, fmt.Errorf("parse shortcut %q: unknown modifier %q", s, mod)
		}
	}
	if !sc.Ctrl && !sc.Alt {
		return sc, fmt.Errorf("parse shortcut %q: a modifier is required", s)
	}
	if why, ok := reservedCtrl[key]; ok && sc.Ctrl && !sc.Alt {
		return sc, fmt.Errorf("parse shortcut %q: ctrl+%s %s", s, key, why)
	}
	sc.Key = key
	return sc, nil
}

// Matches reports whether e is this shortcut. The letter is case-insensitive.
func (s Shortcut) Matches(e *dom.Event) bool {
	return e.Ctrl == s.Ctrl && e.Alt == s.Alt && !e.Meta &&
		strings.EqualFold(e.Key, s.Key)
}

func (s Shortcut) String() string {
	var b strings.Builder
	if s.Ctrl {
		b.WriteString("ctrl+")
	}
	if s.Alt {
		b.WriteString("alt+")
	}
	b.WriteString(s.Key)
	return b.String()
}
