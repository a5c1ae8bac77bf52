package theme

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// FromOverrides applies user color overrides onto base. Keys are field
// names matched case-insensitively ("accent", "status_bg"); values are hex
// colors or ANSI color numbers. Unknown keys and malformed values are
// returned so the caller can report them; the field keeps the base value.
func FromOverrides(colors map[string]string, base Theme) (Theme, []string) {
	t := base
	var rejected []string

	for key, value := range colors {
		c, ok := parseColor(value)
		field := fieldFor(&t, key)
		if !ok || field == nil {
			rejected = append(rejected, key)
			continue
		}
		*field = c
	}
	return t, rejected
}

func fieldFor(t *Theme, key string) *lipgloss.Color {
	switch strings.ReplaceAll(strings.ToLower(key), "-", "_") {
	case "bg":
		return &t.Bg
	case "accent":
		return &t.Accent
	case "subtle":
		return &t.Subtle
	case "text":
		return &t.Text
	case "dim":
		return &t.Dim
	case "border":
		return &t.Border
	case "status_bg":
		return &t.StatusBg
	case "status_fg":
		return &t.StatusFg
	case "error":
		return &t.Error
	case "warn":
		return &t.Warn
	case "selected":
		return &t.Selected
	case "heading":
		return &t.Heading
	case "code":
		return &t.Code
	case "link":
		return &t.Link
	}
	return nil
}

// parseColor accepts "#rgb", "#rrggbb" or an ANSI 256 index.
func parseColor(s string) (lipgloss.Color, bool) {
	s = strings.TrimSpace(s)
	if hexColor.MatchString(s) {
		return lipgloss.Color(strings.ToLower(s)), true
	}
	if s == "" || len(s) > 3 {
		return "", false
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", false
		}
		n = n*10 + int(r-'0')
	}
	if n > 255 {
		return "", false
	}
	return lipgloss.Color(s), true
}
