package theme

import (
	"slices"
	"testing"
)

func TestFromOverrides(t *testing.T) {
	base := DefaultTheme()
	th, rejected := FromOverrides(map[string]string{
		"accent":    "#FF0000",
		"status-bg": "#222",
		"Selected":  "238",
		"link":      "blue",
		"sparkle":   "#ffffff",
		"code":      "300",
	}, base)

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Accent", string(th.Accent), "#ff0000"},
		{"StatusBg", string(th.StatusBg), "#222"},
		{"Selected", string(th.Selected), "238"},
		{"Link keeps base", string(th.Link), string(base.Link)},
		{"Code keeps base", string(th.Code), string(base.Code)},
		{"Text untouched", string(th.Text), string(base.Text)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	slices.Sort(rejected)
	want := []string{"code", "link", "sparkle"}
	if !slices.Equal(rejected, want) {
		t.Errorf("rejected = %v, want %v", rejected, want)
	}
}

func TestFromOverridesNil(t *testing.T) {
	base := DefaultTheme()
	th, rejected := FromOverrides(nil, base)
	if th != base || len(rejected) != 0 {
		t.Errorf("nil overrides changed theme: %+v %v", th, rejected)
	}
}
