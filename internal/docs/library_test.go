package docs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.md", "# Home")
	writeFile(t, root, "Zeta.md", "# Zeta")
	writeFile(t, root, "guides/setup.md", "# Setup")
	writeFile(t, root, "guides/deep/api.md", "# API")
	writeFile(t, root, "assets/logo.png", "png")
	writeFile(t, root, ".lore/state.json", "{}")
	return New(root, nil)
}

func TestListEntries(t *testing.T) {
	lib := testLibrary(t)
	entries, err := lib.ListEntries()
	if err != nil {
		t.Fatal(err)
	}

	want := []Entry{
		{Name: "guides", Path: "guides", IsDir: true, Depth: 0},
		{Name: "deep", Path: "guides/deep", IsDir: true, Depth: 1},
		{Name: "api.md", Path: "guides/deep/api.md", Depth: 2},
		{Name: "setup.md", Path: "guides/setup.md", Depth: 1},
		{Name: "index.md", Path: "index.md", Depth: 0},
		{Name: "Zeta.md", Path: "Zeta.md", Depth: 0},
	}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d: %+v", len(entries), len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("[%d] got %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestListDocs(t *testing.T) {
	lib := testLibrary(t)
	docs, err := lib.ListDocs()
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 4 {
		t.Fatalf("got %d docs, want 4", len(docs))
	}
}

func TestMatchUsesIncludeGlobs(t *testing.T) {
	lib := New(t.TempDir(), []string{"guides/**/*.md", "README.md"})
	tests := []struct {
		path string
		want bool
	}{
		{"guides/setup.md", true},
		{"guides/deep/api.md", true},
		{"README.md", true},
		{"notes/todo.md", false},
		{"guides/logo.png", false},
	}
	for _, tt := range tests {
		if got := lib.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadRejectsEscapes(t *testing.T) {
	lib := testLibrary(t)

	data, err := lib.Read("/guides/setup.md")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Setup" {
		t.Errorf("got %q", data)
	}

	for _, p := range []string{"../secret.md", "guides/../../x.md"} {
		if _, err := lib.Read(p); !errors.Is(err, ErrOutsideLibrary) {
			t.Errorf("Read(%q) err = %v, want ErrOutsideLibrary", p, err)
		}
	}
	if lib.Exists("assets/logo.png") {
		t.Error("non-document reported as existing")
	}
	if !lib.Exists("index.md") {
		t.Error("index.md should exist")
	}
}

func TestTitleFromPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"guides/getting-started.md", "getting started"},
		{"snake_case.md", "snake case"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := TitleFromPath(tt.in); got != tt.want {
			t.Errorf("TitleFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
