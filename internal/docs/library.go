// Package docs lists and reads the Markdown documents of a library directory.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every Markdown file.
var DefaultInclude = []string{"**/*.md"}

// ErrOutsideLibrary is returned for paths that escape the library root.
var ErrOutsideLibrary = errors.New("path outside library")

// Entry is a file or directory in the library tree.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir,omitempty"`
	Depth int    `json:"depth"`
}

// Library is a directory of documents filtered by include globs.
type Library struct {
	Root    string
	Include []string
}

func New(root string, include []string) *Library {
	if len(include) == 0 {
		include = DefaultInclude
	}
	return &Library{Root: root, Include: include}
}

// Match reports whether rel (slash separated, relative to Root) is a
// document.
func (l *Library) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range l.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ListEntries returns the library tree in display order: each directory
// lists its subdirectories first, then documents, alphabetically. Hidden
// entries and directories without documents are skipped.
func (l *Library) ListEntries() ([]Entry, error) {
	var entries []Entry
	if _, err := l.walk(".", 0, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (l *Library) walk(rel string, depth int, out *[]Entry) (bool, error) {
	dirents, err := os.ReadDir(filepath.Join(l.Root, filepath.FromSlash(rel)))
	if err != nil {
		return false, fmt.Errorf("read dir %s: %w", rel, err)
	}
	sort.SliceStable(dirents, func(i, j int) bool {
		if dirents[i].IsDir() != dirents[j].IsDir() {
			return dirents[i].IsDir()
		}
		return strings.ToLower(dirents[i].Name()) < strings.ToLower(dirents[j].Name())
	})

	found := false
	for _, d := range dirents {
		name := d.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		child := path.Join(rel, name)
		if d.IsDir() {
			mark := len(*out)
			*out = append(*out, Entry{Name: name, Path: child, IsDir: true, Depth: depth})
			ok, err := l.walk(child, depth+1, out)
			if err != nil {
				return false, err
			}
			if !ok {
				*out = (*out)[:mark]
				continue
			}
			found = true
			continue
		}
		if l.Match(child) {
			*out = append(*out, Entry{Name: name, Path: child, Depth: depth})
			found = true
		}
	}
	return found, nil
}

// ListDocs returns only the documents.
func (l *Library) ListDocs() ([]Entry, error) {
	all, err := l.ListEntries()
	if err != nil {
		return nil, err
	}
	var docs []Entry
	for _, e := range all {
		if !e.IsDir {
			docs = append(docs, e)
		}
	}
	return docs, nil
}

// Rel converts an absolute path inside the library into a library path.
func (l *Library) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(l.Root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", ErrOutsideLibrary
	}
	return rel, nil
}

// Abs resolves a library path, rejecting anything that escapes Root.
func (l *Library) Abs(rel string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(rel))
	if clean == "/" {
		return "", ErrOutsideLibrary
	}
	if clean != "/"+strings.TrimPrefix(filepath.ToSlash(rel), "/") {
		return "", ErrOutsideLibrary
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean[1:])), nil
}

// Read returns the contents of a document.
func (l *Library) Read(rel string) ([]byte, error) {
	abs, err := l.Abs(rel)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	if !l.Match(strings.TrimPrefix(rel, "/")) {
		return nil, fmt.Errorf("read %s: %w", rel, fs.ErrNotExist)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Exists reports whether rel is a readable document.
func (l *Library) Exists(rel string) bool {
	if !l.Match(strings.TrimPrefix(rel, "/")) {
		return false
	}
	abs, err := l.Abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && !info.IsDir()
}

// TitleFromPath turns "guides/getting-started.md" into "getting started".
func TitleFromPath(p string) string {
	base := path.Base(filepath.ToSlash(p))
	name := strings.TrimSuffix(base, path.Ext(base))
	name = strings.ReplaceAll(name, "-", " ")
	return strings.ReplaceAll(name, "_", " ")
}
