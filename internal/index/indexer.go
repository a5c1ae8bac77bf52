package index

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/markdown"
)

// Indexer manages the document indexing pipeline.
type Indexer struct {
	db     *DB
	parser *markdown.Parser
	lib    *docs.Library
}

func NewIndexer(db *DB, lib *docs.Library) *Indexer {
	return &Indexer{
		db:     db,
		parser: markdown.NewParser(),
		lib:    lib,
	}
}

// Library returns the indexed library.
func (idx *Indexer) Library() *docs.Library { return idx.lib }

// IndexAll indexes every document in the library and drops rows for
// documents that no longer exist. It returns the number of documents.
func (idx *Indexer) IndexAll() (int, error) {
	entries, err := idx.lib.ListDocs()
	if err != nil {
		return 0, fmt.Errorf("list docs: %w", err)
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Path] = true
		if err := idx.IndexPath(e.Path); err != nil {
			return 0, err
		}
	}

	indexed, err := idx.db.Paths()
	if err != nil {
		return 0, fmt.Errorf("list indexed: %w", err)
	}
	for _, p := range indexed {
		if seen[p] {
			continue
		}
		if err := idx.db.DeleteDoc(p); err != nil {
			return 0, fmt.Errorf("prune %s: %w", p, err)
		}
	}
	return len(entries), nil
}

// IndexFile indexes the document at an absolute path. Paths outside the
// library or not matching its include globs are ignored.
func (idx *Indexer) IndexFile(absPath string) error {
	rel, err := idx.lib.Rel(absPath)
	if err != nil || !idx.lib.Match(rel) {
		return nil
	}
	return idx.IndexPath(rel)
}

// IndexPath indexes a document by library path.
func (idx *Indexer) IndexPath(rel string) error {
	abs, err := idx.lib.Abs(rel)
	if err != nil {
		return fmt.Errorf("index %s: %w", rel, err)
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", rel, err)
	}

	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	existing, err := idx.db.GetDocHash(rel)
	if err != nil {
		return fmt.Errorf("read hash %s: %w", rel, err)
	}
	if hash == existing {
		return nil
	}

	parsed := idx.parser.Parse(content)
	doc := Doc{
		Path:    rel,
		Title:   parsed.Title(docs.TitleFromPath(rel)),
		Hash:    hash,
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
	}
	if fm := parsed.Frontmatter; fm != nil {
		doc.Description = fm.Description
		doc.Status = fm.Status
	}
	doc.Slug = markdown.Slugify(doc.Title)

	id, err := idx.db.UpsertDoc(doc, markdown.LinkKey(rel))
	if err != nil {
		return fmt.Errorf("upsert doc: %w", err)
	}

	headings := make([]HeadingRow, len(parsed.Headings))
	texts := make([]string, len(parsed.Headings))
	for i, h := range parsed.Headings {
		headings[i] = HeadingRow{Level: h.Level, Text: h.Text, Anchor: h.Anchor, Line: h.Line}
		texts[i] = h.Text
	}

	tags := parsed.Tags()
	if err := idx.db.UpdateFTS(id, doc.Title, parsed.PlainContent(), strings.Join(tags, " "), strings.Join(texts, " ")); err != nil {
		return fmt.Errorf("update FTS: %w", err)
	}
	if err := idx.db.SetTags(id, tags); err != nil {
		return fmt.Errorf("set tags: %w", err)
	}
	if err := idx.db.SetHeadings(id, headings); err != nil {
		return fmt.Errorf("set headings: %w", err)
	}

	var links []LinkRow
	for _, l := range parsed.Links {
		links = append(links, LinkRow{TargetKey: markdown.LinkKey(l.Target), Fragment: l.Fragment, Line: l.Line})
	}
	for _, l := range parsed.WikiLinks {
		links = append(links, LinkRow{TargetKey: markdown.LinkKey(l.Target), Fragment: l.Section, Line: l.Line})
	}
	if err := idx.db.SetLinks(id, links); err != nil {
		return fmt.Errorf("set links: %w", err)
	}
	return nil
}

// RemoveFile removes a document by absolute path.
func (idx *Indexer) RemoveFile(absPath string) error {
	rel, err := idx.lib.Rel(absPath)
	if err != nil {
		return nil
	}
	return idx.db.DeleteDoc(rel)
}
