package live

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pfassina/lore/internal/docs"
	"github.com/pfassina/lore/internal/index"
	"github.com/pfassina/lore/internal/markdown"
)

// DataDir is the per-library directory holding the index, logs and state.
const DataDir = ".lore"

// Backend serves sessions from an indexed library.
type Backend struct {
	lib     *docs.Library
	db      *index.DB
	indexer *index.Indexer
	watcher *index.Watcher
	hub     *Hub
	limit   int
	log     *log.Logger
}

// OpenBackend opens (creating if needed) the library's index database.
func OpenBackend(lib *docs.Library, limit int, logger *log.Logger) (*Backend, error) {
	if logger == nil {
		logger = log.Default()
	}
	dir := filepath.Join(lib.Root, DataDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := index.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}
	return NewBackend(lib, db, limit, logger), nil
}

// NewBackend wraps an already open index.
func NewBackend(lib *docs.Library, db *index.DB, limit int, logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.Default()
	}
	if limit <= 0 {
		limit = 50
	}
	return &Backend{
		lib:     lib,
		db:      db,
		indexer: index.NewIndexer(db, lib),
		hub:     NewHub(),
		limit:   limit,
		log:     logger.With("component", "live"),
	}
}

// Index re-indexes the whole library and refreshes connected sessions.
func (b *Backend) Index() (int, error) {
	n, err := b.indexer.IndexAll()
	if err != nil {
		return 0, fmt.Errorf("index library: %w", err)
	}
	b.hub.Broadcast()
	return n, nil
}

// Watch re-indexes changed documents in the background. onError is called
// once if the watcher fails.
func (b *Backend) Watch(onError func(error)) error {
	w, err := index.NewWatcher(b.indexer, func(string) { b.hub.Broadcast() }, onError, b.log)
	if err != nil {
		return err
	}
	b.watcher = w
	go w.Start()
	return nil
}

// Hub returns the session hub.
func (b *Backend) Hub() *Hub { return b.hub }

// NewSession creates a session served by this backend.
func (b *Backend) NewSession() *Session { return NewSession(b, b) }

// Close stops the watcher and closes the index.
func (b *Backend) Close() error {
	var errs []error
	if b.watcher != nil {
		if err := b.watcher.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop watcher: %w", err))
		}
	}
	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close index: %w", err))
	}
	return errors.Join(errs...)
}

// Search implements Searcher. Document hits come first, then heading hits.
func (b *Backend) Search(query string) ([]Result, error) {
	fts := index.FTSQuery(query)
	if fts == "" {
		rows, err := b.db.ListAll(b.limit)
		if err != nil {
			return nil, err
		}
		return docResults(rows), nil
	}

	rows, err := b.db.Search(fts, b.limit)
	if err != nil {
		b.log.Debug("fts query failed, falling back to substring", "query", query, "err", err)
		if rows, err = b.db.SearchFiles(query, b.limit); err != nil {
			return nil, err
		}
	}
	results := docResults(rows)

	if room := b.limit - len(results); room > 0 {
		headings, err := b.db.SearchHeadings(query, room)
		if err != nil {
			return nil, err
		}
		for _, h := range headings {
			results = append(results, Result{Path: h.DocPath, Title: h.Text, Extra: h.DocTitle, Anchor: h.Anchor})
		}
	}
	if results == nil {
		results = []Result{}
	}
	return results, nil
}

func docResults(rows []index.SearchResult) []Result {
	out := make([]Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, Result{Path: r.Path, Title: r.Title, Extra: r.Path})
	}
	return out
}

// Tree implements Library.
func (b *Backend) Tree() ([]docs.Entry, error) {
	return b.lib.ListEntries()
}

// Document implements Library.
func (b *Backend) Document(path string) (*Document, bool, error) {
	meta, ok, err := b.db.GetDoc(path)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	source, err := b.lib.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	tags, err := b.db.GetTags(path)
	if err != nil {
		return nil, false, err
	}

	doc := &Document{
		Path:        path,
		Title:       meta.Title,
		Description: meta.Description,
		Tags:        tags,
		Source:      string(source),
	}
	backlinks, err := b.db.GetBacklinks(path, markdown.LinkKey(path))
	if err != nil {
		return nil, false, err
	}
	for _, bl := range backlinks {
		doc.Backlinks = append(doc.Backlinks, Result{Path: bl.SourcePath, Title: bl.SourceTitle, Extra: fmt.Sprintf("line %d", bl.Line)})
	}
	return doc, true, nil
}
