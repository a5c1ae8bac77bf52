package index

import (
	"database/sql"
	"errors"
	"strings"
	"unicode"
)

// SearchResult is a matching document.
type SearchResult struct {
	ID    int64
	Path  string
	Title string
	Rank  float64
}

// HeadingResult is a matching heading.
type HeadingResult struct {
	DocPath  string
	DocTitle string
	Level    int
	Text     string
	Anchor   string
	Line     int
}

// BacklinkResult is a document linking to another.
type BacklinkResult struct {
	SourcePath  string
	SourceTitle string
	Fragment    string
	Line        int
}

// FTSQuery turns free text into an FTS5 query that prefix-matches every
// word. It returns "" when no searchable words remain.
func FTSQuery(input string) string {
	words := strings.FieldsFunc(input, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, `"`+w+`"*`)
	}
	return strings.Join(parts, " ")
}

// Search runs an FTS5 query, best matches first. Title hits outrank body
// hits.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	return db.queryResults(`
		SELECT d.id, d.path, d.title, bm25(docs_fts, 10.0, 1.0, 5.0, 3.0) AS rank
		FROM docs_fts
		JOIN docs d ON d.id = docs_fts.rowid
		WHERE docs_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
}

// SearchFiles matches titles and paths by substring.
func (db *DB) SearchFiles(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + query + "%"
	return db.queryResults(`
		SELECT id, path, title, 0 AS rank
		FROM docs
		WHERE path LIKE ? OR title LIKE ?
		ORDER BY path
		LIMIT ?
	`, pattern, pattern, limit)
}

// ListAll returns documents sorted by path.
func (db *DB) ListAll(limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 200
	}
	return db.queryResults(`
		SELECT id, path, title, 0 AS rank
		FROM docs
		ORDER BY path
		LIMIT ?
	`, limit)
}

func (db *DB) queryResults(query string, args ...any) ([]SearchResult, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Path, &r.Title, &r.Rank); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchHeadings matches heading text by substring.
func (db *DB) SearchHeadings(query string, limit int) ([]HeadingResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT d.path, d.title, h.level, h.text, h.anchor, h.line
		FROM headings h
		JOIN docs d ON d.id = h.doc_id
		WHERE h.text LIKE ?
		ORDER BY d.path, h.line
		LIMIT ?
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}

	var results []HeadingResult
	for rows.Next() {
		var r HeadingResult
		if err := rows.Scan(&r.DocPath, &r.DocTitle, &r.Level, &r.Text, &r.Anchor, &r.Line); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetBacklinks returns documents linking to path, matched by basename key.
func (db *DB) GetBacklinks(path, key string) ([]BacklinkResult, error) {
	rows, err := db.conn.Query(`
		SELECT d.path, d.title, l.fragment, l.line
		FROM links l
		JOIN docs d ON d.id = l.source_id
		WHERE l.target_key = ? AND d.path != ?
		ORDER BY d.path, l.line
	`, key, path)
	if err != nil {
		return nil, err
	}

	var results []BacklinkResult
	for rows.Next() {
		var r BacklinkResult
		if err := rows.Scan(&r.SourcePath, &r.SourceTitle, &r.Fragment, &r.Line); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// GetDoc returns the stored metadata of path.
func (db *DB) GetDoc(path string) (Doc, bool, error) {
	var d Doc
	err := db.conn.QueryRow(`
		SELECT path, title, slug, description, status, hash, mod_time, size
		FROM docs WHERE path = ?
	`, path).Scan(&d.Path, &d.Title, &d.Slug, &d.Description, &d.Status, &d.Hash, &d.ModTime, &d.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return Doc{}, false, nil
	}
	if err != nil {
		return Doc{}, false, err
	}
	return d, true, nil
}

// DocExists reports whether path is indexed.
func (db *DB) DocExists(path string) (bool, error) {
	_, ok, err := db.GetDoc(path)
	return ok, err
}

// FindByLinkKey resolves a link key to the first matching path.
func (db *DB) FindByLinkKey(key string) (string, error) {
	var path string
	err := db.conn.QueryRow("SELECT path FROM docs WHERE link_key = ? ORDER BY path LIMIT 1", key).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return path, err
}

// GetTags returns the tags of a document.
func (db *DB) GetTags(path string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT t.name FROM tags t
		JOIN doc_tags dt ON dt.tag_id = t.id
		JOIN docs d ON d.id = dt.doc_id
		WHERE d.path = ?
		ORDER BY t.name
	`, path)
	if err != nil {
		return nil, err
	}
	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return nil, err
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return tags, nil
}

// Count returns the number of indexed documents.
func (db *DB) Count() (int, error) {
	var n int
	err := db.conn.QueryRow("SELECT count(*) FROM docs").Scan(&n)
	return n, err
}
