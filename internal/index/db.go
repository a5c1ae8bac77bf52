package index

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// schemaVersion is bumped whenever the derived tables change shape. The index
// holds only data rebuilt from the library, so an old version is dropped.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS docs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    link_key TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    slug TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    mod_time INTEGER NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    hash TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_docs_link_key ON docs(link_key);

CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(
    title, content, tags, headings,
    tokenize='porter unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS doc_tags (
    doc_id INTEGER REFERENCES docs(id) ON DELETE CASCADE,
    tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (doc_id, tag_id)
);

CREATE TABLE IF NOT EXISTS links (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_id INTEGER NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
    target_key TEXT NOT NULL,
    fragment TEXT NOT NULL DEFAULT '',
    line INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    doc_id INTEGER NOT NULL REFERENCES docs(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    anchor TEXT NOT NULL DEFAULT '',
    line INTEGER NOT NULL
);
`

// Doc is the stored metadata of one document.
type Doc struct {
	Path        string
	Title       string
	Slug        string
	Description string
	Status      string
	Hash        string
	ModTime     int64
	Size        int64
}

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	return open(path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	return open(":memory:?_pragma=foreign_keys(on)")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// :memory: databases are per connection.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("migrate db: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertDoc inserts or updates a document and returns its ID.
func (db *DB) UpsertDoc(d Doc, linkKey string) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO docs (path, link_key, title, slug, description, status, mod_time, size, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			link_key = excluded.link_key,
			title = excluded.title,
			slug = excluded.slug,
			description = excluded.description,
			status = excluded.status,
			mod_time = excluded.mod_time,
			size = excluded.size,
			hash = excluded.hash
	`, d.Path, linkKey, d.Title, d.Slug, d.Description, d.Status, d.ModTime, d.Size, d.Hash)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := db.conn.QueryRow("SELECT id FROM docs WHERE path = ?", d.Path).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFTS replaces the full-text row of a document.
func (db *DB) UpdateFTS(docID int64, title, content, tags, headings string) error {
	if _, err := db.conn.Exec("DELETE FROM docs_fts WHERE rowid = ?", docID); err != nil {
		return fmt.Errorf("delete fts row: %w", err)
	}
	_, err := db.conn.Exec("INSERT INTO docs_fts(rowid, title, content, tags, headings) VALUES(?, ?, ?, ?, ?)",
		docID, title, content, tags, headings)
	return err
}

// SetTags replaces the tags of a document.
func (db *DB) SetTags(docID int64, tags []string) error {
	if _, err := db.conn.Exec("DELETE FROM doc_tags WHERE doc_id = ?", docID); err != nil {
		return err
	}
	for _, name := range tags {
		if _, err := db.conn.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("upsert tag %q: %w", name, err)
		}
		if _, err := db.conn.Exec(`
			INSERT OR IGNORE INTO doc_tags (doc_id, tag_id)
			SELECT ?, id FROM tags WHERE name = ?
		`, docID, name); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return nil
}

// HeadingRow is a heading to store.
type HeadingRow struct {
	Level  int
	Text   string
	Anchor string
	Line   int
}

// SetHeadings replaces the headings of a document.
func (db *DB) SetHeadings(docID int64, headings []HeadingRow) error {
	if _, err := db.conn.Exec("DELETE FROM headings WHERE doc_id = ?", docID); err != nil {
		return err
	}
	for _, h := range headings {
		if _, err := db.conn.Exec("INSERT INTO headings (doc_id, level, text, anchor, line) VALUES (?, ?, ?, ?, ?)",
			docID, h.Level, h.Text, h.Anchor, h.Line); err != nil {
			return fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}
	return nil
}

// LinkRow is an outgoing link to store.
type LinkRow struct {
	TargetKey string
	Fragment  string
	Line      int
}

// SetLinks replaces the outgoing links of a document.
func (db *DB) SetLinks(docID int64, links []LinkRow) error {
	if _, err := db.conn.Exec("DELETE FROM links WHERE source_id = ?", docID); err != nil {
		return err
	}
	for _, l := range links {
		if _, err := db.conn.Exec("INSERT INTO links (source_id, target_key, fragment, line) VALUES (?, ?, ?, ?)",
			docID, l.TargetKey, l.Fragment, l.Line); err != nil {
			return fmt.Errorf("insert link to %q: %w", l.TargetKey, err)
		}
	}
	return nil
}

// GetDocHash returns the stored hash for a document path.
func (db *DB) GetDocHash(path string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM docs WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// DeleteDoc removes a document and its derived rows.
func (db *DB) DeleteDoc(path string) error {
	var id int64
	err := db.conn.QueryRow("SELECT id FROM docs WHERE path = ?", path).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := db.conn.Exec("DELETE FROM docs_fts WHERE rowid = ?", id); err != nil {
		return fmt.Errorf("delete fts row: %w", err)
	}
	_, err = db.conn.Exec("DELETE FROM docs WHERE id = ?", id)
	return err
}

// Paths returns every indexed path.
func (db *DB) Paths() ([]string, error) {
	rows, err := db.conn.Query("SELECT path FROM docs ORDER BY path")
	if err != nil {
		return nil, err
	}
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			_ = rows.Close()
			return nil, err
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ResetHashes forces the next IndexAll to re-parse every document.
func (db *DB) ResetHashes() error {
	_, err := db.conn.Exec("UPDATE docs SET hash = ''")
	return err
}

func (db *DB) migrate() error {
	var version int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version != 0 && version != schemaVersion {
		for _, table := range []string{"docs_fts", "doc_tags", "tags", "links", "headings", "docs"} {
			if _, err := db.conn.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return fmt.Errorf("drop %s: %w", table, err)
			}
		}
	}
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if _, err := db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
