// Package index keeps an optional SQLite catalog of note metadata.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notes (
	name     TEXT PRIMARY KEY,
	path     TEXT NOT NULL,
	checksum TEXT NOT NULL DEFAULT '',
	created  TEXT NOT NULL DEFAULT '',
	modified TEXT NOT NULL DEFAULT '',
	previous TEXT NOT NULL DEFAULT '',
	tags     TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS note_tags (
	note TEXT NOT NULL,
	tag  TEXT NOT NULL,
	UNIQUE(note, tag)
);

CREATE INDEX IF NOT EXISTS idx_notes_previous ON notes(previous);
CREATE INDEX IF NOT EXISTS idx_note_tags_tag ON note_tags(tag);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
