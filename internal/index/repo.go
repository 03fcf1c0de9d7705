package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// NoteRow represents a row in the notes table.
type NoteRow struct {
	Name     string
	Path     string
	Checksum string
	Created  string
	Modified string
	Previous string
	Tags     []string
}

// UpsertNote inserts or replaces a note and its tag rows within a transaction.
func (db *DB) UpsertNote(n NoteRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, _ := json.Marshal(tags)

	_, err = tx.Exec(`
		INSERT INTO notes (name, path, checksum, created, modified, previous, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			path     = excluded.path,
			checksum = excluded.checksum,
			created  = excluded.created,
			modified = excluded.modified,
			previous = excluded.previous,
			tags     = excluded.tags
	`, n.Name, n.Path, n.Checksum, n.Created, n.Modified, n.Previous, string(tagsJSON))
	if err != nil {
		return fmt.Errorf("index: upsert note: %w", err)
	}

	// Replace tags: delete old then bulk insert.
	if _, err := tx.Exec(`DELETE FROM note_tags WHERE note = ?`, n.Name); err != nil {
		return fmt.Errorf("index: clear tags: %w", err)
	}
	if len(tags) > 0 {
		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO note_tags (note, tag) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("index: prepare tag insert: %w", err)
		}
		defer stmt.Close()
		for _, tag := range tags {
			if _, err := stmt.Exec(n.Name, tag); err != nil {
				return fmt.Errorf("index: insert tag: %w", err)
			}
		}
	}

	return tx.Commit()
}

// DeleteNote removes a note and its tag rows.
func (db *DB) DeleteNote(name string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, _ = tx.Exec(`DELETE FROM note_tags WHERE note = ?`, name)
	_, _ = tx.Exec(`DELETE FROM notes WHERE name = ?`, name)

	return tx.Commit()
}

// GetChecksum returns the stored checksum for a note, or empty string if not found.
func (db *DB) GetChecksum(name string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM notes WHERE name = ?`, name).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums maps every catalogued note name to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT name, checksum FROM notes`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var name, cs string
		if err := rows.Scan(&name, &cs); err != nil {
			return nil, err
		}
		out[name] = cs
	}
	return out, rows.Err()
}

// Children returns the names of notes whose previous link is name, in
// creation order.
func (db *DB) Children(name string) ([]string, error) {
	return db.names(`SELECT name FROM notes WHERE previous = ? ORDER BY created, name`, name)
}

func (db *DB) names(query string, arg string) ([]string, error) {
	rows, err := db.conn.Query(query, arg)
	if err != nil {
		return nil, fmt.Errorf("index: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
