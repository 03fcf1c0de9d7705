// Package storage defines the vault file-system abstraction.
package storage

import "time"

// Entry describes one Markdown file found by List.
type Entry struct {
	Path    string // relative to the vault root, slash separated
	ModTime time.Time
}

// Provider is the interface for vault file operations.
type Provider interface {
	// Root returns the absolute vault directory.
	Root() string
	// List returns every .md file under dir (relative to vault root).
	// Sub-directories are descended only when recursive is set; hidden
	// directories are always skipped.
	List(dir string, recursive bool) ([]Entry, error)
	// Read returns the raw bytes of the file at path (relative to vault root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to vault root).
	Write(path string, content []byte) error
	// WriteIfChanged writes content only when it differs from the file on
	// disk and reports whether it wrote.
	WriteIfChanged(path string, content []byte) (bool, error)
	// Changed reports whether WriteIfChanged would write.
	Changed(path string, content []byte) (bool, error)
}
