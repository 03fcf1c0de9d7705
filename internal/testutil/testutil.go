// Package testutil provides shared test helpers for setting up vaults and notes.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/threadmap/internal/storage"
)

// TestVault creates a temporary vault directory with a storage.Provider.
func TestVault(t *testing.T) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// NoteSpec describes the frontmatter of a note written by WriteNote.
type NoteSpec struct {
	Tags     []string
	Created  string
	Previous string
}

// WriteNote writes dir/name.md with a YAML frontmatter block built from spec.
func WriteNote(t *testing.T, dir, name string, spec NoteSpec) {
	t.Helper()
	var b strings.Builder
	b.WriteString("---\n")
	if len(spec.Tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range spec.Tags {
			fmt.Fprintf(&b, "  - %s\n", tag)
		}
	}
	if spec.Created != "" {
		fmt.Fprintf(&b, "created: %q\n", spec.Created)
	}
	if spec.Previous != "" {
		fmt.Fprintf(&b, "previous: \"[[%s]]\"\n", spec.Previous)
	}
	b.WriteString("---\n")
	fmt.Fprintf(&b, "# %s\n", name)

	WriteFile(t, filepath.Join(dir, name+".md"), b.String())
}

// WriteFile writes raw content, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}
