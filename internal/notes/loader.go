// Package notes reads the notes folder into models.Note records.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/starford/threadmap/internal/apperr"
	"github.com/starford/threadmap/internal/checksum"
	"github.com/starford/threadmap/internal/models"
	"github.com/starford/threadmap/internal/parser"
	"github.com/starford/threadmap/internal/storage"
)

// Options control how the notes folder is read.
type Options struct {
	// Dir is the notes folder relative to the vault root ("" = vault root).
	Dir        string
	Recursive  bool
	InlineTags bool
	// Exclude lists vault-relative paths that are never read as notes,
	// typically the generated outputs.
	Exclude []string
}

// Load lists, reads and parses every note under opts.Dir. Unreadable files
// are logged and skipped; a missing folder is an error. Names must be
// unique, so later duplicates (by path) are dropped with a warning.
func Load(ctx context.Context, store storage.Provider, opts Options, logger *slog.Logger) ([]models.Note, error) {
	entries, err := store.List(opts.Dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(opts.Exclude))
	for _, p := range opts.Exclude {
		skip[path.Clean(p)] = struct{}{}
	}

	seen := make(map[string]string, len(entries))
	out := make([]models.Note, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, ok := skip[e.Path]; ok {
			continue
		}

		data, err := store.Read(e.Path)
		if err != nil {
			logger.Warn("notes: read failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			continue
		}
		n, err := FromBytes(relativeTo(opts.Dir, e.Path), data, parser.Options{InlineTags: opts.InlineTags})
		if err != nil {
			logger.Warn("notes: parse failed", slog.String("path", e.Path), slog.String("error", err.Error()))
			continue
		}
		if first, dup := seen[n.Name]; dup {
			logger.Warn("notes: skipping duplicate",
				slog.String("path", e.Path),
				slog.String("first", first),
				slog.String("error", apperr.ErrDuplicateNote.Error()))
			continue
		}
		seen[n.Name] = e.Path
		if !n.HasFrontmatter {
			logger.Debug("notes: no frontmatter", slog.String("path", e.Path))
		}
		out = append(out, n)
	}
	return out, nil
}

// FromBytes builds a Note from one file's contents. rel is the path relative
// to the notes folder.
func FromBytes(rel string, data []byte, opts parser.Options) (models.Note, error) {
	res, err := parser.Parse(data, opts)
	if err != nil {
		return models.Note{}, fmt.Errorf("notes: parse %s: %w", rel, err)
	}
	return models.Note{
		Name:           strings.TrimSuffix(path.Base(rel), ".md"),
		Path:           rel,
		Tags:           res.Tags,
		Created:        res.Created,
		Modified:       res.Modified,
		Previous:       res.Previous,
		Checksum:       checksum.Sum(data),
		HasFrontmatter: res.HasFrontmatter(),
	}, nil
}

// WithFrontmatter filters out notes that carried no metadata block.
func WithFrontmatter(all []models.Note) []models.Note {
	out := make([]models.Note, 0, len(all))
	for _, n := range all {
		if n.HasFrontmatter {
			out = append(out, n)
		}
	}
	return out
}

func relativeTo(dir, p string) string {
	if dir == "" || dir == "." {
		return p
	}
	return strings.TrimPrefix(p, strings.TrimSuffix(path.Clean(dir), "/")+"/")
}
