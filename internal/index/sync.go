package index

import (
	"log/slog"
	"strings"

	"github.com/starford/threadmap/internal/checksum"
	"github.com/starford/threadmap/internal/models"
)

// SyncStats counts what a Sync changed.
type SyncStats struct {
	Upserted  int
	Deleted   int
	Unchanged int
}

// Changed reports whether the sync touched the database.
func (s SyncStats) Changed() bool {
	return s.Upserted > 0 || s.Deleted > 0
}

// Sync brings the catalog up to date with notes:
//   - new/changed notes (by checksum) are upserted
//   - notes no longer present are deleted
func Sync(db Catalog, notes []models.Note, logger *slog.Logger) (SyncStats, error) {
	var stats SyncStats

	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}

	present := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		present[n.Name] = struct{}{}

		if cs, ok := checksums[n.Name]; ok && cs == n.Checksum {
			stats.Unchanged++
			continue
		}
		if err := db.UpsertNote(rowFor(n)); err != nil {
			return stats, err
		}
		stats.Upserted++
		logger.Debug("catalog: upserted",
			slog.String("note", n.Name),
			slog.String("checksum", checksum.Short(n.Checksum)))
	}

	// Remove stale entries.
	for name := range checksums {
		if _, ok := present[name]; ok {
			continue
		}
		if children, err := db.Children(name); err == nil && len(children) > 0 {
			logger.Warn("catalog: removed note still has children",
				slog.String("note", name),
				slog.String("children", strings.Join(children, ", ")))
		}
		if err := db.DeleteNote(name); err != nil {
			return stats, err
		}
		stats.Deleted++
		logger.Debug("catalog: removed stale", slog.String("note", name))
	}

	return stats, nil
}

// Plan reports what Sync would change without touching the database.
func Plan(db Catalog, notes []models.Note) (SyncStats, error) {
	var stats SyncStats

	checksums, err := db.AllChecksums()
	if err != nil {
		return stats, err
	}
	present := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		present[n.Name] = struct{}{}
		if cs, ok := checksums[n.Name]; ok && cs == n.Checksum {
			stats.Unchanged++
		} else {
			stats.Upserted++
		}
	}
	for name := range checksums {
		if _, ok := present[name]; !ok {
			stats.Deleted++
		}
	}
	return stats, nil
}

func rowFor(n models.Note) NoteRow {
	return NoteRow{
		Name:     n.Name,
		Path:     n.Path,
		Checksum: n.Checksum,
		Created:  n.Created,
		Modified: n.Modified,
		Previous: n.Previous,
		Tags:     n.TagPaths(),
	}
}
