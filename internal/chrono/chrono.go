// Package chrono orders notes by creation time.
package chrono

import (
	"sort"

	"github.com/starford/threadmap/internal/models"
)

// Sort returns a copy of notes ordered by created timestamp, then name.
// Notes without a timestamp sort first.
func Sort(notes []models.Note) []models.Note {
	out := append([]models.Note(nil), notes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Render returns one link line per note in creation order.
func Render(notes []models.Note) []string {
	sorted := Sort(notes)
	lines := make([]string, 0, len(sorted))
	for _, n := range sorted {
		lines = append(lines, "- [["+n.Name+"]]")
	}
	return lines
}
