// Package diagram renders a Mermaid flowchart that threads each tag's notes
// in creation order, and optionally hands it to an external renderer.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"github.com/starford/threadmap/internal/canvas"
	"github.com/starford/threadmap/internal/chrono"
	"github.com/starford/threadmap/internal/models"
)

// Options control the flowchart text.
type Options struct {
	// Direction is the Mermaid flowchart direction (LR, TB, ...).
	Direction string
	// ExcludePrefixes drops tag-paths whose first segment matches.
	ExcludePrefixes []string
}

// Group is one tag with its notes in creation order.
type Group struct {
	Tag   string
	Notes []models.Note
}

// Groups collects notes per full tag-path, sorted by tag.
func Groups(notes []models.Note, excludePrefixes []string) []Group {
	excluded := make(map[string]struct{}, len(excludePrefixes))
	for _, p := range excludePrefixes {
		excluded[p] = struct{}{}
	}

	byTag := make(map[string][]models.Note)
	for _, n := range notes {
		for _, segs := range n.Tags {
			if len(segs) == 0 {
				continue
			}
			if _, skip := excluded[segs[0]]; skip {
				continue
			}
			tag := strings.Join(segs, "/")
			byTag[tag] = append(byTag[tag], n)
		}
	}

	out := make([]Group, 0, len(byTag))
	for tag, members := range byTag {
		out = append(out, Group{Tag: tag, Notes: chrono.Sort(members)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// Render returns the flowchart description. Node ids are scoped to their
// group, so a note carrying several tags appears once per group.
func Render(notes []models.Note, opts Options) string {
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "flowchart %s\n", dir)
	for gi, g := range Groups(notes, opts.ExcludePrefixes) {
		fmt.Fprintf(&b, "    subgraph g%d[\"%s\"]\n", gi, escape(g.Tag))
		ids := groupIDs(gi, g.Notes)
		for ni, n := range g.Notes {
			fmt.Fprintf(&b, "        %s[\"%s\"]\n", ids[ni], escape(n.Name))
		}
		for ni := 1; ni < len(ids); ni++ {
			fmt.Fprintf(&b, "        %s --> %s\n", ids[ni-1], ids[ni])
		}
		b.WriteString("    end\n")
	}
	return b.String()
}

func groupIDs(group int, notes []models.Note) []string {
	ids := make([]string, len(notes))
	used := make(map[string]struct{}, len(notes))
	for i, n := range notes {
		base := canvas.NodeID(n.Name)
		if base == "" {
			base = "note"
		}
		id := fmt.Sprintf("g%d_%s", group, base)
		for k := 2; ; k++ {
			if _, taken := used[id]; !taken {
				break
			}
			id = fmt.Sprintf("g%d_%s_%d", group, base, k)
		}
		used[id] = struct{}{}
		ids[i] = id
	}
	return ids
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// Rasterize runs an external renderer. "{input}" and "{output}" in command
// are replaced with the given paths.
func Rasterize(ctx context.Context, command []string, input, output string) error {
	if len(command) == 0 {
		return errors.New("diagram: empty render command")
	}
	args := make([]string, len(command))
	for i, a := range command {
		a = strings.ReplaceAll(a, "{input}", input)
		args[i] = strings.ReplaceAll(a, "{output}", output)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("diagram: %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return nil
}
