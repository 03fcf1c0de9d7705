// Package lineage builds the forest formed by notes' "previous" links and
// lays it out left to right for the canvas.
//
// Nodes live in an arena ordered by creation time and refer to each other
// by index, so no node holds a pointer back to its parent.
package lineage

import (
	"sort"

	"github.com/starford/threadmap/internal/models"
)

// None marks the absence of a parent.
const None = -1

// Node is one note in the forest.
type Node struct {
	Note     models.Note
	Parent   int   // arena index of the resolved previous note, or None
	Children []int // arena indices, in creation order

	// Height is the vertical span reserved for the subtree; X and Y are
	// the top-left card position. All three are set by Layout.
	Height int
	X, Y   int
}

// Dangling records a previous reference that names no loaded note.
type Dangling struct {
	Node   int
	Target string
}

// Forest is the arena plus the structural findings of Build.
type Forest struct {
	Nodes []Node
	Roots []int

	Dangling []Dangling

	// Cycles lists each detected cycle by arena index, starting at the
	// member that was promoted to a root.
	Cycles [][]int

	byName map[string]int
}

// Build indexes notes by name, resolves previous links, and groups children
// under their parents. A note whose previous is missing or dangling becomes a
// root. Each cycle is broken at its earliest member, which becomes a root.
func Build(notes []models.Note) *Forest {
	sorted := append([]models.Note(nil), notes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	f := &Forest{
		Nodes:  make([]Node, len(sorted)),
		byName: make(map[string]int, len(sorted)),
	}

	// Pass 1: index by name.
	for i, n := range sorted {
		f.Nodes[i] = Node{Note: n, Parent: None}
		f.byName[n.Name] = i
	}

	// Pass 2: resolve parents.
	for i := range f.Nodes {
		prev := f.Nodes[i].Note.Previous
		if prev == "" {
			continue
		}
		p, ok := f.byName[prev]
		if !ok {
			f.Dangling = append(f.Dangling, Dangling{Node: i, Target: prev})
			continue
		}
		f.Nodes[i].Parent = p
	}

	f.breakCycles()

	for i := range f.Nodes {
		if p := f.Nodes[i].Parent; p != None {
			f.Nodes[p].Children = append(f.Nodes[p].Children, i)
		} else {
			f.Roots = append(f.Roots, i)
		}
	}
	return f
}

// breakCycles follows parent pointers from every node with a three-colour
// visited set. Because each node has at most one parent, every cycle is
// found exactly once, on the walk that first enters it.
func (f *Forest) breakCycles() {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make([]int, len(f.Nodes))

	for start := range f.Nodes {
		if state[start] != unvisited {
			continue
		}
		var path []int
		j := start
		for j != None && state[j] == unvisited {
			state[j] = onPath
			path = append(path, j)
			j = f.Nodes[j].Parent
		}
		if j != None && state[j] == onPath {
			// path from j to the end is the cycle.
			k := 0
			for path[k] != j {
				k++
			}
			cycle := path[k:]
			first := cycle[0]
			for _, m := range cycle {
				if m < first {
					first = m
				}
			}
			f.Nodes[first].Parent = None

			ordered := make([]int, 0, len(cycle))
			for m := first; ; {
				ordered = append(ordered, m)
				next := None
				for _, c := range cycle {
					if f.Nodes[c].Parent == m {
						next = c
						break
					}
				}
				if next == None {
					break
				}
				m = next
			}
			f.Cycles = append(f.Cycles, ordered)
		}
		for _, p := range path {
			state[p] = done
		}
	}
}

// Index returns the arena index for a note name.
func (f *Forest) Index(name string) (int, bool) {
	i, ok := f.byName[name]
	return i, ok
}

// Options size the cards and the gaps between them.
type Options struct {
	CardWidth     int
	CardHeight    int
	HorizontalGap int
	VerticalGap   int
}

// DefaultOptions matches the canvas sizes used by the vault.
func DefaultOptions() Options {
	return Options{CardWidth: 400, CardHeight: 400, HorizontalGap: 100, VerticalGap: 100}
}

// Layout computes subtree heights bottom-up and positions top-down. Roots
// are stacked in the first column starting at (0, 0); every child sits one
// column to the right of its parent, the first child level with it and the
// rest below their previous sibling's span.
func (f *Forest) Layout(opts Options) {
	for _, r := range f.Roots {
		f.measure(r, opts)
	}
	y := 0
	for _, r := range f.Roots {
		f.place(r, 0, y, opts)
		y += f.Nodes[r].Height + opts.VerticalGap
	}
}

func (f *Forest) measure(i int, opts Options) int {
	n := &f.Nodes[i]
	if len(n.Children) == 0 {
		n.Height = opts.CardHeight
		return n.Height
	}
	h := 0
	for _, c := range n.Children {
		h += f.measure(c, opts)
	}
	h += (len(n.Children) - 1) * opts.VerticalGap
	n.Height = h
	return h
}

func (f *Forest) place(i, x, y int, opts Options) {
	f.Nodes[i].X, f.Nodes[i].Y = x, y
	cy := y
	for _, c := range f.Nodes[i].Children {
		f.place(c, x+opts.CardWidth+opts.HorizontalGap, cy, opts)
		cy += f.Nodes[c].Height + opts.VerticalGap
	}
}
