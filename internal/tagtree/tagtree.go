// Package tagtree folds slash-delimited tag-paths into a nested category tree
// and renders it as an indented link outline.
package tagtree

import (
	"sort"
	"strings"

	"github.com/starford/threadmap/internal/models"
)

// Indent is the number of spaces added per tree level.
const Indent = 4

// Node is one category level. Files are the notes whose tag-path ends here.
type Node struct {
	Children map[string]*Node
	Files    []*models.Note
}

func newNode() *Node {
	return &Node{Children: make(map[string]*Node)}
}

// Build inserts every note under each of its tag-paths. Paths whose first
// segment is listed in excludePrefixes are skipped. Untagged notes are
// not in the tree at all.
func Build(notes []models.Note, excludePrefixes []string) *Node {
	excluded := make(map[string]struct{}, len(excludePrefixes))
	for _, p := range excludePrefixes {
		excluded[p] = struct{}{}
	}

	root := newNode()
	for i := range notes {
		n := &notes[i]
		for _, segs := range n.Tags {
			if len(segs) == 0 {
				continue
			}
			if _, skip := excluded[segs[0]]; skip {
				continue
			}
			cur := root
			for _, seg := range segs {
				next, ok := cur.Children[seg]
				if !ok {
					next = newNode()
					cur.Children[seg] = next
				}
				cur = next
			}
			cur.Files = append(cur.Files, n)
		}
	}
	return root
}

// Lookup walks the exact path segments and returns the node, or nil.
func (n *Node) Lookup(path ...string) *Node {
	cur := n
	for _, seg := range path {
		next, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// Render returns the outline lines: sorted subcategories first, each
// followed by its indented contents, then this level's files in creation order.
func (n *Node) Render() []string {
	var lines []string
	n.render(0, &lines)
	return lines
}

func (n *Node) render(depth int, lines *[]string) {
	pad := strings.Repeat(" ", depth*Indent)

	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		*lines = append(*lines, pad+"- "+name)
		n.Children[name].render(depth+1, lines)
	}

	files := append([]*models.Note(nil), n.Files...)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Before(*files[j]) })
	for _, f := range files {
		*lines = append(*lines, pad+"- [["+f.Name+"]]")
	}
}
