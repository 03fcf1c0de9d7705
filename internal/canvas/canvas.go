// Package canvas turns a laid-out lineage forest into an Obsidian canvas document.
package canvas

import (
	"bytes"
	"encoding/json"
	"path"
	"strconv"
	"unicode"

	"github.com/google/uuid"

	"github.com/starford/threadmap/internal/lineage"
)

// edgeNamespace scopes the name-based UUIDs used as edge ids.
var edgeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("threadmap:canvas:edge"))

// Document is the canvas file: positioned nodes and the edges between them.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a file card on the canvas.
type Node struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
	File   string `json:"file"`
}

// Edge connects the right side of a parent card to the left side of a child card.
type Edge struct {
	ID       string `json:"id"`
	FromNode string `json:"fromNode"`
	FromSide string `json:"fromSide"`
	ToNode   string `json:"toNode"`
	ToSide   string `json:"toSide"`
}

// Options size the cards and place file references.
type Options struct {
	CardWidth  int
	CardHeight int
	// FileDir prefixes each note path, making it vault-relative.
	FileDir string
}

// Build emits one node per note and one edge per note with a previous link.
// The forest must already be laid out. A previous link that names no note
// still produces an edge, pointing from an id that has no node.
func Build(f *lineage.Forest, opts Options) Document {
	ids, used := assignIDs(f)
	missing := make(map[string]string)

	doc := Document{
		Nodes: make([]Node, 0, len(f.Nodes)),
		Edges: []Edge{},
	}
	for i, nd := range f.Nodes {
		doc.Nodes = append(doc.Nodes, Node{
			ID:     ids[i],
			X:      nd.X,
			Y:      nd.Y,
			Width:  opts.CardWidth,
			Height: opts.CardHeight,
			Type:   "file",
			File:   path.Join(opts.FileDir, nd.Note.Path),
		})
	}

	for i, nd := range f.Nodes {
		prev := nd.Note.Previous
		if prev == "" {
			continue
		}
		var from string
		if p, ok := f.Index(prev); ok {
			from = ids[p]
		} else {
			from = missingID(prev, used, missing)
		}
		doc.Edges = append(doc.Edges, Edge{
			ID:       EdgeID(from, ids[i]),
			FromNode: from,
			FromSide: "right",
			ToNode:   ids[i],
			ToSide:   "left",
		})
	}
	return doc
}

// Encode renders the document as tab-indented JSON.
func (d Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// NodeID keeps only letters, digits and underscores of a note name.
func NodeID(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			out = append(out, r)
		}
	}
	return string(out)
}

// EdgeID derives a stable id from the edge endpoints so repeated runs
// produce identical files.
func EdgeID(from, to string) string {
	return uuid.NewSHA1(edgeNamespace, []byte(from+"\x00"+to)).String()
}

// assignIDs gives each arena node a unique id. Names that reduce to the same
// id get a numeric suffix in arena order; names with no usable characters
// fall back to "note".
func assignIDs(f *lineage.Forest) ([]string, map[string]struct{}) {
	ids := make([]string, len(f.Nodes))
	used := make(map[string]struct{}, len(f.Nodes))
	for i, nd := range f.Nodes {
		base := NodeID(nd.Note.Name)
		if base == "" {
			base = "note"
		}
		id := base
		for k := 2; ; k++ {
			if _, taken := used[id]; !taken {
				break
			}
			id = base + "_" + strconv.Itoa(k)
		}
		used[id] = struct{}{}
		ids[i] = id
	}
	return ids, used
}

// missingID returns the edge source id for a previous link that names no
// note. It never equals a node id, and one target always maps to one id.
func missingID(target string, used map[string]struct{}, seen map[string]string) string {
	if id, ok := seen[target]; ok {
		return id
	}
	base := NodeID(target)
	if base == "" {
		base = "note"
	}
	id := base
	if _, taken := used[id]; taken {
		base += "_missing"
		id = base
		for k := 2; ; k++ {
			if _, taken := used[id]; !taken {
				break
			}
			id = base + "_" + strconv.Itoa(k)
		}
	}
	used[id] = struct{}{}
	seen[target] = id
	return id
}
