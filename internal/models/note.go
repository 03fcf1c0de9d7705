// Package models defines the domain types for threadmap.
package models

import "strings"

// Note is one Markdown file of the notes folder, reduced to the frontmatter
// fields the generators consume.
type Note struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"` // relative to the notes folder, slash separated
	Tags     [][]string `json:"tags,omitempty"`
	Created  string     `json:"created,omitempty"`
	Modified string     `json:"modified,omitempty"`
	Previous string     `json:"previous,omitempty"`
	Checksum string     `json:"checksum"`

	// HasFrontmatter is false when the file had no (or unreadable) frontmatter.
	HasFrontmatter bool `json:"has_frontmatter"`
}

// TagPaths returns the note's tags joined back into slash-delimited form.
func (n Note) TagPaths() []string {
	out := make([]string, 0, len(n.Tags))
	for _, segs := range n.Tags {
		out = append(out, strings.Join(segs, "/"))
	}
	return out
}

// Before reports whether n sorts ahead of o in creation order.
// Ties on the created timestamp are broken by name.
func (n Note) Before(o Note) bool {
	if n.Created != o.Created {
		return n.Created < o.Created
	}
	return n.Name < o.Name
}
