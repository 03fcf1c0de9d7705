// Package parser extracts frontmatter fields, tag-paths and lineage links from Markdown content.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// TimestampLayout is used to render timestamps that the YAML decoder
// resolved to time.Time, so they compare as strings like the raw ones.
const TimestampLayout = "2006-01-02T15:04:05"

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]any
	Body        string
	Tags        [][]string
	Created     string
	Modified    string
	Previous    string
}

// HasFrontmatter reports whether a non-empty frontmatter block was decoded.
func (r *Result) HasFrontmatter() bool {
	return len(r.Frontmatter) > 0
}

// Options tweak field extraction.
type Options struct {
	// InlineTags also collects #tags written in the body.
	InlineTags bool
}

// Parse extracts frontmatter and the normalised note fields from raw Markdown bytes.
func Parse(data []byte, opts Options) (*Result, error) {
	fm, body := splitFrontmatter(data)

	res := &Result{
		Frontmatter: fm,
		Body:        body,
		Created:     stringField(fm, "created"),
		Modified:    stringField(fm, "modified"),
		Previous:    linkTarget(fm["previous"]),
	}

	var raw []string
	raw = append(raw, tagValues(fm["tags"])...)
	if opts.InlineTags {
		for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
			raw = append(raw, m[1])
		}
	}
	res.Tags = TagPaths(raw)

	return res, nil
}

// splitFrontmatter separates the leading frontmatter block from the body.
// Missing or undecodable frontmatter yields a nil map and the whole input as body.
func splitFrontmatter(data []byte) (map[string]any, string) {
	trimmed := bytes.TrimLeft(data, "\n\r")

	var fm map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(trimmed), &fm)
	if err != nil {
		// Invalid frontmatter counts as no metadata.
		return nil, string(data)
	}
	if len(fm) == 0 {
		return nil, string(body)
	}
	return fm, string(body)
}

// TagPaths splits raw tags into de-duplicated segment lists.
// "#project/alpha" becomes ["project", "alpha"]; blank segments are dropped.
func TagPaths(raw []string) [][]string {
	seen := make(map[string]struct{}, len(raw))
	var out [][]string
	for _, tag := range raw {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		var segs []string
		for _, s := range strings.Split(tag, "/") {
			if s = strings.TrimSpace(s); s != "" {
				segs = append(segs, s)
			}
		}
		if len(segs) == 0 {
			continue
		}
		key := strings.Join(segs, "/")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, segs)
	}
	return out
}

// tagValues accepts a YAML list or a single comma/space separated string.
func tagValues(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if item == nil {
				continue
			}
			out = append(out, scalarString(item))
		}
		return out
	case []string:
		return t
	default:
		return []string{scalarString(t)}
	}
}

func stringField(fm map[string]any, key string) string {
	v, ok := fm[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(scalarString(v))
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.Format(TimestampLayout)
	default:
		return fmt.Sprint(t)
	}
}

// linkTarget normalises a "previous" value to a bare note name.
// An unquoted [[Name]] is read by YAML as a nested list, so lists are
// searched for the first string.
func linkTarget(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return WikilinkTarget(t)
	case []any:
		for _, item := range t {
			if s := linkTarget(item); s != "" {
				return s
			}
		}
		return ""
	default:
		return WikilinkTarget(scalarString(t))
	}
}

// WikilinkTarget strips wikilink brackets, aliases, headings and a .md
// suffix: "[[Note A|alias]]" and "Note A.md" both give "Note A".
func WikilinkTarget(s string) string {
	s = strings.TrimSpace(s)
	if m := wikilinkRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.Trim(s, "[]")
	if i := strings.IndexAny(s, "|#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ".md")
}
