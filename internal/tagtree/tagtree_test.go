package tagtree

import (
	"reflect"
	"strings"
	"testing"

	"github.com/starford/threadmap/internal/models"
)

func note(name, created string, tags ...string) models.Note {
	n := models.Note{Name: name, Created: created, HasFrontmatter: true}
	for _, t := range tags {
		n.Tags = append(n.Tags, strings.Split(t, "/"))
	}
	return n
}

func TestBuild_NoteUnderEveryLeaf(t *testing.T) {
	notes := []models.Note{note("A", "1", "project/alpha", "area/work")}
	root := Build(notes, nil)

	for _, path := range [][]string{{"project", "alpha"}, {"area", "work"}} {
		leaf := root.Lookup(path...)
		if leaf == nil {
			t.Fatalf("missing node %v", path)
		}
		if len(leaf.Files) != 1 || leaf.Files[0].Name != "A" {
			t.Errorf("node %v files = %v", path, leaf.Files)
		}
	}
	if len(root.Lookup("project").Files) != 0 {
		t.Error("intermediate node should hold no files")
	}
}

func TestBuild_EachPairExactlyOnce(t *testing.T) {
	notes := []models.Note{
		note("A", "3", "x/y", "x", "z/y"),
		note("B", "1", "x/y"),
		note("C", "2"),
		note("D", "4", "x/y/w", "x/y"),
	}
	root := Build(notes, nil)
	lines := root.Render()

	for _, n := range notes {
		for _, segs := range n.Tags {
			leaf := root.Lookup(segs...)
			if leaf == nil {
				t.Fatalf("%s: no node for %v", n.Name, segs)
			}
			count := 0
			for _, f := range leaf.Files {
				if f.Name == n.Name {
					count++
				}
			}
			if count != 1 {
				t.Errorf("%s appears %d times under %v", n.Name, count, segs)
			}
		}
	}

	total := 0
	for _, l := range lines {
		if strings.Contains(l, "[[") {
			total++
		}
	}
	if total != 6 {
		t.Errorf("rendered %d links, want 6:\n%s", total, strings.Join(lines, "\n"))
	}
	for _, l := range lines {
		if strings.Contains(l, "[[C]]") {
			t.Error("untagged note should not be rendered")
		}
	}
}

func TestRender_Format(t *testing.T) {
	notes := []models.Note{
		note("Late", "2023-03", "work/beta"),
		note("Early", "2023-01", "work/beta"),
		note("Top", "2023-02", "work"),
		note("Home", "2023-01", "area"),
	}
	got := Build(notes, nil).Render()
	want := []string{
		"- area",
		"    - [[Home]]",
		"- work",
		"    - beta",
		"        - [[Early]]",
		"        - [[Late]]",
		"    - [[Top]]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestRender_TieBrokenByName(t *testing.T) {
	notes := []models.Note{note("b", "same", "t"), note("a", "same", "t")}
	got := Build(notes, nil).Render()
	want := []string{"- t", "    - [[a]]", "    - [[b]]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %v, want %v", got, want)
	}
}

func TestBuild_ExcludesMetaPrefix(t *testing.T) {
	notes := []models.Note{note("A", "1", "meta/index", "topic")}
	root := Build(notes, []string{"meta"})
	if root.Lookup("meta") != nil {
		t.Error("meta prefix should be excluded")
	}
	if leaf := root.Lookup("topic"); leaf == nil || len(leaf.Files) != 1 {
		t.Error("non-meta tag should remain")
	}
}

func TestRender_Empty(t *testing.T) {
	if lines := Build(nil, nil).Render(); len(lines) != 0 {
		t.Errorf("lines = %v, want none", lines)
	}
}
