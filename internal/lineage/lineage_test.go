package lineage

import (
	"fmt"
	"testing"

	"github.com/starford/threadmap/internal/models"
)

func n(name, created, previous string) models.Note {
	return models.Note{Name: name, Created: created, Previous: previous}
}

func names(f *Forest, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = f.Nodes[j].Note.Name
	}
	return out
}

func node(t *testing.T, f *Forest, name string) Node {
	t.Helper()
	i, ok := f.Index(name)
	if !ok {
		t.Fatalf("no node %q", name)
	}
	return f.Nodes[i]
}

func TestBuild_RootWithTwoChildren(t *testing.T) {
	f := Build([]models.Note{
		n("C", "3", "A"),
		n("A", "1", ""),
		n("B", "2", "A"),
	})
	opts := DefaultOptions()
	f.Layout(opts)

	if got := names(f, f.Roots); len(got) != 1 || got[0] != "A" {
		t.Fatalf("roots = %v, want [A]", got)
	}
	a := node(t, f, "A")
	if got := names(f, a.Children); len(got) != 2 || got[0] != "B" || got[1] != "C" {
		t.Fatalf("children = %v, want [B C]", got)
	}

	b, c := node(t, f, "B"), node(t, f, "C")
	if a.Height != b.Height+c.Height+opts.VerticalGap {
		t.Errorf("height(A) = %d, want %d", a.Height, b.Height+c.Height+opts.VerticalGap)
	}
	if b.X != c.X || b.X != a.X+opts.CardWidth+opts.HorizontalGap {
		t.Errorf("B.X=%d C.X=%d A.X=%d: children should share the next column", b.X, c.X, a.X)
	}
	if b.Y >= c.Y {
		t.Errorf("B (y=%d) should be above C (y=%d)", b.Y, c.Y)
	}
	if b.Y != a.Y {
		t.Errorf("first child y = %d, want parent y %d", b.Y, a.Y)
	}
}

func TestLayout_LeafHeight(t *testing.T) {
	f := Build([]models.Note{n("Solo", "1", "")})
	f.Layout(Options{CardWidth: 10, CardHeight: 20, HorizontalGap: 5, VerticalGap: 3})
	s := node(t, f, "Solo")
	if s.Height != 20 || s.X != 0 || s.Y != 0 {
		t.Errorf("solo = %+v", s)
	}
}

func TestLayout_RootsStacked(t *testing.T) {
	f := Build([]models.Note{
		n("R1", "1", ""),
		n("R1a", "2", "R1"),
		n("R1b", "3", "R1"),
		n("R2", "4", ""),
	})
	opts := DefaultOptions()
	f.Layout(opts)
	r1, r2 := node(t, f, "R1"), node(t, f, "R2")
	if r2.Y != r1.Y+r1.Height+opts.VerticalGap {
		t.Errorf("R2.Y = %d, want %d", r2.Y, r1.Y+r1.Height+opts.VerticalGap)
	}
	if r1.X != 0 || r2.X != 0 {
		t.Error("roots should share the first column")
	}
}

// checkSpans asserts the layout invariants over the whole forest.
func checkSpans(t *testing.T, f *Forest, opts Options) {
	t.Helper()
	for i, nd := range f.Nodes {
		if nd.Parent != None {
			p := f.Nodes[nd.Parent]
			if nd.Y < p.Y || nd.Y >= p.Y+p.Height {
				t.Errorf("%s: y=%d outside parent span [%d,%d)", nd.Note.Name, nd.Y, p.Y, p.Y+p.Height)
			}
			if nd.X != p.X+opts.CardWidth+opts.HorizontalGap {
				t.Errorf("%s: x=%d not one column right of parent x=%d", nd.Note.Name, nd.X, p.X)
			}
		}
		if nd.Height < opts.CardHeight {
			t.Errorf("node %d: height %d below card height", i, nd.Height)
		}
		for k := 1; k < len(nd.Children); k++ {
			prev, cur := f.Nodes[nd.Children[k-1]], f.Nodes[nd.Children[k]]
			if prev.Y+prev.Height > cur.Y {
				t.Errorf("siblings %s and %s overlap", prev.Note.Name, cur.Note.Name)
			}
		}
	}
	for k := 1; k < len(f.Roots); k++ {
		prev, cur := f.Nodes[f.Roots[k-1]], f.Nodes[f.Roots[k]]
		if prev.Y+prev.Height > cur.Y {
			t.Errorf("roots %s and %s overlap", prev.Note.Name, cur.Note.Name)
		}
	}
}

func TestLayout_SpansNeverOverlap(t *testing.T) {
	var notes []models.Note
	notes = append(notes, n("n000", "000", ""))
	for i := 1; i < 80; i++ {
		prev := ""
		if i%9 != 0 {
			prev = fmt.Sprintf("n%03d", (i*37+11)%i)
		}
		notes = append(notes, n(fmt.Sprintf("n%03d", i), fmt.Sprintf("%03d", i), prev))
	}
	f := Build(notes)
	opts := DefaultOptions()
	f.Layout(opts)
	checkSpans(t, f, opts)

	count := len(f.Roots)
	for _, nd := range f.Nodes {
		count += len(nd.Children)
	}
	if count != len(notes) {
		t.Errorf("roots+children = %d, want every note placed once (%d)", count, len(notes))
	}
}

func TestBuild_DanglingPreviousBecomesRoot(t *testing.T) {
	f := Build([]models.Note{n("Orphan", "1", "Missing")})
	if len(f.Dangling) != 1 || f.Dangling[0].Target != "Missing" {
		t.Fatalf("dangling = %+v", f.Dangling)
	}
	if got := names(f, f.Roots); len(got) != 1 || got[0] != "Orphan" {
		t.Errorf("roots = %v, want [Orphan]", got)
	}
	f.Layout(DefaultOptions())
}

func TestBuild_CycleBrokenAtEarliest(t *testing.T) {
	f := Build([]models.Note{
		n("B", "2", "A"),
		n("A", "1", "C"),
		n("C", "3", "B"),
		n("Tail", "4", "C"),
	})
	if len(f.Cycles) != 1 {
		t.Fatalf("cycles = %v, want 1", f.Cycles)
	}
	if got := names(f, f.Cycles[0]); fmt.Sprint(got) != "[A B C]" {
		t.Errorf("cycle = %v, want [A B C]", got)
	}
	if got := names(f, f.Roots); len(got) != 1 || got[0] != "A" {
		t.Errorf("roots = %v, want [A]", got)
	}
	opts := DefaultOptions()
	f.Layout(opts)
	checkSpans(t, f, opts)
	if tail := node(t, f, "Tail"); tail.X != 3*(opts.CardWidth+opts.HorizontalGap) {
		t.Errorf("Tail.X = %d", tail.X)
	}
}

func TestBuild_SelfReference(t *testing.T) {
	f := Build([]models.Note{n("Me", "1", "Me")})
	if len(f.Cycles) != 1 || len(f.Roots) != 1 {
		t.Fatalf("cycles=%v roots=%v", f.Cycles, f.Roots)
	}
	f.Layout(DefaultOptions())
	if me := node(t, f, "Me"); me.Height != DefaultOptions().CardHeight {
		t.Errorf("height = %d", me.Height)
	}
}

func TestBuild_DoesNotReorderInput(t *testing.T) {
	in := []models.Note{n("b", "2", ""), n("a", "1", "")}
	f := Build(in)
	if in[0].Name != "b" {
		t.Error("input slice was reordered")
	}
	if got := names(f, f.Roots); got[0] != "a" || got[1] != "b" {
		t.Errorf("roots = %v, want creation order", got)
	}
}
