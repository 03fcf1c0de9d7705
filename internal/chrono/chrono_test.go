package chrono

import (
	"reflect"
	"testing"

	"github.com/starford/threadmap/internal/models"
)

func TestRender_CreationOrder(t *testing.T) {
	notes := []models.Note{
		{Name: "C", Created: "2023-03-01"},
		{Name: "A", Created: "2023-01-01"},
		{Name: "B", Created: "2023-02-01"},
	}
	got := Render(notes)
	want := []string{"- [[A]]", "- [[B]]", "- [[C]]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Render = %v, want %v", got, want)
	}
}

func TestSort_NonDecreasingAndExplicitTieBreak(t *testing.T) {
	notes := []models.Note{
		{Name: "z", Created: "2"},
		{Name: "y", Created: ""},
		{Name: "b", Created: "2"},
		{Name: "a", Created: "1"},
	}
	got := Sort(notes)
	var names []string
	for i, n := range got {
		names = append(names, n.Name)
		if i > 0 && got[i-1].Created > n.Created {
			t.Errorf("order broken at %d: %q after %q", i, n.Created, got[i-1].Created)
		}
	}
	if want := []string{"y", "a", "b", "z"}; !reflect.DeepEqual(names, want) {
		t.Errorf("order = %v, want %v", names, want)
	}
	if notes[0].Name != "z" {
		t.Error("Sort must not reorder its input")
	}
}
