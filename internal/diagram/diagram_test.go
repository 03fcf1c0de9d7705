package diagram

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/threadmap/internal/models"
)

func tagged(name, created string, tags ...[]string) models.Note {
	return models.Note{Name: name, Created: created, Tags: tags}
}

func TestRender_GroupsAndLinks(t *testing.T) {
	notes := []models.Note{
		tagged("Second", "2", []string{"work"}),
		tagged("First", "1", []string{"work"}, []string{"home"}),
		tagged("Third", "3", []string{"work"}),
	}
	got := Render(notes, Options{})
	want := strings.Join([]string{
		"flowchart LR",
		`    subgraph g0["home"]`,
		`        g0_First["First"]`,
		"    end",
		`    subgraph g1["work"]`,
		`        g1_First["First"]`,
		`        g1_Second["Second"]`,
		`        g1_Third["Third"]`,
		"        g1_First --> g1_Second",
		"        g1_Second --> g1_Third",
		"    end",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_DirectionAndExclude(t *testing.T) {
	notes := []models.Note{tagged("A", "1", []string{"meta", "x"}, []string{"topic"})}
	got := Render(notes, Options{Direction: "TB", ExcludePrefixes: []string{"meta"}})
	if !strings.HasPrefix(got, "flowchart TB\n") {
		t.Errorf("direction not applied: %q", got)
	}
	if strings.Contains(got, "meta") {
		t.Errorf("meta tag should be excluded:\n%s", got)
	}
}

func TestRender_EscapesQuotesAndDedupesIDs(t *testing.T) {
	notes := []models.Note{
		tagged(`say "hi"`, "1", []string{"t"}),
		tagged("say hi", "2", []string{"t"}),
	}
	got := Render(notes, Options{})
	if !strings.Contains(got, `g0_sayhi["say #quot;hi#quot;"]`) {
		t.Errorf("quote not escaped:\n%s", got)
	}
	if !strings.Contains(got, "g0_sayhi --> g0_sayhi_2") {
		t.Errorf("colliding ids not separated:\n%s", got)
	}
}

func TestGroups_Sorted(t *testing.T) {
	notes := []models.Note{
		tagged("A", "1", []string{"b", "c"}),
		tagged("B", "1", []string{"a"}),
	}
	gs := Groups(notes, nil)
	if len(gs) != 2 || gs[0].Tag != "a" || gs[1].Tag != "b/c" {
		t.Errorf("groups = %+v", gs)
	}
}

func TestRasterize_RunsCommand(t *testing.T) {
	if _, err := exec.LookPath("cp"); err != nil {
		t.Skip("cp not available")
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "in.mmd")
	out := filepath.Join(dir, "out.svg")
	if err := os.WriteFile(in, []byte("flowchart LR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Rasterize(context.Background(), []string{"cp", "{input}", "{output}"}, in, out); err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not created: %v", err)
	}
}

func TestRasterize_Errors(t *testing.T) {
	if err := Rasterize(context.Background(), nil, "a", "b"); err == nil {
		t.Error("expected error for empty command")
	}
	err := Rasterize(context.Background(), []string{"threadmap-no-such-renderer"}, "a", "b")
	if err == nil {
		t.Error("expected error for missing binary")
	}
}
