package notes

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/starford/threadmap/internal/parser"
	"github.com/starford/threadmap/internal/testutil"
)

func TestLoad_ReadsNotesFolder(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	dir := filepath.Join(vaultDir, "Thoughts")
	testutil.WriteNote(t, dir, "Alpha", testutil.NoteSpec{Tags: []string{"project/alpha"}, Created: "2023-01-01"})
	testutil.WriteNote(t, dir, "Beta", testutil.NoteSpec{Created: "2023-01-02", Previous: "Alpha"})
	testutil.WriteFile(t, filepath.Join(dir, "Plain.md"), "no metadata here\n")
	testutil.WriteFile(t, filepath.Join(dir, "notes.txt"), "ignored")
	testutil.WriteFile(t, filepath.Join(vaultDir, "Outside.md"), "---\ntags: [x]\n---\n")

	got, err := Load(context.Background(), store, Options{Dir: "Thoughts"}, testutil.Logger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}

	byName := map[string]int{}
	for i, n := range got {
		byName[n.Name] = i
	}
	alpha := got[byName["Alpha"]]
	if alpha.Path != "Alpha.md" {
		t.Errorf("path = %q, want Alpha.md", alpha.Path)
	}
	if !reflect.DeepEqual(alpha.Tags, [][]string{{"project", "alpha"}}) {
		t.Errorf("tags = %v", alpha.Tags)
	}
	if alpha.Checksum == "" {
		t.Error("checksum should be set")
	}
	if beta := got[byName["Beta"]]; beta.Previous != "Alpha" {
		t.Errorf("previous = %q, want Alpha", beta.Previous)
	}
	if got[byName["Plain"]].HasFrontmatter {
		t.Error("Plain has no frontmatter")
	}
	if len(WithFrontmatter(got)) != 2 {
		t.Errorf("WithFrontmatter kept %d notes, want 2", len(WithFrontmatter(got)))
	}
}

func TestLoad_MissingDirIsFatal(t *testing.T) {
	_, store := testutil.TestVault(t)
	_, err := Load(context.Background(), store, Options{Dir: "Nope"}, testutil.Logger())
	if err == nil {
		t.Fatal("expected error for missing notes dir")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist: %v", err)
	}
}

func TestLoad_RecursiveDuplicateNames(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteNote(t, filepath.Join(vaultDir, "a"), "Same", testutil.NoteSpec{Created: "1"})
	testutil.WriteNote(t, filepath.Join(vaultDir, "b"), "Same", testutil.NoteSpec{Created: "2"})

	got, err := Load(context.Background(), store, Options{Recursive: true}, testutil.Logger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Path != "a/Same.md" || got[0].Created != "1" {
		t.Errorf("kept %+v, want the first path a/Same.md", got[0])
	}
}

func TestLoad_ExcludesGeneratedOutputs(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteNote(t, vaultDir, "Real", testutil.NoteSpec{Created: "1"})
	testutil.WriteFile(t, filepath.Join(vaultDir, "Thought Index Tags.md"), "---\nBC-list-note-field: down\n---\n")

	got, err := Load(context.Background(), store, Options{Exclude: []string{"Thought Index Tags.md"}}, testutil.Logger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Real" {
		t.Errorf("got %+v, want only Real", got)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	vaultDir, store := testutil.TestVault(t)
	testutil.WriteNote(t, vaultDir, "One", testutil.NoteSpec{Created: "1"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, store, Options{}, testutil.Logger()); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFromBytes_NameFromPath(t *testing.T) {
	n, err := FromBytes("sub/My Note.md", []byte("---\ncreated: \"x\"\n---\n"), parser.Options{})
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if n.Name != "My Note" || n.Path != "sub/My Note.md" {
		t.Errorf("note = %+v", n)
	}
}
