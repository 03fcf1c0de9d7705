package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("note"))
	b := Sum([]byte("note"))
	if a != b {
		t.Fatalf("Sum not stable: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	if Sum([]byte("other")) == a {
		t.Error("different inputs share a digest")
	}
}

func TestShort(t *testing.T) {
	if got := Short("abcdef0123456789"); got != "abcdef012345" {
		t.Errorf("Short = %q", got)
	}
	if got := Short("abc"); got != "abc" {
		t.Errorf("Short of short input = %q", got)
	}
}
