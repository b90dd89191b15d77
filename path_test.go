package runzip

import (
	"errors"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"a/b/c":     "a/b/c",
		`a\b\c`:     "a/b/c",
		"./a/b":     "a/b",
		"  a/b  ":   "a/b",
		"":          "",
	}

	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestSafeJoin_RejectsTraversal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cases := []string{
		"../escape.txt",
		"a/../../escape.txt",
		"/absolute.txt",
		"C:/windows.txt",
	}

	for _, name := range cases {
		if _, err := safeJoin(dir, name, false); !errors.Is(err, ErrUnsafePath) {
			t.Errorf("safeJoin(%q)=%v, want ErrUnsafePath", name, err)
		}
	}
}

func TestSafeJoin_AllowsNormalNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := safeJoin(dir, "nested/file.txt", false)
	if err != nil {
		t.Fatalf("safeJoin: %v", err)
	}
	if got == "" {
		t.Fatal("safeJoin returned empty path")
	}
}

func TestSafeJoin_JunkPathsStripsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	got, err := safeJoin(dir, "a/b/c/file.txt", true)
	if err != nil {
		t.Fatalf("safeJoin: %v", err)
	}

	want, err := safeJoin(dir, "file.txt", false)
	if err != nil {
		t.Fatalf("safeJoin baseline: %v", err)
	}

	if got != want {
		t.Fatalf("junkPaths result=%q, want %q", got, want)
	}
}

func TestSafeJoin_RejectsEmptyAndNUL(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	if _, err := safeJoin(dir, "", false); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("empty name: got %v, want ErrUnsafePath", err)
	}
	if _, err := safeJoin(dir, "a\x00b", false); !errors.Is(err, ErrUnsafePath) {
		t.Errorf("NUL-containing name: got %v, want ErrUnsafePath", err)
	}
}
