package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, contents []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.bin")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestLocalSource_LenAndReadAt(t *testing.T) {
	t.Parallel()

	want := []byte("the quick brown fox jumps over the lazy dog")
	path := writeTempFile(t, want)

	src, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	defer func() { _ = src.Close() }()

	if src.Len() != int64(len(want)) {
		t.Fatalf("Len()=%d, want %d", src.Len(), len(want))
	}

	got, err := src.ReadAt(context.Background(), 4, 5)
	if err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if string(got) != "quick" {
		t.Fatalf("ReadAt=%q, want %q", got, "quick")
	}
}

func TestLocalSource_ReadAtPastEnd(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, []byte("short"))

	src, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}
	defer func() { _ = src.Close() }()

	if _, err := src.ReadAt(context.Background(), 0, 100); err == nil {
		t.Fatal("expected error reading past end of file")
	}
}

func TestLocalSource_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := writeTempFile(t, []byte("data"))

	src, err := OpenLocal(path)
	if err != nil {
		t.Fatalf("OpenLocal: %v", err)
	}

	if err := src.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestOpenLocal_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := OpenLocal(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatal("expected error opening missing file")
	}
}
