package runzip

import (
	"archive/zip"
	"context"
	"errors"
	"testing"
)

func TestOpen_EntryNotFound(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "present.txt", content: []byte("x"), method: zip.Store},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = r.Close() }()

	if _, err := r.Entry("missing.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestReader_Close_IsIdempotentAndClosesOwnedSource(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "a.txt", content: []byte("x"), method: zip.Store},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := r.src.ReadAt(context.Background(), 0, 4); err == nil {
		t.Fatal("owned source still readable after Reader.Close")
	}
}

func TestNewReader_DoesNotOwnCallerSource(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "a.txt", content: []byte("x"), method: zip.Store},
	})
	src := openLocalSource(t, path)

	r, err := NewReader(context.Background(), src, ReaderOptions{})
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// src must still be usable; NewReader-constructed Readers never close
	// a caller-supplied Source.
	if _, err := src.ReadAt(context.Background(), 0, 4); err != nil {
		t.Fatalf("source closed unexpectedly by Reader.Close: %v", err)
	}
}

func TestNewReader_NilSource(t *testing.T) {
	t.Parallel()

	if _, err := NewReader(context.Background(), nil, ReaderOptions{}); !errors.Is(err, ErrNilSource) {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "one.txt", content: []byte("1"), method: zip.Store},
		{name: "two.txt", content: []byte("2"), method: zip.Store},
	})

	entries, err := ListEntries(path)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}
}
