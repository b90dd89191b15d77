package runzip

import (
	"archive/zip"
	"context"
	"testing"
)

func TestParseCentralDirectory_DecodesEntries(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "dir/", content: nil, method: zip.Store},
		{name: "dir/a.txt", content: []byte("hello"), method: zip.Store},
		{name: "dir/b.txt", content: []byte("a longer payload for deflate to actually shrink"), method: zip.Deflate},
	})
	src := openLocalSource(t, path)

	rec, err := locateEOCD(context.Background(), src)
	if err != nil {
		t.Fatalf("locateEOCD: %v", err)
	}

	entries, err := parseCentralDirectory(context.Background(), src, rec)
	if err != nil {
		t.Fatalf("parseCentralDirectory: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries)=%d, want 3", len(entries))
	}

	if !entries[0].IsDirectory {
		t.Errorf("entries[0] (%s) should be a directory", entries[0].FileName)
	}

	if entries[1].CompressionMethod != MethodStored {
		t.Errorf("entries[1].CompressionMethod=%d, want MethodStored", entries[1].CompressionMethod)
	}
	if entries[1].UncompressedSize != uint64(len("hello")) {
		t.Errorf("entries[1].UncompressedSize=%d, want %d", entries[1].UncompressedSize, len("hello"))
	}

	if entries[2].CompressionMethod != MethodDeflate {
		t.Errorf("entries[2].CompressionMethod=%d, want MethodDeflate", entries[2].CompressionMethod)
	}
}

func TestParseCentralDirectory_DuplicateNamesLastWins(t *testing.T) {
	t.Parallel()

	path := writeZIPFile(t, []fixtureFile{
		{name: "dup.txt", content: []byte("first"), method: zip.Store},
		{name: "dup.txt", content: []byte("second"), method: zip.Store},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = r.Close() }()

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2 (duplicates preserved in index)", len(entries))
	}

	e, err := r.Entry("dup.txt")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	if e.UncompressedSize != uint64(len("second")) {
		t.Fatalf("Entry lookup returned first occurrence, want last (size %d, got %d)", len("second"), e.UncompressedSize)
	}
}

func TestDecodeCP437_ASCIIPassthrough(t *testing.T) {
	t.Parallel()

	got := decodeCP437([]byte("plain-ascii.txt"))
	if got != "plain-ascii.txt" {
		t.Fatalf("decodeCP437=%q, want unchanged ASCII", got)
	}
}

func TestDecodeCP437_HighBytes(t *testing.T) {
	t.Parallel()

	got := decodeCP437([]byte{0x80, 0x81})
	want := string([]rune{cp437High[0], cp437High[1]})
	if got != want {
		t.Fatalf("decodeCP437=%q, want %q", got, want)
	}
}
