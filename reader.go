// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/Ylarod/runzip/source"
)

// Reader provides read-only, seekable access to a parsed ZIP archive's
// Central Directory, backed by any source.Source.
type Reader struct {
	src  source.Source
	owns bool
	opts ReaderOptions

	mu     sync.Mutex
	closed bool

	entries []IndexEntry
	byName  map[string]int
}

// Open opens a local file and parses its directory structures.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(context.Background(), path, ReaderOptions{})
}

// OpenWithOptions opens a local file with explicit reader options.
func OpenWithOptions(ctx context.Context, path string, opts ReaderOptions) (*Reader, error) {
	ls, err := source.OpenLocal(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	r, err := NewReader(ctx, ls, opts)
	if err != nil {
		_ = ls.Close()
		return nil, err
	}

	r.owns = true
	return r, nil
}

// OpenURL opens a remote archive over HTTP Range requests and parses its
// directory structures without downloading the archive body.
func OpenURL(ctx context.Context, url string, httpOpts source.HTTPOptions, opts ReaderOptions) (*Reader, error) {
	hs, err := source.OpenHTTP(ctx, url, httpOpts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}

	r, err := NewReader(ctx, hs, opts)
	if err != nil {
		_ = hs.Close()
		return nil, err
	}

	r.owns = true
	return r, nil
}

// NewReader parses an already-open source.Source into a Reader. The
// caller retains ownership of src and must Close it itself; Reader.Close
// will not close a Source supplied this way.
func NewReader(ctx context.Context, src source.Source, opts ReaderOptions) (*Reader, error) {
	if src == nil {
		return nil, ErrNilSource
	}

	opts.applyDefaults()

	eocd, err := locateEOCD(ctx, src)
	if err != nil {
		return nil, err
	}

	entries, err := parseCentralDirectory(ctx, src, eocd)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		byName[NormalizePath(e.FileName)] = i // last occurrence wins
	}

	return &Reader{src: src, opts: opts, entries: entries, byName: byName}, nil
}

// Entries returns a copy of all parsed entries in Central Directory order,
// including duplicate names.
func (r *Reader) Entries() []IndexEntry {
	out := make([]IndexEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Entry looks up one entry by exact normalized path. When the Central
// Directory contains duplicate names, the last occurrence wins.
func (r *Reader) Entry(name string) (IndexEntry, error) {
	idx, ok := r.byName[NormalizePath(name)]
	if !ok {
		return IndexEntry{}, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	return r.entries[idx], nil
}

// workerCount resolves the worker count to use for a parallel operation,
// preferring an explicit override over the Reader's source-dependent
// default. Zero means the caller should fall back to runtime.GOMAXPROCS(0).
func (r *Reader) workerCount(override int) int {
	if override > 0 {
		return override
	}

	if _, ok := r.src.(*source.HTTPSource); ok {
		return r.opts.HTTPMaxWorkers
	}

	return r.opts.LocalMaxWorkers
}

// ReadEntry reads one entry's full decompressed content into memory.
// Entries whose declared uncompressed size exceeds maxSize (0 means 64
// MiB) fail with ErrEntryTooLargeForMemory before any bytes are read.
func (r *Reader) ReadEntry(ctx context.Context, name string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = 64 * 1024 * 1024
	}

	entry, err := r.Entry(name)
	if err != nil {
		return nil, err
	}

	if entry.UncompressedSize > uint64(maxSize) { //nolint:gosec // maxSize validated positive above
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrEntryTooLargeForMemory, name, entry.UncompressedSize)
	}

	var buf bytes.Buffer
	buf.Grow(int(entry.UncompressedSize)) //nolint:gosec // bounded by maxSize check above
	if _, err := streamEntryPayload(ctx, r.src, entry, &buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ExtractOne streams one entry's decompressed content to w without
// buffering it in memory, for pipe-mode and other io.Writer callers. It
// uses the same payload streaming path as Extract and ReadEntry.
func (r *Reader) ExtractOne(ctx context.Context, name string, w io.Writer) (int64, error) {
	entry, err := r.Entry(name)
	if err != nil {
		return 0, err
	}

	return streamEntryPayload(ctx, r.src, entry, w)
}

// Close closes the underlying Source if the Reader opened it itself (via
// Open or OpenURL). A Reader built with NewReader over a caller-supplied
// Source leaves that Source open for the caller to manage.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	if r.owns {
		return r.src.Close()
	}

	return nil
}
