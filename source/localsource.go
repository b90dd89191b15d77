// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// LocalSource is a positioned byte source backed by a local file. It opens
// the file once and serves concurrent positioned reads through
// *os.File.ReadAt, which uses pread(2) on Unix and does not share a mutable
// seek cursor across callers.
type LocalSource struct {
	file *os.File
	size int64

	mu     sync.Mutex
	closed bool
}

// OpenLocal opens path and stats its size. The returned LocalSource owns
// the file and closes it on Close.
func OpenLocal(path string) (*LocalSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open local source: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat local source: %w", err)
	}

	return &LocalSource{file: f, size: fi.Size()}, nil
}

// Len reports the file size in bytes, fixed at open time.
func (s *LocalSource) Len() int64 {
	return s.size
}

// ReadAt reads exactly n bytes starting at off. Context cancellation is
// checked before issuing the read; the underlying syscall is not itself
// cancellable, matching the teacher's position that a fast synchronous
// local backend needs no cooperative suspension mid-read.
func (s *LocalSource) ReadAt(ctx context.Context, off int64, n int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	read, err := s.file.ReadAt(buf, off)
	if err != nil {
		if err == io.EOF && int64(read) == n {
			return buf, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrTruncated, err)
	}

	return buf, nil
}

// Close closes the underlying file. Safe to call more than once.
func (s *LocalSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	return s.file.Close()
}
