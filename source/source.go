// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

// Package source provides the positioned, random-access byte source
// abstraction that the ZIP engine reads archives through. A Source is a
// read-only, immutable-length view backed either by a local file or by an
// HTTP(S) resource accessed with Range requests.
package source

import (
	"context"
	"errors"
)

// ErrRangesUnsupported means the remote server does not honor byte-range
// requests, so partial retrieval is impossible for this source.
var ErrRangesUnsupported = errors.New("source: server does not support range requests")

// ErrHTTPStatus means a request to the remote source returned an
// unexpected HTTP status code.
var ErrHTTPStatus = errors.New("source: unexpected HTTP status")

// ErrContentRangeMismatch means a 206 response's Content-Range header did
// not match the byte range that was requested.
var ErrContentRangeMismatch = errors.New("source: Content-Range mismatch")

// ErrTruncated means fewer bytes were available than requested.
var ErrTruncated = errors.New("source: short read before requested length was satisfied")

// Source is a read-only, random-access view over archive bytes. Len is
// constant for the lifetime of the Source. ReadAt must return exactly n
// bytes starting at off, or an error; it must be safe to call concurrently
// from multiple goroutines against the same Source without external
// locking.
type Source interface {
	// Len reports the total size of the underlying archive in bytes.
	Len() int64
	// ReadAt returns exactly n bytes read starting at off, or an error.
	ReadAt(ctx context.Context, off int64, n int64) ([]byte, error)
	// Close releases resources held by the source.
	Close() error
}
