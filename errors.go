// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"errors"

	"github.com/Ylarod/runzip/source"
)

// Sentinel errors for ZIP reading and extraction. Use errors.Is in
// callers; wrapped with fmt.Errorf("%w: ...") at each call site.
var (
	// ErrNotAZipArchive means no EOCD signature was found anywhere in the
	// trailer search window.
	ErrNotAZipArchive = errors.New("not a ZIP archive: end of central directory not found")
	// ErrMalformedEOCD means the EOCD record was found but its fields are
	// internally inconsistent (comment length, ZIP64 locator mismatch).
	ErrMalformedEOCD = errors.New("malformed end of central directory record")
	// ErrMalformedCentralDirectory means a Central Directory record was
	// missing its signature or ran past the declared directory size.
	ErrMalformedCentralDirectory = errors.New("malformed central directory")
	// ErrMalformedLocalHeader means a local file header was missing its
	// signature or truncated.
	ErrMalformedLocalHeader = errors.New("malformed local file header")
	// ErrUnsupportedMethod means the entry's compression method is
	// neither STORED (0) nor DEFLATE (8).
	ErrUnsupportedMethod = errors.New("unsupported compression method")
	// ErrEncryptedUnsupported means the entry's general-purpose flags
	// mark it encrypted.
	ErrEncryptedUnsupported = errors.New("encrypted entries are not supported")
	// ErrCRC32Mismatch means the decompressed payload's CRC-32 did not
	// match the Central Directory's recorded value.
	ErrCRC32Mismatch = errors.New("CRC-32 mismatch")
	// ErrSizeMismatch means the decompressed payload length did not match
	// the Central Directory's recorded uncompressed size.
	ErrSizeMismatch = errors.New("uncompressed size mismatch")
	// ErrUnsafePath means an entry's name is absolute, contains a ".."
	// segment, or otherwise resolves outside the destination directory.
	ErrUnsafePath = errors.New("unsafe entry path")
	// ErrTruncated means a positioned read returned fewer bytes than
	// requested before reaching a legitimate end of data. It is the same
	// value as source.ErrTruncated, which the sources wrap.
	ErrTruncated = source.ErrTruncated
	// ErrNilSource means a Reader was constructed with a nil Source.
	ErrNilSource = errors.New("source is nil")
	// ErrClosed means the Reader is already closed.
	ErrClosed = errors.New("reader already closed")
	// ErrEntryNotFound means a lookup by name matched no Central
	// Directory entry.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryTooLargeForMemory means ReadEntry was asked to buffer an
	// entry larger than its maxSize argument.
	ErrEntryTooLargeForMemory = errors.New("entry too large to read into memory")
	// ErrSkipEntry, returned by a SinkFactory, causes Extract to record
	// the entry as skipped rather than failed.
	ErrSkipEntry = errors.New("entry skipped")
)
