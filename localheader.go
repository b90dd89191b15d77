// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/Ylarod/runzip/source"
)

const localHeaderFixedSize = 30

// localHeader holds the fields of a Local File Header needed to locate an
// entry's payload. The Central Directory's compressed/uncompressed sizes
// remain authoritative even when they disagree with a pre-data-descriptor
// local header (spec.md §4.D), since GP flag bit 3 leaves the local
// header's size fields zeroed until the trailing data descriptor — which
// this reader, grounded purely on random access into the Central
// Directory, never needs to consult.
type localHeader struct {
	payloadOffset int64
}

// readLocalHeader reads the 30-byte Local File Header at entry's recorded
// offset and returns the absolute offset of the entry's payload, which
// follows the header's own (possibly different from the Central
// Directory's) name and extra field lengths.
func readLocalHeader(ctx context.Context, src source.Source, entry IndexEntry) (localHeader, error) {
	base := int64(entry.LocalHeaderOffset) //nolint:gosec // validated against archive size below
	if base < 0 || base+localHeaderFixedSize > src.Len() {
		return localHeader{}, fmt.Errorf("%w: local header offset out of range", ErrMalformedLocalHeader)
	}

	buf, err := src.ReadAt(ctx, base, localHeaderFixedSize)
	if err != nil {
		return localHeader{}, fmt.Errorf("read local file header: %w", err)
	}

	if binary.LittleEndian.Uint32(buf[0:4]) != sigLocalHeader {
		return localHeader{}, fmt.Errorf("%w: missing signature at offset %d", ErrMalformedLocalHeader, base)
	}

	nameLen := int64(binary.LittleEndian.Uint16(buf[26:28]))
	extraLen := int64(binary.LittleEndian.Uint16(buf[28:30]))

	return localHeader{
		payloadOffset: base + localHeaderFixedSize + nameLen + extraLen,
	}, nil
}
