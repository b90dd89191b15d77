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

const (
	sigEOCD         uint32 = 0x06054b50
	sigZip64Locator uint32 = 0x07064b50
	sigZip64EOCD    uint32 = 0x06064b50
	sigCentralDir   uint32 = 0x02014b50
	sigLocalHeader  uint32 = 0x04034b50

	eocdFixedSize    = 22
	zip64LocatorSize = 20
	zip64EOCDMinSize = 56
	maxCommentSize   = 65535

	zip64Sentinel32 = 0xFFFFFFFF
	zip64Sentinel16 = 0xFFFF
)

// eocdRecord holds the resolved (ZIP64-upgraded where needed) fields of
// the end of central directory that the Central Directory Parser needs.
type eocdRecord struct {
	totalEntries     uint64
	centralDirSize   uint64
	centralDirOffset uint64
}

// locateEOCD finds and parses the End of Central Directory record,
// upgrading to the ZIP64 EOCD when the 32-bit record carries sentinel
// values. It tries the no-comment fast path first — the EOCD is the
// final 22 bytes with a zero comment length, true for the overwhelming
// majority of archives — before falling back to a backward scan over the
// full comment window (spec.md §4.B steps 1-2).
func locateEOCD(ctx context.Context, src source.Source) (eocdRecord, error) {
	size := src.Len()
	if size < eocdFixedSize {
		return eocdRecord{}, fmt.Errorf("%w: archive smaller than EOCD", ErrNotAZipArchive)
	}

	tailOff := size - eocdFixedSize
	tail, err := src.ReadAt(ctx, tailOff, eocdFixedSize)
	if err != nil {
		return eocdRecord{}, fmt.Errorf("read EOCD tail: %w", err)
	}

	var eocdOffset int64
	var buf []byte
	if binary.LittleEndian.Uint32(tail[0:4]) == sigEOCD && binary.LittleEndian.Uint16(tail[20:22]) == 0 {
		eocdOffset, buf = tailOff, tail
	} else {
		windowSize := size
		if windowSize > maxCommentSize+eocdFixedSize {
			windowSize = maxCommentSize + eocdFixedSize
		}
		windowStart := size - windowSize
		window, err := src.ReadAt(ctx, windowStart, windowSize)
		if err != nil {
			return eocdRecord{}, fmt.Errorf("read EOCD search window: %w", err)
		}

		found := false
		sawSignature := false
		for i := int64(len(window)) - eocdFixedSize; i >= 0; i-- {
			if binary.LittleEndian.Uint32(window[i:i+4]) != sigEOCD {
				continue
			}
			sawSignature = true

			commentLen := int64(binary.LittleEndian.Uint16(window[i+20 : i+22]))
			if commentLen == int64(len(window))-i-eocdFixedSize {
				eocdOffset = windowStart + i
				buf = window[i : i+eocdFixedSize]
				found = true
				break
			}
		}

		if !found {
			if sawSignature {
				return eocdRecord{}, fmt.Errorf("%w: comment length inconsistent with trailer", ErrMalformedEOCD)
			}
			return eocdRecord{}, ErrNotAZipArchive
		}
	}

	totalEntries := uint64(binary.LittleEndian.Uint16(buf[10:12]))
	cdSize := uint64(binary.LittleEndian.Uint32(buf[12:16]))
	cdOffset := uint64(binary.LittleEndian.Uint32(buf[16:20]))

	needsZip64 := totalEntries == zip64Sentinel16 || cdSize == zip64Sentinel32 || cdOffset == zip64Sentinel32
	if !needsZip64 {
		return eocdRecord{totalEntries: totalEntries, centralDirSize: cdSize, centralDirOffset: cdOffset}, nil
	}

	return readZip64EOCD(ctx, src, eocdOffset)
}

// readZip64EOCD follows the ZIP64 EOCD Locator (immediately before the
// regular EOCD) to the ZIP64 EOCD record and returns its 64-bit fields.
func readZip64EOCD(ctx context.Context, src source.Source, eocdOffset int64) (eocdRecord, error) {
	locatorOffset := eocdOffset - zip64LocatorSize
	if locatorOffset < 0 {
		return eocdRecord{}, fmt.Errorf("%w: no room for ZIP64 locator", ErrMalformedEOCD)
	}

	locator, err := src.ReadAt(ctx, locatorOffset, zip64LocatorSize)
	if err != nil {
		return eocdRecord{}, fmt.Errorf("read ZIP64 EOCD locator: %w", err)
	}
	if binary.LittleEndian.Uint32(locator[0:4]) != sigZip64Locator {
		return eocdRecord{}, fmt.Errorf("%w: missing ZIP64 EOCD locator signature", ErrMalformedEOCD)
	}

	zip64Offset := int64(binary.LittleEndian.Uint64(locator[8:16])) //nolint:gosec // bounded by archive size below

	record, err := src.ReadAt(ctx, zip64Offset, zip64EOCDMinSize)
	if err != nil {
		return eocdRecord{}, fmt.Errorf("read ZIP64 EOCD record: %w", err)
	}
	if binary.LittleEndian.Uint32(record[0:4]) != sigZip64EOCD {
		return eocdRecord{}, fmt.Errorf("%w: missing ZIP64 EOCD signature", ErrMalformedEOCD)
	}

	return eocdRecord{
		totalEntries:     binary.LittleEndian.Uint64(record[32:40]),
		centralDirSize:   binary.LittleEndian.Uint64(record[40:48]),
		centralDirOffset: binary.LittleEndian.Uint64(record[48:56]),
	}, nil
}
