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

const centralDirRecordFixedSize = 46

// parseCentralDirectory fetches the Central Directory as a single range
// (spec.md §4.C: "Reads the Central Directory as a single range") and
// decodes every record into an IndexEntry, preserving Central Directory
// order including duplicate names. Parsing halts at either rec.totalEntries
// records consumed or the fetched range exhausted; any mismatch is fatal,
// matching the teacher's parseEntriesBuffered pattern of treating a short
// final record as ErrMalformedCentralDirectory rather than silently
// truncating the index.
func parseCentralDirectory(ctx context.Context, src source.Source, rec eocdRecord) ([]IndexEntry, error) {
	if rec.centralDirOffset+rec.centralDirSize > uint64(src.Len()) {
		return nil, fmt.Errorf("%w: central directory range exceeds archive size", ErrMalformedCentralDirectory)
	}

	buf, err := src.ReadAt(ctx, int64(rec.centralDirOffset), int64(rec.centralDirSize)) //nolint:gosec // bounds checked above
	if err != nil {
		return nil, fmt.Errorf("read central directory: %w", err)
	}

	entries := make([]IndexEntry, 0, rec.totalEntries)
	pos := 0

	for uint64(len(entries)) < rec.totalEntries {
		if pos+centralDirRecordFixedSize > len(buf) {
			return nil, fmt.Errorf("%w: truncated record at offset %d", ErrMalformedCentralDirectory, pos)
		}

		record := buf[pos:]
		if binary.LittleEndian.Uint32(record[0:4]) != sigCentralDir {
			return nil, fmt.Errorf("%w: missing signature at offset %d", ErrMalformedCentralDirectory, pos)
		}

		gpFlags := binary.LittleEndian.Uint16(record[8:10])
		compMethod := binary.LittleEndian.Uint16(record[10:12])
		modTime := binary.LittleEndian.Uint16(record[12:14])
		modDate := binary.LittleEndian.Uint16(record[14:16])
		crc32 := binary.LittleEndian.Uint32(record[16:20])
		compSize32 := binary.LittleEndian.Uint32(record[20:24])
		uncompSize32 := binary.LittleEndian.Uint32(record[24:28])
		nameLen := int(binary.LittleEndian.Uint16(record[28:30]))
		extraLen := int(binary.LittleEndian.Uint16(record[30:32]))
		commentLen := int(binary.LittleEndian.Uint16(record[32:34]))
		extAttrs := binary.LittleEndian.Uint32(record[38:42])
		localHeaderOffset32 := binary.LittleEndian.Uint32(record[42:46])

		varStart := pos + centralDirRecordFixedSize
		varEnd := varStart + nameLen + extraLen + commentLen
		if varEnd > len(buf) {
			return nil, fmt.Errorf("%w: variable fields exceed directory range", ErrMalformedCentralDirectory)
		}

		nameBytes := buf[varStart : varStart+nameLen]
		extra := buf[varStart+nameLen : varStart+nameLen+extraLen]

		compSize := uint64(compSize32)
		uncompSize := uint64(uncompSize32)
		localHeaderOffset := uint64(localHeaderOffset32)
		applyZip64Extra(extra, &uncompSize, &compSize, &localHeaderOffset, uncompSize32, compSize32, localHeaderOffset32)

		fileName := decodeEntryName(nameBytes, gpFlags)

		entries = append(entries, IndexEntry{
			FileName:           fileName,
			CompressionMethod:  compMethod,
			CRC32Expected:      crc32,
			CompressedSize:     compSize,
			UncompressedSize:   uncompSize,
			LocalHeaderOffset:  localHeaderOffset,
			ExternalAttributes: extAttrs,
			LastModifiedDOS:    uint32(modDate)<<16 | uint32(modTime),
			GPFlags:            gpFlags,
			IsDirectory:        len(fileName) > 0 && fileName[len(fileName)-1] == '/',
		})

		pos = varEnd

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if pos != len(buf) {
		return nil, fmt.Errorf("%w: %d bytes left after %d records", ErrMalformedCentralDirectory, len(buf)-pos, rec.totalEntries)
	}

	return entries, nil
}

// applyZip64Extra scans the extra field for tag 0x0001 and upgrades the
// 64-bit output parameters in the fixed order uncompressed, compressed,
// local-header-offset, disk-start — each read only when its corresponding
// 32-bit Central Directory slot held the 0xFFFFFFFF sentinel (spec.md
// §4.C).
func applyZip64Extra(extra []byte, uncompSize, compSize, localHeaderOffset *uint64, uncompSize32, compSize32, localHeaderOffset32 uint32) {
	const zip64Tag = 0x0001

	pos := 0
	for pos+4 <= len(extra) {
		tag := binary.LittleEndian.Uint16(extra[pos : pos+2])
		size := int(binary.LittleEndian.Uint16(extra[pos+2 : pos+4]))
		fieldStart := pos + 4
		fieldEnd := fieldStart + size
		if fieldEnd > len(extra) {
			return
		}

		if tag == zip64Tag {
			field := extra[fieldStart:fieldEnd]
			off := 0
			if uncompSize32 == zip64Sentinel32 && off+8 <= len(field) {
				*uncompSize = binary.LittleEndian.Uint64(field[off : off+8])
				off += 8
			}
			if compSize32 == zip64Sentinel32 && off+8 <= len(field) {
				*compSize = binary.LittleEndian.Uint64(field[off : off+8])
				off += 8
			}
			if localHeaderOffset32 == zip64Sentinel32 && off+8 <= len(field) {
				*localHeaderOffset = binary.LittleEndian.Uint64(field[off : off+8])
			}
			return
		}

		pos = fieldEnd
	}
}

// decodeEntryName decodes a Central Directory file name as UTF-8 when
// general-purpose bit 11 is set, otherwise as CP-437.
func decodeEntryName(raw []byte, gpFlags uint16) string {
	if gpFlags&GPFlagUTF8Name != 0 {
		return string(raw)
	}

	return decodeCP437(raw)
}
