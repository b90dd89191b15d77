// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/Ylarod/runzip/source"
)

// decompressChunkSize bounds each Source.ReadAt call issued while streaming
// an entry's payload, keeping a single HTTP-backed extraction from pulling
// an entire large entry into memory in one Range request (spec.md §4.E).
const decompressChunkSize = 256 * 1024

// sectionReader adapts a source.Source window into an io.Reader by issuing
// bounded ReadAt calls as the caller (flate.Reader or a direct copy) pulls
// bytes, the read-side counterpart to the teacher's io.SectionReader over
// an io.ReaderAt.
type sectionReader struct {
	ctx      context.Context
	src      source.Source
	offset   int64
	remaining int64
}

func newSectionReader(ctx context.Context, src source.Source, offset, length int64) *sectionReader {
	return &sectionReader{ctx: ctx, src: src, offset: offset, remaining: length}
}

func (s *sectionReader) Read(p []byte) (int, error) {
	if s.remaining <= 0 {
		return 0, io.EOF
	}

	want := int64(len(p))
	if want > s.remaining {
		want = s.remaining
	}
	if want > decompressChunkSize {
		want = decompressChunkSize
	}

	buf, err := s.src.ReadAt(s.ctx, s.offset, want)
	if err != nil {
		return 0, err
	}

	n := copy(p, buf)
	s.offset += int64(n)
	s.remaining -= int64(n)

	return n, nil
}

// streamEntryPayload copies entry's decompressed payload from src to w,
// verifying CRC-32 and final size against the Central Directory's recorded
// values. STORED entries are copied verbatim; DEFLATE entries are decoded
// through klauspost/compress/flate. This is the single choke point all
// three extraction paths (ReadEntry, ExtractOne, Extract) funnel through,
// so the encryption and method checks live here rather than in each
// caller: an encrypted entry fails with ErrEncryptedUnsupported and an
// entry using any method but STORED/DEFLATE fails with
// ErrUnsupportedMethod before a single byte is read.
func streamEntryPayload(ctx context.Context, src source.Source, entry IndexEntry, w io.Writer) (int64, error) {
	if entry.IsEncrypted() {
		return 0, fmt.Errorf("%w: %s", ErrEncryptedUnsupported, entry.FileName)
	}

	switch entry.CompressionMethod {
	case MethodStored, MethodDeflate:
	default:
		return 0, fmt.Errorf("%w: %s uses method %d", ErrUnsupportedMethod, entry.FileName, entry.CompressionMethod)
	}

	hdr, err := readLocalHeader(ctx, src, entry)
	if err != nil {
		return 0, err
	}

	payloadEnd := hdr.payloadOffset + int64(entry.CompressedSize) //nolint:gosec // validated below
	if hdr.payloadOffset < 0 || payloadEnd > src.Len() {
		return 0, fmt.Errorf("%w: payload range exceeds archive size", ErrMalformedLocalHeader)
	}

	raw := newSectionReader(ctx, src, hdr.payloadOffset, int64(entry.CompressedSize)) //nolint:gosec // validated above

	var payload io.Reader
	switch entry.CompressionMethod {
	case MethodStored:
		payload = raw
	case MethodDeflate:
		fr := flate.NewReader(raw)
		defer fr.Close()
		payload = fr
	default:
		return 0, fmt.Errorf("%w: method %d", ErrUnsupportedMethod, entry.CompressionMethod)
	}

	sum := crc32.NewIEEE()
	written, err := io.Copy(w, io.TeeReader(payload, sum))
	if err != nil {
		return written, fmt.Errorf("decompress %s: %w", entry.FileName, err)
	}

	if uint64(written) != entry.UncompressedSize { //nolint:gosec // written is non-negative
		return written, fmt.Errorf("%w: %s: got %d want %d", ErrSizeMismatch, entry.FileName, written, entry.UncompressedSize)
	}

	if sum.Sum32() != entry.CRC32Expected {
		return written, fmt.Errorf("%w: %s: got %08x want %08x", ErrCRC32Mismatch, entry.FileName, sum.Sum32(), entry.CRC32Expected)
	}

	return written, nil
}
