// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizePath converts an archive path to normalized slash-separated
// form for name-lookup and matching purposes. It trims spaces, accepts
// both "/" and "\", and removes a leading "./". It does not reject
// traversal segments — that is safeJoin's job, applied only at
// extraction time, per spec.md §3's requirement that unsafe names are
// retained in the index but rejected only when extracted.
func NormalizePath(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `\`, "/")
	raw = strings.TrimPrefix(raw, "./")

	return raw
}

// safeJoin resolves entry.FileName (or its basename, under junkPaths)
// against destDir and rejects any result that is not a descendant of
// destDir. A name that normalizes to the empty string or contains a NUL
// byte is rejected with ErrUnsafePath as well.
func safeJoin(destDir, name string, junkPaths bool) (string, error) {
	clean := NormalizePath(name)
	if clean == "" || strings.ContainsRune(clean, 0) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	if strings.HasPrefix(clean, "/") || hasWindowsDrivePrefix(clean) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
		}
	}

	if junkPaths {
		clean = filepath.Base(filepath.FromSlash(clean))
	}

	destAbs, err := filepath.Abs(destDir)
	if err != nil {
		return "", fmt.Errorf("resolve destination dir: %w", err)
	}

	joined := filepath.Join(destAbs, filepath.FromSlash(clean))
	rel, err := filepath.Rel(destAbs, joined)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes destination", ErrUnsafePath, name)
	}

	return joined, nil
}

// hasWindowsDrivePrefix reports whether path starts with a drive-root
// prefix like "C:/", which is unsafe regardless of host OS since it would
// otherwise resolve outside the destination tree when FromSlash treats
// the colon as part of a plain path segment.
func hasWindowsDrivePrefix(path string) bool {
	if len(path) < 3 || path[1] != ':' || path[2] != '/' {
		return false
	}

	c := path[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
