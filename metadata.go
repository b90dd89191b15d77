// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"context"
	"fmt"

	"github.com/Ylarod/runzip/source"
)

// ListEntries opens a local archive, parses its Central Directory, and
// returns its entries without requiring the caller to manage a Reader's
// lifetime.
func ListEntries(path string) ([]IndexEntry, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.Entries(), nil
}

// ListEntriesURL parses a remote archive's Central Directory over HTTP
// Range requests, fetching only the trailer and directory ranges.
func ListEntriesURL(ctx context.Context, url string, httpOpts source.HTTPOptions) ([]IndexEntry, error) {
	hs, err := source.OpenHTTP(ctx, url, httpOpts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", url, err)
	}
	defer func() { _ = hs.Close() }()

	eocd, err := locateEOCD(ctx, hs)
	if err != nil {
		return nil, err
	}

	return parseCentralDirectory(ctx, hs, eocd)
}
