// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

/*
Package runzip provides read-only, random-access extraction of ZIP
archives from local files or HTTP servers that support Range requests.
It is designed for partial-retrieval workflows: opening a remote archive
fetches only the End of Central Directory and Central Directory ranges,
and extracting a subset of entries fetches only those entries' payload
ranges, never the whole archive body.

# Reading

Open an archive and list or read entries:

	r, err := runzip.Open("bundle.zip")
	if err != nil {
	    return err
	}
	defer r.Close()

	for _, e := range r.Entries() {
	    data, err := r.ReadEntry(ctx, e.FileName, 0)
	    if err != nil {
	        return err
	    }
	    _ = data
	}

Open a remote archive over HTTP Range requests without downloading it:

	r, err := runzip.OpenURL(ctx, "https://example.com/bundle.zip", source.HTTPOptions{}, runzip.ReaderOptions{})
	if err != nil {
	    return err
	}
	defer r.Close()

	entries, err := runzip.ListEntriesURL(ctx, "https://example.com/bundle.zip", source.HTTPOptions{})
	if err != nil {
	    return err
	}
	_ = entries

# Extracting

Extract all entries to a directory (parallel workers):

	results, err := r.Extract(ctx, runzip.ExtractOptions{
	    DestinationDir: "out/",
	    MaxWorkers:     4,
	})
	if err != nil {
	    return err
	}
	_ = results

Restrict which entries participate with a Selection, built from glob
patterns via NewGlobSelector or supplied directly:

	sel, err := runzip.NewGlobSelector([]string{"assets/**"}, []string{"*.tmp"})
	if err != nil {
	    return err
	}

	results, err := r.Extract(ctx, runzip.ExtractOptions{
	    DestinationDir: "out/",
	    Selection:      sel,
	})

Stream one entry to an arbitrary writer instead of the filesystem:

	n, err := r.ExtractOne(ctx, "README.md", os.Stdout)
	if err != nil {
	    return err
	}
	_ = n

A caller-supplied SinkFactory lets Extract drive any destination — named
pipes, in-memory buffers, or a custom archive format — through the same
worker pool and path-safety checks used for filesystem extraction.
*/
package runzip
