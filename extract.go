// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package runzip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// pathSink is implemented by sinks that write to a known filesystem path,
// letting Extract apply permissions and modification time after the
// stream completes. Pipe-mode and other caller-supplied sinks need not
// implement it.
type pathSink interface {
	Path() string
}

// fileSink is the default filesystem Sink returned by
// defaultFilesystemSinkFactory.
type fileSink struct {
	f    *os.File
	path string
}

func (s *fileSink) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *fileSink) Close() error                { return s.f.Close() }
func (s *fileSink) Path() string                { return s.path }

// Extract writes every entry selected by opts.Selection to
// opts.DestinationDir (or through opts.SinkFactory), parallelized across
// opts.MaxWorkers workers. It returns one ExtractResult per selected
// entry, in selection (Central Directory) order regardless of completion
// order, and a non-nil error equal to the first failing (non-skipped)
// entry's error in that order.
func (r *Reader) Extract(ctx context.Context, opts ExtractOptions) ([]ExtractResult, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	opts.applyDefaults()

	selection := opts.Selection
	if selection == nil {
		selection = func(IndexEntry) bool { return true }
	}

	selected := make([]IndexEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if selection(e) {
			selected = append(selected, e)
		}
	}

	if len(selected) == 0 {
		return nil, nil
	}

	workers := r.workerCount(opts.MaxWorkers)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers < 1 {
		workers = 1
	}

	sinkFactory := opts.SinkFactory
	if sinkFactory == nil {
		sinkFactory = defaultFilesystemSinkFactory
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]ExtractResult, len(selected))
	taskCh := make(chan int, len(selected))
	for i := range selected {
		taskCh <- i
	}
	close(taskCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range taskCh {
				select {
				case <-ctx.Done():
					results[idx] = ExtractResult{Entry: selected[idx], Err: ctx.Err()}
				default:
					results[idx] = r.extractEntry(ctx, selected[idx], opts, sinkFactory)
				}

				if opts.OnEntryDone != nil {
					opts.OnEntryDone(results[idx])
				}
			}
		}()
	}
	wg.Wait()

	var firstErr error
	for _, res := range results {
		if res.Err != nil && !res.Skipped && firstErr == nil {
			firstErr = res.Err
		}
	}

	return results, firstErr
}

// extractEntry extracts one entry, dispatching directories and symlinks
// to their own handling before falling through to the stream-through-sink
// path used by regular files.
func (r *Reader) extractEntry(ctx context.Context, entry IndexEntry, opts ExtractOptions, sinkFactory SinkFactory) ExtractResult {
	destPath, err := safeJoin(opts.DestinationDir, entry.FileName, opts.JunkPaths)
	if err != nil {
		return ExtractResult{Entry: entry, Err: err}
	}

	if entry.IsDirectory {
		if err := os.MkdirAll(destPath, 0o750); err != nil {
			return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("create directory %s: %w", destPath, err)}
		}

		applyEntryMetadata(destPath, entry)

		return ExtractResult{Entry: entry, DestPath: destPath}
	}

	if entry.IsSymlink() {
		return r.extractSymlink(ctx, entry, destPath, opts)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("create parent of %s: %w", destPath, err)}
	}

	sink, err := sinkFactory(entry, opts)
	if errors.Is(err, ErrSkipEntry) {
		return ExtractResult{Entry: entry, DestPath: destPath, Skipped: true}
	}
	if err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: err}
	}

	written, streamErr := streamEntryPayload(ctx, r.src, entry, sink)

	if closer, ok := sink.(io.Closer); ok {
		if closeErr := closer.Close(); streamErr == nil {
			streamErr = closeErr
		}
	}

	if streamErr != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Written: written, Err: streamErr}
	}

	if ps, ok := sink.(pathSink); ok {
		applyEntryMetadata(ps.Path(), entry)
	}

	return ExtractResult{Entry: entry, DestPath: destPath, Written: written}
}

// extractSymlink reads the entry's payload as a link target (the
// Info-ZIP Unix convention storing the target path as the entry's
// decompressed content) and creates a symlink at destPath. The target is
// validated through safeJoin as well, so a symlink cannot be used to
// escape the destination tree even though the link itself is created
// literally rather than resolved.
func (r *Reader) extractSymlink(ctx context.Context, entry IndexEntry, destPath string, opts ExtractOptions) ExtractResult {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("create parent of %s: %w", destPath, err)}
	}

	var targetBuf bytes.Buffer
	written, err := streamEntryPayload(ctx, r.src, entry, &targetBuf)
	if err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: err}
	}

	target := targetBuf.String()
	if strings.HasPrefix(NormalizePath(target), "/") {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("%w: symlink target %q", ErrUnsafePath, target)}
	}
	if _, err := safeJoin(opts.DestinationDir, filepath.Join(filepath.Dir(entry.FileName), target), opts.JunkPaths); err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("%w: symlink target %q", ErrUnsafePath, target)}
	}

	_ = os.Remove(destPath)
	if err := os.Symlink(target, destPath); err != nil {
		return ExtractResult{Entry: entry, DestPath: destPath, Err: fmt.Errorf("create symlink %s: %w", destPath, err)}
	}

	return ExtractResult{Entry: entry, DestPath: destPath, Written: written}
}

// applyEntryMetadata best-effort applies the Unix permission bits and
// modification time recorded on entry to the file at path. Failures are
// not fatal: the payload itself already landed correctly.
func applyEntryMetadata(path string, entry IndexEntry) {
	if mode := entry.UnixMode(); mode != 0 {
		_ = os.Chmod(path, os.FileMode(mode&0o777)) //nolint:gosec // narrowed to permission bits only
	}

	if mt := entry.ModTime(); !mt.IsZero() {
		_ = os.Chtimes(path, mt, mt)
	}
}

// defaultFilesystemSinkFactory opens entry's destination file according
// to opts.Overwrite, the built-in Sink used whenever ExtractOptions does
// not supply one.
func defaultFilesystemSinkFactory(entry IndexEntry, opts ExtractOptions) (Sink, error) {
	destPath, err := safeJoin(opts.DestinationDir, entry.FileName, opts.JunkPaths)
	if err != nil {
		return nil, err
	}

	switch opts.Overwrite {
	case OverwriteNever:
		f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return nil, ErrSkipEntry
			}
			return nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		return &fileSink{f: f, path: destPath}, nil

	case OverwritePrompt:
		if _, statErr := os.Lstat(destPath); statErr == nil {
			if opts.Prompt == nil || !opts.Prompt(entry, destPath) {
				return nil, ErrSkipEntry
			}
		}

		f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		return &fileSink{f: f, path: destPath}, nil

	default: // OverwriteAlways
		f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", destPath, err)
		}

		return &fileSink{f: f, path: destPath}, nil
	}
}
