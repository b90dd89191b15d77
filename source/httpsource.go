// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// zapLeveledLogger adapts a *zap.Logger to retryablehttp.LeveledLogger so
// that retry attempts (range, attempt number, backoff delay, error) flow
// through the same structured logger as the rest of the package instead of
// retryablehttp's own unstructured default.
type zapLeveledLogger struct {
	log *zap.Logger
}

func (l zapLeveledLogger) fields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (l zapLeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, l.fields(keysAndValues)...)
}

func (l zapLeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Info(msg, l.fields(keysAndValues)...)
}

func (l zapLeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, l.fields(keysAndValues)...)
}

func (l zapLeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn(msg, l.fields(keysAndValues)...)
}

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	// Client is the retryable HTTP client used for HEAD/GET requests. A
	// default client is constructed when nil.
	Client *retryablehttp.Client
	// Logger receives retry and probe diagnostics. Defaults to a no-op
	// logger when nil. Retry diagnostics are routed to it only for the
	// client built when Client is nil.
	Logger *zap.Logger
	// MaxRetries bounds transient-failure retries. Zero uses the
	// recommended default of 3. Applied only to the client built when
	// Client is nil; a supplied Client keeps its own settings.
	MaxRetries int
	// RetryWaitMin/RetryWaitMax bound the exponential backoff between
	// retries. Zero values use the recommended 100ms/1.6s defaults. Like
	// MaxRetries, they apply only to the client built when Client is nil.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

func (o *HTTPOptions) applyDefaults() {
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.RetryWaitMin <= 0 {
		o.RetryWaitMin = 100 * time.Millisecond
	}
	if o.RetryWaitMax <= 0 {
		o.RetryWaitMax = 1600 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Client == nil {
		client := retryablehttp.NewClient()
		client.Logger = zapLeveledLogger{log: o.Logger}
		client.RetryMax = o.MaxRetries
		client.RetryWaitMin = o.RetryWaitMin
		client.RetryWaitMax = o.RetryWaitMax
		// 4xx is fatal; only network failures and 5xx are worth retrying.
		client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
			if err == nil && resp != nil && resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return false, nil
			}
			return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
		}
		o.Client = client
	}
}

// HTTPSource is a positioned byte source backed by an HTTP(S) resource
// that honors Range requests. Constructed from a HEAD probe; every
// subsequent ReadAt issues a ranged GET. Safe for concurrent use: the
// underlying client and its connection pool are shared across calls, none
// of which are serialized.
type HTTPSource struct {
	url    string
	size   int64
	client *retryablehttp.Client
	log    *zap.Logger
}

// OpenHTTP issues a HEAD request against url and fails construction with
// ErrRangesUnsupported unless the server reports a usable Content-Length
// and either advertises byte-range support via Accept-Ranges or answers a
// one-byte probe range read successfully. A non-2xx HEAD status fails
// with ErrHTTPStatus.
func OpenHTTP(ctx context.Context, url string, opts HTTPOptions) (*HTTPSource, error) {
	opts.applyDefaults()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build HEAD request: %w", err)
	}

	resp, err := opts.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HEAD %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HEAD %s returned %d", ErrHTTPStatus, url, resp.StatusCode)
	}

	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return nil, fmt.Errorf("%w: missing Content-Length", ErrRangesUnsupported)
	}

	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil || size < 0 {
		return nil, fmt.Errorf("%w: invalid Content-Length %q", ErrRangesUnsupported, contentLength)
	}

	acceptsRanges := strings.Contains(strings.ToLower(resp.Header.Get("Accept-Ranges")), "bytes")
	s := &HTTPSource{url: url, size: size, client: opts.Client, log: opts.Logger}

	if !acceptsRanges {
		// Some servers omit Accept-Ranges but still honor Range on GET;
		// probe with a minimal range read before giving up.
		if size == 0 {
			return nil, fmt.Errorf("%w: no Accept-Ranges header and empty body", ErrRangesUnsupported)
		}

		if _, probeErr := s.ReadAt(ctx, 0, 1); probeErr != nil {
			return nil, fmt.Errorf("%w: probe read failed: %w", ErrRangesUnsupported, probeErr)
		}
	}

	s.log.Debug("opened HTTP byte source", zap.String("url", url), zap.Int64("size", size))
	return s, nil
}

// Len reports the size discovered by the HEAD probe.
func (s *HTTPSource) Len() int64 {
	return s.size
}

// ReadAt issues Range: bytes=off-(off+n-1) and requires a 206 response
// with a matching Content-Range and a body of exactly n bytes. Transient
// failures (connection reset, timeout, 5xx) are retried by the underlying
// retryablehttp client with exponential backoff; 4xx and Content-Range
// mismatches are fatal.
func (s *HTTPSource) ReadAt(ctx context.Context, off int64, n int64) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	last := off + n - 1
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build range request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", off, last))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s [%d-%d]: %w", s.url, off, last, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// expected
	case http.StatusOK:
		return nil, fmt.Errorf("%w: server returned 200 instead of 206", ErrRangesUnsupported)
	default:
		return nil, fmt.Errorf("%w: GET returned %d", ErrHTTPStatus, resp.StatusCode)
	}

	cr := resp.Header.Get("Content-Range")
	want := fmt.Sprintf("bytes %d-%d/", off, last)
	if !strings.HasPrefix(cr, want) {
		return nil, fmt.Errorf("%w: got %q, want prefix %q", ErrContentRangeMismatch, cr, want)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, n+1))
	if err != nil {
		return nil, fmt.Errorf("read range body: %w", err)
	}

	if int64(len(body)) != n {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrTruncated, len(body), n)
	}

	return body, nil
}

// Close closes the idle connections of the client's underlying
// http.Client. It does so whether the client was built by OpenHTTP or
// supplied via HTTPOptions.Client; a supplied client remains usable
// afterwards, but its idle connections are gone.
func (s *HTTPSource) Close() error {
	s.client.HTTPClient.CloseIdleConnections()
	return nil
}
