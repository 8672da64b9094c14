// Package probe implements the capability probe (spec.md §4.2): a HEAD
// request, retried on transport failure, that reports a URL's size,
// derived filename, and whether the server honors byte ranges.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/surge-downloader/fastdl/internal/engine/filename"
	"github.com/surge-downloader/fastdl/internal/engine/types"
)

// maxAttempts is the fixed total number of HEAD attempts the probe
// makes (2 retries beyond the first), independent of the engine's
// per-chunk Retries setting (spec.md §4.2, resolved against
// original_source/'s get_file_info: 3 total attempts, 2 backoff
// sleeps).
const maxAttempts = 3

// Result carries everything the Transfer Core needs to plan a download.
type Result struct {
	FileSize      uint64
	Filename      string
	SupportsRange bool
}

// Probe issues a HEAD request against rawURL using client, applying
// timeout to each attempt. Transport failures are retried up to
// maxAttempts total attempts with exponential backoff (1000*2^attempt
// ms before each retry); a non-2xx status fails immediately with no
// retry.
func Probe(ctx context.Context, client *http.Client, rawURL string, timeout time.Duration) (*Result, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := time.Duration(1000*pow2(attempt)) * time.Millisecond
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		var req *http.Request
		req, err = http.NewRequestWithContext(reqCtx, http.MethodHead, rawURL, nil)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("building probe request: %w", err)
		}
		req.Header.Set("User-Agent", types.UserAgent)

		resp, err = client.Do(req)
		cancel()
		if err == nil {
			break
		}
	}

	if err != nil {
		return nil, fmt.Errorf("probe request failed after %d attempts: %w", maxAttempts, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.ErrHTTPStatus{Code: resp.StatusCode}
	}

	result := &Result{
		Filename:      filename.Derive(rawURL),
		SupportsRange: strings.EqualFold(strings.TrimSpace(resp.Header.Get("Accept-Ranges")), "bytes"),
	}

	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if size, parseErr := strconv.ParseUint(cl, 10, 64); parseErr == nil {
			result.FileSize = size
		}
	}

	return result, nil
}

func pow2(n int) int64 {
	return int64(1) << uint(n)
}
