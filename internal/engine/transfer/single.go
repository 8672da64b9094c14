package transfer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/surge-downloader/fastdl/internal/engine/stats"
	"github.com/surge-downloader/fastdl/internal/engine/types"
)

// singleStreamDownload is the fallback strategy for servers that don't
// advertise Accept-Ranges, for small files, or when Connections is 1.
// It makes exactly one GET attempt for the whole body: spec.md §4.4.2
// rules out per-chunk retry for this path, so any transport error or
// non-2xx status is terminal for the URL.
func (e *Engine) singleStreamDownload(ctx context.Context, rawURL, outputPath string, st *stats.Stats) error {
	st.ChunksTotal.Store(1)
	if err := e.attemptSingleStream(ctx, rawURL, outputPath, st); err != nil {
		return err
	}
	st.ChunksCompleted.Store(1)
	return nil
}

func (e *Engine) attemptSingleStream(ctx context.Context, rawURL, outputPath string, st *stats.Stats) error {
	if err := e.connSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer e.connSem.Release(1)

	reqCtx, cancel := context.WithTimeout(ctx, time.Duration(e.cfg.TimeoutSeconds)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", types.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.ErrHTTPStatus{Code: resp.StatusCode}
	}

	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if _, err := e.copyChunk(f, resp.Body, st, rawURL); err != nil {
		return fmt.Errorf("writing body: %w", err)
	}
	return nil
}
