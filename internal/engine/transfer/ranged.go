package transfer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/surge-downloader/fastdl/internal/engine/planner"
	"github.com/surge-downloader/fastdl/internal/engine/stats"
	"github.com/surge-downloader/fastdl/internal/engine/types"
)

// progressFlushBytes is how many bytes a copy writes between
// ProgressEvent emissions. Stats are updated after every read.
const progressFlushBytes = 256 * 1024

// rangedDownload preallocates a sparse output file, plans chunks, and
// runs each chunk as an independent task against a shared connection
// semaphore. Every chunk exhausts its own retry budget; one chunk's
// permanent failure never cancels its siblings (spec.md §4.4, §5).
// A plain buffered error channel is used instead of errgroup.Group,
// whose first-error cancellation would defeat that independence.
func (e *Engine) rangedDownload(ctx context.Context, rawURL, outputPath string, fileSize int64, st *stats.Stats) error {
	f, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := f.Truncate(fileSize); err != nil {
		f.Close()
		return fmt.Errorf("preallocating output file: %w", err)
	}
	f.Close()

	chunks := planner.Plan(fileSize, true, e.cfg)
	st.ChunksTotal.Store(int64(len(chunks)))
	whole := whollyCovers(chunks)

	errCh := make(chan error, len(chunks))
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(c *types.Chunk) {
			defer wg.Done()
			errCh <- e.runChunk(ctx, rawURL, outputPath, c, whole, st)
		}(&chunks[i])
	}
	wg.Wait()
	close(errCh)

	var msgs []string
	for err := range errCh {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%d of %d chunks failed: %s", len(msgs), len(chunks), strings.Join(msgs, "; "))
	}
	return nil
}

// runChunk retries a single chunk task until it succeeds or its retry
// budget (config.retries attempts) is exhausted. The sleep-then-retry
// structure mirrors spec.md §4.3's while loop literally: a failed
// final attempt still sleeps before the loop condition ends it.
func (e *Engine) runChunk(ctx context.Context, rawURL, outputPath string, chunk *types.Chunk, whole bool, st *stats.Stats) error {
	var lastErr error
	for chunk.Retries < e.cfg.Retries {
		lastErr = e.attemptChunk(ctx, rawURL, outputPath, chunk, whole, st)
		if lastErr == nil {
			chunk.Completed = true
			st.ChunksCompleted.Add(1)
			return nil
		}
		chunk.Retries++
		e.debugf("chunk bytes=%d-%d failed (attempt %d/%d): %v", chunk.Start, chunk.End, chunk.Retries, e.cfg.Retries, lastErr)
		delay := time.Duration(500*pow2(chunk.Retries))*time.Millisecond + time.Duration(rand.Intn(1000))*time.Millisecond
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &types.ErrChunkFailed{Start: chunk.Start, End: chunk.End, Attempts: e.cfg.Retries, Cause: lastErr}
}

// attemptChunk makes one GET attempt for a chunk's byte range, holding
// a connection-semaphore permit for the duration of the request and
// body read. It opens the output file independently of every other
// chunk task, per the file-ownership model in spec.md §4.4.
func (e *Engine) attemptChunk(ctx context.Context, rawURL, outputPath string, chunk *types.Chunk, whole bool, st *stats.Stats) error {
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
	if !whole {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", chunk.Start, chunk.End))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("chunk request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.ErrHTTPStatus{Code: resp.StatusCode}
	}

	f, err := os.OpenFile(outputPath, os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(chunk.Start, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to chunk offset: %w", err)
	}

	written, err := e.copyChunk(f, resp.Body, st, rawURL)
	if err != nil {
		return fmt.Errorf("writing chunk: %w", err)
	}
	if written != chunk.Size {
		return fmt.Errorf("chunk short write: wrote %d of %d bytes", written, chunk.Size)
	}
	return nil
}

// copyChunk streams resp.Body into f, tracking bytes in Stats and
// emitting progress roughly every progressFlushBytes.
func (e *Engine) copyChunk(f *os.File, body io.Reader, st *stats.Stats, rawURL string) (int64, error) {
	buf := make([]byte, 32*1024)
	var written int64
	var sinceFlush int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			sinceFlush += int64(n)
			st.Downloaded.Add(int64(n))
			if sinceFlush >= progressFlushBytes {
				sinceFlush = 0
				e.emitProgress(rawURL, st)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}
