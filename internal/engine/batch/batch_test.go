package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surge-downloader/fastdl/internal/engine/types"
)

// fakeDownloader lets batch tests drive outcomes and measure
// concurrency without a real Transfer Core or HTTP server.
type fakeDownloader struct {
	inFlight    atomic.Int64
	maxInFlight atomic.Int64
	hold        time.Duration
	fail        map[string]string // url -> error message; absent means success
}

func (f *fakeDownloader) Download(ctx context.Context, rawURL, outputDir string) types.Result {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	if f.hold > 0 {
		select {
		case <-time.After(f.hold):
		case <-ctx.Done():
			return types.Result{URL: rawURL, Success: false, Error: ctx.Err().Error()}
		}
	}

	if msg, bad := f.fail[rawURL]; bad {
		return types.Result{URL: rawURL, Success: false, Error: msg}
	}
	return types.Result{URL: rawURL, Success: true, Filename: "ok.bin", BytesWritten: 1024}
}

// S6: a batch of URLs with mixed outcomes returns one Result per URL,
// preserving input order and capturing both successes and failures.
func TestRun_MixedOutcomesPreserveOrder(t *testing.T) {
	urls := []string{"https://x/a", "https://x/b", "https://x/c"}
	dl := &fakeDownloader{fail: map[string]string{"https://x/b": "boom"}}
	sched := NewScheduler(dl, types.Config{MaxConcurrent: 3}, t.TempDir())

	results := sched.Run(t.Context(), urls)

	require.Len(t, results, 3)
	assert.Equal(t, "https://x/a", results[0].URL)
	assert.True(t, results[0].Success)
	assert.Equal(t, "https://x/b", results[1].URL)
	assert.False(t, results[1].Success)
	assert.Equal(t, "boom", results[1].Error)
	assert.Equal(t, "https://x/c", results[2].URL)
	assert.True(t, results[2].Success)
}

// max_concurrent must actually bound the number of simultaneous
// downloads, not just the eventual outcome.
func TestRun_MaxConcurrentGatesParallelism(t *testing.T) {
	urls := make([]string, 8)
	for i := range urls {
		urls[i] = "https://x/" + string(rune('a'+i))
	}
	dl := &fakeDownloader{hold: 50 * time.Millisecond}
	sched := NewScheduler(dl, types.Config{MaxConcurrent: 2}, t.TempDir())

	results := sched.Run(t.Context(), urls)

	require.Len(t, results, 8)
	for _, r := range results {
		assert.True(t, r.Success)
	}
	assert.LessOrEqual(t, dl.maxInFlight.Load(), int64(2))
}

func TestRun_EmptyURLList(t *testing.T) {
	dl := &fakeDownloader{}
	sched := NewScheduler(dl, types.Config{MaxConcurrent: 3}, t.TempDir())
	results := sched.Run(t.Context(), nil)
	assert.Empty(t, results)
}

// A task whose batch-semaphore acquire itself fails never reaches the
// Transfer Core, so it never learns the real filename — spec.md §4.5
// says the synthetic Result carries "unknown" for both fields.
func TestRun_SemaphoreAcquireFailureYieldsUnknownResult(t *testing.T) {
	dl := &fakeDownloader{}
	sched := NewScheduler(dl, types.Config{MaxConcurrent: 1}, t.TempDir())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results := sched.Run(ctx, []string{"https://x/a"})

	require.Len(t, results, 1)
	assert.Equal(t, "unknown", results[0].URL)
	assert.Equal(t, "unknown", results[0].Filename)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "https://x/a")
}
