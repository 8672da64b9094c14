// Package batch implements the Batch Scheduler (spec.md §4.5): runs a
// list of URLs through the Transfer Core under a second semaphore that
// bounds whole-download concurrency independently of the Transfer
// Core's per-download connection semaphore.
package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/surge-downloader/fastdl/internal/engine/types"
	"github.com/surge-downloader/fastdl/internal/utils"
)

// Downloader is the subset of *transfer.Engine the scheduler depends
// on, kept as an interface so batch tests don't need a live HTTP
// server wired through the full Transfer Core.
type Downloader interface {
	Download(ctx context.Context, rawURL, outputDir string) types.Result
}

// Scheduler fans a URL list out across a bounded pool of concurrent
// whole-download slots.
type Scheduler struct {
	downloader Downloader
	batchSem   *semaphore.Weighted
	outputDir  string
	verbose    bool
}

// NewScheduler builds a Scheduler bounded by cfg.MaxConcurrent
// simultaneous downloads.
func NewScheduler(downloader Downloader, cfg types.Config, outputDir string) *Scheduler {
	return &Scheduler{
		downloader: downloader,
		batchSem:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		outputDir:  outputDir,
		verbose:    cfg.Verbose,
	}
}

// Run downloads every URL and returns one Result per URL, in the same
// order urls were given. A URL whose task-level setup fails before the
// Transfer Core can produce its own Result (e.g. the semaphore acquire
// itself is cancelled) is recorded as a synthetic failure rather than
// dropped (spec.md §4.5 edge cases).
func (s *Scheduler) Run(ctx context.Context, urls []string) []types.Result {
	results := make([]types.Result, len(urls))
	var wg sync.WaitGroup

	for i, rawURL := range urls {
		wg.Add(1)
		go func(i int, rawURL string) {
			defer wg.Done()
			if err := s.batchSem.Acquire(ctx, 1); err != nil {
				if s.verbose {
					utils.Debug("batch: semaphore acquire failed for %s: %v", rawURL, err)
				}
				results[i] = unknownFailure(rawURL, err)
				return
			}
			defer s.batchSem.Release(1)
			if s.verbose {
				utils.Debug("batch: starting %s", rawURL)
			}
			results[i] = s.downloader.Download(ctx, rawURL, s.outputDir)
		}(i, rawURL)
	}

	wg.Wait()
	return results
}

// unknownFailure synthesizes a Result for a URL that never reached the
// Transfer Core, so a batch's Result count always matches its input
// URL count. URL and Filename are both the literal "unknown" (spec.md
// §4.5), since the task never got far enough to hand either back.
func unknownFailure(rawURL string, err error) types.Result {
	return types.Result{
		URL:      "unknown",
		Filename: "unknown",
		Success:  false,
		Error:    fmt.Sprintf("task scheduling failed for %s: %v", rawURL, err),
	}
}
