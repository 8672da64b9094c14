// Package stats holds the per-download counters shared by a download's
// chunk tasks. All fields use relaxed atomics: counters are monotonic,
// but reads may race with writes. Stats are observational only — they
// never feed a control-flow decision (spec.md §3, §9).
package stats

import (
	"sync/atomic"
	"time"
)

// Stats is created once per URL at download start and shared by every
// chunk task for that URL.
type Stats struct {
	TotalSize       atomic.Int64
	Downloaded      atomic.Int64
	ChunksTotal     atomic.Int64
	ChunksCompleted atomic.Int64
	startTime       time.Time
}

// New creates a Stats object with its start time fixed to now.
func New() *Stats {
	return &Stats{startTime: time.Now()}
}

// Elapsed returns the wall-clock time since this Stats was created.
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.startTime)
}

// SpeedMBps returns downloaded MiB per elapsed second, 0 if elapsed is 0.
func (s *Stats) SpeedMBps() float64 {
	elapsed := s.Elapsed().Seconds()
	if elapsed <= 0 {
		return 0
	}
	downloadedMiB := float64(s.Downloaded.Load()) / (1024 * 1024)
	return downloadedMiB / elapsed
}

// ETASeconds returns the estimated remaining time, clamped to 0 when
// speed is 0.
func (s *Stats) ETASeconds() float64 {
	speed := s.SpeedMBps()
	if speed <= 0 {
		return 0
	}
	total := s.TotalSize.Load()
	downloaded := s.Downloaded.Load()
	remaining := total - downloaded
	if remaining <= 0 {
		return 0
	}
	remainingMiB := float64(remaining) / (1024 * 1024)
	return remainingMiB / speed
}

// CompletionPercentage returns downloaded/total*100, 0 when total is 0.
func (s *Stats) CompletionPercentage() float64 {
	total := s.TotalSize.Load()
	if total <= 0 {
		return 0
	}
	return float64(s.Downloaded.Load()) / float64(total) * 100
}
