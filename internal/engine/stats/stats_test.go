package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroElapsedYieldsZeroSpeed(t *testing.T) {
	s := New()
	s.startTime = time.Now().Add(1 * time.Hour) // force Elapsed() <= 0
	s.TotalSize.Store(1024)
	s.Downloaded.Store(512)
	assert.Equal(t, 0.0, s.SpeedMBps(), "speed must be 0 when elapsed time is non-positive")
}

func TestETAClampsToZeroWhenSpeedIsZero(t *testing.T) {
	s := New()
	s.TotalSize.Store(1024)
	assert.Equal(t, 0.0, s.ETASeconds())
}

func TestCompletionPercentage(t *testing.T) {
	s := New()
	assert.Equal(t, 0.0, s.CompletionPercentage(), "zero total yields zero percent")

	s.TotalSize.Store(200)
	s.Downloaded.Store(50)
	assert.InDelta(t, 25.0, s.CompletionPercentage(), 0.001)
}

func TestSpeedAndETAAfterElapsed(t *testing.T) {
	s := New()
	s.startTime = time.Now().Add(-1 * time.Second)
	s.TotalSize.Store(10 * 1024 * 1024)
	s.Downloaded.Store(1 * 1024 * 1024)

	speed := s.SpeedMBps()
	assert.InDelta(t, 1.0, speed, 0.2)

	eta := s.ETASeconds()
	assert.Greater(t, eta, 0.0)
}
