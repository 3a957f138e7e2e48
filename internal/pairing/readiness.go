package pairing

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

// Readiness decides whether a file has finished being written.
type Readiness interface {
	// Wait blocks until path is ready and returns its size, or fails with
	// ErrNotReady once its attempts are used up.
	Wait(ctx context.Context, path string) (int64, error)
}

// Default polling parameters.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultAttempts = 10
)

// SizePoller treats a file as ready once its size is non-zero and unchanged
// across one polling interval.
type SizePoller struct {
	Interval time.Duration
	Attempts int
	Log      *log.Logger
}

// NewSizePoller returns a poller, substituting defaults for non-positive
// values.
func NewSizePoller(interval time.Duration, attempts int, logger *log.Logger) *SizePoller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	return &SizePoller{Interval: interval, Attempts: attempts, Log: logger}
}

// Wait implements Readiness.
func (s *SizePoller) Wait(ctx context.Context, path string) (int64, error) {
	prev := int64(-1)
	for attempt := 1; attempt <= s.Attempts; attempt++ {
		info, err := os.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrNotReady, path, err)
		}
		if info.IsDir() {
			return 0, fmt.Errorf("%w: %s is a directory", ErrRejected, path)
		}

		size := info.Size()
		if size > 0 && size == prev {
			return size, nil
		}
		if s.Log != nil {
			s.Log.Debug("waiting for file to settle", "path", path, "size", humanize.Bytes(uint64(size)), "attempt", attempt)
		}
		prev = size

		t := time.NewTimer(s.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return 0, ctx.Err()
		case <-t.C:
		}
	}
	return 0, fmt.Errorf("%w: %s still changing after %d checks", ErrNotReady, path, s.Attempts)
}
