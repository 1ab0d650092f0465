package throttle

import (
	"context"
	"time"
)

// Pacer spaces out successful sends to avoid provider-side throttling.
// This is rate shaping, not a correctness requirement, so implementations
// may be as simple as a fixed sleep.
type Pacer interface {
	// Pace blocks until the next send may proceed or ctx is done.
	Pace(ctx context.Context) error
}

// FixedPacer waits a fixed interval between sends.
type FixedPacer struct {
	Interval time.Duration
}

// NewFixedPacer returns a pacer with the given interval; zero or negative
// intervals disable pacing.
func NewFixedPacer(interval time.Duration) *FixedPacer {
	return &FixedPacer{Interval: interval}
}

// Pace waits for the interval, returning early with the context's error if
// the invocation is cancelled mid-wait.
func (p *FixedPacer) Pace(ctx context.Context) error {
	if p.Interval <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Interval)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NopPacer performs no pacing. Used in tests.
type NopPacer struct{}

// Pace returns immediately.
func (NopPacer) Pace(context.Context) error { return nil }
