package gsc

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultPace is the minimum spacing between consecutive API calls.
// The Search Analytics endpoint tolerates short bursts, but sustained
// faster polling trips per-site quotas quickly.
const DefaultPace = time.Second

// Pacer spaces outbound API calls so that consecutive requests start at
// least one interval apart. A Service owns exactly one Pacer; concurrent
// queries through the same Service share it.
type Pacer struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewPacer creates a Pacer with the given spacing. Non-positive intervals
// fall back to DefaultPace.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = DefaultPace
	}

	return &Pacer{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next call slot opens or ctx is done.
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Interval reports the configured spacing.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}
