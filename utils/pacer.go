package utils

import (
	"context"
	"time"
)

// Pacer enforces a fixed delay between consecutive operations. The
// scrape loop uses it to keep a steady gap between institutions
// regardless of how each one turned out.
type Pacer struct {
	interval time.Duration
}

// NewPacer creates a Pacer with the given delay.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Interval returns the configured delay.
func (p *Pacer) Interval() time.Duration {
	return p.interval
}

// Wait blocks for the configured delay, or returns early with ctx.Err()
// on cancellation.
func (p *Pacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(p.interval):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
