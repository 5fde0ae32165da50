// Package ratelimit paces outbound calls to external providers.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the next call is allowed or the context is done.
type Limiter interface {
	Wait(ctx context.Context) error
}

// PacedLimiter enforces a fixed minimum interval between calls with a
// burst of one, so a batch of N tickers takes at least (N-1) intervals.
type PacedLimiter struct {
	limiter *rate.Limiter
}

// NewPaced creates a limiter that allows one call per interval.
// A non-positive interval yields an unlimited limiter.
func NewPaced(interval time.Duration) *PacedLimiter {
	if interval <= 0 {
		return &PacedLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &PacedLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the limiter allows the next call.
func (p *PacedLimiter) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Nop is a limiter that never blocks. Used in tests.
type Nop struct{}

// Wait returns immediately.
func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}
