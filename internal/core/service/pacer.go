package service

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the pause after every visited item index.
const DefaultDelay = 250 * time.Millisecond

// Pacer decides how long to wait before the next unit of work.
type Pacer interface {
	// Wait blocks until the next unit may start or ctx is done.
	Wait(ctx context.Context) error
}

// FixedDelay waits a constant duration.
type FixedDelay struct {
	Delay time.Duration
}

// Wait implements Pacer.
func (p FixedDelay) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(p.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RateLimit paces work with a token bucket.
type RateLimit struct {
	limiter *rate.Limiter
}

// NewRateLimit allows rps units per second with the given burst.
func NewRateLimit(rps float64, burst int) *RateLimit {
	if burst < 1 {
		burst = 1
	}
	return &RateLimit{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait implements Pacer.
func (p *RateLimit) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// NoDelay never waits.
type NoDelay struct{}

// Wait implements Pacer.
func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}

// NewPacer returns a RateLimit pacer when rps > 0 and a FixedDelay
// otherwise.
func NewPacer(delay time.Duration, rps float64, burst int) Pacer {
	if rps > 0 {
		return NewRateLimit(rps, burst)
	}
	return FixedDelay{Delay: delay}
}
