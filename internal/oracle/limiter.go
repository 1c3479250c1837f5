package oracle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces sequential calls to external services.
type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a minimum spacing between calls. The first call
// passes immediately.
type IntervalLimiter struct {
	limiter *rate.Limiter
}

// NewIntervalLimiter returns a limiter allowing one call per interval.
// A non-positive interval disables waiting.
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &IntervalLimiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call may proceed or ctx is done.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("limiter wait: %w", err)
	}
	return nil
}

// NoLimit never waits.
type NoLimit struct{}

// Wait returns ctx.Err().
func (NoLimit) Wait(ctx context.Context) error {
	return ctx.Err()
}
