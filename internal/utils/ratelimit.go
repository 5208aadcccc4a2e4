package utils

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outbound requests against a single target so concurrent
// tool workers don't collectively trip a WAF or upstream rate limit — the
// bounded-concurrency rationale spec.md §5 calls out. Built on
// golang.org/x/time/rate rather than a hand-rolled ticker/channel pair.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter builds a limiter allowing perSecond requests/sec, with a
// burst of the same size.
func NewRateLimiter(perSecond int) *RateLimiter {
	if perSecond < 1 {
		perSecond = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(perSecond), perSecond)}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}

// WaitBlocking is a context-free convenience for call sites that cannot be
// cancelled (matches the teacher's original blocking Wait signature).
func (rl *RateLimiter) WaitBlocking() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = rl.limiter.Wait(ctx)
}
