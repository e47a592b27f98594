package transport

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff applies when a 429 response carries no Retry-After.
const DefaultBackoff = 30 * time.Second

// Limiter throttles requests to a pinning API.
// It uses a token bucket plus a backoff window set by 429 responses.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewLimiter allows requestsPerSecond sustained requests.
// A non-positive rate disables throttling.
func NewLimiter(requestsPerSecond float64) *Limiter {
	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(math.Max(1, math.Ceil(requestsPerSecond)))
	}
	return &Limiter{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a request may be sent.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return l.limiter.Wait(ctx)
}

// RecordRateLimit backs off after a 429. Zero uses DefaultBackoff.
func (l *Limiter) RecordRateLimit(retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if retryAfter <= 0 {
		retryAfter = DefaultBackoff
	}
	l.retryAt = time.Now().Add(retryAfter)
}

// RetryAt returns the end of the current backoff window, if any.
func (l *Limiter) RetryAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retryAt
}
