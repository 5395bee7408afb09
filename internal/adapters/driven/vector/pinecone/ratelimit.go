package pinecone

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Default request budget. Pinecone serverless allows far more; this keeps
// bulk indexing from tripping per-project quotas.
const (
	DefaultRequestsPerSecond = 10.0
	DefaultBurst             = 5
	defaultBackoff           = 30 * time.Second
)

// RateLimiter throttles requests and honours a server-imposed pause after
// a 429 response. It never retries; the failed call still returns its error.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter creates a limiter with the given sustained rate and burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a request may be sent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// RecordThrottle delays the next request by retryAfter, or a default pause
// when the server did not say.
func (r *RateLimiter) RecordThrottle(retryAfter time.Duration) {
	if retryAfter <= 0 {
		retryAfter = defaultBackoff
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = time.Now().Add(retryAfter)
}
