package fabric

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// ProactiveRate throttles outgoing requests so bulk provisioning
	// stays under the platform's per-minute limits.
	ProactiveRate = 4.0

	// HeaderRetryAfter is the back-off header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter combines proactive token-bucket throttling with reactive
// handling of Retry-After responses.
type RateLimiter struct {
	mu      sync.Mutex
	retryAt time.Time
	bucket  *rate.Limiter
}

// NewRateLimiter creates a rate limiter with proactive throttling.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}
	return nil
}

// UpdateFromResponse records a Retry-After back-off when present.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	retryAfter := resp.Header.Get(HeaderRetryAfter)
	if retryAfter == "" {
		return
	}
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
	r.mu.Unlock()
}

// RetryAt returns when the current back-off window ends.
func (r *RateLimiter) RetryAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.retryAt
}
