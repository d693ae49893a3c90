package yuque

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// MaxBackoff caps how long a Retry-After response can pause requests.
const MaxBackoff = 2 * time.Minute

// RateLimiter throttles requests to the upstream service.
// It combines a proactive token bucket with backoff learned from
// 429/503 responses. It only delays the next request; it never retries.
type RateLimiter struct {
	mu           sync.Mutex
	blockedUntil time.Time     // From Retry-After
	bucket       *rate.Limiter // Proactive throttling
	now          func() time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second.
func NewRateLimiter(rps float64) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(rps), 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	// 1. Check token bucket (proactive throttling)
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	// 2. Honour server-requested backoff (reactive)
	r.mu.Lock()
	blockedUntil := r.blockedUntil
	now := r.now()
	r.mu.Unlock()

	if !now.Before(blockedUntil) {
		return nil
	}

	timer := time.NewTimer(blockedUntil.Sub(now))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// UpdateFromResponse records backoff requested by a throttling response.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusServiceUnavailable {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	wait := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), now)
	if wait <= 0 {
		wait = time.Second
	}
	if wait > MaxBackoff {
		wait = MaxBackoff
	}
	if until := now.Add(wait); until.After(r.blockedUntil) {
		r.blockedUntil = until
	}
}

// BlockedUntil returns the time before which requests are held back.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockedUntil
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(v); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return at.Sub(now)
	}
	return 0
}
