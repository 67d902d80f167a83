package llm

import (
	"context"
	"sync"
	"time"

	"github.com/legalguard/piiguard/core"
)

// RateLimiter implements windowed rate limiting for model adapter calls.
type RateLimiter struct {
	counters     map[string]*rateLimitEntry
	mu           sync.Mutex
	maxRequests  int
	windowPeriod time.Duration
}

type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter with the specified configuration
func NewRateLimiter(maxRequests int, windowPeriod time.Duration) *RateLimiter {
	return &RateLimiter{
		counters:     make(map[string]*rateLimitEntry),
		maxRequests:  maxRequests,
		windowPeriod: windowPeriod,
	}
}

// CheckLimit checks if the rate limit for the given key has been exceeded.
// It returns whether the limit is exceeded, the current count, and the time
// the window resets.
func (r *RateLimiter) CheckLimit(key string) (bool, int, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.counters[key]

	if !ok || now.Sub(entry.windowStart) > r.windowPeriod {
		r.counters[key] = &rateLimitEntry{
			count:       1,
			windowStart: now,
		}
		return false, 1, now.Add(r.windowPeriod)
	}

	entry.count++

	if entry.count > r.maxRequests {
		return true, entry.count, entry.windowStart.Add(r.windowPeriod)
	}

	return false, entry.count, entry.windowStart.Add(r.windowPeriod)
}

// SerialRecognizer wraps a recognizer that is not safe for concurrent use
// (e.g. a single-threaded model runtime) behind a mutex. Serialization is a
// property of the adapter, not of the engine.
type SerialRecognizer struct {
	mu    sync.Mutex
	inner core.Recognizer
}

// Serialize wraps recognizer so that at most one Recognize call runs at a time.
func Serialize(recognizer core.Recognizer) *SerialRecognizer {
	return &SerialRecognizer{inner: recognizer}
}

// Recognize delegates to the wrapped recognizer, one caller at a time.
func (s *SerialRecognizer) Recognize(ctx context.Context, text string) ([]core.Span, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Recognize(ctx, text)
}
