// Package usage tracks per-user request counts. Accounting only — the
// pipeline itself stays stateless across requests.
package usage

import (
	"time"

	cache "github.com/patrickmn/go-cache"
)

// Limiter counts requests per user over a rolling day. A zero limit
// disables enforcement.
type Limiter struct {
	limit   int
	counter *cache.Cache
}

func NewLimiter(dailyLimit int) *Limiter {
	return &Limiter{
		limit:   dailyLimit,
		counter: cache.New(24*time.Hour, time.Hour),
	}
}

// Allow records one request for userID and reports whether it is within the
// daily limit. Anonymous requests (empty userID) are never limited.
func (l *Limiter) Allow(userID string) bool {
	if l.limit <= 0 || userID == "" {
		return true
	}

	// Add is atomic and a no-op when the key exists, so concurrent first
	// requests all land their increments on the same counter.
	_ = l.counter.Add(userID, 0, cache.DefaultExpiration)

	n, err := l.counter.IncrementInt(userID, 1)
	if err != nil {
		// Counter expired between Add and Increment.
		l.counter.Set(userID, 1, cache.DefaultExpiration)
		return l.limit >= 1
	}
	return n <= l.limit
}

// Count returns the current counter for userID.
func (l *Limiter) Count(userID string) int {
	if v, ok := l.counter.Get(userID); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}
