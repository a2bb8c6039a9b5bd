// Package ratelimiter provides token bucket rate limiting keyed by client.
package ratelimiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTTL is how long an unused client bucket is kept before it is
// evicted.
const DefaultIdleTTL = 5 * time.Minute

// Limiter rate-limits requests per key using one token bucket per key.
//
// Keys are opaque strings, typically the client IP. The empty key is valid
// and is how callers get a single global bucket.
//
// The token bucket algorithm works as follows:
//  1. Tokens are added to each bucket at a constant rate (requests per second)
//  2. Each request consumes one token from its key's bucket
//  3. If the bucket is empty, the request is rejected (Allow) or waits (Wait)
//  4. Burst capacity allows temporary spikes above the sustained rate
//
// Buckets idle for longer than the idle TTL are evicted lazily, so memory is
// bounded by the number of clients active within one TTL.
//
// Thread safety:
// All methods are safe for concurrent use.
type Limiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[string]*bucket
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter with the given sustained rate and burst per key.
//
// Parameters:
//   - requestsPerSecond: Maximum sustained rate per key. Zero or negative
//     disables limiting entirely.
//   - burst: Bucket capacity. Values below 1 are raised to 1 so that a
//     limited key can still make progress.
//
// Example:
//
//	// Allow 50 req/s sustained per client, bursts of 100
//	limiter := New(50, 100)
func New(requestsPerSecond float64, burst int) *Limiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}

	return &Limiter{
		limit:   limit,
		burst:   burst,
		buckets: make(map[string]*bucket),
		idleTTL: DefaultIdleTTL,
		now:     time.Now,
	}
}

// SetIdleTTL changes how long unused buckets are retained.
func (l *Limiter) SetIdleTTL(ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idleTTL = ttl
}

// Unlimited reports whether the limiter lets everything through.
func (l *Limiter) Unlimited() bool {
	return l.limit == rate.Inf
}

// Allow reports whether a request for key may proceed now, consuming a
// token if so. It never blocks.
func (l *Limiter) Allow(key string) bool {
	if l.Unlimited() {
		return true
	}
	return l.get(key).AllowN(l.now(), 1)
}

// Wait blocks until a token for key is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if l.Unlimited() {
		return ctx.Err()
	}
	return l.get(key).Wait(ctx)
}

// RetryAfter estimates how long key must wait for its next token. It does
// not consume a token.
func (l *Limiter) RetryAfter(key string) time.Duration {
	if l.Unlimited() {
		return 0
	}

	now := l.now()
	r := l.get(key).ReserveN(now, 1)
	if !r.OK() {
		return 0
	}
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return delay
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep evicts buckets idle for longer than the idle TTL and returns how
// many were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sweepLocked(l.now())
}

// get returns the bucket for key, creating it on first use. It also runs a
// sweep at most once per idle TTL.
func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweepLocked(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

func (l *Limiter) sweepLocked(now time.Time) int {
	l.lastSweep = now

	removed := 0
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}
