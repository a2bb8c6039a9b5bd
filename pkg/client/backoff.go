package client

import (
	"math/rand/v2"
	"time"
)

// Backoff turns a RetryPolicy into concrete waits between attempts.
//
// The wait doubles from BaseDelay on every retry and saturates at MaxDelay.
// Jitter spreads each wait uniformly by ±Jitter of its value, so that clients
// throttled together do not come back together. A server Retry-After hint
// longer than the computed wait takes precedence and is not jittered.
type Backoff struct {
	policy RetryPolicy
}

// NewBackoff normalizes policy: non-positive delays fall back to
// DefaultRetryPolicy and Jitter is clamped to [0, 1].
func NewBackoff(policy RetryPolicy) Backoff {
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	if policy.MaxDelay < policy.BaseDelay {
		policy.MaxDelay = policy.BaseDelay
	}
	policy.Jitter = min(max(policy.Jitter, 0), 1)
	return Backoff{policy: policy}
}

// Delay returns the wait before retry number retry (0 for the first retry).
// retryAfter is the server's hint, or zero.
func (b Backoff) Delay(retry int, retryAfter time.Duration) time.Duration {
	delay := b.policy.BaseDelay
	for i := 0; i < retry && delay < b.policy.MaxDelay; i++ {
		delay *= 2
	}
	delay = min(delay, b.policy.MaxDelay)

	if b.policy.Jitter > 0 {
		spread := (rand.Float64()*2 - 1) * b.policy.Jitter
		delay += time.Duration(float64(delay) * spread)
	}

	return max(delay, retryAfter)
}
