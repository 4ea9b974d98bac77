// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"sync"
	"time"
)

// Default limiter settings
const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

// RateLimiter is a sliding-window limiter keyed by client.
// Each server owns its own limiter; there is no package-level state.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing limit attempts per window.
// Non-positive values fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records an attempt for key and reports whether it is within the limit.
// Rejected attempts are not recorded.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	kept := l.attempts[key][:0]
	for _, ts := range l.attempts[key] {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[key] = kept
		return false
	}

	l.attempts[key] = append(kept, now)
	return true
}

// IsBot reports whether a honeypot field was filled in.
// Humans never see the field, so any value means automation.
func IsBot(honeypot string) bool {
	return len(honeypot) > 0
}
