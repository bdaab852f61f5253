package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a sliding-window attempt counter keyed by a client identifier.
// State lives in process memory only: it resets on restart and is not shared
// across instances. Deployments running more than one replica need to back
// this with a shared store for the limit to hold globally.
type Limiter struct {
	mu          sync.Mutex
	maxAttempts int
	window      time.Duration
	entries     map[string]*entry
	now         func() time.Time
}

type entry struct {
	count       int
	lastAttempt time.Time
}

// New creates a limiter allowing maxAttempts per window for each key
func New(maxAttempts int, window time.Duration) *Limiter {
	return &Limiter{
		maxAttempts: maxAttempts,
		window:      window,
		entries:     make(map[string]*entry),
		now:         time.Now,
	}
}

// IsAllowed records an attempt for key and reports whether it is within the
// budget. The window restarts once it has fully elapsed since the last
// recorded attempt.
func (l *Limiter) IsAllowed(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.lastAttempt) >= l.window {
		l.entries[key] = &entry{count: 1, lastAttempt: now}
		return true
	}

	e.count++
	e.lastAttempt = now
	return e.count <= l.maxAttempts
}

// RemainingLockTime returns how long key stays locked out, or zero when the
// key is not currently over the limit
func (l *Limiter) RemainingLockTime(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || e.count <= l.maxAttempts {
		return 0
	}

	remaining := l.window - l.now().Sub(e.lastAttempt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Reset clears the counter for key. Used after a successful authentication
// so earlier failed attempts stop counting against the user.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}
