package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// withClock pins the limiter to a controllable clock
func withClock(l *Limiter) *time.Time {
	current := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return &current
}

func TestIsAllowedWithinBudget(t *testing.T) {
	l := New(3, 10*time.Minute)
	withClock(l)

	for i := 0; i < 3; i++ {
		assert.True(t, l.IsAllowed("k"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, l.IsAllowed("k"), "4th attempt within the window should be denied")
}

func TestWindowElapseResets(t *testing.T) {
	l := New(3, 10*time.Minute)
	clock := withClock(l)

	for i := 0; i < 4; i++ {
		l.IsAllowed("k")
	}
	assert.False(t, l.IsAllowed("k"))

	*clock = clock.Add(10 * time.Minute)
	assert.True(t, l.IsAllowed("k"), "attempt after the window elapsed should reset and allow")
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	withClock(l)

	assert.True(t, l.IsAllowed("a"))
	assert.False(t, l.IsAllowed("a"))
	assert.True(t, l.IsAllowed("b"))
}

func TestRemainingLockTime(t *testing.T) {
	l := New(2, 5*time.Minute)
	clock := withClock(l)

	assert.Zero(t, l.RemainingLockTime("k"), "unknown key has no lockout")

	l.IsAllowed("k")
	l.IsAllowed("k")
	assert.Zero(t, l.RemainingLockTime("k"), "key within budget has no lockout")

	l.IsAllowed("k")
	assert.Equal(t, 5*time.Minute, l.RemainingLockTime("k"))

	*clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 3*time.Minute, l.RemainingLockTime("k"))

	*clock = clock.Add(3 * time.Minute)
	assert.Zero(t, l.RemainingLockTime("k"))
}

func TestReset(t *testing.T) {
	l := New(1, time.Minute)
	withClock(l)

	l.IsAllowed("k")
	assert.False(t, l.IsAllowed("k"))
	l.Reset("k")
	assert.True(t, l.IsAllowed("k"))
}
