package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestGateAllow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	g := NewGate(time.Second, WithClock(clock.Now))

	assert.NoError(t, g.Allow())
	assert.ErrorIs(t, g.Allow(), ErrTooSoon)

	clock.Advance(999 * time.Millisecond)
	assert.ErrorIs(t, g.Allow(), ErrTooSoon)
	assert.Equal(t, time.Millisecond, g.RetryAfter())

	clock.Advance(time.Millisecond)
	assert.NoError(t, g.Allow())
	assert.Equal(t, time.Second, g.RetryAfter())
}

func TestGateRejectedCallsDoNotExtendWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	g := NewGate(time.Second, WithClock(clock.Now))

	assert.NoError(t, g.Allow())
	for i := 0; i < 5; i++ {
		clock.Advance(150 * time.Millisecond)
		assert.Error(t, g.Allow())
	}
	clock.Advance(250 * time.Millisecond)
	assert.NoError(t, g.Allow())
}

func TestGateInstancesAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	a := NewGate(time.Second, WithClock(clock.Now))
	b := NewGate(time.Second, WithClock(clock.Now))

	assert.NoError(t, a.Allow())
	assert.NoError(t, b.Allow())
	assert.Zero(t, NewGate(time.Second).RetryAfter())
}
