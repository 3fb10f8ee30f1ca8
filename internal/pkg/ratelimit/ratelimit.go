package ratelimit

import (
	"errors"
	"sync"
	"time"
)

// ErrTooSoon is returned when a call arrives inside the minimum interval.
var ErrTooSoon = errors.New("please wait before retrying")

// Gate enforces a minimum interval between successive calls. It only keeps
// the last accepted timestamp, so a rejected call does not extend the wait.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func NewGate(interval time.Duration, opts ...Option) *Gate {
	g := &Gate{interval: interval, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allow records the call and returns nil, or ErrTooSoon when less than the
// interval has passed since the last accepted call.
func (g *Gate) Allow() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if !g.last.IsZero() && now.Sub(g.last) < g.interval {
		return ErrTooSoon
	}
	g.last = now
	return nil
}

// RetryAfter returns how long until the next call would be accepted.
func (g *Gate) RetryAfter() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.last.IsZero() {
		return 0
	}
	if wait := g.interval - g.now().Sub(g.last); wait > 0 {
		return wait
	}
	return 0
}
