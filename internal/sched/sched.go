// Package sched defines the delayed-callback abstraction used by the keyer
// and trainer, along with a virtual clock for tests.
package sched

import (
	"sort"
	"time"
)

// Token names a delayed callback. At most one callback per token is pending.
type Token string

// Scheduler arms and cancels named delayed callbacks. Scheduling a token that
// is already pending replaces it. The owner learns about expiry through its
// own Fire method, called by whoever drives the scheduler.
type Scheduler interface {
	Schedule(token Token, delay time.Duration)
	Cancel(token Token)
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Virtual is a manually advanced clock and scheduler.
type Virtual struct {
	now      time.Time
	pending  map[Token]time.Time
	handlers []func(Token)
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start, pending: map[Token]time.Time{}}
}

// OnFire registers a handler invoked for every expired token.
func (v *Virtual) OnFire(fn func(Token)) {
	v.handlers = append(v.handlers, fn)
}

// Now implements Clock.
func (v *Virtual) Now() time.Time {
	return v.now
}

// Schedule implements Scheduler.
func (v *Virtual) Schedule(token Token, delay time.Duration) {
	v.pending[token] = v.now.Add(delay)
}

// Cancel implements Scheduler.
func (v *Virtual) Cancel(token Token) {
	delete(v.pending, token)
}

// Pending reports whether token is armed.
func (v *Virtual) Pending(token Token) bool {
	_, ok := v.pending[token]
	return ok
}

// Advance moves the clock forward, firing due callbacks in deadline order.
// Callbacks may schedule further callbacks; those fire too if they fall
// inside the window.
func (v *Virtual) Advance(d time.Duration) {
	target := v.now.Add(d)
	for {
		token, at, ok := v.next()
		if !ok || at.After(target) {
			break
		}
		v.now = at
		delete(v.pending, token)
		for _, fn := range v.handlers {
			fn(token)
		}
	}
	v.now = target
}

func (v *Virtual) next() (Token, time.Time, bool) {
	if len(v.pending) == 0 {
		return "", time.Time{}, false
	}
	tokens := make([]Token, 0, len(v.pending))
	for token := range v.pending {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		ai, aj := v.pending[tokens[i]], v.pending[tokens[j]]
		if ai.Equal(aj) {
			return tokens[i] < tokens[j]
		}
		return ai.Before(aj)
	})
	return tokens[0], v.pending[tokens[0]], true
}
