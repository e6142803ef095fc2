package keyer

import (
	"time"

	"github.com/verte-zerg/tuimorse/internal/sched"
)

// TokenRelease is the timer token owned by RepeatHold.
const TokenRelease sched.Token = "keyer.release"

const (
	// DefaultHoldGrace covers the usual keyboard auto-repeat start delay.
	DefaultHoldGrace = 550 * time.Millisecond
	// DefaultRepeatGrace covers the gap between auto-repeat events.
	DefaultRepeatGrace = 150 * time.Millisecond
)

// RepeatHold turns a stream of key-down and auto-repeat events into press and
// release events for terminals that never report key release. A release is
// inferred when no repeat arrives within the grace window; it is stamped
// with the time of the last key event seen, so a tap keys a zero-length
// press and a hold keys roughly its real duration.
//
// A single follow-up event is ambiguous: it is either the first auto-repeat
// of a hold or a second tap. It only joins the press when another event
// follows within the repeat grace; otherwise it starts a new press. Taps
// closer together than the repeat grace still merge into one press.
type RepeatHold struct {
	sched       sched.Scheduler
	grace       time.Duration
	repeatGrace time.Duration
	emit        func(Event)

	holding   bool
	repeating bool
	lastSeen  time.Time

	followUp   bool
	followUpAt time.Time
}

// NewRepeatHold returns a detector that sends press/release events to emit.
func NewRepeatHold(s sched.Scheduler, grace time.Duration, emit func(Event)) *RepeatHold {
	if grace <= 0 {
		grace = DefaultHoldGrace
	}
	repeatGrace := DefaultRepeatGrace
	if repeatGrace > grace {
		repeatGrace = grace
	}
	return &RepeatHold{sched: s, grace: grace, repeatGrace: repeatGrace, emit: emit}
}

// Holding reports whether a press is in progress.
func (h *RepeatHold) Holding() bool {
	return h.holding
}

// Key records a key-down or auto-repeat event.
func (h *RepeatHold) Key(at time.Time) {
	if !h.holding {
		h.press(at)
		h.sched.Schedule(TokenRelease, h.grace)
		return
	}
	if h.followUp {
		if at.Sub(h.followUpAt) < h.repeatGrace {
			h.followUp = false
			h.repeating = true
			h.lastSeen = at
			h.sched.Schedule(TokenRelease, h.repeatGrace)
			return
		}
		h.splitTap()
	}
	if h.repeating {
		h.lastSeen = at
		h.sched.Schedule(TokenRelease, h.repeatGrace)
		return
	}
	h.followUp = true
	h.followUpAt = at
	h.sched.Schedule(TokenRelease, h.repeatGrace)
}

// Cancel abandons a press without emitting a release.
func (h *RepeatHold) Cancel() {
	h.holding = false
	h.repeating = false
	h.followUp = false
	h.sched.Cancel(TokenRelease)
}

// Fire handles an expired timer. Unknown tokens are ignored.
func (h *RepeatHold) Fire(token sched.Token) {
	if token != TokenRelease || !h.holding {
		return
	}
	if h.followUp {
		h.splitTap()
		h.sched.Schedule(TokenRelease, h.grace-h.repeatGrace)
		return
	}
	h.holding = false
	h.repeating = false
	h.emit(Event{Kind: KindRelease, At: h.lastSeen})
}

func (h *RepeatHold) press(at time.Time) {
	h.holding = true
	h.repeating = false
	h.followUp = false
	h.lastSeen = at
	h.emit(Event{Kind: KindPress, At: at})
}

// splitTap ends the current press at its last event and starts a new one at
// the pending follow-up event.
func (h *RepeatHold) splitTap() {
	at := h.followUpAt
	h.emit(Event{Kind: KindRelease, At: h.lastSeen})
	h.press(at)
}
