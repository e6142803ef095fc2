// Package keyer accumulates Morse symbols from timed input and drives the
// auto-advance and auto-submit timers.
package keyer

import (
	"strings"
	"time"

	"github.com/verte-zerg/tuimorse/internal/morse"
	"github.com/verte-zerg/tuimorse/internal/sched"
)

// Timer tokens owned by Session.
const (
	TokenAdvance sched.Token = "keyer.advance"
	TokenSubmit  sched.Token = "keyer.submit"
)

const (
	// DashThreshold is the shortest hold that keys a dash.
	DashThreshold = 200 * time.Millisecond
	// DefaultAdvanceDelay is the default inactivity delay before a letter gap.
	DefaultAdvanceDelay = time.Second
	// MinAdvanceDelay and MaxAdvanceDelay bound the recommended delay range.
	MinAdvanceDelay = 500 * time.Millisecond
	MaxAdvanceDelay = 3000 * time.Millisecond
	// submitFactor scales the advance delay into the auto-submit delay.
	submitFactor = 2
)

// Symbol is a dot or a dash.
type Symbol byte

const (
	Dot  Symbol = morse.Dot
	Dash Symbol = morse.Dash
)

// Config holds the runtime-adjustable timing settings.
type Config struct {
	AutoAdvance  bool
	AdvanceDelay time.Duration
	AutoSubmit   bool
}

// DefaultConfig returns auto-advance and auto-submit enabled with a 1s delay.
func DefaultConfig() Config {
	return Config{AutoAdvance: true, AdvanceDelay: DefaultAdvanceDelay, AutoSubmit: true}
}

// SubmitDelay is the auto-submit delay, twice the advance delay.
func (c Config) SubmitDelay() time.Duration {
	return c.advanceDelay() * submitFactor
}

func (c Config) advanceDelay() time.Duration {
	if c.AdvanceDelay <= 0 {
		return DefaultAdvanceDelay
	}
	return c.AdvanceDelay
}

// Session is one input accumulation state machine. It is not safe for
// concurrent use; the host serializes input events and timer callbacks.
type Session struct {
	sched    sched.Scheduler
	cfg      Config
	seq      []byte
	target   string
	onSubmit func(text string)

	pressed   bool
	pressedAt time.Time
}

// New returns an idle session. onSubmit receives the decoded text of every
// submission.
func New(s sched.Scheduler, cfg Config, onSubmit func(text string)) *Session {
	return &Session{sched: s, cfg: cfg, onSubmit: onSubmit}
}

// Sequence returns the accumulated symbol sequence.
func (s *Session) Sequence() string {
	return string(s.seq)
}

// Decoded returns the current sequence decoded to text.
func (s *Session) Decoded() string {
	return morse.Decode(string(s.seq))
}

// Config returns the active timing settings.
func (s *Session) Config() Config {
	return s.cfg
}

// Target returns the word the session is matched against.
func (s *Session) Target() string {
	return s.target
}

// Pressed reports whether a hold-to-key press is active.
func (s *Session) Pressed() bool {
	return s.pressed
}

// SetConfig applies new timing settings. Disabling a feature cancels its
// pending timer.
func (s *Session) SetConfig(cfg Config) {
	s.cfg = cfg
	if !cfg.AutoAdvance {
		s.sched.Cancel(TokenAdvance)
	}
	if !cfg.AutoSubmit {
		s.sched.Cancel(TokenSubmit)
	}
}

// SetTarget replaces the target word and unconditionally resets the session.
func (s *Session) SetTarget(word string) {
	s.target = word
	s.Reset()
}

// AppendSymbol appends a dot or dash and restarts the auto-advance timer.
func (s *Session) AppendSymbol(sym Symbol) {
	s.seq = append(s.seq, byte(sym))
	s.restartAdvance()
	s.checkMatch()
}

// AppendLetterGap appends a separator unless the sequence is empty or already
// ends in one. The auto-advance timer restarts and auto-submit is armed
// either way.
func (s *Session) AppendLetterGap() {
	appended := s.appendGap()
	s.restartAdvance()
	s.armSubmit()
	if appended {
		s.checkMatch()
	}
}

// Backspace removes the last symbol or separator.
func (s *Session) Backspace() {
	if len(s.seq) == 0 {
		return
	}
	s.seq = s.seq[:len(s.seq)-1]
	s.restartAdvance()
	s.checkMatch()
}

// Reset clears the sequence, cancels both timers and drops any press.
func (s *Session) Reset() {
	s.seq = s.seq[:0]
	s.pressed = false
	s.pressedAt = time.Time{}
	s.sched.Cancel(TokenAdvance)
	s.sched.Cancel(TokenSubmit)
}

// Submit decodes the sequence and reports it regardless of timer state.
func (s *Session) Submit() {
	text := s.Decoded()
	if s.onSubmit != nil {
		s.onSubmit(text)
	}
}

// Press starts a hold-to-key press. A press while already pressed is ignored.
func (s *Session) Press(at time.Time) bool {
	if s.pressed {
		return false
	}
	s.pressed = true
	s.pressedAt = at
	return true
}

// Release ends a press and appends a dot or dash by hold duration.
func (s *Session) Release(at time.Time) (Symbol, bool) {
	if !s.pressed {
		return 0, false
	}
	elapsed := at.Sub(s.pressedAt)
	s.pressed = false
	s.pressedAt = time.Time{}
	sym := Dot
	if elapsed >= DashThreshold {
		sym = Dash
	}
	s.AppendSymbol(sym)
	return sym, true
}

// CancelPress drops an active press without keying a symbol.
func (s *Session) CancelPress() {
	s.pressed = false
	s.pressedAt = time.Time{}
}

// Fire handles an expired timer. Unknown tokens are ignored.
func (s *Session) Fire(token sched.Token) {
	switch token {
	case TokenAdvance:
		if !s.cfg.AutoAdvance {
			return
		}
		if s.appendGap() {
			s.armSubmit()
			s.checkMatch()
		}
	case TokenSubmit:
		if !s.cfg.AutoSubmit {
			return
		}
		if s.Decoded() != "" {
			s.Submit()
		}
	}
}

func (s *Session) appendGap() bool {
	if len(s.seq) == 0 || s.seq[len(s.seq)-1] == morse.Gap {
		return false
	}
	s.seq = append(s.seq, morse.Gap)
	return true
}

func (s *Session) restartAdvance() {
	if !s.cfg.AutoAdvance {
		return
	}
	s.sched.Schedule(TokenAdvance, s.cfg.advanceDelay())
}

func (s *Session) armSubmit() {
	if !s.cfg.AutoSubmit {
		return
	}
	s.sched.Schedule(TokenSubmit, s.cfg.SubmitDelay())
}

func (s *Session) checkMatch() {
	if !s.cfg.AutoSubmit || len(s.seq) == 0 || s.target == "" {
		return
	}
	if strings.EqualFold(s.Decoded(), s.target) {
		s.Submit()
	}
}
