package keyer

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects which input channel keys symbols.
type Mode string

const (
	ModeKeyboardDual   Mode = "keyboard-dual"
	ModeKeyboardSingle Mode = "keyboard-single"
	ModeMouseDual      Mode = "mouse-dual"
	ModeMouseSingle    Mode = "mouse-single"
)

var modes = []Mode{ModeKeyboardDual, ModeKeyboardSingle, ModeMouseDual, ModeMouseSingle}

// Modes lists all input modes in display order.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// ParseMode parses a mode name, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	name := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range modes {
		if m == name {
			return m, nil
		}
	}
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return "", fmt.Errorf("unknown input mode %q (available: %s)", s, strings.Join(names, ", "))
}

// Next returns the following mode, wrapping around.
func (m Mode) Next() Mode {
	for i, candidate := range modes {
		if candidate == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return modes[0]
}

// Single reports whether the mode keys by hold duration.
func (m Mode) Single() bool {
	return m == ModeKeyboardSingle || m == ModeMouseSingle
}

// Keyboard reports whether the mode keys from the keyboard.
func (m Mode) Keyboard() bool {
	return m == ModeKeyboardDual || m == ModeKeyboardSingle
}

// Label is the human-readable mode name.
func (m Mode) Label() string {
	switch m {
	case ModeKeyboardDual:
		return "Keyboard - Two Keys"
	case ModeKeyboardSingle:
		return "Keyboard - One Key"
	case ModeMouseDual:
		return "Mouse - Both Buttons"
	case ModeMouseSingle:
		return "Mouse - Single Button"
	default:
		return string(m)
	}
}

// Hint describes how to key in the mode.
func (m Mode) Hint() string {
	switch m {
	case ModeKeyboardDual:
		return ". dot  - dash  space gap  enter submit"
	case ModeKeyboardSingle:
		return "tap space for dot, hold for dash (taps at least 150ms apart)"
	case ModeMouseDual:
		return "left click dot  right click dash"
	case ModeMouseSingle:
		return "hold any button: short dot, long dash"
	default:
		return ""
	}
}

// Kind is the type of a raw input event.
type Kind int

const (
	KindDot Kind = iota
	KindDash
	KindPress
	KindRelease
	KindGap
	KindBackspace
	KindSubmit
	KindClear
)

// Event is a raw input event from any channel.
type Event struct {
	Kind Kind
	At   time.Time
}

// Accepts reports whether the mode keys events of kind k. Editing events
// (gap, backspace, submit, clear) are accepted in every mode.
func (m Mode) Accepts(k Kind) bool {
	switch k {
	case KindDot, KindDash:
		return !m.Single()
	case KindPress, KindRelease:
		return m.Single()
	default:
		return true
	}
}

// Adapter routes raw events from the active mode into a Session.
type Adapter struct {
	mode    Mode
	session *Session
}

// NewAdapter binds a session to an input mode.
func NewAdapter(mode Mode, session *Session) *Adapter {
	return &Adapter{mode: mode, session: session}
}

// Mode returns the active mode.
func (a *Adapter) Mode() Mode {
	return a.mode
}

// SetMode switches the active mode, dropping any press in progress.
func (a *Adapter) SetMode(mode Mode) {
	if mode == a.mode {
		return
	}
	a.mode = mode
	a.session.CancelPress()
}

// Handle applies ev to the session. It reports false when the active mode
// ignores the event.
func (a *Adapter) Handle(ev Event) bool {
	if !a.mode.Accepts(ev.Kind) {
		return false
	}
	switch ev.Kind {
	case KindDot:
		a.session.AppendSymbol(Dot)
	case KindDash:
		a.session.AppendSymbol(Dash)
	case KindPress:
		return a.session.Press(ev.At)
	case KindRelease:
		_, ok := a.session.Release(ev.At)
		return ok
	case KindGap:
		a.session.AppendLetterGap()
	case KindBackspace:
		a.session.Backspace()
	case KindSubmit:
		a.session.Submit()
	case KindClear:
		a.session.Reset()
	default:
		return false
	}
	return true
}
