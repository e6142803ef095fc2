package keyer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuimorse/internal/sched"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Mouse-Single ")
	require.NoError(t, err)
	assert.Equal(t, ModeMouseSingle, m)

	_, err = ParseMode("paddle")
	assert.ErrorContains(t, err, "unknown input mode")
}

func TestModeNextCycles(t *testing.T) {
	m := ModeKeyboardDual
	seen := map[Mode]bool{}
	for range Modes() {
		seen[m] = true
		m = m.Next()
	}
	assert.Equal(t, ModeKeyboardDual, m)
	assert.Len(t, seen, 4)
}

func TestAdapterGatesSymbolsByMode(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	a := NewAdapter(ModeKeyboardDual, h.session)
	at := h.clock.Now()

	assert.True(t, a.Handle(Event{Kind: KindDot, At: at}))
	assert.False(t, a.Handle(Event{Kind: KindPress, At: at}))
	assert.Equal(t, ".", h.session.Sequence())

	a.SetMode(ModeMouseSingle)
	assert.False(t, a.Handle(Event{Kind: KindDash, At: at}))
	assert.True(t, a.Handle(Event{Kind: KindPress, At: at}))
	assert.True(t, a.Handle(Event{Kind: KindRelease, At: at.Add(300 * time.Millisecond)}))
	assert.Equal(t, ".-", h.session.Sequence())

	assert.True(t, a.Handle(Event{Kind: KindGap}))
	assert.True(t, a.Handle(Event{Kind: KindBackspace}))
	assert.True(t, a.Handle(Event{Kind: KindClear}))
	assert.Equal(t, "", h.session.Sequence())
}

func TestAdapterModeSwitchDropsPress(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	a := NewAdapter(ModeKeyboardSingle, h.session)
	a.Handle(Event{Kind: KindPress, At: h.clock.Now()})
	require.True(t, h.session.Pressed())

	a.SetMode(ModeMouseSingle)
	assert.False(t, h.session.Pressed())
	assert.False(t, a.Handle(Event{Kind: KindRelease, At: h.clock.Now()}))
	assert.Equal(t, "", h.session.Sequence())
}

func TestRepeatHoldTapKeysDot(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	a := NewAdapter(ModeKeyboardSingle, h.session)
	hold := NewRepeatHold(h.clock, DefaultHoldGrace, func(ev Event) { a.Handle(ev) })
	h.clock.OnFire(hold.Fire)

	hold.Key(h.clock.Now())
	assert.True(t, hold.Holding())
	h.clock.Advance(DefaultHoldGrace)
	assert.False(t, hold.Holding())
	assert.Equal(t, ".", h.session.Sequence())
}

func TestRepeatHoldHeldKeyKeysDash(t *testing.T) {
	h := newHarness(t, DefaultConfig())
	a := NewAdapter(ModeKeyboardSingle, h.session)
	hold := NewRepeatHold(h.clock, DefaultHoldGrace, func(ev Event) { a.Handle(ev) })
	h.clock.OnFire(hold.Fire)

	hold.Key(h.clock.Now())
	h.clock.Advance(500 * time.Millisecond)
	for i := 0; i < 5; i++ {
		hold.Key(h.clock.Now())
		h.clock.Advance(30 * time.Millisecond)
	}
	assert.True(t, hold.Holding())
	h.clock.Advance(DefaultRepeatGrace)
	assert.False(t, hold.Holding())
	assert.Equal(t, "-", h.session.Sequence())
}

func newTapHarness(t *testing.T) (*harness, *RepeatHold) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AutoAdvance = false
	cfg.AutoSubmit = false
	h := newHarness(t, cfg)
	a := NewAdapter(ModeKeyboardSingle, h.session)
	hold := NewRepeatHold(h.clock, DefaultHoldGrace, func(ev Event) { a.Handle(ev) })
	h.clock.OnFire(hold.Fire)
	return h, hold
}

func TestRepeatHoldSeparateTapsKeyDots(t *testing.T) {
	h, hold := newTapHarness(t)

	hold.Key(h.clock.Now())
	h.clock.Advance(300 * time.Millisecond)
	hold.Key(h.clock.Now())
	h.clock.Advance(time.Second)
	assert.False(t, hold.Holding())
	assert.Equal(t, "..", h.session.Sequence())
}

func TestRepeatHoldTapRunKeysOneDotPerTap(t *testing.T) {
	h, hold := newTapHarness(t)

	for i := 0; i < 4; i++ {
		hold.Key(h.clock.Now())
		h.clock.Advance(300 * time.Millisecond)
	}
	h.clock.Advance(time.Second)
	assert.Equal(t, "....", h.session.Sequence())
}

func TestRepeatHoldRepeatStreamKeysDash(t *testing.T) {
	h, hold := newTapHarness(t)

	hold.Key(h.clock.Now())
	h.clock.Advance(500 * time.Millisecond)
	for elapsed := 500 * time.Millisecond; elapsed <= 600*time.Millisecond; elapsed += 30 * time.Millisecond {
		hold.Key(h.clock.Now())
		h.clock.Advance(30 * time.Millisecond)
	}
	h.clock.Advance(time.Second)
	assert.Equal(t, "-", h.session.Sequence())
}

func TestRepeatHoldTapThenHold(t *testing.T) {
	h, hold := newTapHarness(t)

	hold.Key(h.clock.Now())
	h.clock.Advance(300 * time.Millisecond)
	hold.Key(h.clock.Now())
	h.clock.Advance(500 * time.Millisecond)
	for i := 0; i < 10; i++ {
		hold.Key(h.clock.Now())
		h.clock.Advance(30 * time.Millisecond)
	}
	h.clock.Advance(time.Second)
	assert.Equal(t, ".-", h.session.Sequence())
}

func TestRepeatHoldCancel(t *testing.T) {
	v := sched.NewVirtual(time.Unix(0, 0))
	var events []Event
	hold := NewRepeatHold(v, 0, func(ev Event) { events = append(events, ev) })
	v.OnFire(hold.Fire)

	hold.Key(v.Now())
	hold.Cancel()
	v.Advance(time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, KindPress, events[0].Kind)
}
