// Package sidetone plays keying feedback tones.
package sidetone

import (
	"io"
	"time"
)

const (
	// Frequency is the sidetone pitch in Hz.
	Frequency = 700
	// Gain scales the sine amplitude.
	Gain = 0.2
	// DotBlip is the tone length for a keyed dot.
	DotBlip = 100 * time.Millisecond
	// DashBlip is the tone length for a keyed dash.
	DashBlip = 300 * time.Millisecond
)

// Player plays tones without blocking the caller. Methods are called from a
// single goroutine.
type Player interface {
	// Blip plays a tone of length d.
	Blip(d time.Duration)
	// Start begins a tone that lasts until Stop.
	Start()
	// Stop ends a tone begun by Start.
	Stop()
	Close() error
}

// New returns the audio player when enabled and available, Nop when
// disabled. When audio cannot be initialised the error is returned along
// with a Bell fallback writing to bell.
func New(enabled bool, bell io.Writer) (Player, error) {
	if !enabled {
		return Nop{}, nil
	}
	p, err := newAudioPlayer()
	if err != nil {
		return NewBell(bell), err
	}
	return p, nil
}

// Nop plays nothing.
type Nop struct{}

func (Nop) Blip(time.Duration) {}
func (Nop) Start()             {}
func (Nop) Stop()              {}
func (Nop) Close() error       { return nil }

// Bell rings the terminal bell in place of a tone.
type Bell struct {
	w       io.Writer
	holding bool
}

// NewBell returns a Bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) ring() {
	if b.w != nil {
		if _, err := io.WriteString(b.w, "\a"); err != nil {
			// Best-effort bell.
			_ = err
		}
	}
}

func (b *Bell) Blip(time.Duration) { b.ring() }

func (b *Bell) Start() {
	if b.holding {
		return
	}
	b.holding = true
	b.ring()
}

func (b *Bell) Stop() { b.holding = false }

func (b *Bell) Close() error { return nil }
