package sidetone

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

const (
	sampleRate = beep.SampleRate(44100)
	rampTime   = 5 * time.Millisecond
)

var _ beep.Streamer = (*tone)(nil)

// tone is a sine streamer with short attack and release ramps. A continuous
// tone (total < 0) runs until release.
type tone struct {
	rate      beep.SampleRate
	pos       int
	total     int
	ramp      int
	releaseAt int
}

func newTone(rate beep.SampleRate, d time.Duration) *tone {
	t := &tone{rate: rate, total: rate.N(d), ramp: rate.N(rampTime), releaseAt: -1}
	t.ramp = min(t.ramp, t.total/2)
	return t
}

func newContinuousTone(rate beep.SampleRate) *tone {
	return &tone{rate: rate, total: -1, ramp: rate.N(rampTime), releaseAt: -1}
}

// release fades the tone out from the current position.
func (t *tone) release() {
	if t.releaseAt < 0 {
		t.releaseAt = t.pos
	}
}

func (t *tone) end() int {
	if t.releaseAt >= 0 {
		end := t.releaseAt + t.ramp
		if t.total >= 0 {
			end = min(end, t.total)
		}
		return end
	}
	return t.total
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	end := t.end()
	for i := range samples {
		if end >= 0 && t.pos >= end {
			return i, i > 0
		}
		env := 1.0
		if t.ramp > 0 {
			if t.pos < t.ramp {
				env = float64(t.pos) / float64(t.ramp)
			}
			if end >= 0 && end-t.pos < t.ramp {
				env = math.Min(env, float64(end-t.pos)/float64(t.ramp))
			}
		}
		phase := 2 * math.Pi * Frequency * float64(t.pos) / float64(t.rate)
		v := math.Sin(phase) * env * Gain
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error {
	return nil
}
