package sidetone

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
)

func drain(t *tone, chunk int) (total int, peak float64) {
	buf := make([][2]float64, chunk)
	for {
		n, ok := t.Stream(buf)
		for _, s := range buf[:n] {
			peak = math.Max(peak, math.Abs(s[0]))
		}
		total += n
		if !ok || n == 0 {
			return total, peak
		}
	}
}

func TestBlipLength(t *testing.T) {
	rate := beep.SampleRate(1000)
	total, peak := drain(newTone(rate, DotBlip), 64)
	assert.Equal(t, 100, total)
	assert.LessOrEqual(t, peak, Gain+1e-9)
	assert.Greater(t, peak, 0.0)

	total, _ = drain(newTone(rate, DashBlip), 64)
	assert.Equal(t, 300, total)
}

func TestContinuousToneStopsAfterRelease(t *testing.T) {
	rate := beep.SampleRate(1000)
	tn := newContinuousTone(rate)
	buf := make([][2]float64, 500)
	n, ok := tn.Stream(buf)
	assert.Equal(t, 500, n)
	assert.True(t, ok)

	tn.release()
	total, _ := drain(tn, 64)
	assert.Equal(t, rate.N(rampTime), total)

	n, ok = tn.Stream(buf)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
}

func TestDisabledIsNop(t *testing.T) {
	p, err := New(false, nil)
	assert.NoError(t, err)
	assert.Equal(t, Nop{}, p)
}

func TestBellRingsOncePerHold(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	b.Blip(time.Second)
	b.Start()
	b.Start()
	b.Stop()
	b.Start()
	assert.Equal(t, "\a\a\a", buf.String())
}
