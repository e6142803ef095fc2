package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVirtualFiresInDeadlineOrder(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var fired []Token
	v.OnFire(func(tok Token) { fired = append(fired, tok) })

	v.Schedule("late", 300*time.Millisecond)
	v.Schedule("early", 100*time.Millisecond)
	v.Advance(200 * time.Millisecond)
	assert.Equal(t, []Token{"early"}, fired)
	assert.True(t, v.Pending("late"))

	v.Advance(100 * time.Millisecond)
	assert.Equal(t, []Token{"early", "late"}, fired)
	assert.Equal(t, time.Unix(0, 0).Add(300*time.Millisecond), v.Now())
}

func TestVirtualRescheduleReplaces(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	count := 0
	v.OnFire(func(Token) { count++ })

	v.Schedule("t", 100*time.Millisecond)
	v.Advance(90 * time.Millisecond)
	v.Schedule("t", 100*time.Millisecond)
	v.Advance(90 * time.Millisecond)
	assert.Equal(t, 0, count)
	v.Advance(10 * time.Millisecond)
	assert.Equal(t, 1, count)
}

func TestVirtualCancel(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	count := 0
	v.OnFire(func(Token) { count++ })
	v.Schedule("t", time.Second)
	v.Cancel("t")
	v.Advance(time.Hour)
	assert.Equal(t, 0, count)
	assert.False(t, v.Pending("t"))
}

func TestVirtualChainedCallbacksInsideWindow(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var at []time.Duration
	start := v.Now()
	v.OnFire(func(tok Token) {
		at = append(at, v.Now().Sub(start))
		if tok == "first" {
			v.Schedule("second", 200*time.Millisecond)
		}
	})
	v.Schedule("first", 100*time.Millisecond)
	v.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 300 * time.Millisecond}, at)
}
