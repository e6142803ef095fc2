package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuimorse/internal/sched"
)

// timerMsg is delivered when a scheduled tick expires. It is stale unless
// gen still matches the token's current generation.
type timerMsg struct {
	token sched.Token
	gen   uint64
}

// teaTimers implements sched.Scheduler on top of tea.Tick. Scheduling queues
// a command that the model returns from Update; cancelling bumps the token's
// generation so an in-flight tick is dropped on arrival.
type teaTimers struct {
	gens   map[sched.Token]uint64
	queued []tea.Cmd
}

func newTeaTimers() *teaTimers {
	return &teaTimers{gens: map[sched.Token]uint64{}}
}

// Schedule implements sched.Scheduler.
func (t *teaTimers) Schedule(token sched.Token, delay time.Duration) {
	t.gens[token]++
	gen := t.gens[token]
	t.queued = append(t.queued, tea.Tick(delay, func(time.Time) tea.Msg {
		return timerMsg{token: token, gen: gen}
	}))
}

// Cancel implements sched.Scheduler.
func (t *teaTimers) Cancel(token sched.Token) {
	t.gens[token]++
}

// live reports whether msg belongs to the latest schedule of its token.
func (t *teaTimers) live(msg timerMsg) bool {
	return t.gens[msg.token] == msg.gen
}

// flush returns the queued tick commands.
func (t *teaTimers) flush() tea.Cmd {
	if len(t.queued) == 0 {
		return nil
	}
	cmds := t.queued
	t.queued = nil
	return tea.Batch(cmds...)
}
