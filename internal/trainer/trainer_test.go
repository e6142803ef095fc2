package trainer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuimorse/internal/keyer"
	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/sched"
)

type listPicker struct {
	words []string
	next  int
}

func (p *listPicker) Pick() string {
	w := p.words[p.next%len(p.words)]
	p.next++
	return w
}

type completed struct {
	result model.WordResult
	chars  []model.CharStats
}

type fixture struct {
	clock    *sched.Virtual
	trainer  *Trainer
	assigned []string
	done     []completed
}

func newFixture(t *testing.T, words ...string) *fixture {
	t.Helper()
	f := &fixture{clock: sched.NewVirtual(time.Unix(1_700_000_000, 0))}
	f.trainer = New(Options{
		Clock:     f.clock,
		Scheduler: f.clock,
		Picker:    &listPicker{words: words},
		OnAssign:  func(w string) { f.assigned = append(f.assigned, w) },
		OnComplete: func(r model.WordResult, chars []model.CharStats) {
			f.done = append(f.done, completed{result: r, chars: chars})
		},
	})
	f.clock.OnFire(f.trainer.Fire)
	f.trainer.Start()
	return f
}

func TestSubmitMatchIgnoresCaseAndSpace(t *testing.T) {
	f := newFixture(t, "morse", "code")
	require.Equal(t, "morse", f.trainer.Target())

	assert.Equal(t, Correct, f.trainer.Submit("  MoRsE "))
	assert.Equal(t, "code", f.trainer.Target())
	assert.Equal(t, " morse", f.trainer.TypedText())
	assert.Equal(t, []string{"morse", "code"}, f.assigned)
}

func TestSubmitMismatchKeepsState(t *testing.T) {
	f := newFixture(t, "radio", "wave")
	assert.Equal(t, Incorrect, f.trainer.Submit("radar"))
	assert.Equal(t, "radio", f.trainer.Target())
	assert.Equal(t, "", f.trainer.TypedText())
	assert.Equal(t, 1, f.trainer.Attempts())
	assert.Equal(t, []string{"radio"}, f.assigned)
}

func TestOutcomeRevertsAfterWindow(t *testing.T) {
	f := newFixture(t, "dot")
	f.trainer.Submit("dash")
	assert.Equal(t, Incorrect, f.trainer.Outcome())
	f.clock.Advance(OutcomeWindow - time.Millisecond)
	assert.Equal(t, Incorrect, f.trainer.Outcome())
	f.clock.Advance(time.Millisecond)
	assert.Equal(t, Neutral, f.trainer.Outcome())

	f.trainer.Submit("dot")
	assert.Equal(t, Correct, f.trainer.Outcome())
	f.clock.Advance(OutcomeWindow)
	assert.Equal(t, Neutral, f.trainer.Outcome())
}

func TestTimingStats(t *testing.T) {
	f := newFixture(t, "a", "b", "c", "d")
	for i, secs := range []float64{2.0, 4.0, 3.0} {
		f.clock.Advance(time.Duration(secs * float64(time.Second)))
		require.Equal(t, Correct, f.trainer.Submit(f.trainer.Target()), "word %d", i)
	}
	timing := f.trainer.Timing()
	assert.Equal(t, 3, timing.Count)
	assert.Equal(t, "3.00", fmt.Sprintf("%.2f", timing.Average))
	assert.Equal(t, "2.00", fmt.Sprintf("%.2f", timing.Best))
	assert.Equal(t, "3.00", fmt.Sprintf("%.2f", timing.Last))
}

func TestResetStatsClearsRecordsAndBaseline(t *testing.T) {
	f := newFixture(t, "key", "skill", "learn")
	f.clock.Advance(5 * time.Second)
	f.trainer.Submit("key")
	f.clock.Advance(10 * time.Second)

	f.trainer.ResetStats()
	assert.Equal(t, Timing{}, f.trainer.Timing())
	assert.Equal(t, "learn", f.trainer.Target())

	f.clock.Advance(time.Second)
	f.trainer.Submit("learn")
	assert.Equal(t, 1.0, f.trainer.Timing().Last)
	assert.Equal(t, " key learn", f.trainer.TypedText())
}

func TestResetTestClearsHistoryKeepsTiming(t *testing.T) {
	f := newFixture(t, "call", "number")
	f.clock.Advance(time.Second)
	f.trainer.Submit("call")
	f.trainer.ResetTest()
	assert.Equal(t, "", f.trainer.TypedText())
	assert.Equal(t, 1, f.trainer.Timing().Count)
	assert.Equal(t, "call", f.trainer.Target())
}

func TestCompletionReportsAttemptsAndChars(t *testing.T) {
	f := newFixture(t, "dot", "next")
	f.clock.Advance(3 * time.Second)
	f.trainer.Submit("dat")
	f.trainer.Submit("dot")

	require.Len(t, f.done, 1)
	r := f.done[0].result
	assert.Equal(t, "dot", r.Word)
	assert.Equal(t, 2, r.Attempts)
	assert.Equal(t, int64(3000), r.ElapsedMs)
	assert.Equal(t, []model.CharStats{
		{Char: "d", Correct: 2},
		{Char: "o", Correct: 1, Incorrect: 1},
		{Char: "t", Correct: 2},
	}, f.done[0].chars)
	assert.Equal(t, 0, f.trainer.Attempts())
}

func TestEmptySubmitIsNotRecorded(t *testing.T) {
	f := newFixture(t, "dot", "next")
	assert.Equal(t, Incorrect, f.trainer.Submit("   "))
	assert.Equal(t, 0, f.trainer.Attempts())

	f.trainer.Submit("dot")
	require.Len(t, f.done, 1)
	assert.Equal(t, 1, f.done[0].result.Attempts)
	for _, cs := range f.done[0].chars {
		assert.Zero(t, cs.Incorrect, cs.Char)
	}
}

func TestKeyerEarlyMatchDrivesTrainer(t *testing.T) {
	clock := sched.NewVirtual(time.Unix(0, 0))
	var session *keyer.Session
	tr := New(Options{
		Clock:     clock,
		Scheduler: clock,
		Picker:    &listPicker{words: []string{"sos", "hello"}},
		OnAssign:  func(w string) { session.SetTarget(w) },
	})
	session = keyer.New(clock, keyer.DefaultConfig(), func(text string) { tr.Submit(text) })
	clock.OnFire(session.Fire)
	clock.OnFire(tr.Fire)
	tr.Start()

	for _, r := range "... --- ..." {
		switch r {
		case '.':
			session.AppendSymbol(keyer.Dot)
		case '-':
			session.AppendSymbol(keyer.Dash)
		default:
			session.AppendLetterGap()
		}
	}
	assert.Equal(t, Correct, tr.Outcome())
	assert.Equal(t, "hello", tr.Target())
	assert.Equal(t, "", session.Sequence())
	assert.Equal(t, "hello", session.Target())

	clock.Advance(time.Minute)
	assert.Equal(t, Neutral, tr.Outcome())
	assert.Equal(t, " sos", tr.TypedText())
}
