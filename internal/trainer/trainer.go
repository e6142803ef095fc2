// Package trainer compares submitted text with the practice word and keeps
// the per-run outcome, history and timing state.
package trainer

import (
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/sched"
)

// TokenOutcome is the timer token that reverts the outcome to neutral.
const TokenOutcome sched.Token = "trainer.outcome"

// OutcomeWindow is how long a correct/incorrect outcome stays visible.
const OutcomeWindow = time.Second

// Outcome is the result of the latest submission.
type Outcome int

const (
	Neutral Outcome = iota
	Correct
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "neutral"
	}
}

// Picker chooses the next practice word.
type Picker interface {
	Pick() string
}

// Options wires a Trainer to its collaborators.
type Options struct {
	Clock     sched.Clock
	Scheduler sched.Scheduler
	Picker    Picker
	// OnAssign is called with every newly assigned target word.
	OnAssign func(word string)
	// OnComplete is called once per correctly completed word.
	OnComplete func(result model.WordResult, chars []model.CharStats)
}

type charStat struct {
	correct   int
	incorrect int
}

// Trainer tracks the target word and the outcome of submissions.
type Trainer struct {
	opts Options

	target     string
	assignedAt time.Time
	attempts   int
	charStats  map[rune]*charStat

	typed   []string
	outcome Outcome
	records []Record
}

// New returns a trainer with no word assigned; call Start to begin.
func New(opts Options) *Trainer {
	if opts.Clock == nil {
		opts.Clock = sched.SystemClock{}
	}
	return &Trainer{opts: opts}
}

// Start assigns the first word and starts the timing baseline.
func (t *Trainer) Start() {
	t.assign()
}

// Target returns the current practice word.
func (t *Trainer) Target() string {
	return t.target
}

// Outcome returns the outcome of the latest submission, or Neutral once the
// display window has elapsed.
func (t *Trainer) Outcome() Outcome {
	return t.outcome
}

// Typed returns the correctly completed words, oldest first.
func (t *Trainer) Typed() []string {
	return append([]string(nil), t.typed...)
}

// TypedText returns the typed history as a space-prefixed string.
func (t *Trainer) TypedText() string {
	var b strings.Builder
	for _, w := range t.typed {
		b.WriteByte(' ')
		b.WriteString(w)
	}
	return b.String()
}

// Attempts returns the number of submissions for the current word.
func (t *Trainer) Attempts() int {
	return t.attempts
}

// Submit compares text with the target, ignoring case and surrounding space.
// An empty submission is Incorrect but is not counted as an attempt.
func (t *Trainer) Submit(text string) Outcome {
	submitted := strings.TrimSpace(text)
	if submitted != "" {
		t.attempts++
		t.recordChars(submitted)
	}

	if t.target != "" && strings.EqualFold(submitted, t.target) {
		t.outcome = Correct
		t.complete(strings.ToLower(submitted))
		t.assign()
	} else {
		t.outcome = Incorrect
	}
	if t.opts.Scheduler != nil {
		t.opts.Scheduler.Schedule(TokenOutcome, OutcomeWindow)
	}
	return t.outcome
}

// Fire handles an expired timer. Unknown tokens are ignored.
func (t *Trainer) Fire(token sched.Token) {
	if token == TokenOutcome {
		t.outcome = Neutral
	}
}

// ResetStats clears timing records, restarts the baseline and assigns a new
// word.
func (t *Trainer) ResetStats() {
	t.records = nil
	t.assign()
}

// ResetTest clears the typed history and assigns a new word. Timing records
// are kept.
func (t *Trainer) ResetTest() {
	t.typed = nil
	t.assign()
}

func (t *Trainer) assign() {
	word := ""
	if t.opts.Picker != nil {
		word = strings.ToLower(t.opts.Picker.Pick())
	}
	t.target = word
	t.assignedAt = t.opts.Clock.Now()
	t.attempts = 0
	t.charStats = map[rune]*charStat{}
	if t.opts.OnAssign != nil {
		t.opts.OnAssign(word)
	}
}

func (t *Trainer) complete(word string) {
	endedAt := t.opts.Clock.Now()
	elapsed := endedAt.Sub(t.assignedAt)
	t.typed = append(t.typed, word)
	t.records = append(t.records, Record{Word: word, Elapsed: elapsed})
	if t.opts.OnComplete == nil {
		return
	}
	result := model.WordResult{
		Word:      word,
		StartedAt: t.assignedAt,
		EndedAt:   endedAt,
		ElapsedMs: elapsed.Milliseconds(),
		Attempts:  t.attempts,
	}
	t.opts.OnComplete(result, t.flushChars())
}

// recordChars compares the submission with the target position by position.
func (t *Trainer) recordChars(submitted string) {
	got := []rune(strings.ToLower(submitted))
	for i, want := range []rune(t.target) {
		entry, ok := t.charStats[want]
		if !ok {
			entry = &charStat{}
			t.charStats[want] = entry
		}
		if i < len(got) && got[i] == want {
			entry.correct++
		} else {
			entry.incorrect++
		}
	}
}

func (t *Trainer) flushChars() []model.CharStats {
	out := make([]model.CharStats, 0, len(t.charStats))
	for ch, entry := range t.charStats {
		out = append(out, model.CharStats{
			Char:      string(ch),
			Correct:   entry.correct,
			Incorrect: entry.incorrect,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}
