package trainer

import (
	"time"

	"github.com/samber/lo"
)

// Record is the completion time of one word.
type Record struct {
	Word    string
	Elapsed time.Duration
}

// Timing summarizes the recorded completion times in seconds.
type Timing struct {
	Count   int
	Last    float64
	Average float64
	Best    float64
}

// Records returns the timing records of this run, oldest first.
func (t *Trainer) Records() []Record {
	return append([]Record(nil), t.records...)
}

// Timing returns last/average/best over all records. Count is zero when
// nothing has been recorded yet.
func (t *Trainer) Timing() Timing {
	return Summarize(t.records)
}

// Summarize computes last, average and best (minimum) seconds.
func Summarize(records []Record) Timing {
	if len(records) == 0 {
		return Timing{}
	}
	seconds := lo.Map(records, func(r Record, _ int) float64 {
		return r.Elapsed.Seconds()
	})
	return Timing{
		Count:   len(seconds),
		Last:    seconds[len(seconds)-1],
		Average: lo.Sum(seconds) / float64(len(seconds)),
		Best:    lo.Min(seconds),
	}
}
