// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/morse"
)

const sparkChars = " .:-=+*#%@"

// Summary holds aggregate completion times in seconds.
type Summary struct {
	Words       int
	Last        float64
	Average     float64
	Best        float64
	AvgAttempts float64
}

// Summarize computes last, average and best seconds over stored words.
func Summarize(words []model.WordAggregate) Summary {
	if len(words) == 0 {
		return Summary{}
	}
	secs := WordSeconds(words)
	s := Summary{Words: len(words), Last: secs[len(secs)-1], Best: secs[0]}
	var total float64
	attempts := 0
	for i, v := range secs {
		total += v
		attempts += words[i].Attempts
		if v < s.Best {
			s.Best = v
		}
	}
	s.Average = total / float64(len(secs))
	s.AvgAttempts = float64(attempts) / float64(len(words))
	return s
}

// WordSeconds returns the completion time of every word in seconds.
func WordSeconds(words []model.WordAggregate) []float64 {
	out := make([]float64, len(words))
	for i, w := range words {
		out[i] = float64(w.ElapsedMs) / 1000.0
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for stored words.
func RenderSummary(w io.Writer, words []model.WordAggregate) error {
	if len(words) == 0 {
		_, err := fmt.Fprintln(w, "No words found.")
		return err
	}
	s := Summarize(words)
	lines := []string{
		"Summary",
		fmt.Sprintf("Words: %d", s.Words),
		fmt.Sprintf("Last: %.2fs", s.Last),
		fmt.Sprintf("Average: %.2fs", s.Average),
		fmt.Sprintf("Best: %.2fs", s.Best),
		fmt.Sprintf("Avg Attempts: %.2f", s.AvgAttempts),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a sparkline of the moving-average completion time.
func RenderTrend(w io.Writer, words []model.WordAggregate, window, width int) error {
	if len(words) == 0 {
		return nil
	}
	values := MovingAverage(WordSeconds(words), window)
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	if _, err := fmt.Fprintf(w, "Trend (moving average, window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(values)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints per-character aggregates.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	headers, rows := CharTableRows(aggs)
	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharTableRows builds per-character rows sorted by lowest accuracy.
func CharTableRows(aggs []model.CharAggregate) ([]string, [][]string) {
	type row struct {
		char      string
		code      string
		acc       float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, row{
			char:      agg.Char,
			code:      codeFor(agg.Char),
			acc:       accuracy(agg),
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	// Sort by lowest accuracy.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	headers := []string{"Char", "Code", "Accuracy", "Correct", "Incorrect"}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.char,
			r.code,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		})
	}
	return headers, out
}

// RenderRecentWords prints the last n stored words, newest first.
func RenderRecentWords(w io.Writer, words []model.WordAggregate, n int) error {
	if len(words) == 0 {
		return nil
	}
	if n > 0 && len(words) > n {
		words = words[len(words)-n:]
	}
	if _, err := fmt.Fprintln(w, "Recent Words"); err != nil {
		return err
	}
	headers := []string{"When", "Word", "Time", "Attempts", "Mode"}
	rows := make([][]string, 0, len(words))
	for i := len(words) - 1; i >= 0; i-- {
		word := words[i]
		rows = append(rows, []string{
			word.EndedAt.Local().Format("2006-01-02 15:04"),
			word.Word,
			fmt.Sprintf("%.2fs", float64(word.ElapsedMs)/1000.0),
			fmt.Sprintf("%d", word.Attempts),
			word.Mode,
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func codeFor(char string) string {
	runes := []rune(char)
	if len(runes) != 1 {
		return ""
	}
	code, _ := morse.Code(runes[0])
	return code
}
