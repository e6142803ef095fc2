package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuimorse/internal/model"
)

func wordsWithSeconds(secs ...float64) []model.WordAggregate {
	out := make([]model.WordAggregate, len(secs))
	for i, s := range secs {
		out[i] = model.WordAggregate{
			WordID:    int64(i + 1),
			Word:      "dot",
			Mode:      "keyboard-dual",
			EndedAt:   time.Unix(int64(i), 0),
			ElapsedMs: int64(s * 1000),
			Attempts:  i + 1,
		}
	}
	return out
}

func TestSummarize(t *testing.T) {
	s := Summarize(wordsWithSeconds(2, 4, 3))
	if s.Words != 3 || s.Average != 3 || s.Best != 2 || s.Last != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AvgAttempts != 2 {
		t.Fatalf("expected 2 average attempts, got %v", s.AvgAttempts)
	}
	if (Summarize(nil) != Summary{}) {
		t.Fatalf("expected zero summary")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("unexpected flat sparkline: %q", got)
	}
	got := Sparkline([]float64{0, 10})
	if got != " @" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
}

func TestRenderSummaryAndTrend(t *testing.T) {
	var buf bytes.Buffer
	words := wordsWithSeconds(2, 4, 3)
	if err := RenderSummary(&buf, words); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderTrend(&buf, words, 2, 40); err != nil {
		t.Fatalf("render trend: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Words: 3", "Average: 3.00s", "Best: 2.00s", "Last: 3.00s", "window 2"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("output missing %q: %s", needle, out)
		}
	}

	buf.Reset()
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No words found.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestCharTableRowsSortedByAccuracy(t *testing.T) {
	headers, rows := CharTableRows([]model.CharAggregate{
		{Char: "e", Correct: 10},
		{Char: "q", Correct: 1, Incorrect: 3},
	})
	if len(headers) != 5 || len(rows) != 2 {
		t.Fatalf("unexpected shape: %v %v", headers, rows)
	}
	if rows[0][0] != "q" || rows[0][1] != "--.-" || rows[0][2] != "25.00%" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestRenderRecentWordsNewestFirst(t *testing.T) {
	words := wordsWithSeconds(1, 2, 3)
	words[2].Word = "dash"
	var buf bytes.Buffer
	if err := RenderRecentWords(&buf, words, 2); err != nil {
		t.Fatalf("render recent: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 5 || !strings.Contains(lines[3], "dash") {
		t.Fatalf("expected newest word first: %q", buf.String())
	}
}
