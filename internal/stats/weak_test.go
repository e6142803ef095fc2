package stats

import (
	"testing"

	"github.com/verte-zerg/tuimorse/internal/model"
)

func TestSelectWeakCharsSkipsClean(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 0},
		{Char: "q", Correct: 1, Incorrect: 3},
		{Char: "y", Correct: 4, Incorrect: 1},
		{Char: "z", Correct: 1, Incorrect: 1},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, r := range []rune{'q', 'z'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q in weak set %v", r, weak)
		}
	}
	if all := SelectWeakChars(aggs, 0); len(all) != 3 {
		t.Fatalf("expected every missed char, got %v", all)
	}
	if none := SelectWeakChars(aggs[:1], 5); len(none) != 0 {
		t.Fatalf("expected empty set, got %v", none)
	}
}
