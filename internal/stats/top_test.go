package stats

import (
	"testing"

	"github.com/verte-zerg/tuimorse/internal/model"
)

func TestMostKeyed(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "t", Correct: 3, Incorrect: 1},
		{Char: "e", Correct: 2, Incorrect: 2},
		{Char: "q", Correct: 1, Incorrect: 0},
	}
	top := MostKeyed(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "e" || top[1] != "t" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := MostKeyed(aggs, 10); len(got) != 3 {
		t.Fatalf("expected all 3 chars, got %v", got)
	}
}
