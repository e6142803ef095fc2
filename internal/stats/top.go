package stats

import (
	"sort"

	"github.com/verte-zerg/tuimorse/internal/model"
)

// MostKeyed returns the n characters keyed most often, ties broken by
// character.
func MostKeyed(aggs []model.CharAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	sorted := append([]model.CharAggregate(nil), aggs...)
	sort.Slice(sorted, func(i, j int) bool {
		ti := sorted[i].Correct + sorted[i].Incorrect
		tj := sorted[j].Correct + sorted[j].Incorrect
		if ti == tj {
			return sorted[i].Char < sorted[j].Char
		}
		return ti > tj
	})
	n = min(n, len(sorted))
	out := make([]string, n)
	for i := range out {
		out[i] = sorted[i].Char
	}
	return out
}
