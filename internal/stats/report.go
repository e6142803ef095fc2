// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/tuimorse/internal/model"
	"github.com/verte-zerg/tuimorse/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Words          []model.WordAggregate
	WindowWordIDs  []int64
	CharAggsAll    []model.CharAggregate
	CharAggsWindow []model.CharAggregate
	Runs           int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	words, err := st.ListWords(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(words) > cfg.Last {
		words = words[len(words)-cfg.Last:]
	}

	allIDs := wordIDs(words)
	windowIDs := lastWordIDs(words, cfg.CurveWindow)
	charAggsAll, err := st.ListCharAggregatesForWords(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := st.ListCharAggregatesForWords(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}
	runs, err := st.CountRuns(ctx)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Words:          words,
		WindowWordIDs:  windowIDs,
		CharAggsAll:    charAggsAll,
		CharAggsWindow: charAggsWindow,
		Runs:           runs,
	}, nil
}

func wordIDs(words []model.WordAggregate) []int64 {
	ids := make([]int64, len(words))
	for i, w := range words {
		ids[i] = w.WordID
	}
	return ids
}

func lastWordIDs(words []model.WordAggregate, window int) []int64 {
	if window <= 0 || len(words) <= window {
		return wordIDs(words)
	}
	return wordIDs(words[len(words)-window:])
}
