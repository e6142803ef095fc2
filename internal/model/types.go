// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Mode         string
	AutoAdvance  bool
	AdvanceDelay time.Duration
	AutoSubmit   bool
	Sound        bool
	HoldGrace    time.Duration
	WordsFile    string
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	WeakWindow   int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Word        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// WordResult captures one correctly completed practice word.
type WordResult struct {
	RunID     string
	Word      string
	Mode      string
	StartedAt time.Time
	EndedAt   time.Time
	ElapsedMs int64
	Attempts  int
}

// CharStats stores per-character stats for a word.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across words.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// WordAggregate summarizes a stored word for reporting.
type WordAggregate struct {
	WordID    int64
	Word      string
	Mode      string
	EndedAt   time.Time
	ElapsedMs int64
	Attempts  int
}
