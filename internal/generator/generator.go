// Package generator picks practice words.
package generator

import (
	"math/rand"
	"time"
)

// Generator picks words uniformly, or weighted toward weak characters once
// SetWeak has been given a non-empty set.
type Generator struct {
	rnd     *rand.Rand
	words   []string
	weights []float64
	total   float64
}

// New returns a Generator over words seeded with the current time.
func New(words []string) *Generator {
	return NewSeeded(words, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(words []string, seed int64) *Generator {
	return &Generator{
		rnd:   rand.New(rand.NewSource(seed)),
		words: append([]string(nil), words...),
	}
}

// Words returns the candidate words.
func (g *Generator) Words() []string {
	return g.words
}

// SetWords replaces the candidate words and restores uniform picking.
func (g *Generator) SetWords(words []string) {
	g.words = append([]string(nil), words...)
	g.weights = nil
	g.total = 0
}

// SetWeak weights every word by 1 + factor*(number of weak characters in
// it). An empty set or non-positive factor restores uniform picking.
func (g *Generator) SetWeak(weakSet map[rune]struct{}, factor float64) {
	if len(weakSet) == 0 || factor <= 0 {
		g.weights = nil
		g.total = 0
		return
	}
	g.weights = make([]float64, len(g.words))
	g.total = 0
	for i, word := range g.words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weakSet[r]; ok {
				weakCount++
			}
		}
		w := 1.0 + float64(weakCount)*factor
		g.weights[i] = w
		g.total += w
	}
}

// Pick returns the next word, or "" when there are no words.
func (g *Generator) Pick() string {
	if len(g.words) == 0 {
		return ""
	}
	if g.weights == nil {
		return g.words[g.rnd.Intn(len(g.words))]
	}
	r := g.rnd.Float64() * g.total
	acc := 0.0
	for j, w := range g.weights {
		acc += w
		if r <= acc {
			return g.words[j]
		}
	}
	return g.words[len(g.words)-1]
}
