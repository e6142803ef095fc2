// Package wordlist provides word list filtering helpers.
package wordlist

import (
	"strings"

	"github.com/samber/lo"

	"github.com/verte-zerg/tuimorse/internal/morse"
)

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// Encodable keeps words whose every character has a Morse code.
func Encodable(word string) bool {
	return morse.Encodable(word)
}

// Normalize lowercases words, drops those rejected by keep and removes
// duplicates while preserving first-seen order.
func Normalize(words []string, keep FilterFunc) []string {
	lowered := lo.Map(words, func(w string, _ int) string {
		return strings.ToLower(strings.TrimSpace(w))
	})
	return lo.Uniq(lo.Filter(lowered, func(w string, _ int) bool {
		return w != "" && keep(w)
	}))
}
