// Package morse maps characters to Morse symbol groups and back.
package morse

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

const (
	// Dot is the short symbol.
	Dot = '.'
	// Dash is the long symbol.
	Dash = '-'
	// Gap separates symbol groups.
	Gap = ' '
)

// Class groups chart entries for display.
type Class int

const (
	ClassLetter Class = iota
	ClassDigit
	ClassPunct
)

// Entry is one row of the reference chart.
type Entry struct {
	Char  rune
	Code  string
	Class Class
}

var letters = "abcdefghijklmnopqrstuvwxyz"

var digits = "1234567890"

var punct = ".,?'!/()&:;=+-_\"$@"

var encodeTable = map[rune]string{
	'a': ".-", 'b': "-...", 'c': "-.-.", 'd': "-..", 'e': ".",
	'f': "..-.", 'g': "--.", 'h': "....", 'i': "..", 'j': ".---",
	'k': "-.-", 'l': ".-..", 'm': "--", 'n': "-.", 'o': "---",
	'p': ".--.", 'q': "--.-", 'r': ".-.", 's': "...", 't': "-",
	'u': "..-", 'v': "...-", 'w': ".--", 'x': "-..-", 'y': "-.--",
	'z': "--..",
	'1': ".----", '2': "..---", '3': "...--", '4': "....-", '5': ".....",
	'6': "-....", '7': "--...", '8': "---..", '9': "----.", '0': "-----",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

var decodeTable = lo.Invert(encodeTable)

// Decode converts a gap-separated symbol sequence into text.
// Groups without a table entry are dropped.
func Decode(sequence string) string {
	if sequence == "" {
		return ""
	}
	var b strings.Builder
	for _, group := range strings.Split(sequence, string(Gap)) {
		if r, ok := decodeTable[group]; ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Lookup returns the character for a single symbol group.
func Lookup(group string) (rune, bool) {
	r, ok := decodeTable[group]
	return r, ok
}

// Code returns the symbol group for a character, ignoring case.
func Code(r rune) (string, bool) {
	code, ok := encodeTable[unicode.ToLower(r)]
	return code, ok
}

// Encode converts text into gap-separated symbol groups, skipping characters
// with no entry.
func Encode(text string) string {
	groups := make([]string, 0, len(text))
	for _, r := range text {
		if code, ok := Code(r); ok {
			groups = append(groups, code)
		}
	}
	return strings.Join(groups, string(Gap))
}

// Encodable reports whether every rune of word has a table entry.
func Encodable(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if _, ok := Code(r); !ok {
			return false
		}
	}
	return true
}

// Chart returns the reference chart: letters, digits, then punctuation.
func Chart() []Entry {
	out := make([]Entry, 0, len(encodeTable))
	for _, set := range []struct {
		chars string
		class Class
	}{
		{letters, ClassLetter},
		{digits, ClassDigit},
		{punct, ClassPunct},
	} {
		for _, r := range set.chars {
			out = append(out, Entry{Char: r, Code: encodeTable[r], Class: set.class})
		}
	}
	return out
}
