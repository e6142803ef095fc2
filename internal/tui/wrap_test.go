package tui

import (
	"strings"
	"testing"
)

func TestBuildTargetRunesCursor(t *testing.T) {
	runes := buildTargetRunes([]rune("ab"), []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildTargetRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildTargetRunes([]rune("a"), []rune("A"))
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for decoded rune regardless of case")
	}
}

func TestBuildTargetRunesKeepsTargetOnMismatch(t *testing.T) {
	runes := buildTargetRunes([]rune("ab"), []rune("ax"))
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildHistoryRunesHighlightsLatest(t *testing.T) {
	runes := buildHistoryRunes([]string{"sos", "cq"})
	if len(runes) != 6 {
		t.Fatalf("expected 6 runes, got %d", len(runes))
	}
	if !runes[3].isSpace {
		t.Fatalf("expected separator between words")
	}
	if runes[0].s != pendingStyle.Render("s") {
		t.Fatalf("expected pending style for older word")
	}
	if runes[4].s != correctStyle.Render("c") {
		t.Fatalf("expected correct style for latest word")
	}
	if len(buildHistoryRunes(nil)) != 0 {
		t.Fatalf("expected no runes for empty history")
	}
}

func TestWrapBreaksAtSpaces(t *testing.T) {
	plain := func(s string) []styledRune {
		out := make([]styledRune, 0, len(s))
		for _, r := range s {
			out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
		}
		return out
	}
	got := wrapStyledRunes(plain("radio wave dot"), 10)
	if got != "radio\nwave dot" {
		t.Fatalf("unexpected wrap: %q", got)
	}
	got = wrapStyledRunes(plain("telegraph"), 4)
	if got != "tele\ngrap\nh" {
		t.Fatalf("unexpected hard wrap: %q", got)
	}
}

func TestLastLines(t *testing.T) {
	if got := lastLines("a\nb\nc\nd", 2); got != "c\nd" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if got := lastLines("a", 3); got != "a" {
		t.Fatalf("unexpected tail: %q", got)
	}
	if !strings.Contains(lastLines("a\nb", 0), "a") {
		t.Fatalf("expected untouched text for n <= 0")
	}
}
