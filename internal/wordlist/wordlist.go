// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoUsableWords is returned when filtering leaves nothing to practise.
var ErrNoUsableWords = errors.New("word list has no encodable words")

//go:embed words.txt
var defaultWords string

// Default returns the built-in practice words.
func Default() []string {
	return strings.Fields(defaultWords)
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// Resolve returns the practice words: the file at path when set, the
// built-in list otherwise. Words that cannot be keyed are dropped.
func Resolve(path string) ([]string, error) {
	words := Default()
	if path != "" {
		loaded, err := LoadWords(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load words file: %w", err)
		}
		words = loaded
	}
	words = Normalize(words, Encodable)
	if len(words) == 0 {
		return nil, ErrNoUsableWords
	}
	return words, nil
}
