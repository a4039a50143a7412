package utils

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// NormalizeWhitespace replaces runs of whitespace with a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most width display cells, ending with an
// ellipsis when something was cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// FirstSentences returns the first n sentences of text. A sentence ends at
// '.', '!' or '?' followed by whitespace or the end of the text.
func FirstSentences(text string, n int) string {
	text = NormalizeWhitespace(text)
	if n <= 0 || text == "" {
		return ""
	}

	runes := []rune(text)
	count := 0
	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		count++
		if count == n {
			return string(runes[:i+1])
		}
	}
	return text
}
