// Package pacing provides the per-word timing and fixation rules of RSVP presentation.
package pacing

import "unicode/utf8"

// ORP returns the rune index of the optimal recognition point of a word.
// The index depends only on the word length and is always in bounds for non-empty words.
func ORP(word string) int {
	n := utf8.RuneCountInString(word)
	switch {
	case n <= 1:
		return 0
	case n <= 5:
		return 1
	case n <= 9:
		return 2
	default:
		return 3
	}
}

// Split cuts a word at its ORP into the text before the focus letter,
// the focus letter itself and the rest.
func Split(word string) (before, focus, after string) {
	if word == "" {
		return "", "", ""
	}

	runes := []rune(word)
	orp := ORP(word)
	return string(runes[:orp]), string(runes[orp : orp+1]), string(runes[orp+1:])
}
