// Package token provides the display token entity and the tokenizer.
package token

import "strings"

// ParagraphMarker is the sentinel inserted by text normalization between paragraphs.
const ParagraphMarker = "¶"

// Kind represents the kind of a display token.
type Kind int

const (
	KindWord           Kind = iota // Renderable word
	KindParagraphBreak             // Structural break, rendered as a timed pause
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindParagraphBreak:
		return "paragraph_break"
	default:
		return "unknown"
	}
}

// Token is a single entry of the display sequence.
// Tokens are values and never change after tokenization.
type Token struct {
	Kind Kind
	Text string // Empty for paragraph breaks
}

// Word returns a word token.
func Word(text string) Token {
	return Token{Kind: KindWord, Text: text}
}

// ParagraphBreak returns a paragraph break token.
func ParagraphBreak() Token {
	return Token{Kind: KindParagraphBreak}
}

// IsBreak returns true if the token is a paragraph break.
func (t Token) IsBreak() bool {
	return t.Kind == KindParagraphBreak
}

// String returns the text form of the token as it appears in normalized text.
func (t Token) String() string {
	if t.IsBreak() {
		return ParagraphMarker
	}
	return t.Text
}

// Tokenize splits normalized text into display tokens.
// Runs of whitespace separate tokens and an isolated ParagraphMarker becomes a break.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		if f == ParagraphMarker {
			tokens = append(tokens, ParagraphBreak())
			continue
		}
		tokens = append(tokens, Word(f))
	}
	return tokens
}

// Join renders tokens back into normalized text.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// CountWords returns the number of word tokens.
func CountWords(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		if !t.IsBreak() {
			n++
		}
	}
	return n
}
