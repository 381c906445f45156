// Package normalize converts extracted article text into the whitespace-normalized
// form consumed by the tokenizer.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/osa030/speedreader/internal/domain/token"
)

var (
	spaceAroundNewline = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	paragraphBreaks    = regexp.MustCompile(`\n{2,}`)
	repeatedSpaces     = regexp.MustCompile(` {2,}`)
)

// Text normalizes raw extracted text.
//
// Two or more consecutive newlines become an isolated paragraph marker surrounded by
// single spaces. Remaining newlines become spaces, runs of spaces collapse to one and
// the result is trimmed. The text is also brought into Unicode NFC form so that
// composed and decomposed input produce identical words.
func Text(raw string) string {
	text := norm.NFC.String(raw)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceAroundNewline.ReplaceAllString(text, "\n")
	text = paragraphBreaks.ReplaceAllString(text, " "+token.ParagraphMarker+" ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = repeatedSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
