package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/speedreader/internal/domain/token"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "paragraph break",
			input:    "Hello   world\n\nfoo",
			expected: "Hello world ¶ foo",
		},
		{
			name:     "single newline becomes space",
			input:    "line one\nline two",
			expected: "line one line two",
		},
		{
			name:     "crlf and indentation around newlines",
			input:    "first\r\n\t\r\n  second",
			expected: "first ¶ second",
		},
		{
			name:     "many newlines collapse into one marker",
			input:    "a\n\n\n\n\nb",
			expected: "a ¶ b",
		},
		{
			name:     "trimmed",
			input:    "\n\n  padded  \n",
			expected: "¶ padded",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "decomposed accents are composed",
			input:    "cafe\u0301 au lait",
			expected: "caf\u00e9 au lait",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestText_TokenizesWithBreaks(t *testing.T) {
	tokens := token.Tokenize(Text("Hello   world\n\nfoo"))
	assert.Equal(t, []token.Token{
		token.Word("Hello"),
		token.Word("world"),
		token.ParagraphBreak(),
		token.Word("foo"),
	}, tokens)
}
