package article

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/speedreader/internal/domain/token"
)

func TestNew(t *testing.T) {
	a := New("  Title  ", "First paragraph.\n\nSecond one")

	assert.Equal(t, "Title", a.Title)
	assert.Equal(t, "First paragraph. ¶ Second one", a.Text)
	assert.Equal(t, 4, a.WordCount())
	assert.Equal(t, []token.Token{
		token.Word("First"),
		token.Word("paragraph."),
		token.ParagraphBreak(),
		token.Word("Second"),
		token.Word("one"),
	}, a.Tokens())
}

func TestFromPreloaded(t *testing.T) {
	tests := []struct {
		name      string
		payload   map[string]any
		wantErr   bool
		wantTitle string
		wantText  string
	}{
		{
			name:      "title and text",
			payload:   map[string]any{"title": "News", "text": "a b\n\nc"},
			wantTitle: "News",
			wantText:  "a b ¶ c",
		},
		{
			name:      "extra fields are ignored",
			payload:   map[string]any{"title": "News", "text": "a", "wordCount": 1},
			wantTitle: "News",
			wantText:  "a",
		},
		{
			name:      "missing text yields empty article",
			payload:   map[string]any{"title": "Empty"},
			wantTitle: "Empty",
			wantText:  "",
		},
		{
			name:    "nil payload",
			payload: nil,
			wantErr: true,
		},
		{
			name:    "wrong type for text",
			payload: map[string]any{"text": []int{1, 2}},
			wantErr: true,
		},
		{
			name:    "title too long",
			payload: map[string]any{"title": strings.Repeat("x", 2000), "text": "a"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := FromPreloaded(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, a.Title)
			assert.Equal(t, tt.wantText, a.Text)
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "essay.txt")
	require.NoError(t, os.WriteFile(path, []byte("One two.\n\nThree."), 0o644))

	a, err := FromFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, "essay", a.Title)
	assert.Equal(t, "One two. ¶ Three.", a.Text)

	a, err = FromFile(path, "Custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom", a.Title)

	_, err = FromFile(filepath.Join(dir, "missing.txt"), "")
	assert.Error(t, err)
}
