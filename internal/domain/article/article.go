// Package article provides the Article domain entity.
package article

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/osa030/speedreader/internal/domain/normalize"
	"github.com/osa030/speedreader/internal/domain/token"
)

// Article represents extracted article content ready for presentation.
// Text is whitespace-normalized with isolated paragraph markers.
type Article struct {
	Title string `mapstructure:"title" validate:"max=1024"`
	Text  string `mapstructure:"text"`
}

// New creates an article from raw text, normalizing it.
func New(title, raw string) Article {
	return Article{
		Title: strings.TrimSpace(title),
		Text:  normalize.Text(raw),
	}
}

// Tokens returns the display sequence of the article.
func (a Article) Tokens() []token.Token {
	return token.Tokenize(a.Text)
}

// WordCount returns the number of words, excluding paragraph markers.
func (a Article) WordCount() int {
	return token.CountWords(a.Tokens())
}

// FromPreloaded decodes a pre-loaded article payload ({"title": ..., "text": ...}).
// The text is normalized again so payloads from older producers are accepted as well.
func FromPreloaded(payload map[string]any) (Article, error) {
	if payload == nil {
		return Article{}, errors.New("preloaded article is empty")
	}

	var a Article
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &a,
		TagName:     "mapstructure",
		ErrorUnused: false,
	})
	if err != nil {
		return Article{}, errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(payload); err != nil {
		return Article{}, errors.Wrap(err, "failed to decode preloaded article")
	}

	validate := validator.New()
	if err := validate.Struct(a); err != nil {
		return Article{}, errors.Wrap(err, "preloaded article validation failed")
	}

	return New(a.Title, a.Text), nil
}

// FromFile reads a plain-text file as an article.
// When title is empty the file name without extension is used.
func FromFile(path, title string) (Article, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Article{}, errors.Wrapf(err, "failed to read article file %s", path)
	}

	if strings.TrimSpace(title) == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return New(title, string(data)), nil
}
