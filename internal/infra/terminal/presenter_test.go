package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/osa030/speedreader/internal/app/playback"
)

func TestPresenter_FocusColumnIsFixed(t *testing.T) {
	p := NewPresenter(&bytes.Buffer{})

	p.WordChanged("h", "e", "llo")
	first := p.Line()
	p.WordChanged("pre", "s", "entation")
	second := p.Line()

	assert.Equal(t, 12, strings.Index(first, "ello"))
	assert.Equal(t, 12, strings.Index(second, "sentation"))
}

func TestPresenter_Counter(t *testing.T) {
	p := NewPresenter(&bytes.Buffer{}, WithTotal(1235))

	p.RateChanged(450)
	p.StatusChanged(playback.StatePlaying)
	p.Progress(1)

	assert.True(t, strings.HasSuffix(p.Line(), "1,235 / 1,235  450 WPM  playing"), p.Line())

	p.Progress(0)
	assert.Contains(t, p.Line(), "1 / 1,235")
}

func TestPresenter_EmptyArticle(t *testing.T) {
	p := NewPresenter(&bytes.Buffer{})
	p.WordChanged("", "", "")
	assert.Contains(t, p.Line(), "0 / 0")
}

func TestPresenter_Language(t *testing.T) {
	p := NewPresenter(&bytes.Buffer{}, WithLanguage(language.German), WithTotal(2000))
	p.Progress(0)
	assert.Contains(t, p.Line(), "1 / 2.000")
}

func TestPresenter_WritesControlSequences(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(&buf, WithColor(true))

	p.WordChanged("w", "o", "rd")
	assert.True(t, strings.HasPrefix(buf.String(), clearLine))
	assert.Contains(t, buf.String(), focusOn+"o"+focusOff)

	buf.Reset()
	p.StatusChanged(playback.StateFinished)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
