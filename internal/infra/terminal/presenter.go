// Package terminal renders reader output on a text terminal.
package terminal

import (
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osa030/speedreader/internal/app/playback"
	"github.com/osa030/speedreader/internal/app/progress"
)

const (
	clearLine = "\r\033[K"
	focusOn   = "\033[1;31m"
	focusOff  = "\033[0m"
)

// Presenter writes the current word on a single line so that the focus letter
// stays in a fixed column.
type Presenter struct {
	mu sync.Mutex

	out     io.Writer
	printer *message.Printer
	color   bool
	column  int // Column of the focus letter

	before, focus, after string
	fraction             float64
	rate                 int
	status               playback.State
	total                int
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithColor highlights the focus letter with ANSI colors.
func WithColor(enabled bool) Option {
	return func(p *Presenter) { p.color = enabled }
}

// WithLanguage selects the language used to format numbers.
func WithLanguage(tag language.Tag) Option {
	return func(p *Presenter) { p.printer = message.NewPrinter(tag) }
}

// WithTotal sets the token count shown in the position counter.
func WithTotal(total int) Option {
	return func(p *Presenter) { p.total = total }
}

// NewPresenter creates a presenter writing to out.
func NewPresenter(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:     out,
		printer: message.NewPrinter(language.English),
		column:  12,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetTotal updates the token count shown in the position counter.
func (p *Presenter) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// WordChanged implements reader.Presenter.
func (p *Presenter) WordChanged(before, focus, after string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.before, p.focus, p.after = before, focus, after
	p.renderLocked()
}

// Progress implements reader.Presenter.
func (p *Presenter) Progress(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fraction = fraction
	p.renderLocked()
}

// RateChanged implements reader.Presenter.
func (p *Presenter) RateChanged(rate int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate
	p.renderLocked()
}

// StatusChanged implements reader.Presenter.
func (p *Presenter) StatusChanged(status playback.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
	p.renderLocked()
	if status == playback.StateFinished {
		_, _ = io.WriteString(p.out, "\n")
	}
}

// Line returns the text of the current line without control sequences.
func (p *Presenter) Line() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lineLocked(false)
}

func (p *Presenter) renderLocked() {
	_, _ = io.WriteString(p.out, clearLine+p.lineLocked(p.color))
}

func (p *Presenter) lineLocked(color bool) string {
	// Pad so the focus letter lands in the same column for every word.
	pad := max(p.column-utf8.RuneCountInString(p.before), 0)
	visible := pad + utf8.RuneCountInString(p.before+p.focus+p.after)
	trail := max(p.column+20-visible, 2)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(p.before)
	if color {
		b.WriteString(focusOn + p.focus + focusOff)
	} else {
		b.WriteString(p.focus)
	}
	b.WriteString(p.after)
	b.WriteString(strings.Repeat(" ", trail))

	position := 0
	if p.total > 0 {
		position = progress.FractionToIndex(p.fraction, p.total) + 1
	}
	b.WriteString(p.printer.Sprintf("%d / %d  %d WPM  %s", position, p.total, p.rate, p.status))
	return b.String()
}
