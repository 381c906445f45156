package pacing

import (
	"time"

	"github.com/osa030/speedreader/internal/domain/token"
)

// Pacer computes display hold times from a rule chain.
type Pacer struct {
	chain *Chain
}

// NewPacer creates a pacer using the default rule order and the given abbreviations.
// A nil slice selects DefaultAbbreviations.
func NewPacer(abbreviations []string) *Pacer {
	if abbreviations == nil {
		abbreviations = DefaultAbbreviations
	}
	return &Pacer{chain: DefaultChain(abbreviations)}
}

// NewPacerWithChain creates a pacer from a custom rule chain.
func NewPacerWithChain(chain *Chain) *Pacer {
	return &Pacer{chain: chain}
}

// Delay returns how long the token stays on screen at the given rate.
// Only one multiplier applies per token.
func (p *Pacer) Delay(t token.Token, rate int) time.Duration {
	m, _ := p.chain.Evaluate(t)
	return BaseDelay(rate) * time.Duration(m)
}

// Explain returns the delay and the name of the rule that decided it.
func (p *Pacer) Explain(t token.Token, rate int) (time.Duration, string) {
	m, name := p.chain.Evaluate(t)
	return BaseDelay(rate) * time.Duration(m), name
}

var defaultPacer = NewPacer(nil)

// Delay returns the hold time of a token using the default rules.
func Delay(t token.Token, rate int) time.Duration {
	return defaultPacer.Delay(t, rate)
}
