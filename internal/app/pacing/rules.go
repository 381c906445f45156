package pacing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/osa030/speedreader/internal/domain/token"
)

// Multipliers applied to the base delay.
const (
	MultiplierNormal    = 1
	MultiplierClause    = 2
	MultiplierSentence  = 3
	MultiplierParagraph = 3
)

// DefaultAbbreviations are title abbreviations that do not end a sentence.
var DefaultAbbreviations = []string{
	"Dr", "Mr", "Mrs", "Ms", "Prof", "Sr", "Jr", "St", "vs",
	"Mt", "Gen", "Col", "Lt", "Capt", "Rev", "Hon",
}

// Rule decides the delay multiplier of a token.
type Rule interface {
	// Name returns the rule name (used in logs).
	Name() string
	// Multiplier returns the multiplier and true when the rule applies to the token.
	Multiplier(t token.Token) (int, bool)
}

// Chain evaluates rules in order. The first matching rule decides the multiplier.
type Chain struct {
	rules []Rule
}

// NewChain creates a new rule chain.
func NewChain(rules ...Rule) *Chain {
	return &Chain{rules: rules}
}

// Add adds a rule to the end of the chain.
func (c *Chain) Add(r Rule) {
	c.rules = append(c.rules, r)
}

// Evaluate returns the multiplier of the first matching rule and its name.
// Tokens no rule matches get MultiplierNormal.
func (c *Chain) Evaluate(t token.Token) (int, string) {
	for _, r := range c.rules {
		if m, ok := r.Multiplier(t); ok {
			return m, r.Name()
		}
	}
	return MultiplierNormal, "normal"
}

// Rules returns all rules in the chain.
func (c *Chain) Rules() []Rule {
	return c.rules
}

// ParagraphRule holds paragraph breaks.
type ParagraphRule struct{}

func (ParagraphRule) Name() string { return "paragraph" }

func (ParagraphRule) Multiplier(t token.Token) (int, bool) {
	return MultiplierParagraph, t.IsBreak()
}

// ExclamationRule holds words ending a sentence with ! or ?.
type ExclamationRule struct{}

func (ExclamationRule) Name() string { return "exclamation" }

func (ExclamationRule) Multiplier(t token.Token) (int, bool) {
	if t.IsBreak() {
		return 0, false
	}
	return MultiplierSentence, strings.HasSuffix(t.Text, "!") || strings.HasSuffix(t.Text, "?")
}

// SentenceRule holds words ending with a period, except abbreviations.
type SentenceRule struct {
	abbreviations map[string]struct{}
}

// NewSentenceRule creates a sentence rule with the given title abbreviations
// (without the trailing period).
func NewSentenceRule(abbreviations []string) *SentenceRule {
	set := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		a = strings.TrimSuffix(strings.TrimSpace(a), ".")
		if a == "" {
			continue
		}
		set[strings.ToLower(a)] = struct{}{}
	}
	return &SentenceRule{abbreviations: set}
}

func (r *SentenceRule) Name() string { return "sentence" }

func (r *SentenceRule) Multiplier(t token.Token) (int, bool) {
	if t.IsBreak() || !strings.HasSuffix(t.Text, ".") {
		return 0, false
	}
	if r.IsAbbreviation(t.Text) {
		return 0, false
	}
	return MultiplierSentence, true
}

// IsAbbreviation reports whether a period-terminated word is an initial ("J."),
// dotted initials ("U.S.", "e.g.") or a known title abbreviation ("Dr.").
func (r *SentenceRule) IsAbbreviation(word string) bool {
	stem := strings.TrimSuffix(word, ".")
	if stem == "" {
		return false
	}

	if isInitials(stem) {
		return true
	}

	_, ok := r.abbreviations[strings.ToLower(stem)]
	return ok
}

// isInitials reports whether every dot-separated segment is a single letter or digit.
func isInitials(stem string) bool {
	for _, seg := range strings.Split(stem, ".") {
		if utf8.RuneCountInString(seg) != 1 {
			return false
		}
		r, _ := utf8.DecodeRuneInString(seg)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ClauseRule holds words ending with , or ; and words joined by dashes.
type ClauseRule struct{}

func (ClauseRule) Name() string { return "clause" }

func (ClauseRule) Multiplier(t token.Token) (int, bool) {
	if t.IsBreak() {
		return 0, false
	}
	text := strings.TrimRightFunc(t.Text, unicode.IsSpace)
	if strings.HasSuffix(text, ",") || strings.HasSuffix(text, ";") {
		return MultiplierClause, true
	}
	if strings.Contains(t.Text, "—") || strings.Contains(t.Text, "--") {
		return MultiplierClause, true
	}
	return 0, false
}

// DefaultChain returns the standard rule order with the given abbreviations.
func DefaultChain(abbreviations []string) *Chain {
	return NewChain(
		ParagraphRule{},
		ExclamationRule{},
		NewSentenceRule(abbreviations),
		ClauseRule{},
	)
}
