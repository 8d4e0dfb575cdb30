package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Marker separates the body from the summary in canonical output.
const Marker = "@highlight"

// Normalizer applies case folding, accent stripping, and line repair.
// It is not safe for concurrent use.
type Normalizer struct {
	caser            cases.Caser
	fixMissingPeriod bool
}

// Option customizes a Normalizer.
type Option func(*Normalizer)

// WithLanguage selects language-specific lower casing rules.
func WithLanguage(tag language.Tag) Option {
	return func(n *Normalizer) {
		n.caser = cases.Lower(tag)
	}
}

// WithMissingPeriodRepair appends " ." to lines that do not end a sentence.
func WithMissingPeriodRepair(enabled bool) Option {
	return func(n *Normalizer) {
		n.fixMissingPeriod = enabled
	}
}

// New returns a Normalizer using language-neutral casing unless overridden.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{caser: cases.Lower(language.Und)}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize runs every step in order.
func (n *Normalizer) Normalize(text string) string {
	text = n.Fold(text)
	text = StripAccents(text)
	text = RepairLines(text)
	if n.fixMissingPeriod {
		text = FixMissingPeriods(text)
	}
	return text
}

// Fold lower-cases the text.
func (n *Normalizer) Fold(text string) string {
	return n.caser.String(text)
}

// Clean folds text to the lower-case ASCII form Normalize produces and
// removes every marker-like substring, including those that only appear after
// folding ("@HİGHLİGHT", "contact@hïghlight.fr"). Run it on body and summary
// text before the separating marker is inserted.
func (n *Normalizer) Clean(text string) string {
	return StripMarker(foldASCII(n.Fold(text)))
}

// FixMissingPeriods appends " ." to every non-empty line that is not the
// marker and does not already end with a sentence terminal.
func FixMissingPeriods(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = fixMissingPeriod(line)
	}
	return strings.Join(lines, "\n")
}

func fixMissingPeriod(line string) string {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.Contains(line, Marker) {
		return line
	}
	if strings.ContainsAny(line[len(line)-1:], ".;!?") {
		return line
	}
	return line + " ."
}
