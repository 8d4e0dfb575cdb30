package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"cassprep/internal/config"
	"cassprep/internal/extract"
	"cassprep/internal/faults"
	"cassprep/internal/textnorm"
	"cassprep/internal/tokenize"
)

// Tokenizer splits text into whitespace-joinable tokens. Line breaks are
// returned as tokenize.Newline.
type Tokenizer interface {
	Tokenize(text string) []string
}

// markerLine matches a separator line in an existing story.
var markerLine = regexp.MustCompile(`(?im)^[ \t]*` + regexp.QuoteMeta(textnorm.Marker) + `[ \t]*$`)

// Assembler turns an extracted record into story text.
type Assembler struct {
	tokenizer  Tokenizer
	normalizer *textnorm.Normalizer
	layout     string
}

// NewAssembler validates layout and returns an Assembler.
func NewAssembler(tok Tokenizer, norm *textnorm.Normalizer, layout string) (*Assembler, error) {
	switch layout {
	case config.LayoutMarkerOnce, config.LayoutMarkerPerFragment:
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, "pipeline", "select layout",
			fmt.Sprintf("unknown layout %q", layout), nil)
	}
	return &Assembler{tokenizer: tok, normalizer: norm, layout: layout}, nil
}

// Story renders the record. With marker_once the body is followed by a single
// marker and the fragments one per line; with marker_per_fragment each
// fragment gets its own marker.
func (a *Assembler) Story(rec extract.Record) string {
	fragments := rec.Fragments
	if len(fragments) == 0 && rec.Summary != "" {
		fragments = []string{rec.Summary}
	}
	return a.assemble(a.clean(rec.Body), a.cleanAll(fragments))
}

// Text tokenizes and normalizes an already assembled story. Lines holding
// only the marker split it into body and summary sections; a story without
// one is normalized as plain text.
func (a *Assembler) Text(text string) string {
	sections := markerLine.Split(text, -1)
	if len(sections) == 1 {
		return a.normalizer.Normalize(a.clean(text))
	}
	return a.assemble(a.clean(sections[0]), a.cleanAll(sections[1:]))
}

// assemble joins cleaned body and fragment text around the marker and
// normalizes the result for the configured layout.
func (a *Assembler) assemble(body string, fragments []string) string {
	if a.layout == config.LayoutMarkerPerFragment {
		var b strings.Builder
		b.WriteString(strings.TrimRight(a.normalizer.Normalize(body), "\n"))
		for _, fragment := range fragments {
			b.WriteString(a.normalizer.Normalize(join([]string{textnorm.Marker, tokenize.Newline, fragment})))
		}
		return b.String()
	}

	parts := []string{body, tokenize.Newline, textnorm.Marker, tokenize.Newline}
	for i, fragment := range fragments {
		if i > 0 {
			parts = append(parts, tokenize.Newline)
		}
		parts = append(parts, fragment)
	}
	return a.normalizer.Normalize(join(parts))
}

// clean tokenizes text and strips marker-like words, so the only marker in
// the output is the one assemble inserts.
func (a *Assembler) clean(text string) string {
	return a.normalizer.Clean(join(a.tokenizer.Tokenize(text)))
}

// cleanAll cleans each fragment and drops those left empty.
func (a *Assembler) cleanAll(fragments []string) []string {
	out := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if c := a.clean(fragment); strings.TrimSpace(c) != "" {
			out = append(out, c)
		}
	}
	return out
}

func join(tokens []string) string {
	return strings.Join(tokens, " ")
}
