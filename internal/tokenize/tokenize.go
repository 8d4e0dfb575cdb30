package tokenize

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"

	"cassprep/internal/faults"
	"cassprep/internal/language"
	"cassprep/internal/textnorm"
)

// Newline is the token emitted for a whitespace run containing a line break.
const Newline = "\n"

const ellipsis = "..."

// Tokenizer splits text using the rules of one language.
type Tokenizer struct {
	lang    string
	rules   rules
	learned sentences.SetString
}

// New returns a tokenizer for the given language code, word, or BCP 47 tag.
func New(code string) (*Tokenizer, error) {
	iso := language.ToISO2(code)
	if iso == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "tokenize", "select language",
			"no tokenizer rules for language "+code, nil)
	}
	learned, err := punktAbbreviations(iso)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{lang: iso, rules: rulesByLanguage[iso], learned: learned}, nil
}

// Language returns the ISO 639-1 code the tokenizer was built for.
func (t *Tokenizer) Language() string {
	return t.lang
}

// Tokenize returns the tokens of text in order. Whitespace is dropped except
// for line breaks, which become a single Newline token between the tokens
// they separate.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	pendingBreak := false
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = t.splitChunk(text[start:i], tokens)
				start = -1
			}
			if r == '\n' && len(tokens) > 0 {
				pendingBreak = true
			}
			continue
		}
		if start < 0 {
			if pendingBreak {
				tokens = append(tokens, Newline)
				pendingBreak = false
			}
			start = i
		}
	}
	if start >= 0 {
		tokens = t.splitChunk(text[start:], tokens)
	}
	return tokens
}

// splitChunk peels punctuation, elisions, and clitics off a whitespace-free
// chunk and appends the resulting tokens to out.
func (t *Tokenizer) splitChunk(chunk string, out []string) []string {
	var suffixes []string
	for chunk != "" {
		if t.isException(chunk) {
			out = append(out, chunk)
			break
		}
		r, size := utf8.DecodeRuneInString(chunk)
		if isOpening(r) {
			out = append(out, chunk[:size])
			chunk = chunk[size:]
			continue
		}
		if prefix, ok := t.elision(chunk); ok {
			out = append(out, chunk[:len(prefix)])
			chunk = chunk[len(prefix):]
			continue
		}
		if len(chunk) > len(ellipsis) && strings.HasSuffix(chunk, ellipsis) {
			suffixes = append(suffixes, ellipsis)
			chunk = chunk[:len(chunk)-len(ellipsis)]
			continue
		}
		last, lastSize := utf8.DecodeLastRuneInString(chunk)
		if isClosing(last) && len(chunk) > lastSize {
			suffixes = append(suffixes, chunk[len(chunk)-lastSize:])
			chunk = chunk[:len(chunk)-lastSize]
			continue
		}
		if suffix, ok := t.clitic(chunk); ok {
			suffixes = append(suffixes, chunk[len(chunk)-len(suffix):])
			chunk = chunk[:len(chunk)-len(suffix)]
			continue
		}
		out = append(out, chunk)
		break
	}
	for i := len(suffixes) - 1; i >= 0; i-- {
		out = append(out, suffixes[i])
	}
	return out
}

func (t *Tokenizer) isException(chunk string) bool {
	if chunk == ellipsis || chunk == "…" {
		return true
	}
	lower := strings.ToLower(chunk)
	if lower == textnorm.Marker {
		return true
	}
	if _, ok := t.rules.abbreviations[lower]; ok {
		return true
	}
	if t.learnedAbbreviation(lower) {
		return true
	}
	folded := foldApostrophe(lower)
	if slices.Contains(t.rules.elisions, folded) || slices.Contains(t.rules.clitics, folded) {
		return true
	}
	return isInitialism(lower)
}

// elision reports a leading elided article. The remainder must start with a
// letter so that a quoted "l'" stays whole.
func (t *Tokenizer) elision(chunk string) (string, bool) {
	folded := foldApostrophe(strings.ToLower(chunk))
	for _, prefix := range t.rules.elisions {
		if !strings.HasPrefix(folded, prefix) {
			continue
		}
		n := prefixBytes(chunk, prefix)
		rest, _ := utf8.DecodeRuneInString(chunk[n:])
		if n < len(chunk) && unicode.IsLetter(rest) {
			return chunk[:n], true
		}
	}
	return "", false
}

func (t *Tokenizer) clitic(chunk string) (string, bool) {
	folded := foldApostrophe(strings.ToLower(chunk))
	for _, suffix := range t.rules.clitics {
		if strings.HasSuffix(folded, suffix) && len(folded) > len(suffix) {
			return chunk[len(chunk)-suffixBytes(chunk, suffix):], true
		}
	}
	return "", false
}

// prefixBytes returns the byte length in chunk of a rune-counted prefix,
// accounting for typographic apostrophes that are wider than "'".
func prefixBytes(chunk, prefix string) int {
	n := utf8.RuneCountInString(prefix)
	i := 0
	for pos := range chunk {
		if i == n {
			return pos
		}
		i++
	}
	return len(chunk)
}

func suffixBytes(chunk, suffix string) int {
	n := utf8.RuneCountInString(suffix)
	end := len(chunk)
	for ; n > 0 && end > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(chunk[:end])
		end -= size
	}
	return len(chunk) - end
}

var apostrophes = strings.NewReplacer("’", "'", "ʼ", "'")

func foldApostrophe(s string) string {
	return apostrophes.Replace(s)
}

// isInitialism matches dotted capitals such as "s.a." or "u.s.a.".
func isInitialism(lower string) bool {
	if len(lower) < 4 {
		return false
	}
	letters := 0
	for i, r := range lower {
		if i%2 == 1 {
			if r != '.' {
				return false
			}
			continue
		}
		if r < 'a' || r > 'z' {
			return false
		}
		letters++
	}
	return letters >= 2 && strings.HasSuffix(lower, ".")
}

func isOpening(r rune) bool {
	switch r {
	case '(', '[', '{', '"', '\'', '«', '“', '‘', '„', '¿', '¡', '@', '<':
		return true
	}
	return false
}

func isClosing(r rune) bool {
	switch r {
	case ')', ']', '}', '"', '\'', '»', '”', '’', ',', ';', ':', '!', '?', '.', '%', '…', '>':
		return true
	}
	return false
}
