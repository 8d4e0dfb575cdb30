package language

import (
	"strings"

	xlanguage "golang.org/x/text/language"
)

type entry struct {
	code2   string   // ISO 639-1 (2-letter)
	code3   string   // ISO 639-2 primary (3-letter)
	alt3    string   // ISO 639-2 alternate (e.g. "fre" vs "fra")
	display string   // Human-readable name
	words   []string // Full word forms (e.g. "french")
}

// Only Latin-script languages are listed: the tokenizer splits on whitespace
// and punctuation and has no segmentation model for other scripts.
var languages = []entry{
	{"fr", "fra", "fre", "French", []string{"french", "francais"}},
	{"en", "eng", "", "English", []string{"english"}},
	{"es", "spa", "", "Spanish", []string{"spanish"}},
	{"it", "ita", "", "Italian", []string{"italian"}},
	{"pt", "por", "", "Portuguese", []string{"portuguese"}},
	{"de", "deu", "ger", "German", []string{"german"}},
	{"nl", "nld", "dut", "Dutch", []string{"dutch"}},
	{"ca", "cat", "", "Catalan", []string{"catalan"}},
}

var (
	byCode2 map[string]*entry
	byCode3 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byCode3 = make(map[string]*entry, len(languages)*2)
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		byCode3[e.code3] = e
		if e.alt3 != "" {
			byCode3[e.alt3] = e
		}
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byCode3[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	// BCP 47 tags such as "fr-FR" or "pt_BR".
	if tag, err := xlanguage.Parse(strings.ReplaceAll(code, "_", "-")); err == nil {
		base, _ := tag.Base()
		if e, ok := byCode2[base.String()]; ok {
			return e
		}
	}
	return nil
}

// Supported reports whether the tokenizer has rules for the language.
func Supported(code string) bool {
	return lookup(code) != nil
}

// ToISO2 converts any recognized language code, word, or tag to ISO 639-1.
// Returns empty string for unrecognized input.
func ToISO2(code string) string {
	if e := lookup(code); e != nil {
		return e.code2
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// Tag returns the x/text language tag for a recognized code, or
// language.Und when the code is unknown.
func Tag(code string) xlanguage.Tag {
	e := lookup(code)
	if e == nil {
		return xlanguage.Und
	}
	return xlanguage.Make(e.code2)
}
