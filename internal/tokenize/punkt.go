package tokenize

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/data"

	"cassprep/internal/faults"
	"cassprep/internal/language"
)

// punktAbbreviations returns the abbreviation types learned by the Punkt
// model bundled for the language, stored lower-case without the final
// period. Languages without a bundled model get nil.
func punktAbbreviations(iso string) (sentences.SetString, error) {
	name := strings.ToLower(language.DisplayName(iso))
	raw, err := data.Asset("data/" + name + ".json")
	if err != nil {
		return nil, nil
	}
	storage, err := sentences.LoadTraining(raw)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "tokenize", "load punkt model", name, err)
	}
	return storage.AbbrevTypes, nil
}

// learnedAbbreviation reports whether lower is a known abbreviation followed
// by its period, such as "ex." or "env.".
func (t *Tokenizer) learnedAbbreviation(lower string) bool {
	word, ok := strings.CutSuffix(lower, ".")
	if !ok || word == "" || strings.HasSuffix(word, ".") {
		return false
	}
	_, found := t.learned[word]
	return found
}
