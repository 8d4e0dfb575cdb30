package tokenize

// rules holds the language-specific exceptions to the generic splitting.
type rules struct {
	// elisions are lower-cased word prefixes ending in an apostrophe that are
	// emitted as their own token ("l'", "qu'").
	elisions []string
	// clitics are lower-cased suffixes starting with an apostrophe that are
	// emitted as their own token ("'s", "n't").
	clitics []string
	// abbreviations keep their trailing period. They complement the Punkt
	// model with legal forms it never learned ("civ.", "soc.", "préc.").
	abbreviations map[string]struct{}
}

func set(words ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

var rulesByLanguage = map[string]rules{
	"fr": {
		elisions: []string{"jusqu'", "lorsqu'", "puisqu'", "quoiqu'", "qu'", "l'", "d'", "j'", "m'", "n'", "s'", "t'", "c'"},
		abbreviations: set(
			"al.", "art.", "arts.", "av.", "bd.", "c.", "cass.", "cf.", "ch.", "civ.",
			"com.", "crim.", "etc.", "ibid.", "m.", "mm.", "mme.", "mmes.", "mlle.",
			"n.", "no.", "obs.", "p.", "pp.", "préc.", "soc.", "ss.", "v.", "vol.",
		),
	},
	"en": {
		clitics: []string{"n't", "'s", "'re", "'ll", "'ve", "'d", "'m"},
		abbreviations: set(
			"art.", "cf.", "co.", "dr.", "e.g.", "etc.", "i.e.", "inc.", "jr.", "ltd.",
			"mr.", "mrs.", "ms.", "no.", "p.", "pp.", "sec.", "st.", "v.", "vs.",
		),
	},
	"it": {
		elisions:      []string{"dell'", "dall'", "nell'", "sull'", "all'", "quest'", "un'", "l'", "d'"},
		abbreviations: set("art.", "artt.", "cfr.", "ecc.", "n.", "pag.", "sig.", "v."),
	},
	"ca": {
		elisions:      []string{"l'", "d'", "s'", "n'", "m'", "t'"},
		abbreviations: set("art.", "etc.", "núm.", "pàg.", "sr.", "sra."),
	},
	"es": {
		abbreviations: set("art.", "arts.", "etc.", "núm.", "pág.", "sr.", "sra.", "sres."),
	},
	"pt": {
		abbreviations: set("art.", "arts.", "etc.", "n.", "nº.", "pág.", "sr.", "sra."),
	},
	"de": {
		abbreviations: set("abs.", "art.", "bzw.", "ca.", "d.h.", "etc.", "nr.", "s.", "usw.", "vgl.", "z.b."),
	},
	"nl": {
		abbreviations: set("art.", "bijv.", "blz.", "dhr.", "enz.", "mevr.", "nr.", "o.a."),
	},
}
