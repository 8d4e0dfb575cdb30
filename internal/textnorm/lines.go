package textnorm

import (
	"regexp"
	"strings"
)

// endTokens force a line break when followed by whitespace.
var endTokens = []string{";", "!", "?"}

var (
	// "1 . 5" -> "1.5". The left side excludes '.' so "... . 5" is not
	// turned into a four-dot run.
	spacedPoint = regexp.MustCompile(`([^\s.]) \. (\d)`)
	// "1 , 000" -> "1,000"
	spacedComma = regexp.MustCompile(`(\d) , (\d)`)
	// " a ..." -> " a..."; also when the ellipsis landed on the next line.
	splitEllipsis = regexp.MustCompile(`( [^\s.])[ \n]\.\.\.`)

	spaceRun      = regexp.MustCompile(` +`)
	whitespaceRun = regexp.MustCompile(`\s\s+`)
	newlineRun    = regexp.MustCompile(`\n+`)
	markerLine    = regexp.MustCompile(`\s*` + regexp.QuoteMeta(Marker) + `\s*`)

	endTokenBreaks = compileEndTokens(endTokens)
)

type endTokenBreak struct {
	pattern *regexp.Regexp
	repl    string
}

func compileEndTokens(tokens []string) []endTokenBreak {
	out := make([]endTokenBreak, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, endTokenBreak{
			pattern: regexp.MustCompile(` ` + regexp.QuoteMeta(tok) + `\s+`),
			repl:    " " + tok + "\n",
		})
	}
	return out
}

// maxRepairPasses bounds RepairLines. Real text settles after one or two
// passes.
const maxRepairPasses = 8

// RepairLines fixes tokenizer artifacts around ellipses, decimals, and
// sentence terminals, collapses whitespace, and puts the marker on its own
// line. A rule can expose a match for an earlier one (an un-escaped dot
// completing an ellipsis), so the pass repeats until the text is stable.
func RepairLines(text string) string {
	for range maxRepairPasses {
		next := repairPass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func repairPass(text string) string {
	text = unescape(text)
	text = spaceRun.ReplaceAllString(text, " ")
	text = repairEllipses(text)
	text = replaceUntilStable(spacedPoint, text, "${1}.${2}")
	text = replaceUntilStable(spacedComma, text, "${1},${2}")
	for _, brk := range endTokenBreaks {
		text = brk.pattern.ReplaceAllString(text, brk.repl)
	}
	text = spaceRun.ReplaceAllString(text, " ")
	text = whitespaceRun.ReplaceAllString(text, "\n")
	text = replaceUntilStable(splitEllipsis, text, "${1}...")
	text = newlineRun.ReplaceAllString(text, "\n")
	return markerLine.ReplaceAllString(text, "\n"+Marker+"\n")
}

// unescape drops the backslash of "\." and "\?" until none is left, so a
// doubled backslash does not leave a fresh escape behind.
func unescape(text string) string {
	for strings.Contains(text, `\.`) || strings.Contains(text, `\?`) {
		text = strings.ReplaceAll(text, `\.`, ".")
		text = strings.ReplaceAll(text, `\?`, "?")
	}
	return text
}

// repairEllipses splits four-dot runs into "... ." and joins spaced dots
// into "...", repeating while longer dot runs keep producing new matches.
func repairEllipses(text string) string {
	for range len(text) + 1 {
		next := strings.ReplaceAll(text, "....", "... .")
		next = strings.ReplaceAll(next, ". . .", "...")
		if next == text {
			break
		}
		text = next
	}
	return text
}

// replaceUntilStable emulates look-around rules: a match consumes its
// neighbours, so overlapping occurrences need another pass. Replacements only
// delete characters, so the loop ends.
func replaceUntilStable(re *regexp.Regexp, text, repl string) string {
	for {
		next := re.ReplaceAllString(text, repl)
		if next == text {
			return next
		}
		text = next
	}
}
