package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// markerPlaceholder cannot occur in folded ASCII text.
const markerPlaceholder = "\x00HIGHLIGHT\x00"

// typography maps common non-ASCII punctuation and ligatures found in French
// legal text to ASCII before the remaining non-ASCII runes are dropped.
var typography = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"«", "\"",
	"»", "\"",
	"“", "\"",
	"”", "\"",
	"–", "-",
	"—", "-",
	"…", "...",
	"\u00a0", " ",
	"\u202f", " ",
	"œ", "oe",
	"Œ", "OE",
	"æ", "ae",
	"Æ", "AE",
)

var markerPattern = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(Marker))

// StripAccents decomposes the text, drops combining marks and any remaining
// non-ASCII rune, then collapses the marker so at most one occurrence
// survives.
func StripAccents(text string) string {
	return CollapseMarkers(foldASCII(text))
}

// foldASCII maps typography to ASCII first, since the ligatures and quotes it
// covers have no decomposition, then removes combining marks and every rune
// still outside ASCII.
func foldASCII(text string) string {
	text = typography.Replace(text)
	ascii := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	stripped, _, err := transform.String(ascii, text)
	if err != nil {
		// transform only fails on malformed transformer chains; keep the input.
		return text
	}
	return stripped
}

// CollapseMarkers keeps the first marker, deletes every other occurrence, and
// moves text that follows the marker on the same line onto the next line.
func CollapseMarkers(text string) string {
	text = strings.Replace(text, Marker, markerPlaceholder, 1)
	text = strings.ReplaceAll(text, Marker, "")
	text = strings.ReplaceAll(text, markerPlaceholder, Marker)
	return strings.ReplaceAll(text, "\n"+Marker+" ", "\n"+Marker+"\n")
}

// StripMarker removes marker-like substrings regardless of case, including
// those formed by the removal itself ("@high@highlightlight").
func StripMarker(text string) string {
	return replaceUntilStable(markerPattern, text, "")
}
