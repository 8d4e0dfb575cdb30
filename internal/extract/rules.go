package extract

import "regexp"

// Rule is a single named rewrite applied during region cleanup.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// Apply rewrites every match of the rule's pattern.
func (r Rule) Apply(text string) string {
	return r.Pattern.ReplaceAllString(text, r.Replace)
}

// applyRules runs rules in order, feeding each result into the next rule.
func applyRules(text string, rules []Rule) string {
	for _, rule := range rules {
		text = rule.Apply(text)
	}
	return text
}

// space matches the whitespace characters the corpus uses between words,
// including the non-breaking variants that appear in typeset summaries.
const space = `[\s\v\x{85}\p{Z}]`

var (
	eligiblePattern = regexp.MustCompile(`(?s)<CONTENU>.*</CONTENU>\n</BLOC.*<ANA.*>.*</ANA>`)
	contentPattern  = regexp.MustCompile(`(?s)<CONTENU>(.*?)</CONTENU>\n</BLOC`)
	analysisPattern = regexp.MustCompile(`(?s)(<ANA.*?>.*?)</ANA>`)
)

// ContentRules clean the decision text found between the content tags.
var ContentRules = []Rule{
	{Name: "strip_markup", Pattern: regexp.MustCompile(`<p>|</p>|<br.*?/>|null`), Replace: ""},
	{Name: "leading_newline", Pattern: regexp.MustCompile(`^\n`), Replace: ""},
	{Name: "newline_runs", Pattern: regexp.MustCompile(`\n+`), Replace: "\n"},
	{Name: "trailing_newline", Pattern: regexp.MustCompile(`\n$`), Replace: ""},
}

// SummaryRules clean the analysis regions, either joined or one at a time.
var SummaryRules = []Rule{
	{Name: "strip_markup", Pattern: regexp.MustCompile(`<ANA.*?>|<b>|</b>|null`), Replace: ""},
	{Name: "space_runs", Pattern: regexp.MustCompile(` +`), Replace: " "},
	{Name: "line_breaks", Pattern: regexp.MustCompile(space + space + `+|\n `), Replace: "\n"},
	{Name: "leading_newline", Pattern: regexp.MustCompile(`^\n`), Replace: ""},
	{Name: "newline_runs", Pattern: regexp.MustCompile(`\n+`), Replace: "\n"},
	{Name: "trailing_newline", Pattern: regexp.MustCompile(`\n$`), Replace: ""},
}
