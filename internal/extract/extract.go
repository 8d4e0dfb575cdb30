package extract

import (
	"strings"
	"unicode"
)

// Reason names why a document produced no usable record.
type Reason string

// Rejection reasons reported by Record.Check.
const (
	ReasonNone         Reason = ""
	ReasonNoRegions    Reason = "no_regions"
	ReasonEmptyBody    Reason = "empty_body"
	ReasonEmptySummary Reason = "empty_summary"
)

// Reasons lists every rejection reason in reporting order.
var Reasons = []Reason{ReasonNoRegions, ReasonEmptyBody, ReasonEmptySummary}

// Record is the body and summary pulled from one document.
type Record struct {
	ID      string
	Body    string
	Summary string
	// Fragments holds each analysis region cleaned on its own, empty ones
	// dropped. Summary is the cleaned concatenation of the same regions.
	Fragments []string

	matched bool
}

// Check reports ReasonNone when the record can be emitted.
func (r Record) Check() Reason {
	switch {
	case !r.matched:
		return ReasonNoRegions
	case !hasText(r.Body):
		return ReasonEmptyBody
	case !hasText(r.Summary) || len(r.Fragments) == 0:
		return ReasonEmptySummary
	default:
		return ReasonNone
	}
}

// Accepted reports whether Check found nothing wrong.
func (r Record) Accepted() bool {
	return r.Check() == ReasonNone
}

// Extract pulls the body and summary out of raw markup. The id is carried
// through unchanged.
func Extract(id, raw string) Record {
	rec := Record{ID: id}
	if !eligiblePattern.MatchString(raw) {
		return rec
	}
	rec.matched = true

	content := contentPattern.FindStringSubmatch(raw)
	if content == nil {
		return rec
	}
	rec.Body = applyRules(content[1], ContentRules)
	if !hasText(rec.Body) {
		return rec
	}

	regions := analysisRegions(raw)
	rec.Summary = applyRules(strings.Join(regions, "\n"), SummaryRules)
	for _, region := range regions {
		fragment := applyRules(region, SummaryRules)
		if hasText(fragment) {
			rec.Fragments = append(rec.Fragments, fragment)
		}
	}
	return rec
}

func analysisRegions(raw string) []string {
	matches := analysisPattern.FindAllStringSubmatch(raw, -1)
	regions := make([]string, 0, len(matches))
	for _, m := range matches {
		regions = append(regions, m[1])
	}
	return regions
}

func hasText(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0
}
