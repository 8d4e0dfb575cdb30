package logging

import "strings"

// shortRunIDLen is the prefix length shown for run identifiers in console
// output; `cassprep runs show` accepts the same prefix.
const shortRunIDLen = 8

// FormatSubject builds the "component · run · doc" prefix used in console output.
func FormatSubject(component, runID, docID string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if runID = strings.TrimSpace(runID); runID != "" {
		if len(runID) > shortRunIDLen {
			runID = runID[:shortRunIDLen]
		}
		parts = append(parts, "run "+runID)
	}
	if docID = strings.TrimSpace(docID); docID != "" {
		parts = append(parts, docID)
	}
	return strings.Join(parts, " · ")
}
