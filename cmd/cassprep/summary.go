package main

import (
	"fmt"
	"io"
	"strings"

	"cassprep/internal/extract"
	"cassprep/internal/faults"
	"cassprep/internal/logging"
	"cassprep/internal/pipeline"
)

// renderPassSummary prints the outcome of an extract, tokenize, or split pass.
func renderPassSummary(w io.Writer, command, destination string, result pipeline.Result, runErr error) {
	colorize := shouldColorize(w)
	lines := renderSectionHeader(command+" "+logging.FormatSubject("", result.RunID, ""), colorize)
	t := result.Tally

	if command != pipeline.CommandSplit {
		lines = append(lines, renderStatusLine("Accepted", statusOK, fmt.Sprintf("%d", t.Accepted), colorize))
		if rejected := t.Rejected(); rejected > 0 {
			parts := make([]string, 0, len(extract.Reasons))
			for _, reason := range extract.Reasons {
				if n := t.Rejections(reason); n > 0 {
					parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
				}
			}
			lines = append(lines, renderStatusLine("Rejected", statusWarn,
				fmt.Sprintf("%d (%s)", rejected, strings.Join(parts, ", ")), colorize))
		}
		stories := fmt.Sprintf("%d in %s", t.ExpectedStories(), destination)
		if t.Overwritten > 0 {
			stories += fmt.Sprintf(", %d overwritten", t.Overwritten)
		}
		lines = append(lines, renderStatusLine("Stories", statusInfo, stories, colorize))
	}

	if s := t.Split; s.Assigned() > 0 || s.Unassigned > 0 {
		kind := statusInfo
		msg := fmt.Sprintf("train=%d validation=%d test=%d", s.Train, s.Validation, s.Test)
		if s.Unassigned > 0 {
			kind = statusWarn
			msg += fmt.Sprintf(" unassigned=%d", s.Unassigned)
		}
		if s.Duplicates > 0 {
			msg += fmt.Sprintf(" duplicates=%d", s.Duplicates)
		}
		lines = append(lines, renderStatusLine("Split", kind, msg, colorize))
	}

	if runErr != nil {
		lines = append(lines, renderStatusLine("Status", statusError, faults.Kind(runErr), colorize))
	} else {
		lines = append(lines, renderStatusLine("Status", statusOK, "", colorize))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
