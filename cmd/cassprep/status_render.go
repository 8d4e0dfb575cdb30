package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const ansiReset = "\x1b[0m"

// statusStyles is indexed by statusKind.
var statusStyles = [...]struct {
	label string
	color string
}{
	statusInfo:  {"INFO", "\x1b[34m"},
	statusOK:    {"OK", "\x1b[32m"},
	statusWarn:  {"WARN", "\x1b[33m"},
	statusError: {"ERROR", "\x1b[31m"},
}

const (
	statusLabelWidth = 12
	statusIndent     = "  "
)

// renderStatusLine formats "  Label:      [OK] message", colored as a whole
// when colorize is set.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	var b strings.Builder
	fmt.Fprintf(&b, "%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.label)
	if message != "" {
		b.WriteString(" " + message)
	}
	if !colorize {
		return b.String()
	}
	return style.color + b.String() + ansiReset
}

func renderSectionHeader(title string, colorize bool) []string {
	heading := "== " + strings.TrimSpace(title) + " =="
	lines := []string{heading, strings.Repeat("-", len(heading))}
	if colorize {
		for i := range lines {
			lines[i] = statusStyles[statusInfo].color + lines[i] + ansiReset
		}
	}
	return lines
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
