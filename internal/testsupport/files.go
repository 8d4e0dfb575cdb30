package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Decision builds a minimal markup document with the given body and analysis
// regions, laid out the way the archive exports them.
func Decision(body string, analyses ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<TEXTE_JURI_JUDI>\n<BLOC_TEXTUEL>\n<CONTENU>")
	b.WriteString(body)
	b.WriteString("</CONTENU>\n</BLOC_TEXTUEL>\n<SOMMAIRE>\n")
	for i, analysis := range analyses {
		fmt.Fprintf(&b, "<ANA ID=\"%d\">%s</ANA>\n", i+1, analysis)
	}
	b.WriteString("</SOMMAIRE>\n</TEXTE_JURI_JUDI>\n")
	return b.String()
}

// WriteDocument writes content to dir/name, creating parent directories.
func WriteDocument(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	mkdir(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// ReadLines returns the non-empty lines of a list file.
func ReadLines(t testing.TB, path string) []string {
	t.Helper()

	var lines []string
	for _, line := range strings.Split(ReadFile(t, path), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func mkdir(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
}
