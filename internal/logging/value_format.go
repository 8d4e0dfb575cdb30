package logging

import (
	"log/slog"
	"strconv"
	"strings"
)

// attrString renders a value as plain text. Errors render their message and
// every other kind uses slog's own formatting.
func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.String()
}

// formatValue renders a console field value, quoting it when a reader could
// not tell where it ends ("reason=empty_body" stays bare, a path with a
// space does not).
func formatValue(v slog.Value) string {
	s := attrString(v)
	if s == "" || strings.ContainsFunc(s, breaksField) {
		return strconv.Quote(s)
	}
	return s
}

func breaksField(r rune) bool {
	return r <= ' ' || r == '=' || r == '"'
}
