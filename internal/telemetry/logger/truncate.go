package logger

import (
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// DefaultMaxValueLen is the longest string value logged verbatim.
const DefaultMaxValueLen = 256

// truncateAttr shortens string values longer than maxLen, recursing into
// groups.
func truncateAttr(a slog.Attr, maxLen int) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if s := a.Value.String(); len(s) > maxLen {
			return slog.String(a.Key, Truncate(s, maxLen))
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = truncateAttr(attr, maxLen)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// Truncate returns s cut to at most maxLen bytes on a rune boundary, with a
// suffix giving the original length.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}

// Preview renders a binary payload for logging: quoted, with control bytes
// escaped, and truncated to maxLen bytes of input.
func Preview(b []byte, maxLen int) string {
	if len(b) > maxLen {
		return strconv.Quote(string(b[:maxLen])) + "...(" + strconv.Itoa(len(b)) + " bytes)"
	}
	return strconv.Quote(string(b))
}
