package logger

import (
	"log/slog"
	"strconv"
)

// DefaultMaxValueLen is the default cap for string attribute values.
// Command lines may carry values up to the bulk limit.
const DefaultMaxValueLen = 256

// shortenAttr truncates long string values, keeping the head and noting how
// many bytes were cut.
func shortenAttr(a slog.Attr, maxLen int) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	s := a.Value.String()
	if len(s) <= maxLen {
		return a
	}
	return slog.String(a.Key, s[:maxLen]+"...("+strconv.Itoa(len(s)-maxLen)+" more bytes)")
}
