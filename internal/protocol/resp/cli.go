package resp

import (
	"strconv"
	"strings"
)

// ErrorMarker is the leading token of every failed reply in text form.
// Callers classify a reply as failed by this prefix alone, so it must not change.
const ErrorMarker = "(error)"

// IsError reports whether a rendered reply marks a failure.
func IsError(text string) bool {
	return strings.HasPrefix(text, ErrorMarker)
}

// Render formats a reply the way redis-cli prints it on a terminal:
//
//	OK
//	(integer) 3
//	"value"
//	(nil)
//	1) "a"
//	2) "b"
//	(empty array)
//	(error) ERR syntax error
func Render(r Reply) string {
	var b strings.Builder
	render(&b, r, "")
	return b.String()
}

func render(b *strings.Builder, r Reply, indent string) {
	switch r.Kind {
	case KindStatus:
		b.WriteString(r.Str)
	case KindError:
		b.WriteString(ErrorMarker)
		b.WriteByte(' ')
		b.WriteString(r.Str)
	case KindInteger:
		b.WriteString("(integer) ")
		b.WriteString(strconv.FormatInt(r.Int, 10))
	case KindBulk:
		b.WriteString(Quote(r.Str))
	case KindNil:
		b.WriteString("(nil)")
	case KindVerbatim:
		b.WriteString(strings.TrimRight(r.Str, "\r\n"))
	case KindArray:
		renderArray(b, r.Items, indent)
	}
}

func renderArray(b *strings.Builder, items []Reply, indent string) {
	if len(items) == 0 {
		b.WriteString("(empty array)")
		return
	}

	// Right-align indexes like redis-cli: " 9) ..." and "10) ..." line up.
	width := len(strconv.Itoa(len(items)))
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
			b.WriteString(indent)
		}
		idx := strconv.Itoa(i + 1)
		b.WriteString(strings.Repeat(" ", width-len(idx)))
		b.WriteString(idx)
		b.WriteString(") ")
		render(b, item, indent+strings.Repeat(" ", width+2))
	}
}

// Quote returns s in double quotes, escaping it the way redis-cli does:
// backslash, quote and common control characters get C escapes, other
// non-printable bytes become \xHH.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if c < 0x20 || c == 0x7f {
				b.WriteString(`\x`)
				b.WriteByte(hexDigits[c>>4])
				b.WriteByte(hexDigits[c&0x0f])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

const hexDigits = "0123456789abcdef"
