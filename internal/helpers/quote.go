package helpers

import (
	"strings"
	"unicode/utf8"
)

const hexChars = "0123456789ABCDEF"

// QuoteForJSON returns "text" as a double-quoted string literal that is valid
// both as JSON and as JavaScript. Line separators are escaped too since older
// engines treat them as line terminators inside string literals.
func QuoteForJSON(text string) string {
	sb := strings.Builder{}
	sb.Grow(len(text) + 2)
	sb.WriteByte('"')

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width

		switch c {
		case '\b':
			sb.WriteString("\\b")
		case '\f':
			sb.WriteString("\\f")
		case '\n':
			sb.WriteString("\\n")
		case '\r':
			sb.WriteString("\\r")
		case '\t':
			sb.WriteString("\\t")
		case '\\':
			sb.WriteString("\\\\")
		case '"':
			sb.WriteString("\\\"")
		case '\u2028', '\u2029', '\uFEFF':
			writeUnicodeEscape(&sb, c)
		default:
			if c < 0x20 || (c == utf8.RuneError && width == 1) {
				writeUnicodeEscape(&sb, c)
			} else {
				sb.WriteRune(c)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}

func writeUnicodeEscape(sb *strings.Builder, c rune) {
	sb.WriteString("\\u")
	sb.WriteByte(hexChars[(c>>12)&15])
	sb.WriteByte(hexChars[(c>>8)&15])
	sb.WriteByte(hexChars[(c>>4)&15])
	sb.WriteByte(hexChars[c&15])
}
