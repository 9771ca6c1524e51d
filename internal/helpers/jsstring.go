package helpers

import (
	"strings"
	"unicode/utf8"
)

// DecodeStringLiteral returns the value of a JavaScript string literal given
// its raw source text including the surrounding quotes. It reports false for
// text that is not a well-formed single or double quoted literal.
func DecodeStringLiteral(raw string) (string, bool) {
	if len(raw) < 2 || (raw[0] != '"' && raw[0] != '\'') || raw[len(raw)-1] != raw[0] {
		return "", false
	}
	text := raw[1 : len(raw)-1]
	if !strings.ContainsRune(text, '\\') {
		return text, true
	}

	sb := strings.Builder{}
	sb.Grow(len(text))
	var pendingHigh rune

	flushHigh := func() {
		if pendingHigh != 0 {
			sb.WriteRune(utf8.RuneError)
			pendingHigh = 0
		}
	}

	for i := 0; i < len(text); {
		c, width := utf8.DecodeRuneInString(text[i:])
		i += width
		if c != '\\' {
			flushHigh()
			sb.WriteRune(c)
			continue
		}
		if i >= len(text) {
			return "", false
		}

		c2, width2 := utf8.DecodeRuneInString(text[i:])
		i += width2
		var value rune

		switch c2 {
		case 'b':
			value = '\b'
		case 'f':
			value = '\f'
		case 'n':
			value = '\n'
		case 'r':
			value = '\r'
		case 't':
			value = '\t'
		case 'v':
			value = '\v'

		case '\r':
			// Line continuations produce nothing
			if i < len(text) && text[i] == '\n' {
				i++
			}
			continue
		case '\n', '\u2028', '\u2029':
			continue

		case '0', '1', '2', '3', '4', '5', '6', '7':
			// Legacy octal escapes of up to three digits, capped at 0377
			value = c2 - '0'
			for digits := 1; digits < 3 && i < len(text) && text[i] >= '0' && text[i] <= '7'; digits++ {
				next := value*8 + rune(text[i]-'0')
				if next > 0377 {
					break
				}
				value = next
				i++
			}

		case 'x':
			v, ok := parseHex(text, i, 2)
			if !ok {
				return "", false
			}
			value = v
			i += 2

		case 'u':
			if i < len(text) && text[i] == '{' {
				end := strings.IndexByte(text[i:], '}')
				if end < 2 {
					return "", false
				}
				v, ok := parseHex(text, i+1, end-1)
				if !ok || v > utf8.MaxRune {
					return "", false
				}
				value = v
				i += end + 1
			} else {
				v, ok := parseHex(text, i, 4)
				if !ok {
					return "", false
				}
				value = v
				i += 4
			}

		default:
			value = c2
		}

		// Join "\uD83D\uDE00" style surrogate pairs back into one code point
		if value >= 0xD800 && value <= 0xDBFF {
			flushHigh()
			pendingHigh = value
			continue
		}
		if value >= 0xDC00 && value <= 0xDFFF && pendingHigh != 0 {
			sb.WriteRune((pendingHigh-0xD800)<<10 | (value - 0xDC00) + 0x10000)
			pendingHigh = 0
			continue
		}
		flushHigh()
		sb.WriteRune(value)
	}

	flushHigh()
	return sb.String(), true
}

func parseHex(text string, start int, count int) (rune, bool) {
	if count <= 0 || start+count > len(text) {
		return 0, false
	}
	value := rune(0)
	for _, c := range text[start : start+count] {
		switch {
		case c >= '0' && c <= '9':
			value = value*16 | (c - '0')
		case c >= 'a' && c <= 'f':
			value = value*16 | (c + 10 - 'a')
		case c >= 'A' && c <= 'F':
			value = value*16 | (c + 10 - 'A')
		default:
			return 0, false
		}
	}
	return value, true
}
