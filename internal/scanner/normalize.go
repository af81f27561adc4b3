package scanner

import "strings"

// Strip replaces the interior of string literals, character literals and
// comments with spaces so that downstream pattern matchers only ever see
// real code tokens. The output has exactly the same length and newline
// positions as the input: newlines inside block comments survive, and a
// match offset in the stripped text counts lines correctly against the
// original.
//
// Single left-to-right scan, four mutually exclusive states, no
// backtracking. A backslash-escaped quote does not terminate a literal.
func Strip(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	const (
		stNormal = iota
		stString
		stChar
		stLineComment
		stBlockComment
	)

	state := stNormal
	escaped := false

	for i := 0; i < len(src); i++ {
		c := src[i]

		switch state {
		case stNormal:
			switch {
			case c == '"':
				state = stString
				escaped = false
				b.WriteByte(' ')
			case c == '\'':
				state = stChar
				escaped = false
				b.WriteByte(' ')
			case c == '/' && i+1 < len(src) && src[i+1] == '/':
				state = stLineComment
				b.WriteByte(' ')
			case c == '/' && i+1 < len(src) && src[i+1] == '*':
				state = stBlockComment
				b.WriteString("  ")
				i++
			default:
				b.WriteByte(c)
			}

		case stString, stChar:
			quote := byte('"')
			if state == stChar {
				quote = '\''
			}
			switch {
			case escaped:
				escaped = false
				b.WriteByte(' ')
			case c == '\\':
				escaped = true
				b.WriteByte(' ')
			case c == quote:
				state = stNormal
				b.WriteByte(' ')
			case c == '\n':
				// Unterminated literal on this line; keep line structure.
				b.WriteByte('\n')
			default:
				b.WriteByte(' ')
			}

		case stLineComment:
			if c == '\n' {
				state = stNormal
				b.WriteByte('\n')
			} else {
				b.WriteByte(' ')
			}

		case stBlockComment:
			switch {
			case c == '*' && i+1 < len(src) && src[i+1] == '/':
				state = stNormal
				b.WriteString("  ")
				i++
			case c == '\n':
				b.WriteByte('\n')
			default:
				b.WriteByte(' ')
			}
		}
	}

	return b.String()
}
