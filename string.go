package json5

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// scanString lexes a quoted string. The result slices src directly until
// the first escape or line continuation forces an owned buffer.
func (s *scanner) scanString() (string, error) {
	delim, _ := s.next() // caller verified the quote
	lit := s.off
	var buf strings.Builder
	owned := false
	for {
		off := s.off
		r, ok := s.next()
		if !ok {
			return "", s.errAt(newError(CodeEOFParsingString), len(s.src))
		}
		switch {
		case r == delim:
			if !owned {
				return s.src[lit:off], nil
			}
			buf.WriteString(s.src[lit:off])
			return buf.String(), nil
		case r == '\\':
			owned = true
			buf.WriteString(s.src[lit:off])
			if err := s.scanEscape(&buf); err != nil {
				return "", err
			}
			lit = s.off
		case r == runeLS || r == runePS:
			// permitted raw, unlike LF and CR
		case isLineTerminator(r):
			return "", s.errAt(newError(CodeLineTerminatorInString), off)
		}
	}
}

// scanEscape decodes one escape sequence after the backslash and appends
// the result to buf. Errors position at the backslash.
func (s *scanner) scanEscape(buf *strings.Builder) error {
	escOff := s.off - 1
	r, ok := s.next()
	if !ok {
		return s.errAt(newError(CodeEOFParsingEscape), len(s.src))
	}
	switch r {
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'v':
		buf.WriteByte('\v')
	case '0':
		// \0 is NUL unless it starts to look octal
		if d, ok := s.peek(); ok && isDecimalDigit(d) {
			return s.errAt(newError(CodeInvalidEscapeSequence), escOff)
		}
		buf.WriteByte(0)
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.errAt(newError(CodeInvalidEscapeSequence), escOff)
	case 'x':
		cp, err := s.hexEscape(2, escOff)
		if err != nil {
			return err
		}
		buf.WriteRune(cp)
	case 'u':
		cp, err := s.hexEscape(4, escOff)
		if err != nil {
			return err
		}
		if !utf16.IsSurrogate(cp) {
			buf.WriteRune(cp)
			break
		}
		// a high surrogate must pair with an immediately following \u
		if !strings.HasPrefix(s.src[s.off:], `\u`) {
			return s.errAt(newError(CodeInvalidEscapeSequence), escOff)
		}
		s.off += 2
		lo, err := s.hexEscape(4, escOff)
		if err != nil {
			return err
		}
		combined := utf16.DecodeRune(cp, lo)
		if combined == utf8.RuneError {
			return s.errAt(newError(CodeInvalidEscapeSequence), escOff)
		}
		buf.WriteRune(combined)
	default:
		if isLineTerminator(r) {
			// line continuation: the terminator vanishes, CR LF as one
			if r == '\r' {
				if nl, ok := s.peek(); ok && nl == '\n' {
					s.next()
				}
			}
			break
		}
		// any other escaped character passes through verbatim
		buf.WriteRune(r)
	}
	return nil
}

// hexEscape reads exactly n hex digits and returns the code point. escOff
// is the escape's backslash, used for error positions.
func (s *scanner) hexEscape(n int, escOff int) (rune, error) {
	var cp rune
	for i := 0; i < n; i++ {
		r, ok := s.next()
		if !ok {
			return 0, s.errAt(newError(CodeEOFParsingEscape), len(s.src))
		}
		d, isHex := hexDigitValue(r)
		if !isHex {
			return 0, s.errAt(newError(CodeInvalidEscapeSequence), escOff)
		}
		cp = cp<<4 | rune(d)
	}
	return cp, nil
}

// scanIdentifier lexes an unquoted object key. \uXXXX escapes are decoded
// before classification, so an escape may begin or continue an identifier
// only when its code point could.
func (s *scanner) scanIdentifier() (string, error) {
	lit := s.off
	var buf strings.Builder
	owned := false
	first := true
	for {
		off := s.off
		r, ok := s.peek()
		if !ok {
			break
		}
		decoded := r
		escaped := false
		if r == '\\' {
			s.next()
			q, ok := s.next()
			if !ok {
				return "", s.errAt(newError(CodeEOFParsingEscape), len(s.src))
			}
			if q != 'u' {
				return "", s.errAt(newError(CodeInvalidEscapeSequence), off)
			}
			cp, err := s.hexEscape(4, off)
			if err != nil {
				return "", err
			}
			decoded = cp
			escaped = true
		}
		valid := isIdentContinue(decoded)
		if first {
			valid = isIdentStart(decoded)
		}
		if !valid {
			if escaped {
				return "", s.errAt(newError(CodeInvalidEscapeSequence), off)
			}
			if first {
				return "", s.errAt(newError(CodeExpectedKey), off)
			}
			break
		}
		if escaped {
			owned = true
			buf.WriteString(s.src[lit:off])
			buf.WriteRune(decoded)
			lit = s.off
		} else {
			s.next()
		}
		first = false
	}
	if !owned {
		return s.src[lit:s.off], nil
	}
	buf.WriteString(s.src[lit:s.off])
	return buf.String(), nil
}
