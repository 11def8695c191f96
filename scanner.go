package json5

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// scanner is an exclusive cursor over an immutable source string. off is a
// byte offset and always sits on a rune boundary; lexers slice src directly
// for text that needs no unescaping. Line and column bookkeeping is not
// maintained per character: positionAt rescans the prefix when an error or
// comment anchor actually materializes.
type scanner struct {
	src string
	off int

	keepComments bool
	pending      []string
}

func (s *scanner) peek() (rune, bool) {
	if s.off >= len(s.src) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.off:])
	return r, true
}

func (s *scanner) next() (rune, bool) {
	if s.off >= len(s.src) {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s.src[s.off:])
	s.off += size
	return r, true
}

// skipSpace consumes whitespace and comments. Comment text accumulates in
// pending until the parser claims it for the next structural anchor. A
// lone slash is left in place for the caller to reject.
func (s *scanner) skipSpace() error {
	for {
		r, ok := s.peek()
		if !ok {
			return nil
		}
		switch {
		case isWhitespace(r):
			s.next()
		case r == '/':
			consumed, err := s.scanComment()
			if err != nil {
				return err
			}
			if !consumed {
				return nil
			}
		default:
			return nil
		}
	}
}

// scanComment consumes one comment starting at a slash, or reports that
// the slash does not open a comment.
func (s *scanner) scanComment() (bool, error) {
	if s.off+1 >= len(s.src) {
		return false, nil
	}
	switch s.src[s.off+1] {
	case '/':
		s.off += 2
		start := s.off
		for {
			r, ok := s.peek()
			if !ok || isLineTerminator(r) {
				break
			}
			s.next()
		}
		s.recordLineComment(s.src[start:s.off])
		return true, nil
	case '*':
		s.off += 2
		end := strings.Index(s.src[s.off:], "*/")
		if end < 0 {
			s.off = len(s.src)
			return true, s.errAt(newError(CodeEOFParsingComment), len(s.src))
		}
		body := s.src[s.off : s.off+end]
		s.off += end + 2
		s.recordBlockComment(body)
		return true, nil
	}
	return false, nil
}

func (s *scanner) recordLineComment(text string) {
	if !s.keepComments {
		return
	}
	s.pending = append(s.pending, strings.TrimPrefix(text, " "))
}

// recordBlockComment splits the body into lines and strips the leading
// whitespace and asterisk decoration each line carries inside a block.
func (s *scanner) recordBlockComment(body string) {
	if !s.keepComments {
		return
	}
	lines := splitCommentLines(body)
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t")
		line = strings.TrimLeft(line, "*")
		line = strings.TrimPrefix(line, " ")
		lines[i] = strings.TrimRight(line, " \t")
	}
	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	s.pending = append(s.pending, lines...)
}

func splitCommentLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineTerminator(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	return append(lines, text[start:])
}

// takeComments hands the accumulated comment lines to the caller and
// resets the buffer.
func (s *scanner) takeComments() []string {
	lines := s.pending
	s.pending = nil
	return lines
}

// expectWord consumes the exact keyword. A truncated keyword at end of
// input fails with eofCode; any other mismatch fails with code at the
// keyword's first byte.
func (s *scanner) expectWord(word string, code, eofCode ErrorCode) error {
	if strings.HasPrefix(s.src[s.off:], word) {
		s.off += len(word)
		return nil
	}
	rest := s.src[s.off:]
	if len(rest) < len(word) && strings.HasPrefix(word, rest) {
		s.off = len(s.src)
		return s.errAt(newError(eofCode), len(s.src))
	}
	return s.errAt(newError(code), s.off)
}

// positionAt resolves a byte offset to a 0-based line and column by
// rescanning the prefix. CR LF advances one line; the column counts code
// points since the last terminator.
func (s *scanner) positionAt(offset int) Position {
	if offset > len(s.src) {
		offset = len(s.src)
	}
	var pos Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRuneInString(s.src[i:])
		i += size
		if isLineTerminator(r) {
			if r == '\r' && i < offset && s.src[i] == '\n' {
				i++
			}
			pos.Line++
			pos.Column = 0
			continue
		}
		pos.Column++
	}
	return pos
}

// errAt resolves offset and attaches it to err unless err already carries
// a position. The first attachment wins, so the deepest failure site keeps
// its location and the prefix is rescanned at most once per parse.
func (s *scanner) errAt(err error, offset int) error {
	var e *Error
	if errors.As(err, &e) && e.Pos == nil {
		pos := s.positionAt(offset)
		e.Pos = &pos
	}
	return err
}
