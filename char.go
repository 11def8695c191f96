package json5

import "unicode"

// Code points JSON5 singles out beyond ASCII, spelled numerically so they
// stay visible in source.
const (
	runeNBSP = 0x00A0 // no-break space
	runeZWNJ = 0x200C // zero-width non-joiner
	runeZWJ  = 0x200D // zero-width joiner
	runeLS   = 0x2028 // line separator
	runePS   = 0x2029 // paragraph separator
	runeBOM  = 0xFEFF
)

// isWhitespace reports whether r is JSON5 whitespace: the JSON set plus
// vertical tab, form feed, non-breaking space, the BOM, the two JS line
// separators, and every Unicode space separator.
func isWhitespace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', runeNBSP, runeLS, runePS, runeBOM:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}

// isLineTerminator reports whether r terminates a line comment or, raw and
// unescaped, a string literal. CR LF counts as a single terminator; the
// call sites handle the pairing.
func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', runeLS, runePS:
		return true
	}
	return false
}

// Identifier classification follows ECMAScript 5.1 IdentifierName as JSON5
// adopts it. Letters (Lu Ll Lt Lm Lo), letter numbers (Nl), $ and _ start
// an identifier; combining marks (Mn Mc), digits (Nd), connector
// punctuation (Pc) and the zero-width (non-)joiner may continue one.
func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.In(r, unicode.L, unicode.Nl)
}

func isIdentContinue(r rune) bool {
	if isIdentStart(r) || r == runeZWNJ || r == runeZWJ {
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc)
}

// isIdentifier reports whether s may appear unquoted as an object key.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
		} else if !isIdentContinue(r) {
			return false
		}
	}
	return true
}

func isDecimalDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func hexDigitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}

// escapeSequence returns the escape written for r inside a string
// delimited by delim, or "" when r passes through verbatim. Output only
// escapes the delimiter, the backslash, raw line terminators and the two
// JS line separators.
func escapeSequence(delim, r rune) string {
	switch r {
	case delim:
		if delim == '\'' {
			return `\'`
		}
		return `\"`
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case runeLS:
		return `\u2028`
	case runePS:
		return `\u2029`
	}
	return ""
}
