package json5

import (
	"errors"
	"math"
	"math/big"
	"strconv"
)

// numeric is the widest lossless result of the number lexer. Integer sign
// and magnitude stay separate; big is set when the magnitude needs more
// than 64 bits and never exceeds 128 bits.
type numeric struct {
	float bool
	f     float64
	neg   bool
	mag   uint64
	big   *big.Int
}

// Integer literal caps. Unsigned magnitudes stay below 2^128; negative
// magnitudes may reach 2^127 so the most negative 128-bit value parses.
var (
	magCapUnsigned = new(big.Int).Lsh(big.NewInt(1), 128)
	magCapNegative = new(big.Int).Lsh(big.NewInt(1), 127)
)

// emit hands the number to exactly one builder capability: Float, Uint for
// non-negative integers, Int for negatives fitting int64, BigInt beyond.
func (n numeric) emit(b Builder) error {
	switch {
	case n.float:
		return b.Float(n.f)
	case n.big != nil:
		v := new(big.Int).Set(n.big)
		if n.neg {
			v.Neg(v)
		}
		return b.BigInt(v)
	case n.neg && n.mag == 1<<63:
		return b.Int(math.MinInt64)
	case n.neg && n.mag <= math.MaxInt64:
		return b.Int(-int64(n.mag))
	case n.neg:
		v := new(big.Int).SetUint64(n.mag)
		return b.BigInt(v.Neg(v))
	default:
		return b.Uint(n.mag)
	}
}

// scanNumber lexes one JSON5 number: optional sign, the Infinity and NaN
// keywords, hex integers, or the decimal production.
func (s *scanner) scanNumber() (numeric, error) {
	start := s.off
	var n numeric
	r, ok := s.peek()
	if !ok {
		return n, s.errAt(newError(CodeEOFParsingNumber), len(s.src))
	}
	if r == '+' || r == '-' {
		n.neg = r == '-'
		s.next()
		r, ok = s.peek()
		if !ok {
			return n, s.errAt(newError(CodeEOFParsingNumber), len(s.src))
		}
	}
	switch r {
	case 'I':
		if err := s.expectWord("Infinity", CodeExpectedNumber, CodeEOFParsingNumber); err != nil {
			return n, err
		}
		n.float = true
		n.f = math.Inf(1)
		if n.neg {
			n.f = math.Inf(-1)
		}
		return n, nil
	case 'N':
		if err := s.expectWord("NaN", CodeExpectedNumber, CodeEOFParsingNumber); err != nil {
			return n, err
		}
		n.float = true
		n.f = math.NaN()
		if n.neg {
			n.f = math.Copysign(n.f, -1)
		}
		return n, nil
	}
	if r == '0' && s.off+1 < len(s.src) {
		switch s.src[s.off+1] {
		case 'x', 'X':
			return s.scanHex(start, n)
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return n, s.errAt(newError(CodeLeadingZero), start)
		}
	}
	return s.scanDecimal(start, n)
}

// scanHex accumulates hex digits into an arbitrary-precision magnitude and
// rejects the digit that pushes it past 128 bits.
func (s *scanner) scanHex(start int, n numeric) (numeric, error) {
	s.off += 2 // 0x
	mag := new(big.Int)
	sixteen := big.NewInt(16)
	digit := new(big.Int)
	count := 0
	for {
		r, ok := s.peek()
		if !ok {
			break
		}
		d, isHex := hexDigitValue(r)
		if !isHex {
			break
		}
		digitOff := s.off
		s.next()
		mag.Mul(mag, sixteen).Add(mag, digit.SetInt64(int64(d)))
		if mag.BitLen() > 128 {
			return n, s.errAt(newError(CodeOverflowParsingNumber), digitOff)
		}
		count++
	}
	if count == 0 {
		if s.off >= len(s.src) {
			return n, s.errAt(newError(CodeEOFParsingNumber), len(s.src))
		}
		return n, s.errAt(newError(CodeExpectedNumber), s.off)
	}
	if n.neg && mag.Cmp(magCapNegative) > 0 {
		return n, s.errAt(newError(CodeOverflowParsingNumber), start)
	}
	if mag.IsUint64() {
		n.mag = mag.Uint64()
	} else {
		n.big = mag
	}
	return n, nil
}

// scanDecimal consumes the decimal production greedily and delegates the
// conversion to the standard routines. A literal is a float iff it
// contains '.', 'e' or 'E'.
func (s *scanner) scanDecimal(start int, n numeric) (numeric, error) {
	textStart := s.off // sign already consumed
	isFloat := false
loop:
	for {
		r, ok := s.peek()
		if !ok {
			break
		}
		switch {
		case isDecimalDigit(r):
		case r == '.' || r == 'e' || r == 'E':
			isFloat = true
		case r == '+' || r == '-':
		default:
			break loop
		}
		s.next()
	}
	text := s.src[textStart:s.off]
	if text == "" {
		return n, s.errAt(newError(CodeExpectedNumber), textStart)
	}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return n, s.errAt(customError("cannot parse %q as a number", text), start)
		}
		// Overflow to an infinity is an error, underflow to zero is not;
		// the Infinity keyword is the only spelling of an infinite value.
		if math.IsInf(f, 0) {
			return n, s.errAt(customError("number %q too large", text), start)
		}
		n.float = true
		n.f = f
		if n.neg {
			n.f = -f
		}
		return n, nil
	}
	if u, err := strconv.ParseUint(text, 10, 64); err == nil {
		n.mag = u
		return n, nil
	}
	// big.Int.SetString tolerates sign prefixes ParseUint already rejected
	if text[0] == '+' || text[0] == '-' {
		return n, s.errAt(customError("cannot parse %q as a number", text), start)
	}
	mag, ok := new(big.Int).SetString(text, 10)
	if !ok {
		return n, s.errAt(customError("cannot parse %q as a number", text), start)
	}
	if n.neg && mag.Cmp(magCapNegative) > 0 {
		return n, s.errAt(customError("number %q out of range", text), start)
	}
	if !n.neg && mag.Cmp(magCapUnsigned) >= 0 {
		return n, s.errAt(customError("number %q out of range", text), start)
	}
	n.big = mag
	return n, nil
}
