package json5

import (
	"encoding/hex"
	"math"
	"math/big"
)

// DefaultMaxDepth bounds collection nesting for documents parsed without
// an explicit WithMaxDepth option.
const DefaultMaxDepth = 512

// Option configures a parse.
type Option func(*parser)

// WithMaxDepth caps collection nesting. Parsing deeper input fails with
// a DepthLimitExceeded error instead of exhausting the call stack.
func WithMaxDepth(n int) Option {
	return func(p *parser) { p.maxDepth = n }
}

// Builder receives the decoded form of one lexical value. The parser
// invokes exactly one capability per value; for collections the builder
// pulls sub-values from the cursor on demand and may stop early, in which
// case the parser consumes the remainder itself.
type Builder interface {
	Null() error
	Bool(bool) error
	Int(int64) error
	Uint(uint64) error
	BigInt(*big.Int) error
	Float(float64) error
	String(string) error
	Array(*ArrayCursor) error
	Object(*ObjectCursor) error
}

// Parse decodes one JSON5 document into the generic value graph: nil,
// bool, int64, uint64, *big.Int, float64, string, []any and *Object.
func Parse(src string, opts ...Option) (any, error) {
	var root valueBuilder
	if err := Decode(src, &root, opts...); err != nil {
		return nil, err
	}
	return root.value, nil
}

// ParseWithComments is Parse, additionally returning a table of the
// document's comments keyed by the structural position each one precedes.
// SerializeWithComments replays the table.
func ParseWithComments(src string, opts ...Option) (any, *Comments, error) {
	p := newParser(src, opts...)
	p.comments = newComments()
	p.scan.keepComments = true
	var root valueBuilder
	if err := p.run(&root); err != nil {
		return nil, nil, err
	}
	return root.value, p.comments, nil
}

// Decode parses one JSON5 document, handing each decoded value to b.
func Decode(src string, b Builder, opts ...Option) error {
	return newParser(src, opts...).run(b)
}

type parser struct {
	scan     *scanner
	maxDepth int
	depth    int
	comments *Comments
	path     []segment
}

func newParser(src string, opts ...Option) *parser {
	p := &parser{
		scan:     &scanner{src: src},
		maxDepth: DefaultMaxDepth,
		path:     []segment{{kind: segOpen}},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run parses the single document value and verifies that nothing but
// whitespace and comments follows it.
func (p *parser) run(b Builder) error {
	if err := p.scan.skipSpace(); err != nil {
		return err
	}
	p.claimComments()
	if err := p.value(b); err != nil {
		return err
	}
	if err := p.scan.skipSpace(); err != nil {
		return err
	}
	if _, ok := p.scan.peek(); ok {
		return p.scan.errAt(newError(CodeTrailingCharacters), p.scan.off)
	}
	p.path = append(p.path[:0], segment{kind: segEOF})
	p.claimComments()
	return nil
}

// claimComments moves the comment lines the scanner has accumulated into
// the table, keyed by the current structural path.
func (p *parser) claimComments() {
	if p.comments == nil {
		return
	}
	p.comments.add(encodePath(p.path), p.scan.takeComments())
}

// value dispatches on the first significant character and invokes exactly
// one capability of b. The caller has already skipped whitespace.
func (p *parser) value(b Builder) error {
	r, ok := p.scan.peek()
	if !ok {
		return p.scan.errAt(newError(CodeEOFParsingValue), len(p.scan.src))
	}
	switch {
	case r == 'n':
		if err := p.scan.expectWord("null", CodeExpectedNull, CodeEOFParsingValue); err != nil {
			return err
		}
		return b.Null()
	case r == 't':
		if err := p.scan.expectWord("true", CodeExpectedBool, CodeEOFParsingValue); err != nil {
			return err
		}
		return b.Bool(true)
	case r == 'f':
		if err := p.scan.expectWord("false", CodeExpectedBool, CodeEOFParsingValue); err != nil {
			return err
		}
		return b.Bool(false)
	case r == '"' || r == '\'':
		s, err := p.scan.scanString()
		if err != nil {
			return err
		}
		return b.String(s)
	case r == '[':
		return p.array(b)
	case r == '{':
		return p.object(b)
	case isNumberStart(r):
		n, err := p.scan.scanNumber()
		if err != nil {
			return err
		}
		return n.emit(b)
	}
	return p.scan.errAt(newError(CodeExpectedValue), p.scan.off)
}

func isNumberStart(r rune) bool {
	return r == '+' || r == '-' || r == '.' || r == 'I' || r == 'N' || isDecimalDigit(r)
}

func (p *parser) array(b Builder) error {
	cur, err := p.openArray()
	if err != nil {
		return err
	}
	if err := b.Array(cur); err != nil {
		return err
	}
	return cur.drain()
}

func (p *parser) openArray() (*ArrayCursor, error) {
	if p.depth >= p.maxDepth {
		return nil, p.scan.errAt(newError(CodeDepthLimitExceeded), p.scan.off)
	}
	p.depth++
	p.scan.next() // [
	return &ArrayCursor{p: p, base: len(p.path)}, nil
}

func (p *parser) object(b Builder) error {
	cur, err := p.openObject()
	if err != nil {
		return err
	}
	if err := b.Object(cur); err != nil {
		return err
	}
	return cur.drain()
}

func (p *parser) openObject() (*ObjectCursor, error) {
	if p.depth >= p.maxDepth {
		return nil, p.scan.errAt(newError(CodeDepthLimitExceeded), p.scan.off)
	}
	p.depth++
	p.scan.next() // {
	return &ObjectCursor{p: p, base: len(p.path)}, nil
}

// scanKey lexes an object key: a quoted string or an identifier.
func (p *parser) scanKey(r rune) (string, error) {
	if r == '"' || r == '\'' {
		return p.scan.scanString()
	}
	return p.scan.scanIdentifier()
}

// ArrayCursor yields the elements of one array on demand. The element
// count is unknown until the closing bracket is reached; callers needing
// it must buffer.
type ArrayCursor struct {
	p     *parser
	base  int // parser path length addressing this array
	index int
	value *ValueCursor
	done  bool
	after func() error
}

// Next advances to the next element, skipping the previous one if the
// caller left it unread. It returns nil, nil once the closing bracket has
// been consumed.
func (a *ArrayCursor) Next() (*ValueCursor, error) {
	if a.done {
		return nil, nil
	}
	if a.value != nil && !a.value.used {
		if err := a.value.Skip(); err != nil {
			return nil, err
		}
	}
	a.value = nil
	s := a.p.scan
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingArray), len(s.src))
	}
	if r == ']' {
		return nil, a.close()
	}
	if a.index > 0 {
		if r != ',' {
			return nil, s.errAt(newError(CodeExpectedCommaOrArrayEnd), s.off)
		}
		s.next()
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		r, ok = s.peek()
		if !ok {
			return nil, s.errAt(newError(CodeEOFParsingArray), len(s.src))
		}
		if r == ']' {
			return nil, a.close()
		}
	}
	a.p.path = append(a.p.path[:a.base], indexSegment(a.index))
	a.p.claimComments()
	a.index++
	a.value = &ValueCursor{p: a.p}
	return a.value, nil
}

func (a *ArrayCursor) close() error {
	a.p.path = append(a.p.path[:a.base], segment{kind: segClose})
	a.p.claimComments()
	a.p.path = a.p.path[:a.base]
	a.p.scan.next() // ]
	a.p.depth--
	a.done = true
	if a.after != nil {
		return a.after()
	}
	return nil
}

// drain consumes elements the builder did not ask for, through the
// closing bracket.
func (a *ArrayCursor) drain() error {
	for !a.done {
		vc, err := a.Next()
		if err != nil {
			return err
		}
		if vc == nil {
			return nil
		}
		if err := vc.Skip(); err != nil {
			return err
		}
	}
	return nil
}

// ObjectCursor yields the members of one object on demand: Next returns
// the next key, or nil once the closing brace has been consumed, and
// Value returns that key's value.
type ObjectCursor struct {
	p       *parser
	base    int
	index   int
	pending bool // Next returned a key whose Value has not been requested
	value   *ValueCursor
	done    bool
	after   func() error
}

// Next advances to the next member key. A previous member left unread is
// skipped, colon and value included.
func (o *ObjectCursor) Next() (*Key, error) {
	if o.done {
		return nil, nil
	}
	if o.pending {
		vc, err := o.Value()
		if err != nil {
			return nil, err
		}
		if err := vc.Skip(); err != nil {
			return nil, err
		}
	}
	if o.value != nil && !o.value.used {
		if err := o.value.Skip(); err != nil {
			return nil, err
		}
	}
	o.value = nil
	s := o.p.scan
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingObject), len(s.src))
	}
	if r == '}' {
		return nil, o.close()
	}
	if o.index > 0 {
		if r != ',' {
			return nil, s.errAt(newError(CodeExpectedCommaOrObjectEnd), s.off)
		}
		s.next()
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		r, ok = s.peek()
		if !ok {
			return nil, s.errAt(newError(CodeEOFParsingObject), len(s.src))
		}
		if r == '}' {
			return nil, o.close()
		}
	}
	keyOff := s.off
	text, err := o.p.scanKey(r)
	if err != nil {
		return nil, err
	}
	o.p.path = append(o.p.path[:o.base], keySegment(text))
	o.p.claimComments()
	o.index++
	o.pending = true
	return &Key{p: o.p, text: text, off: keyOff}, nil
}

// Value consumes the colon after the key Next returned and positions a
// cursor on the member's value.
func (o *ObjectCursor) Value() (*ValueCursor, error) {
	if !o.pending {
		return nil, customError("no key is pending a value")
	}
	o.pending = false
	s := o.p.scan
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingObject), len(s.src))
	}
	if r != ':' {
		return nil, s.errAt(newError(CodeExpectedColon), s.off)
	}
	s.next()
	o.value = &ValueCursor{p: o.p}
	return o.value, nil
}

func (o *ObjectCursor) close() error {
	o.p.path = append(o.p.path[:o.base], segment{kind: segClose})
	o.p.claimComments()
	o.p.path = o.p.path[:o.base]
	o.p.scan.next() // }
	o.p.depth--
	o.done = true
	if o.after != nil {
		return o.after()
	}
	return nil
}

func (o *ObjectCursor) drain() error {
	for !o.done {
		key, err := o.Next()
		if err != nil {
			return err
		}
		if key == nil {
			return nil
		}
	}
	return nil
}

// ValueCursor is exactly one unread value. One call to Decode, Skip,
// Bytes or Variant consumes it.
type ValueCursor struct {
	p     *parser
	used  bool
	after func() error
}

func (v *ValueCursor) claim() error {
	if v.used {
		return customError("value already consumed")
	}
	v.used = true
	return v.p.scan.skipSpace()
}

// Decode parses the value, invoking exactly one capability of b.
func (v *ValueCursor) Decode(b Builder) error {
	if err := v.claim(); err != nil {
		return err
	}
	if err := v.p.value(b); err != nil {
		return err
	}
	if v.after != nil {
		return v.after()
	}
	return nil
}

// Skip parses and discards the value.
func (v *ValueCursor) Skip() error {
	return v.Decode(discard{})
}

// Bytes reads the value as a string of hex digit pairs and decodes them.
func (v *ValueCursor) Bytes() ([]byte, error) {
	if err := v.claim(); err != nil {
		return nil, err
	}
	s := v.p.scan
	start := s.off
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingValue), len(s.src))
	}
	if r != '"' && r != '\'' {
		return nil, s.errAt(newError(CodeExpectedString), s.off)
	}
	text, err := s.scanString()
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, s.errAt(newError(CodeInvalidBytes), start)
	}
	if v.after != nil {
		if err := v.after(); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Variant reads the value as a tagged variant: a bare string is a tag
// with no payload, a single-member object is {tag: payload}. The caller
// must consume the variant before advancing any enclosing cursor.
func (v *ValueCursor) Variant() (*VariantCursor, error) {
	if err := v.claim(); err != nil {
		return nil, err
	}
	p := v.p
	s := p.scan
	start := s.off
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingValue), len(s.src))
	}
	switch r {
	case '"', '\'':
		tag, err := s.scanString()
		if err != nil {
			return nil, err
		}
		return &VariantCursor{p: p, tag: tag, off: start, after: v.after}, nil
	case '{':
		if p.depth >= p.maxDepth {
			return nil, s.errAt(newError(CodeDepthLimitExceeded), s.off)
		}
		p.depth++
		base := len(p.path)
		s.next() // {
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		r, ok := s.peek()
		if !ok {
			return nil, s.errAt(newError(CodeEOFParsingObject), len(s.src))
		}
		if r == '}' {
			return nil, s.errAt(customError("expected a nonempty object"), start)
		}
		tag, err := p.scanKey(r)
		if err != nil {
			return nil, err
		}
		p.path = append(p.path[:base], keySegment(tag))
		p.claimComments()
		if err := s.skipSpace(); err != nil {
			return nil, err
		}
		r, ok = s.peek()
		if !ok {
			return nil, s.errAt(newError(CodeEOFParsingObject), len(s.src))
		}
		if r != ':' {
			return nil, s.errAt(newError(CodeExpectedColon), s.off)
		}
		s.next()
		return &VariantCursor{p: p, tag: tag, payload: true, base: base, off: start, after: v.after}, nil
	}
	return nil, s.errAt(customError("expected a string or an object"), start)
}

// VariantCursor destructures one tagged variant. Exactly one of Unit,
// Payload, Array or Object consumes it.
type VariantCursor struct {
	p       *parser
	tag     string
	payload bool // object form: a payload value is pending
	base    int
	off     int // source offset of the variant's first byte
	used    bool
	after   func() error
}

// Tag returns the variant's name.
func (vc *VariantCursor) Tag() string { return vc.tag }

func (vc *VariantCursor) claim() error {
	if vc.used {
		return customError("variant already consumed")
	}
	vc.used = true
	return nil
}

// Unit finishes a variant without inspecting its payload. The bare-string
// form has none; in the object form the payload is skipped.
func (vc *VariantCursor) Unit() error {
	if err := vc.claim(); err != nil {
		return err
	}
	if !vc.payload {
		return vc.finish()
	}
	inner := &ValueCursor{p: vc.p}
	if err := inner.Skip(); err != nil {
		return err
	}
	return vc.closeObject()
}

// Payload returns the newtype payload value.
func (vc *VariantCursor) Payload() (*ValueCursor, error) {
	if err := vc.claim(); err != nil {
		return nil, err
	}
	if !vc.payload {
		return nil, vc.p.scan.errAt(customError("variant %q has no payload", vc.tag), vc.off)
	}
	return &ValueCursor{p: vc.p, after: vc.closeObject}, nil
}

// Array returns the tuple payload, which must be an array.
func (vc *VariantCursor) Array() (*ArrayCursor, error) {
	if err := vc.claim(); err != nil {
		return nil, err
	}
	s := vc.p.scan
	if !vc.payload {
		return nil, s.errAt(newError(CodeExpectedArray), vc.off)
	}
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingValue), len(s.src))
	}
	if r != '[' {
		return nil, s.errAt(newError(CodeExpectedArray), s.off)
	}
	cur, err := vc.p.openArray()
	if err != nil {
		return nil, err
	}
	cur.after = vc.closeObject
	return cur, nil
}

// Object returns the struct payload, which must be an object.
func (vc *VariantCursor) Object() (*ObjectCursor, error) {
	if err := vc.claim(); err != nil {
		return nil, err
	}
	s := vc.p.scan
	if !vc.payload {
		return nil, s.errAt(newError(CodeExpectedObject), vc.off)
	}
	if err := s.skipSpace(); err != nil {
		return nil, err
	}
	r, ok := s.peek()
	if !ok {
		return nil, s.errAt(newError(CodeEOFParsingValue), len(s.src))
	}
	if r != '{' {
		return nil, s.errAt(newError(CodeExpectedObject), s.off)
	}
	cur, err := vc.p.openObject()
	if err != nil {
		return nil, err
	}
	cur.after = vc.closeObject
	return cur, nil
}

// closeObject consumes the end of the single-member variant object after
// its payload, allowing one trailing comma.
func (vc *VariantCursor) closeObject() error {
	s := vc.p.scan
	if err := s.skipSpace(); err != nil {
		return err
	}
	r, ok := s.peek()
	if !ok {
		return s.errAt(newError(CodeEOFParsingObject), len(s.src))
	}
	if r == ',' {
		s.next()
		if err := s.skipSpace(); err != nil {
			return err
		}
		r, ok = s.peek()
		if !ok {
			return s.errAt(newError(CodeEOFParsingObject), len(s.src))
		}
	}
	if r != '}' {
		return s.errAt(customError("expected an object with a single member"), s.off)
	}
	vc.p.path = append(vc.p.path[:vc.base], segment{kind: segClose})
	vc.p.claimComments()
	vc.p.path = vc.p.path[:vc.base]
	s.next() // }
	vc.p.depth--
	return vc.finish()
}

func (vc *VariantCursor) finish() error {
	if vc.after != nil {
		return vc.after()
	}
	return nil
}

// Key is one decoded object key. Its text may be reinterpreted as another
// primitive kind, re-driving the corresponding lexer over the decoded
// text; a failed reinterpretation is an InvalidKey error at the key's
// source position.
type Key struct {
	p    *parser
	text string
	off  int
}

// Text returns the key with escapes resolved and quotes removed.
func (k *Key) Text() string { return k.text }

func (k *Key) invalid() error {
	return k.p.scan.errAt(newError(CodeInvalidKey), k.off)
}

// renumber re-drives the number lexer over the key text. The whole text
// must lex as one number.
func (k *Key) renumber() (numeric, error) {
	sc := &scanner{src: k.text}
	n, err := sc.scanNumber()
	if err != nil || sc.off != len(k.text) {
		return numeric{}, k.invalid()
	}
	return n, nil
}

// Int reinterprets the key as a signed 64-bit integer.
func (k *Key) Int() (int64, error) {
	n, err := k.renumber()
	if err != nil {
		return 0, err
	}
	switch {
	case n.float || n.big != nil:
		return 0, k.invalid()
	case n.neg && n.mag == 1<<63:
		return math.MinInt64, nil
	case n.mag <= math.MaxInt64:
		if n.neg {
			return -int64(n.mag), nil
		}
		return int64(n.mag), nil
	}
	return 0, k.invalid()
}

// Uint reinterprets the key as an unsigned 64-bit integer.
func (k *Key) Uint() (uint64, error) {
	n, err := k.renumber()
	if err != nil {
		return 0, err
	}
	if n.float || n.big != nil || (n.neg && n.mag != 0) {
		return 0, k.invalid()
	}
	return n.mag, nil
}

// BigInt reinterprets the key as an integer of up to 128 bits.
func (k *Key) BigInt() (*big.Int, error) {
	n, err := k.renumber()
	if err != nil {
		return nil, err
	}
	if n.float {
		return nil, k.invalid()
	}
	v := new(big.Int)
	if n.big != nil {
		v.Set(n.big)
	} else {
		v.SetUint64(n.mag)
	}
	if n.neg {
		v.Neg(v)
	}
	return v, nil
}

// Float reinterprets the key as a 64-bit float; integer keys convert.
func (k *Key) Float() (float64, error) {
	n, err := k.renumber()
	if err != nil {
		return 0, err
	}
	switch {
	case n.float:
		return n.f, nil
	case n.big != nil:
		f, _ := new(big.Float).SetInt(n.big).Float64()
		if n.neg {
			f = -f
		}
		return f, nil
	case n.neg:
		return -float64(n.mag), nil
	}
	return float64(n.mag), nil
}

// Bool reinterprets the key as a boolean.
func (k *Key) Bool() (bool, error) {
	switch k.text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, k.invalid()
}

// Null requires the key to spell null.
func (k *Key) Null() error {
	if k.text != "null" {
		return k.invalid()
	}
	return nil
}

// valueBuilder assembles the generic value graph Parse returns.
type valueBuilder struct {
	value any
}

func (v *valueBuilder) Null() error       { v.value = nil; return nil }
func (v *valueBuilder) Bool(b bool) error { v.value = b; return nil }
func (v *valueBuilder) Int(n int64) error { v.value = n; return nil }

// Uint narrows to int64 when the value fits, so that most integers share
// one type in the graph.
func (v *valueBuilder) Uint(n uint64) error {
	if n <= math.MaxInt64 {
		v.value = int64(n)
	} else {
		v.value = n
	}
	return nil
}

func (v *valueBuilder) BigInt(n *big.Int) error { v.value = n; return nil }
func (v *valueBuilder) Float(f float64) error   { v.value = f; return nil }
func (v *valueBuilder) String(s string) error   { v.value = s; return nil }

func (v *valueBuilder) Array(a *ArrayCursor) error {
	elems := []any{}
	for {
		vc, err := a.Next()
		if err != nil {
			return err
		}
		if vc == nil {
			break
		}
		var elem valueBuilder
		if err := vc.Decode(&elem); err != nil {
			return err
		}
		elems = append(elems, elem.value)
	}
	v.value = elems
	return nil
}

func (v *valueBuilder) Object(o *ObjectCursor) error {
	obj := NewObject()
	for {
		key, err := o.Next()
		if err != nil {
			return err
		}
		if key == nil {
			break
		}
		vc, err := o.Value()
		if err != nil {
			return err
		}
		var member valueBuilder
		if err := vc.Decode(&member); err != nil {
			return err
		}
		obj.Set(key.Text(), member.value)
	}
	v.value = obj
	return nil
}

// discard consumes values without keeping them; collection cursors drain
// themselves when the builder declines to read them.
type discard struct{}

func (discard) Null() error                { return nil }
func (discard) Bool(bool) error            { return nil }
func (discard) Int(int64) error            { return nil }
func (discard) Uint(uint64) error          { return nil }
func (discard) BigInt(*big.Int) error      { return nil }
func (discard) Float(float64) error        { return nil }
func (discard) String(string) error        { return nil }
func (discard) Array(*ArrayCursor) error   { return nil }
func (discard) Object(*ObjectCursor) error { return nil }
