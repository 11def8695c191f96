package json5

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// obj builds an ordered object from alternating key/value pairs.
func obj(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i < len(pairs); i += 2 {
		o.Set(pairs[i].(string), pairs[i+1])
	}
	return o
}

func TestParseDocuments(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"null", nil},
		{"true", true},
		{"false", false},
		{"'x'", "x"},
		{"[]", []any{}},
		{"[ ]", []any{}},
		{"[1, 2, 3]", []any{int64(1), int64(2), int64(3)}},
		{"[1, 2, 3,]", []any{int64(1), int64(2), int64(3)}},
		{"{}", obj()},
		{"{a: 1}", obj("a", int64(1))},
		{"{a: 1,}", obj("a", int64(1))},
		{"{'a b': [true, null], c: {d: 'x'}}", obj("a b", []any{true, nil}, "c", obj("d", "x"))},
		{"[[]]", []any{[]any{}}},
		{"[{}, []]", []any{obj(), []any{}}},
		{"{a: 1, b: 2, a: 3}", obj("a", int64(3), "b", int64(2))},
		{"/* a */ [ // b\n1, /* c */ 2] // d", []any{int64(1), int64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseWhitespace(t *testing.T) {
	// every whitespace class between the braces
	src := "{\t\v\f \r\n" +
		string(rune(runeNBSP)) + string(rune(runeBOM)) +
		string(rune(runeLS)) + string(rune(runePS)) +
		string(rune(0x2003)) + // EM SPACE, category Zs
		"}"
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	o, ok := got.(*Object)
	if !ok || o.Len() != 0 {
		t.Errorf("Parse = %#v, want an empty object", got)
	}

	got, err = Parse(string(rune(runeBOM)) + "null")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if got != nil {
		t.Errorf("Parse = %v, want nil", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
		pos   Position
	}{
		{"", CodeEOFParsingValue, Position{0, 0}},
		{"  ", CodeEOFParsingValue, Position{0, 2}},
		{"x", CodeExpectedValue, Position{0, 0}},
		{"/", CodeExpectedValue, Position{0, 0}},
		{"]", CodeExpectedValue, Position{0, 0}},
		{":", CodeExpectedValue, Position{0, 0}},
		{"nulx", CodeExpectedNull, Position{0, 0}},
		{"nul", CodeEOFParsingValue, Position{0, 3}},
		{"trve", CodeExpectedBool, Position{0, 0}},
		{"falsy", CodeExpectedBool, Position{0, 0}},
		{"[", CodeEOFParsingArray, Position{0, 1}},
		{"[1,", CodeEOFParsingArray, Position{0, 3}},
		{"[1 2]", CodeExpectedCommaOrArrayEnd, Position{0, 3}},
		{"[1,,2]", CodeExpectedValue, Position{0, 3}},
		{"{", CodeEOFParsingObject, Position{0, 1}},
		{"{a", CodeEOFParsingObject, Position{0, 2}},
		{"{a:", CodeEOFParsingValue, Position{0, 3}},
		{"{a 1}", CodeExpectedColon, Position{0, 3}},
		{"{a: 1 b: 2}", CodeExpectedCommaOrObjectEnd, Position{0, 6}},
		{"{a: 1,, b: 2}", CodeExpectedKey, Position{0, 6}},
		{"1 2", CodeTrailingCharacters, Position{0, 2}},
		{"[] []", CodeTrailingCharacters, Position{0, 3}},
		{"/* note", CodeEOFParsingComment, Position{0, 7}},
		{"[\n  1,\n  2\n  3\n]", CodeExpectedCommaOrArrayEnd, Position{3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("Parse(%q) error = %v, want *Error", tt.input, err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %v, want %v", perr.Code, tt.code)
			}
			if perr.Pos == nil || *perr.Pos != tt.pos {
				t.Errorf("Pos = %+v, want %+v", perr.Pos, tt.pos)
			}
		})
	}
}

func TestParseMaxDepth(t *testing.T) {
	if _, err := Parse("[[[0]]]", WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3 of 3: error = %v", err)
	}

	_, err := Parse("[[[[0]]]]", WithMaxDepth(3))
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeDepthLimitExceeded {
		t.Fatalf("depth 4 of 3: error = %v, want depth limit", err)
	}
	if perr.Pos == nil || *perr.Pos != (Position{0, 3}) {
		t.Errorf("Pos = %+v, want {0 3}", perr.Pos)
	}

	_, err = Parse("{a: {b: {c: 1}}}", WithMaxDepth(2))
	perr, ok = err.(*Error)
	if !ok || perr.Code != CodeDepthLimitExceeded {
		t.Fatalf("object depth 3 of 2: error = %v, want depth limit", err)
	}
	if perr.Pos == nil || *perr.Pos != (Position{0, 8}) {
		t.Errorf("Pos = %+v, want {0 8}", perr.Pos)
	}

	// closing a collection releases its level
	if _, err := Parse("[[0], [1], [2]]", WithMaxDepth(2)); err != nil {
		t.Errorf("sibling arrays: error = %v", err)
	}
}

func TestParseDefaultMaxDepth(t *testing.T) {
	_, err := Parse(strings.Repeat("[", DefaultMaxDepth+1))
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeDepthLimitExceeded {
		t.Fatalf("error = %v, want depth limit", err)
	}
	if perr.Pos == nil || perr.Pos.Column != DefaultMaxDepth {
		t.Errorf("Pos = %+v, want column %d", perr.Pos, DefaultMaxDepth)
	}
}

// headOnly reads the first array element and stops, leaving the rest for
// the parser to drain.
type headOnly struct {
	discard
	head valueBuilder
}

func (h *headOnly) Array(a *ArrayCursor) error {
	vc, err := a.Next()
	if err != nil {
		return err
	}
	if vc == nil {
		return nil
	}
	return vc.Decode(&h.head)
}

func TestDecodeEarlyStop(t *testing.T) {
	var h headOnly
	if err := Decode("[1, 2, 3]", &h); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if h.head.value != int64(1) {
		t.Errorf("head = %v, want 1", h.head.value)
	}
}

func TestDecodeEarlyStopStillValidates(t *testing.T) {
	var h headOnly
	err := Decode("[1, 2 3]", &h)
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeExpectedCommaOrArrayEnd {
		t.Fatalf("error = %v, want a comma error from the drained tail", err)
	}
	if perr.Pos == nil || *perr.Pos != (Position{0, 6}) {
		t.Errorf("Pos = %+v, want {0 6}", perr.Pos)
	}
}

// keyLister collects member keys without requesting any value.
type keyLister struct {
	discard
	keys []string
}

func (kl *keyLister) Object(o *ObjectCursor) error {
	for {
		k, err := o.Next()
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		kl.keys = append(kl.keys, k.Text())
	}
}

func TestDecodeKeysOnly(t *testing.T) {
	var kl keyLister
	if err := Decode("{a: 1, b: [2, {c: 3}], d: null}", &kl); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if want := []string{"a", "b", "d"}; !reflect.DeepEqual(kl.keys, want) {
		t.Errorf("keys = %v, want %v", kl.keys, want)
	}
}

// colonOnly requests each value cursor but never reads it.
type colonOnly struct {
	discard
	keys []string
}

func (c *colonOnly) Object(o *ObjectCursor) error {
	for {
		k, err := o.Next()
		if err != nil {
			return err
		}
		if k == nil {
			return nil
		}
		c.keys = append(c.keys, k.Text())
		if _, err := o.Value(); err != nil {
			return err
		}
	}
}

func TestDecodeUnreadValueCursor(t *testing.T) {
	var c colonOnly
	if err := Decode("{a: [1, 2], b: 3}", &c); err != nil {
		t.Fatalf("Decode error = %v", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(c.keys, want) {
		t.Errorf("keys = %v, want %v", c.keys, want)
	}
}

type doubleSkip struct{ discard }

func (doubleSkip) Array(a *ArrayCursor) error {
	vc, err := a.Next()
	if err != nil {
		return err
	}
	if err := vc.Skip(); err != nil {
		return err
	}
	return vc.Skip()
}

func TestDecodeValueConsumedTwice(t *testing.T) {
	err := Decode("[0]", doubleSkip{})
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeCustom {
		t.Fatalf("error = %v, want *Error", err)
	}
	if perr.Message != "value already consumed" {
		t.Errorf("Message = %q", perr.Message)
	}
}

type eagerValue struct{ discard }

func (eagerValue) Object(o *ObjectCursor) error {
	_, err := o.Value()
	return err
}

func TestDecodeValueBeforeKey(t *testing.T) {
	err := Decode("{a: 1}", eagerValue{})
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeCustom {
		t.Fatalf("error = %v, want *Error", err)
	}
	if perr.Message != "no key is pending a value" {
		t.Errorf("Message = %q", perr.Message)
	}
}

// bytesReader decodes the first array element through Bytes.
type bytesReader struct {
	discard
	data []byte
}

func (b *bytesReader) Array(a *ArrayCursor) error {
	vc, err := a.Next()
	if err != nil {
		return err
	}
	data, err := vc.Bytes()
	if err != nil {
		return err
	}
	b.data = data
	return nil
}

func TestValueCursorBytes(t *testing.T) {
	tests := []struct {
		input string
		want  []byte
	}{
		{"['00ff10']", []byte{0x00, 0xff, 0x10}},
		{"['']", []byte{}},
		{`["4a534f4e35"]`, []byte("JSON5")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var b bytesReader
			if err := Decode(tt.input, &b); err != nil {
				t.Fatalf("Decode error = %v", err)
			}
			if !reflect.DeepEqual(b.data, tt.want) {
				t.Errorf("data = %x, want %x", b.data, tt.want)
			}
		})
	}
}

func TestValueCursorBytesErrors(t *testing.T) {
	tests := []struct {
		input string
		code  ErrorCode
		pos   Position
	}{
		{"['0f0']", CodeInvalidBytes, Position{0, 1}},
		{"['xy']", CodeInvalidBytes, Position{0, 1}},
		{"[7]", CodeExpectedString, Position{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var b bytesReader
			err := Decode(tt.input, &b)
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error = %v, want *Error", err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %v, want %v", perr.Code, tt.code)
			}
			if perr.Pos == nil || *perr.Pos != tt.pos {
				t.Errorf("Pos = %+v, want %+v", perr.Pos, tt.pos)
			}
		})
	}
}

// keyRunner hands the first member key to fn.
type keyRunner struct {
	discard
	fn func(*Key) error
}

func (kr *keyRunner) Object(o *ObjectCursor) error {
	k, err := o.Next()
	if err != nil {
		return err
	}
	return kr.fn(k)
}

func decodeKey(src string, fn func(*Key) error) error {
	return Decode(src, &keyRunner{fn: fn})
}

func TestKeyInt(t *testing.T) {
	tests := []struct {
		key     string
		want    int64
		invalid bool
	}{
		{"42", 42, false},
		{"+7", 7, false},
		{"-7", -7, false},
		{"0x10", 16, false},
		{"-0x10", -16, false},
		{"9223372036854775807", math.MaxInt64, false},
		{"-9223372036854775808", math.MinInt64, false},
		{"9223372036854775808", 0, true},
		{"36893488147419103232", 0, true},
		{"1.5", 0, true},
		{"1e1", 0, true},
		{"42abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := decodeKey("{'"+tt.key+"': 0}", func(k *Key) error {
				n, err := k.Int()
				if err != nil {
					return err
				}
				if n != tt.want {
					t.Errorf("Int() = %d, want %d", n, tt.want)
				}
				return nil
			})
			checkKeyErr(t, err, tt.invalid)
		})
	}
}

func checkKeyErr(t *testing.T, err error, invalid bool) {
	t.Helper()
	if !invalid {
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		return
	}
	perr, ok := err.(*Error)
	if !ok || perr.Code != CodeInvalidKey {
		t.Fatalf("error = %v, want an invalid key error", err)
	}
	if perr.Pos == nil || *perr.Pos != (Position{0, 1}) {
		t.Errorf("Pos = %+v, want the key's source position", perr.Pos)
	}
}

func TestKeyUint(t *testing.T) {
	tests := []struct {
		key     string
		want    uint64
		invalid bool
	}{
		{"42", 42, false},
		{"0", 0, false},
		{"-0", 0, false},
		{"0xff", 255, false},
		{"18446744073709551615", math.MaxUint64, false},
		{"-7", 0, true},
		{"1.5", 0, true},
		{"18446744073709551616", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := decodeKey("{'"+tt.key+"': 0}", func(k *Key) error {
				n, err := k.Uint()
				if err != nil {
					return err
				}
				if n != tt.want {
					t.Errorf("Uint() = %d, want %d", n, tt.want)
				}
				return nil
			})
			checkKeyErr(t, err, tt.invalid)
		})
	}
}

func TestKeyBigInt(t *testing.T) {
	tests := []struct {
		key     string
		want    string
		invalid bool
	}{
		{"42", "42", false},
		{"-7", "-7", false},
		{"0x10", "16", false},
		{"36893488147419103232", "36893488147419103232", false},
		{"-36893488147419103232", "-36893488147419103232", false},
		{"1.5", "", true},
		{"x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := decodeKey("{'"+tt.key+"': 0}", func(k *Key) error {
				n, err := k.BigInt()
				if err != nil {
					return err
				}
				if n.String() != tt.want {
					t.Errorf("BigInt() = %s, want %s", n, tt.want)
				}
				return nil
			})
			checkKeyErr(t, err, tt.invalid)
		})
	}
}

func TestKeyFloat(t *testing.T) {
	tests := []struct {
		key     string
		want    float64
		invalid bool
	}{
		{"1.5", 1.5, false},
		{"-2.5", -2.5, false},
		{"1e1", 10, false},
		{"42", 42, false},
		{"-7", -7, false},
		{"Infinity", math.Inf(1), false},
		{"36893488147419103232", math.Ldexp(1, 65), false},
		{"-36893488147419103232", -math.Ldexp(1, 65), false},
		{"x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := decodeKey("{'"+tt.key+"': 0}", func(k *Key) error {
				f, err := k.Float()
				if err != nil {
					return err
				}
				if f != tt.want {
					t.Errorf("Float() = %v, want %v", f, tt.want)
				}
				return nil
			})
			checkKeyErr(t, err, tt.invalid)
		})
	}
}

func TestKeyBoolAndNull(t *testing.T) {
	err := decodeKey("{true: 0}", func(k *Key) error {
		b, err := k.Bool()
		if err != nil {
			return err
		}
		if !b {
			t.Error("Bool() = false, want true")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	err = decodeKey("{'false': 0}", func(k *Key) error {
		b, err := k.Bool()
		if err != nil {
			return err
		}
		if b {
			t.Error("Bool() = true, want false")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}

	err = decodeKey("{'yes': 0}", func(k *Key) error { _, err := k.Bool(); return err })
	checkKeyErr(t, err, true)

	if err := decodeKey("{null: 0}", (*Key).Null); err != nil {
		t.Fatalf("error = %v", err)
	}
	err = decodeKey("{'x': 0}", (*Key).Null)
	checkKeyErr(t, err, true)
}

// variantRunner hands the first array element to fn as a variant.
type variantRunner struct {
	discard
	fn func(*VariantCursor) error
}

func (vr *variantRunner) Array(a *ArrayCursor) error {
	vc, err := a.Next()
	if err != nil {
		return err
	}
	v, err := vc.Variant()
	if err != nil {
		return err
	}
	return vr.fn(v)
}

func decodeVariant(src string, fn func(*VariantCursor) error) error {
	return Decode(src, &variantRunner{fn: fn})
}

func TestVariantUnit(t *testing.T) {
	err := decodeVariant("['Zero']", func(v *VariantCursor) error {
		if v.Tag() != "Zero" {
			t.Errorf("Tag() = %q, want %q", v.Tag(), "Zero")
		}
		return v.Unit()
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
}

func TestVariantUnitSkipsPayload(t *testing.T) {
	err := decodeVariant("[{Retry: {delay: 5, max: [1, 2]}}]", func(v *VariantCursor) error {
		if v.Tag() != "Retry" {
			t.Errorf("Tag() = %q, want %q", v.Tag(), "Retry")
		}
		return v.Unit()
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
}

func TestVariantPayload(t *testing.T) {
	for _, input := range []string{"[{Some: 42}]", "[{Some: 42,}]"} {
		var got valueBuilder
		err := decodeVariant(input, func(v *VariantCursor) error {
			vc, err := v.Payload()
			if err != nil {
				return err
			}
			return vc.Decode(&got)
		})
		if err != nil {
			t.Fatalf("%s: error = %v", input, err)
		}
		if got.value != int64(42) {
			t.Errorf("%s: payload = %v, want 42", input, got.value)
		}
	}
}

func TestVariantArray(t *testing.T) {
	var elems []any
	err := decodeVariant("[{Pair: [1, 'x']}]", func(v *VariantCursor) error {
		a, err := v.Array()
		if err != nil {
			return err
		}
		for {
			vc, err := a.Next()
			if err != nil {
				return err
			}
			if vc == nil {
				return nil
			}
			var elem valueBuilder
			if err := vc.Decode(&elem); err != nil {
				return err
			}
			elems = append(elems, elem.value)
		}
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if want := []any{int64(1), "x"}; !reflect.DeepEqual(elems, want) {
		t.Errorf("elems = %v, want %v", elems, want)
	}
}

func TestVariantObject(t *testing.T) {
	got := NewObject()
	err := decodeVariant("[{Move: {x: 1, y: 2}}]", func(v *VariantCursor) error {
		o, err := v.Object()
		if err != nil {
			return err
		}
		for {
			k, err := o.Next()
			if err != nil {
				return err
			}
			if k == nil {
				return nil
			}
			vc, err := o.Value()
			if err != nil {
				return err
			}
			var member valueBuilder
			if err := vc.Decode(&member); err != nil {
				return err
			}
			got.Set(k.Text(), member.value)
		}
	})
	if err != nil {
		t.Fatalf("error = %v", err)
	}
	if want := obj("x", int64(1), "y", int64(2)); !reflect.DeepEqual(got, want) {
		t.Errorf("payload = %#v, want %#v", got, want)
	}
}

func TestVariantErrors(t *testing.T) {
	unit := func(v *VariantCursor) error { return v.Unit() }

	tests := []struct {
		name    string
		input   string
		fn      func(*VariantCursor) error
		message string
		code    ErrorCode
		pos     *Position
	}{
		{
			name: "empty object", input: "[{}]", fn: unit,
			message: "expected a nonempty object", code: CodeCustom, pos: &Position{0, 1},
		},
		{
			name: "number", input: "[7]", fn: unit,
			message: "expected a string or an object", code: CodeCustom, pos: &Position{0, 1},
		},
		{
			name:  "second member",
			input: "[{Some: 1, extra: 2}]",
			fn: func(v *VariantCursor) error {
				vc, err := v.Payload()
				if err != nil {
					return err
				}
				return vc.Skip()
			},
			message: "expected an object with a single member", code: CodeCustom, pos: &Position{0, 11},
		},
		{
			name:  "payload of a bare tag",
			input: "['Z']",
			fn: func(v *VariantCursor) error {
				_, err := v.Payload()
				return err
			},
			message: `variant "Z" has no payload`, code: CodeCustom, pos: &Position{0, 1},
		},
		{
			name:  "array of a bare tag",
			input: "['Z']",
			fn: func(v *VariantCursor) error {
				_, err := v.Array()
				return err
			},
			code: CodeExpectedArray, pos: &Position{0, 1},
		},
		{
			name:  "object of a bare tag",
			input: "[ 'Z']",
			fn: func(v *VariantCursor) error {
				_, err := v.Object()
				return err
			},
			code: CodeExpectedObject, pos: &Position{0, 2},
		},
		{
			name:  "array of a scalar payload",
			input: "[{T: 5}]",
			fn: func(v *VariantCursor) error {
				_, err := v.Array()
				return err
			},
			code: CodeExpectedArray, pos: &Position{0, 5},
		},
		{
			name:  "object of a scalar payload",
			input: "[{T: 5}]",
			fn: func(v *VariantCursor) error {
				_, err := v.Object()
				return err
			},
			code: CodeExpectedObject, pos: &Position{0, 5},
		},
		{
			name:  "consumed twice",
			input: "['Z']",
			fn: func(v *VariantCursor) error {
				if err := v.Unit(); err != nil {
					return err
				}
				return v.Unit()
			},
			message: "variant already consumed", code: CodeCustom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeVariant(tt.input, tt.fn)
			perr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error = %v, want *Error", err)
			}
			if perr.Code != tt.code {
				t.Errorf("Code = %v, want %v", perr.Code, tt.code)
			}
			if tt.message != "" && perr.Message != tt.message {
				t.Errorf("Message = %q, want %q", perr.Message, tt.message)
			}
			if tt.pos == nil {
				return
			}
			if perr.Pos == nil || *perr.Pos != *tt.pos {
				t.Errorf("Pos = %+v, want %+v", perr.Pos, tt.pos)
			}
		})
	}
}
