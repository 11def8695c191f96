package json5

import (
	"encoding/hex"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Serialize renders v as a JSON5 document: collections multi-line with
// two-space indent and trailing commas, identifier keys unquoted. Accepted
// values are the graph Parse returns plus every Go integer and float
// width, []byte (rendered as a hex string), map[string]any and map[any]any
// (sorted by key text), and Variant.
func Serialize(v any) (string, error) {
	return SerializeWithComments(v, nil)
}

// SerializeWithComments is Serialize, replaying a comment table captured
// by ParseWithComments. Each run of lines is written, `// `-prefixed,
// before the structural position it was captured at; positions that no
// longer exist in v drop their comments.
func SerializeWithComments(v any, comments *Comments) (string, error) {
	s := &serializer{comments: comments, path: []segment{{kind: segOpen}}}
	s.emitComments()
	if err := s.value(v); err != nil {
		return "", err
	}
	s.path = append(s.path[:0], segment{kind: segEOF})
	for _, line := range s.pathComments() {
		s.buf.WriteString("\n// ")
		s.buf.WriteString(line)
	}
	return s.buf.String(), nil
}

type serializer struct {
	buf      strings.Builder
	indent   int
	comments *Comments
	path     []segment
}

func (s *serializer) writeIndent() {
	for i := 0; i < s.indent; i++ {
		s.buf.WriteString("  ")
	}
}

func (s *serializer) pathComments() []string {
	if s.comments == nil {
		return nil
	}
	return s.comments.at(encodePath(s.path))
}

// emitComments writes the comment lines recorded for the current
// structural path, one `// ` line each at the current indent.
func (s *serializer) emitComments() {
	for _, line := range s.pathComments() {
		s.writeIndent()
		s.buf.WriteString("// ")
		s.buf.WriteString(line)
		s.buf.WriteByte('\n')
	}
}

func (s *serializer) value(v any) error {
	switch x := v.(type) {
	case nil:
		s.buf.WriteString("null")
	case bool:
		s.buf.WriteString(strconv.FormatBool(x))
	case string:
		s.writeString(x)
	case int:
		s.buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int8:
		s.buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int16:
		s.buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int32:
		s.buf.WriteString(strconv.FormatInt(int64(x), 10))
	case int64:
		s.buf.WriteString(strconv.FormatInt(x, 10))
	case uint:
		s.buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint8:
		s.buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint16:
		s.buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint32:
		s.buf.WriteString(strconv.FormatUint(uint64(x), 10))
	case uint64:
		s.buf.WriteString(strconv.FormatUint(x, 10))
	case *big.Int:
		return s.writeBig(x)
	case float32:
		s.writeFloat(float64(x), 32)
	case float64:
		s.writeFloat(x, 64)
	case []byte:
		s.writeString(hex.EncodeToString(x))
	case []any:
		return s.array(x)
	case *Object:
		return s.object(x)
	case map[string]any:
		return s.stringMap(x)
	case map[any]any:
		return s.anyMap(x)
	case Variant:
		if x.Value == nil {
			s.writeString(x.Tag)
			return nil
		}
		return s.members([]member{{key: x.Tag, value: x.Value}})
	default:
		return customError("cannot serialize a value of type %T", v)
	}
	return nil
}

func (s *serializer) writeBig(x *big.Int) error {
	if x == nil {
		s.buf.WriteString("null")
		return nil
	}
	if err := checkBigRange(x); err != nil {
		return err
	}
	s.buf.WriteString(x.String())
	return nil
}

// checkBigRange enforces the 128-bit capability cap the parser applies on
// the way in.
func checkBigRange(x *big.Int) error {
	if x.Sign() < 0 {
		if x.CmpAbs(magCapNegative) > 0 {
			return customError("number %s out of range", x)
		}
		return nil
	}
	if x.Cmp(magCapUnsigned) >= 0 {
		return customError("number %s out of range", x)
	}
	return nil
}

func (s *serializer) writeFloat(f float64, bits int) {
	switch {
	case math.IsInf(f, 1):
		s.buf.WriteString("Infinity")
	case math.IsInf(f, -1):
		s.buf.WriteString("-Infinity")
	case math.IsNaN(f):
		if math.Signbit(f) {
			s.buf.WriteString("-NaN")
		} else {
			s.buf.WriteString("NaN")
		}
	default:
		text := strconv.FormatFloat(f, 'g', -1, bits)
		s.buf.WriteString(text)
		// keep the value a float on reparse
		if !strings.ContainsAny(text, ".eE") {
			s.buf.WriteString(".0")
		}
	}
}

// writeString picks the delimiter losing the fewest escapes: single quotes
// only when the text contains double quotes and no single ones.
func (s *serializer) writeString(x string) {
	delim := rune('"')
	if strings.ContainsRune(x, '"') && !strings.ContainsRune(x, '\'') {
		delim = '\''
	}
	s.buf.WriteRune(delim)
	for _, r := range x {
		if esc := escapeSequence(delim, r); esc != "" {
			s.buf.WriteString(esc)
		} else {
			s.buf.WriteRune(r)
		}
	}
	s.buf.WriteRune(delim)
}

func (s *serializer) array(elems []any) error {
	if len(elems) == 0 {
		s.buf.WriteString("[]")
		return nil
	}
	base := len(s.path)
	s.buf.WriteString("[\n")
	s.indent++
	for i, elem := range elems {
		s.path = append(s.path[:base], indexSegment(i))
		s.emitComments()
		s.writeIndent()
		if err := s.value(elem); err != nil {
			return err
		}
		s.buf.WriteString(",\n")
	}
	s.path = append(s.path[:base], segment{kind: segClose})
	s.emitComments()
	s.path = s.path[:base]
	s.indent--
	s.writeIndent()
	s.buf.WriteByte(']')
	return nil
}

type member struct {
	key   any
	value any
}

func (s *serializer) object(x *Object) error {
	if x == nil {
		s.buf.WriteString("null")
		return nil
	}
	members := make([]member, 0, x.Len())
	for _, k := range x.Keys() {
		v, _ := x.Get(k)
		members = append(members, member{key: k, value: v})
	}
	return s.members(members)
}

func (s *serializer) stringMap(m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	members := make([]member, 0, len(m))
	for _, k := range keys {
		members = append(members, member{key: k, value: m[k]})
	}
	return s.members(members)
}

func (s *serializer) anyMap(m map[any]any) error {
	members := make([]member, 0, len(m))
	for k, v := range m {
		text, err := keyText(k)
		if err != nil {
			return err
		}
		members = append(members, member{key: text, value: v})
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].key.(string) < members[j].key.(string)
	})
	return s.members(members)
}

func (s *serializer) members(ms []member) error {
	if len(ms) == 0 {
		s.buf.WriteString("{}")
		return nil
	}
	base := len(s.path)
	s.buf.WriteString("{\n")
	s.indent++
	for _, m := range ms {
		text, err := keyText(m.key)
		if err != nil {
			return err
		}
		s.path = append(s.path[:base], keySegment(text))
		s.emitComments()
		s.writeIndent()
		s.writeKeyText(text)
		s.buf.WriteString(": ")
		if err := s.value(m.value); err != nil {
			return err
		}
		s.buf.WriteString(",\n")
	}
	s.path = append(s.path[:base], segment{kind: segClose})
	s.emitComments()
	s.path = s.path[:base]
	s.indent--
	s.writeIndent()
	s.buf.WriteByte('}')
	return nil
}

func (s *serializer) writeKeyText(text string) {
	if isIdentifier(text) {
		s.buf.WriteString(text)
		return
	}
	s.writeString(text)
}

// keyText renders an object key to its canonical text. Kinds with no
// natural text form are invalid keys.
func keyText(k any) (string, error) {
	switch x := k.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.FormatInt(int64(x), 10), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case *big.Int:
		if x == nil {
			return "", newError(CodeInvalidKey)
		}
		if err := checkBigRange(x); err != nil {
			return "", err
		}
		return x.String(), nil
	case []byte:
		return hex.EncodeToString(x), nil
	case Variant:
		if x.Value == nil {
			return x.Tag, nil
		}
	}
	return "", newError(CodeInvalidKey)
}
