// Package json5 implements a JSON5 codec: a recursive-descent parser with
// positioned errors and a fixed-style serializer, joined by an optional
// comment sidecar that lets a reformatter round-trip comments.
//
// # Overview
//
// JSON5 extends JSON with the bits of ECMAScript 5.1 that make configuration
// files pleasant: comments, trailing commas, unquoted identifier keys,
// single-quoted strings, hexadecimal integers, leading/trailing decimal
// points, and Infinity/NaN. This package parses the full grammar, including
// the Unicode identifier and whitespace categories, and serializes values
// back in one canonical multi-line style.
//
// # Value Model
//
// Parse returns a generic graph built from:
//
//	nil         null
//	bool        true, false
//	int64       integers in the int64 range
//	uint64      integers in (2^63-1, 2^64-1]
//	*big.Int    integers needing 65..128 bits, either sign
//	float64     floats, Infinity, NaN
//	string      strings
//	[]any       arrays
//	*Object     objects, insertion-ordered
//
// Integers always decode into the widest lossless representation; 2^127 is
// a *big.Int, not a rounded float64. Magnitudes beyond 128 bits are a parse
// error, and Serialize enforces the same cap on *big.Int inputs.
//
// # Builder Protocol
//
// Decode hands the document to a Builder instead of building the generic
// graph. The parser calls exactly one capability per value; collections
// arrive as pull cursors so the builder reads elements on demand and may
// stop early:
//
//	type visitor struct{ sum int64 }
//
//	func (v *visitor) Int(n int64) error { v.sum += n; return nil }
//
//	func (v *visitor) Array(a *json5.ArrayCursor) error {
//	    for {
//	        vc, err := a.Next()
//	        if err != nil || vc == nil {
//	            return err
//	        }
//	        if err := vc.Decode(v); err != nil {
//	            return err
//	        }
//	    }
//	}
//
// Object keys come back as *Key values whose text can be reinterpreted as
// integers, floats or booleans, re-driving the corresponding lexer over the
// decoded text. A ValueCursor additionally answers Bytes (a hex string
// decoded to []byte) and Variant (a bare string tag or a single-member
// {tag: payload} object).
//
// # Comments
//
// ParseWithComments records every comment run, keyed by the structural
// position it precedes: the root value, an array element, an object member,
// a closing delimiter, or the end of the document. SerializeWithComments
// replays the table, so
//
//	v, c, _ := json5.ParseWithComments(src)
//	out, _ := json5.SerializeWithComments(v, c)
//
// reformats a document while keeping its comments. Reattachment is by
// position, not by token: comments whose position disappears (or that sit in
// places the serializer never visits, such as inside an empty array) are
// dropped rather than misplaced.
//
// # Errors
//
// Every failure is an *Error carrying a code from a closed taxonomy and,
// when it originates in source text, a 0-based line/column position resolved
// lazily from the byte offset:
//
//	_, err := json5.Parse("{foo: 01}")
//	// err.Error() == "leading zeros are not allowed at line 1 column 7"
//
// # Output Style
//
// Serialize has no configuration. Collections are multi-line with two-space
// indent and a trailing comma after every element; empty collections render
// compactly; keys stay unquoted whenever they are valid identifiers; strings
// prefer double quotes and switch to single quotes only when that avoids
// escaping. Exactly one style keeps reformatting idempotent.
package json5
