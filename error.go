package json5

import "fmt"

// ErrorCode classifies a parse or serialize failure. The set is closed:
// every error produced by this package carries one of these codes, with
// CodeCustom covering free-text errors from the binding layer and from
// numeric conversion.
type ErrorCode int

const (
	CodeCustom ErrorCode = iota

	// End of input inside a grammar production.
	CodeEOFParsingValue
	CodeEOFParsingArray
	CodeEOFParsingObject
	CodeEOFParsingString
	CodeEOFParsingEscape
	CodeEOFParsingComment
	CodeEOFParsingNumber

	// A production met a character it cannot accept.
	CodeExpectedValue
	CodeExpectedCommaOrArrayEnd
	CodeExpectedCommaOrObjectEnd
	CodeExpectedColon
	CodeExpectedKey
	CodeExpectedString
	CodeExpectedArray
	CodeExpectedObject
	CodeExpectedBool
	CodeExpectedNull
	CodeExpectedNumber

	// Lexical and semantic violations.
	CodeLeadingZero
	CodeLineTerminatorInString
	CodeInvalidEscapeSequence
	CodeOverflowParsingNumber
	CodeInvalidBytes
	CodeInvalidKey
	CodeTrailingCharacters
	CodeDepthLimitExceeded
)

var codeMessages = map[ErrorCode]string{
	CodeCustom:                   "error",
	CodeEOFParsingValue:          "unexpected end of input while parsing a value",
	CodeEOFParsingArray:          "unexpected end of input while parsing an array",
	CodeEOFParsingObject:         "unexpected end of input while parsing an object",
	CodeEOFParsingString:         "unexpected end of input while parsing a string",
	CodeEOFParsingEscape:         "unexpected end of input while parsing an escape sequence",
	CodeEOFParsingComment:        "unexpected end of input while parsing a comment",
	CodeEOFParsingNumber:         "unexpected end of input while parsing a number",
	CodeExpectedValue:            "expected a value",
	CodeExpectedCommaOrArrayEnd:  "expected a comma or a closing bracket",
	CodeExpectedCommaOrObjectEnd: "expected a comma or a closing brace",
	CodeExpectedColon:            "expected a colon",
	CodeExpectedKey:              "expected an object key",
	CodeExpectedString:           "expected a string",
	CodeExpectedArray:            "expected an array",
	CodeExpectedObject:           "expected an object",
	CodeExpectedBool:             "expected a boolean",
	CodeExpectedNull:             "expected null",
	CodeExpectedNumber:           "expected a number",
	CodeLeadingZero:              "leading zeros are not allowed",
	CodeLineTerminatorInString:   "unescaped line terminator in string",
	CodeInvalidEscapeSequence:    "invalid escape sequence",
	CodeOverflowParsingNumber:    "integer overflow",
	CodeInvalidBytes:             "invalid byte string",
	CodeInvalidKey:               "invalid object key",
	CodeTrailingCharacters:       "trailing characters after the value",
	CodeDepthLimitExceeded:       "maximum nesting depth exceeded",
}

func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Position locates a byte offset in the source text. Line and Column are
// 0-based and count line terminators and code points respectively;
// rendering adds one to each.
type Position struct {
	Line   int
	Column int
}

// Error is returned by every entry point of this package. Pos is set for
// failures that can be located in source text and stays nil for
// serialize-side and binding-layer failures.
type Error struct {
	Code    ErrorCode
	Message string // free text, set when Code is CodeCustom
	Pos     *Position
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Code != CodeCustom {
		msg = codeMessages[e.Code]
	}
	if e.Pos == nil {
		return msg
	}
	return fmt.Sprintf("%s at line %d column %d", msg, e.Pos.Line+1, e.Pos.Column+1)
}

func newError(code ErrorCode) *Error {
	return &Error{Code: code}
}

func customError(format string, args ...any) *Error {
	return &Error{Code: CodeCustom, Message: fmt.Sprintf(format, args...)}
}
