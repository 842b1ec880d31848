package jsonish

import (
	"errors"
	"fmt"
)

// Decode error categories. Every *DecodeError wraps exactly one of these,
// so callers can match with errors.Is.
var (
	ErrEmptyInput                  = errors.New("empty input")
	ErrUnrecognizedToken           = errors.New("unrecognized token")
	ErrInvalidNumber               = errors.New("invalid number")
	ErrUnterminatedString          = errors.New("unterminated string")
	ErrStringNewline               = errors.New("unescaped newline in string")
	ErrInvalidEscape               = errors.New("invalid escape")
	ErrTrailingBackslash           = errors.New("trailing backslash")
	ErrInvalidStringContent        = errors.New("invalid string content")
	ErrUnterminatedArray           = errors.New("unterminated array")
	ErrExpectedArrayItem           = errors.New("expected array item")
	ErrExpectedCommaOrCloseBracket = errors.New("expected ',' or ']'")
	ErrUnterminatedObject          = errors.New("unterminated object")
	ErrExpectedPropertyName        = errors.New("expected object property name")
	ErrMissingColon                = errors.New("missing colon")
	ErrExpectedPropertyValue       = errors.New("expected object property value")
	ErrExpectedCommaOrCloseBrace   = errors.New("expected ',' or '}'")
	ErrExtraData                   = errors.New("extra data")
)

// Encode error categories, wrapped by *EncodeError.
var (
	ErrNonStringKey    = errors.New("non-string object key")
	ErrSelfReferential = errors.New("self-referential data structure")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrOverflow        = errors.New("value too large to encode")
)

// ErrTooDeep is the category for nesting beyond the configured MaxDepth.
// It is reported by both Decode and Encode.
var ErrTooDeep = errors.New("maximum nesting depth exceeded")

// A DecodeError describes a syntax error in the input. It points at a
// single byte three ways: Pos counts from the start of the input, Line and
// Offset locate the same byte within its line. For errors inside a
// compound construct the triple names the start of that construct, e.g.
// the opening quote of an unterminated string.
type DecodeError struct {
	Err     error  // category, one of the sentinel values above
	Message string // human-readable description
	Pos     int    // absolute byte offset, 0-based
	Line    int    // 1-based
	Offset  int    // byte offset within the line, 0-based
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("jsonish: %s at position %d (line %d, offset %d)", e.Message, e.Pos, e.Line, e.Offset)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// An EncodeError describes a value that cannot be encoded.
type EncodeError struct {
	Err     error  // category, one of the sentinel values above
	Message string // human-readable description
}

func (e *EncodeError) Error() string {
	return "jsonish: " + e.Message
}

func (e *EncodeError) Unwrap() error { return e.Err }
