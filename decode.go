package jsonish

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/go-jsonish/jsonish/internal/scan"
)

// decoder holds the state for a single Decode call.
type decoder struct {
	c      *scan.Cursor
	strict bool
	depth  int // remaining nesting budget
}

// decode parses exactly one value followed by nothing but whitespace (and,
// in loose mode, comments).
func (d *decoder) decode() (Value, error) {
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	d.skip()
	if !d.c.EOF() {
		return nil, d.errorAt(d.c.Mark(), ErrExtraData, "extra data after top-level value")
	}
	return v, nil
}

func (d *decoder) skip() {
	d.c.SkipSpaces(!d.strict)
}

// errorAt builds a DecodeError in category cat pointing at m.
func (d *decoder) errorAt(m scan.Mark, cat error, format string, args ...any) error {
	return &DecodeError{
		Err:     cat,
		Message: fmt.Sprintf(format, args...),
		Pos:     m.Pos,
		Line:    m.Line,
		Offset:  m.Col,
	}
}

// value skips leading space and dispatches on the first byte. The grammar
// needs no token stream: every value form is identified by its first byte,
// with one byte of lookahead for signed infinities.
func (d *decoder) value() (Value, error) {
	d.depth--
	if d.depth <= 0 {
		return nil, d.errorAt(d.c.Mark(), ErrTooDeep, "maximum nesting depth exceeded")
	}
	defer func() { d.depth++ }()

	d.skip()
	if d.c.EOF() {
		return nil, d.errorAt(d.c.Mark(), ErrEmptyInput, "empty input")
	}
	switch ch := d.c.Peek(); {
	case ch == '"' || (ch == '\'' && !d.strict):
		return d.decodeString()
	case ch == '{':
		return d.decodeObject()
	case ch == '[':
		return d.decodeArray()
	case ch == 't' || ch == 'f':
		return d.decodeBool()
	case ch == 'n':
		return d.decodeNull()
	case ch == 'N':
		return d.decodeNaN()
	case ch == 'I':
		return d.decodeInfinity()
	case ch == '+' || ch == '-':
		if d.c.PeekAt(1) == 'I' {
			return d.decodeInfinity()
		}
		return d.decodeNumber()
	case ch == '.' || isDigit(ch):
		return d.decodeNumber()
	default:
		return nil, d.errorAt(d.c.Mark(), ErrUnrecognizedToken, "cannot parse token %q", string(ch))
	}
}

// literal consumes the exact keyword at the cursor and returns v, or fails
// with a preview of the offending text.
func (d *decoder) literal(keyword, what string, v Value) (Value, error) {
	if !bytes.HasPrefix(d.c.Rest(), []byte(keyword)) {
		return nil, d.errorAt(d.c.Mark(), ErrUnrecognizedToken, "cannot parse %q as %s", preview(d.c.Rest()), what)
	}
	d.c.Advance(len(keyword))
	return v, nil
}

func (d *decoder) decodeNull() (Value, error) {
	return d.literal("null", "null", Null{})
}

func (d *decoder) decodeBool() (Value, error) {
	if d.c.Peek() == 't' {
		return d.literal("true", "bool", Bool{Value: true})
	}
	return d.literal("false", "bool", Bool{Value: false})
}

func (d *decoder) decodeNaN() (Value, error) {
	return d.literal("NaN", "NaN", Float{Value: math.NaN()})
}

func (d *decoder) decodeInfinity() (Value, error) {
	switch d.c.Peek() {
	case '+':
		return d.literal("+Infinity", "Infinity", Float{Value: math.Inf(1)})
	case '-':
		return d.literal("-Infinity", "Infinity", Float{Value: math.Inf(-1)})
	default:
		return d.literal("Infinity", "Infinity", Float{Value: math.Inf(1)})
	}
}

// decodeNumber scans [+-]? int frac? exp? where the integer part may be
// omitted before a fraction in loose mode. A '.' or exponent makes the
// literal a Float; everything else becomes an Int of arbitrary precision.
func (d *decoder) decodeNumber() (Value, error) {
	start := d.c.Mark()
	rest := d.c.Rest()
	i := 0
	isFloat := false

	if i < len(rest) && (rest[i] == '-' || rest[i] == '+') {
		i++
	}

	switch {
	case i < len(rest) && rest[i] == '0':
		i++
		// Digits after a leading zero are invalid in both modes.
		if i < len(rest) && isDigit(rest[i]) {
			return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
		}
	case i < len(rest) && isDigit(rest[i]):
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
	case i < len(rest) && rest[i] == '.' && !d.strict:
		// Leading-dot fraction such as .5; handled below.
	default:
		return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
	}

	if i < len(rest) && rest[i] == '.' {
		isFloat = true
		i++
		if i >= len(rest) || !isDigit(rest[i]) {
			return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
		}
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
	}

	if i < len(rest) && (rest[i] == 'e' || rest[i] == 'E') {
		isFloat = true
		i++
		if i < len(rest) && (rest[i] == '-' || rest[i] == '+') {
			i++
		}
		if i >= len(rest) || !isDigit(rest[i]) {
			return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
		}
		for i < len(rest) && isDigit(rest[i]) {
			i++
		}
	}

	lit := string(rest[:i])
	d.c.Advance(i)

	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		// Out-of-range literals saturate to ±Inf or 0 rather than erroring.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
		}
		return Float{Value: f}, nil
	}
	n, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, d.errorAt(start, ErrInvalidNumber, "invalid number")
	}
	return Int{Value: n}, nil
}

// decodeString scans to the closing quote, classifying the content, then
// builds the value in one of three ways: a direct copy when nothing needs
// resolving, a byte-level unescape for ASCII content with mnemonic
// escapes, or a full unescape when unicode escapes or non-ASCII bytes are
// present. Loose-mode line continuations and escaped soliduses are
// rewritten away first. Every error points at the opening quote.
func (d *decoder) decodeString() (Value, error) {
	open := d.c.Mark()
	rest := d.c.Rest()

	delim := byte('"')
	if !d.strict {
		delim = rest[0]
	}

	var (
		escaping     bool
		hasUnicode   bool // non-ASCII bytes or \u / \U escapes
		simpleEscape bool // mnemonic or quote escapes
		needsRewrite bool // line continuations or \/ present
		newlineLF    bool // previous char was an escaped LF
		newlineCR    bool // previous char was an escaped CR
	)

	i := 1
scanning:
	for {
		if i >= len(rest) {
			if escaping {
				return nil, d.errorAt(open, ErrTrailingBackslash, "string contains trailing backslash escape")
			}
			return nil, d.errorAt(open, ErrUnterminatedString, "unterminated string")
		}
		ch := rest[i]
		if escaping {
			switch {
			case ch == delim:
				simpleEscape = true
			case (ch == '\n' || ch == '\r') && !d.strict:
				// Line continuation; the complementary half of a CRLF or
				// LFCR pair may follow unescaped.
				needsRewrite = true
				if ch == '\n' {
					newlineLF = true
				} else {
					newlineCR = true
				}
			case ch == 'r' || ch == 'n' || ch == 't' || ch == 'b' || ch == 'f' || ch == '\\':
				simpleEscape = true
			case ch == 'u' || ch == 'U':
				hasUnicode = true
			case ch == '/':
				needsRewrite = true
			default:
				return nil, d.errorAt(open, ErrInvalidEscape, "string contains unrecognized backslash escape")
			}
			escaping = false
			i++
			continue
		}
		switch {
		case ch == '\\':
			escaping = true
		case ch == delim:
			break scanning
		case ch == '\n' || ch == '\r':
			paired := !d.strict && ((newlineLF && ch == '\r') || (newlineCR && ch == '\n'))
			if !paired {
				if d.strict {
					return nil, d.errorAt(open, ErrStringNewline, "string contains newline")
				}
				return nil, d.errorAt(open, ErrStringNewline, "string contains newline (hint: use backslash escape continuator)")
			}
		case ch >= 0x80:
			hasUnicode = true
		}
		newlineLF = false
		newlineCR = false
		i++
	}

	raw := rest[1:i]
	if needsRewrite {
		raw = rewriteString(raw)
	}

	var s string
	switch {
	case hasUnicode:
		var err error
		s, err = unescapeUnicode(raw)
		if err != nil {
			return nil, d.errorAt(open, ErrInvalidStringContent, "cannot decode string: %s", err)
		}
	case simpleEscape:
		s = unescapeSimple(raw)
	default:
		s = string(raw)
	}

	d.c.Advance(i + 1)
	return String{Value: s}, nil
}

// rewriteString removes line continuations (a backslash before a newline,
// plus the complementary half of a CRLF or LFCR pair) and reduces \/ to /.
// All other escape sequences pass through untouched.
func rewriteString(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' || i+1 >= len(raw) {
			out = append(out, ch)
			continue
		}
		switch next := raw[i+1]; {
		case next == '\n' || next == '\r':
			i++
			if i+1 < len(raw) && (raw[i+1] == '\n' || raw[i+1] == '\r') && raw[i+1] != next {
				i++
			}
		case next == '/':
			out = append(out, '/')
			i++
		default:
			out = append(out, ch, next)
			i++
		}
	}
	return out
}

// unescapeSimple resolves mnemonic, backslash and quote escapes in ASCII
// content. Continuations and \/ have already been rewritten away, and the
// scan phase has validated every escape target.
func unescapeSimple(raw []byte) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		i++
		switch raw[i] {
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		default:
			// The backslash and the quote characters stand for themselves.
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}

// unescapeUnicode resolves every escape form including \uXXXX and
// \UXXXXXXXX, combining valid surrogate pairs, and validates that the raw
// byte segments are well-formed UTF-8.
func unescapeUnicode(raw []byte) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		ch := raw[i]
		if ch != '\\' {
			if ch < 0x80 {
				b.WriteByte(ch)
				i++
				continue
			}
			r, size := utf8.DecodeRune(raw[i:])
			if r == utf8.RuneError && size == 1 {
				return "", fmt.Errorf("invalid UTF-8 byte 0x%02x", ch)
			}
			b.Write(raw[i : i+size])
			i += size
			continue
		}
		if i+1 >= len(raw) {
			return "", fmt.Errorf("stray trailing backslash")
		}
		switch c := raw[i+1]; c {
		case 'r':
			b.WriteByte('\r')
			i += 2
		case 'n':
			b.WriteByte('\n')
			i += 2
		case 't':
			b.WriteByte('\t')
			i += 2
		case 'b':
			b.WriteByte('\b')
			i += 2
		case 'f':
			b.WriteByte('\f')
			i += 2
		case 'u':
			if len(raw)-i < 6 {
				return "", fmt.Errorf("truncated \\u escape")
			}
			r, err := hexRune(raw[i+2 : i+6])
			if err != nil {
				return "", err
			}
			i += 6
			if utf16.IsSurrogate(r) {
				if len(raw)-i >= 6 && raw[i] == '\\' && raw[i+1] == 'u' {
					r2, err2 := hexRune(raw[i+2 : i+6])
					if err2 == nil {
						if combined := utf16.DecodeRune(r, r2); combined != utf8.RuneError {
							b.WriteRune(combined)
							i += 6
							continue
						}
					}
				}
				return "", fmt.Errorf("unpaired surrogate \\u%04x", r)
			}
			b.WriteRune(r)
		case 'U':
			if len(raw)-i < 10 {
				return "", fmt.Errorf("truncated \\U escape")
			}
			r, err := hexRune(raw[i+2 : i+10])
			if err != nil {
				return "", err
			}
			if r > unicode.MaxRune || utf16.IsSurrogate(r) {
				return "", fmt.Errorf("\\U%08x is not a valid character", r)
			}
			b.WriteRune(r)
			i += 10
		default:
			// The backslash, slash and quote characters stand for themselves.
			b.WriteByte(c)
			i += 2
		}
	}
	return b.String(), nil
}

// hexRune parses exactly len(h) hex digits.
func hexRune(h []byte) (rune, error) {
	var r rune
	for _, c := range h {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid hex digit %q in unicode escape", string(c))
		}
	}
	return r, nil
}

func (d *decoder) decodeArray() (Value, error) {
	open := d.c.Mark()
	d.c.Next() // consume '['

	arr := Array{Elements: []Value{}}
	const (
		expectItemOrClose = iota
		expectCommaOrClose
		expectItem
	)
	state := expectItemOrClose

	for {
		d.skip()
		if d.c.EOF() {
			return nil, d.errorAt(open, ErrUnterminatedArray, "unterminated array")
		}
		ch := d.c.Peek()
		switch state {
		case expectItemOrClose, expectItem:
			if ch == ']' && state == expectItemOrClose {
				d.c.Next()
				return arr, nil
			}
			if ch == ',' || ch == ']' {
				return nil, d.errorAt(d.c.Mark(), ErrExpectedArrayItem, "expecting array item")
			}
			elem, err := d.value()
			if err != nil {
				return nil, err
			}
			arr.Elements = append(arr.Elements, elem)
			state = expectCommaOrClose
		case expectCommaOrClose:
			switch ch {
			case ']':
				d.c.Next()
				return arr, nil
			case ',':
				d.c.Next()
				if d.strict {
					state = expectItem
				} else {
					// Loose mode allows a trailing comma.
					state = expectItemOrClose
				}
			default:
				return nil, d.errorAt(d.c.Mark(), ErrExpectedCommaOrCloseBracket, "expecting ',' or ']'")
			}
		}
	}
}

func (d *decoder) decodeObject() (Value, error) {
	open := d.c.Mark()
	d.c.Next() // consume '{'

	obj := Object{Members: []Member{}}
	index := make(map[string]int)
	const (
		expectKeyOrClose = iota
		expectCommaOrClose
		expectKey
	)
	state := expectKeyOrClose
	trailingComma := false

	for {
		d.skip()
		if d.c.EOF() {
			return nil, d.errorAt(open, ErrUnterminatedObject, "unterminated object")
		}
		ch := d.c.Peek()
		switch state {
		case expectKeyOrClose, expectKey:
			if ch == '}' && state == expectKeyOrClose {
				d.c.Next()
				return obj, nil
			}
			if ch != '"' && (d.strict || ch != '\'') {
				if trailingComma {
					return nil, d.errorAt(d.c.Mark(), ErrExpectedPropertyName, "expecting object property name rather than trailing comma")
				}
				return nil, d.errorAt(d.c.Mark(), ErrExpectedPropertyName, "expecting object property name")
			}
			trailingComma = false

			keyVal, err := d.decodeString()
			if err != nil {
				return nil, err
			}
			key := keyVal.(String).Value

			d.skip()
			if d.c.Peek() != ':' {
				return nil, d.errorAt(d.c.Mark(), ErrMissingColon, "missing colon after object property name")
			}
			d.c.Next()

			d.skip()
			if ch := d.c.Peek(); ch == ',' || ch == '}' {
				return nil, d.errorAt(d.c.Mark(), ErrExpectedPropertyValue, "expecting object property value")
			}
			val, err := d.value()
			if err != nil {
				return nil, err
			}
			// Last value wins; the member keeps its original position.
			if at, ok := index[key]; ok {
				obj.Members[at].Value = val
			} else {
				index[key] = len(obj.Members)
				obj.Members = append(obj.Members, Member{Key: key, Value: val})
			}
			state = expectCommaOrClose
		case expectCommaOrClose:
			switch ch {
			case '}':
				d.c.Next()
				return obj, nil
			case ',':
				d.c.Next()
				trailingComma = true
				if d.strict {
					state = expectKey
				} else {
					// Loose mode allows a trailing comma.
					state = expectKeyOrClose
				}
			default:
				return nil, d.errorAt(d.c.Mark(), ErrExpectedCommaOrCloseBrace, "expecting ',' or '}'")
			}
		}
	}
}

// preview truncates text for use in error messages.
func preview(b []byte) string {
	const max = 20
	if len(b) > max {
		b = b[:max]
	}
	return string(b)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
