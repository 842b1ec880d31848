package jsonish

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// encodeState holds the state for a single Encode call.
type encodeState struct {
	buf     bytes.Buffer
	depth   int // remaining nesting budget
	pending map[refID]struct{}
}

// refID identifies a container while its encoding is in progress. The kind
// keeps pointers, maps and slice data at equal addresses apart; slices also
// carry their length, since two distinct slices may share a backing array.
type refID struct {
	kind reflect.Kind
	ptr  uintptr
	len  int
}

// enter registers a container about to be walked. Revisiting a container
// whose walk has not finished means the data is cyclic.
func (e *encodeState) enter(id refID, what string) error {
	if _, ok := e.pending[id]; ok {
		return &EncodeError{Err: ErrSelfReferential, Message: what + " with references to itself is not encodable"}
	}
	if e.pending == nil {
		e.pending = make(map[refID]struct{})
	}
	e.pending[id] = struct{}{}
	return nil
}

func (e *encodeState) leave(id refID) {
	delete(e.pending, id)
}

// value encodes a single value. The Value variants are matched directly;
// everything else goes through reflection.
func (e *encodeState) value(v any) error {
	e.depth--
	if e.depth <= 0 {
		return &EncodeError{Err: ErrTooDeep, Message: "maximum nesting depth exceeded"}
	}
	defer func() { e.depth++ }()

	switch val := v.(type) {
	case nil:
		e.buf.WriteString("null")
	case Null:
		e.buf.WriteString("null")
	case Bool:
		if val.Value {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case Int:
		e.writeInt(val.Value)
	case Float:
		e.writeFloat(val.Value, 64)
	case String:
		return e.writeString(val.Value)
	case Array:
		return e.writeArray(val)
	case Object:
		return e.writeObject(val)
	case *big.Int:
		if val == nil {
			e.buf.WriteString("null")
		} else {
			e.writeInt(val)
		}
	case big.Int:
		e.writeInt(&val)
	default:
		return e.reflectValue(reflect.ValueOf(v))
	}
	return nil
}

// reflectValue encodes host values that are not Value variants: booleans,
// strings, numbers, slices, arrays and string-keyed maps. Anything else,
// structs included, is not encodable.
func (e *encodeState) reflectValue(rv reflect.Value) error {
	if !rv.IsValid() {
		e.buf.WriteString("null")
		return nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			e.buf.WriteString("true")
		} else {
			e.buf.WriteString("false")
		}
	case reflect.String:
		return e.writeString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32:
		e.writeFloat(rv.Float(), 32)
	case reflect.Float64:
		e.writeFloat(rv.Float(), 64)
	case reflect.Slice:
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		if rv.Len() == 0 {
			e.buf.WriteString("[]")
			return nil
		}
		id := refID{kind: reflect.Slice, ptr: rv.Pointer(), len: rv.Len()}
		if err := e.enter(id, "a slice"); err != nil {
			return err
		}
		defer e.leave(id)
		return e.writeElements(rv)
	case reflect.Array:
		return e.writeElements(rv)
	case reflect.Map:
		return e.writeMap(rv)
	case reflect.Pointer:
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		id := refID{kind: reflect.Pointer, ptr: rv.Pointer()}
		if err := e.enter(id, "a pointer"); err != nil {
			return err
		}
		defer e.leave(id)
		return e.value(rv.Elem().Interface())
	case reflect.Interface:
		if rv.IsNil() {
			e.buf.WriteString("null")
			return nil
		}
		return e.value(rv.Elem().Interface())
	default:
		return &EncodeError{Err: ErrUnsupportedType, Message: fmt.Sprintf("unsupported type for encoding: %s", rv.Type())}
	}
	return nil
}

func (e *encodeState) writeArray(a Array) error {
	if len(a.Elements) == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	rv := reflect.ValueOf(a.Elements)
	id := refID{kind: reflect.Slice, ptr: rv.Pointer(), len: rv.Len()}
	if err := e.enter(id, "an array"); err != nil {
		return err
	}
	defer e.leave(id)

	e.buf.WriteByte('[')
	for i, el := range a.Elements {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.value(el); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encodeState) writeObject(o Object) error {
	if len(o.Members) == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	rv := reflect.ValueOf(o.Members)
	id := refID{kind: reflect.Slice, ptr: rv.Pointer(), len: rv.Len()}
	if err := e.enter(id, "an object"); err != nil {
		return err
	}
	defer e.leave(id)

	e.buf.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.writeString(m.Key); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(m.Value); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// writeElements renders any indexable sequence.
func (e *encodeState) writeElements(rv reflect.Value) error {
	e.buf.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.value(rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	e.buf.WriteByte(']')
	return nil
}

func (e *encodeState) writeMap(rv reflect.Value) error {
	if rv.IsNil() {
		e.buf.WriteString("null")
		return nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return &EncodeError{Err: ErrNonStringKey, Message: fmt.Sprintf("map key type must be a string, got %s", rv.Type().Key())}
	}
	if rv.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	id := refID{kind: reflect.Map, ptr: rv.Pointer()}
	if err := e.enter(id, "a map"); err != nil {
		return err
	}
	defer e.leave(id)

	// Pairs render in whatever order Go yields the keys.
	e.buf.WriteByte('{')
	for i, key := range rv.MapKeys() {
		if i > 0 {
			e.buf.WriteString(", ")
		}
		if err := e.writeString(key.String()); err != nil {
			return err
		}
		e.buf.WriteString(": ")
		if err := e.value(rv.MapIndex(key).Interface()); err != nil {
			return err
		}
	}
	e.buf.WriteByte('}')
	return nil
}

// writeInt renders an arbitrary-precision integer in decimal. A nil value
// stands for zero.
func (e *encodeState) writeInt(n *big.Int) {
	if n == nil {
		e.buf.WriteByte('0')
		return
	}
	e.buf.WriteString(n.String())
}

// writeFloat renders f in the shortest form that parses back to the same
// value, with ".0" appended when the result would otherwise read as an
// integer literal. NaN and the infinities use their literal names.
func (e *encodeState) writeFloat(f float64, bits int) {
	switch {
	case math.IsNaN(f):
		e.buf.WriteString("NaN")
	case math.IsInf(f, 1):
		e.buf.WriteString("Infinity")
	case math.IsInf(f, -1):
		e.buf.WriteString("-Infinity")
	default:
		s := strconv.FormatFloat(f, 'g', -1, bits)
		e.buf.WriteString(s)
		if !strings.ContainsAny(s, ".eE") {
			e.buf.WriteString(".0")
		}
	}
}

// writeString renders s double-quoted regardless of how it was quoted in
// the source. Quotes, backslashes and soliduses take a backslash; the
// common control characters use their mnemonics; remaining ASCII controls
// become \u00xx. Printable characters above ASCII pass through as UTF-8,
// unprintable ones become \uxxxx, or \Uxxxxxxxx beyond the basic plane.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (e *encodeState) writeString(s string) error {
	if len(s) > (math.MaxInt-2)/10 {
		return &EncodeError{Err: ErrOverflow, Message: "string is too long to encode"}
	}
	e.buf.WriteByte('"')
	for _, ch := range s {
		switch {
		case ch == '"' || ch == '\\' || ch == '/':
			e.buf.WriteByte('\\')
			e.buf.WriteByte(byte(ch))
		case ch == '\t':
			e.buf.WriteString(`\t`)
		case ch == '\n':
			e.buf.WriteString(`\n`)
		case ch == '\r':
			e.buf.WriteString(`\r`)
		case ch == '\f':
			e.buf.WriteString(`\f`)
		case ch == '\b':
			e.buf.WriteString(`\b`)
		case ch < ' ' || ch == 0x7f:
			fmt.Fprintf(&e.buf, `\u%04x`, ch)
		case ch < 0x7f:
			e.buf.WriteByte(byte(ch))
		case unicode.IsPrint(ch):
			e.buf.WriteRune(ch)
		case ch <= 0xffff:
			fmt.Fprintf(&e.buf, `\u%04x`, ch)
		default:
			fmt.Fprintf(&e.buf, `\U%08x`, ch)
		}
	}
	e.buf.WriteByte('"')
	return nil
}
