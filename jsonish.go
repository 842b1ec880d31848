package jsonish

import (
	"fmt"
	"io"

	"github.com/go-jsonish/jsonish/internal/scan"
)

// Decode parses data, which holds a single value in the relaxed grammar,
// and returns its Value tree.
//
// By default the loose extensions are enabled: comments, trailing commas,
// single-quoted strings, fractions without an integer part, and backslash
// line continuations inside strings. Pass Strict to accept standard JSON
// only; NaN and the Infinity literals are accepted either way.
func Decode(data []byte, opts ...Option) (Value, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	d := &decoder{c: scan.New(data), strict: o.strict, depth: o.maxDepth}
	return d.decode()
}

// Encode returns the canonical textual form of v. v may be a Value or any
// combination of Go bools, strings, integers (including *big.Int), floats,
// slices, arrays and string-keyed maps.
//
// Strings encode double-quoted with a fixed escape set no matter how they
// were written in the source, so equal values produce identical text.
func Encode(v any, opts ...Option) ([]byte, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	e := &encodeState{depth: o.maxDepth}
	if err := e.value(v); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

// Valid reports whether data parses as a single value.
func Valid(data []byte, opts ...Option) bool {
	_, err := Decode(data, opts...)
	return err == nil
}

// Decoder reads a value from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options such as Strict or MaxDepth configure the decoding.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the value from the stream.
//
// Note: This is a non-streaming implementation. It reads the entire
// reader into memory first before parsing.
func (d *Decoder) Decode() (Value, error) {
	if d.r == nil {
		return nil, fmt.Errorf("jsonish: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return nil, err
	}
	return Decode(data, d.opts...)
}

// Encoder writes values to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the encoding of v to the stream, followed by a newline.
func (e *Encoder) Encode(v any) error {
	data, err := Encode(v, e.opts...)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = e.w.Write(data)
	return err
}
