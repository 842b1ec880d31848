/*
Package jsonish decodes and encodes a relaxed superset of JSON. The API is
designed to be familiar to Go developers, loosely mirroring the standard
`encoding/json` package, but values decode into an explicit Value tree
rather than into caller-supplied structs.

In its default loose mode the decoder accepts, on top of standard JSON:

  - line comments introduced by // and C-style block comments
  - trailing commas in arrays and objects
  - single-quoted strings and object keys
  - fractions written without an integer part, such as .5
  - backslash line continuations inside strings

Strict mode, enabled with the Strict option, rejects all of the above. The
IEEE 754 specials are part of the value model in both modes: NaN, Infinity,
+Infinity and -Infinity parse as floats, and non-finite floats encode back
to those same literals.

Decoding produces a Value, a small closed union: Null, Bool, Int, Float,
String, Array and Object. Integers are arbitrary precision, objects keep
their members in source order, and a duplicated key keeps its first
position while taking its last value.

	v, err := jsonish.Decode([]byte(`{'name': "demo", "count": 1,} // neat`))
	if err != nil {
		// handle error
	}
	obj := v.(jsonish.Object)

Encoding is deterministic for deterministic input: strings are always
double-quoted with a fixed escape set, floats always carry a fraction or
an exponent, and arrays and objects render with ", " and ": " separators.
Encode also accepts plain Go values (bools, strings, numbers, slices,
arrays, string-keyed maps), so a decoded tree and the equivalent hand-built
Go data encode identically. Go maps render in Go's map iteration order.

Syntax errors are reported as *DecodeError values carrying the absolute
position, line and line offset of the offending byte, and unwrap to
category sentinels such as ErrInvalidNumber for errors.Is matching.

Both directions bound their recursion with MaxDepth, which defaults to
1000, and the encoder reports cyclic data as an error instead of
recursing forever.
*/
package jsonish
