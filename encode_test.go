package jsonish_test

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/go-jsonish/jsonish"
	"github.com/stretchr/testify/require"
)

// encodeOne fails the test when v does not encode.
func encodeOne(t *testing.T, v any, opts ...jsonish.Option) string {
	t.Helper()
	b, err := jsonish.Encode(v, opts...)
	require.NoError(t, err)
	return string(b)
}

func TestEncode(t *testing.T) {
	t.Run("Scalars", func(t *testing.T) {
		require.Equal(t, "null", encodeOne(t, nil))
		require.Equal(t, "null", encodeOne(t, jsonish.Null{}))
		require.Equal(t, "true", encodeOne(t, jsonish.Bool{Value: true}))
		require.Equal(t, "false", encodeOne(t, jsonish.Bool{Value: false}))
		require.Equal(t, "42", encodeOne(t, jsonish.NewInt(42)))
		require.Equal(t, "-42", encodeOne(t, jsonish.NewInt(-42)))
		require.Equal(t, "2.5", encodeOne(t, jsonish.Float{Value: 2.5}))
		require.Equal(t, `"hi"`, encodeOne(t, jsonish.String{Value: "hi"}))

		// The zero Int counts as zero.
		require.Equal(t, "0", encodeOne(t, jsonish.Int{}))
	})

	t.Run("Value Tree", func(t *testing.T) {
		v := jsonish.Object{Members: []jsonish.Member{
			{Key: "a", Value: jsonish.NewInt(1)},
			{Key: "b", Value: jsonish.Array{Elements: []jsonish.Value{
				jsonish.Bool{Value: true},
				jsonish.Null{},
			}}},
			{Key: "c", Value: jsonish.String{Value: "x"}},
		}}
		require.Equal(t, `{"a": 1, "b": [true, null], "c": "x"}`, encodeOne(t, v))

		require.Equal(t, "[]", encodeOne(t, jsonish.Array{}))
		require.Equal(t, "{}", encodeOne(t, jsonish.Object{}))
	})

	t.Run("Big Integers", func(t *testing.T) {
		n, ok := new(big.Int).SetString("123456789012345678901234567890", 10)
		require.True(t, ok)
		require.Equal(t, "123456789012345678901234567890", encodeOne(t, jsonish.Int{Value: n}))
		require.Equal(t, "123456789012345678901234567890", encodeOne(t, n))
		require.Equal(t, "5", encodeOne(t, *big.NewInt(5)))
		require.Equal(t, "null", encodeOne(t, (*big.Int)(nil)))
	})

	t.Run("Floats", func(t *testing.T) {
		testCases := []struct {
			in   float64
			want string
		}{
			{2.0, "2.0"},
			{0.5, "0.5"},
			{math.Copysign(0, -1), "-0.0"},
			{0.025, "0.025"},
			{999999.0, "999999.0"},
			{1e6, "1e+06"},
			{1e15, "1e+15"},
			{1e-7, "1e-07"},
			{123456.789, "123456.789"},
			{1.5e300, "1.5e+300"},
			{math.MaxFloat64, "1.7976931348623157e+308"},
			{5e-324, "5e-324"},
			{math.NaN(), "NaN"},
			{math.Inf(1), "Infinity"},
			{math.Inf(-1), "-Infinity"},
		}
		for _, tc := range testCases {
			t.Run(tc.want, func(t *testing.T) {
				require.Equal(t, tc.want, encodeOne(t, jsonish.Float{Value: tc.in}))
				require.Equal(t, tc.want, encodeOne(t, tc.in))
			})
		}

		// float32 values render at single precision.
		require.Equal(t, "0.1", encodeOne(t, float32(0.1)))
	})

	t.Run("Strings", func(t *testing.T) {
		testCases := []struct {
			name string
			in   string
			want string
		}{
			{"plain", "hello", `"hello"`},
			{"apostrophe stays raw", "it's", `"it's"`},
			{"double quote", `say "hi"`, `"say \"hi\""`},
			{"solidus", "a/b", `"a\/b"`},
			{"backslash", `back\slash`, `"back\\slash"`},
			{"mnemonics", "\t\n\r\f\b", `"\t\n\r\f\b"`},
			{"nul", "\x00", `"\u0000"`},
			{"unit separator", "\x1f", `"\u001f"`},
			{"delete", "\x7f", `"\u007f"`},
			{"next line", "\u0085", `"\u0085"`},
			{"printable latin-1", "é", `"é"`},
			{"no-break space", "\u00a0", `"\u00a0"`},
			{"line separator", "\u2028", `"\u2028"`},
			{"printable astral", "😀", `"😀"`},
			{"unprintable astral", "\U000e0001", `"\U000e0001"`},
			{"mixed", "naïve café", `"naïve café"`},
			{"invalid utf-8 replaced", "\xff", "\"�\""},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				require.Equal(t, tc.want, encodeOne(t, tc.in))
			})
		}
	})

	t.Run("Host Types", func(t *testing.T) {
		require.Equal(t, "-7", encodeOne(t, -7))
		require.Equal(t, "42", encodeOne(t, int8(42)))
		require.Equal(t, "18446744073709551615", encodeOne(t, uint64(math.MaxUint64)))
		require.Equal(t, "true", encodeOne(t, true))
		require.Equal(t, `"s"`, encodeOne(t, "s"))

		require.Equal(t, "[1, 2, 3]", encodeOne(t, []int{1, 2, 3}))
		require.Equal(t, `["a", "b"]`, encodeOne(t, [2]string{"a", "b"}))
		require.Equal(t, "[1, 2]", encodeOne(t, []byte{1, 2}))
		require.Equal(t, `[1, "x", true, null, 2.5]`, encodeOne(t, []any{1, "x", true, nil, 2.5}))
		require.Equal(t, `{"a": 1}`, encodeOne(t, map[string]int{"a": 1}))
		require.Equal(t, `{"a": [1]}`, encodeOne(t, map[string]any{"a": []any{1}}))

		require.Equal(t, "[]", encodeOne(t, []int{}))
		require.Equal(t, "{}", encodeOne(t, map[string]int{}))
		require.Equal(t, "null", encodeOne(t, []int(nil)))
		require.Equal(t, "null", encodeOne(t, map[string]int(nil)))

		n := 5
		require.Equal(t, "5", encodeOne(t, &n))
		require.Equal(t, "null", encodeOne(t, (*int)(nil)))

		// Value variants may be mixed into host containers.
		require.Equal(t, `[1, "s"]`, encodeOne(t, []any{jsonish.NewInt(1), jsonish.String{Value: "s"}}))
	})

	t.Run("Max Depth", func(t *testing.T) {
		v := any(1)
		for i := 0; i < 10; i++ {
			v = []any{v}
		}
		_, err := jsonish.Encode(v, jsonish.MaxDepth(5))
		require.ErrorIs(t, err, jsonish.ErrTooDeep)
		require.EqualError(t, err, "jsonish: maximum nesting depth exceeded")

		_, err = jsonish.Encode(v)
		require.NoError(t, err)
	})

	t.Run("Invalid Max Depth", func(t *testing.T) {
		_, err := jsonish.Encode(1, jsonish.MaxDepth(0))
		require.EqualError(t, err, "jsonish: max depth must be a positive integer")
	})
}

func TestEncode_UnsupportedValues(t *testing.T) {
	testCases := []struct {
		name        string
		v           any
		wantErr     error
		expectedErr string
	}{
		{
			name:        "Struct",
			v:           struct{}{},
			wantErr:     jsonish.ErrUnsupportedType,
			expectedErr: "jsonish: unsupported type for encoding: struct {}",
		},
		{
			name:        "Channel",
			v:           make(chan int),
			wantErr:     jsonish.ErrUnsupportedType,
			expectedErr: "jsonish: unsupported type for encoding: chan int",
		},
		{
			name:        "Func",
			v:           func() {},
			wantErr:     jsonish.ErrUnsupportedType,
			expectedErr: "jsonish: unsupported type for encoding: func()",
		},
		{
			name:        "Complex",
			v:           complex(1, 2),
			wantErr:     jsonish.ErrUnsupportedType,
			expectedErr: "jsonish: unsupported type for encoding: complex128",
		},
		{
			name:        "Non-String Map Key",
			v:           map[int]string{1: "a"},
			wantErr:     jsonish.ErrNonStringKey,
			expectedErr: "jsonish: map key type must be a string, got int",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := jsonish.Encode(tc.v)
			require.Error(t, err)
			require.ErrorIs(t, err, tc.wantErr)
			require.EqualError(t, err, tc.expectedErr)
		})
	}
}

func TestEncode_Cycles(t *testing.T) {
	t.Run("Self-Referential Slice", func(t *testing.T) {
		a := make([]any, 1)
		a[0] = a
		_, err := jsonish.Encode(a)
		require.ErrorIs(t, err, jsonish.ErrSelfReferential)
		require.EqualError(t, err, "jsonish: a slice with references to itself is not encodable")
	})

	t.Run("Self-Referential Map", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m
		_, err := jsonish.Encode(m)
		require.ErrorIs(t, err, jsonish.ErrSelfReferential)
		require.EqualError(t, err, "jsonish: a map with references to itself is not encodable")
	})

	t.Run("Self-Referential Array Value", func(t *testing.T) {
		elems := make([]jsonish.Value, 1)
		arr := jsonish.Array{Elements: elems}
		elems[0] = arr
		_, err := jsonish.Encode(arr)
		require.ErrorIs(t, err, jsonish.ErrSelfReferential)
		require.EqualError(t, err, "jsonish: an array with references to itself is not encodable")
	})

	t.Run("Self-Referential Object Value", func(t *testing.T) {
		members := make([]jsonish.Member, 1)
		obj := jsonish.Object{Members: members}
		members[0] = jsonish.Member{Key: "self", Value: obj}
		_, err := jsonish.Encode(obj)
		require.ErrorIs(t, err, jsonish.ErrSelfReferential)
		require.EqualError(t, err, "jsonish: an object with references to itself is not encodable")
	})

	t.Run("Self-Referential Pointer", func(t *testing.T) {
		v := new(any)
		*v = v
		_, err := jsonish.Encode(v)
		require.ErrorIs(t, err, jsonish.ErrSelfReferential)
		require.EqualError(t, err, "jsonish: a pointer with references to itself is not encodable")
	})

	t.Run("Shared Siblings Are Fine", func(t *testing.T) {
		shared := []any{1, 2}
		require.Equal(t, "[[1, 2], [1, 2]]", encodeOne(t, []any{shared, shared}))

		m := map[string]int{"x": 1}
		require.Equal(t, `[{"x": 1}, {"x": 1}]`, encodeOne(t, []any{m, m}))
	})
}

func TestEncoder(t *testing.T) {
	t.Run("Appends Newline", func(t *testing.T) {
		var buf bytes.Buffer
		err := jsonish.NewEncoder(&buf).Encode(jsonish.NewInt(1))
		require.NoError(t, err)
		require.Equal(t, "1\n", buf.String())
	})

	t.Run("Writes Nothing On Error", func(t *testing.T) {
		var buf bytes.Buffer
		err := jsonish.NewEncoder(&buf).Encode(struct{}{})
		require.Error(t, err)
		require.Zero(t, buf.Len())
	})

	t.Run("Options Apply", func(t *testing.T) {
		var buf bytes.Buffer
		enc := jsonish.NewEncoder(&buf, jsonish.MaxDepth(2))
		err := enc.Encode([]any{[]any{1}})
		require.ErrorIs(t, err, jsonish.ErrTooDeep)
	})
}

// TestRoundTrip feeds loose inputs through Decode and Encode and checks the
// canonical form, then verifies the canonical form is a fixed point that
// strict mode accepts.
func TestRoundTrip(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{`null`, `null`},
		{`true`, `true`},
		{`123`, `123`},
		{`+5`, `5`},
		{`-0.5`, `-0.5`},
		{`.5`, `0.5`},
		{`2e0`, `2.0`},
		{`1e999`, `Infinity`},
		{`NaN`, `NaN`},
		{`+Infinity`, `Infinity`},
		{`-Infinity`, `-Infinity`},
		{`12345678901234567890`, `12345678901234567890`},
		{`"hey"`, `"hey"`},
		{`'hey'`, `"hey"`},
		{`"it's"`, `"it's"`},
		{`'say "hi"'`, `"say \"hi\""`},
		{`"a/b"`, `"a\/b"`},
		{`"a\/b"`, `"a\/b"`},
		{`"\u0041"`, `"A"`},
		{`"\u007f"`, `"\u007f"`},
		{`"\ud83d\ude00"`, `"😀"`},
		{`"\U000e0001"`, `"\U000e0001"`},
		{"\"a\tb\"", `"a\tb"`},
		{"\"blah \\\n blah\"", `"blah  blah"`},
		{`[ ]`, `[]`},
		{`[1, 2, 3,]`, `[1, 2, 3]`},
		{`{ }`, `{}`},
		{`{"a":1}`, `{"a": 1}`},
		{`{"a": [1.5, null], "b": "x"}`, `{"a": [1.5, null], "b": "x"}`},
		{`{"a": 1, "b": 2, "a": 3}`, `{"a": 3, "b": 2}`},
		{"// intro\n{'k': 'v',} // done", `{"k": "v"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			v, err := jsonish.Decode([]byte(tc.input))
			require.NoError(t, err)
			got, err := jsonish.Encode(v)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))

			// Canonical output decodes in strict mode and re-encodes
			// to itself.
			v2, err := jsonish.Decode(got, jsonish.Strict())
			require.NoError(t, err)
			again, err := jsonish.Encode(v2)
			require.NoError(t, err)
			require.Equal(t, tc.want, string(again))
		})
	}
}

// benchmarkDocument builds a loose-syntax document large enough to exercise
// comments, both quote styles, escapes and trailing commas.
func benchmarkDocument() []byte {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "  // entry %d\n", i)
		fmt.Fprintf(&sb, "  'item-%d': {\"id\": %d, \"name\": \"caf\\u00e9 %d\", \"ratio\": %d.5, \"tags\": ['a', 'b',],},\n", i, i, i, i)
	}
	sb.WriteString("}\n")
	return []byte(sb.String())
}

func BenchmarkDecode(b *testing.B) {
	input := benchmarkDocument()
	b.ReportAllocs()
	b.SetBytes(int64(len(input)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := jsonish.Decode(input); err != nil {
			b.Fatalf("Decode failed during benchmark: %v", err)
		}
	}
}

func BenchmarkEncode(b *testing.B) {
	v, err := jsonish.Decode(benchmarkDocument())
	if err != nil {
		b.Fatalf("failed to decode benchmark document: %v", err)
	}

	b.ReportAllocs()

	var buf bytes.Buffer
	enc := jsonish.NewEncoder(&buf)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := enc.Encode(v); err != nil {
			b.Fatalf("Encode failed during benchmark: %v", err)
		}
		buf.Reset()
	}
}
