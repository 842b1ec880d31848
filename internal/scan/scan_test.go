package scan_test

import (
	"testing"

	"github.com/go-jsonish/jsonish/internal/scan"
	"github.com/stretchr/testify/require"
)

func TestCursor_LineCounting(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
		wantCol  int
	}{
		{"no newline", "abc", 1, 3},
		{"lf", "a\nb", 2, 1},
		{"cr", "a\rb", 2, 1},
		{"crlf pair is one break", "a\r\nb", 2, 1},
		{"lfcr pair is one break", "a\n\rb", 2, 1},
		{"crlf then lfcr", "\r\n\n\r", 3, 0},
		{"two bare lfs", "\n\n", 3, 0},
		{"two bare crs", "\r\r", 3, 0},
		{"crlf crlf", "\r\n\r\n", 3, 0},
		{"text after crlf", "ab\r\ncd", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := scan.New([]byte(tt.input))
			for !c.EOF() {
				c.Next()
			}
			require.Equal(t, tt.wantLine, c.Line(), "line")
			require.Equal(t, tt.wantCol, c.Col(), "col")
			require.Equal(t, len(tt.input), c.Pos(), "pos")
		})
	}
}

func TestCursor_Peek(t *testing.T) {
	c := scan.New([]byte("ab"))
	require.Equal(t, byte('a'), c.Peek())
	require.Equal(t, byte('b'), c.PeekAt(1))
	require.Equal(t, byte(0), c.PeekAt(2))
	c.Next()
	c.Next()
	require.True(t, c.EOF())
	require.Equal(t, byte(0), c.Peek())
	// Next past the end is a no-op.
	c.Next()
	require.Equal(t, 2, c.Pos())
}

func TestCursor_SkipSpaces(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		comments bool
		wantPos  int
		wantLine int
	}{
		{"plain whitespace", " \t\v\f x", true, 5, 1},
		{"newlines counted", " \n\n x", true, 4, 3},
		{"stops at token", "  5", true, 2, 1},
		{"line comment to eol", "// c\nx", true, 5, 2},
		{"line comment at eof", "// c", true, 4, 1},
		{"block comment", "/* c */x", true, 7, 1},
		{"block comment with newline", "/* a\nb */x", true, 9, 2},
		{"unterminated block comment", "/* c", true, 4, 1},
		{"star inside block comment", "/* a * b */x", true, 11, 1},
		{"comment then space then comment", "// a\n /* b */ x", true, 14, 2},
		{"lone slash stays put", "  /x", true, 2, 1},
		{"comments off stops at slash", "  // c", false, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := scan.New([]byte(tt.input))
			c.SkipSpaces(tt.comments)
			require.Equal(t, tt.wantPos, c.Pos(), "pos")
			require.Equal(t, tt.wantLine, c.Line(), "line")
		})
	}
}

func TestCursor_Mark(t *testing.T) {
	c := scan.New([]byte("a\nbc"))
	c.Advance(3)
	m := c.Mark()
	require.Equal(t, 3, m.Pos)
	require.Equal(t, 2, m.Line)
	require.Equal(t, 1, m.Col)
}
