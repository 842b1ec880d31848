package scan

// Cursor tracks a position within a byte slice along with the line and
// in-line offset of that position. Line endings are recognized in all four
// conventions: LF, CR, CRLF and LFCR. A CRLF or LFCR pair counts as a
// single line break, so "\r\n\n\r" contains exactly two breaks.
type Cursor struct {
	input []byte
	pos   int // absolute byte offset
	line  int // 1-based
	col   int // bytes consumed on the current line, 0-based

	prevCR bool
	prevLF bool
}

// A Mark is a snapshot of a cursor position, used to report errors at the
// start of an enclosing construct.
type Mark struct {
	Pos  int
	Line int
	Col  int
}

// New returns a cursor positioned at the start of input.
func New(input []byte) *Cursor {
	return &Cursor{input: input, line: 1}
}

// EOF reports whether the cursor has consumed all input.
func (c *Cursor) EOF() bool { return c.pos >= len(c.input) }

// Pos returns the absolute byte offset of the cursor.
func (c *Cursor) Pos() int { return c.pos }

// Line returns the 1-based line number of the cursor.
func (c *Cursor) Line() int { return c.line }

// Col returns the 0-based offset of the cursor within the current line.
func (c *Cursor) Col() int { return c.col }

// Mark returns a snapshot of the current position.
func (c *Cursor) Mark() Mark {
	return Mark{Pos: c.pos, Line: c.line, Col: c.col}
}

// Peek returns the byte at the cursor, or 0 at end of input.
func (c *Cursor) Peek() byte {
	if c.pos >= len(c.input) {
		return 0
	}
	return c.input[c.pos]
}

// PeekAt returns the byte n positions past the cursor, or 0 past the end.
func (c *Cursor) PeekAt(n int) byte {
	if c.pos+n >= len(c.input) {
		return 0
	}
	return c.input[c.pos+n]
}

// Rest returns the unconsumed remainder of the input.
func (c *Cursor) Rest() []byte { return c.input[c.pos:] }

// Next consumes one byte, keeping the line and in-line offset current.
// The second byte of a CRLF or LFCR pair does not start a new line.
func (c *Cursor) Next() {
	if c.pos >= len(c.input) {
		return
	}
	ch := c.input[c.pos]
	c.pos++
	switch ch {
	case '\n':
		if c.prevCR {
			c.prevCR = false
		} else {
			c.line++
			c.col = 0
			c.prevLF = true
		}
	case '\r':
		if c.prevLF {
			c.prevLF = false
		} else {
			c.line++
			c.col = 0
			c.prevCR = true
		}
	default:
		c.col++
		c.prevCR = false
		c.prevLF = false
	}
}

// Advance consumes n bytes.
func (c *Cursor) Advance(n int) {
	for i := 0; i < n; i++ {
		c.Next()
	}
}

// SkipSpaces consumes whitespace and, when comments is true, // line
// comments and /* */ block comments. A line comment runs to the next CR or
// LF; the terminator itself is consumed as whitespace on the next pass. An
// unterminated block comment consumes the rest of the input. A lone slash
// stops the skip with the cursor on the slash so the caller can report it.
func (c *Cursor) SkipSpaces(comments bool) {
	for !c.EOF() {
		switch ch := c.Peek(); {
		case isSpace(ch):
			c.Next()
		case comments && ch == '/':
			switch c.PeekAt(1) {
			case '/':
				c.Next()
				c.Next()
				for !c.EOF() && c.Peek() != '\r' && c.Peek() != '\n' {
					c.Next()
				}
			case '*':
				c.Next()
				c.Next()
				for !c.EOF() {
					if c.Peek() == '*' && c.PeekAt(1) == '/' {
						c.Next()
						c.Next()
						break
					}
					c.Next()
				}
			default:
				return
			}
		default:
			return
		}
	}
}

// isSpace reports whether ch is whitespace in the C locale sense.
func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
