package selection

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Position is a 1-based line and column. Columns count runes, not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Offset converts p to a byte offset in src. A column one past the end of
// the line addresses the line break.
func Offset(src []byte, p Position) (int, error) {
	if p.Line < 1 || p.Column < 1 {
		return 0, fmt.Errorf("%w: %s", ErrOutOfRange, p)
	}
	off := 0
	for line := 1; line < p.Line; line++ {
		nl := bytes.IndexByte(src[off:], '\n')
		if nl < 0 {
			return 0, fmt.Errorf("%w: line %d", ErrOutOfRange, p.Line)
		}
		off += nl + 1
	}
	for col := 1; col < p.Column; col++ {
		if off >= len(src) || src[off] == '\n' {
			return 0, fmt.Errorf("%w: %s", ErrOutOfRange, p)
		}
		_, size := utf8.DecodeRune(src[off:])
		off += size
	}
	return off, nil
}

// PositionOf converts a byte offset back to a Position.
func PositionOf(src []byte, offset int) Position {
	if offset > len(src) {
		offset = len(src)
	}
	p := Position{Line: 1, Column: 1}
	for _, r := range string(src[:offset]) {
		if r == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}

// ParsePosition parses "line:col".
func ParsePosition(s string) (Position, error) {
	l, c, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, fmt.Errorf("invalid position %q (want line:col)", s)
	}
	line, err := strconv.Atoi(l)
	if err != nil {
		return Position{}, fmt.Errorf("invalid line in %q: %w", s, err)
	}
	col, err := strconv.Atoi(c)
	if err != nil {
		return Position{}, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	return Position{Line: line, Column: col}, nil
}

// ParseRange parses "line:col-line:col" into a byte span of src.
func ParseRange(src []byte, s string) (Span, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return Span{}, fmt.Errorf("invalid range %q (want line:col-line:col)", s)
	}
	start, err := ParsePosition(from)
	if err != nil {
		return Span{}, err
	}
	end, err := ParsePosition(to)
	if err != nil {
		return Span{}, err
	}
	var span Span
	if span.Start, err = Offset(src, start); err != nil {
		return Span{}, err
	}
	if span.End, err = Offset(src, end); err != nil {
		return Span{}, err
	}
	if span.End < span.Start {
		return Span{}, fmt.Errorf("%w: range %q ends before it starts", ErrOutOfRange, s)
	}
	return span, nil
}
