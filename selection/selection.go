// Package selection turns a selected string literal into a translation
// value and computes the source edit that replaces it with a term accessor.
package selection

import (
	"errors"
	"fmt"

	"github.com/minios-linux/litgen/termkey"
)

var (
	// ErrEmptySelection: nothing usable is selected.
	ErrEmptySelection = errors.New("empty selection")
	// ErrUnquotedSelection: the selection carries no quotes and is not
	// directly wrapped by a matching quote pair in the source.
	ErrUnquotedSelection = errors.New("selection is not enclosed in quotes")
	// ErrOutOfRange: a span or position falls outside the source.
	ErrOutOfRange = errors.New("selection out of range")
)

// Span is a half-open byte range [Start, End) in the source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes in the span.
func (s Span) Len() int { return s.End - s.Start }

// Selection is an analyzed selection.
type Selection struct {
	// Selected is the span as the user selected it.
	Selected Span
	// Span is the selection with surrounding whitespace removed.
	Span Span
	// Text is the source text inside Span.
	Text string
	// Value is Text without its quote pair, if any.
	Value string
	// Quoted is true when Text starts and ends with the same quote.
	Quoted bool
}

// Edit replaces Span with NewText.
type Edit struct {
	Span    Span
	NewText string
}

// Apply returns a copy of src with the edit applied.
func (e Edit) Apply(src []byte) []byte {
	out := make([]byte, 0, len(src)-e.Span.Len()+len(e.NewText))
	out = append(out, src[:e.Span.Start]...)
	out = append(out, e.NewText...)
	return append(out, src[e.Span.End:]...)
}

func isQuote(c byte) bool {
	return c == '\'' || c == '"' || c == '`'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Analyze trims span and strips one layer of matching quotes from it.
func Analyze(src []byte, span Span) (Selection, error) {
	if span.Start < 0 || span.End > len(src) || span.Start > span.End {
		return Selection{}, fmt.Errorf("%w: %d-%d in %d bytes", ErrOutOfRange, span.Start, span.End, len(src))
	}
	selected := span
	for span.Start < span.End && isBlank(src[span.Start]) {
		span.Start++
	}
	for span.End > span.Start && isBlank(src[span.End-1]) {
		span.End--
	}

	sel := Selection{Selected: selected, Span: span, Text: string(src[span.Start:span.End])}
	sel.Value = sel.Text
	if n := len(sel.Text); n >= 2 && isQuote(sel.Text[0]) && sel.Text[n-1] == sel.Text[0] {
		sel.Value = sel.Text[1 : n-1]
		sel.Quoted = true
	}
	if sel.Value == "" {
		return sel, fmt.Errorf("%w: %q", ErrEmptySelection, sel.Text)
	}
	return sel, nil
}

// Rewrite computes the edit that replaces the literal with the accessor
// for ref. A quoted selection is replaced as is. An unquoted one is widened
// by one byte on each side, but only when those bytes are the same quote
// character. The bytes around the selection as made are checked first,
// then those around the trimmed text.
func Rewrite(src []byte, sel Selection, ref termkey.Ref, prefix string) (Edit, error) {
	edit := Edit{Span: sel.Span, NewText: ref.Accessor(prefix)}
	if sel.Quoted {
		return edit, nil
	}
	for _, span := range []Span{sel.Selected, sel.Span} {
		if enclosed(src, span) {
			edit.Span = Span{Start: span.Start - 1, End: span.End + 1}
			return edit, nil
		}
	}
	return Edit{}, fmt.Errorf("%w: %q", ErrUnquotedSelection, sel.Text)
}

// enclosed reports whether span is directly wrapped by a matching quote
// pair.
func enclosed(src []byte, span Span) bool {
	before, after := span.Start-1, span.End
	if span.Len() == 0 || before < 0 || after >= len(src) {
		return false
	}
	return isQuote(src[before]) && src[before] == src[after]
}
