package declaration

import (
	"bytes"
	"strings"

	"github.com/minios-linux/litgen/termkey"
)

// DefaultIndent is the indent unit used when the buffer has no sibling to
// copy indentation from.
const DefaultIndent = "    "

// Options tunes rendering of inserted lines.
type Options struct {
	// Indent is one indentation level. Empty means DefaultIndent.
	Indent string
	// Type is the property type annotation. Empty means "any".
	Type string
}

// Result is the outcome of Patch.
type Result struct {
	Content []byte
	// Changed is false when the term was already declared.
	Changed bool
	// GroupCreated is true when a new group block was appended.
	GroupCreated bool
}

// Patch declares ref.Term inside the ref.Object group of src, creating the
// group before the closing brace of the declaration body when missing.
// Every byte outside the insertion point is preserved.
func Patch(src []byte, ref termkey.Ref, opts Options) (Result, error) {
	decl, err := Parse(src)
	if err != nil {
		return Result{}, err
	}
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	if opts.Type == "" {
		opts.Type = "any"
	}
	nl := newline(src)

	if g := decl.Group(ref.Object); g != nil {
		if g.Has(ref.Term) {
			return Result{Content: src, Changed: false}, nil
		}
		propIndent := g.Indent + opts.Indent
		if n := len(g.Properties); n > 0 {
			propIndent = g.Properties[n-1].Indent
		}
		line := propIndent + ref.Term + ": " + opts.Type + ";" + nl
		return Result{Content: insertBefore(src, g.Open, g.Close, line, g.Indent, nl), Changed: true}, nil
	}

	groupIndent := decl.Body.Indent + opts.Indent
	if len(decl.Body.Groups) > 0 {
		groupIndent = decl.Body.Groups[0].Indent
	}
	var b strings.Builder
	if len(decl.Body.Groups) > 0 {
		b.WriteString(nl)
	}
	b.WriteString(groupIndent + ref.Object + "!: {" + nl)
	b.WriteString(groupIndent + opts.Indent + ref.Term + ": " + opts.Type + ";" + nl)
	b.WriteString(groupIndent + "};" + nl)

	out := insertBefore(src, decl.Body.Open, decl.Body.Close, b.String(), decl.Body.Indent, nl)
	return Result{Content: out, Changed: true, GroupCreated: true}, nil
}

// insertBefore places block (a run of complete lines) before the closing
// brace at close. When the brace sits alone on its line the block goes at
// the start of that line; otherwise the brace is pushed onto a new line
// indented with closeIndent.
func insertBefore(src []byte, open, close int, block, closeIndent, nl string) []byte {
	ls := lineStart(src, close)
	if ls > open && len(bytes.TrimLeft(src[ls:close], " \t")) == 0 {
		return splice(src, ls, block)
	}
	return splice(src, close, nl+block+closeIndent)
}

func splice(src []byte, at int, text string) []byte {
	out := make([]byte, 0, len(src)+len(text))
	out = append(out, src[:at]...)
	out = append(out, text...)
	return append(out, src[at:]...)
}

func newline(src []byte) string {
	if bytes.Contains(src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}
