// Package declaration reads and patches the typed "literals" declaration
// that lists every translation object and its terms, e.g.
//
//	export class Literals {
//	    geral!: {
//	        dataHora: any;
//	    };
//	}
//
// The file is scanned, not fully parsed: comments and string literals are
// skipped and brace depth is tracked, which is enough to locate groups and
// their properties. Edits are byte insertions at those locations, so text
// outside the insertion point is never rewritten.
package declaration

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrMalformedDeclaration is returned when no declaration body can be found
// or its braces do not balance.
var ErrMalformedDeclaration = errors.New("malformed declaration")

// Property is a "name: type;" line inside a group.
type Property struct {
	Name   string
	Start  int // offset of the name
	Indent string
}

// Group is a "name!: { ... }" member of the declaration body.
type Group struct {
	Name       string
	Start      int // offset of the name
	Open       int // offset of '{'
	Close      int // offset of the matching '}'
	Indent     string
	Properties []Property
}

// Has reports whether the group declares term.
func (g *Group) Has(term string) bool {
	for _, p := range g.Properties {
		if p.Name == term {
			return true
		}
	}
	return false
}

// Body is a top-level brace block.
type Body struct {
	Open   int
	Close  int
	Indent string
	Groups []*Group
}

// Declaration is the scanned view of a declaration source. The body is the
// last top-level block in the buffer.
type Declaration struct {
	Body *Body
	src  []byte
}

// Group returns the group called name, or nil.
func (d *Declaration) Group(name string) *Group {
	for _, g := range d.Body.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

type frame struct {
	group *Group
}

// Parse scans src and returns its declaration body.
func Parse(src []byte) (*Declaration, error) {
	var (
		bodies []*Body
		stack  []frame
		parens int
	)

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '/':
			if i+1 >= len(src) {
				continue
			}
			switch src[i+1] {
			case '/':
				nl := bytes.IndexByte(src[i:], '\n')
				if nl < 0 {
					i = len(src)
				} else {
					i += nl
				}
			case '*':
				end := bytes.Index(src[i+2:], []byte("*/"))
				if end < 0 {
					return nil, fmt.Errorf("%w: unterminated comment at offset %d", ErrMalformedDeclaration, i)
				}
				i += 2 + end + 1
			}
		case '\'', '"', '`':
			end, ok := skipString(src, i)
			if !ok {
				return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrMalformedDeclaration, i)
			}
			i = end - 1
		case '(':
			parens++
		case ')':
			if parens > 0 {
				parens--
			}
		case '{':
			var f frame
			switch len(stack) {
			case 0:
				bodies = append(bodies, &Body{Open: i, Indent: lineIndent(src, i)})
			case 1:
				if parens == 0 {
					if name, start, ok := headerBefore(src, i); ok {
						f.group = &Group{Name: name, Start: start, Open: i, Indent: lineIndent(src, start)}
						body := bodies[len(bodies)-1]
						body.Groups = append(body.Groups, f.group)
					}
				}
			}
			stack = append(stack, f)
		case '}':
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected '}' at offset %d", ErrMalformedDeclaration, i)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if f.group != nil {
				f.group.Close = i
			}
			if len(stack) == 0 {
				bodies[len(bodies)-1].Close = i
			}
		case ':':
			if len(stack) != 2 || parens != 0 {
				continue
			}
			g := stack[1].group
			if g == nil {
				continue
			}
			if name, start, ok := identBefore(src, i); ok {
				g.Properties = append(g.Properties, Property{Name: name, Start: start, Indent: lineIndent(src, start)})
			}
		}
	}

	if len(stack) != 0 {
		return nil, fmt.Errorf("%w: %d unclosed '{'", ErrMalformedDeclaration, len(stack))
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: no declaration body", ErrMalformedDeclaration)
	}
	return &Declaration{Body: bodies[len(bodies)-1], src: src}, nil
}

// skipString returns the offset just past the string literal opening at i.
// Single and double quoted strings end at a newline if left unterminated.
func skipString(src []byte, i int) (int, bool) {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1, true
		case '\n':
			if quote != '`' {
				return j, true
			}
		}
	}
	return len(src), false
}

// headerBefore matches "name!:", "name?:" or "name:" ending right before
// the '{' at open.
func headerBefore(src []byte, open int) (string, int, bool) {
	j := open - 1
	for j >= 0 && isSpace(src[j]) {
		j--
	}
	if j < 0 || src[j] != ':' {
		return "", 0, false
	}
	return identBefore(src, j)
}

// identBefore returns the identifier (with an optional '!' or '?' marker)
// that ends right before the ':' at colon.
func identBefore(src []byte, colon int) (string, int, bool) {
	j := colon - 1
	for j >= 0 && (src[j] == ' ' || src[j] == '\t') {
		j--
	}
	if j >= 0 && (src[j] == '!' || src[j] == '?') {
		j--
	}
	end := j + 1
	for j >= 0 && isIdent(src[j]) {
		j--
	}
	start := j + 1
	if start == end {
		return "", 0, false
	}
	return string(src[start:end]), start, true
}

func lineStart(src []byte, pos int) int {
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

func lineIndent(src []byte, pos int) string {
	ls := lineStart(src, pos)
	end := ls
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[ls:end])
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdent(c byte) bool {
	return c == '_' || c == '$' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
