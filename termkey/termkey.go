// Package termkey parses the "object.term" identifiers that name a
// translation slot.
package termkey

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Example is shown to the user whenever a key is rejected.
const Example = "geral.dataHora"

// ErrInvalidKeyFormat is returned for anything that is not exactly two
// word-character identifiers joined by a single dot.
var ErrInvalidKeyFormat = errors.New("invalid key format")

var keyRe = regexp.MustCompile(`^\w+\.\w+$`)

// Ref identifies one translation slot: a group (object) and a property
// (term) inside it.
type Ref struct {
	Object string
	Term   string
}

// Parse validates raw against \w+\.\w+ and splits it at the dot.
// Surrounding whitespace is not trimmed.
func Parse(raw string) (Ref, error) {
	if !keyRe.MatchString(raw) {
		return Ref{}, fmt.Errorf("%w: %q (expected object.term, e.g. %s)", ErrInvalidKeyFormat, raw, Example)
	}
	object, term, _ := strings.Cut(raw, ".")
	return Ref{Object: object, Term: term}, nil
}

// String returns the "object.term" form.
func (r Ref) String() string {
	return r.Object + "." + r.Term
}

// Accessor returns the expression used in source code to read the term,
// e.g. "this.i18n.geral.dataHora" for prefix "this.i18n".
func (r Ref) Accessor(prefix string) string {
	if prefix == "" {
		return r.String()
	}
	return prefix + "." + r.String()
}
