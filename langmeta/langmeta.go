// Package langmeta provides language-code validation and display names
// for the dictionaries a workspace carries.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Code string
	// Name is the language's own name for itself, e.g. "português".
	Name string
	// English is the English name, e.g. "Portuguese".
	English string
}

// Valid reports whether code is a known two-letter ISO 639-1 code in
// lower case, the form dictionary files are named with.
func Valid(code string) bool {
	if len(code) != 2 || strings.ToLower(code) != code {
		return false
	}
	_, err := language.ParseBase(code)
	return err == nil
}

// Resolve returns best-effort metadata for code. Unknown codes get the
// code itself as their name.
func Resolve(code string) Meta {
	m := Meta{Code: code, Name: code, English: code}
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return m
	}
	if n := display.Self.Name(tag); n != "" {
		m.Name = n
	}
	if n := display.English.Languages().Name(tag); n != "" {
		m.English = n
	}
	return m
}
