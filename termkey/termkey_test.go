package termkey

import (
	"errors"
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		in     string
		object string
		term   string
	}{
		{"geral.dataHora", "geral", "dataHora"},
		{"a.b", "a", "b"},
		{"snake_case.term_2", "snake_case", "term_2"},
		{"123.456", "123", "456"},
	}

	for _, tc := range tests {
		ref, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.in, err)
		}
		if ref.Object != tc.object || ref.Term != tc.term {
			t.Fatalf("Parse(%q) = %+v, want %s/%s", tc.in, ref, tc.object, tc.term)
		}
		if ref.String() != tc.in {
			t.Fatalf("Parse(%q).String() = %q", tc.in, ref.String())
		}
		if strings.Contains(ref.Object, ".") || strings.Contains(ref.Term, ".") {
			t.Fatalf("Parse(%q) produced dotted parts: %+v", tc.in, ref)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "foo", "a.b.c", "a..b", ".b", "a.", " a.b", "a.b ", "a-b.c", "geral.data hora"} {
		_, err := Parse(in)
		if !errors.Is(err, ErrInvalidKeyFormat) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidKeyFormat", in, err)
		}
	}
}

func TestParseErrorMentionsExample(t *testing.T) {
	_, err := Parse("nope")
	if err == nil || !strings.Contains(err.Error(), Example) {
		t.Fatalf("error %v should mention %q", err, Example)
	}
}

func TestAccessor(t *testing.T) {
	ref := Ref{Object: "geral", Term: "dataHora"}
	if got := ref.Accessor("this.i18n"); got != "this.i18n.geral.dataHora" {
		t.Fatalf("Accessor() = %q", got)
	}
	if got := ref.Accessor(""); got != "geral.dataHora" {
		t.Fatalf("Accessor(\"\") = %q", got)
	}
}
