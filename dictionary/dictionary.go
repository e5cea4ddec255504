// Package dictionary implements reading, merging and writing of the
// per-language JSON translation dictionaries.
//
// The expected file format is a two-level object:
//
//	{
//	  "geral": {
//	    "dataHora": "Data e Hora"
//	  }
//	}
//
// Outer keys are objects (groups), inner keys are terms. Files are written
// back with keys sorted at every level so that repeated edits produce
// small, stable diffs.
package dictionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"

	"github.com/minios-linux/litgen/termkey"
)

// DefaultIndent matches JSON.stringify(v, null, 2).
const DefaultIndent = "  "

// Dictionary is a parsed translation file. Key order from the file is
// preserved until Sort is called.
type Dictionary struct {
	root *orderedmap.OrderedMap
	// trailingNewline records whether the source ended with a newline so
	// Marshal can reproduce it.
	trailingNewline bool
}

// New returns an empty dictionary.
func New() *Dictionary {
	return &Dictionary{root: newMap()}
}

func newMap() *orderedmap.OrderedMap {
	m := orderedmap.New()
	m.SetEscapeHTML(false)
	return m
}

// ParseFile reads and parses a dictionary file.
func ParseFile(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse parses dictionary JSON. Blank input yields an empty dictionary.
func Parse(data []byte) (*Dictionary, error) {
	d := New()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return d, nil
	}
	if err := d.root.UnmarshalJSON(trimmed); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	d.trailingNewline = bytes.HasSuffix(data, []byte("\n"))
	return d, nil
}

// Objects returns the outer keys in their current order.
func (d *Dictionary) Objects() []string {
	return d.root.Keys()
}

// Terms returns the term -> value pairs of an object that hold strings.
// ok is false when the object does not exist or is not a mapping.
func (d *Dictionary) Terms(object string) (terms map[string]string, ok bool) {
	v, found := d.root.Get(object)
	if !found {
		return nil, false
	}
	group, isMap := asMap(v)
	if !isMap {
		return nil, false
	}
	terms = make(map[string]string, len(group.Keys()))
	for _, k := range group.Keys() {
		val, _ := group.Get(k)
		if s, isStr := val.(string); isStr {
			terms[k] = s
		}
	}
	return terms, true
}

// Get returns the string stored at ref.
func (d *Dictionary) Get(ref termkey.Ref) (string, bool) {
	terms, ok := d.Terms(ref.Object)
	if !ok {
		return "", false
	}
	v, ok := terms[ref.Term]
	return v, ok
}

// Merge stores value under ref.Object/ref.Term. An existing group keeps all
// of its other terms; a missing group is created with the single entry.
// A group slot holding a non-mapping value is replaced. Nothing is ever
// deleted otherwise.
func (d *Dictionary) Merge(ref termkey.Ref, value string) {
	if v, found := d.root.Get(ref.Object); found {
		if group, isMap := asMap(v); isMap {
			group.Set(ref.Term, value)
			d.root.Set(ref.Object, group)
			return
		}
	}
	group := newMap()
	group.Set(ref.Term, value)
	d.root.Set(ref.Object, group)
}

// Sort reorders the dictionary keys at every level, see SortKeys.
func (d *Dictionary) Sort() {
	d.root = SortKeys(d.root).(*orderedmap.OrderedMap)
}

// IsSorted reports whether keys are already in SortKeys order.
func (d *Dictionary) IsSorted() bool {
	return IsSorted(d.root)
}

// Marshal encodes the dictionary with the given indent (DefaultIndent
// when empty). HTML characters are not escaped.
func (d *Dictionary) Marshal(indent string) ([]byte, error) {
	if indent == "" {
		indent = DefaultIndent
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("encoding dictionary: %w", err)
	}
	out := buf.Bytes()
	if !d.trailingNewline {
		out = bytes.TrimSuffix(out, []byte("\n"))
	}
	return out, nil
}

// asMap unwraps the mapping representations orderedmap may produce for
// nested objects.
func asMap(v any) (*orderedmap.OrderedMap, bool) {
	switch m := v.(type) {
	case *orderedmap.OrderedMap:
		m.SetEscapeHTML(false)
		return m, true
	case orderedmap.OrderedMap:
		m.SetEscapeHTML(false)
		return &m, true
	case map[string]any:
		om := newMap()
		for k, val := range m {
			om.Set(k, val)
		}
		return om, true
	}
	return nil, false
}
