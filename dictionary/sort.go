package dictionary

import "sort"

// SortKeys returns a copy of v in which every mapping has its keys in
// lexicographic order. Sequences keep their element order; each element
// is processed in place. Scalars are returned unchanged.
//
// Mappings may be *orderedmap.OrderedMap, orderedmap.OrderedMap or
// map[string]any; the result always uses *orderedmap.OrderedMap.
// SortKeys is idempotent.
func SortKeys(v any) any {
	switch t := v.(type) {
	case []any:
		for i := range t {
			t[i] = SortKeys(t[i])
		}
		return t
	default:
		m, ok := asMap(v)
		if !ok {
			return v
		}
		keys := append([]string(nil), m.Keys()...)
		sort.Strings(keys)
		out := newMap()
		for _, k := range keys {
			val, _ := m.Get(k)
			out.Set(k, SortKeys(val))
		}
		return out
	}
}

// IsSorted reports whether every mapping in v already has sorted keys.
func IsSorted(v any) bool {
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if !IsSorted(e) {
				return false
			}
		}
		return true
	default:
		m, ok := asMap(v)
		if !ok {
			return true
		}
		keys := m.Keys()
		if !sort.StringsAreSorted(keys) {
			return false
		}
		for _, k := range keys {
			val, _ := m.Get(k)
			if !IsSorted(val) {
				return false
			}
		}
		return true
	}
}
