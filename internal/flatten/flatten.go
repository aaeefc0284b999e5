// Package flatten turns a parsed value into the sequence of records that
// sorting operates on.
package flatten

import "github.com/roach88/structsort/internal/value"

// Flatten extracts records from v.
//
// Rules, in order:
//   - a List yields one record per element; an element that is a map with a
//     single List field is replaced by that list's records
//   - a map with a single entry whose value is a List or map is unwrapped
//   - a map with two or more entries that are all maps yields the inner maps
//   - anything else is a single record
//
// No scalar leaf is dropped: Leaves(v) equals the sum of Leaves over the
// returned records.
func Flatten(v value.Value) []value.Value {
	switch v := v.(type) {
	case value.List:
		out := make([]value.Value, 0, len(v))
		for _, elem := range v {
			out = append(out, splice(elem)...)
		}
		return out
	case *value.Map:
		if v.Len() == 1 {
			switch inner := v.At(0).Value.(type) {
			case value.List, *value.Map:
				return Flatten(inner)
			}
		}
		if v.Len() >= 2 && allMaps(v) {
			out := make([]value.Value, 0, v.Len())
			for _, e := range v.Entries() {
				out = append(out, e.Value)
			}
			return out
		}
		return []value.Value{v}
	case nil:
		return []value.Value{value.Null{}}
	default:
		return []value.Value{v}
	}
}

// splice expands list elements of the form {"items": [...]}.
func splice(elem value.Value) []value.Value {
	m, ok := elem.(*value.Map)
	if !ok || m.Len() != 1 {
		return []value.Value{elem}
	}
	inner, ok := m.At(0).Value.(value.List)
	if !ok {
		return []value.Value{elem}
	}
	var out []value.Value
	for _, x := range inner {
		out = append(out, splice(x)...)
	}
	return out
}

func allMaps(m *value.Map) bool {
	for _, e := range m.Entries() {
		if _, ok := e.Value.(*value.Map); !ok {
			return false
		}
	}
	return true
}

// Leaves counts the scalar leaves of v. Null counts as a leaf; empty
// containers contribute nothing.
func Leaves(v value.Value) int {
	switch v := v.(type) {
	case value.List:
		n := 0
		for _, elem := range v {
			n += Leaves(elem)
		}
		return n
	case *value.Map:
		n := 0
		for _, e := range v.Entries() {
			n += Leaves(e.Value)
		}
		return n
	default:
		return 1
	}
}
