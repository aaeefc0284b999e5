package sorter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

// displayFields are tried when no sort field is named and the strategy has
// no preferred field of its own.
var displayFields = []string{"label", "name", "title", "text", "value", "id"}

// Lookup finds field in rec: first as a direct key, then as a dotted path
// (list elements addressed by index), then among XML _attributes.
func Lookup(rec value.Value, field string) (value.Value, bool) {
	m, ok := rec.(*value.Map)
	if !ok || field == "" {
		return nil, false
	}
	if v, ok := m.Get(field); ok {
		return v, true
	}
	if strings.Contains(field, ".") {
		if v, ok := lookupPath(m, strings.Split(field, ".")); ok {
			return v, true
		}
	}
	if attrs, ok := m.Get("_attributes"); ok {
		if am, ok := attrs.(*value.Map); ok {
			return am.Get(field)
		}
	}
	return nil, false
}

func lookupPath(cur value.Value, parts []string) (value.Value, bool) {
	for _, p := range parts {
		switch c := cur.(type) {
		case *value.Map:
			next, ok := c.Get(p)
			if !ok {
				return nil, false
			}
			cur = next
		case value.List:
			i, err := strconv.Atoi(p)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// fieldValue resolves the value a strategy keys on. With no field named it
// falls back to the preferred fields, then the display fields, then the
// first entry of a map, the first element of a list or the scalar itself.
func fieldValue(rec value.Value, field string, preferred []string) (value.Value, bool) {
	if field != "" {
		return Lookup(rec, field)
	}
	switch r := rec.(type) {
	case *value.Map:
		for _, group := range [][]string{preferred, displayFields} {
			for _, f := range group {
				if v, ok := r.Get(f); ok {
					return v, true
				}
			}
		}
		if r.Len() == 0 {
			return nil, false
		}
		return r.At(0).Value, true
	case value.List:
		if len(r) == 0 {
			return nil, false
		}
		return r[0], true
	case nil:
		return nil, false
	default:
		return r, true
	}
}

// UnknownFieldError reports a sort field present in none of the records.
// It is informational: records still sort, on the strategy's zero key.
type UnknownFieldError struct {
	Field   string
	Records int
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("sort key %q not found in any of %d records", e.Field, e.Records)
}

// CheckField returns *UnknownFieldError when field is named but no record
// has it. An empty record set never reports an unknown field.
func CheckField(records []value.Value, field string) error {
	if field == "" || len(records) == 0 {
		return nil
	}
	if Missing(records, field) == len(records) {
		return &UnknownFieldError{Field: field, Records: len(records)}
	}
	return nil
}

// Missing counts the records that lack field.
func Missing(records []value.Value, field string) int {
	if field == "" {
		return 0
	}
	n := 0
	for _, rec := range records {
		if _, ok := Lookup(rec, field); !ok {
			n++
		}
	}
	return n
}
