package sorter

import (
	"slices"

	"github.com/roach88/structsort/internal/value"
)

// Sort returns a new slice of records ordered by the keys s extracts from
// field. The sort is stable, so equal keys keep their input order in both
// directions. records is not modified.
func Sort(records []value.Value, s Strategy, field string, dir Direction) []value.Value {
	keys := make([]Key, len(records))
	idx := make([]int, len(records))
	for i, rec := range records {
		keys[i] = s.Extract(rec, field)
		idx[i] = i
	}

	slices.SortStableFunc(idx, func(a, b int) int {
		c := Compare(keys[a], keys[b])
		if dir == Desc {
			return -c
		}
		return c
	})

	out := make([]value.Value, len(records))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
