package format

import (
	"fmt"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

// valueColumn holds non-map records in tabular output.
const valueColumn = "value"

// normalizeHeader trims header cells, names blank ones column_N and
// suffixes duplicates with _2, _3, ...
func normalizeHeader(cells []string) []string {
	out := make([]string, len(cells))
	seen := make(map[string]int, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// tabularRecord maps one row onto the header. Short rows are padded with
// Null; surplus cells land in column_N so nothing is dropped.
func tabularRecord(header, cells []string) *value.Map {
	m := value.NewMap()
	for i, h := range header {
		if i < len(cells) {
			m.Set(h, value.String(strings.TrimSpace(cells[i])))
		} else {
			m.Set(h, value.Null{})
		}
	}
	for i := len(header); i < len(cells); i++ {
		m.Set(fmt.Sprintf("column_%d", i+1), value.String(strings.TrimSpace(cells[i])))
	}
	return m
}

// tabularColumns derives the output header: seeded columns first, then keys
// of map records in first-seen order, then the value column if any record
// is not a map.
func tabularColumns(records []value.Value, seed []string) []string {
	cols := make([]string, 0, len(seed))
	seen := make(map[string]bool, len(seed))
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	for _, c := range seed {
		add(c)
	}

	scalar := false
	for _, rec := range records {
		m, ok := rec.(*value.Map)
		if !ok {
			scalar = true
			continue
		}
		for _, k := range m.Keys() {
			add(k)
		}
	}
	if scalar {
		add(valueColumn)
	}
	return cols
}

// tabularRow renders one record's cells in column order. Missing cells are
// empty.
func tabularRow(rec value.Value, cols []string) []string {
	row := make([]string, len(cols))
	m, isMap := rec.(*value.Map)
	for i, c := range cols {
		switch {
		case isMap:
			if v, ok := m.Get(c); ok {
				row[i] = value.Text(v)
			}
		case c == valueColumn:
			row[i] = value.Text(rec)
		}
	}
	return row
}
