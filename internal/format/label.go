package format

import "github.com/roach88/structsort/internal/value"

// labelFields are consulted in order when a record needs a one-line label.
var labelFields = []string{"label", "name", "title", "text", "value", "id"}

// displayLabel picks a human-readable label for a record: a well-known
// display field, else the first scalar field, else compact JSON.
func displayLabel(rec value.Value) string {
	m, ok := rec.(*value.Map)
	if !ok {
		return singleLine(value.Text(rec))
	}
	for _, f := range labelFields {
		if v, found := m.Get(f); found && value.IsScalar(v) {
			return singleLine(value.Text(v))
		}
	}
	for _, e := range m.Entries() {
		if value.IsScalar(e.Value) {
			return singleLine(value.Text(e.Value))
		}
	}
	return singleLine(value.Text(m))
}
