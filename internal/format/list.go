package format

import (
	"regexp"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

var listItemRe = regexp.MustCompile(`^\s*(?:[-*+•]|\d+[.)])(?:\s+(.*))?$`)

func parseList(raw string) (value.Value, error) {
	items := value.List{}
	for i, line := range dedentLines(raw) {
		if line == "" {
			continue
		}
		m := listItemRe.FindStringSubmatch(line)
		if m == nil {
			return nil, unrecognized(List, i+1, "expected a bullet or numbered item")
		}
		items = append(items, value.String(strings.TrimSpace(m[1])))
	}
	return items, nil
}

func renderList(records []value.Value) string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = "- " + displayLabel(rec)
	}
	return strings.Join(lines, "\n")
}
