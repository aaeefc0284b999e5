package format

import (
	"strings"

	"golang.org/x/text/width"
)

// splitLines normalizes line endings and splits s into lines.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// dedentLines strips the whitespace prefix common to all non-blank lines.
// Blank lines become empty. Line count is preserved so indexes still map to
// 1-based source line numbers.
func dedentLines(raw string) []string {
	lines := splitLines(raw)

	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			prefix = lead
			first = false
			continue
		}
		prefix = commonPrefix(prefix, lead)
		if prefix == "" {
			break
		}
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out[i] = strings.TrimRight(strings.TrimPrefix(line, prefix), " \t")
	}
	return out
}

// dedent is dedentLines joined back into text.
func dedent(raw string) string {
	return strings.Join(dedentLines(raw), "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(s string, offset int64) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(s)) {
		offset = int64(len(s))
	}
	head := s[:offset]
	line := strings.Count(head, "\n") + 1
	col := len(head) - strings.LastIndex(head, "\n")
	return line, col
}

// displayWidth returns the number of terminal cells s occupies.
// East Asian wide and fullwidth runes count as two cells.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

// singleLine collapses line breaks so a label occupies one output line.
func singleLine(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
