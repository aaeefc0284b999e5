package format

import (
	"regexp"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

var tableSeparatorRe = regexp.MustCompile(`^\|?\s*:?-+:?\s*(\|\s*:?-+:?\s*)*\|?$`)

const escapedPipe = "\x00"

type tableLine struct {
	num  int
	text string
}

func parseTable(raw string) (Document, error) {
	var lines []tableLine
	for i, l := range dedentLines(raw) {
		if l == "" {
			continue
		}
		lines = append(lines, tableLine{num: i + 1, text: strings.TrimSpace(l)})
	}

	for _, l := range lines {
		if !strings.Contains(l.text, "|") {
			return Document{}, unrecognized(Table, l.num, "expected a pipe-delimited row")
		}
	}
	if len(lines) < 2 || !tableSeparatorRe.MatchString(lines[1].text) {
		line := lines[0].num
		if len(lines) > 1 {
			line = lines[1].num
		}
		return Document{}, unrecognized(Table, line, "missing header separator row")
	}

	header := normalizeHeader(splitTableRow(lines[0].text))
	rows := value.List{}
	for _, l := range lines[2:] {
		rows = append(rows, tabularRecord(header, splitTableRow(l.text)))
	}
	return Document{Value: rows, Columns: header}, nil
}

// splitTableRow splits a pipe row into cells, honoring \| escapes.
func splitTableRow(line string) []string {
	line = strings.ReplaceAll(strings.TrimSpace(line), `\|`, escapedPipe)
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	cells := strings.Split(line, "|")
	for i, c := range cells {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(c), escapedPipe, "|")
	}
	return cells
}

func renderTable(records []value.Value, seed []string) string {
	cols := tabularColumns(records, seed)
	if len(cols) == 0 {
		return ""
	}

	header := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, c := range cols {
		header[i] = tableCell(c)
		widths[i] = displayWidth(header[i])
	}
	rows := make([][]string, len(records))
	for r, rec := range records {
		row := tabularRow(rec, cols)
		for i, cell := range row {
			row[i] = tableCell(cell)
			widths[i] = max(widths[i], displayWidth(row[i]))
		}
		rows[r] = row
	}

	var b strings.Builder
	writeTableRow(&b, header, widths)
	b.WriteString("\n|")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("|")
	}
	for _, row := range rows {
		b.WriteString("\n")
		writeTableRow(&b, row, widths)
	}
	return b.String()
}

func writeTableRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteString("|")
	for i, c := range cells {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(strings.Repeat(" ", widths[i]-displayWidth(c)+1))
		b.WriteString("|")
	}
}

func tableCell(s string) string {
	return strings.ReplaceAll(singleLine(s), "|", `\|`)
}
