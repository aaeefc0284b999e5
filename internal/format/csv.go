package format

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/roach88/structsort/internal/value"
)

func parseCSV(raw string) (Document, error) {
	r := csv.NewReader(strings.NewReader(dedent(raw)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	first, err := r.Read()
	if err != nil {
		return Document{}, csvError(err)
	}
	header := normalizeHeader(first)

	rows := value.List{}
	for {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Document{}, csvError(err)
		}
		rows = append(rows, tabularRecord(header, cells))
	}
	return Document{Value: rows, Columns: header}, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return malformed(CSV, pe.Line, pe.Column, pe.Err.Error(), err)
	}
	if errors.Is(err, io.EOF) {
		return unrecognized(CSV, 0, "no header row")
	}
	return malformed(CSV, 0, 0, err.Error(), err)
}

func renderCSV(records []value.Value, seed []string) (string, error) {
	cols := tabularColumns(records, seed)
	if len(cols) == 0 {
		return "", nil
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(cols); err != nil {
		return "", &RenderInternalError{Format: CSV, Err: err}
	}
	for _, rec := range records {
		row := tabularRow(rec, cols)
		if len(row) == 1 && row[0] == "" {
			// A lone empty field would be an empty line, which readers skip.
			w.Flush()
			b.WriteString("\"\"\n")
			continue
		}
		if err := w.Write(row); err != nil {
			return "", &RenderInternalError{Format: CSV, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", &RenderInternalError{Format: CSV, Err: err}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
