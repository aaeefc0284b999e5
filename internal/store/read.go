package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/structsort/internal/engine"
)

// ErrRunNotFound is returned by ReadRun for an unknown ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the runs table without its blobs.
type RunSummary struct {
	ID            string    `json:"id"`
	Seq           int64     `json:"seq"`
	StructureType string    `json:"structure_type"`
	SortOrder     string    `json:"sort_order"`
	SortKey       string    `json:"sort_key,omitempty"`
	OutputType    string    `json:"output_type"`
	Success       bool      `json:"success"`
	TotalItems    int       `json:"total_items"`
	ProcessingMs  float64   `json:"processing_ms"`
	InputHash     string    `json:"input_hash"`
	OutputHash    string    `json:"output_hash,omitempty"`
	ErrorCode     string    `json:"error_code,omitempty"`
	ErrorMessage  string    `json:"error_message,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// RunRecord is a stored run with its blobs decompressed.
type RunRecord struct {
	RunSummary

	// Input is the raw request input.
	Input string `json:"input"`

	// Result is the result envelope as it was marshaled at record time.
	Result json.RawMessage `json:"result"`
}

// FormattedOutput returns the rendered text held in the result envelope.
func (r *RunRecord) FormattedOutput() (string, error) {
	var out struct {
		FormattedOutput string `json:"formatted_output"`
	}
	if err := json.Unmarshal(r.Result, &out); err != nil {
		return "", fmt.Errorf("decode result of run %s: %w", r.ID, err)
	}
	return out.FormattedOutput, nil
}

const summaryColumns = `id, seq, structure_type, sort_order, sort_key, output_type, success,
	total_items, processing_ms, input_hash, output_hash, error_code, error_message, created_at`

// ReadRun returns the run with the given ID, or an error wrapping
// ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (*RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+summaryColumns+`, input_blob, output_blob
		FROM runs
		WHERE id = ?
	`, id)

	var (
		rec                   RunRecord
		inputBlob, outputBlob []byte
	)
	dest := append(summaryDest(&rec.RunSummary), &inputBlob, &outputBlob)
	var createdAt string
	dest[len(dest)-3] = &createdAt
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
		}
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if err := parseCreatedAt(&rec.RunSummary, createdAt); err != nil {
		return nil, err
	}

	input, err := decompress(inputBlob)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	result, err := decompress(outputBlob)
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	rec.Input = string(input)
	rec.Result = json.RawMessage(result)
	return &rec, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM runs ORDER BY seq DESC, id COLLATE BINARY DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var (
			sum       RunSummary
			createdAt string
		)
		dest := summaryDest(&sum)
		dest[len(dest)-1] = &createdAt
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := parseCreatedAt(&sum, createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Statistics aggregates every stored run in the shape the engine reports
// for its in-memory history.
func (s *Store) Statistics(ctx context.Context) (engine.Statistics, error) {
	stats := engine.Statistics{TypeStatistics: map[string]engine.TypeStatistics{}}

	rows, err := s.db.QueryContext(ctx, `
		SELECT structure_type, COUNT(*), SUM(success), AVG(processing_ms), SUM(processing_ms)
		FROM runs
		GROUP BY structure_type
		ORDER BY structure_type COLLATE BINARY
	`)
	if err != nil {
		return stats, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	var totalMs float64
	for rows.Next() {
		var (
			structureType string
			count, ok     int
			avgMs, sumMs  float64
		)
		if err := rows.Scan(&structureType, &count, &ok, &avgMs, &sumMs); err != nil {
			return stats, fmt.Errorf("scan statistics: %w", err)
		}
		stats.TotalProcessings += count
		stats.SuccessfulProcessings += ok
		totalMs += sumMs
		stats.TypeStatistics[structureType] = engine.TypeStatistics{Count: count, AvgTime: avgMs / 1000}
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("iterate statistics: %w", err)
	}

	if stats.TotalProcessings > 0 {
		stats.SuccessRate = float64(stats.SuccessfulProcessings) / float64(stats.TotalProcessings)
		stats.AverageProcessingTime = totalMs / 1000 / float64(stats.TotalProcessings)
	}
	return stats, nil
}

// summaryDest returns scan targets in summaryColumns order. The final slot
// is a placeholder for created_at, which callers replace with a string.
func summaryDest(s *RunSummary) []any {
	return []any{
		&s.ID, &s.Seq, &s.StructureType, &s.SortOrder, &s.SortKey, &s.OutputType, &s.Success,
		&s.TotalItems, &s.ProcessingMs, &s.InputHash, &s.OutputHash, &s.ErrorCode, &s.ErrorMessage,
		nil,
	}
}

func parseCreatedAt(s *RunSummary, raw string) error {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return fmt.Errorf("run %s: parse created_at %q: %w", s.ID, raw, err)
	}
	s.CreatedAt = t
	return nil
}
