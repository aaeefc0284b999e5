package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/structsort/internal/engine"
)

// RecordRun inserts a run. Uses ON CONFLICT(id) DO NOTHING for idempotency -
// recording the same run ID twice keeps the first row.
//
// It implements engine.Recorder.
func (s *Store) RecordRun(ctx context.Context, run engine.Run) error {
	res := run.Result
	if res == nil {
		return fmt.Errorf("record run %s: nil result", run.ID)
	}

	envelope, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("record run %s: marshal result: %w", run.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, structure_type, sort_order, sort_key, output_type, success, total_items,
		 processing_ms, input_hash, output_hash, input_blob, output_blob, error_code,
		 error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Seq,
		res.StructureType,
		res.SortOrder,
		res.SortKey,
		res.OutputType,
		res.Success,
		res.Stats.TotalItems,
		res.ProcessingTime*1000,
		run.InputHash,
		run.OutputHash,
		compress([]byte(run.Request.Input)),
		compress(envelope),
		string(res.ErrorCode),
		res.ErrorMessage,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}
