package engine

import "slices"

// HistoryEntry summarizes one processed run.
type HistoryEntry struct {
	RunID          string  `json:"run_id"`
	StructureType  string  `json:"structure_type"`
	SortOrder      string  `json:"sort_order"`
	Success        bool    `json:"success"`
	TotalItems     int     `json:"total_items"`
	ProcessingTime float64 `json:"processing_time"`
	ErrorCode      string  `json:"error_code,omitempty"`
}

// TypeStatistics aggregates runs of one structure type.
type TypeStatistics struct {
	Count   int     `json:"count"`
	AvgTime float64 `json:"avg_time"`
}

// Statistics aggregates the engine's history.
type Statistics struct {
	TotalProcessings      int                       `json:"total_processings"`
	SuccessfulProcessings int                       `json:"successful_processings"`
	SuccessRate           float64                   `json:"success_rate"`
	AverageProcessingTime float64                   `json:"average_processing_time"`
	TypeStatistics        map[string]TypeStatistics `json:"type_statistics"`
}

func (e *Engine) appendHistory(res *Result) {
	entry := HistoryEntry{
		RunID:          res.RunID,
		StructureType:  res.StructureType,
		SortOrder:      res.SortOrder,
		Success:        res.Success,
		TotalItems:     res.Stats.TotalItems,
		ProcessingTime: res.ProcessingTime,
		ErrorCode:      string(res.ErrorCode),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = append(e.history, entry)
	if e.historyLimit > 0 && len(e.history) > e.historyLimit {
		e.history = slices.Clone(e.history[len(e.history)-e.historyLimit:])
	}
}

// History returns a copy of the processed runs, oldest first.
func (e *Engine) History() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.history)
}

// ClearHistory drops all history entries.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// Statistics aggregates the history. An empty history yields zero values.
func (e *Engine) Statistics() Statistics {
	return Aggregate(e.History())
}

// Aggregate computes Statistics over entries.
func Aggregate(entries []HistoryEntry) Statistics {
	stats := Statistics{TypeStatistics: make(map[string]TypeStatistics)}
	if len(entries) == 0 {
		return stats
	}

	var total float64
	sums := make(map[string]float64)
	for _, h := range entries {
		stats.TotalProcessings++
		if h.Success {
			stats.SuccessfulProcessings++
		}
		total += h.ProcessingTime

		ts := stats.TypeStatistics[h.StructureType]
		ts.Count++
		stats.TypeStatistics[h.StructureType] = ts
		sums[h.StructureType] += h.ProcessingTime
	}

	stats.SuccessRate = float64(stats.SuccessfulProcessings) / float64(stats.TotalProcessings)
	stats.AverageProcessingTime = total / float64(stats.TotalProcessings)
	for t, ts := range stats.TypeStatistics {
		ts.AvgTime = sums[t] / float64(ts.Count)
		stats.TypeStatistics[t] = ts
	}
	return stats
}
