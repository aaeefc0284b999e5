package harness

import (
	"bytes"
	"encoding/json"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/value"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Output is the engine's result for the scenario request.
	Output *engine.Result `json:"output"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Snapshot is the golden-file view of a run. Timing and run IDs are left
// out so snapshots are byte-stable.
type Snapshot struct {
	ScenarioName      string     `json:"scenario_name"`
	Success           bool       `json:"success"`
	ErrorCode         string     `json:"error_code,omitempty"`
	TotalItems        int        `json:"total_items"`
	UsedFallback      bool       `json:"used_fallback"`
	MissingKeyRecords int        `json:"missing_key_records"`
	SortedContent     value.List `json:"sorted_content"`
	FormattedOutput   string     `json:"formatted_output"`
}

// NewSnapshot captures res under the given scenario name.
func NewSnapshot(name string, res *engine.Result) Snapshot {
	sorted := res.SortedContent
	if sorted == nil {
		sorted = value.List{}
	}
	return Snapshot{
		ScenarioName:      name,
		Success:           res.Success,
		ErrorCode:         string(res.ErrorCode),
		TotalItems:        res.Stats.TotalItems,
		UsedFallback:      res.Stats.UsedFallback,
		MissingKeyRecords: res.Stats.MissingKeyRecords,
		SortedContent:     sorted,
		FormattedOutput:   res.FormattedOutput,
	}
}

// Bytes encodes the snapshot as indented JSON without HTML escaping,
// terminated by a newline.
func (s Snapshot) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
