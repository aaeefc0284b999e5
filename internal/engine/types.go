package engine

import (
	"fmt"
	"time"

	"github.com/roach88/structsort/internal/format"
	"github.com/roach88/structsort/internal/sorter"
	"github.com/roach88/structsort/internal/value"
)

// Request is one normalize-sort-render invocation.
type Request struct {
	Input         string
	StructureType format.StructureType
	SortOrder     sorter.Order

	// SortKey names the field to sort on. Empty lets the strategy choose.
	SortKey string

	// OutputType selects the rendered syntax. Empty means StructureType.
	OutputType format.StructureType

	// Reverse flips the direction the sort order would otherwise use.
	Reverse bool
}

// Validate checks the enumerated fields.
func (r Request) Validate() error {
	_, err := r.Normalize()
	return err
}

// Normalize validates the enumerated fields and returns a copy with them in
// their canonical lower-case form. Names are matched case-insensitively.
func (r Request) Normalize() (Request, error) {
	st, err := format.ParseStructureType(string(r.StructureType))
	if err != nil {
		return r, &RequestError{Field: "structure_type", Value: string(r.StructureType), Message: "unknown structure type"}
	}
	order, err := sorter.ParseOrder(string(r.SortOrder))
	if err != nil {
		return r, &RequestError{Field: "sort_order", Value: string(r.SortOrder), Message: "unknown sort order"}
	}
	out := r
	out.StructureType = st
	out.SortOrder = order
	if r.OutputType != "" {
		ot, err := format.ParseStructureType(string(r.OutputType))
		if err != nil {
			return r, &RequestError{Field: "output_type", Value: string(r.OutputType), Message: "unknown structure type"}
		}
		out.OutputType = ot
	}
	return out, nil
}

func (r Request) outputType() format.StructureType {
	if r.OutputType == "" {
		return r.StructureType
	}
	return r.OutputType
}

// Stats describes what happened to the records of one run.
type Stats struct {
	// TotalItems is the number of records in the output.
	TotalItems int `json:"total_items"`

	// SourceItems is the number of records before max-items truncation.
	SourceItems int `json:"source_items"`

	// TypeDistribution counts output records by value kind.
	TypeDistribution map[string]int `json:"type_distribution"`

	ExtractionSuccess bool `json:"extraction_success"`
	SortingApplied    bool `json:"sorting_applied"`
	FormattingApplied bool `json:"formatting_applied"`
	UsedFallback      bool `json:"used_fallback"`

	// MissingKeyRecords counts records without the requested sort key.
	MissingKeyRecords int `json:"missing_key_records"`
}

// Result is the outcome of one Request. Failed runs carry no partial output.
type Result struct {
	RunID            string      `json:"run_id"`
	Success          bool        `json:"success"`
	StructureType    string      `json:"structure_type"`
	SortOrder        string      `json:"sort_order"`
	SortKey          string      `json:"sort_key,omitempty"`
	OutputType       string      `json:"output_type"`
	ExtractedContent value.Value `json:"extracted_content,omitempty"`
	SortedContent    value.List  `json:"sorted_content"`
	FormattedOutput  string      `json:"formatted_output"`
	ProcessingTime   float64     `json:"processing_time"`
	Stats            Stats       `json:"extraction_stats"`
	ErrorCode        ErrorCode   `json:"error_code,omitempty"`
	ErrorMessage     string      `json:"error_message,omitempty"`
	Err              error       `json:"-"`
}

// Run is a completed Result together with the request that produced it, as
// handed to a Recorder.
type Run struct {
	ID        string
	Seq       int64
	Request   Request
	Result    *Result
	InputHash string

	// OutputHash is empty for failed runs.
	OutputHash string
	CreatedAt  time.Time
}

func (r *Result) String() string {
	if r.Success {
		return fmt.Sprintf("run %s: %d items", r.RunID, r.Stats.TotalItems)
	}
	return fmt.Sprintf("run %s: %s: %s", r.RunID, r.ErrorCode, r.ErrorMessage)
}
