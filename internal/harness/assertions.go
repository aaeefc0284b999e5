package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/structsort/internal/engine"
	"github.com/roach88/structsort/internal/sorter"
	"github.com/roach88/structsort/internal/value"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Output   string // Formatted output for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if e.Output != "" {
		fmt.Fprintf(&buf, "\nFormatted output:\n")
		for _, line := range strings.Split(e.Output, "\n") {
			fmt.Fprintf(&buf, "  %s\n", line)
		}
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure messages.
func EvaluateAssertions(res *engine.Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertOutputContains:
			err = assertOutputContains(res, a)
		case AssertOutputOrder:
			err = assertOutputOrder(res, a)
		case AssertFieldOrder:
			err = assertFieldOrder(res, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func assertOutputContains(res *engine.Result, a Assertion) error {
	if strings.Contains(res.FormattedOutput, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertOutputContains,
		Expected: fmt.Sprintf("output containing %q", a.Value),
		Actual:   "not found",
		Output:   res.FormattedOutput,
	}
}

// assertOutputOrder checks that values appear in order. They need not be
// adjacent.
func assertOutputOrder(res *engine.Result, a Assertion) error {
	rest := res.FormattedOutput
	for _, v := range a.Values {
		i := strings.Index(rest, v)
		if i < 0 {
			return &AssertionError{
				Type:     AssertOutputOrder,
				Expected: fmt.Sprintf("%q in order", a.Values),
				Actual:   fmt.Sprintf("%q missing or out of order", v),
				Output:   res.FormattedOutput,
			}
		}
		rest = rest[i+len(v):]
	}
	return nil
}

func assertFieldOrder(res *engine.Result, a Assertion) error {
	got := make([]string, len(res.SortedContent))
	for i, rec := range res.SortedContent {
		if v, ok := sorter.Lookup(rec, a.Field); ok {
			got[i] = value.Text(v)
		}
	}
	if strings.Join(got, "\x00") == strings.Join(a.Values, "\x00") {
		return nil
	}
	return &AssertionError{
		Type:     AssertFieldOrder,
		Expected: fmt.Sprintf("%s = %q", a.Field, a.Values),
		Actual:   fmt.Sprintf("%s = %q", a.Field, got),
	}
}

// checkExpect compares the result envelope with the expect clause.
func checkExpect(exp ExpectClause, res *engine.Result) []string {
	var errs []string
	mismatch := func(field string, want, got any) {
		errs = append(errs, fmt.Sprintf("%s: expected %v, got %v", field, want, got))
	}

	if exp.Success != nil && *exp.Success != res.Success {
		mismatch("success", *exp.Success, res.Success)
		if !res.Success {
			errs = append(errs, "error: "+res.ErrorMessage)
		}
	}
	if exp.ErrorCode != "" && exp.ErrorCode != string(res.ErrorCode) {
		mismatch("error_code", exp.ErrorCode, res.ErrorCode)
	}
	if exp.TotalItems != nil && *exp.TotalItems != res.Stats.TotalItems {
		mismatch("total_items", *exp.TotalItems, res.Stats.TotalItems)
	}
	if exp.MissingKeyRecords != nil && *exp.MissingKeyRecords != res.Stats.MissingKeyRecords {
		mismatch("missing_key_records", *exp.MissingKeyRecords, res.Stats.MissingKeyRecords)
	}
	if exp.UsedFallback != nil && *exp.UsedFallback != res.Stats.UsedFallback {
		mismatch("used_fallback", *exp.UsedFallback, res.Stats.UsedFallback)
	}
	if exp.FormattedOutput != nil && *exp.FormattedOutput != res.FormattedOutput {
		mismatch("formatted_output", fmt.Sprintf("%q", *exp.FormattedOutput), fmt.Sprintf("%q", res.FormattedOutput))
	}
	if exp.SortedContent != "" {
		want, err := value.Decode([]byte(exp.SortedContent))
		if err != nil {
			errs = append(errs, fmt.Sprintf("sorted_content: invalid expectation: %v", err))
		} else if !value.Equal(want, res.SortedContent) {
			got, _ := value.Marshal(res.SortedContent)
			mismatch("sorted_content", exp.SortedContent, string(got))
		}
	}
	return errs
}
