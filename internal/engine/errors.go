package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/structsort/internal/format"
)

// ErrorCode categorizes failed runs.
type ErrorCode string

const (
	// ErrCodeEmptyInput indicates blank input; no parse was attempted.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"

	// ErrCodeParse indicates the input did not match its structure type and
	// no fallback could recover it.
	ErrCodeParse ErrorCode = "PARSE_ERROR"

	// ErrCodeInvalidRequest indicates an unknown structure type or sort order.
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"

	// ErrCodeRenderInternal indicates a renderer bug.
	ErrCodeRenderInternal ErrorCode = "RENDER_INTERNAL"

	// ErrCodeCancelled indicates the context ended before the run finished.
	ErrCodeCancelled ErrorCode = "CANCELLED"

	// ErrCodeInternal covers anything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// RequestError reports a request field the engine cannot interpret.
type RequestError struct {
	Field   string
	Value   string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// FallbackError reports that the fallback extractor could not recover an
// input its parser rejected. It wraps both failures.
type FallbackError struct {
	Parse    error
	Fallback error
}

func (e *FallbackError) Error() string {
	return fmt.Sprintf("%v (fallback extraction failed: %v)", e.Parse, e.Fallback)
}

func (e *FallbackError) Unwrap() []error {
	return []error{e.Parse, e.Fallback}
}

// IsRequestError returns true if err is or wraps a *RequestError.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// CodeFor maps an error onto its ErrorCode.
func CodeFor(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case format.IsEmptyInput(err):
		return ErrCodeEmptyInput
	case IsRequestError(err):
		return ErrCodeInvalidRequest
	case format.IsParseError(err):
		return ErrCodeParse
	case format.IsRenderInternal(err):
		return ErrCodeRenderInternal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeCancelled
	default:
		return ErrCodeInternal
	}
}
