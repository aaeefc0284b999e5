package format

import (
	"errors"
	"fmt"
)

// ParseErrorKind categorizes parse failures.
type ParseErrorKind string

const (
	// Malformed indicates the input is recognizably the declared syntax but broken.
	Malformed ParseErrorKind = "MALFORMED"

	// Unrecognized indicates the input does not look like the declared syntax at all.
	Unrecognized ParseErrorKind = "UNRECOGNIZED"
)

// ParseError reports input that does not match the declared structure type.
// Line and Column are 1-based and zero when unknown.
//
// A ParseError is recoverable: callers may fall back to a best-effort
// extractor.
type ParseError struct {
	Format  StructureType
	Kind    ParseErrorKind
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s: %s at line %d, column %d: %s", e.Format, e.Kind, e.Line, e.Column, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("%s: %s at line %d: %s", e.Format, e.Kind, e.Line, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Format, e.Kind, e.Message)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// EmptyInputError reports blank input. No parse is attempted.
type EmptyInputError struct {
	Format StructureType
}

func (e *EmptyInputError) Error() string {
	if e.Format == "" {
		return "input is empty"
	}
	return fmt.Sprintf("%s: input is empty", e.Format)
}

// RenderInternalError signals a renderer bug. It should be unreachable for
// any well-formed record sequence.
type RenderInternalError struct {
	Format StructureType
	Err    error
}

func (e *RenderInternalError) Error() string {
	return fmt.Sprintf("%s: internal render error: %v", e.Format, e.Err)
}

func (e *RenderInternalError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsEmptyInput returns true if err is or wraps an *EmptyInputError.
func IsEmptyInput(err error) bool {
	var ee *EmptyInputError
	return errors.As(err, &ee)
}

// IsRenderInternal returns true if err is or wraps a *RenderInternalError.
func IsRenderInternal(err error) bool {
	var re *RenderInternalError
	return errors.As(err, &re)
}

func malformed(t StructureType, line, col int, msg string, err error) *ParseError {
	return &ParseError{Format: t, Kind: Malformed, Line: line, Column: col, Message: msg, Err: err}
}

func unrecognized(t StructureType, line int, msg string) *ParseError {
	return &ParseError{Format: t, Kind: Unrecognized, Line: line, Message: msg}
}
