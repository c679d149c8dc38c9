package ingest

import (
	"errors"
	"fmt"
)

// ErrMissingRequiredField indicates a required header cell is empty.
var ErrMissingRequiredField = errors.New("missing required field")

// DateFormatError reports a value that matched none of the accepted date layouts.
type DateFormatError struct {
	Value string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Value)
}

// CoercionError reports a cell value that could not become a decimal.
// It is never fatal: the value is replaced with zero.
type CoercionError struct {
	Value  any
	Reason string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot convert %v (%T) to decimal: %s", e.Value, e.Value, e.Reason)
}

// IngestionError wraps an unexpected failure with the pipeline stage it occurred in.
type IngestionError struct {
	Stage string
	Err   error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingestion failed at %s: %v", e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
