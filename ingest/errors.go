package ingest

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the sentinel behind every MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError describes an input record that could not be parsed.
// Row is 1-based and counts the header; zero means "whole source".
type MalformedInputError struct {
	Source string // "config", "holidays", "codes"
	Row    int
	Field  string
	Err    error
}

func (e *MalformedInputError) Error() string {
	loc := e.Source
	if e.Row > 0 {
		loc = fmt.Sprintf("%s row %d", loc, e.Row)
	}
	if e.Field != "" {
		loc = fmt.Sprintf("%s field %q", loc, e.Field)
	}
	if e.Err == nil {
		return "malformed input: " + loc
	}
	return fmt.Sprintf("malformed input: %s: %v", loc, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *MalformedInputError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformedInput}
	}
	return []error{ErrMalformedInput, e.Err}
}

func malformed(source string, row int, field string, err error) error {
	return &MalformedInputError{Source: source, Row: row, Field: field, Err: err}
}
