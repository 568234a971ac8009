package rotation

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyCodeList is returned when no dispatch codes are configured.
	ErrEmptyCodeList = errors.New("empty code list")

	// ErrInvalidCodeList is returned when the code list has blank or repeated entries.
	ErrInvalidCodeList = errors.New("invalid code list")

	// ErrUnrankedCode is returned when an assignment carries a code missing
	// from the priority table.
	ErrUnrankedCode = errors.New("code has no priority rank")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidCodeListError points at the offending position of the code list.
type InvalidCodeListError struct {
	Index  int
	Code   string
	Reason string
}

func (e *InvalidCodeListError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("invalid code list: position %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid code list: position %d (%q): %s", e.Index, e.Code, e.Reason)
}

func (e *InvalidCodeListError) Unwrap() error {
	return ErrInvalidCodeList
}

// UnrankedCodeError names the assignment that could not be ranked.
type UnrankedCodeError struct {
	Code  string
	Index int
}

func (e *UnrankedCodeError) Error() string {
	return fmt.Sprintf("assignment %d: code %q has no priority rank", e.Index, e.Code)
}

func (e *UnrankedCodeError) Unwrap() error {
	return ErrUnrankedCode
}
