package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a period starts after it ends.
	ErrInvalidRange = errors.New("invalid range: start after end")

	// ErrUnknownPreset is returned when a holiday preset name is not registered.
	ErrUnknownPreset = errors.New("unknown holiday preset")
)

// InvalidRangeError carries the offending bounds.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}
