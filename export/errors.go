package export

import (
	"errors"
	"fmt"
)

// ErrPackaging is the sentinel behind every PackagingError.
var ErrPackaging = errors.New("packaging failed")

// PackagingError names the archive entry that could not be produced or read.
type PackagingError struct {
	Entry string
	Err   error
}

func (e *PackagingError) Error() string {
	return fmt.Sprintf("packaging %s: %v", e.Entry, e.Err)
}

func (e *PackagingError) Unwrap() []error {
	return []error{ErrPackaging, e.Err}
}
