/*
types.go - Core records of a rotation run

PURPOSE:
  Typed records that flow through one run of the rotation pipeline:

    Configuration  what the previous run left behind plus the new date range
    CodedDate      a business date paired with the dispatch code on duty
    Assignment     CodedDate enriched with the office label and weekday name
    PriorityEntry  an Assignment seen through the priority ranking

  Every record is a value type. Functions in this package never mutate their
  input slices; each returns a fresh slice.

SEE ALSO:
  - assigner.go: CodedDate production
  - resolver.go: Assignment enrichment
  - priority.go: PriorityEntry derivation
*/
package rotation

import (
	"fmt"

	"github.com/warp/reparto/calendar"
)

// Configuration is the validated input of one rotation run.
type Configuration struct {
	Period calendar.Period

	// LastUsedCode is the code that served last in the previous run.
	// Empty means "no previous run".
	LastUsedCode string

	// Codes is the rotation order. Non-empty, unique entries.
	Codes []string
}

// Validate performs the structural checks a Configuration must pass before
// it can drive a run.
func (c Configuration) Validate() error {
	if err := c.Period.Validate(); err != nil {
		return err
	}
	if len(c.Codes) == 0 {
		return ErrEmptyCodeList
	}
	seen := make(map[string]int, len(c.Codes))
	for i, code := range c.Codes {
		if code == "" {
			return &InvalidCodeListError{Index: i, Reason: "empty code"}
		}
		if prev, dup := seen[code]; dup {
			return &InvalidCodeListError{Index: i, Code: code, Reason: fmt.Sprintf("duplicate of position %d", prev)}
		}
		seen[code] = i
	}
	return nil
}

// HasLastUsed reports whether LastUsedCode is a member of Codes.
func (c Configuration) HasLastUsed() bool {
	return indexOf(c.Codes, c.LastUsedCode) >= 0
}

// CodeDirectory maps a dispatch code to the office label shown in reports.
type CodeDirectory map[string]string

// Label returns the label for code, or "" when the code is not listed.
func (d CodeDirectory) Label(code string) string {
	return d[code]
}

// CodedDate is one business date with the code on duty.
type CodedDate struct {
	Date calendar.Date
	Code string
}

// Assignment is a CodedDate enriched for reporting.
type Assignment struct {
	Date    calendar.Date
	Code    string
	Label   string
	Weekday string
}

// PriorityEntry is one row of the priority view.
type PriorityEntry struct {
	Rank    int
	Date    calendar.Date
	Weekday string
	Label   string

	// Code is kept for joins and round-trips; it is not a report column.
	Code string
}

// RankedCode is one row of the priority-rank table.
type RankedCode struct {
	Code string
	Rank int
}

func indexOf(codes []string, code string) int {
	if code == "" {
		return -1
	}
	for i, c := range codes {
		if c == code {
			return i
		}
	}
	return -1
}
