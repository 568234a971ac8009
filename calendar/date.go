package calendar

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a Gregorian calendar date with no time-of-day and no time zone.
// It is comparable and can be used as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing out-of-range values the way time.Date does
// (e.g. February 30 becomes March 1 or 2).
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime keeps the calendar date of t as seen in t's own location.
// The clock and the zone are dropped, never shifted.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool         { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool         { return d == other }
func (d Date) BeforeOrEqual(other Date) bool { return d.Compare(other) <= 0 }
func (d Date) AfterOrEqual(other Date) bool  { return d.Compare(other) >= 0 }

// Compare returns -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// Arithmetic
func (d Date) AddDays(n int) Date { return FromTime(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }

// String renders the ISO form, YYYY-MM-DD.
func (d Date) String() string { return d.Time().Format(ISOLayout) }

// MarshalText implements encoding.TextMarshaler so dates serialize as ISO strings.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// PARSING
// =============================================================================

// ISOLayout is the canonical layout used for every date this module writes.
const ISOLayout = "2006-01-02"

// acceptedLayouts are tried in order. Slash dates without a leading year are
// read month first.
var acceptedLayouts = []string{
	ISOLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseDate parses a date-like string and keeps only the calendar date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return Date{}, fmt.Errorf("unrecognized date %q", s)
}
