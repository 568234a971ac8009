package calendar

// =============================================================================
// PERIOD - The date range a rotation is generated for
// =============================================================================

// Period is the closed range [Start, End].
type Period struct {
	Start Date
	End   Date
}

// NewPeriod validates the bounds and returns the period.
func NewPeriod(start, end Date) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate fails with *InvalidRangeError when Start is after End.
func (p Period) Validate() error {
	if p.Start.After(p.End) {
		return &InvalidRangeError{Start: p.Start, End: p.End}
	}
	return nil
}

// Contains returns true if d is within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every calendar day of the period in ascending order.
func (p Period) Days() []Date {
	var days []Date
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// BusinessDays lists Monday to Friday dates of the period, bounds included,
// skipping every date in holidays. An empty result is not an error.
func BusinessDays(p Period, holidays HolidaySet) ([]Date, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	days := make([]Date, 0)
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		if current.IsWeekend() || holidays.Contains(current) {
			continue
		}
		days = append(days, current)
	}
	return days, nil
}

// CountBusinessDays is len(BusinessDays(...)) without building the slice.
func CountBusinessDays(p Period, holidays HolidaySet) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	n := 0
	for current := p.Start; current.BeforeOrEqual(p.End); current = current.AddDays(1) {
		if current.IsWorkday() && !holidays.Contains(current) {
			n++
		}
	}
	return n, nil
}
