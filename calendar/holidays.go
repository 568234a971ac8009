package calendar

import "sort"

// =============================================================================
// HOLIDAY SET - Dates excluded from the business calendar
// =============================================================================

// HolidaySet is a set of excluded dates. The zero value (nil) is an empty set
// that can be queried but not added to; use NewHolidaySet to build one.
type HolidaySet map[Date]struct{}

// NewHolidaySet builds a set from dates. Duplicates collapse.
func NewHolidaySet(dates ...Date) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// Add inserts d into the set.
func (s HolidaySet) Add(d Date) { s[d] = struct{}{} }

// Contains reports whether d is a holiday.
func (s HolidaySet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// Len returns the number of distinct holidays.
func (s HolidaySet) Len() int { return len(s) }

// Merge returns a new set holding the union of s and other.
func (s HolidaySet) Merge(other HolidaySet) HolidaySet {
	out := make(HolidaySet, len(s)+len(other))
	for d := range s {
		out[d] = struct{}{}
	}
	for d := range other {
		out[d] = struct{}{}
	}
	return out
}

// Sorted returns the holidays in ascending order.
func (s HolidaySet) Sorted() []Date {
	out := make([]Date, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
