package rotation

import "github.com/warp/reparto/calendar"

// =============================================================================
// ROTATION ASSIGNER
// =============================================================================

// RotateFrom returns a copy of codes that starts right after lastUsed.
// When lastUsed is the final element the copy equals codes; when lastUsed is
// empty or not a member the copy is unrotated.
func RotateFrom(codes []string, lastUsed string) []string {
	rotated := make([]string, 0, len(codes))
	start := indexOf(codes, lastUsed) + 1 // -1 (absent) becomes 0
	rotated = append(rotated, codes[start:]...)
	rotated = append(rotated, codes[:start]...)
	return rotated
}

// Assign pairs each date with a code, cycling through the rotated code list:
// dates[i] receives RotateFrom(codes, lastUsed)[i mod len(codes)].
func Assign(dates []calendar.Date, codes []string, lastUsed string) ([]CodedDate, error) {
	if len(codes) == 0 {
		return nil, ErrEmptyCodeList
	}

	rotated := RotateFrom(codes, lastUsed)
	out := make([]CodedDate, len(dates))
	for i, d := range dates {
		out[i] = CodedDate{Date: d, Code: rotated[i%len(rotated)]}
	}
	return out, nil
}

// NextLastUsed returns the code to record as "last used" for the following
// run, i.e. the code of the final assignment. Empty input yields "".
func NextLastUsed(assignments []Assignment) string {
	if len(assignments) == 0 {
		return ""
	}
	return assignments[len(assignments)-1].Code
}
