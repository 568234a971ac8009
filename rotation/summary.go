package rotation

import "github.com/shopspring/decimal"

// =============================================================================
// LOAD SUMMARY - How many business days each office received
// =============================================================================

// CodeLoad is one office's share of the rotation.
type CodeLoad struct {
	Code  string
	Label string
	Days  int

	// Share is the percentage of all assigned days, rounded to 2 places.
	Share decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Summarize counts assignments per code in the configured code order. Codes
// that received no day are listed with zero. Codes found in assignments but
// not configured are appended in first-seen order.
func Summarize(assignments []Assignment, codes []string, directory CodeDirectory) []CodeLoad {
	counts := make(map[string]int, len(codes))
	var extra []string
	for _, a := range assignments {
		if _, seen := counts[a.Code]; !seen && indexOf(codes, a.Code) < 0 {
			extra = append(extra, a.Code)
		}
		counts[a.Code]++
	}

	total := decimal.NewFromInt(int64(len(assignments)))
	order := append(append(make([]string, 0, len(codes)+len(extra)), codes...), extra...)

	out := make([]CodeLoad, 0, len(order))
	for _, code := range order {
		share := decimal.Zero
		if !total.IsZero() {
			share = decimal.NewFromInt(int64(counts[code])).Mul(hundred).Div(total).Round(2)
		}
		out = append(out, CodeLoad{
			Code:  code,
			Label: directory.Label(code),
			Days:  counts[code],
			Share: share,
		})
	}
	return out
}

// Spread returns max(Days) - min(Days) over the summary. A fair rotation has
// a spread of at most 1.
func Spread(loads []CodeLoad) int {
	if len(loads) == 0 {
		return 0
	}
	lo, hi := loads[0].Days, loads[0].Days
	for _, l := range loads[1:] {
		if l.Days < lo {
			lo = l.Days
		}
		if l.Days > hi {
			hi = l.Days
		}
	}
	return hi - lo
}
