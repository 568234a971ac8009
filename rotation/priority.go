/*
priority.go - Priority view of a rotation

PURPOSE:
  The priority view lists the same assignments grouped by office in the
  order offices are expected to act on them. The office that served last
  in the previous run goes first; the others keep the configured order.

RANKING:
  codes = [A, B, C], lastUsed = B

    copy           [A, B, C]
    remove B       [A, C]
    prepend B      [B, A, C]
    ranks          B:1  A:2  C:3

  When lastUsed is empty or not in codes the configured order is used as is.

ORDERING:
  Rows are sorted by (rank, date) with a stable sort, so rows that tie on
  both keys keep their input order.

SEE ALSO:
  - assigner.go: RotateFrom uses the same membership rule for lastUsed
*/
package rotation

import "sort"

// PriorityRanks builds the rank table, rank 1 first.
func PriorityRanks(codes []string, lastUsed string) []RankedCode {
	ordered := make([]string, 0, len(codes))
	if i := indexOf(codes, lastUsed); i >= 0 {
		ordered = append(ordered, lastUsed)
		ordered = append(ordered, codes[:i]...)
		ordered = append(ordered, codes[i+1:]...)
	} else {
		ordered = append(ordered, codes...)
	}

	ranks := make([]RankedCode, len(ordered))
	for i, code := range ordered {
		ranks[i] = RankedCode{Code: code, Rank: i + 1}
	}
	return ranks
}

// rankIndex turns the rank table into a lookup.
func rankIndex(ranks []RankedCode) map[string]int {
	idx := make(map[string]int, len(ranks))
	for _, r := range ranks {
		idx[r.Code] = r.Rank
	}
	return idx
}

// BuildPriorityReport joins every assignment to its code's rank and orders
// the result by (rank, date).
func BuildPriorityReport(assignments []Assignment, codes []string, lastUsed string) ([]PriorityEntry, error) {
	if len(codes) == 0 {
		return nil, ErrEmptyCodeList
	}
	ranks := rankIndex(PriorityRanks(codes, lastUsed))

	entries := make([]PriorityEntry, len(assignments))
	for i, a := range assignments {
		rank, ok := ranks[a.Code]
		if !ok {
			return nil, &UnrankedCodeError{Code: a.Code, Index: i}
		}
		entries[i] = PriorityEntry{
			Rank:    rank,
			Date:    a.Date,
			Weekday: a.Weekday,
			Label:   a.Label,
			Code:    a.Code,
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Rank != entries[j].Rank {
			return entries[i].Rank < entries[j].Rank
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}
