package rotation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/rotation"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func jan(day int) calendar.Date { return calendar.NewDate(2024, time.January, day) }

func codesOf(pairs []rotation.CodedDate) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Code
	}
	return out
}

func datesOf(pairs []rotation.CodedDate) []calendar.Date {
	out := make([]calendar.Date, len(pairs))
	for i, p := range pairs {
		out[i] = p.Date
	}
	return out
}

func weekOf2024() []calendar.Date {
	days, _ := calendar.BusinessDays(calendar.Period{Start: jan(1), End: jan(5)}, nil)
	return days
}

// =============================================================================
// ROTATION TESTS
// =============================================================================

func TestRotateFrom(t *testing.T) {
	codes := []string{"A", "B", "C"}

	cases := []struct {
		name     string
		lastUsed string
		want     []string
	}{
		{"after middle", "B", []string{"C", "A", "B"}},
		{"after first", "A", []string{"B", "C", "A"}},
		{"after last wraps", "C", []string{"A", "B", "C"}},
		{"absent", "", []string{"A", "B", "C"}},
		{"not a member", "Z", []string{"A", "B", "C"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rotation.RotateFrom(codes, tc.lastUsed))
		})
	}
	assert.Equal(t, []string{"A", "B", "C"}, codes, "input must not be mutated")
}

func TestAssign_WeekExample(t *testing.T) {
	// GIVEN: 2024-01-01..05, codes [A,B,C], last used B
	// WHEN: Assigning
	// THEN: C, A, B, C, A

	pairs, err := rotation.Assign(weekOf2024(), []string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B", "C", "A"}, codesOf(pairs))
	assert.Equal(t, weekOf2024(), datesOf(pairs))
}

func TestAssign_HolidayDoesNotConsumeASlot(t *testing.T) {
	// GIVEN: Same week with Wednesday 2024-01-03 as a holiday
	// THEN: Four entries, codes continue C, A, B, C

	days, err := calendar.BusinessDays(calendar.Period{Start: jan(1), End: jan(5)}, calendar.NewHolidaySet(jan(3)))
	require.NoError(t, err)

	pairs, err := rotation.Assign(days, []string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	assert.Equal(t, []calendar.Date{jan(1), jan(2), jan(4), jan(5)}, datesOf(pairs))
	assert.Equal(t, []string{"C", "A", "B", "C"}, codesOf(pairs))
}

func TestAssign_CyclicProperty(t *testing.T) {
	days, err := calendar.BusinessDays(calendar.Period{Start: jan(1), End: calendar.NewDate(2024, time.June, 30)}, nil)
	require.NoError(t, err)

	codes := []string{"101", "102", "103", "104", "105", "106", "107"}
	for _, last := range append([]string{"", "999"}, codes...) {
		rotated := rotation.RotateFrom(codes, last)
		pairs, err := rotation.Assign(days, codes, last)
		require.NoError(t, err)
		require.Len(t, pairs, len(days))
		for i, p := range pairs {
			if p.Code != rotated[i%len(codes)] {
				t.Fatalf("last=%q: assignment %d got %s, want %s", last, i, p.Code, rotated[i%len(codes)])
			}
		}
	}
}

func TestAssign_SingleCode(t *testing.T) {
	pairs, err := rotation.Assign(weekOf2024(), []string{"ONLY"}, "ONLY")
	require.NoError(t, err)
	assert.Equal(t, []string{"ONLY", "ONLY", "ONLY", "ONLY", "ONLY"}, codesOf(pairs))
}

func TestAssign_EmptyInputs(t *testing.T) {
	_, err := rotation.Assign(weekOf2024(), nil, "A")
	assert.ErrorIs(t, err, rotation.ErrEmptyCodeList)

	pairs, err := rotation.Assign(nil, []string{"A"}, "")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

// =============================================================================
// NAME RESOLVER TESTS
// =============================================================================

func TestResolve_LabelsAndWeekdays(t *testing.T) {
	pairs, err := rotation.Assign(weekOf2024(), []string{"A", "B", "C"}, "B")
	require.NoError(t, err)

	directory := rotation.CodeDirectory{"A": "Juzgado 1", "C": "Juzgado 3"}
	got := rotation.Resolve(pairs, directory)

	require.Len(t, got, 5)
	assert.Equal(t, []string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"},
		[]string{got[0].Weekday, got[1].Weekday, got[2].Weekday, got[3].Weekday, got[4].Weekday})
	assert.Equal(t, "Juzgado 3", got[0].Label)
	assert.Equal(t, "Juzgado 1", got[1].Label)
	assert.Equal(t, "", got[2].Label, "unknown code resolves to empty label")
	for i := range got {
		assert.Equal(t, pairs[i].Date, got[i].Date)
		assert.Equal(t, pairs[i].Code, got[i].Code)
	}
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t,
		[]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"},
		rotation.WeekdayNames())
	assert.Equal(t, "Domingo", rotation.WeekdayName(time.Sunday))
	assert.Equal(t, "Sábado", rotation.WeekdayName(time.Saturday))
}

// =============================================================================
// PRIORITY REPORT TESTS
// =============================================================================

func TestPriorityRanks(t *testing.T) {
	codes := []string{"A", "B", "C"}

	assert.Equal(t, []rotation.RankedCode{{"B", 1}, {"A", 2}, {"C", 3}}, rotation.PriorityRanks(codes, "B"))
	assert.Equal(t, []rotation.RankedCode{{"C", 1}, {"A", 2}, {"B", 3}}, rotation.PriorityRanks(codes, "C"))
	assert.Equal(t, []rotation.RankedCode{{"A", 1}, {"B", 2}, {"C", 3}}, rotation.PriorityRanks(codes, "A"))
	assert.Equal(t, []rotation.RankedCode{{"A", 1}, {"B", 2}, {"C", 3}}, rotation.PriorityRanks(codes, ""))
	assert.Equal(t, []rotation.RankedCode{{"A", 1}, {"B", 2}, {"C", 3}}, rotation.PriorityRanks(codes, "Z"))
	assert.Equal(t, []string{"A", "B", "C"}, codes, "input must not be mutated")
}

func TestPriorityRanks_Permutation(t *testing.T) {
	codes := []string{"p", "q", "r", "s", "t", "u"}
	for _, last := range codes {
		ranks := rotation.PriorityRanks(codes, last)
		require.Len(t, ranks, len(codes))
		assert.Equal(t, last, ranks[0].Code)

		seenRank := map[int]bool{}
		seenCode := map[string]bool{}
		for _, r := range ranks {
			seenRank[r.Rank] = true
			seenCode[r.Code] = true
		}
		for i := 1; i <= len(codes); i++ {
			assert.True(t, seenRank[i], "rank %d missing", i)
		}
		assert.Len(t, seenCode, len(codes))
	}
}

func TestBuildPriorityReport_OrdersByRankThenDate(t *testing.T) {
	// GIVEN: The week example (C, A, B, C, A) with last used B
	// THEN: B rows first, then A rows, then C rows, each by date

	pairs, err := rotation.Assign(weekOf2024(), []string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	assignments := rotation.Resolve(pairs, rotation.CodeDirectory{"A": "Oficina A", "B": "Oficina B", "C": "Oficina C"})

	entries, err := rotation.BuildPriorityReport(assignments, []string{"A", "B", "C"}, "B")
	require.NoError(t, err)

	type row struct {
		rank  int
		date  calendar.Date
		label string
	}
	got := make([]row, len(entries))
	for i, e := range entries {
		got[i] = row{e.Rank, e.Date, e.Label}
	}
	assert.Equal(t, []row{
		{1, jan(3), "Oficina B"},
		{2, jan(2), "Oficina A"},
		{2, jan(5), "Oficina A"},
		{3, jan(1), "Oficina C"},
		{3, jan(4), "Oficina C"},
	}, got)
	assert.Equal(t, "Miércoles", entries[0].Weekday)
}

func TestBuildPriorityReport_StableOnTies(t *testing.T) {
	// Hand-built input with two rows sharing code and date.
	assignments := []rotation.Assignment{
		{Date: jan(2), Code: "A", Label: "first"},
		{Date: jan(1), Code: "B", Label: "b"},
		{Date: jan(2), Code: "A", Label: "second"},
	}
	entries, err := rotation.BuildPriorityReport(assignments, []string{"A", "B"}, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "first", entries[0].Label)
	assert.Equal(t, "second", entries[1].Label)
	assert.Equal(t, "b", entries[2].Label)
}

func TestBuildPriorityReport_Errors(t *testing.T) {
	_, err := rotation.BuildPriorityReport(nil, nil, "")
	assert.ErrorIs(t, err, rotation.ErrEmptyCodeList)

	_, err = rotation.BuildPriorityReport([]rotation.Assignment{{Date: jan(1), Code: "X"}}, []string{"A"}, "")
	var unranked *rotation.UnrankedCodeError
	require.ErrorAs(t, err, &unranked)
	assert.Equal(t, "X", unranked.Code)
	assert.ErrorIs(t, err, rotation.ErrUnrankedCode)
}

func TestBuildPriorityReport_DoesNotMutateInput(t *testing.T) {
	assignments := []rotation.Assignment{
		{Date: jan(1), Code: "A"},
		{Date: jan(2), Code: "B"},
	}
	_, err := rotation.BuildPriorityReport(assignments, []string{"A", "B"}, "B")
	require.NoError(t, err)
	assert.Equal(t, "A", assignments[0].Code)
}

// =============================================================================
// CONFIGURATION + SUMMARY TESTS
// =============================================================================

func TestConfiguration_Validate(t *testing.T) {
	week := calendar.Period{Start: jan(1), End: jan(5)}

	ok := rotation.Configuration{Period: week, Codes: []string{"A", "B"}, LastUsedCode: "B"}
	require.NoError(t, ok.Validate())
	assert.True(t, ok.HasLastUsed())

	assert.ErrorIs(t, rotation.Configuration{Period: week}.Validate(), rotation.ErrEmptyCodeList)
	assert.ErrorIs(t, rotation.Configuration{Period: week, Codes: []string{"A", "A"}}.Validate(), rotation.ErrInvalidCodeList)
	assert.ErrorIs(t, rotation.Configuration{Period: week, Codes: []string{"A", ""}}.Validate(), rotation.ErrInvalidCodeList)
	assert.ErrorIs(t,
		rotation.Configuration{Period: calendar.Period{Start: jan(5), End: jan(1)}, Codes: []string{"A"}}.Validate(),
		calendar.ErrInvalidRange)

	notMember := rotation.Configuration{Period: week, Codes: []string{"A"}, LastUsedCode: "Z"}
	require.NoError(t, notMember.Validate())
	assert.False(t, notMember.HasLastUsed())
}

func TestSummarize(t *testing.T) {
	pairs, err := rotation.Assign(weekOf2024(), []string{"A", "B", "C"}, "B")
	require.NoError(t, err)
	directory := rotation.CodeDirectory{"A": "Oficina A"}
	assignments := rotation.Resolve(pairs, directory)

	loads := rotation.Summarize(assignments, []string{"A", "B", "C"}, directory)
	require.Len(t, loads, 3)

	assert.Equal(t, "A", loads[0].Code)
	assert.Equal(t, "Oficina A", loads[0].Label)
	assert.Equal(t, 2, loads[0].Days)
	assert.True(t, decimal.RequireFromString("40").Equal(loads[0].Share), "got %s", loads[0].Share)
	assert.Equal(t, 1, loads[1].Days)
	assert.True(t, decimal.RequireFromString("20").Equal(loads[1].Share))
	assert.Equal(t, 2, loads[2].Days)
	assert.Equal(t, 1, rotation.Spread(loads))
}

func TestSummarize_EmptyAndUnconfigured(t *testing.T) {
	loads := rotation.Summarize(nil, []string{"A"}, nil)
	require.Len(t, loads, 1)
	assert.True(t, loads[0].Share.IsZero())

	loads = rotation.Summarize([]rotation.Assignment{{Code: "X"}, {Code: "A"}, {Code: "X"}}, []string{"A"}, nil)
	require.Len(t, loads, 2)
	assert.Equal(t, "X", loads[1].Code)
	assert.Equal(t, 2, loads[1].Days)
	assert.True(t, decimal.RequireFromString("66.67").Equal(loads[1].Share), "got %s", loads[1].Share)
}

func TestNextLastUsed(t *testing.T) {
	assert.Equal(t, "", rotation.NextLastUsed(nil))
	assert.Equal(t, "C", rotation.NextLastUsed([]rotation.Assignment{{Code: "A"}, {Code: "C"}}))
}
