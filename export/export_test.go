package export_test

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/export"
	"github.com/warp/reparto/rotation"
)

func jan(day int) calendar.Date { return calendar.NewDate(2024, time.January, day) }

func sampleTables(t *testing.T) ([]rotation.Assignment, []rotation.PriorityEntry) {
	t.Helper()
	days, err := calendar.BusinessDays(calendar.Period{Start: jan(1), End: jan(12)}, calendar.NewHolidaySet(jan(8)))
	require.NoError(t, err)
	pairs, err := rotation.Assign(days, []string{"101", "102", "103"}, "102")
	require.NoError(t, err)
	assignments := rotation.Resolve(pairs, rotation.CodeDirectory{"101": "Juzgado Primero", "103": "Juzgado Tercero"})
	entries, err := rotation.BuildPriorityReport(assignments, []string{"101", "102", "103"}, "102")
	require.NoError(t, err)
	return assignments, entries
}

func TestPackage_ContainsExactlyTwoEntries(t *testing.T) {
	assignments, entries := sampleTables(t)

	archive, err := export.Package(assignments, entries)
	require.NoError(t, err)

	names, err := export.EntryNames(archive)
	require.NoError(t, err)
	assert.Equal(t, []string{export.AssignmentsFile, export.PriorityFile}, names)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	for _, f := range zr.File {
		assert.True(t, f.Modified.Equal(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)), "%s modified %s", f.Name, f.Modified)
	}
}

func TestPackage_ColumnOrder(t *testing.T) {
	assignments, entries := sampleTables(t)
	archive, err := export.Package(assignments, entries)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)

	want := map[string][]string{
		export.AssignmentsFile: {"Fecha", "Día de la Semana", "Codigo del Despacho", "Despacho o Dependencia"},
		export.PriorityFile:    {"Orden del Despacho", "Fecha", "Día de la Semana", "Despacho o Dependencia"},
	}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		require.NoError(t, err)
		wb, err := excelize.OpenReader(rc)
		require.NoError(t, err)
		rows, err := wb.GetRows(wb.GetSheetName(0))
		require.NoError(t, err)
		_ = rc.Close()
		_ = wb.Close()

		require.NotEmpty(t, rows)
		assert.Equal(t, want[entry.Name], rows[0], entry.Name)
	}
}

func TestPackage_RoundTrip(t *testing.T) {
	// GIVEN: Both tables packaged
	// WHEN: Decoding them back
	// THEN: Row content and order match; empty labels survive

	assignments, entries := sampleTables(t)
	archive, err := export.Package(assignments, entries)
	require.NoError(t, err)

	decoded, err := export.DecodeAssignments(archive)
	require.NoError(t, err)
	assert.Equal(t, assignments, decoded)

	decodedEntries, err := export.DecodePriorityEntries(archive)
	require.NoError(t, err)
	require.Len(t, decodedEntries, len(entries))
	for i := range entries {
		want := entries[i]
		want.Code = ""
		assert.Equal(t, want, decodedEntries[i], "row %d", i)
	}

	// Re-deriving the priority view from the decoded assignments gives the same table.
	rederived, err := rotation.BuildPriorityReport(decoded, []string{"101", "102", "103"}, "102")
	require.NoError(t, err)
	assert.Equal(t, entries, rederived)
}

func TestPackage_EmptyTables(t *testing.T) {
	archive, err := export.Package(nil, nil)
	require.NoError(t, err)

	decoded, err := export.DecodeAssignments(archive)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestPackage_RowContentIsDeterministic(t *testing.T) {
	assignments, entries := sampleTables(t)

	a1, err := export.Package(assignments, entries)
	require.NoError(t, err)
	a2, err := export.Package(assignments, entries)
	require.NoError(t, err)

	d1, err := export.DecodeAssignments(a1)
	require.NoError(t, err)
	d2, err := export.DecodeAssignments(a2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDecode_Errors(t *testing.T) {
	_, err := export.DecodeAssignments([]byte("not a zip"))
	assert.ErrorIs(t, err, export.ErrPackaging)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("other.txt")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = export.DecodePriorityEntries(buf.Bytes())
	var pkgErr *export.PackagingError
	require.ErrorAs(t, err, &pkgErr)
	assert.Equal(t, export.PriorityFile, pkgErr.Entry)
}
