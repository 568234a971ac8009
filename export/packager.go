/*
packager.go - Report workbooks bundled into one ZIP archive

PURPOSE:
  Serializes the two report tables as XLSX workbooks and bundles them into
  a single ZIP. Everything happens in memory; callers receive either the
  complete archive or a *PackagingError, never a partial archive.

ARCHIVE LAYOUT:
  Reparto_Horas_Habiles.xlsx   one row per assignment, date order
    Fecha | Día de la Semana | Codigo del Despacho | Despacho o Dependencia

  Reparto_Para_Acuerdo.xlsx    one row per priority entry, (rank, date) order
    Orden del Despacho | Fecha | Día de la Semana | Despacho o Dependencia

  Dates are ISO text (YYYY-MM-DD), ranks are integers. Entry order and
  entry timestamps are fixed; workbook metadata may still differ between
  runs, row content never does.

SEE ALSO:
  - decode.go: reads the archive back
  - rotation/priority.go: PriorityEntry ordering
*/
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/warp/reparto/rotation"
)

// Fixed names inside and of the archive.
const (
	ArchiveName     = "repartos.zip"
	AssignmentsFile = "Reparto_Horas_Habiles.xlsx"
	PriorityFile    = "Reparto_Para_Acuerdo.xlsx"
)

// Column headers, in file order.
var (
	AssignmentColumns = []string{"Fecha", "Día de la Semana", "Codigo del Despacho", "Despacho o Dependencia"}
	PriorityColumns   = []string{"Orden del Despacho", "Fecha", "Día de la Semana", "Despacho o Dependencia"}
)

const (
	assignmentsSheet = "Reparto_Horas_Habiles"
	prioritySheet    = "Reparto_Para_Acuerdo"
)

// entryTime is stamped on every archive entry.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// =============================================================================
// PACKAGE
// =============================================================================

// Package renders both tables and returns the ZIP archive bytes.
func Package(assignments []rotation.Assignment, entries []rotation.PriorityEntry) ([]byte, error) {
	assignmentsXLSX, err := AssignmentsWorkbook(assignments)
	if err != nil {
		return nil, &PackagingError{Entry: AssignmentsFile, Err: err}
	}
	priorityXLSX, err := PriorityWorkbook(entries)
	if err != nil {
		return nil, &PackagingError{Entry: PriorityFile, Err: err}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct {
		name string
		data []byte
	}{
		{AssignmentsFile, assignmentsXLSX},
		{PriorityFile, priorityXLSX},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Deflate, Modified: entryTime})
		if err != nil {
			return nil, &PackagingError{Entry: e.name, Err: err}
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, &PackagingError{Entry: e.name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &PackagingError{Entry: ArchiveName, Err: err}
	}
	return buf.Bytes(), nil
}

// AssignmentsWorkbook renders the assignments table as XLSX bytes.
func AssignmentsWorkbook(assignments []rotation.Assignment) ([]byte, error) {
	rows := make([][]interface{}, len(assignments))
	for i, a := range assignments {
		rows[i] = []interface{}{a.Date.String(), a.Weekday, a.Code, a.Label}
	}
	return renderSheet(assignmentsSheet, AssignmentColumns, rows, []float64{12, 18, 20, 45})
}

// PriorityWorkbook renders the priority table as XLSX bytes.
func PriorityWorkbook(entries []rotation.PriorityEntry) ([]byte, error) {
	rows := make([][]interface{}, len(entries))
	for i, e := range entries {
		rows[i] = []interface{}{e.Rank, e.Date.String(), e.Weekday, e.Label}
	}
	return renderSheet(prioritySheet, PriorityColumns, rows, []float64{18, 12, 18, 45})
}

func renderSheet(sheet string, headers []string, rows [][]interface{}, widths []float64) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
