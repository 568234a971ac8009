package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/rotation"
)

// DecodeAssignments reads the assignments table back out of an archive.
func DecodeAssignments(archive []byte) ([]rotation.Assignment, error) {
	rows, err := readEntry(archive, AssignmentsFile, AssignmentColumns)
	if err != nil {
		return nil, err
	}
	out := make([]rotation.Assignment, 0, len(rows))
	for i, r := range rows {
		d, err := calendar.ParseDate(r[0])
		if err != nil {
			return nil, &PackagingError{Entry: AssignmentsFile, Err: fmt.Errorf("row %d: %w", i+2, err)}
		}
		out = append(out, rotation.Assignment{Date: d, Weekday: r[1], Code: r[2], Label: r[3]})
	}
	return out, nil
}

// DecodePriorityEntries reads the priority table back out of an archive.
// Code is not a column of that table and stays empty.
func DecodePriorityEntries(archive []byte) ([]rotation.PriorityEntry, error) {
	rows, err := readEntry(archive, PriorityFile, PriorityColumns)
	if err != nil {
		return nil, err
	}
	out := make([]rotation.PriorityEntry, 0, len(rows))
	for i, r := range rows {
		rank, err := strconv.Atoi(r[0])
		if err != nil {
			return nil, &PackagingError{Entry: PriorityFile, Err: fmt.Errorf("row %d: rank: %w", i+2, err)}
		}
		d, err := calendar.ParseDate(r[1])
		if err != nil {
			return nil, &PackagingError{Entry: PriorityFile, Err: fmt.Errorf("row %d: %w", i+2, err)}
		}
		out = append(out, rotation.PriorityEntry{Rank: rank, Date: d, Weekday: r[2], Label: r[3]})
	}
	return out, nil
}

// EntryNames lists the archive entries in stored order.
func EntryNames(archive []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &PackagingError{Entry: ArchiveName, Err: err}
	}
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		names[i] = f.Name
	}
	return names, nil
}

// readEntry opens one workbook in the archive, checks its header and returns
// the data rows padded to the header width.
func readEntry(archive []byte, name string, header []string) ([][]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, &PackagingError{Entry: ArchiveName, Err: err}
	}
	var entry *zip.File
	for _, f := range zr.File {
		if f.Name == name {
			entry = f
			break
		}
	}
	if entry == nil {
		return nil, &PackagingError{Entry: name, Err: fmt.Errorf("entry not found")}
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, &PackagingError{Entry: name, Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &PackagingError{Entry: name, Err: err}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &PackagingError{Entry: name, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, &PackagingError{Entry: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &PackagingError{Entry: name, Err: fmt.Errorf("missing header")}
	}
	for i, h := range header {
		if i >= len(rows[0]) || rows[0][i] != h {
			return nil, &PackagingError{Entry: name, Err: fmt.Errorf("unexpected header %v", rows[0])}
		}
	}

	out := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		padded := make([]string, len(header))
		copy(padded, r)
		out = append(out, padded)
	}
	return out, nil
}
