package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// TABLE - Header + rows read from CSV or the first XLSX sheet
// =============================================================================

// table is a rectangular view over an uploaded file. Cells are trimmed.
type table struct {
	source  string
	columns map[string]int // normalized header -> column index
	rows    [][]string     // data rows, header excluded
}

// cell returns the trimmed value of column key in data row i, "" if absent.
func (t *table) cell(i int, key string) string {
	col, ok := t.columns[key]
	if !ok || col >= len(t.rows[i]) {
		return ""
	}
	return strings.TrimSpace(t.rows[i][col])
}

func (t *table) has(key string) bool {
	_, ok := t.columns[key]
	return ok
}

// require fails with a MalformedInputError naming the first missing column.
func (t *table) require(keys ...string) error {
	for _, k := range keys {
		if !t.has(k) {
			return malformed(t.source, 1, k, errors.New("missing column"))
		}
	}
	return nil
}

// rowNumber converts a data row index to the 1-based file row (header is row 1).
func rowNumber(i int) int { return i + 2 }

func (t *table) blank(i int) bool {
	for _, c := range t.rows[i] {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// headerKey folds case, accents and surrounding space so "Código", "codigo "
// and "CODIGO" all match.
func headerKey(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, h)
	if err != nil {
		folded = h
	}
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}

func newTable(source string, records [][]string) (*table, error) {
	if len(records) == 0 {
		return nil, malformed(source, 0, "", errors.New("file is empty"))
	}
	t := &table{source: source, columns: make(map[string]int), rows: records[1:]}
	for i, h := range records[0] {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, dup := t.columns[key]; !dup {
			t.columns[key] = i
		}
	}
	return t, nil
}

// readCSV parses comma separated records. Rows may have differing widths.
func readCSV(source string, r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, malformed(source, 0, "", fmt.Errorf("read csv: %w", err))
	}
	return newTable(source, records)
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(source string, r io.Reader) (*table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, malformed(source, 0, "", fmt.Errorf("open xlsx: %w", err))
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, malformed(source, 0, "", errors.New("workbook has no sheets"))
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, malformed(source, 0, "", fmt.Errorf("read sheet %q: %w", sheets[0], err))
	}
	return newTable(source, records)
}

// zipMagic starts every XLSX file.
var zipMagic = []byte("PK\x03\x04")

// readAny picks XLSX or CSV from the file name, falling back to sniffing the
// content when the name has no known extension.
func readAny(source, filename string, r io.Reader) (*table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readXLSX(source, r)
	case ".csv", ".txt":
		return readCSV(source, r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, malformed(source, 0, "", err)
	}
	if bytes.HasPrefix(data, zipMagic) {
		return readXLSX(source, bytes.NewReader(data))
	}
	return readCSV(source, bytes.NewReader(data))
}
