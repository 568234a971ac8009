/*
ingest.go - Raw uploaded records to typed rotation inputs

PURPOSE:
  Converts the three files a user supplies into the typed values the
  rotation engine consumes:

    configuration CSV  -> rotation.Configuration
    holidays CSV       -> calendar.HolidaySet
    code directory     -> rotation.CodeDirectory   (XLSX first sheet or CSV)

COLUMNS:
  Headers are matched ignoring case, accents and extra spaces.

    configuration: fecha_inicio, fecha_fin, lista_codigos, [ultimo_codigo_despacho]
                   only the first data row is read
    holidays:      fecha
    codes:         codigo, despacho o dependencia

  Codes are kept as strings even when they look numeric. Spreadsheet
  tools sometimes render integers as "101.0"; such values are folded back
  to "101" so they match the configuration list.

ERRORS:
  Every failure is a *MalformedInputError naming the source, row and field.

SEE ALSO:
  - table.go: CSV/XLSX reading and header folding
  - engine/engine.go: calls these parsers in the input stage
*/
package ingest

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/warp/reparto/calendar"
	"github.com/warp/reparto/rotation"
)

// Source names used in errors.
const (
	SourceConfig   = "config"
	SourceHolidays = "holidays"
	SourceCodes    = "codes"
)

// Column keys, already folded by headerKey.
const (
	colStartDate = "fecha_inicio"
	colEndDate   = "fecha_fin"
	colLastUsed  = "ultimo_codigo_despacho"
	colCodeList  = "lista_codigos"
	colHoliday   = "fecha"
	colCode      = "codigo"
	colLabel     = "despacho o dependencia"
)

// ConfigRecord is the configuration row as written in the file.
type ConfigRecord struct {
	StartDate    string `validate:"required"`
	EndDate      string `validate:"required"`
	LastUsedCode string
	CodeList     string
}

var fieldColumns = map[string]string{
	"StartDate": colStartDate,
	"EndDate":   colEndDate,
}

var validate = validator.New()

// =============================================================================
// CONFIGURATION
// =============================================================================

// ParseConfiguration reads the configuration CSV.
func ParseConfiguration(r io.Reader) (rotation.Configuration, error) {
	t, err := readCSV(SourceConfig, r)
	if err != nil {
		return rotation.Configuration{}, err
	}
	if err := t.require(colStartDate, colEndDate, colCodeList); err != nil {
		return rotation.Configuration{}, err
	}
	if len(t.rows) == 0 {
		return rotation.Configuration{}, malformed(SourceConfig, 0, "", errors.New("no data row"))
	}

	rec := ConfigRecord{
		StartDate:    t.cell(0, colStartDate),
		EndDate:      t.cell(0, colEndDate),
		LastUsedCode: t.cell(0, colLastUsed),
		CodeList:     t.cell(0, colCodeList),
	}
	return rec.Configuration()
}

// Configuration validates the record and converts it. A blank code list
// is rotation.ErrEmptyCodeList, a list with a blank entry is malformed.
func (rec ConfigRecord) Configuration() (rotation.Configuration, error) {
	const row = 2
	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return rotation.Configuration{}, malformed(SourceConfig, row, fieldColumns[verrs[0].Field()], errors.New("required"))
		}
		return rotation.Configuration{}, malformed(SourceConfig, row, "", err)
	}

	start, err := calendar.ParseDate(rec.StartDate)
	if err != nil {
		return rotation.Configuration{}, malformed(SourceConfig, row, colStartDate, err)
	}
	end, err := calendar.ParseDate(rec.EndDate)
	if err != nil {
		return rotation.Configuration{}, malformed(SourceConfig, row, colEndDate, err)
	}

	if strings.TrimSpace(rec.CodeList) == "" {
		return rotation.Configuration{}, rotation.ErrEmptyCodeList
	}
	codes, err := SplitCodes(rec.CodeList)
	if err != nil {
		return rotation.Configuration{}, malformed(SourceConfig, row, colCodeList, err)
	}

	return rotation.Configuration{
		Period:       calendar.Period{Start: start, End: end},
		LastUsedCode: NormalizeCode(rec.LastUsedCode),
		Codes:        codes,
	}, nil
}

// SplitCodes splits a comma separated code list, trimming each entry.
// Blank and repeated entries are rejected.
func SplitCodes(list string) ([]string, error) {
	parts := strings.Split(list, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for i, p := range parts {
		code := NormalizeCode(p)
		if code == "" {
			return nil, fmt.Errorf("entry %d is blank", i+1)
		}
		if seen[code] {
			return nil, fmt.Errorf("code %q listed twice", code)
		}
		seen[code] = true
		codes = append(codes, code)
	}
	return codes, nil
}

var floatInteger = regexp.MustCompile(`^-?\d+\.0+$`)

// NormalizeCode trims a code and folds "101.0" to "101".
func NormalizeCode(code string) string {
	code = strings.TrimSpace(code)
	if floatInteger.MatchString(code) {
		code = code[:strings.IndexByte(code, '.')]
	}
	return code
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ParseHolidays reads the holiday CSV. Blank rows are skipped, duplicates collapse.
func ParseHolidays(r io.Reader) (calendar.HolidaySet, error) {
	t, err := readCSV(SourceHolidays, r)
	if err != nil {
		return nil, err
	}
	if err := t.require(colHoliday); err != nil {
		return nil, err
	}

	set := calendar.NewHolidaySet()
	for i := range t.rows {
		raw := t.cell(i, colHoliday)
		if raw == "" {
			continue
		}
		d, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, malformed(SourceHolidays, rowNumber(i), colHoliday, err)
		}
		set.Add(d)
	}
	return set, nil
}

// =============================================================================
// CODE DIRECTORY
// =============================================================================

// ParseCodeDirectory reads the code directory from an XLSX workbook or a CSV
// file; filename selects the format (see readAny). Rows with a blank code are
// skipped. A repeated code keeps its last label.
func ParseCodeDirectory(r io.Reader, filename string) (rotation.CodeDirectory, error) {
	t, err := readAny(SourceCodes, filename, r)
	if err != nil {
		return nil, err
	}
	if err := t.require(colCode, colLabel); err != nil {
		return nil, err
	}

	dir := make(rotation.CodeDirectory, len(t.rows))
	for i := range t.rows {
		if t.blank(i) {
			continue
		}
		code := NormalizeCode(t.cell(i, colCode))
		if code == "" {
			continue
		}
		dir[code] = t.cell(i, colLabel)
	}
	return dir, nil
}
