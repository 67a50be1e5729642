// Package excel reads and writes the roster spreadsheets.
package excel

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// maxXLSRows bounds how many rows are read from a legacy .xls workbook.
const maxXLSRows = 100000

var (
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format, expected .xlsx, .xls or .csv")
	ErrNoWorksheet       = errors.New("no worksheet found")
	ErrEmptySheet        = errors.New("worksheet has no heading row")
)

// Record is one data row keyed by normalised heading. Row is the 1-based
// spreadsheet row number, the heading row being row 1.
type Record struct {
	Row    int
	Values map[string]string
	// Numeric marks the fields whose cell the workbook stored as a number or
	// a date. Text cells and every CSV cell are absent.
	Numeric map[string]bool
}

// Sheet is the cell text of one worksheet.
type Sheet struct {
	Rows    [][]string
	numeric map[cellRef]bool
}

// cellRef is a 0-based row and column.
type cellRef struct {
	row, col int
}

// Numeric reports whether the cell at the 0-based row and col was stored as
// a number or a date.
func (s Sheet) Numeric(row, col int) bool {
	return s.numeric[cellRef{row, col}]
}

func (s *Sheet) markNumeric(row, col int) {
	if s.numeric == nil {
		s.numeric = map[cellRef]bool{}
	}
	s.numeric[cellRef{row, col}] = true
}

// Extensions lists the accepted file extensions.
var Extensions = []string{".xlsx", ".xls", ".csv"}

// ReadRows returns the cells of the first worksheet. The format is chosen by
// the extension of filename.
func ReadRows(r io.Reader, filename string) (Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "reading upload")
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".csv":
		return readCSV(data)
	default:
		return Sheet{}, ErrUnsupportedFormat
	}
}

func readXLSX(data []byte) (Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Sheet{}, errors.Wrap(err, "opening xlsx")
	}
	defer func() { _ = f.Close() }()

	name := f.GetSheetName(0)
	if name == "" {
		return Sheet{}, ErrNoWorksheet
	}

	// Raw values keep date cells as serials instead of locale formatted text.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, errors.Wrapf(err, "reading sheet %q", name)
	}

	sheet := Sheet{Rows: rows}
	for i, row := range rows {
		for j, value := range row {
			if strings.TrimSpace(value) == "" {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return Sheet{}, errors.Wrapf(err, "row %d column %d", i+1, j+1)
			}

			typ, err := f.GetCellType(name, cell)
			if err != nil {
				return Sheet{}, errors.Wrapf(err, "reading type of %s", cell)
			}

			// Numbers are written without a type attribute.
			switch typ {
			case excelize.CellTypeUnset, excelize.CellTypeNumber:
				sheet.markNumeric(i, j)
			case excelize.CellTypeDate:
				if serial, ok := isoSerial(value, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"); ok {
					row[j] = serial
				}
				sheet.markNumeric(i, j)
			}
		}
	}

	return sheet, nil
}

// serialEpoch is day 0 of the 1900 date system.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// readXLS reads a legacy workbook. The xls reader renders date formatted
// cells as RFC 3339 text; those are turned back into serials and marked
// numeric. Plain number cells cannot be told apart from text and stay text.
func readXLS(data []byte) (Sheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return Sheet{}, errors.Wrap(err, "opening xls")
	}
	if wb.NumSheets() == 0 {
		return Sheet{}, ErrNoWorksheet
	}

	sheet := Sheet{Rows: wb.ReadAllCells(maxXLSRows)}
	for i, row := range sheet.Rows {
		for j, value := range row {
			if serial, ok := isoSerial(value, time.RFC3339); ok {
				row[j] = serial
				sheet.markNumeric(i, j)
			}
		}
	}

	return sheet, nil
}

// isoSerial converts a timestamp in one of layouts into a date serial.
func isoSerial(value string, layouts ...string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		days := t.Sub(serialEpoch).Hours() / 24
		return strconv.FormatFloat(days, 'f', -1, 64), true
	}
	return "", false
}

func readCSV(data []byte) (Sheet, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, errors.Wrap(err, "reading csv")
	}

	return Sheet{Rows: rows}, nil
}

// Records turns the sheet into Records using the first row as headings. Blank
// rows are skipped; cells beyond the heading row are ignored.
func Records(sheet Sheet) ([]Record, error) {
	rows := sheet.Rows
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headings := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headings[i] = NormalizeHeading(h)
	}

	var records []Record
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		rec := Record{Row: i + 2, Values: make(map[string]string, len(headings)), Numeric: map[string]bool{}}
		for j, key := range headings {
			if key == "" || j >= len(row) {
				continue
			}
			rec.Values[key] = strings.TrimSpace(row[j])
			if sheet.Numeric(i+1, j) {
				rec.Numeric[key] = true
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

// NormalizeHeading maps a heading cell to its field name, e.g.
// "National ID" to "national_id" and "Summer T-Shirt" to "summer_t_shirt".
func NormalizeHeading(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))

	var b strings.Builder
	underscore := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	return strings.TrimRight(b.String(), "_")
}

// SerialDate formats an Excel date serial ("45356") with layout. It reports
// false when cell is not a serial. Callers only pass cells the workbook
// stored as numbers, see Record.Numeric.
func SerialDate(cell, layout string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return "", false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}

	return t.Format(layout), true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
