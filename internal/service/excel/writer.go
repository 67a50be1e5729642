package excel

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ContentType is the media type of the workbooks produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Workbook renders headings and rows into a single sheet xlsx file.
func Workbook(sheet string, headings []string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, errors.Wrap(err, "naming sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating heading style")
	}

	if err := setRow(f, sheet, 1, headings); err != nil {
		return nil, err
	}
	if len(headings) > 0 {
		last, err := excelize.CoordinatesToCellName(len(headings), 1)
		if err != nil {
			return nil, errors.Wrap(err, "heading range")
		}
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, errors.Wrap(err, "styling headings")
		}
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}

	return buf.Bytes(), nil
}

// setRow writes cells as text so ids and phone numbers keep leading zeros.
func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	if len(cells) == 0 {
		return nil
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrapf(err, "row %d", row)
	}

	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "writing row %d", row)
	}

	return nil
}
