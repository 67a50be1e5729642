package excel_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"roster/backend/internal/service/excel"
)

func TestNormalizeHeading(t *testing.T) {
	tests := map[string]string{
		"National ID":    "national_id",
		" Hired On ":     "hired_on",
		"Summer T-Shirt": "summer_t_shirt",
		"3ohda":          "3ohda",
		"no3_el_mo5alfa": "no3_el_mo5alfa",
		"Notes 2":        "notes_2",
		"\ufeffname":     "name",
		"ＪＯＢ Location":   "job_location",
	}

	for in, want := range tests {
		assert.Equal(t, want, excel.NormalizeHeading(in), in)
	}
}

func TestSerialDate(t *testing.T) {
	got, ok := excel.SerialDate("45356", "02/01/2006")
	require.True(t, ok)
	assert.Equal(t, "05/03/2024", got)

	_, ok = excel.SerialDate("05/03/2024", "02/01/2006")
	assert.False(t, ok)
}

func TestWorkbookRoundTrip(t *testing.T) {
	data, err := excel.Workbook("Employees", []string{"Name", "Phone"}, [][]string{
		{"Ahmed Hassan", "01001234567"},
		{"Mona Adel", "01112223334"},
	})
	require.NoError(t, err)

	rows, err := excel.ReadRows(bytes.NewReader(data), "roster.xlsx")
	require.NoError(t, err)

	records, err := excel.Records(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[0].Row)
	assert.Equal(t, "01001234567", records[0].Values["phone"])
	assert.Equal(t, "Mona Adel", records[1].Values["name"])
}

func TestReadRowsKeepsDateSerials(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Hired On"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 45356))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := excel.ReadRows(&buf, "upload.XLSX")
	require.NoError(t, err)

	records, err := excel.Records(rows)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "45356", records[0].Values["hired_on"])
	assert.True(t, records[0].Numeric["hired_on"])
}

func TestReadRowsMarksOnlyNumericCells(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Hired On", "Age"}))
	require.NoError(t, f.SetCellStr("Sheet1", "A2", "45356"))
	require.NoError(t, f.SetCellInt("Sheet1", "B2", 34))
	require.NoError(t, f.SetCellValue("Sheet1", "A3", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := excel.ReadRows(&buf, "roster.xlsx")
	require.NoError(t, err)

	records, err := excel.Records(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.False(t, records[0].Numeric["hired_on"], "text cell")
	assert.True(t, records[0].Numeric["age"])
	assert.True(t, records[1].Numeric["hired_on"], "date cell")

	got, ok := excel.SerialDate(records[1].Values["hired_on"], "02/01/2006")
	require.True(t, ok)
	assert.Equal(t, "05/03/2024", got)
}

func TestReadRowsCSV(t *testing.T) {
	in := "name,National ID\nAhmed,298\n,\nMona,300\n"

	rows, err := excel.ReadRows(strings.NewReader(in), "roster.csv")
	require.NoError(t, err)

	records, err := excel.Records(rows)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "298", records[0].Values["national_id"])
	assert.Equal(t, 4, records[1].Row)
	assert.Empty(t, records[0].Numeric)
}

func TestReadRowsRejectsUnknownFormat(t *testing.T) {
	_, err := excel.ReadRows(strings.NewReader("x"), "roster.pdf")
	assert.ErrorIs(t, err, excel.ErrUnsupportedFormat)
}

func TestRecordsEmpty(t *testing.T) {
	_, err := excel.Records(excel.Sheet{})
	assert.ErrorIs(t, err, excel.ErrEmptySheet)
}
