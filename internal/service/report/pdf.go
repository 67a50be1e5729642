// Package report renders roster documents that are not spreadsheets.
package report

import (
	"bytes"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
)

const (
	PDFContentType = "application/pdf"
	PNGContentType = "image/png"
)

// Landscape A4 printable width with 10mm margins.
const tableWidth = 277.0

// TablePDF renders a titled table on landscape A4 pages. Columns share the
// page width evenly; the heading row is repeated on every page.
func TablePDF(title string, headings []string, rows [][]string) ([]byte, error) {
	if len(headings) == 0 {
		return nil, errors.New("table needs at least one column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	colWidth := tableWidth / float64(len(headings))

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range headings {
			pdf.CellFormat(colWidth, 7, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
		header()
	})
	pdf.AddPage()

	for _, row := range rows {
		for i := range headings {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, errors.Wrap(err, "rendering pdf")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "writing pdf")
	}

	return buf.Bytes(), nil
}
