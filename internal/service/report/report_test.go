package report_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/backend/internal/service/report"
)

func TestTablePDF(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"Ahmed Hassan", "29801011234567", "Gate 3"})
	}

	data, err := report.TablePDF("All Employees", []string{"Name", "National Id", "Job Location"}, rows)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestTablePDFNeedsColumns(t *testing.T) {
	_, err := report.TablePDF("All Employees", nil, nil)
	assert.Error(t, err)
}

func TestQRCode(t *testing.T) {
	data, err := report.QRCode("https://www.google.com/maps/search/?api=1&query=30.0444,31.2357", 256)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}
