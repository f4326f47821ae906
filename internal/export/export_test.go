package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbanmetrics/housing-atlas/internal/dashboard"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

func testView() *dashboard.ZIPView {
	yoy := 12.5
	return &dashboard.ZIPView{
		CityKey: "seattle",
		Year:    2023,
		Metric:  metrics.MetricPrice,
		Features: []dashboard.ZIPFeatureRow{
			{ZIPCode: "98101", Value: 800000, Rank: 1, RankTotal: 2, Percentile: 100, YoYPct: &yoy},
			{ZIPCode: "98102", Value: 600000, Rank: 2, RankTotal: 2, Percentile: 50},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, testView()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, header, records[0])
	assert.Equal(t,
		[]string{"98101", "seattle", "2023", "price", "800000", "1", "2", "100.0", "12.5"},
		records[1],
	)
	// Undefined YoY exports as an empty cell, not "0.0".
	assert.Equal(t, "", records[2][8])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, testView()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "zip_code", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "98101", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "800000", sheet.Rows[1].Cells[4].String())
	assert.Equal(t, "98102", sheet.Rows[2].Cells[0].String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "seattle_2023_price.csv", Filename(testView(), FormatCSV))
	assert.Equal(t, "seattle_2023_price.xlsx", Filename(testView(), FormatXLSX))
}
