// Package export renders the ZIP-level table of one metro as a flat
// downloadable file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/urbanmetrics/housing-atlas/internal/dashboard"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat validates a format name from a request. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", eris.Errorf("export: unknown format %q (want csv or xlsx)", s)
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename builds a download name for one exported view.
func Filename(view *dashboard.ZIPView, format Format) string {
	return fmt.Sprintf("%s_%d_%s.%s", view.CityKey, view.Year, view.Metric, format)
}

var header = []string{
	"zip_code", "city", "year", "metric", "metric_value",
	"rank", "rank_total", "percentile", "yoy_pct",
}

// flatten renders the view's features as string rows under header. An
// undefined year-over-year value stays an empty cell, never a zero.
func flatten(view *dashboard.ZIPView) [][]string {
	rows := make([][]string, 0, len(view.Features))
	for _, f := range view.Features {
		yoy := ""
		if f.YoYPct != nil {
			yoy = strconv.FormatFloat(*f.YoYPct, 'f', 1, 64)
		}
		rows = append(rows, []string{
			f.ZIPCode,
			view.CityKey,
			strconv.Itoa(view.Year),
			string(view.Metric),
			strconv.FormatFloat(f.Value, 'f', -1, 64),
			strconv.Itoa(f.Rank),
			strconv.Itoa(f.RankTotal),
			strconv.FormatFloat(f.Percentile, 'f', 1, 64),
			yoy,
		})
	}
	return rows
}

// Write renders the view in the requested format.
func Write(w io.Writer, format Format, view *dashboard.ZIPView) error {
	if format == FormatXLSX {
		return writeXLSX(w, view)
	}
	return writeCSV(w, view)
}

func writeCSV(w io.Writer, view *dashboard.ZIPView) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, row := range flatten(view) {
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}

func writeXLSX(w io.Writer, view *dashboard.ZIPView) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("zips")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range header {
		headerRow.AddCell().Value = h
	}
	for _, row := range flatten(view) {
		r := sheet.AddRow()
		for _, cell := range row {
			r.AddCell().Value = cell
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}
