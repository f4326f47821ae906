package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/urbanmetrics/housing-atlas/internal/export"
	"github.com/urbanmetrics/housing-atlas/internal/housing"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

var (
	exportCity   string
	exportYear   int
	exportMetric string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a metro's ZIP table to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportCity == "" {
			return eris.New("--city is required")
		}

		svc, err := initService(cmd.Context())
		if err != nil {
			return err
		}

		metric, err := metrics.ParseMetric(exportMetric)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		year := defaultYear(svc, exportYear)

		view, err := svc.ZIPView(cmd.Context(), housing.CityKeyOf(exportCity), year, metric)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = export.Filename(view, format)
		}
		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "create %s", out)
		}
		defer f.Close() //nolint:errcheck

		if err := export.Write(f, format, view); err != nil {
			return err
		}
		fmt.Printf("wrote %d rows to %s\n", len(view.Features), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportCity, "city", "", "metro city name (required)")
	exportCmd.Flags().IntVar(&exportYear, "year", 0, "data year (default latest)")
	exportCmd.Flags().StringVar(&exportMetric, "metric", "", "metric: price or pti (default price)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "csv or xlsx (default csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default derived)")
	rootCmd.AddCommand(exportCmd)
}
