package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

var (
	matchYear   int
	matchMetric string
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Run one metro matching pass and report coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := initService(cmd.Context())
		if err != nil {
			return err
		}

		metric, err := metrics.ParseMetric(matchMetric)
		if err != nil {
			return err
		}
		year := defaultYear(svc, matchYear)

		view, err := svc.MetroView(cmd.Context(), year, metric)
		if err != nil {
			return err
		}

		fmt.Printf("year:       %d\n", year)
		fmt.Printf("metric:     %s\n", metric)
		fmt.Printf("matched:    %d metros\n", len(view.Features))
		fmt.Printf("match rate: %.1f%%\n", view.MatchRate*100)
		for _, f := range view.Features {
			fmt.Printf("  %-40s -> %s (rank %d/%d)\n",
				f.DisplayName, f.MetroName, f.Rank, f.RankTotal)
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().IntVar(&matchYear, "year", 0, "data year (default latest)")
	matchCmd.Flags().StringVar(&matchMetric, "metric", "", "metric: price or pti (default price)")
	rootCmd.AddCommand(matchCmd)
}
