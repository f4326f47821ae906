package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/housing"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report dataset and boundary inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataset, err := housing.LoadCSV(cfg.Data.HousingCSV)
		if err != nil {
			return err
		}
		yearMin, yearMax := dataset.Years()

		cities := make(map[string]struct{})
		zips := make(map[string]struct{})
		for _, r := range dataset.Records {
			cities[r.CityKey] = struct{}{}
			zips[r.ZIPCode] = struct{}{}
		}

		fmt.Printf("housing dataset: %s\n", dataset.Path)
		fmt.Printf("  records:     %d\n", len(dataset.Records))
		fmt.Printf("  metros:      %d\n", len(cities))
		fmt.Printf("  zip codes:   %d\n", len(zips))
		fmt.Printf("  years:       %d-%d\n", yearMin, yearMax)
		fmt.Printf("  fingerprint: %s\n", dataset.Fingerprint)

		boundaries := boundary.NewStore(cfg.Data)
		if err := boundaries.Load(cmd.Context()); err != nil {
			return err
		}
		cbsa, err := boundaries.CBSA(cmd.Context())
		if err != nil {
			return err
		}
		zcta, err := boundaries.ZCTA(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("boundaries:\n")
		fmt.Printf("  CBSA polygons: %d\n", cbsa.Len())
		fmt.Printf("  ZCTA polygons: %d\n", zcta.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
