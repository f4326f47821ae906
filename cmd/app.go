package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/dashboard"
	"github.com/urbanmetrics/housing-atlas/internal/housing"
)

// initService loads the housing dataset, attaches the boundary store, and
// wires the dashboard service every subcommand runs against. Boundary
// shapefiles are parsed eagerly so missing files fail at startup, not on
// the first request.
func initService(ctx context.Context) (*dashboard.Service, error) {
	dataset, err := housing.LoadCSV(cfg.Data.HousingCSV)
	if err != nil {
		return nil, err
	}

	boundaries := boundary.NewStore(cfg.Data)
	if err := boundaries.Load(ctx); err != nil {
		return nil, err
	}

	yearMin, yearMax := dataset.Years()
	zap.L().Info("atlas ready",
		zap.Int("records", len(dataset.Records)),
		zap.Int("year_min", yearMin),
		zap.Int("year_max", yearMax),
		zap.String("fingerprint", dataset.Fingerprint),
	)

	return dashboard.NewService(dataset, boundaries), nil
}

// defaultYear resolves a zero --year flag to the dataset's latest year.
func defaultYear(svc *dashboard.Service, year int) int {
	if year != 0 {
		return year
	}
	_, latest := svc.Dataset().Years()
	return latest
}
