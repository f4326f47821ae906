// Package metrics derives affordability metrics from housing records:
// price-to-income ratios, rankings, percentiles, and year-over-year change.
package metrics

import (
	"github.com/rotisserie/eris"

	"github.com/urbanmetrics/housing-atlas/internal/housing"
)

// Metric selects which value the dashboard maps.
type Metric string

const (
	MetricPrice Metric = "price"
	MetricPTI   Metric = "pti"
)

// ParseMetric validates a metric name from a request.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricPrice, MetricPTI:
		return Metric(s), nil
	case "":
		return MetricPrice, nil
	}
	return "", eris.Errorf("metrics: unknown metric %q (want price or pti)", s)
}

// PTI validity bounds. Incomes below the floor are placeholder values in the
// source data; ratios outside (0.5, 50] are implausible outliers.
const (
	minIncome = 5000.0
	minPTI    = 0.5
	maxPTI    = 50.0
)

// PTIRow is a housing record with a validated price-to-income ratio.
type PTIRow struct {
	housing.Record
	PTI float64
}

// ComputePTI filters to rows with a positive sale price and income at or
// above the floor, computes PTI = price / income, and discards implausible
// ratios. Excluded rows carry no PTI at all; callers must treat the value
// as undefined for them, never zero.
func ComputePTI(rows []housing.Record) []PTIRow {
	var out []PTIRow
	for _, r := range rows {
		if r.SalePrice == nil || r.Income == nil {
			continue
		}
		if *r.SalePrice <= 0 || *r.Income < minIncome {
			continue
		}
		pti := *r.SalePrice / *r.Income
		if pti < minPTI || pti > maxPTI {
			continue
		}
		out = append(out, PTIRow{Record: r, PTI: pti})
	}
	return out
}

// Affordability bands from the Demographia housing affordability scale.
const (
	BandAffordable             = "Affordable"
	BandModeratelyUnaffordable = "Moderately Unaffordable"
	BandSeriouslyUnaffordable  = "Seriously Unaffordable"
	BandSeverelyUnaffordable   = "Severely Unaffordable"
	BandImpossiblyUnaffordable = "Impossibly Unaffordable"
)

// AffordabilityBand classifies a price-to-income ratio.
func AffordabilityBand(pti float64) string {
	switch {
	case pti < 3.0:
		return BandAffordable
	case pti < 4.0:
		return BandModeratelyUnaffordable
	case pti < 5.0:
		return BandSeriouslyUnaffordable
	case pti < 9.0:
		return BandSeverelyUnaffordable
	default:
		return BandImpossiblyUnaffordable
	}
}
