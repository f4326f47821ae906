package match

import (
	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

// ZIPFeature is one ZIP-level metric row joined to its ZCTA polygon, with
// rankings computed within the metro.
type ZIPFeature struct {
	metrics.ZIPMetric
	Boundary boundary.Polygon
	Ranking  metrics.Ranking
}

// FilterZIPs selects the ZIP metric rows belonging to one metro and
// inner-joins them against the ZCTA boundary set: ZIPs with metrics but no
// boundary are excluded. The second return is the number of metric rows for
// the metro before the join, letting callers distinguish an unknown metro
// (zero rows) from one whose ZIPs simply lack boundaries or current-year
// data. Empty results are values, not errors.
func FilterZIPs(cityKey string, zipMetrics []metrics.ZIPMetric, zcta *boundary.Set) ([]ZIPFeature, int) {
	var features []ZIPFeature
	var metricRows int
	for _, z := range zipMetrics {
		if z.CityKey != cityKey {
			continue
		}
		metricRows++
		polygon, ok := zcta.ByKey(z.ZIPCode)
		if !ok {
			continue
		}
		features = append(features, ZIPFeature{ZIPMetric: z, Boundary: polygon})
	}

	values := make([]float64, len(features))
	for i, f := range features {
		values[i] = f.Value
	}
	for i, rank := range metrics.ComputeRankings(values) {
		features[i].Ranking = rank
	}

	return features, metricRows
}
