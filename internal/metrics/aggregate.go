package metrics

import (
	"sort"

	"github.com/urbanmetrics/housing-atlas/internal/housing"
)

// ZIPMetric is the per-ZIP aggregation of one metric within a year.
type ZIPMetric struct {
	CityKey  string
	City     string
	CityFull string
	ZIPCode  string
	Year     int
	Value    float64
	Lat      *float64
	Lon      *float64
}

// CityMetric is the per-metro aggregation of ZIP-level metric values.
type CityMetric struct {
	CityKey  string
	City     string
	CityFull string
	ZIPCount int
	Value    float64
	Lat      *float64
	Lon      *float64
}

// AggregateZIP groups single-year housing records per (city, zip), averaging
// the selected metric and coordinates. Records without a defined metric
// value are excluded before grouping, so every output row carries a value.
// Output order is deterministic (city key, then zip).
func AggregateZIP(rows []housing.Record, metric Metric) []ZIPMetric {
	type acc struct {
		row            ZIPMetric
		sum            float64
		n              int
		latSum, lonSum float64
		latN, lonN     int
	}

	groups := make(map[[2]string]*acc)
	observe := func(r housing.Record, value float64) {
		key := [2]string{r.CityKey, r.ZIPCode}
		a, ok := groups[key]
		if !ok {
			a = &acc{row: ZIPMetric{
				CityKey:  r.CityKey,
				City:     r.City,
				CityFull: r.CityFull,
				ZIPCode:  r.ZIPCode,
				Year:     r.Year,
			}}
			groups[key] = a
		}
		a.sum += value
		a.n++
		if r.Lat != nil {
			a.latSum += *r.Lat
			a.latN++
		}
		if r.Lon != nil {
			a.lonSum += *r.Lon
			a.lonN++
		}
	}

	if metric == MetricPTI {
		for _, r := range ComputePTI(rows) {
			observe(r.Record, r.PTI)
		}
	} else {
		for _, r := range rows {
			if r.SalePrice == nil {
				continue
			}
			observe(r, *r.SalePrice)
		}
	}

	out := make([]ZIPMetric, 0, len(groups))
	for _, a := range groups {
		a.row.Value = a.sum / float64(a.n)
		if a.latN > 0 {
			lat := a.latSum / float64(a.latN)
			a.row.Lat = &lat
		}
		if a.lonN > 0 {
			lon := a.lonSum / float64(a.lonN)
			a.row.Lon = &lon
		}
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CityKey != out[j].CityKey {
			return out[i].CityKey < out[j].CityKey
		}
		return out[i].ZIPCode < out[j].ZIPCode
	})
	return out
}

// AggregateCity rolls ZIP-level metric rows up to one row per metro,
// averaging the ZIP values and coordinates. Output order is deterministic
// (city key ascending).
func AggregateCity(zips []ZIPMetric) []CityMetric {
	type acc struct {
		row            CityMetric
		sum            float64
		latSum, lonSum float64
		latN, lonN     int
	}

	groups := make(map[string]*acc)
	for _, z := range zips {
		a, ok := groups[z.CityKey]
		if !ok {
			a = &acc{row: CityMetric{
				CityKey:  z.CityKey,
				City:     z.City,
				CityFull: z.CityFull,
			}}
			groups[z.CityKey] = a
		}
		a.sum += z.Value
		a.row.ZIPCount++
		if z.Lat != nil {
			a.latSum += *z.Lat
			a.latN++
		}
		if z.Lon != nil {
			a.lonSum += *z.Lon
			a.lonN++
		}
	}

	out := make([]CityMetric, 0, len(groups))
	for _, a := range groups {
		a.row.Value = a.sum / float64(a.row.ZIPCount)
		if a.latN > 0 {
			lat := a.latSum / float64(a.latN)
			a.row.Lat = &lat
		}
		if a.lonN > 0 {
			lon := a.lonSum / float64(a.lonN)
			a.row.Lon = &lon
		}
		out = append(out, a.row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CityKey < out[j].CityKey })
	return out
}

// GroupValues extracts valid metric observations across all years, keyed by
// keyFn, for year-over-year and trend computation. PTI validity filtering
// matches ComputePTI; for price, rows without a sale price are dropped.
func GroupValues(rows []housing.Record, metric Metric, keyFn func(housing.Record) string) []GroupValue {
	var out []GroupValue
	if metric == MetricPTI {
		for _, r := range ComputePTI(rows) {
			out = append(out, GroupValue{Key: keyFn(r.Record), Year: r.Year, Value: r.PTI})
		}
		return out
	}
	for _, r := range rows {
		if r.SalePrice == nil {
			continue
		}
		out = append(out, GroupValue{Key: keyFn(r), Year: r.Year, Value: *r.SalePrice})
	}
	return out
}
