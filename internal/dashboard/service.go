package dashboard

import (
	"context"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/housing"
	"github.com/urbanmetrics/housing-atlas/internal/match"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

// Lookup failures the HTTP layer maps to 404. Everything else is a real
// computation or load error.
var (
	ErrUnknownCity = eris.New("dashboard: unknown metro")
	ErrUnknownZIP  = eris.New("dashboard: unknown zip in metro")
)

// Service runs the recomputation pipeline behind every request: dataset to
// metric engine to matcher/filter. Boundary sets load once via the store;
// metro views are memoized per (dataset fingerprint, year, metric).
type Service struct {
	boundaries *boundary.Store
	cache      *viewCache

	mu      sync.RWMutex
	dataset *housing.Dataset
}

// NewService wires a loaded dataset to the boundary store.
func NewService(dataset *housing.Dataset, boundaries *boundary.Store) *Service {
	return &Service{
		boundaries: boundaries,
		cache:      newViewCache(),
		dataset:    dataset,
	}
}

// Dataset returns the current dataset snapshot.
func (s *Service) Dataset() *housing.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// ReplaceDataset swaps in a reloaded dataset and drops every cached view.
// The fingerprint in the cache key already prevents stale hits, but keeping
// dead entries around wastes memory.
func (s *Service) ReplaceDataset(dataset *housing.Dataset) {
	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()
	s.cache.invalidate()
	zap.L().Info("dashboard: dataset replaced",
		zap.String("fingerprint", dataset.Fingerprint),
		zap.Int("records", len(dataset.Records)),
	)
}

// MetroView computes (or returns the cached) national metro table for one
// (year, metric) pair. An empty year is an empty-state view, not an error.
func (s *Service) MetroView(ctx context.Context, year int, metric metrics.Metric) (*MetroView, error) {
	ds := s.Dataset()
	key := cacheKey{Fingerprint: ds.Fingerprint, Year: year, Metric: metric}
	if view, ok := s.cache.get(key); ok {
		return view, nil
	}

	cbsa, err := s.boundaries.CBSA(ctx)
	if err != nil {
		return nil, err
	}

	zipAgg := metrics.AggregateZIP(ds.ForYear(year), metric)
	cityAgg := metrics.AggregateCity(zipAgg)
	result := match.NewMatcher(cbsa).MatchAll(cityAgg)

	yoy := metrics.ComputeYoY(metrics.GroupValues(ds.Records, metric, func(r housing.Record) string {
		return r.CityKey
	}), year)

	view := &MetroView{Year: year, Metric: metric, MatchRate: result.MatchRate()}
	for _, mm := range result.Matched {
		geometry, err := geojson.Marshal(mm.Boundary.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "dashboard: encode geometry for %s", mm.Boundary.Name)
		}
		feature := MetroFeature{
			CityKey:     mm.CityKey,
			DisplayName: mm.DisplayName,
			MetroName:   mm.Boundary.Name,
			Geometry:    geometry,
			Value:       mm.Value,
			ZIPCount:    mm.ZIPCount,
			Rank:        mm.Ranking.Rank,
			RankTotal:   mm.Ranking.Total,
			Percentile:  mm.Ranking.Percentile,
			YoYPct:      yoyPct(yoy, mm.CityKey),
		}
		view.Features = append(view.Features, feature)
	}
	if len(view.Features) == 0 {
		view.Message = "no housing data for the selected year and metric"
	}

	s.cache.put(key, view)
	return view, nil
}

// ZIPView computes the ZIP-level table for one metro. A metro with zero
// current-year rows yields an empty view; a city key missing from the
// dataset entirely yields ErrUnknownCity.
func (s *Service) ZIPView(ctx context.Context, cityKey string, year int, metric metrics.Metric) (*ZIPView, error) {
	ds := s.Dataset()
	features, metricRows, err := s.zipFeatures(ctx, ds, cityKey, year, metric)
	if err != nil {
		return nil, err
	}

	view := &ZIPView{CityKey: cityKey, Year: year, Metric: metric}
	if len(features) == 0 {
		if metricRows == 0 {
			view.Message = "no data for this metro in the selected year"
		} else {
			view.Message = "no boundary polygons for this metro's ZIP codes"
		}
		return view, nil
	}

	zipYoY := metrics.ComputeYoY(cityGroupValues(ds, cityKey, metric, func(r housing.Record) string {
		return r.ZIPCode
	}), year)

	summary := &MetroSummary{ZIPCount: len(features)}
	var sum float64
	summary.Max = features[0].Value
	summary.Min = features[0].Value
	for _, f := range features {
		geometry, err := geojson.Marshal(f.Boundary.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "dashboard: encode geometry for zip %s", f.ZIPCode)
		}
		view.Features = append(view.Features, ZIPFeatureRow{
			ZIPCode:    f.ZIPCode,
			Geometry:   geometry,
			Value:      f.Value,
			Rank:       f.Ranking.Rank,
			RankTotal:  f.Ranking.Total,
			Percentile: f.Ranking.Percentile,
			YoYPct:     yoyPct(zipYoY, f.ZIPCode),
		})
		sum += f.Value
		if f.Value > summary.Max {
			summary.Max = f.Value
		}
		if f.Value < summary.Min {
			summary.Min = f.Value
		}
	}
	summary.Avg = sum / float64(len(features))

	metroYoY := metrics.ComputeYoY(cityGroupValues(ds, cityKey, metric, func(r housing.Record) string {
		return r.CityKey
	}), year)
	summary.YoYPct = yoyPct(metroYoY, cityKey)
	view.Summary = summary

	return view, nil
}

// ZIPFeatures exposes the joined ZIP rows for click decoding and export.
func (s *Service) ZIPFeatures(ctx context.Context, cityKey string, year int, metric metrics.Metric) ([]match.ZIPFeature, error) {
	features, _, err := s.zipFeatures(ctx, s.Dataset(), cityKey, year, metric)
	return features, err
}

// ZIPDetail builds the drill-down panel for one clicked ZIP: its value
// against the metro average, rank, affordability band (PTI only), and
// year-over-year change ("no prior year" surfaces as a nil pct).
func (s *Service) ZIPDetail(ctx context.Context, cityKey, zipCode string, year int, metric metrics.Metric) (*ZIPDetail, error) {
	ds := s.Dataset()
	features, _, err := s.zipFeatures(ctx, ds, cityKey, year, metric)
	if err != nil {
		return nil, err
	}

	var selected *match.ZIPFeature
	var sum float64
	for i, f := range features {
		sum += f.Value
		if f.ZIPCode == zipCode {
			selected = &features[i]
		}
	}
	if selected == nil {
		return nil, eris.Wrapf(ErrUnknownZIP, "zip %s in metro %s for %d", zipCode, cityKey, year)
	}

	detail := &ZIPDetail{
		CityKey:    cityKey,
		ZIPCode:    zipCode,
		Year:       year,
		Metric:     metric,
		Value:      selected.Value,
		Rank:       selected.Ranking.Rank,
		RankTotal:  selected.Ranking.Total,
		Percentile: selected.Ranking.Percentile,
	}

	metroAvg := sum / float64(len(features))
	if pct, ok := metrics.PercentChange(selected.Value, metroAvg); ok {
		detail.VsMetroAvgPct = pct
	}
	if metric == metrics.MetricPTI {
		detail.Band = metrics.AffordabilityBand(selected.Value)
	}

	zipYoY := metrics.ComputeYoY(cityGroupValues(ds, cityKey, metric, func(r housing.Record) string {
		return r.ZIPCode
	}), year)
	detail.YoYPct = yoyPct(zipYoY, zipCode)

	return detail, nil
}

// Trend returns the year-ordered average metric value for a metro, or for
// one ZIP within it when zipCode is non-empty.
func (s *Service) Trend(ctx context.Context, cityKey, zipCode string, metric metrics.Metric) (*TrendSeries, error) {
	ds := s.Dataset()
	if !knownCity(ds, cityKey) {
		return nil, eris.Wrapf(ErrUnknownCity, "metro %q", cityKey)
	}

	var rows []housing.Record
	for _, r := range ds.Records {
		if r.CityKey != cityKey {
			continue
		}
		if zipCode != "" && r.ZIPCode != zipCode {
			continue
		}
		rows = append(rows, r)
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, gv := range metrics.GroupValues(rows, metric, func(housing.Record) string { return cityKey }) {
		sums[gv.Year] += gv.Value
		counts[gv.Year]++
	}

	series := &TrendSeries{CityKey: cityKey, ZIPCode: zipCode, Metric: metric}
	for year := range sums {
		series.Points = append(series.Points, TrendPoint{Year: year, Value: sums[year] / float64(counts[year])})
	}
	sort.Slice(series.Points, func(i, j int) bool { return series.Points[i].Year < series.Points[j].Year })
	return series, nil
}

// Summary computes the national headline figures from the metro view.
func (s *Service) Summary(ctx context.Context, year int, metric metrics.Metric) (*NationalSummary, error) {
	view, err := s.MetroView(ctx, year, metric)
	if err != nil {
		return nil, err
	}

	ds := s.Dataset()
	yearMin, yearMax := ds.Years()
	summary := &NationalSummary{
		Year:       year,
		Metric:     metric,
		MetroCount: len(view.Features),
		MatchRate:  view.MatchRate,
		YearMin:    yearMin,
		YearMax:    yearMax,
	}
	if len(view.Features) == 0 {
		return summary, nil
	}

	var sum, yoySum float64
	var yoyN int
	summary.Max = view.Features[0].Value
	summary.MaxMetro = view.Features[0].DisplayName
	summary.Min = view.Features[0].Value
	summary.MinMetro = view.Features[0].DisplayName
	for _, f := range view.Features {
		sum += f.Value
		if f.Value > summary.Max {
			summary.Max = f.Value
			summary.MaxMetro = f.DisplayName
		}
		if f.Value < summary.Min {
			summary.Min = f.Value
			summary.MinMetro = f.DisplayName
		}
		if f.YoYPct != nil {
			yoySum += *f.YoYPct
			yoyN++
		}
	}
	summary.Avg = sum / float64(len(view.Features))
	if yoyN > 0 {
		avg := yoySum / float64(yoyN)
		summary.AvgYoYPct = &avg
	}
	return summary, nil
}

// CompareYears computes the per-metro percent change between two years,
// sorted by city key for stable output.
func (s *Service) CompareYears(fromYear, toYear int, metric metrics.Metric) *YearComparison {
	ds := s.Dataset()
	changes := metrics.CompareYears(metrics.GroupValues(ds.Records, metric, func(r housing.Record) string {
		return r.CityKey
	}), fromYear, toYear)

	cmp := &YearComparison{FromYear: fromYear, ToYear: toYear, Metric: metric}
	for key, pct := range changes {
		cmp.Changes = append(cmp.Changes, MetroChange{CityKey: key, Pct: pct})
	}
	sort.Slice(cmp.Changes, func(i, j int) bool { return cmp.Changes[i].CityKey < cmp.Changes[j].CityKey })
	return cmp
}

// zipFeatures runs the ZIP filter for one metro and year, erroring only
// when the city key never appears in the dataset.
func (s *Service) zipFeatures(ctx context.Context, ds *housing.Dataset, cityKey string, year int, metric metrics.Metric) ([]match.ZIPFeature, int, error) {
	zcta, err := s.boundaries.ZCTA(ctx)
	if err != nil {
		return nil, 0, err
	}

	zipAgg := metrics.AggregateZIP(ds.ForYear(year), metric)
	features, metricRows := match.FilterZIPs(cityKey, zipAgg, zcta)
	if metricRows == 0 && !knownCity(ds, cityKey) {
		return nil, 0, eris.Wrapf(ErrUnknownCity, "metro %q", cityKey)
	}
	return features, metricRows, nil
}

// cityGroupValues extracts metric observations for one metro across all
// years, keyed by keyFn.
func cityGroupValues(ds *housing.Dataset, cityKey string, metric metrics.Metric, keyFn func(housing.Record) string) []metrics.GroupValue {
	var rows []housing.Record
	for _, r := range ds.Records {
		if r.CityKey == cityKey {
			rows = append(rows, r)
		}
	}
	return metrics.GroupValues(rows, metric, keyFn)
}

// yoyPct extracts a group's year-over-year percentage, nil when undefined.
func yoyPct(yoy map[string]metrics.YoY, key string) *float64 {
	if y, ok := yoy[key]; ok && y.Defined {
		pct := y.Pct
		return &pct
	}
	return nil
}

// knownCity reports whether the city key appears anywhere in the dataset.
func knownCity(ds *housing.Dataset, cityKey string) bool {
	for _, r := range ds.Records {
		if r.CityKey == cityKey {
			return true
		}
	}
	return false
}
