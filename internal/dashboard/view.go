package dashboard

import (
	"encoding/json"

	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

// MetroFeature is one matched metro row produced for the national map.
// YoYPct is nil when no prior-year data exists; it marshals as JSON null,
// never as a zero change.
type MetroFeature struct {
	CityKey     string          `json:"city_key"`
	DisplayName string          `json:"display_name"`
	MetroName   string          `json:"metro_name"` // official CBSA label
	Geometry    json.RawMessage `json:"geometry"`   // GeoJSON MultiPolygon
	Value       float64         `json:"metric_value"`
	ZIPCount    int             `json:"zip_count"`
	Rank        int             `json:"rank"`
	RankTotal   int             `json:"rank_total"`
	Percentile  float64         `json:"percentile"`
	YoYPct      *float64        `json:"yoy_pct"`
}

// MetroView is the full metro-level table for one (year, metric) request.
type MetroView struct {
	Year      int            `json:"year"`
	Metric    metrics.Metric `json:"metric"`
	Features  []MetroFeature `json:"features"`
	MatchRate float64        `json:"match_rate"`
	Message   string         `json:"message,omitempty"` // empty-state text
}

// ZIPFeatureRow is one ZIP row within the selected metro.
type ZIPFeatureRow struct {
	ZIPCode    string          `json:"zip_code"`
	Geometry   json.RawMessage `json:"geometry"`
	Value      float64         `json:"metric_value"`
	Rank       int             `json:"rank"`
	RankTotal  int             `json:"rank_total"`
	Percentile float64         `json:"percentile"`
	YoYPct     *float64        `json:"yoy_pct"`
}

// MetroSummary is the headline panel for one metro.
type MetroSummary struct {
	ZIPCount int      `json:"zip_count"`
	Avg      float64  `json:"avg"`
	Max      float64  `json:"max"`
	Min      float64  `json:"min"`
	YoYPct   *float64 `json:"yoy_pct"`
}

// ZIPView is the ZIP-level table for one selected metro.
type ZIPView struct {
	CityKey  string          `json:"city_key"`
	Year     int             `json:"year"`
	Metric   metrics.Metric  `json:"metric"`
	Features []ZIPFeatureRow `json:"features"`
	Summary  *MetroSummary   `json:"summary,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// TrendPoint is one year's average metric value for an entity.
type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// TrendSeries is the year-ordered metric history for one metro or ZIP.
type TrendSeries struct {
	CityKey string         `json:"city_key"`
	ZIPCode string         `json:"zip_code,omitempty"`
	Metric  metrics.Metric `json:"metric"`
	Points  []TrendPoint   `json:"points"`
}

// ZIPDetail is the drill-down panel for one clicked ZIP.
type ZIPDetail struct {
	CityKey       string         `json:"city_key"`
	ZIPCode       string         `json:"zip_code"`
	Year          int            `json:"year"`
	Metric        metrics.Metric `json:"metric"`
	Value         float64        `json:"metric_value"`
	Rank          int            `json:"rank"`
	RankTotal     int            `json:"rank_total"`
	Percentile    float64        `json:"percentile"`
	VsMetroAvgPct float64        `json:"vs_metro_avg_pct"`
	Band          string         `json:"affordability,omitempty"` // PTI only
	YoYPct        *float64       `json:"yoy_pct"`
}

// MetroChange is one metro's percent change between two compared years.
type MetroChange struct {
	CityKey string  `json:"city_key"`
	Pct     float64 `json:"pct"`
}

// YearComparison reports per-metro percent change between two named years
// (the dashboard's before/after table). Metros missing either year are
// omitted entirely, never shown as 0%.
type YearComparison struct {
	FromYear int            `json:"from_year"`
	ToYear   int            `json:"to_year"`
	Metric   metrics.Metric `json:"metric"`
	Changes  []MetroChange  `json:"changes"`
}

// NationalSummary is the headline panel over all matched metros.
type NationalSummary struct {
	Year       int            `json:"year"`
	Metric     metrics.Metric `json:"metric"`
	MetroCount int            `json:"metro_count"`
	Avg        float64        `json:"avg"`
	Max        float64        `json:"max"`
	MaxMetro   string         `json:"max_metro"`
	Min        float64        `json:"min"`
	MinMetro   string         `json:"min_metro"`
	AvgYoYPct  *float64       `json:"avg_yoy_pct"`
	MatchRate  float64        `json:"match_rate"`
	YearMin    int            `json:"year_min"`
	YearMax    int            `json:"year_max"`
}
