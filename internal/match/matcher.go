package match

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

// MatchedMetro joins one aggregated metro row to exactly one boundary
// polygon. DisplayName is the dataset's own label; Boundary carries the
// official name and geometry.
type MatchedMetro struct {
	CityKey     string
	City        string
	DisplayName string // city_full label shown to users
	Value       float64
	ZIPCount    int
	Boundary    boundary.Polygon
	Ranking     metrics.Ranking
}

// Result is the output of a full matching pass. Unmatched rows are dropped
// from Matched but stay countable for diagnostics.
type Result struct {
	Matched []MatchedMetro
	Total   int
}

// MatchRate reports the fraction of input rows that resolved to a polygon.
func (r Result) MatchRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(len(r.Matched)) / float64(r.Total)
}

// Matcher resolves metro rows against a fixed CBSA boundary set. Matching
// runs an ordered chain of stages; the first stage producing candidates
// wins and no further stages are attempted.
type Matcher struct {
	cbsa       *boundary.Set
	lowerNames []string
	upperNames []string
}

// NewMatcher precomputes normalized boundary names for the stage predicates.
func NewMatcher(cbsa *boundary.Set) *Matcher {
	m := &Matcher{
		cbsa:       cbsa,
		lowerNames: make([]string, cbsa.Len()),
		upperNames: make([]string, cbsa.Len()),
	}
	for i, p := range cbsa.Polygons {
		m.lowerNames[i] = strings.ToLower(p.Name)
		m.upperNames[i] = strings.ToUpper(p.Name)
	}
	return m
}

// MatchAll resolves every aggregated metro row, attaches rankings computed
// over the matched set, and reports the match rate. Rows that no stage can
// resolve are dropped, never errored.
func (m *Matcher) MatchAll(rows []metrics.CityMetric) Result {
	res := Result{Total: len(rows)}
	for _, row := range rows {
		matched, ok := m.MatchRow(row)
		if !ok {
			continue
		}
		res.Matched = append(res.Matched, matched)
	}

	values := make([]float64, len(res.Matched))
	for i, mm := range res.Matched {
		values[i] = mm.Value
	}
	for i, rank := range metrics.ComputeRankings(values) {
		res.Matched[i].Ranking = rank
	}

	zap.L().Info("match: metro matching pass complete",
		zap.Int("rows", res.Total),
		zap.Int("matched", len(res.Matched)),
		zap.Float64("match_rate", res.MatchRate()),
	)
	return res
}

// MatchRow runs the stage chain for a single metro row.
func (m *Matcher) MatchRow(row metrics.CityMetric) (MatchedMetro, bool) {
	cityFull := strings.TrimSpace(row.CityFull)
	if cityFull == "" {
		return MatchedMetro{}, false
	}

	candidates := m.stageManual(row.City, cityFull)
	if len(candidates) == 0 {
		candidates = m.stageExact(cityFull)
	}
	if len(candidates) == 0 {
		candidates = m.stageContains(cityFull)
	}
	if len(candidates) == 0 {
		candidates = m.stageTokens(row.City, cityFull)
	}
	if len(candidates) == 0 {
		return MatchedMetro{}, false
	}

	best := m.tieBreak(candidates, row.Lat, row.Lon)
	return MatchedMetro{
		CityKey:     row.CityKey,
		City:        row.City,
		DisplayName: cityFull,
		Value:       row.Value,
		ZIPCount:    row.ZIPCount,
		Boundary:    m.cbsa.Polygons[best],
	}, true
}

// stageManual resolves known special-case metros by their official CBSA
// name. It only wins when the named boundary actually exists; otherwise
// the chain continues.
func (m *Matcher) stageManual(city, cityFull string) []int {
	name, ok := ResolveManualName(city, cityFull)
	if !ok {
		return nil
	}
	for i, p := range m.cbsa.Polygons {
		if p.Name == name {
			return []int{i}
		}
	}
	return nil
}

// stageExact matches boundaries whose normalized name equals the full
// city label.
func (m *Matcher) stageExact(cityFull string) []int {
	target := strings.ToLower(cityFull)
	var out []int
	for i, name := range m.lowerNames {
		if name == target {
			out = append(out, i)
		}
	}
	return out
}

// stageContains matches boundaries whose normalized name contains the full
// city label as a substring.
func (m *Matcher) stageContains(cityFull string) []int {
	target := strings.ToLower(cityFull)
	var out []int
	for i, name := range m.lowerNames {
		if strings.Contains(name, target) {
			out = append(out, i)
		}
	}
	return out
}

// stageTokens matches on hyphen-split tokens of the base city name. When a
// state code was parsed from the label, candidates are restricted to
// boundary names containing it; an empty restriction falls back to the
// unrestricted token matches.
func (m *Matcher) stageTokens(city, cityFull string) []int {
	base, state := ParseCityState(city, cityFull)
	tokens := CityTokens(base)
	if len(tokens) == 0 {
		return nil
	}

	var byToken []int
	for i, name := range m.lowerNames {
		for _, tok := range tokens {
			if strings.Contains(name, tok) {
				byToken = append(byToken, i)
				break
			}
		}
	}
	if len(byToken) == 0 || state == "" {
		return byToken
	}

	var byState []int
	for _, i := range byToken {
		if strings.Contains(m.upperNames[i], state) {
			byState = append(byState, i)
		}
	}
	if len(byState) > 0 {
		return byState
	}
	return byToken
}

// tieBreak selects one candidate. With a valid coordinate the nearest
// centroid (squared distance in degree space) wins; without one the
// candidates are ordered by boundary name so repeated runs stay
// reproducible regardless of upstream row order.
func (m *Matcher) tieBreak(candidates []int, lat, lon *float64) int {
	if len(candidates) == 1 {
		return candidates[0]
	}

	if lat != nil && lon != nil && !math.IsNaN(*lat) && !math.IsNaN(*lon) {
		best := candidates[0]
		bestDist := math.Inf(1)
		for _, i := range candidates {
			p := m.cbsa.Polygons[i]
			dLat := p.CentroidLat - *lat
			dLon := p.CentroidLon - *lon
			dist := dLat*dLat + dLon*dLon
			if dist < bestDist {
				bestDist = dist
				best = i
			}
		}
		return best
	}

	best := candidates[0]
	for _, i := range candidates[1:] {
		if m.cbsa.Polygons[i].Name < m.cbsa.Polygons[best].Name {
			best = i
		}
	}
	return best
}
