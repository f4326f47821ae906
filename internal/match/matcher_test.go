package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmetrics/housing-atlas/internal/boundary"
	"github.com/urbanmetrics/housing-atlas/internal/metrics"
)

func boundarySet(names ...string) *boundary.Set {
	polygons := make([]boundary.Polygon, len(names))
	for i, name := range names {
		polygons[i] = boundary.Polygon{Name: name, Key: name}
	}
	return boundary.NewSet(polygons)
}

func cityRow(city, cityFull string, value float64) metrics.CityMetric {
	return metrics.CityMetric{
		CityKey:  city,
		City:     city,
		CityFull: cityFull,
		Value:    value,
	}
}

func TestMatchRow_ExactBeatsSubstring(t *testing.T) {
	// Both an exact-name and a substring candidate exist; the exact
	// stage must win before containment is ever tried.
	m := NewMatcher(boundarySet(
		"Portland-Vancouver-Hillsboro, OR-WA",
		"Portland, OR",
	))

	got, ok := m.MatchRow(cityRow("portland", "Portland, OR", 1))
	require.True(t, ok)
	assert.Equal(t, "Portland, OR", got.Boundary.Name)
}

func TestMatchRow_SubstringWhenNoExact(t *testing.T) {
	m := NewMatcher(boundarySet(
		"Portland-Vancouver-Hillsboro, OR-WA",
		"Salem, OR",
	))

	got, ok := m.MatchRow(cityRow("portland", "Portland", 1))
	require.True(t, ok)
	assert.Equal(t, "Portland-Vancouver-Hillsboro, OR-WA", got.Boundary.Name)
}

func TestMatchRow_TokenStateFilter(t *testing.T) {
	// "Seattle, WA" has no exact or substring match; tokenized matching
	// finds both Seattle boundaries and the WA state filter keeps one.
	m := NewMatcher(boundarySet(
		"Seattle-Tacoma-Bellevue, WA",
		"Seattle, OR",
	))

	got, ok := m.MatchRow(cityRow("seattle", "Seattle, WA", 1))
	require.True(t, ok)
	assert.Equal(t, "Seattle-Tacoma-Bellevue, WA", got.Boundary.Name)
}

func TestMatchRow_StateFilterFallsBackWhenEmpty(t *testing.T) {
	// Token matches exist but none carry the parsed state; the
	// unrestricted token set is used instead of dropping the row.
	m := NewMatcher(boundarySet("Seattle-Tacoma-Bellevue, WA"))

	got, ok := m.MatchRow(cityRow("seattle", "Seattle, XX", 1))
	require.True(t, ok)
	assert.Equal(t, "Seattle-Tacoma-Bellevue, WA", got.Boundary.Name)
}

func TestMatchRow_ManualOverrideBypassesStringMatching(t *testing.T) {
	// A literal substring match exists ("Washington, DC" inside the
	// second name), but the manual override resolves first.
	m := NewMatcher(boundarySet(
		"Washington-Arlington-Alexandria, DC-VA-MD-WV",
		"Fort Washington, DC Heights",
	))

	got, ok := m.MatchRow(cityRow("washington", "Washington, DC", 1))
	require.True(t, ok)
	assert.Equal(t, "Washington-Arlington-Alexandria, DC-VA-MD-WV", got.Boundary.Name)
}

func TestMatchRow_ManualOverrideMissingBoundaryFallsThrough(t *testing.T) {
	m := NewMatcher(boundarySet("Washington, DC"))

	got, ok := m.MatchRow(cityRow("washington", "Washington, DC", 1))
	require.True(t, ok)
	assert.Equal(t, "Washington, DC", got.Boundary.Name)
}

func TestMatchRow_TokenizedCompoundName(t *testing.T) {
	m := NewMatcher(boundarySet("Dallas-Fort Worth-Arlington, TX"))

	got, ok := m.MatchRow(cityRow("fort worth", "Fort Worth, TX", 1))
	require.True(t, ok)
	assert.Equal(t, "Dallas-Fort Worth-Arlington, TX", got.Boundary.Name)
}

func TestMatchRow_NearestCentroidTieBreak(t *testing.T) {
	polygons := []boundary.Polygon{
		{Name: "Springfield, MO", Key: "springfield, mo", CentroidLat: 37.2, CentroidLon: -93.3},
		{Name: "Springfield, MA", Key: "springfield, ma", CentroidLat: 42.1, CentroidLon: -72.6},
		{Name: "Springfield, IL", Key: "springfield, il", CentroidLat: 39.8, CentroidLon: -89.6},
	}
	m := NewMatcher(boundary.NewSet(polygons))

	row := cityRow("springfield", "Springfield", 1)
	lat, lon := 42.0, -72.5 // near the Massachusetts centroid
	row.Lat, row.Lon = &lat, &lon

	got, ok := m.MatchRow(row)
	require.True(t, ok)
	assert.Equal(t, "Springfield, MA", got.Boundary.Name)
}

func TestMatchRow_NoCoordinateTieBreakByName(t *testing.T) {
	// Without a coordinate the candidate with the lexicographically
	// smallest boundary name wins, independent of set order.
	m := NewMatcher(boundarySet("Springfield, MO", "Springfield, IL"))

	got, ok := m.MatchRow(cityRow("springfield", "Springfield", 1))
	require.True(t, ok)
	assert.Equal(t, "Springfield, IL", got.Boundary.Name)
}

func TestMatchRow_Deterministic(t *testing.T) {
	m := NewMatcher(boundarySet(
		"Kansas City, MO-KS",
		"Kansas City, KS",
	))
	row := cityRow("kansas city", "Kansas City", 1)

	first, ok := m.MatchRow(row)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := m.MatchRow(row)
		require.True(t, ok)
		assert.Equal(t, first.Boundary.Name, again.Boundary.Name)
	}
}

func TestMatchRow_NoCandidates(t *testing.T) {
	m := NewMatcher(boundarySet("Tulsa, OK"))

	_, ok := m.MatchRow(cityRow("anchorage", "Anchorage, AK", 1))
	assert.False(t, ok)

	_, ok = m.MatchRow(cityRow("", "", 1))
	assert.False(t, ok)
}

func TestMatchAll_RankingsAndMatchRate(t *testing.T) {
	m := NewMatcher(boundarySet("Seattle-Tacoma-Bellevue, WA", "Tulsa, OK"))

	rows := []metrics.CityMetric{
		cityRow("seattle", "Seattle, WA", 800000),
		cityRow("tulsa", "Tulsa, OK", 250000),
		cityRow("nowhere", "Nowhereville, ZZ", 100000),
	}
	res := m.MatchAll(rows)

	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Matched, 2)
	assert.InDelta(t, 2.0/3.0, res.MatchRate(), 1e-9)

	// Rankings cover the matched set only.
	assert.Equal(t, 1, res.Matched[0].Ranking.Rank)
	assert.Equal(t, 2, res.Matched[0].Ranking.Total)
	assert.Equal(t, 2, res.Matched[1].Ranking.Rank)
}

func TestMatchAll_Empty(t *testing.T) {
	m := NewMatcher(boundarySet("Tulsa, OK"))
	res := m.MatchAll(nil)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Matched)
	assert.Zero(t, res.MatchRate())
}
