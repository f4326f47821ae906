package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmetrics/housing-atlas/internal/housing"
)

func TestAggregateZIP_Price(t *testing.T) {
	rows := []housing.Record{
		rec("Seattle", "98101", 2023, fp(700000), fp(52000)),
		rec("Seattle", "98101", 2023, fp(900000), fp(52000)),
		rec("Seattle", "98102", 2023, fp(500000), fp(52000)),
		rec("Seattle", "98103", 2023, nil, fp(52000)), // no price: dropped
	}
	out := AggregateZIP(rows, MetricPrice)
	require.Len(t, out, 2)

	assert.Equal(t, "98101", out[0].ZIPCode)
	assert.Equal(t, 800000.0, out[0].Value)
	assert.Equal(t, "98102", out[1].ZIPCode)
	assert.Equal(t, 500000.0, out[1].Value)
}

func TestAggregateZIP_PTIFiltersInvalid(t *testing.T) {
	rows := []housing.Record{
		rec("Seattle", "98101", 2023, fp(520000), fp(52000)), // PTI 10
		rec("Seattle", "98102", 2023, fp(520000), fp(1000)),  // income below floor
	}
	out := AggregateZIP(rows, MetricPTI)
	require.Len(t, out, 1)
	assert.Equal(t, "98101", out[0].ZIPCode)
	assert.InDelta(t, 10.0, out[0].Value, 1e-9)
}

func TestAggregateCity(t *testing.T) {
	zips := []ZIPMetric{
		{CityKey: "seattle", City: "Seattle", CityFull: "Seattle, WA", ZIPCode: "98101", Value: 800000},
		{CityKey: "seattle", City: "Seattle", CityFull: "Seattle, WA", ZIPCode: "98102", Value: 600000},
		{CityKey: "boise", City: "Boise", CityFull: "Boise, ID", ZIPCode: "83702", Value: 400000},
	}
	out := AggregateCity(zips)
	require.Len(t, out, 2)

	// Deterministic order: city key ascending.
	assert.Equal(t, "boise", out[0].CityKey)
	assert.Equal(t, 1, out[0].ZIPCount)

	assert.Equal(t, "seattle", out[1].CityKey)
	assert.Equal(t, 2, out[1].ZIPCount)
	assert.Equal(t, 700000.0, out[1].Value)
}

func TestAggregateZIP_AveragesCoordinates(t *testing.T) {
	a := rec("Seattle", "98101", 2023, fp(700000), fp(52000))
	a.Lat, a.Lon = fp(47.0), fp(-122.0)
	b := rec("Seattle", "98101", 2023, fp(900000), fp(52000))
	b.Lat, b.Lon = fp(48.0), fp(-123.0)

	out := AggregateZIP([]housing.Record{a, b}, MetricPrice)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Lat)
	require.NotNil(t, out[0].Lon)
	assert.InDelta(t, 47.5, *out[0].Lat, 1e-9)
	assert.InDelta(t, -122.5, *out[0].Lon, 1e-9)
}

func TestGroupValues_PTIKeyedByZIP(t *testing.T) {
	rows := []housing.Record{
		rec("Seattle", "98101", 2022, fp(520000), fp(52000)),
		rec("Seattle", "98101", 2023, fp(572000), fp(52000)),
		rec("Seattle", "98102", 2023, fp(10), fp(52000)), // PTI out of range
	}
	vals := GroupValues(rows, MetricPTI, func(r housing.Record) string { return r.ZIPCode })
	require.Len(t, vals, 2)
	assert.Equal(t, "98101", vals[0].Key)
	assert.Equal(t, 2022, vals[0].Year)
}
