package housing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "house_ts_agg.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const csvHeader = "city,city_full,zip_code,year,median_sale_price,per_capita_income,lat,lon\n"

func TestLoadCSV_Standardizes(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"Seattle,\"Seattle, WA\",98101,2023,750000,52000,47.61,-122.33\n"+
		" Boston ,\"Boston, MA\",2108.0,2023,820000,61000,42.36,-71.06\n")

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 2)

	first := ds.Records[0]
	assert.Equal(t, "Seattle", first.City)
	assert.Equal(t, "Seattle, WA", first.CityFull)
	assert.Equal(t, "seattle", first.CityKey)
	assert.Equal(t, "98101", first.ZIPCode)
	assert.Equal(t, 2023, first.Year)
	require.NotNil(t, first.SalePrice)
	assert.Equal(t, 750000.0, *first.SalePrice)

	// Integer ZIPs serialized with a trailing .0 are zero-padded.
	second := ds.Records[1]
	assert.Equal(t, "boston", second.CityKey)
	assert.Equal(t, "02108", second.ZIPCode)
}

func TestLoadCSV_MissingValuesAreNil(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"Denver,\"Denver, CO\",80202,2022,,48000,,\n")

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)

	r := ds.Records[0]
	assert.Nil(t, r.SalePrice)
	require.NotNil(t, r.Income)
	assert.Nil(t, r.Lat)
	assert.Nil(t, r.Lon)
}

func TestLoadCSV_SkipsInvalidRows(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"Denver,\"Denver, CO\",,2022,500000,48000,39.7,-104.9\n"+
		"Denver,\"Denver, CO\",80202,not-a-year,500000,48000,39.7,-104.9\n"+
		"Denver,\"Denver, CO\",80202,2022,500000,48000,39.7,-104.9\n")

	ds, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, ds.Records, 1)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	path := writeCSV(t, "city,zip_code,year\nDenver,80202,2022\n")

	_, err := LoadCSV(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "city_full")
}

func TestLoadCSV_FingerprintTracksContent(t *testing.T) {
	a := writeCSV(t, csvHeader+"Denver,\"Denver, CO\",80202,2022,500000,48000,39.7,-104.9\n")
	dsA, err := LoadCSV(a)
	require.NoError(t, err)

	b := writeCSV(t, csvHeader+"Denver,\"Denver, CO\",80202,2022,510000,48000,39.7,-104.9\n")
	dsB, err := LoadCSV(b)
	require.NoError(t, err)

	assert.NotEmpty(t, dsA.Fingerprint)
	assert.NotEqual(t, dsA.Fingerprint, dsB.Fingerprint)

	// Same bytes, same fingerprint.
	dsA2, err := LoadCSV(a)
	require.NoError(t, err)
	assert.Equal(t, dsA.Fingerprint, dsA2.Fingerprint)
}

func TestDataset_Years(t *testing.T) {
	ds := &Dataset{Records: []Record{
		{Year: 2019}, {Year: 2023}, {Year: 2021},
	}}
	lo, hi := ds.Years()
	assert.Equal(t, 2019, lo)
	assert.Equal(t, 2023, hi)

	empty := &Dataset{}
	lo, hi = empty.Years()
	assert.Zero(t, lo)
	assert.Zero(t, hi)
}
