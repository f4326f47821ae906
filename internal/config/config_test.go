package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/house_ts_agg.csv", cfg.Data.HousingCSV)
	assert.Equal(t, "data/cb_2018_us_cbsa_500k.shp", cfg.Data.CBSAShp)
	assert.Equal(t, "data/cbsa_shapes.zip", cfg.Data.CBSAArchive)
	assert.Equal(t, "data/cb_2018_us_zcta510_500k.shp", cfg.Data.ZCTAShp)
	assert.Equal(t, "data/zcta_shapes.zip", cfg.Data.ZCTAArchive)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ATLAS_SERVER_PORT", "9090")
	t.Setenv("ATLAS_DATA_HOUSING_CSV", "/srv/data/housing.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/data/housing.csv", cfg.Data.HousingCSV)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
}
