package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/urbanmetrics/housing-atlas/internal/config"
)

// Shapefile attribute requirements per universe.
const (
	cbsaNameField = "NAME"
	zctaCodeField = "ZCTA5CE10"
)

// LoadCBSA reads the metro-area boundary shapefile. The NAME attribute is
// required; the polygon key is the lowercased name.
func LoadCBSA(cfg config.DataConfig) (*Set, error) {
	path, err := ResolvePath(cfg.CBSAShp, cfg.CBSAArchive, "CBSA", cfg.TempDir)
	if err != nil {
		return nil, err
	}
	return loadShapes(path, "CBSA", cbsaNameField, func(raw string) (name, key string, ok bool) {
		name = strings.TrimSpace(raw)
		return name, strings.ToLower(name), name != ""
	})
}

// LoadZCTA reads the ZIP tabulation area boundary shapefile. The ZCTA5CE10
// attribute is required; the polygon key is the zero-padded 5-digit code.
func LoadZCTA(cfg config.DataConfig) (*Set, error) {
	path, err := ResolvePath(cfg.ZCTAShp, cfg.ZCTAArchive, "ZCTA", cfg.TempDir)
	if err != nil {
		return nil, err
	}
	return loadShapes(path, "ZCTA", zctaCodeField, func(raw string) (name, key string, ok bool) {
		code := strings.TrimSpace(raw)
		if code == "" {
			return "", "", false
		}
		for len(code) < 5 {
			code = "0" + code
		}
		return code, code, true
	})
}

// loadShapes reads polygon features from a shapefile, keyed off one
// required attribute field. Malformed or non-polygon records are skipped
// and counted.
func loadShapes(path, label, field string, keyFn func(string) (string, string, bool)) (*Set, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open %s shapefile %s", label, path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := -1
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), field) {
			fieldIdx = i
			break
		}
	}
	if fieldIdx < 0 {
		return nil, eris.Errorf("boundary: %s shapefile %s is missing the attribute %q", label, path, field)
	}

	var polygons []Polygon
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		raw := strings.TrimRight(reader.Attribute(fieldIdx), "\x00")
		name, key, ok := keyFn(raw)
		if !ok {
			skipped++
			continue
		}

		mp := shapeToMultiPolygon(shape)
		if mp == nil {
			skipped++
			continue
		}

		lat, lon := centroid(mp)
		polygons = append(polygons, Polygon{
			Name:        name,
			Key:         key,
			Geometry:    mp,
			CentroidLat: lat,
			CentroidLon: lon,
		})
	}

	if skipped > 0 {
		zap.L().Debug("boundary: skipped shapefile records",
			zap.String("universe", label),
			zap.Int("skipped", skipped),
		)
	}
	zap.L().Info("boundary: shapefile loaded",
		zap.String("universe", label),
		zap.String("path", path),
		zap.Int("polygons", len(polygons)),
	)

	return NewSet(polygons), nil
}
