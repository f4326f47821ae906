// Package boundary loads the CBSA (metro) and ZCTA (ZIP) boundary polygon
// universes from local shapefiles, preferring an uncompressed .shp over a
// .zip archive fallback.
package boundary

import "github.com/twpayne/go-geom"

// Polygon is one boundary feature: the official label, a normalized join
// key, the geometry, and a precomputed centroid in degree space.
type Polygon struct {
	Name        string // official label (CBSA NAME or ZCTA code)
	Key         string // lowercased name for CBSA; zero-padded ZIP for ZCTA
	Geometry    *geom.MultiPolygon
	CentroidLat float64
	CentroidLon float64
}

// Set is an immutable boundary collection with key lookup. Slice order is
// the shapefile record order.
type Set struct {
	Polygons []Polygon
	byKey    map[string]int
}

// NewSet builds a Set, indexing polygons by Key. On duplicate keys the
// first record wins.
func NewSet(polygons []Polygon) *Set {
	byKey := make(map[string]int, len(polygons))
	for i, p := range polygons {
		if _, ok := byKey[p.Key]; !ok {
			byKey[p.Key] = i
		}
	}
	return &Set{Polygons: polygons, byKey: byKey}
}

// ByKey returns the polygon with the given key.
func (s *Set) ByKey(key string) (Polygon, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Polygon{}, false
	}
	return s.Polygons[i], true
}

// ByName returns the polygon whose official name matches exactly.
func (s *Set) ByName(name string) (Polygon, bool) {
	for _, p := range s.Polygons {
		if p.Name == name {
			return p, true
		}
	}
	return Polygon{}, false
}

// Len returns the number of polygons in the set.
func (s *Set) Len() int { return len(s.Polygons) }
