package boundary

import (
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
)

// shapeToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon
// with SRID 4326. Returns nil for nil, empty, or non-polygon shapes.
func shapeToMultiPolygon(shape shp.Shape) *geom.MultiPolygon {
	p, ok := shape.(*shp.Polygon)
	if !ok || p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// centroid computes the area-weighted centroid of a multipolygon in its
// native (degree) coordinate space. Rings wound opposite to the exterior
// (holes) subtract through their signed area. Falls back to the vertex
// mean for degenerate (zero-area) geometries.
func centroid(mp *geom.MultiPolygon) (lat, lon float64) {
	var areaSum, cxSum, cySum float64
	var vxSum, vySum float64
	var vn int

	for pi := 0; pi < mp.NumPolygons(); pi++ {
		poly := mp.Polygon(pi)
		for ri := 0; ri < poly.NumLinearRings(); ri++ {
			coords := poly.LinearRing(ri).Coords()
			for k := 0; k < len(coords); k++ {
				x0, y0 := coords[k][0], coords[k][1]
				x1, y1 := coords[(k+1)%len(coords)][0], coords[(k+1)%len(coords)][1]
				cross := x0*y1 - x1*y0
				areaSum += cross
				cxSum += (x0 + x1) * cross
				cySum += (y0 + y1) * cross
				vxSum += x0
				vySum += y0
				vn++
			}
		}
	}

	if areaSum != 0 {
		return cySum / (3 * areaSum), cxSum / (3 * areaSum)
	}
	if vn > 0 {
		return vySum / float64(vn), vxSum / float64(vn)
	}
	return 0, 0
}
