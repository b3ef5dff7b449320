package model

import (
	"encoding/json"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

func coords(ring []geometry.GeoPoint) []geom.Coord {
	res := make([]geom.Coord, 0, len(ring))

	for _, g := range ring {
		res = append(res, geom.Coord{g.Lng, g.Lat})
	}

	return res
}

// RingPolygon converts a closed ring into a polygon.
func RingPolygon(ring []geometry.GeoPoint) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{coords(ring)})
}

func ShapeGeometry(s Shape) geom.T {
	rings := s.Rings()

	if len(rings) == 1 {
		return RingPolygon(rings[0])
	}

	mp := make([][][]geom.Coord, 0, len(rings))
	for _, r := range rings {
		mp = append(mp, [][]geom.Coord{coords(r)})
	}

	return geom.NewMultiPolygon(geom.XY).MustSetCoords(mp)
}

func ShapeFeature(s Shape, props map[string]any) *geojson.Feature {
	p := map[string]any{
		"name":     s.GetName(),
		"min_zoom": s.GetMinZoom(),
		"max_zoom": s.GetMaxZoom(),
	}

	for k, v := range props {
		p[k] = v
	}

	return &geojson.Feature{
		ID:         s.GetKey(),
		Geometry:   ShapeGeometry(s),
		Properties: p,
	}
}

func MarshalShapes(shapes []Shape) ([]byte, error) {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(shapes))}

	for _, s := range shapes {
		fc.Features = append(fc.Features, ShapeFeature(s, nil))
	}

	return json.Marshal(fc)
}
