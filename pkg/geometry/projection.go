package geometry

import (
	"iter"
	"slices"
)

// Projection converts between geographic and plane coordinates. Both
// directions must be deterministic; panics raised by an implementation are
// not recovered.
type Projection interface {
	FromLatLngToPoint(g GeoPoint) Point
	FromPointToLatLng(p Point) GeoPoint
}

// ProjectSeq lazily projects every coordinate of latlngs, keeping order.
func ProjectSeq(p Projection, latlngs iter.Seq[GeoPoint]) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for g := range latlngs {
			if !yield(p.FromLatLngToPoint(g)) {
				return
			}
		}
	}
}

// ApplyProjection projects latlngs into plane coordinates.
func ApplyProjection(p Projection, latlngs []GeoPoint) []Point {
	return slices.Collect(ProjectSeq(p, slices.Values(latlngs)))
}
