package model

import (
	"fmt"
	"slices"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

var _ Shape = &Feature{}

type Feature struct {
	key     string
	name    string
	minZoom int
	maxZoom int
	corners []geometry.GeoPoint
	quad    geometry.Quad
}

// NewFeature projects four geographic corners into a quad. Corners should be
// listed counter-clockwise as seen on the map and form a convex shape; other
// quads are accepted and classified as is, see CheckShape.
func NewFeature(key, name string, corners []geometry.GeoPoint, p geometry.Projection) (*Feature, error) {
	if len(corners) != 4 {
		return nil, fmt.Errorf("feature %s: need 4 corners, got %d", key, len(corners))
	}

	f := &Feature{
		key:     key,
		name:    name,
		maxZoom: MaxZoom,
		corners: slices.Clone(corners),
	}

	copy(f.quad[:], geometry.ApplyProjection(p, corners))

	return f, nil
}

func (f *Feature) String() string {
	return fmt.Sprintf("%s %d:%d %v", f.name, f.minZoom, f.maxZoom, f.corners)
}

func (f *Feature) GetKey() string {
	return f.key
}

func (f *Feature) GetName() string {
	return f.name
}

func (f *Feature) GetMinZoom() int {
	return f.minZoom
}

func (f *Feature) GetMaxZoom() int {
	return f.maxZoom
}

func (f *Feature) SetZoom(minZoom, maxZoom int) {
	f.minZoom = minZoom
	f.maxZoom = maxZoom
}

func (f *Feature) Quad() geometry.Quad {
	return f.quad
}

func (f *Feature) Classify(t Tile) geometry.Overlap {
	ul, lr := t.Range()

	return geometry.QuadTileOverlap(f.quad, ul, lr)
}

func (f *Feature) Center() geometry.GeoPoint {
	var c geometry.GeoPoint

	for _, g := range f.corners {
		c.Lat += g.Lat / 4
		c.Lng += g.Lng / 4
	}

	return c
}

func (f *Feature) Rings() [][]geometry.GeoPoint {
	ring := make([]geometry.GeoPoint, 0, 5)
	ring = append(ring, f.corners...)

	return [][]geometry.GeoPoint{append(ring, f.corners[0])}
}
