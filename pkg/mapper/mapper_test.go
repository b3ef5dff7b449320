package mapper

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

var testdata = [][]float64{
	// lat, lon, zoom, tile x, tile y
	{55.746819, 37.612228, 16, 39615, 20489},
	{0, 0, 1, 1, 1},
	{0, -180, 0, 0, 0},
	{MaxLatitude, -180, 3, 0, 0},
	{-MaxLatitude, 180, 3, 7, 7},
	{-89, 179.99, 2, 3, 3},
}

func TestLatLngToTile(t *testing.T) {
	ts := NewTileSystem()

	for i, c := range testdata {
		t.Run(fmt.Sprintf("test_%d", i), func(t *testing.T) {
			xt, yt, _, _ := ts.LatLngToTile(geometry.GeoPoint{Lat: c[0], Lng: c[1]}, int(c[2]))

			assert.Equal(t, int(c[3]), xt, "wrong x")
			assert.Equal(t, int(c[4]), yt, "wrong y")
		})
	}
}

func TestTms(t *testing.T) {
	g := geometry.GeoPoint{Lat: 55.746819, Lng: 37.612228}

	_, y := NewTileSystem().LatLngToPixel(g, 16)
	_, yTms := NewTmsTileSystem().LatLngToPixel(g, 16)

	assert.InDelta(t, float64(1<<16*256), y+yTms, 1e-6)

	back := NewTmsTileSystem().PixelToLatLng(0, yTms, 16)
	assert.InDelta(t, g.Lat, back.Lat, 1e-9)
}

func TestWebMercator(t *testing.T) {
	m := NewWebMercator()

	assert.Equal(t, geometry.Point{X: 128, Y: 128}, m.FromLatLngToPoint(geometry.GeoPoint{}))

	p := m.FromLatLngToPoint(geometry.GeoPoint{Lat: 90, Lng: 180})
	assert.InDelta(t, 256, p.X, 1e-9)
	assert.InDelta(t, 0, p.Y, 1e-9)

	for _, g := range []geometry.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 55.746819, Lng: 37.612228}, {Lat: -33.86, Lng: 151.2}, {Lat: 80, Lng: -179.5}, {Lat: -60.1, Lng: 0.001}} {
		back := m.FromPointToLatLng(m.FromLatLngToPoint(g))
		assert.InDelta(t, g.Lat, back.Lat, 1e-9)
		assert.InDelta(t, g.Lng, back.Lng, 1e-9)
	}
}

func TestWebMercatorTiles(t *testing.T) {
	m := NewWebMercator()
	g := geometry.GeoPoint{Lat: 55.746819, Lng: 37.612228}

	ul, lr := geometry.TileRange(39615, 20489, 16)
	p := m.FromLatLngToPoint(g)

	assert.True(t, p.X >= ul.X && p.X < lr.X)
	assert.True(t, p.Y >= ul.Y && p.Y < lr.Y)
}
