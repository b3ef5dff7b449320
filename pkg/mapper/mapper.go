package mapper

import (
	"math"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

// MaxLatitude is the latitude at which the mercator square ends.
const MaxLatitude = 85.05112877980659

func radians(a float64) float64 {
	return a / 180 * math.Pi
}

func deg(a float64) float64 {
	return a / math.Pi * 180
}

func clampLat(lat float64) float64 {
	return math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
}

type TileSystem struct {
	isTms    bool
	tileSize int
}

func NewTileSystem() *TileSystem {
	return &TileSystem{
		isTms:    false,
		tileSize: geometry.TileSize,
	}
}

func NewTmsTileSystem() *TileSystem {
	return &TileSystem{
		isTms:    true,
		tileSize: geometry.TileSize,
	}
}

func (ts *TileSystem) TileSize() int {
	return ts.tileSize
}

func (ts *TileSystem) size(zoom float64) float64 {
	return math.Pow(2, zoom) * float64(ts.tileSize)
}

// LatLngToPixel returns global pixel coordinates of g at zoom.
func (ts *TileSystem) LatLngToPixel(g geometry.GeoPoint, zoom float64) (float64, float64) {
	size := ts.size(zoom)
	lat := radians(clampLat(g.Lat))

	x := (g.Lng + 180) / 360 * size
	y := (1 - math.Log(math.Tan(lat)+(1/math.Cos(lat)))/math.Pi) / 2 * size
	if ts.isTms {
		y = size - y
	}

	return x, y
}

func (ts *TileSystem) PixelToLatLng(x, y float64, zoom float64) geometry.GeoPoint {
	size := ts.size(zoom)
	if ts.isTms {
		y = size - y
	}

	lng := x/size*360.0 - 180.0
	lat := deg(math.Atan(math.Sinh(math.Pi * (1 - 2*y/size))))

	return geometry.GeoPoint{Lat: lat, Lng: lng}
}

// LatLngToTile returns tile coordinates of g at zoom and the pixel offset
// inside that tile. Points on the map border map to the last tile.
func (ts *TileSystem) LatLngToTile(g geometry.GeoPoint, zoom int) (int, int, int, int) {
	x, y := ts.LatLngToPixel(g, float64(zoom))

	last := float64(int(1)<<zoom*ts.tileSize - 1)
	px := int(max(0, min(last, math.Floor(x))))
	py := int(max(0, min(last, math.Floor(y))))

	return px / ts.tileSize, py / ts.tileSize, px % ts.tileSize, py % ts.tileSize
}

var _ geometry.Projection = &WebMercator{}

// WebMercator projects to world coordinates: pixels at zoom 0, 256 across.
type WebMercator struct {
	ts *TileSystem
}

func NewWebMercator() *WebMercator {
	return &WebMercator{ts: NewTileSystem()}
}

func (m *WebMercator) FromLatLngToPoint(g geometry.GeoPoint) geometry.Point {
	x, y := m.ts.LatLngToPixel(g, 0)
	return geometry.Point{X: x, Y: y}
}

func (m *WebMercator) FromPointToLatLng(p geometry.Point) geometry.GeoPoint {
	return m.ts.PixelToLatLng(p.X, p.Y, 0)
}
