package geometry

import "math"

// TileSize is the tile edge length in pixels.
const TileSize = 256

// TileRange returns the world coordinates of the upper-left and lower-right
// corners of tile (x, y) at the given zoom. Zoom must not be negative.
func TileRange(x, y, zoom int) (Point, Point) {
	z := math.Pow(2, float64(zoom))

	p := func(dx, dy int) Point {
		return Point{
			X: float64(x+dx) * TileSize / z,
			Y: float64(y+dy) * TileSize / z,
		}
	}

	return p(0, 0), p(1, 1)
}
