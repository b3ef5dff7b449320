// Package geometry holds the plane and geographic primitives used to decide
// which map tiles a projected feature footprint touches.
//
// Plane coordinates are world pixels at zoom 0: 256 units across the whole
// map, x growing east and y growing south.
package geometry

import "fmt"

// Point is a position in plane (world pixel) coordinates.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Key rounds the point to 4 decimals (about 10 m), suitable for grouping
// nearby requests under one cache key.
func (g GeoPoint) Key() string {
	return fmt.Sprintf("%.4f,%.4f", g.Lat, g.Lng)
}

func (g GeoPoint) String() string {
	return fmt.Sprintf("%f,%f", g.Lat, g.Lng)
}

// Quad is a feature footprint projected into plane coordinates.
//
// Callers must supply a convex quadrilateral wound counter-clockwise as seen
// on screen (y axis pointing down). Neither property is checked.
type Quad [4]Point

// Edge returns the directed edge starting at vertex i.
func (q Quad) Edge(i int) (Point, Point) {
	return q[i%4], q[(i+1)%4]
}

// Check reports whether q is a convex quad wound counter-clockwise on
// screen. Classification never calls it; loaders use it to reject bad input.
func (q Quad) Check() error {
	pos, neg := 0, 0

	for i := range q {
		a, b := q.Edge(i)
		_, c := q.Edge(i + 1)

		e1, e2 := b.Sub(a), c.Sub(b)
		switch cross := e1.X*e2.Y - e1.Y*e2.X; {
		case cross > 0:
			pos++
		case cross < 0:
			neg++
		default:
			return fmt.Errorf("degenerate quad %v: vertex %d is collinear", q, (i+1)%4)
		}
	}

	switch {
	case neg == 4:
		return nil
	case pos == 4:
		return fmt.Errorf("quad %v is wound clockwise", q)
	default:
		return fmt.Errorf("quad %v is not convex", q)
	}
}
