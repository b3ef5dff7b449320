package geometry

import "math"

// ViewportScaleFactor inflates the zoom exponent so the box is a bit bigger
// than the visible area and features near the border are kept.
const ViewportScaleFactor = 1.1

// BoundingBox builds a rough box around center for a viewport of
// width x height pixels at zoom. The result is a closed ring of five points,
// the last equal to the first.
func BoundingBox(p Projection, center GeoPoint, zoom, width, height float64) []GeoPoint {
	xy := p.FromLatLngToPoint(center)
	scale := math.Pow(2, zoom*ViewportScaleFactor)

	ll := p.FromPointToLatLng(Point{X: xy.X - width/scale, Y: xy.Y + height/scale})
	ur := p.FromPointToLatLng(Point{X: xy.X + width/scale, Y: xy.Y - height/scale})

	return []GeoPoint{
		{Lat: ll.Lat, Lng: ll.Lng},
		{Lat: ll.Lat, Lng: ur.Lng},
		{Lat: ur.Lat, Lng: ur.Lng},
		{Lat: ur.Lat, Lng: ll.Lng},
		{Lat: ll.Lat, Lng: ll.Lng},
	}
}
