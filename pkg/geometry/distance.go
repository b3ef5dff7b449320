package geometry

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters is the sphere radius used for distances.
const EarthRadiusMeters = 6378000

// EarthAngle returns the great-circle angle between a and b.
func EarthAngle(a, b GeoPoint) s1.Angle {
	return s2.LatLngFromDegrees(a.Lat, a.Lng).Distance(s2.LatLngFromDegrees(b.Lat, b.Lng))
}

// EarthDistance returns the great-circle distance between a and b in meters.
func EarthDistance(a, b GeoPoint) float64 {
	return EarthAngle(a, b).Radians() * EarthRadiusMeters
}
