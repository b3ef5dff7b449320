package model

import (
	"fmt"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

// Shape is a projected feature footprint that can be tested against tiles.
type Shape interface {
	Classify(t Tile) geometry.Overlap
	Center() geometry.GeoPoint
	Rings() [][]geometry.GeoPoint
	GetMinZoom() int
	GetMaxZoom() int
	GetKey() string
	GetName() string
}

// Visible reports whether s is drawn at zoom z.
func Visible(s Shape, z int) bool {
	return z >= s.GetMinZoom() && z <= s.GetMaxZoom()
}

// CheckShape reports quads that are degenerate, not convex or wound the wrong
// way. Such shapes still classify, but the results may be wrong.
func CheckShape(s Shape) error {
	switch v := s.(type) {
	case *Feature:
		if err := v.quad.Check(); err != nil {
			return fmt.Errorf("feature %s: %w", v.GetKey(), err)
		}
	case *Group:
		for _, p := range v.parts {
			if err := CheckShape(p); err != nil {
				return err
			}
		}
	}

	return nil
}
