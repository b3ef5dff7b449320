package model

import (
	"cmp"
	"slices"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

type TileHit struct {
	Tile    Tile             `json:"tile"`
	Overlap geometry.Overlap `json:"overlap"`
}

// Cover walks the tile pyramid down from root and returns every tile s
// touches, up to maxZoom. Children of a tile that lies inside s are not
// visited: they are inside as well.
func Cover(s Shape, root Tile, maxZoom int) []TileHit {
	var res []TileHit

	maxZoom = min(maxZoom, s.GetMaxZoom())

	var walk func(t Tile)
	walk = func(t Tile) {
		o := s.Classify(t)

		if o == geometry.Outside {
			return
		}

		res = append(res, TileHit{Tile: t, Overlap: o})

		if o == geometry.Inside || t.Z >= maxZoom {
			return
		}

		for _, c := range t.Children() {
			walk(c)
		}
	}

	if root.Z <= maxZoom {
		walk(root)
	}

	return res
}

type Nearby struct {
	Shape    Shape
	Distance float64
}

// FindNearby returns shapes whose center is within radius meters of center,
// closest first, at most limit of them. Zero radius or limit means no bound.
func FindNearby(shapes []Shape, center geometry.GeoPoint, radius float64, limit int) []Nearby {
	res := make([]Nearby, 0, len(shapes))

	for _, s := range shapes {
		d := geometry.EarthDistance(center, s.Center())

		if radius > 0 && d > radius {
			continue
		}

		res = append(res, Nearby{Shape: s, Distance: d})
	}

	slices.SortStableFunc(res, func(a, b Nearby) int {
		return cmp.Compare(a.Distance, b.Distance)
	})

	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}

	return res
}
