package model

import "github.com/kdudkov/tilecull/pkg/geometry"

var _ Shape = &Group{}

// Group is a feature made of several quads.
type Group struct {
	key     string
	name    string
	minZoom int
	maxZoom int
	parts   []*Feature
}

func NewGroup(key, name string, parts []*Feature) *Group {
	g := &Group{
		key:   key,
		name:  name,
		parts: parts,
	}

	g.init()

	return g
}

func (g *Group) init() {
	if len(g.parts) == 0 {
		panic("no parts")
	}

	g.minZoom = g.parts[0].GetMinZoom()
	g.maxZoom = g.parts[0].GetMaxZoom()

	for _, p := range g.parts {
		g.minZoom = min(g.minZoom, p.GetMinZoom())
		g.maxZoom = max(g.maxZoom, p.GetMaxZoom())
	}
}

func (g *Group) GetKey() string {
	return g.key
}

func (g *Group) GetMaxZoom() int {
	return g.maxZoom
}

func (g *Group) GetMinZoom() int {
	return g.minZoom
}

func (g *Group) GetName() string {
	return g.name
}

func (g *Group) Parts() []*Feature {
	return g.parts
}

// Classify returns Inside if any part covers the tile. A tile covered only
// by several parts together is reported as Intersecting.
func (g *Group) Classify(t Tile) geometry.Overlap {
	res := geometry.Outside

	for _, p := range g.parts {
		switch p.Classify(t) {
		case geometry.Inside:
			return geometry.Inside
		case geometry.Intersecting:
			res = geometry.Intersecting
		}
	}

	return res
}

func (g *Group) Center() geometry.GeoPoint {
	var c geometry.GeoPoint

	for _, p := range g.parts {
		pc := p.Center()
		c.Lat += pc.Lat / float64(len(g.parts))
		c.Lng += pc.Lng / float64(len(g.parts))
	}

	return c
}

func (g *Group) Rings() [][]geometry.GeoPoint {
	var res [][]geometry.GeoPoint

	for _, p := range g.parts {
		res = append(res, p.Rings()...)
	}

	return res
}
