package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kdudkov/tilecull/pkg/geometry"
)

// MaxZoom is the deepest zoom level a Tile may have.
const MaxZoom = 30

type Tile struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func ParseTile(s string) (Tile, error) {
	d := strings.Split(strings.Trim(s, "\n\r /"), "/")

	if len(d) != 3 {
		return Tile{}, fmt.Errorf("invalid tile: %s", s)
	}

	var n [3]int
	for i, v := range d {
		var err error
		if n[i], err = strconv.Atoi(v); err != nil {
			return Tile{}, fmt.Errorf("invalid tile: %s", s)
		}
	}

	t := Tile{X: n[1], Y: n[2], Z: n[0]}
	if !t.Valid() {
		return Tile{}, fmt.Errorf("tile %s is out of range", s)
	}

	return t, nil
}

func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

func (t Tile) Valid() bool {
	return t.Z >= 0 && t.Z <= MaxZoom && t.X >= 0 && t.Y >= 0 && t.X < 1<<t.Z && t.Y < 1<<t.Z
}

// Range returns the world coordinates of the tile corners.
func (t Tile) Range() (geometry.Point, geometry.Point) {
	return geometry.TileRange(t.X, t.Y, t.Z)
}

// Flip converts between xyz and tms row numbering.
func (t Tile) Flip() Tile {
	return Tile{X: t.X, Y: 1<<t.Z - t.Y - 1, Z: t.Z}
}

func (t Tile) Children() []Tile {
	x, y, z := t.X*2, t.Y*2, t.Z+1

	return []Tile{{x, y, z}, {x + 1, y, z}, {x, y + 1, z}, {x + 1, y + 1, z}}
}

// Ancestor returns the tile at zoom z containing t. z must not exceed t.Z.
func (t Tile) Ancestor(z int) Tile {
	d := t.Z - z

	return Tile{X: t.X >> d, Y: t.Y >> d, Z: z}
}

func (t Tile) InRect(t1, t2 Tile) bool {
	x1 := t.X * (1 << (MaxZoom - t.Z))
	y1 := t.Y * (1 << (MaxZoom - t.Z))

	xmin := t1.X * (1 << (MaxZoom - t1.Z))
	xmax := (t2.X + 1) * (1 << (MaxZoom - t2.Z))

	ymin := t1.Y * (1 << (MaxZoom - t1.Z))
	ymax := (t2.Y + 1) * (1 << (MaxZoom - t2.Z))

	return x1 >= xmin && x1 < xmax && y1 >= ymin && y1 < ymax
}
