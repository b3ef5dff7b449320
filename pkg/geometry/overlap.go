package geometry

import "fmt"

// Overlap classifies a shape against an axis-aligned rectangle.
type Overlap int

const (
	// Outside means the shape and the rectangle do not meet.
	Outside Overlap = iota
	// Inside means the rectangle lies entirely within the shape.
	Inside
	// Intersecting means the shape crosses the rectangle boundary.
	Intersecting
)

var overlapNames = [...]string{
	Outside:      "outside",
	Inside:       "inside",
	Intersecting: "intersecting",
}

func (o Overlap) String() string {
	if o < 0 || int(o) >= len(overlapNames) {
		return fmt.Sprintf("Overlap(%d)", int(o))
	}

	return overlapNames[o]
}

func (o Overlap) MarshalText() ([]byte, error) {
	if o < 0 || int(o) >= len(overlapNames) {
		return nil, fmt.Errorf("invalid overlap %d", int(o))
	}

	return []byte(overlapNames[o]), nil
}

func (o *Overlap) UnmarshalText(b []byte) error {
	for i, n := range overlapNames {
		if n == string(b) {
			*o = Overlap(i)
			return nil
		}
	}

	return fmt.Errorf("invalid overlap %q", string(b))
}

// BoundingBoxesOverlap reports whether the bounding box of quad may overlap
// the rectangle [low, high]. It rejects only when all four vertices lie
// strictly beyond one side of the rectangle, so touching boxes overlap.
func BoundingBoxesOverlap(quad Quad, low, high Point) bool {
	if quad[0].X < low.X &&
		quad[1].X < low.X &&
		quad[2].X < low.X &&
		quad[3].X < low.X {
		return false
	}

	if quad[0].Y < low.Y &&
		quad[1].Y < low.Y &&
		quad[2].Y < low.Y &&
		quad[3].Y < low.Y {
		return false
	}

	if quad[0].X > high.X &&
		quad[1].X > high.X &&
		quad[2].X > high.X &&
		quad[3].X > high.X {
		return false
	}

	if quad[0].Y > high.Y &&
		quad[1].Y > high.Y &&
		quad[2].Y > high.Y &&
		quad[3].Y > high.Y {
		return false
	}

	return true
}

// EdgeTileOverlap classifies the rectangle [low, high] against the line
// through a and b, using signed distances of the rectangle corners along the
// line normal (b.Y-a.Y, a.X-b.X).
//
// Inside means every corner has a strictly positive distance, Outside means
// every corner is strictly negative, anything else is Intersecting. When
// a == b the normal is zero, every distance is zero and the result is
// Intersecting.
func EdgeTileOverlap(a, b, low, high Point) Overlap {
	nx := b.Y - a.Y
	ny := a.X - b.X
	d := nx*a.X + ny*a.Y

	dLoLo := nx*low.X + ny*low.Y - d
	dLoHi := nx*low.X + ny*high.Y - d
	dHiLo := nx*high.X + ny*low.Y - d
	dHiHi := nx*high.X + ny*high.Y - d

	switch {
	case dLoLo < 0 && dLoHi < 0 && dHiLo < 0 && dHiHi < 0:
		return Outside
	case dLoLo > 0 && dLoHi > 0 && dHiLo > 0 && dHiHi > 0:
		return Inside
	default:
		return Intersecting
	}
}

// QuadTileOverlap returns how quad overlaps the box spanned by upperLeft and
// lowerRight.
//
// The quad must be convex and wound counter-clockwise on screen. Other
// inputs are classified by the same arithmetic and may give wrong answers,
// e.g. a clockwise quad that fully covers the box is reported as Outside.
// Corners lying exactly on a quad edge count as Intersecting, so a quad equal
// to the box is Intersecting, not Inside.
func QuadTileOverlap(quad Quad, upperLeft, lowerRight Point) Overlap {
	if !BoundingBoxesOverlap(quad, upperLeft, lowerRight) {
		return Outside
	}

	var res [4]Overlap
	for i := range quad {
		a, b := quad.Edge(i)
		res[i] = EdgeTileOverlap(a, b, upperLeft, lowerRight)
	}

	if res[0] == Outside || res[1] == Outside || res[2] == Outside || res[3] == Outside {
		return Outside
	}

	if res[0] == Inside && res[1] == Inside && res[2] == Inside && res[3] == Inside {
		return Inside
	}

	return Intersecting
}
