package universe

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/vec"
)

// Rect is an axis-aligned box in a y-up world. (left, bottom, right, top)
type Rect struct {
	L, B, R, T float64
}

// NewRect builds the box spanned by two opposite corners given in any order.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		L: math.Min(x1, x2),
		B: math.Min(y1, y2),
		R: math.Max(x1, x2),
		T: math.Max(y1, y2),
	}
}

// NewRectSize builds a box from its bottom-left corner and its size.
// A negative width or height is a contract violation.
func NewRectSize(pos, size vec.Vec2) Rect {
	if size.X < 0 || size.Y < 0 || math.IsNaN(size.X) || math.IsNaN(size.Y) {
		violation("NewRectSize", "negative size %v", size)
	}
	return Rect{pos.X, pos.Y, pos.X + size.X, pos.Y + size.Y}
}

// NewRectForExtents constructs a Rect centered on a point with the given half sizes.
func NewRectForExtents(c vec.Vec2, hw, hh float64) Rect {
	return Rect{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%v %v %v %v]", r.L, r.B, r.R, r.T)
}

func (r Rect) Left() float64   { return r.L }
func (r Rect) Right() float64  { return r.R }
func (r Rect) Bottom() float64 { return r.B }
func (r Rect) Top() float64    { return r.T }
func (r Rect) Width() float64  { return r.R - r.L }
func (r Rect) Height() float64 { return r.T - r.B }

func (r Rect) Size() vec.Vec2        { return vec.Vec2{X: r.Width(), Y: r.Height()} }
func (r Rect) BottomLeft() vec.Vec2  { return vec.Vec2{X: r.L, Y: r.B} }
func (r Rect) BottomRight() vec.Vec2 { return vec.Vec2{X: r.R, Y: r.B} }
func (r Rect) TopLeft() vec.Vec2     { return vec.Vec2{X: r.L, Y: r.T} }
func (r Rect) TopRight() vec.Vec2    { return vec.Vec2{X: r.R, Y: r.T} }

// Center returns the center of the box.
func (r Rect) Center() vec.Vec2 {
	return r.BottomLeft().Lerp(r.TopRight(), 0.5)
}

// Area returns the area of the box.
func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

// IsEmpty reports whether the box has no area.
func (r Rect) IsEmpty() bool {
	return r.R <= r.L || r.T <= r.B
}

// Intersects returns true if the closed boxes share at least one point.
func (r Rect) Intersects(o Rect) bool {
	return r.L <= o.R && o.L <= r.R && r.B <= o.T && o.B <= r.T
}

// Overlaps returns true if the boxes share a region of positive area.
// Boxes that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.L < o.R && o.L < r.R && r.B < o.T && o.B < r.T
}

// Intersection returns the common part of two boxes, or the zero Rect when
// they are disjoint.
func (r Rect) Intersection(o Rect) Rect {
	if !r.Intersects(o) {
		return Rect{}
	}
	return Rect{
		math.Max(r.L, o.L),
		math.Max(r.B, o.B),
		math.Min(r.R, o.R),
		math.Min(r.T, o.T),
	}
}

// Merge returns a box that holds both boxes.
func (r Rect) Merge(o Rect) Rect {
	return Rect{
		math.Min(r.L, o.L),
		math.Min(r.B, o.B),
		math.Max(r.R, o.R),
		math.Max(r.T, o.T),
	}
}

// Expand returns a box that holds both r and p.
func (r Rect) Expand(p vec.Vec2) Rect {
	return Rect{
		math.Min(r.L, p.X),
		math.Min(r.B, p.Y),
		math.Max(r.R, p.X),
		math.Max(r.T, p.Y),
	}
}

// Includes returns true if p lies in the closed box.
func (r Rect) Includes(p vec.Vec2) bool {
	return r.L <= p.X && r.R >= p.X && r.B <= p.Y && r.T >= p.Y
}

// Contains returns true if o lies completely within r.
func (r Rect) Contains(o Rect) bool {
	return r.L <= o.L && r.R >= o.R && r.B <= o.B && r.T >= o.T
}

// Offset returns the box moved by d.
func (r Rect) Offset(d vec.Vec2) Rect {
	return Rect{
		r.L + d.X,
		r.B + d.Y,
		r.R + d.X,
		r.T + d.Y,
	}
}

// MoveTo returns the box with its bottom-left corner at p.
func (r Rect) MoveTo(p vec.Vec2) Rect {
	return Rect{p.X, p.Y, p.X + r.Width(), p.Y + r.Height()}
}

// MoveLeftTo returns the box translated so that its left edge is exactly x.
func (r Rect) MoveLeftTo(x float64) Rect {
	return Rect{x, r.B, x + r.Width(), r.T}
}

// MoveRightTo returns the box translated so that its right edge is exactly x.
func (r Rect) MoveRightTo(x float64) Rect {
	return Rect{x - r.Width(), r.B, x, r.T}
}

// MoveBottomTo returns the box translated so that its bottom edge is exactly y.
func (r Rect) MoveBottomTo(y float64) Rect {
	return Rect{r.L, y, r.R, y + r.Height()}
}

// MoveTopTo returns the box translated so that its top edge is exactly y.
func (r Rect) MoveTopTo(y float64) Rect {
	return Rect{r.L, y - r.Height(), r.R, y}
}

// MergedArea merges a and b and returns the area of the merged box.
func (r Rect) MergedArea(o Rect) float64 {
	return (math.Max(r.R, o.R) - math.Min(r.L, o.L)) * (math.Max(r.T, o.T) - math.Min(r.B, o.B))
}

// Proximity is a cheap distance between the centers of two boxes.
func (r Rect) Proximity(o Rect) float64 {
	return math.Abs(r.L+r.R-o.L-o.R) + math.Abs(r.B+r.T-o.B-o.T)
}

// SegmentQuery returns the fraction along the segment a-b at which the box is
// hit, or +Inf if it is missed.
func (r Rect) SegmentQuery(a, b vec.Vec2) float64 {
	delta := b.Sub(a)
	tmin := -infinity
	tmax := infinity

	if delta.X == 0 {
		if a.X < r.L || r.R < a.X {
			return infinity
		}
	} else {
		t1 := (r.L - a.X) / delta.X
		t2 := (r.R - a.X) / delta.X
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if delta.Y == 0 {
		if a.Y < r.B || r.T < a.Y {
			return infinity
		}
	} else {
		t1 := (r.B - a.Y) / delta.Y
		t2 := (r.T - a.Y) / delta.Y
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if tmin <= tmax && 0 <= tmax && tmin <= 1.0 {
		return math.Max(tmin, 0.0)
	}
	return infinity
}

// IntersectsSegment returns true if the box intersects the segment a-b.
func (r Rect) IntersectsSegment(a, b vec.Vec2) bool {
	return !math.IsInf(r.SegmentQuery(a, b), 1)
}

// ClampVect clamps a point to the box.
func (r Rect) ClampVect(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: mgl64.Clamp(p.X, r.L, r.R), Y: mgl64.Clamp(p.Y, r.B, r.T)}
}
