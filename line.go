package universe

import "github.com/setanarut/vec"

// Line is the parametrized line Origin + t*Direction.
type Line struct {
	Origin    vec.Vec2
	Direction vec.Vec2
}

// NewLineThrough returns the line passing through a and b, directed from a to b.
func NewLineThrough(a, b vec.Vec2) Line {
	return Line{Origin: a, Direction: b.Sub(a)}
}

// At returns the point of parameter t.
func (l Line) At(t float64) vec.Vec2 {
	return l.Origin.Add(l.Direction.Scale(t))
}

// Parallel reports whether the two lines have collinear directions. A line
// with a zero direction is parallel to everything.
func (l Line) Parallel(o Line) bool {
	return l.Direction.Cross(o.Direction) == 0
}

// Intersection returns the common point of two lines. ok is false when the
// lines are parallel.
func (l Line) Intersection(o Line) (p vec.Vec2, ok bool) {
	den := l.Direction.Cross(o.Direction)
	if den == 0 {
		return vec.Vec2{}, false
	}
	t := o.Origin.Sub(l.Origin).Cross(o.Direction) / den
	return l.At(t), true
}
