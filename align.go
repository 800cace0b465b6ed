package universe

import (
	"math"

	"github.com/setanarut/vec"
)

// Aligner moves a box out of a fixed box so that they only touch.
//
// fixed is the box to stay out of, previous is the bottom-left corner of the
// moving box before its move and tentative is where the move put it.
type Aligner interface {
	Align(fixed Rect, previous vec.Vec2, tentative Rect) Rect
}

var (
	// AlignTop puts the moving box on top of the fixed box.
	AlignTop Aligner = alignTop{}
	// AlignBottom puts the moving box under the fixed box.
	AlignBottom Aligner = alignBottom{}
	// AlignLeft puts the moving box on the left of the fixed box.
	AlignLeft Aligner = alignLeft{}
	// AlignRight puts the moving box on the right of the fixed box.
	AlignRight Aligner = alignRight{}

	AlignTopLeft Aligner = &alignCorner{
		vertical: AlignTop, horizontal: AlignLeft, side: 1,
		corner: Rect.BottomRight, edgeX: Rect.Left, edgeY: Rect.Top,
	}
	AlignTopRight Aligner = &alignCorner{
		vertical: AlignTop, horizontal: AlignRight, side: -1,
		corner: Rect.BottomLeft, edgeX: Rect.Right, edgeY: Rect.Top,
	}
	AlignBottomLeft Aligner = &alignCorner{
		vertical: AlignBottom, horizontal: AlignLeft, side: 1,
		corner: Rect.TopRight, edgeX: Rect.Left, edgeY: Rect.Bottom,
	}
	AlignBottomRight Aligner = &alignCorner{
		vertical: AlignBottom, horizontal: AlignRight, side: -1,
		corner: Rect.TopLeft, edgeX: Rect.Right, edgeY: Rect.Bottom,
	}

	// AlignMiddle pushes the moving box along the axis of least penetration.
	AlignMiddle Aligner = alignMiddle{}
	// AlignNone leaves the moving box where it is.
	AlignNone Aligner = alignNone{}
)

// AlignerFor returns the aligner resolving a contact in zone z, z being the
// zone of the moving box relative to the fixed one.
func AlignerFor(z Zone) Aligner {
	switch z {
	case ZoneTopLeft:
		return AlignTopLeft
	case ZoneMiddleTop:
		return AlignTop
	case ZoneTopRight:
		return AlignTopRight
	case ZoneMiddleLeft:
		return AlignLeft
	case ZoneMiddle:
		return AlignMiddle
	case ZoneMiddleRight:
		return AlignRight
	case ZoneBottomLeft:
		return AlignBottomLeft
	case ZoneMiddleBottom:
		return AlignBottom
	case ZoneBottomRight:
		return AlignBottomRight
	}
	return AlignNone
}

type alignTop struct{}

func (alignTop) Align(fixed Rect, _ vec.Vec2, tentative Rect) Rect {
	return tentative.MoveBottomTo(fixed.T)
}

type alignBottom struct{}

func (alignBottom) Align(fixed Rect, _ vec.Vec2, tentative Rect) Rect {
	return tentative.MoveTopTo(fixed.B)
}

type alignLeft struct{}

func (alignLeft) Align(fixed Rect, _ vec.Vec2, tentative Rect) Rect {
	return tentative.MoveRightTo(fixed.L)
}

type alignRight struct{}

func (alignRight) Align(fixed Rect, _ vec.Vec2, tentative Rect) Rect {
	return tentative.MoveLeftTo(fixed.R)
}

type alignNone struct{}

func (alignNone) Align(_ Rect, _ vec.Vec2, tentative Rect) Rect {
	return tentative
}

// alignCorner resolves a contact where the moving box came from a corner of
// the fixed box. The travel line of the leading corner of the moving box is
// intersected with the horizontal edge line of the fixed box. Depending on
// which side of the fixed corner the intersection falls, the contact is a
// plain vertical or horizontal one. Exactly on the corner, the moving corner
// is snapped onto the fixed corner.
//
// Without travel there is no line to intersect: the box is aligned on the
// side of least penetration, or snapped onto the corner when both sides are
// equally deep, instead of keeping its coordinates.
type alignCorner struct {
	vertical   Aligner
	horizontal Aligner

	// side is +1 when the fixed corner is on the left edge, -1 on the right.
	side   float64
	corner func(Rect) vec.Vec2
	edgeX  func(Rect) float64
	edgeY  func(Rect) float64
}

func (a *alignCorner) Align(fixed Rect, previous vec.Vec2, tentative Rect) Rect {
	travel := tentative.BottomLeft().Sub(previous)
	if isZeroVec(travel) {
		return a.leastPenetration(fixed, previous, tentative)
	}

	start := a.corner(tentative.MoveTo(previous))
	path := Line{Origin: start, Direction: travel}
	edge := Line{Origin: vec.Vec2{X: a.edgeX(fixed), Y: a.edgeY(fixed)}, Direction: vec.Vec2{X: 1}}

	inter, ok := path.Intersection(edge)
	if !ok {
		// horizontal travel can only hit the side
		return a.horizontal.Align(fixed, previous, tentative)
	}

	d := a.side * (inter.X - a.edgeX(fixed))
	switch {
	case d > 0:
		return a.vertical.Align(fixed, previous, tentative)
	case d < 0:
		return a.horizontal.Align(fixed, previous, tentative)
	default:
		return a.snap(fixed, previous, tentative)
	}
}

func (a *alignCorner) snap(fixed Rect, previous vec.Vec2, tentative Rect) Rect {
	return a.horizontal.Align(fixed, previous, a.vertical.Align(fixed, previous, tentative))
}

func (a *alignCorner) leastPenetration(fixed Rect, previous vec.Vec2, tentative Rect) Rect {
	v := a.vertical.Align(fixed, previous, tentative)
	h := a.horizontal.Align(fixed, previous, tentative)
	pv := math.Abs(v.B - tentative.B)
	ph := math.Abs(h.L - tentative.L)
	switch {
	case pv < ph:
		return v
	case pv > ph:
		return h
	default:
		return a.snap(fixed, previous, tentative)
	}
}

type alignMiddle struct{}

func (alignMiddle) Align(fixed Rect, previous vec.Vec2, tentative Rect) Rect {
	up := fixed.T - tentative.B
	down := tentative.T - fixed.B
	left := tentative.R - fixed.L
	right := fixed.R - tentative.L

	best, aligner := up, AlignTop
	if down < best {
		best, aligner = down, AlignBottom
	}
	if left < best {
		best, aligner = left, AlignLeft
	}
	if right < best {
		aligner = AlignRight
	}
	return aligner.Align(fixed, previous, tentative)
}
