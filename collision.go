package universe

import (
	"math"

	"github.com/setanarut/vec"
)

// Zone tells where a box lies relative to another one.
type Zone uint8

const (
	ZoneTopLeft Zone = iota
	ZoneMiddleTop
	ZoneTopRight
	ZoneMiddleLeft
	ZoneMiddle
	ZoneMiddleRight
	ZoneBottomLeft
	ZoneMiddleBottom
	ZoneBottomRight
)

var zoneNames = [...]string{
	"top_left", "middle_top", "top_right",
	"middle_left", "middle", "middle_right",
	"bottom_left", "middle_bottom", "bottom_right",
}

func (z Zone) String() string {
	if int(z) < len(zoneNames) {
		return zoneNames[z]
	}
	return "unknown"
}

// Opposite returns the zone seen from the other box.
func (z Zone) Opposite() Zone {
	return ZoneBottomRight - z
}

// IsSide reports whether z is one of the four edge-middle zones.
func (z Zone) IsSide() bool {
	return z == ZoneMiddleTop || z == ZoneMiddleBottom || z == ZoneMiddleLeft || z == ZoneMiddleRight
}

// IsCorner reports whether z is one of the four corner zones.
func (z Zone) IsCorner() bool {
	return z == ZoneTopLeft || z == ZoneTopRight || z == ZoneBottomLeft || z == ZoneBottomRight
}

// FindZone returns the zone of that relative to this. Boxes touching along an
// edge are outside of each other.
func FindZone(that, this Rect) Zone {
	col := 1
	switch {
	case that.R <= this.L:
		col = 0
	case that.L >= this.R:
		col = 2
	}

	row := 1
	switch {
	case that.B >= this.T:
		row = 0
	case that.T <= this.B:
		row = 2
	}

	return Zone(row*3 + col)
}

// CollisionInfo describes the contact of one item, self, with another one.
type CollisionInfo struct {
	self, other                 *Item
	zone                        Zone
	previousSelf, previousOther Attributes
	// box of self once aligned against other
	aligned Rect
}

// Self returns the item the info is given to.
func (c *CollisionInfo) Self() *Item { return c.self }

// Other returns the item self collided with.
func (c *CollisionInfo) Other() *Item { return c.other }

// Zone returns the zone of self relative to other before the move.
func (c *CollisionInfo) Zone() Zone { return c.zone }

// PreviousSelf returns the state of self before the step moved it.
func (c *CollisionInfo) PreviousSelf() Attributes { return c.previousSelf }

// PreviousOther returns the state of other before the step moved it.
func (c *CollisionInfo) PreviousOther() Attributes { return c.previousOther }

// PositionOnContact returns the box of self when placed against other.
func (c *CollisionInfo) PositionOnContact() Rect { return c.aligned }

// mirror returns the same contact seen from other. otherAligned is where
// other would sit against self.
func (c *CollisionInfo) mirror(otherAligned Rect) *CollisionInfo {
	return &CollisionInfo{
		self:          c.other,
		other:         c.self,
		zone:          c.zone.Opposite(),
		previousSelf:  c.previousOther,
		previousOther: c.previousSelf,
		aligned:       otherAligned,
	}
}

// BottomContactIsLower reports whether other, placed on contact with self,
// has its bottom below the top of self minus threshold. Only lateral contacts
// are supported; other zones are a contract violation.
func (c *CollisionInfo) BottomContactIsLower(threshold float64) bool {
	c.requireLateral("BottomContactIsLower")
	return c.otherOnContact().B < c.self.BoundingBox().T-threshold
}

// TopContactIsHigher reports whether other, placed on contact with self, has
// its top above the bottom of self plus threshold. Only lateral contacts are
// supported; other zones are a contract violation.
func (c *CollisionInfo) TopContactIsHigher(threshold float64) bool {
	c.requireLateral("TopContactIsHigher")
	return c.otherOnContact().T > c.self.BoundingBox().B+threshold
}

func (c *CollisionInfo) requireLateral(op string) {
	if c.zone != ZoneMiddleLeft && c.zone != ZoneMiddleRight {
		violation(op, "zone %v is not a lateral contact", c.zone)
	}
}

// otherOnContact returns the box of other in the frame where self sits at its
// contact position.
func (c *CollisionInfo) otherOnContact() Rect {
	d := c.aligned.BottomLeft().Sub(c.self.BoundingBox().BottomLeft())
	return c.other.BoundingBox().Offset(d.Neg())
}

// separation returns how far moving must travel along n to stop overlapping
// ref. Components of n that are zero do not constrain the travel.
func separation(ref, moving Rect, n vec.Vec2) float64 {
	best := infinity
	if n.X > 0 {
		best = math.Min(best, (ref.R-moving.L)/n.X)
	} else if n.X < 0 {
		best = math.Min(best, (moving.R-ref.L)/-n.X)
	}
	if n.Y > 0 {
		best = math.Min(best, (ref.T-moving.B)/n.Y)
	} else if n.Y < 0 {
		best = math.Min(best, (moving.T-ref.B)/-n.Y)
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return math.Max(best, 0)
}
