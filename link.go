package universe

import (
	"math"

	"github.com/setanarut/vec"
)

// Linker binds two items and is adjusted once per step, before integration.
type Linker interface {
	Adjust()
	Endpoints() (*Item, *Item)
	Anchors() (vec.Vec2, vec.Vec2)
}

// ReferencePoint is a point attached to an item.
type ReferencePoint struct {
	Item *Item
	// Offset from the bottom-left corner of the item's box.
	Offset vec.Vec2
	center bool
}

// CenterOf returns the reference point following the center of item.
func CenterOf(item *Item) ReferencePoint {
	return ReferencePoint{Item: item, center: true}
}

// PointOn returns the reference point at offset from the bottom-left corner
// of item.
func PointOn(item *Item, offset vec.Vec2) ReferencePoint {
	return ReferencePoint{Item: item, Offset: offset}
}

// Position returns the current world position of the point.
func (p ReferencePoint) Position() vec.Vec2 {
	if p.center {
		return p.Item.Center()
	}
	return p.Item.Position().Add(p.Offset)
}

// linkBase holds the configuration shared by links: two distinct endpoints
// and a rest length range [Min, Max].
type linkBase struct {
	A, B     ReferencePoint
	Min, Max float64
}

func newLinkBase(op string, a, b ReferencePoint, min, max float64) linkBase {
	if a.Item == nil || b.Item == nil {
		violation(op, "nil endpoint")
	}
	if a.Item == b.Item {
		violation(op, "both ends on item %v", a.Item)
	}
	if min > max || min < 0 || math.IsNaN(min) || math.IsNaN(max) {
		violation(op, "invalid length range [%v, %v]", min, max)
	}
	return linkBase{A: a, B: b, Min: min, Max: max}
}

func (l *linkBase) Endpoints() (*Item, *Item) {
	return l.A.Item, l.B.Item
}

func (l *linkBase) Anchors() (vec.Vec2, vec.Vec2) {
	return l.A.Position(), l.B.Position()
}

// stretch returns the unit direction from A to B and how far the link is out
// of its range: positive when too long, negative when too short.
func (l *linkBase) stretch() (dir vec.Vec2, delta float64) {
	pa, pb := l.Anchors()
	d := pb.Sub(pa)
	length := d.Mag()
	switch {
	case length > l.Max:
		delta = length - l.Max
	case length < l.Min:
		delta = length - l.Min
	default:
		return vec.Vec2{}, 0
	}
	return unitOrZero(d), delta
}

func (l *linkBase) shares() (sa, sb float64) {
	sa, sb, ok := correctionShares(linkMass(l.A.Item), linkMass(l.B.Item))
	if !ok {
		return 0.5, 0.5
	}
	return sa, sb
}

// linkMass is the mass an end opposes to its link. Ends sitting out the
// current step get nothing.
func linkMass(item *Item) float64 {
	if item.bystander() {
		return infinity
	}
	return item.Mass()
}

// Link is an elastic link. Out of its range, it pulls or pushes both ends
// with a force proportional to Strength and to the distance to the range.
type Link struct {
	linkBase
	Strength float64
}

// NewLink creates an elastic link between two reference points.
func NewLink(a, b ReferencePoint, strength, min, max float64) *Link {
	return &Link{
		linkBase: newLinkBase("NewLink", a, b, min, max),
		Strength: strength,
	}
}

// Adjust adds the link force to the external force of both ends. Infinite
// masses receive nothing.
func (l *Link) Adjust() {
	dir, delta := l.stretch()
	if delta == 0 || isZeroVec(dir) {
		return
	}
	sa, sb := l.shares()
	f := dir.Scale(l.Strength * delta)
	if sa > 0 {
		l.A.Item.AddExternalForce(f.Scale(sa))
	}
	if sb > 0 {
		l.B.Item.AddExternalForce(f.Scale(-sb))
	}
}

// ChainLink is an inextensible link. Out of its range, it moves both ends
// back into it.
type ChainLink struct {
	linkBase
}

// NewChainLink creates a chain between two reference points.
func NewChainLink(a, b ReferencePoint, min, max float64) *ChainLink {
	return &ChainLink{linkBase: newLinkBase("NewChainLink", a, b, min, max)}
}

// Adjust nudges both ends so that the link length is back in its range.
// Infinite masses do not move.
func (l *ChainLink) Adjust() {
	dir, delta := l.stretch()
	if delta == 0 || isZeroVec(dir) {
		return
	}
	sa, sb := l.shares()
	if sa > 0 {
		l.A.Item.SetPosition(l.A.Item.Position().Add(dir.Scale(delta * sa)))
	}
	if sb > 0 {
		l.B.Item.SetPosition(l.B.Item.Position().Sub(dir.Scale(delta * sb)))
	}
}
