package universe

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/vec"
)

// snapThreshold is the relative distance under which a corrected edge is put
// exactly against the edge it was aligned to.
const snapThreshold = 1e-9

// CollisionRepair separates two overlapping items and exchanges momentum
// between them.
//
// The normal is given relative to a reference item: the other item leaves
// the reference along the normal, the reference along its opposite.
type CollisionRepair struct {
	first, second *Item
	reference     *Item
	normal        vec.Vec2
}

// NewCollisionRepair prepares the repair of two distinct items.
func NewCollisionRepair(first, second *Item) *CollisionRepair {
	if first == nil || second == nil {
		violation("NewCollisionRepair", "nil item")
	}
	if first == second {
		violation("NewCollisionRepair", "item %v repaired against itself", first)
	}
	return &CollisionRepair{first: first, second: second}
}

// SetContactNormal sets the contact normal, pointing out of reference.
func (r *CollisionRepair) SetContactNormal(reference *Item, normal vec.Vec2) {
	if reference != r.first && reference != r.second {
		violation("SetContactNormal", "reference %v is not part of the repair", reference)
	}
	r.reference = reference
	r.normal = normal
}

// Apply corrects positions and speeds of both items. A repair without a
// contact normal, or with a zero one, does nothing.
func (r *CollisionRepair) Apply() {
	if r.reference == nil {
		return
	}
	n := unitOrZero(r.normal)
	if isZeroVec(n) {
		return
	}

	ref, other := r.first, r.second
	if r.reference == r.second {
		ref, other = r.second, r.first
	}

	mr := repairMass(ref, other, n)
	mo := repairMass(other, ref, n)
	sr, so, ok := correctionShares(mr, mo)
	if !ok {
		sr, so = hardnessShares(ref.Hardness(), other.Hardness())
	}

	depth := separation(ref.BoundingBox(), other.BoundingBox(), n)
	refBox := ref.BoundingBox().Offset(n.Scale(-depth * sr))
	otherBox := other.BoundingBox().Offset(n.Scale(depth * so))
	if so > 0 {
		otherBox = snapAgainst(refBox, otherBox, n)
	} else if sr > 0 {
		refBox = snapAgainst(otherBox, refBox, n.Neg())
	}
	if sr > 0 {
		ref.SetBoundingBox(refBox)
	}
	if so > 0 {
		other.SetBoundingBox(otherBox)
	}

	applyImpulses(ref, other, n, inverse(mr), inverse(mo))
	markContacts(ref, other, n)
}

// Repair separates a and b along normal, given relative to reference.
func Repair(a, b *Item, normal vec.Vec2, reference *Item) {
	r := NewCollisionRepair(a, b)
	r.SetContactNormal(reference, normal)
	r.Apply()
}

// repairMass returns the mass item opposes to other along n. Items that
// cannot be pushed by other behave as if their mass were infinite.
func repairMass(item, other *Item, n vec.Vec2) float64 {
	switch {
	case item.HasInfiniteMass(), item.IsForced(), item.bystander():
		return infinity
	case n.X != 0 && item.IsXFixed(), n.Y != 0 && item.IsYFixed():
		return infinity
	case !other.CanMoveItems() && item.CanMoveItems():
		return infinity
	}
	return item.Mass()
}

func snapAgainst(fixed, moving Rect, n vec.Vec2) Rect {
	near := func(a, b float64) bool {
		return mgl64.FloatEqualThreshold(a, b, snapThreshold)
	}
	if n.X > 0 && near(moving.L, fixed.R) {
		moving = moving.MoveLeftTo(fixed.R)
	} else if n.X < 0 && near(moving.R, fixed.L) {
		moving = moving.MoveRightTo(fixed.L)
	}
	if n.Y > 0 && near(moving.B, fixed.T) {
		moving = moving.MoveBottomTo(fixed.T)
	} else if n.Y < 0 && near(moving.T, fixed.B) {
		moving = moving.MoveTopTo(fixed.B)
	}
	return moving
}

// applyImpulses cancels the approaching speed along n, restoring the least
// elasticity of both items as bounce, and damps the sliding speed by the
// least contact friction.
func applyImpulses(ref, other *Item, n vec.Vec2, ir, io float64) {
	sum := ir + io
	if sum == 0 || math.IsNaN(sum) {
		return
	}

	vr := other.attr.Speed.Sub(ref.attr.Speed)
	vrn := vr.Dot(n)
	if vrn < 0 {
		e := math.Min(ref.Elasticity(), other.Elasticity())
		j := -(1 + e) * vrn / sum
		ref.attr.Speed = ref.attr.Speed.Sub(n.Scale(j * ir))
		other.attr.Speed = other.attr.Speed.Add(n.Scale(j * io))
	}

	t := orthonormalClockwise(n)
	vrt := vr.Dot(t)
	keep := math.Min(ref.ContactFriction(), other.ContactFriction())
	if vrt != 0 && keep < 1 {
		jt := vrt * (1 - keep) / sum
		ref.attr.Speed = ref.attr.Speed.Add(t.Scale(jt * ir))
		other.attr.Speed = other.attr.Speed.Sub(t.Scale(jt * io))
	}
}

func markContacts(ref, other *Item, n vec.Vec2) {
	switch {
	case n.Y > 0:
		other.contacts |= ContactBottom
		ref.contacts |= ContactTop
	case n.Y < 0:
		other.contacts |= ContactTop
		ref.contacts |= ContactBottom
	}
	switch {
	case n.X > 0:
		other.contacts |= ContactLeft
		ref.contacts |= ContactRight
	case n.X < 0:
		other.contacts |= ContactRight
		ref.contacts |= ContactLeft
	}
}
