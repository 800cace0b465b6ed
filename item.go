package universe

import (
	"fmt"
	"math"

	"github.com/setanarut/vec"
)

// Flags are the capability bits of an item.
type Flags uint16

const (
	// CanMoveItems lets the item push other items. Without it the item yields
	// to everything it touches.
	CanMoveItems Flags = 1 << iota
	// Phantom items integrate but never collide.
	Phantom
	// Artificial items never collide with other artificial items.
	Artificial
	// WeakCollisions items ignore deep (middle zone) overlaps.
	WeakCollisions
	// XFixed locks the horizontal axis.
	XFixed
	// YFixed locks the vertical axis.
	YFixed
	// Global items are stepped even outside the active regions.
	Global
)

// Contacts records the sides of an item that touched another item during the
// last step.
type Contacts uint8

const (
	ContactLeft Contacts = 1 << iota
	ContactRight
	ContactBottom
	ContactTop
)

// Any reports whether any side is in contact.
func (c Contacts) Any() bool { return c != 0 }

// Has reports whether all sides of s are in contact.
func (c Contacts) Has(s Contacts) bool { return c&s == s }

// Attributes is the physical state of one item.
type Attributes struct {
	// Mass of the item. Zero means derived from Density and the box area.
	// math.Inf(1) makes the item immovable.
	Mass    float64
	Density float64
	Box     Rect

	Speed         vec.Vec2
	Acceleration  vec.Vec2
	InternalForce vec.Vec2
	ExternalForce vec.Vec2

	// SelfFriction is the fraction of speed kept per second of free motion.
	SelfFriction float64
	// ContactFriction is the fraction of tangential speed kept while in contact.
	ContactFriction float64
	// Elasticity is the bounce coefficient, 0 for no bounce.
	Elasticity float64
	// Hardness weights the split of a correction when masses cannot decide.
	Hardness float64

	Flags Flags
}

// DefaultAttributes returns the attributes of a plain, pushable box.
func DefaultAttributes(box Rect) Attributes {
	return Attributes{
		Mass:            1,
		Density:         1,
		Box:             box,
		SelfFriction:    0.99,
		ContactFriction: 1,
		Elasticity:      0,
		Hardness:        1,
		Flags:           CanMoveItems,
	}
}

// CollisionListener is notified once per step and pair of colliding items.
// Returning false vetoes the default alignment and repair for that pair.
type CollisionListener interface {
	Collision(info *CollisionInfo) bool
}

// CollisionFunc adapts a function to a CollisionListener.
type CollisionFunc func(info *CollisionInfo) bool

// Collision calls f(info).
func (f CollisionFunc) Collision(info *CollisionInfo) bool {
	return f(info)
}

// Entity is the view of an item the physics core works through.
type Entity interface {
	Mass() float64
	Density() float64
	BoundingBox() Rect
	Speed() vec.Vec2
	SetSpeed(vec.Vec2)
	Position() vec.Vec2
	SetPosition(vec.Vec2)
	AddExternalForce(vec.Vec2)
	IsPhantom() bool
	IsArtificial() bool
	CanMoveItems() bool
	Flags() Flags
}

var _ Entity = (*Item)(nil)

// Item is one simulated entity.
type Item struct {
	// UserData is an object that this item is associated with.
	//
	// You can use this get a reference to your game object from within
	// collision listeners.
	UserData any
	Listener CollisionListener

	attr     Attributes
	contacts Contacts
	// contacts of the previous step, read by the integrator
	touching Contacts
	forced   ForcedMovement

	world  *World
	id     ItemID
	dead   bool
	static bool

	// stamp of the last step that selected the item
	stepped uint
}

// NewItem creates a dynamic item.
func NewItem(attr Attributes) *Item {
	item := &Item{}
	item.SetAttributes(attr)
	return item
}

// NewStaticItem creates an immovable piece of scenery.
func NewStaticItem(box Rect) *Item {
	attr := DefaultAttributes(box)
	attr.Mass = infinity
	attr.SelfFriction = 0
	attr.Hardness = infinity
	item := NewItem(attr)
	item.static = true
	return item
}

func (item *Item) String() string {
	return fmt.Sprint("Item ", item.id, " ", item.attr.Box)
}

// ID returns the arena id of the item, the zero ItemID when not in a world.
func (item *Item) ID() ItemID { return item.id }

// World returns the world the item lives in, or nil.
func (item *Item) World() *World { return item.world }

// Attributes returns a copy of the physical state.
func (item *Item) Attributes() Attributes { return item.attr }

// SetAttributes replaces the whole physical state. Coefficients are clamped.
func (item *Item) SetAttributes(attr Attributes) {
	if attr.Mass < 0 || math.IsNaN(attr.Mass) {
		violation("SetAttributes", "invalid mass %v", attr.Mass)
	}
	if attr.Box.Width() < 0 || attr.Box.Height() < 0 {
		violation("SetAttributes", "negative size %v", attr.Box)
	}
	attr.SelfFriction = clamp01(attr.SelfFriction)
	attr.ContactFriction = clamp01(attr.ContactFriction)
	attr.Elasticity = clamp01(attr.Elasticity)
	attr.Density = math.Max(attr.Density, 0)
	attr.Hardness = math.Max(attr.Hardness, 0)
	item.attr = attr
	item.moved()
}

// Mass returns the explicit mass, or density times area when none is set.
func (item *Item) Mass() float64 {
	if item.attr.Mass > 0 {
		return item.attr.Mass
	}
	if m := item.attr.Density * item.attr.Box.Area(); m > 0 {
		return m
	}
	return 1
}

// SetMass fixes the mass. math.Inf(1) makes the item immovable.
func (item *Item) SetMass(mass float64) {
	if mass <= 0 || math.IsNaN(mass) {
		violation("SetMass", "mass must be positive, got %v", mass)
	}
	item.attr.Mass = mass
}

func (item *Item) Density() float64 { return item.attr.Density }

func (item *Item) SetDensity(density float64) {
	item.attr.Density = math.Max(density, 0)
}

// BoundingBox returns the current box of the item.
func (item *Item) BoundingBox() Rect { return item.attr.Box }

// SetBoundingBox moves and resizes the item.
func (item *Item) SetBoundingBox(box Rect) {
	if box.Width() < 0 || box.Height() < 0 {
		violation("SetBoundingBox", "negative size %v", box)
	}
	item.attr.Box = box
	item.moved()
}

// Position returns the bottom-left corner of the item.
func (item *Item) Position() vec.Vec2 { return item.attr.Box.BottomLeft() }

// SetPosition moves the bottom-left corner of the item to p.
func (item *Item) SetPosition(p vec.Vec2) {
	item.attr.Box = item.attr.Box.MoveTo(p)
	item.moved()
}

// Center returns the center of the item's box.
func (item *Item) Center() vec.Vec2 { return item.attr.Box.Center() }

func (item *Item) Speed() vec.Vec2 { return item.attr.Speed }

func (item *Item) SetSpeed(speed vec.Vec2) { item.attr.Speed = speed }

func (item *Item) Acceleration() vec.Vec2 { return item.attr.Acceleration }

func (item *Item) InternalForce() vec.Vec2 { return item.attr.InternalForce }

func (item *Item) ExternalForce() vec.Vec2 { return item.attr.ExternalForce }

// AddExternalForce accumulates a force applied by game logic or links. It is
// consumed by the next integration.
func (item *Item) AddExternalForce(f vec.Vec2) {
	item.attr.ExternalForce = item.attr.ExternalForce.Add(f)
}

// AddInternalForce accumulates a force produced by the item itself, such as
// walking. It is consumed by the next integration.
func (item *Item) AddInternalForce(f vec.Vec2) {
	item.attr.InternalForce = item.attr.InternalForce.Add(f)
}

func (item *Item) SelfFriction() float64 { return item.attr.SelfFriction }

func (item *Item) SetSelfFriction(f float64) { item.attr.SelfFriction = clamp01(f) }

func (item *Item) ContactFriction() float64 { return item.attr.ContactFriction }

func (item *Item) SetContactFriction(f float64) { item.attr.ContactFriction = clamp01(f) }

func (item *Item) Elasticity() float64 { return item.attr.Elasticity }

func (item *Item) SetElasticity(e float64) { item.attr.Elasticity = clamp01(e) }

func (item *Item) Hardness() float64 { return item.attr.Hardness }

func (item *Item) SetHardness(h float64) { item.attr.Hardness = math.Max(h, 0) }

func (item *Item) Flags() Flags { return item.attr.Flags }

// SetFlags replaces all flags.
func (item *Item) SetFlags(f Flags) { item.attr.Flags = f }

// Has reports whether all flags of f are set.
func (item *Item) Has(f Flags) bool { return item.attr.Flags&f == f }

func (item *Item) IsPhantom() bool         { return item.Has(Phantom) }
func (item *Item) IsArtificial() bool      { return item.Has(Artificial) }
func (item *Item) CanMoveItems() bool      { return item.Has(CanMoveItems) }
func (item *Item) HasWeakCollisions() bool { return item.Has(WeakCollisions) }
func (item *Item) IsGlobal() bool          { return item.Has(Global) }
func (item *Item) IsXFixed() bool          { return item.Has(XFixed) }
func (item *Item) IsYFixed() bool          { return item.Has(YFixed) }
func (item *Item) IsStatic() bool          { return item.static }
func (item *Item) IsDead() bool            { return item.dead }
func (item *Item) HasInfiniteMass() bool   { return math.IsInf(item.Mass(), 1) }
func (item *Item) Contacts() Contacts      { return item.contacts }

func (item *Item) ForcedMovement() ForcedMovement { return item.forced }

// SetForcedMovement drives the item along m instead of integrating forces.
// A nil m gives the item back to the integrator.
func (item *Item) SetForcedMovement(m ForcedMovement) {
	item.forced = m
	if m != nil {
		m.Init(item)
	}
}

// IsForced reports whether a forced movement currently drives the item.
func (item *Item) IsForced() bool {
	return item.forced != nil && !item.forced.IsFinished()
}

// bystander reports whether the world of item is stepping without it. Links
// and collisions of the step treat such an item as immovable.
func (item *Item) bystander() bool {
	w := item.world
	return w != nil && w.locked && !item.static && item.stepped != w.stamp
}

func (item *Item) moved() {
	if item.world != nil {
		item.world.itemMoved(item)
	}
}
