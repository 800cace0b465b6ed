package universe

import (
	"cmp"
	"log"
	"math"
	"os"
	"slices"

	"github.com/setanarut/vec"
)

// World holds the simulated items and advances them through time.
type World struct {
	UserData any

	// Gravity to apply to items, in meters per second squared.
	Gravity vec.Vec2

	// Unit is the number of world units per meter.
	Unit float64

	// SpeedEpsilon is the speed under which a speed component is set to zero,
	// per axis, in meters per second.
	SpeedEpsilon vec.Vec2

	// ResolutionPasses is the maximum number of collision passes in a step.
	// Must be non-zero.
	ResolutionPasses int

	// Size is the area stepped when Step is called without regions.
	Size Rect

	// Logger receives the diagnostics of the world.
	Logger *log.Logger

	// Selector picks the items stepped in the given regions.
	Selector ActiveSelector

	// Forces, Frictions and Densities are the ambient effects of the world.
	Forces    *AmbientMap[vec.Vec2]
	Frictions *AmbientMap[float64]
	Densities *AmbientMap[float64]

	Environments *EnvironmentMap

	PostStepCallbacks []*PostStepCallback

	// private
	items        arena
	staticItems  *BBTree
	dynamicItems *BBTree
	links        []Linker
	killed       []*Item
	dirty        map[*Item]struct{}
	sap          sweepAndPrune
	locked       bool
	stamp        uint
	currDT       float64
	skipPostStep bool
}

// NewWorld allocates and initializes a World covering size.
func NewWorld(size Rect) *World {
	w := &World{
		Gravity:          vec.Vec2{X: 0, Y: -9.81},
		Unit:             1,
		SpeedEpsilon:     vec.Vec2{X: 0.01, Y: 0.01},
		ResolutionPasses: defaultResolutionPasses,
		Size:             size,
		Logger:           log.New(os.Stderr, "universe: ", log.LstdFlags),
		Selector:         RegionSelector{},
		Forces:           NewForceMap(vec.Vec2{}),
		Frictions:        NewFrictionMap(1),
		Densities:        NewDensityMap(0),
		Environments:     NewEnvironmentMap(Air),
		staticItems:      NewBBTree(ItemBB, nil),
		dirty:            make(map[*Item]struct{}),
	}
	w.dynamicItems = NewBBTree(ItemBB, w.itemVelocity)
	return w
}

// itemVelocity is the speed of item in world units per second, which is what
// the leaves of the dynamic tree are fattened with.
func (w *World) itemVelocity(item *Item) vec.Vec2 {
	return item.Speed().Scale(w.Unit)
}

// Add registers an item and returns its id. Adding an item living in a world
// is a contract violation. While the world is locked, the item is indexed
// once the step ends.
func (w *World) Add(item *Item) ItemID {
	if item == nil {
		violation("Add", "nil item")
	}
	if item.world != nil {
		violation("Add", "item %v is already in a world", item)
	}
	item.world = w
	item.dead = false
	item.id = w.items.insert(item)

	if w.locked {
		w.AddPostStepCallback(func(w *World, key, _ any) {
			if it := key.(indexKey).item; it.world == w {
				w.index(it).Insert(it)
			}
		}, indexKey{item}, nil)
	} else {
		w.index(item).Insert(item)
	}
	return item.id
}

// AddStatic creates a static item covering box and registers it. Static
// items can be neither killed nor dropped.
func (w *World) AddStatic(box Rect) *Item {
	item := NewStaticItem(box)
	w.Add(item)
	return item
}

// post-step callback keys
type (
	indexKey struct{ item *Item }
	dropKey  struct{ item *Item }
)

func (w *World) index(item *Item) *BBTree {
	if item.static {
		return w.staticItems
	}
	return w.dynamicItems
}

// Get returns the item of id, ErrStaleItem when it died or its slot was
// reused and ErrNotInWorld when id never belonged to this world.
func (w *World) Get(id ItemID) (*Item, error) {
	item, err := w.items.get(id)
	if err != nil {
		return nil, err
	}
	if item.dead {
		return nil, ErrStaleItem
	}
	return item, nil
}

// Lookup returns the living item of id.
func (w *World) Lookup(id ItemID) (*Item, bool) {
	item, err := w.Get(id)
	return item, err == nil
}

// Kill marks an item dead. It stops colliding at once and is removed at the
// end of the current or next step.
func (w *World) Kill(item *Item) error {
	if item.world != w {
		return ErrNotInWorld
	}
	if item.static {
		violation("Kill", "static item %v cannot be removed", item)
	}
	if item.dead {
		return nil
	}
	item.dead = true
	w.killed = append(w.killed, item)
	return nil
}

// Drop removes an item from the world immediately, or right after the step
// when the world is locked.
func (w *World) Drop(item *Item) error {
	if item.world != w {
		return ErrNotInWorld
	}
	if item.static {
		violation("Drop", "static item %v cannot be removed", item)
	}
	item.dead = true
	if w.locked {
		w.AddPostStepCallback(func(w *World, key, _ any) {
			w.remove(key.(dropKey).item)
		}, dropKey{item}, nil)
		return nil
	}
	w.remove(item)
	return nil
}

func (w *World) remove(item *Item) {
	if item.world != w {
		return
	}
	w.index(item).Remove(item)
	w.items.remove(item.id)
	delete(w.dirty, item)
	w.links = slices.DeleteFunc(w.links, func(l Linker) bool {
		a, b := l.Endpoints()
		return a == item || b == item
	})
	item.world = nil
	item.dead = true
}

func (w *World) drainKilled() {
	for _, item := range w.killed {
		w.remove(item)
	}
	clear(w.killed)
	w.killed = w.killed[:0]
}

// AddLink registers a link. Links are adjusted at the beginning of each step
// in which one of their ends is active. An inactive end is held in place and
// receives no force.
func (w *World) AddLink(l Linker) {
	a, b := l.Endpoints()
	if a.world != w || b.world != w {
		violation("AddLink", "link ends must live in this world")
	}
	w.links = append(w.links, l)
}

// RemoveLink forgets a link. It reports whether the link was found.
func (w *World) RemoveLink(l Linker) bool {
	i := slices.Index(w.links, l)
	if i < 0 {
		return false
	}
	w.links = slices.Delete(w.links, i, i+1)
	return true
}

// EachLink calls f for every link.
func (w *World) EachLink(f func(l Linker)) {
	for _, l := range w.links {
		f(l)
	}
}

// Len returns the number of items in the world, dead ones included until
// they are removed.
func (w *World) Len() int {
	return w.items.count
}

// EachItem calls f for every living item in id order.
func (w *World) EachItem(f func(item *Item)) {
	w.items.each(func(item *Item) {
		if !item.dead {
			f(item)
		}
	})
}

// DynamicItemCount returns the number of non-static items.
func (w *World) DynamicItemCount() int {
	return w.dynamicItems.Count()
}

// StaticItemCount returns the number of static items.
func (w *World) StaticItemCount() int {
	return w.staticItems.Count()
}

func (w *World) itemMoved(item *Item) {
	if w.locked {
		w.dirty[item] = struct{}{}
		return
	}
	w.index(item).ReindexObject(item)
}

// AverageForce returns the ambient force over box.
func (w *World) AverageForce(box Rect) vec.Vec2 {
	return w.Forces.AverageIn(box)
}

// AverageFriction returns the ambient friction over box.
func (w *World) AverageFriction(box Rect) float64 {
	return w.Frictions.AverageIn(box)
}

// AverageDensity returns the ambient density over box.
func (w *World) AverageDensity(box Rect) float64 {
	return w.Densities.AverageIn(box)
}

// Step advances the items selected in regions by dt seconds. Without
// regions, the whole Size of the world is active.
func (w *World) Step(regions []Rect, dt float64) {
	if len(regions) == 0 {
		regions = []Rect{w.Size}
	}
	w.StepItems(w.Selector.Select(w, regions), dt)
}

// StepItems advances the given items by dt seconds: links, forces,
// integration, collision resolution, removal of killed items and spatial
// index update, in this order. Static items are skipped.
func (w *World) StepItems(items []*Item, dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}

	w.stamp++
	w.currDT = dt

	w.Lock()
	{
		active := make([]*Item, 0, len(items))
		previous := make(map[*Item]Attributes, len(items))
		for _, item := range items {
			if item == nil || item.world != w || item.dead || item.static {
				continue
			}
			if _, ok := previous[item]; ok {
				continue
			}
			previous[item] = item.attr
			item.stepped = w.stamp
			item.touching = item.contacts
			item.contacts = 0
			active = append(active, item)
		}

		// Links
		for _, l := range w.links {
			a, b := l.Endpoints()
			_, okA := previous[a]
			_, okB := previous[b]
			if okA || okB {
				l.Adjust()
			}
		}

		// Integrate
		for _, item := range active {
			w.integrate(item, previous[item], dt)
		}

		// Resolve
		w.resolve(active, previous)

		w.drainKilled()

		// Update spatial index
		for _, item := range active {
			if item.forced != nil && item.forced.IsFinished() {
				item.forced = nil
			}
			if item.world == w {
				w.dynamicItems.ReindexObject(item)
			}
		}
		for item := range w.dirty {
			if item.world == w {
				w.index(item).ReindexObject(item)
			}
		}
		clear(w.dirty)
	}
	w.Unlock(true)
}

// integrate moves an item for dt seconds with semi-implicit Euler.
func (w *World) integrate(item *Item, prev Attributes, dt float64) {
	attr := &item.attr
	defer func() {
		attr.InternalForce = vec.Vec2{}
		attr.ExternalForce = vec.Vec2{}
	}()

	if item.IsForced() {
		before := attr.Box.BottomLeft()
		item.forced.Next(dt)
		attr.Speed = attr.Box.BottomLeft().Sub(before).Scale(1 / (dt * w.Unit))
		attr.Acceleration = vec.Vec2{}
		return
	}

	m := item.Mass()
	if math.IsInf(m, 1) {
		attr.Acceleration = vec.Vec2{}
		return
	}

	box := attr.Box
	buoyancy := w.Densities.AverageIn(box) * box.Area()
	force := attr.ExternalForce.
		Add(attr.InternalForce).
		Add(w.Forces.AverageIn(box)).
		Add(w.Gravity.Scale(m - buoyancy))

	retention := item.SelfFriction() * w.Frictions.AverageIn(box)
	if item.touching.Any() {
		retention *= item.ContactFriction()
	}
	retention = math.Pow(clamp01(retention), dt)
	force = force.Sub(attr.Speed.Scale((1 - retention) * m / dt))

	acc := force.Scale(1 / m)
	speed := attr.Speed.Add(acc.Scale(dt))
	if math.Abs(speed.X) < w.SpeedEpsilon.X {
		speed.X = 0
	}
	if math.Abs(speed.Y) < w.SpeedEpsilon.Y {
		speed.Y = 0
	}

	delta := speed.Scale(dt * w.Unit)
	if item.IsXFixed() {
		delta.X, speed.X = 0, 0
	}
	if item.IsYFixed() {
		delta.Y, speed.Y = 0, 0
	}

	if !isFiniteVec(acc) || !isFiniteVec(speed) || !isFiniteVec(delta) {
		w.Logger.Printf("item %v: non finite state after integration, restored", item)
		*attr = prev
		attr.Speed = vec.Vec2{}
		attr.Acceleration = vec.Vec2{}
		return
	}

	attr.Acceleration = acc
	attr.Speed = speed
	attr.Box = box.Offset(delta)
}

// resolve repairs the overlaps of active items until a pass finds none or
// ResolutionPasses is reached.
func (w *World) resolve(active []*Item, previous map[*Item]Attributes) {
	notified := make(map[itemPair]bool)
	vetoed := make(map[itemPair]bool)

	passes := max(w.ResolutionPasses, 1)
	for range passes {
		repaired := 0
		for _, p := range w.candidatePairs(active, previous) {
			if w.collide(p, previous, notified, vetoed) {
				repaired++
			}
		}
		if repaired == 0 {
			return
		}
	}
	w.Logger.Printf("collision resolution did not converge in %d passes", passes)
}

// candidatePairs returns the overlapping pairs involving at least one active
// item, ordered by ids.
func (w *World) candidatePairs(active []*Item, previous map[*Item]Attributes) []itemPair {
	pairs := slices.Clone(w.sap.update(active))

	CollideStatic(active, w.staticItems, func(a, b *Item) {
		pairs = append(pairs, newItemPair(a, b))
	})
	// dynamic items out of the active regions are obstacles too
	for _, item := range active {
		box := item.attr.Box
		w.dynamicItems.Query(box, func(other *Item) {
			if _, ok := previous[other]; !ok && other.attr.Box.Overlaps(box) {
				pairs = append(pairs, newItemPair(item, other))
			}
		})
	}

	slices.SortFunc(pairs, func(p, q itemPair) int {
		return cmp.Or(p.a.id.compare(q.a.id), p.b.id.compare(q.b.id))
	})
	return slices.Compact(pairs)
}

// collide aligns and repairs one pair. It reports whether a repair happened.
func (w *World) collide(p itemPair, previous map[*Item]Attributes, notified, vetoed map[itemPair]bool) bool {
	a, b := p.a, p.b
	switch {
	case a.dead || b.dead, a.IsPhantom() || b.IsPhantom():
		return false
	case a.IsArtificial() && b.IsArtificial():
		return false
	case immovable(a) && immovable(b):
		return false
	case !a.attr.Box.Overlaps(b.attr.Box), vetoed[p]:
		return false
	}

	prevOf := func(item *Item) Attributes {
		if attr, ok := previous[item]; ok {
			return attr
		}
		return item.attr
	}

	ref, mover := orderPair(a, b, prevOf)
	prevRef, prevMover := prevOf(ref), prevOf(mover)

	zone := FindZone(prevMover.Box, prevRef.Box)
	if zone == ZoneMiddle && (a.HasWeakCollisions() || b.HasWeakCollisions()) {
		return false
	}

	// travel of the mover relative to the reference
	refShift := ref.attr.Box.BottomLeft().Sub(prevRef.Box.BottomLeft())
	from := prevMover.Box.BottomLeft().Add(refShift)
	aligned := AlignerFor(zone).Align(ref.attr.Box, from, mover.attr.Box)
	d := aligned.BottomLeft().Sub(mover.attr.Box.BottomLeft())

	if !notified[p] {
		notified[p] = true
		info := &CollisionInfo{
			self:          mover,
			other:         ref,
			zone:          zone,
			previousSelf:  prevMover,
			previousOther: prevRef,
			aligned:       aligned,
		}
		accept := true
		if mover.Listener != nil {
			accept = mover.Listener.Collision(info)
		}
		if ref.Listener != nil {
			if !ref.Listener.Collision(info.mirror(ref.attr.Box.Offset(d.Neg()))) {
				accept = false
			}
		}
		if !accept {
			vetoed[p] = true
			return false
		}
		if a.dead || b.dead {
			return false
		}
	}

	if isZeroVec(d) {
		return false
	}
	Repair(ref, mover, d, ref)
	return true
}

func immovable(item *Item) bool {
	return item.HasInfiniteMass() || item.IsForced() || item.bystander()
}

// orderPair picks the reference of a collision, the item the other one is
// aligned against: immovable items first, then pushers, heavier items and
// items that moved less. Ties go to the lower id.
func orderPair(a, b *Item, prevOf func(*Item) Attributes) (ref, mover *Item) {
	if c := compareResistance(a, b, prevOf); c < 0 {
		return b, a
	}
	return a, b
}

func compareResistance(a, b *Item, prevOf func(*Item) Attributes) int {
	boolCmp := func(x, y bool) int {
		switch {
		case x == y:
			return 0
		case x:
			return 1
		}
		return -1
	}
	moved := func(item *Item) float64 {
		return item.attr.Box.BottomLeft().Distance(prevOf(item).Box.BottomLeft())
	}
	return cmp.Or(
		boolCmp(immovable(a), immovable(b)),
		boolCmp(a.CanMoveItems(), b.CanMoveItems()),
		cmp.Compare(a.Mass(), b.Mass()),
		cmp.Compare(moved(b), moved(a)),
		b.id.compare(a.id),
	)
}

// TimeStep returns the duration of the last step.
func (w *World) TimeStep() float64 {
	return w.currDT
}

// Stamp returns the number of steps done.
func (w *World) Stamp() uint {
	return w.stamp
}

func (w *World) Lock() {
	w.locked = true
}

// IsLocked returns true from inside a step, when items cannot be removed or
// indexed.
func (w *World) IsLocked() bool {
	return w.locked
}

func (w *World) Unlock(runPostStep bool) {
	w.locked = false

	if runPostStep && !w.skipPostStep {
		w.skipPostStep = true

		// callbacks may schedule more callbacks
		for i := 0; i < len(w.PostStepCallbacks); i++ {
			callback := w.PostStepCallbacks[i]
			f := callback.callback

			// Mark the func as nil in case calling it runs the callbacks again.
			callback.callback = nil

			if f != nil {
				f(w, callback.key, callback.data)
			}
		}

		w.PostStepCallbacks = w.PostStepCallbacks[:0]
		w.skipPostStep = false
	}
}

func (w *World) PostStepCallback(key any) *PostStepCallback {
	for _, callback := range w.PostStepCallbacks {
		if callback != nil && callback.key == key {
			return callback
		}
	}
	return nil
}

// AddPostStepCallback defines a callback to be run just before w.Step()
// finishes, when it is safe to add and remove items.
//
// You can only schedule one post-step callback per key value, this prevents
// you from accidentally removing an item twice. Registering a second
// callback for the same key is a no-op. Outside of a step the callback runs
// at once.
func (w *World) AddPostStepCallback(f PostStepCallbackFunc, key, data any) bool {
	if key != nil && w.PostStepCallback(key) != nil {
		return false
	}
	if f == nil {
		f = PostStepDoNothing
	}
	if !w.locked && !w.skipPostStep {
		f(w, key, data)
		return true
	}
	w.PostStepCallbacks = append(w.PostStepCallbacks, &PostStepCallback{
		callback: f,
		key:      key,
		data:     data,
	})
	return true
}

func PostStepDoNothing(world *World, key, data any) {}

type PostStepCallback struct {
	callback PostStepCallbackFunc
	key      any
	data     any
}

type PostStepCallbackFunc func(world *World, key any, data any)

// PickItemsInRect returns the living items whose box intersects r, in id
// order.
func (w *World) PickItemsInRect(r Rect) []*Item {
	var found []*Item
	collect := func(item *Item) {
		if !item.dead {
			found = append(found, item)
		}
	}
	w.staticItems.Query(r, collect)
	w.dynamicItems.Query(r, collect)
	slices.SortFunc(found, func(a, b *Item) int { return a.id.compare(b.id) })
	return found
}

// PickItemsAt returns the living items whose box includes p.
func (w *World) PickItemsAt(p vec.Vec2) []*Item {
	return w.PickItemsInRect(Rect{p.X, p.Y, p.X, p.Y})
}

// PickItemsInCircle returns the living items whose box comes within radius
// of center.
func (w *World) PickItemsInCircle(center vec.Vec2, radius float64) []*Item {
	found := w.PickItemsInRect(NewRectForExtents(center, radius, radius))
	return slices.DeleteFunc(found, func(item *Item) bool {
		return item.attr.Box.ClampVect(center).Distance(center) > radius
	})
}

// SegmentQueryFirst returns the first living item hit by the segment a-b and
// the fraction of the segment where it is hit.
func (w *World) SegmentQueryFirst(a, b vec.Vec2) (first *Item, alpha float64, ok bool) {
	alpha = infinity
	query := func(item *Item) float64 {
		t := item.attr.Box.SegmentQuery(a, b)
		if item.dead || t > 1 {
			return infinity
		}
		if t < alpha || (t == alpha && item.id.less(first.id)) {
			first, alpha = item, t
		}
		return t
	}
	w.staticItems.SegmentQuery(a, b, infinity, query)
	w.dynamicItems.SegmentQuery(a, b, infinity, query)
	if first == nil {
		return nil, 0, false
	}
	return first, alpha, true
}
