package universe

import (
	"cmp"
	"fmt"
)

// ItemID identifies an item in its world. An id whose slot was reused by
// another item is stale and no longer resolves.
type ItemID struct {
	index      uint32
	generation uint32
}

// IsZero reports whether id was never assigned.
func (id ItemID) IsZero() bool {
	return id.generation == 0
}

func (id ItemID) String() string {
	return fmt.Sprintf("#%d.%d", id.index, id.generation)
}

func (id ItemID) compare(o ItemID) int {
	if c := cmp.Compare(id.index, o.index); c != 0 {
		return c
	}
	return cmp.Compare(id.generation, o.generation)
}

func (id ItemID) less(o ItemID) bool {
	return id.compare(o) < 0
}

type slot struct {
	item       *Item
	generation uint32
}

// arena stores the items of a world in reusable slots.
type arena struct {
	slots []slot
	free  []uint32
	count int
}

func (a *arena) insert(item *Item) ItemID {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[index]
	s.generation++
	s.item = item
	a.count++
	return ItemID{index: index, generation: s.generation}
}

func (a *arena) get(id ItemID) (*Item, error) {
	if id.IsZero() || int(id.index) >= len(a.slots) {
		return nil, ErrNotInWorld
	}
	s := a.slots[id.index]
	if s.generation != id.generation || s.item == nil {
		return nil, ErrStaleItem
	}
	return s.item, nil
}

func (a *arena) remove(id ItemID) {
	if _, err := a.get(id); err != nil {
		return
	}
	a.slots[id.index].item = nil
	a.free = append(a.free, id.index)
	a.count--
}

// each calls f for every live item in slot order.
func (a *arena) each(f func(item *Item)) {
	for _, s := range a.slots {
		if s.item != nil {
			f(s.item)
		}
	}
}
