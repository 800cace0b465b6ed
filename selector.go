package universe

import "slices"

// ActiveSelector yields the items eligible for a step, given the regions of
// interest of the caller.
type ActiveSelector interface {
	Select(w *World, regions []Rect) []*Item
}

// SelectorFunc adapts a function to an ActiveSelector.
type SelectorFunc func(w *World, regions []Rect) []*Item

func (f SelectorFunc) Select(w *World, regions []Rect) []*Item {
	return f(w, regions)
}

// RegionSelector selects the living dynamic items intersecting any region,
// plus the global ones wherever they are. Items come in id order.
type RegionSelector struct{}

func (RegionSelector) Select(w *World, regions []Rect) []*Item {
	seen := make(map[*Item]struct{})
	var items []*Item
	add := func(item *Item) {
		if item.dead || item.static {
			return
		}
		if _, ok := seen[item]; ok {
			return
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}

	for _, r := range regions {
		w.dynamicItems.Query(r, add)
	}
	w.dynamicItems.Each(func(item *Item) {
		if item.IsGlobal() {
			add(item)
		}
	})

	slices.SortFunc(items, func(a, b *Item) int { return a.id.compare(b.id) })
	return items
}
