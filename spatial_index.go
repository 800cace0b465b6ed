package universe

import "github.com/setanarut/vec"

type SpatialIndexBB func(item *Item) Rect
type SpatialIndexIterator func(item *Item)
type SpatialIndexQuery func(item *Item)
type SpatialIndexSegmentQuery func(item *Item) float64

// SpatialIndexer is an interface for spatial indexing that provides
// methods to manage items efficiently. It is implemented by
// a BBTree structure, which organizes items in a bounding volume tree.
type SpatialIndexer interface {
	// Count returns the number of items currently stored in the index.
	Count() int

	// Each iterates over all items in the spatial index, applying
	// the provided iterator function `f` to each item.
	Each(f SpatialIndexIterator)

	// Contains checks if a given item exists in the spatial index.
	Contains(item *Item) bool

	// Insert adds a new item to the spatial index.
	Insert(item *Item)

	// Remove deletes the item from the spatial index, if it exists.
	Remove(item *Item)

	// Reindex rebuilds the spatial index from the existing items
	// to optimize query performance.
	Reindex()

	// ReindexObject updates the spatial position of the given item.
	ReindexObject(item *Item)

	// Query calls `f` for every item whose box intersects `bb`.
	Query(bb Rect, f SpatialIndexQuery)

	// SegmentQuery performs a segment-based query using the line segment
	// defined by points `a` and `b`. Subtrees further than `tExit` along
	// the segment are skipped; `f` returns the fraction at which its item
	// is hit.
	SegmentQuery(a, b vec.Vec2, tExit float64, f SpatialIndexSegmentQuery)
}

// ItemBB returns the current box of an item.
func ItemBB(item *Item) Rect {
	return item.BoundingBox()
}

// ItemVelocity returns the current speed of an item, in meters per second.
func ItemVelocity(item *Item) vec.Vec2 {
	return item.Speed()
}

// CollideStatic calls f for each item of dynamic and each item of static
// sharing a positive area with it.
func CollideStatic(dynamic []*Item, static SpatialIndexer, f func(a, b *Item)) {
	if static == nil || static.Count() == 0 {
		return
	}
	for _, item := range dynamic {
		box := item.BoundingBox()
		static.Query(box, func(other *Item) {
			if other != item && other.BoundingBox().Overlaps(box) {
				f(item, other)
			}
		})
	}
}
