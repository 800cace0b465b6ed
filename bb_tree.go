package universe

import (
	"math"

	"github.com/setanarut/vec"
)

type Children struct {
	a, b *Node
}

type BBTreeVelocityFunc func(item *Item) vec.Vec2

// BBTree is a bounding box tree indexing items by their boxes.
//
// Leaves of moving items are fattened along their speed, so an item moving
// a little does not need to be reinserted at every step.
type BBTree struct {
	// bbfunc returns the exact box of an item.
	bbfunc SpatialIndexBB
	// velocityFunc, when set, fattens leaves along the item speed.
	velocityFunc BBTreeVelocityFunc
	// leaves maps each indexed item to its leaf node.
	leaves map[*Item]*Node
	// root is the root node of the bounding box tree.
	root *Node
	// pooledNodes is a reusable pool of nodes to optimize memory usage and allocation.
	pooledNodes *Node
}

// NewBBTree creates an empty tree. velocityFunc may be nil for items that
// never move.
func NewBBTree(bbfunc SpatialIndexBB, velocityFunc BBTreeVelocityFunc) *BBTree {
	if bbfunc == nil {
		bbfunc = ItemBB
	}
	return &BBTree{
		bbfunc:       bbfunc,
		velocityFunc: velocityFunc,
		leaves:       make(map[*Item]*Node),
	}
}

var _ SpatialIndexer = (*BBTree)(nil)

func (bbt *BBTree) Count() int {
	return len(bbt.leaves)
}

func (bbt *BBTree) Each(f SpatialIndexIterator) {
	for item := range bbt.leaves {
		f(item)
	}
}

func (bbt *BBTree) Contains(item *Item) bool {
	_, ok := bbt.leaves[item]
	return ok
}

func (bbt *BBTree) Insert(item *Item) {
	if bbt.Contains(item) {
		return
	}
	leaf := bbt.NewLeaf(item)
	bbt.leaves[item] = leaf
	bbt.root = bbt.SubtreeInsert(bbt.root, leaf)
}

func (bbt *BBTree) SubtreeInsert(subtree *Node, leaf *Node) *Node {
	if subtree == nil {
		return leaf
	}
	if subtree.IsLeaf() {
		return bbt.NewNode(leaf, subtree)
	}

	costA := subtree.b.bb.Area() + subtree.a.bb.MergedArea(leaf.bb)
	costB := subtree.a.bb.Area() + subtree.b.bb.MergedArea(leaf.bb)

	if costA == costB {
		costA = subtree.a.bb.Proximity(leaf.bb)
		costB = subtree.b.bb.Proximity(leaf.bb)
	}

	if costB < costA {
		NodeSetB(subtree, bbt.SubtreeInsert(subtree.b, leaf))
	} else {
		NodeSetA(subtree, bbt.SubtreeInsert(subtree.a, leaf))
	}

	subtree.bb = subtree.bb.Merge(leaf.bb)
	return subtree
}

func (bbt *BBTree) SubtreeRemove(subtree *Node, leaf *Node) *Node {
	if leaf == subtree {
		return nil
	}

	parent := leaf.parent
	if parent == subtree {
		other := subtree.Other(leaf)
		other.parent = subtree.parent
		bbt.RecycleNode(subtree)
		return other
	}

	bbt.ReplaceChild(parent.parent, parent, parent.Other(leaf))
	return subtree
}

func (bbt *BBTree) ReplaceChild(parent, child, value *Node) {
	if parent.a == child {
		bbt.RecycleNode(parent.a)
		NodeSetA(parent, value)
	} else {
		bbt.RecycleNode(parent.b)
		NodeSetB(parent, value)
	}

	for node := parent; node != nil; node = node.parent {
		node.bb = node.a.bb.Merge(node.b.bb)
	}
}

func (bbt *BBTree) Remove(item *Item) {
	leaf, ok := bbt.leaves[item]
	if !ok {
		return
	}
	delete(bbt.leaves, item)

	bbt.root = bbt.SubtreeRemove(bbt.root, leaf)
	bbt.RecycleNode(leaf)
}

// Reindex rebuilds the whole tree from the current item boxes.
func (bbt *BBTree) Reindex() {
	for _, leaf := range bbt.leaves {
		bbt.root = bbt.SubtreeRemove(bbt.root, leaf)
		leaf.parent = nil
	}
	for item, leaf := range bbt.leaves {
		leaf.bb = bbt.GetBB(item)
		bbt.root = bbt.SubtreeInsert(bbt.root, leaf)
	}
}

func (bbt *BBTree) ReindexObject(item *Item) {
	if leaf, ok := bbt.leaves[item]; ok {
		bbt.LeafUpdate(leaf)
	}
}

// LeafUpdate reinserts a leaf whose item left its fattened box. It reports
// whether the leaf moved.
func (bbt *BBTree) LeafUpdate(leaf *Node) bool {
	bb := bbt.bbfunc(leaf.obj)

	if !leaf.bb.Contains(bb) {
		leaf.bb = bbt.GetBB(leaf.obj)

		root := bbt.SubtreeRemove(bbt.root, leaf)
		leaf.parent = nil
		bbt.root = bbt.SubtreeInsert(root, leaf)
		return true
	}

	return false
}

// Query calls f for every item whose box intersects bb.
func (bbt *BBTree) Query(bb Rect, f SpatialIndexQuery) {
	if bbt.root != nil {
		bbt.root.SubtreeQuery(bb, func(item *Item) {
			if bbt.bbfunc(item).Intersects(bb) {
				f(item)
			}
		})
	}
}

// SegmentQuery walks the items hit by the segment a-b, nearest subtrees
// first. f returns the fraction at which the item is hit, shortening the
// walk.
func (bbt *BBTree) SegmentQuery(a, b vec.Vec2, tExit float64, f SpatialIndexSegmentQuery) {
	if bbt.root != nil {
		bbt.root.SubtreeSegmentQuery(a, b, tExit, f)
	}
}

// GetBB returns the box stored in the leaf of item. The velocity func must
// return a displacement per second in the units of the boxes.
func (bbt *BBTree) GetBB(item *Item) Rect {
	bb := bbt.bbfunc(item)
	if bbt.velocityFunc != nil {
		coef := 0.1
		x := (bb.R - bb.L) * coef
		y := (bb.T - bb.B) * coef

		v := bbt.velocityFunc(item).Scale(0.1)
		return Rect{
			bb.L + math.Min(-x, v.X),
			bb.B + math.Min(-y, v.Y),
			bb.R + math.Max(x, v.X),
			bb.T + math.Max(y, v.Y),
		}
	}

	return bb
}

func (bbt *BBTree) NewNode(a, b *Node) *Node {
	node := bbt.NodeFromPool()
	node.obj = nil
	node.bb = a.bb.Merge(b.bb)
	node.parent = nil

	NodeSetA(node, a)
	NodeSetB(node, b)
	return node
}

func (bbt *BBTree) NewLeaf(item *Item) *Node {
	node := bbt.NodeFromPool()
	node.obj = item
	node.bb = bbt.GetBB(item)
	node.parent = nil
	node.a, node.b = nil, nil

	return node
}

func (bbt *BBTree) NodeFromPool() *Node {
	node := bbt.pooledNodes

	if node != nil {
		bbt.pooledNodes = node.parent
		return node
	}

	// Pool is exhausted make more
	for range pooledBufferSize {
		bbt.RecycleNode(&Node{})
	}

	return &Node{}
}

func (bbt *BBTree) RecycleNode(node *Node) {
	node.obj = nil
	node.parent = bbt.pooledNodes
	bbt.pooledNodes = node
}

type Node struct {
	obj    *Item
	bb     Rect
	parent *Node

	Children
}

func NodeSetA(node, value *Node) {
	node.a = value
	value.parent = node
}

func NodeSetB(node, value *Node) {
	node.b = value
	value.parent = node
}

func (node *Node) Other(child *Node) *Node {
	if node.a == child {
		return node.b
	}
	return node.a
}

func (node *Node) IsLeaf() bool {
	return node.obj != nil
}

func (subtree *Node) SubtreeQuery(bb Rect, query SpatialIndexQuery) {
	if subtree.bb.Intersects(bb) {
		if subtree.IsLeaf() {
			query(subtree.obj)
		} else {
			subtree.a.SubtreeQuery(bb, query)
			subtree.b.SubtreeQuery(bb, query)
		}
	}
}

func (subtree *Node) SubtreeSegmentQuery(a, b vec.Vec2, tExit float64, f SpatialIndexSegmentQuery) float64 {
	if subtree.IsLeaf() {
		return f(subtree.obj)
	}

	tA := subtree.a.bb.SegmentQuery(a, b)
	tB := subtree.b.bb.SegmentQuery(a, b)

	if tA < tB {
		if tA < tExit {
			tExit = math.Min(tExit, subtree.a.SubtreeSegmentQuery(a, b, tExit, f))
		}
		if tB < tExit {
			tExit = math.Min(tExit, subtree.b.SubtreeSegmentQuery(a, b, tExit, f))
		}
	} else {
		if tB < tExit {
			tExit = math.Min(tExit, subtree.b.SubtreeSegmentQuery(a, b, tExit, f))
		}
		if tA < tExit {
			tExit = math.Min(tExit, subtree.a.SubtreeSegmentQuery(a, b, tExit, f))
		}
	}

	return tExit
}
