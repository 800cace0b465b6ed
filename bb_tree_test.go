package universe_test

import (
	"slices"
	"testing"

	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

func queryAll(tree *universe.BBTree, r universe.Rect) []*universe.Item {
	var found []*universe.Item
	tree.Query(r, func(item *universe.Item) {
		found = append(found, item)
	})
	return found
}

func TestBBTreeInsertRemove(t *testing.T) {
	tree := universe.NewBBTree(nil, nil)
	a := newItem(box(0, 0, 1, 1))
	b := newItem(box(2, 0, 3, 1))
	c := newItem(box(10, 10, 11, 11))

	tree.Insert(a)
	tree.Insert(b)
	tree.Insert(c)
	tree.Insert(a)
	if tree.Count() != 3 {
		t.Fatalf("got %d items, want 3", tree.Count())
	}

	tree.Remove(b)
	if tree.Count() != 2 || tree.Contains(b) {
		t.Error("b should be removed")
	}
	if !tree.Contains(a) || !tree.Contains(c) {
		t.Error("a and c should stay")
	}
	tree.Remove(b)
	if tree.Count() != 2 {
		t.Error("removing a missing item should do nothing")
	}

	tree.Remove(a)
	tree.Remove(c)
	if tree.Count() != 0 {
		t.Error("tree should be empty")
	}
	if found := queryAll(tree, box(-100, -100, 100, 100)); len(found) != 0 {
		t.Errorf("empty tree found %v", found)
	}
}

func TestBBTreeQuery(t *testing.T) {
	tree := universe.NewBBTree(nil, nil)
	a := newItem(box(0, 0, 1, 1))
	b := newItem(box(2, 0, 3, 1))
	c := newItem(box(10, 10, 11, 11))
	for _, item := range []*universe.Item{a, b, c} {
		tree.Insert(item)
	}

	tests := []struct {
		name  string
		query universe.Rect
		want  []*universe.Item
	}{
		{"both near", box(0.5, 0, 2.5, 0.5), []*universe.Item{a, b}},
		{"touching edge", box(1, 0, 1.5, 1), []*universe.Item{a}},
		{"far", box(10.5, 10.5, 20, 20), []*universe.Item{c}},
		{"nothing", box(5, 5, 6, 6), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryAll(tree, tt.query)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for _, item := range tt.want {
				if !slices.Contains(got, item) {
					t.Errorf("%v not found", item)
				}
			}
		})
	}
}

func TestBBTreeReindex(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		tree := universe.NewBBTree(nil, nil)
		a := newItem(box(0, 0, 1, 1))
		b := newItem(box(2, 0, 3, 1))
		tree.Insert(a)
		tree.Insert(b)

		a.SetBoundingBox(box(20, 20, 21, 21))
		if found := queryAll(tree, box(19, 19, 22, 22)); len(found) != 0 {
			t.Fatalf("stale leaf should not be found yet, got %v", found)
		}

		tree.ReindexObject(a)
		found := queryAll(tree, box(19, 19, 22, 22))
		if len(found) != 1 || found[0] != a {
			t.Errorf("got %v, want [a]", found)
		}
		if found := queryAll(tree, box(2.5, 0.5, 2.6, 0.6)); len(found) != 1 || found[0] != b {
			t.Errorf("b lost after reindexing a: %v", found)
		}
	})

	t.Run("whole tree", func(t *testing.T) {
		tree := universe.NewBBTree(nil, nil)
		items := []*universe.Item{
			newItem(box(0, 0, 1, 1)),
			newItem(box(2, 0, 3, 1)),
			newItem(box(4, 0, 5, 1)),
		}
		for _, item := range items {
			tree.Insert(item)
		}
		for i, item := range items {
			item.SetBoundingBox(box(float64(i)*10+50, 50, float64(i)*10+51, 51))
		}

		tree.Reindex()
		if tree.Count() != 3 {
			t.Fatalf("got %d items, want 3", tree.Count())
		}
		for _, item := range items {
			found := queryAll(tree, item.BoundingBox())
			if len(found) != 1 || found[0] != item {
				t.Errorf("query at %v got %v", item.BoundingBox(), found)
			}
		}
	})
}

func TestBBTreeFattenedLeaves(t *testing.T) {
	tree := universe.NewBBTree(universe.ItemBB, universe.ItemVelocity)
	a := newItem(box(0, 0, 10, 10))
	a.SetSpeed(vec.Vec2{X: 50})
	tree.Insert(a)

	if got, want := tree.GetBB(a), box(-1, -1, 15, 11); !nearRect(got, want) {
		t.Errorf("leaf box %v, want %v", got, want)
	}
	// the leaf covers it but the item does not
	if found := queryAll(tree, box(12, 0, 13, 1)); len(found) != 0 {
		t.Errorf("query outside the item found %v", found)
	}
}

func TestBBTreeSegmentQuery(t *testing.T) {
	tree := universe.NewBBTree(nil, nil)
	nearest := newItem(box(2, -1, 3, 1))
	far := newItem(box(5, -1, 6, 1))
	tree.Insert(far)
	tree.Insert(nearest)

	a, b := vec.Vec2{}, vec.Vec2{X: 10}
	var visited []*universe.Item
	tree.SegmentQuery(a, b, 1, func(item *universe.Item) float64 {
		visited = append(visited, item)
		return item.BoundingBox().SegmentQuery(a, b)
	})

	if len(visited) != 1 || visited[0] != nearest {
		t.Errorf("visited %v, want only the nearest item", visited)
	}
}

func TestCollideStatic(t *testing.T) {
	static := universe.NewBBTree(nil, nil)
	floor := universe.NewStaticItem(box(0, -1, 10, 0))
	wall := universe.NewStaticItem(box(5, 0, 6, 5))
	static.Insert(floor)
	static.Insert(wall)

	resting := newItem(box(1, 0, 2, 1))
	corner := newItem(box(4.5, -0.5, 5.5, 0.5))
	away := newItem(box(20, 20, 21, 21))

	got := make(map[[2]*universe.Item]int)
	universe.CollideStatic([]*universe.Item{resting, corner, away}, static, func(a, b *universe.Item) {
		got[[2]*universe.Item{a, b}]++
	})

	want := map[[2]*universe.Item]int{
		{corner, floor}: 1,
		{corner, wall}:  1,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("pair %v reported %d times, want %d", k, got[k], n)
		}
	}

	universe.CollideStatic([]*universe.Item{corner}, nil, func(a, b *universe.Item) {
		t.Error("no static index, no pair")
	})
}

func TestRegionSelector(t *testing.T) {
	w := newTestWorld()
	floor := w.AddStatic(box(-10, -1, 10, 0))
	a := newItem(box(0, 0, 1, 1))
	far := newItem(box(50, 50, 51, 51))
	global := newItem(box(-50, 50, -49, 51))
	global.SetFlags(universe.CanMoveItems | universe.Global)
	dead := newItem(box(2, 0, 3, 1))
	for _, item := range []*universe.Item{a, far, global, dead} {
		w.Add(item)
	}
	if err := w.Kill(dead); err != nil {
		t.Fatal(err)
	}

	regions := []universe.Rect{box(-1, -1, 4, 2), box(0, 0, 0.5, 0.5)}
	got := universe.RegionSelector{}.Select(w, regions)
	want := []*universe.Item{a, global}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if slices.Contains(got, floor) {
		t.Error("static items are never selected")
	}
}

func TestSelectorFunc(t *testing.T) {
	w := newTestWorld()
	a := newItem(box(0, 0, 1, 1))
	b := newItem(box(5, 0, 6, 1))
	w.Add(a)
	w.Add(b)

	var calls int
	w.Selector = universe.SelectorFunc(func(w *universe.World, regions []universe.Rect) []*universe.Item {
		calls++
		if len(regions) != 1 || regions[0] != w.Size {
			t.Errorf("regions %v, want the world size", regions)
		}
		return []*universe.Item{b}
	})
	w.Step(nil, 0.1)

	if calls != 1 {
		t.Errorf("selector called %d times", calls)
	}
	if a.Position() != (vec.Vec2{}) {
		t.Error("unselected item moved")
	}
	if b.Position().Y >= 0 {
		t.Error("selected item should fall")
	}
}
