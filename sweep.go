package universe

import (
	"cmp"
	"slices"
)

// itemPair is a candidate collision, ordered by item id.
type itemPair struct {
	a, b *Item
}

func newItemPair(a, b *Item) itemPair {
	if b.id.less(a.id) {
		a, b = b, a
	}
	return itemPair{a, b}
}

// sweepAndPrune finds the pairs of items sharing a positive area by sorting
// their boxes along the x axis. The buffer is reused between steps; items
// move little from one step to the next, so it stays nearly sorted.
type sweepAndPrune struct {
	sorted []*Item
	pairs  []itemPair
}

// update returns the overlapping pairs of items. The returned slice is reused
// by the next call.
func (s *sweepAndPrune) update(items []*Item) []itemPair {
	s.sorted = append(s.sorted[:0], items...)
	s.pairs = s.pairs[:0]

	slices.SortFunc(s.sorted, func(a, b *Item) int {
		if c := cmp.Compare(a.attr.Box.L, b.attr.Box.L); c != 0 {
			return c
		}
		return a.id.compare(b.id)
	})

	for i, a := range s.sorted {
		box := a.attr.Box
		for _, b := range s.sorted[i+1:] {
			if b.attr.Box.L >= box.R {
				break
			}
			if box.Overlaps(b.attr.Box) {
				s.pairs = append(s.pairs, newItemPair(a, b))
			}
		}
	}
	return s.pairs
}
