// Package tiles builds static scenery from a sampled grid, such as a tile map
// or the alpha channel of an image.
package tiles

import (
	"cmp"
	"slices"

	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

// SampleFunc is a user defined function that gets passed the center of every
// cell of the grid. Cells whose sample is above the threshold are solid.
type SampleFunc func(point vec.Vec2) float64

// run is a horizontal span of solid cells, [c0, c1) on rows [r0, r1).
type run struct {
	c0, c1 int
	r0, r1 int
}

// Boxes splits bounds in cols x rows cells, samples them, and merges the
// solid ones into as few boxes as a row-then-column sweep finds: solid cells
// of a row are merged into runs, then runs spanning the same columns on
// consecutive rows are merged into one box. Rows go bottom to top.
func Boxes(bounds universe.Rect, cols, rows int, threshold float64, sample SampleFunc) []universe.Rect {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	cw := bounds.Width() / float64(cols)
	ch := bounds.Height() / float64(rows)

	var open, done []run
	for r := range rows {
		y := bounds.B + (float64(r)+0.5)*ch
		var current []run
		start := -1
		for c := 0; c <= cols; c++ {
			solid := c < cols && sample(vec.Vec2{X: bounds.L + (float64(c)+0.5)*cw, Y: y}) > threshold
			switch {
			case solid && start < 0:
				start = c
			case !solid && start >= 0:
				current = append(current, run{c0: start, c1: c, r0: r, r1: r + 1})
				start = -1
			}
		}

		var next []run
		for _, cur := range current {
			i := slices.IndexFunc(open, func(o run) bool { return o.c0 == cur.c0 && o.c1 == cur.c1 })
			if i >= 0 {
				cur.r0 = open[i].r0
				open = slices.Delete(open, i, i+1)
			}
			next = append(next, cur)
		}
		done = append(done, open...)
		open = next
	}
	done = append(done, open...)

	boxes := make([]universe.Rect, 0, len(done))
	for _, d := range done {
		boxes = append(boxes, universe.Rect{
			L: bounds.L + float64(d.c0)*cw,
			B: bounds.B + float64(d.r0)*ch,
			R: bounds.L + float64(d.c1)*cw,
			T: bounds.B + float64(d.r1)*ch,
		})
	}
	slices.SortFunc(boxes, func(a, b universe.Rect) int {
		return cmp.Or(cmp.Compare(a.B, b.B), cmp.Compare(a.L, b.L))
	})
	return boxes
}

// Populate registers every box as a static item of world, with the contact
// friction and elasticity of attr.
func Populate(world *universe.World, boxes []universe.Rect, attr universe.Attributes) []*universe.Item {
	items := make([]*universe.Item, 0, len(boxes))
	for _, box := range boxes {
		item := universe.NewStaticItem(box)
		item.SetContactFriction(attr.ContactFriction)
		item.SetElasticity(attr.Elasticity)
		world.Add(item)
		items = append(items, item)
	}
	return items
}
