package main

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

// termDrawer renders a world on a tcell screen, one cell per character with
// y growing upwards.
type termDrawer struct {
	screen tcell.Screen
	view   universe.Rect
	flags  uint
	player *universe.Item
}

var _ universe.Drawer = (*termDrawer)(nil)

func toColor(c universe.FColor) tcell.Color {
	return tcell.NewRGBColor(int32(c.R*255), int32(c.G*255), int32(c.B*255))
}

// cell maps a world point to a screen cell. The last row is kept for the
// status line.
func (d *termDrawer) cell(p vec.Vec2) (int, int) {
	w, h := d.screen.Size()
	h--
	x := int(math.Floor((p.X - d.view.L) / d.view.Width() * float64(w)))
	y := h - 1 - int(math.Floor((p.Y-d.view.B)/d.view.Height()*float64(h)))
	return x, y
}

func (d *termDrawer) set(x, y int, r rune, c universe.FColor) {
	w, h := d.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	d.screen.SetContent(x, y, r, nil, tcell.StyleDefault.Foreground(toColor(c)))
}

func (d *termDrawer) DrawBox(box universe.Rect, outline, fill universe.FColor, _ any) {
	x0, y1 := d.cell(box.BottomLeft())
	x1, y0 := d.cell(box.TopRight())
	// the right and top edges belong to the next cells
	x1 = max(x0, x1-1)
	y0 = min(y1, y0+1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			switch {
			case fill.A > 0:
				d.set(x, y, '█', fill)
			case x == x0 || x == x1 || y == y0 || y == y1:
				d.set(x, y, '·', outline)
			}
		}
	}
}

func (d *termDrawer) DrawSegment(a, b vec.Vec2, fill universe.FColor, _ any) {
	ax, ay := d.cell(a)
	bx, by := d.cell(b)
	n := max(abs(bx-ax), abs(by-ay), 1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		x := int(math.Round(float64(ax) + t*float64(bx-ax)))
		y := int(math.Round(float64(ay) + t*float64(by-ay)))
		d.set(x, y, '•', fill)
	}
}

func (d *termDrawer) DrawDot(_ float64, pos vec.Vec2, fill universe.FColor, _ any) {
	x, y := d.cell(pos)
	d.set(x, y, 'o', fill)
}

func (d *termDrawer) Flags() uint { return d.flags }

func (d *termDrawer) OutlineColor() universe.FColor {
	return universe.FColor{R: 0.8, G: 0.8, B: 0.8, A: 1}
}

func (d *termDrawer) ItemColor(item *universe.Item, _ any) universe.FColor {
	switch {
	case item == d.player:
		return universe.FColor{R: 0.3, G: 1, B: 0.3, A: 1}
	case item.IsStatic():
		return universe.FColor{R: 0.5, G: 0.5, B: 0.5, A: 1}
	case item.IsForced():
		return universe.FColor{R: 0.3, G: 0.5, B: 1, A: 1}
	}
	return universe.FColor{R: 0.9, G: 0.6, B: 0.2, A: 1}
}

func (d *termDrawer) LinkColor() universe.FColor {
	return universe.FColor{R: 1, G: 1, B: 0.4, A: 1}
}

func (d *termDrawer) ContactColor() universe.FColor {
	return universe.FColor{R: 1, G: 0.2, B: 0.2, A: 1}
}

func (d *termDrawer) RegionColor() universe.FColor {
	return universe.FColor{R: 0.2, G: 0.8, B: 1, A: 1}
}

func (d *termDrawer) Data() any { return nil }

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
