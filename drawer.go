package universe

import (
	"fmt"

	"github.com/setanarut/vec"
)

// Draw flags
const (
	DrawItems        = 1 << 0
	DrawLinks        = 1 << 1
	DrawContactMarks = 1 << 2
	DrawRegions      = 1 << 3
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

type Drawer interface {
	DrawBox(box Rect, outline, fill FColor, data any)
	DrawSegment(a, b vec.Vec2, fill FColor, data any)
	DrawDot(size float64, pos vec.Vec2, fill FColor, data any)

	Flags() uint
	OutlineColor() FColor
	ItemColor(item *Item, data any) FColor
	LinkColor() FColor
	ContactColor() FColor
	RegionColor() FColor
	Data() any
}

// DrawItem draws an item with the drawer implementation
func DrawItem(item *Item, drawer Drawer) {
	data := drawer.Data()
	drawer.DrawBox(item.BoundingBox(), drawer.OutlineColor(), drawer.ItemColor(item, data), data)
}

var springVerts = []vec.Vec2{
	{X: 0.00, Y: 0.0},
	{X: 0.20, Y: 0.0},
	{X: 0.25, Y: 3.0},
	{X: 0.30, Y: -6.0},
	{X: 0.35, Y: 6.0},
	{X: 0.40, Y: -6.0},
	{X: 0.45, Y: 6.0},
	{X: 0.50, Y: -6.0},
	{X: 0.55, Y: 6.0},
	{X: 0.60, Y: -6.0},
	{X: 0.65, Y: 6.0},
	{X: 0.70, Y: -3.0},
	{X: 0.75, Y: 6.0},
	{X: 0.80, Y: 0.0},
	{X: 1.00, Y: 0.0},
}

// DrawLink draws links with the drawer implementation
func DrawLink(link Linker, drawer Drawer) {
	data := drawer.Data()
	color := drawer.LinkColor()
	a, b := link.Anchors()

	drawer.DrawDot(5, a, color, data)
	drawer.DrawDot(5, b, color, data)

	switch link.(type) {
	case *ChainLink:
		drawer.DrawSegment(a, b, color, data)
	case *Link:
		delta := b.Sub(a)
		side := orthonormalAnticlockwise(delta)
		if isZeroVec(side) {
			return
		}

		verts := make([]vec.Vec2, 0, len(springVerts))
		for _, vt := range springVerts {
			// the spring gets narrower as it shortens
			verts = append(verts, a.Add(delta.Scale(vt.X)).Add(side.Scale(vt.Y*delta.Mag()/48)))
		}

		for i := 0; i < len(verts)-1; i++ {
			drawer.DrawSegment(verts[i], verts[i+1], color, data)
		}
	default:
		panic(fmt.Sprintf("Implement me: %#v", link))
	}
}

// DrawContacts marks the sides of item touching another item.
func DrawContacts(item *Item, drawer Drawer) {
	data := drawer.Data()
	color := drawer.ContactColor()
	box := item.BoundingBox()
	c := item.Contacts()

	if c.Has(ContactBottom) {
		drawer.DrawSegment(box.BottomLeft(), box.BottomRight(), color, data)
	}
	if c.Has(ContactTop) {
		drawer.DrawSegment(box.TopLeft(), box.TopRight(), color, data)
	}
	if c.Has(ContactLeft) {
		drawer.DrawSegment(box.BottomLeft(), box.TopLeft(), color, data)
	}
	if c.Has(ContactRight) {
		drawer.DrawSegment(box.BottomRight(), box.TopRight(), color, data)
	}
}

// DrawWorld draws the world with the drawer implementation, as selected by
// the drawer flags.
func DrawWorld(world *World, drawer Drawer) {
	flags := drawer.Flags()
	data := drawer.Data()

	if flags&DrawRegions != 0 {
		outline := drawer.RegionColor()
		none := FColor{}
		world.Forces.Each(func(r *Region[vec.Vec2]) {
			drawer.DrawBox(r.Box, outline, none, data)
		})
		world.Frictions.Each(func(r *Region[float64]) {
			drawer.DrawBox(r.Box, outline, none, data)
		})
		world.Densities.Each(func(r *Region[float64]) {
			drawer.DrawBox(r.Box, outline, none, data)
		})
		world.Environments.Each(func(r *Region[Environment]) {
			drawer.DrawBox(r.Box, outline, none, data)
		})
	}

	if flags&DrawItems != 0 {
		world.EachItem(func(item *Item) {
			DrawItem(item, drawer)
		})
	}

	if flags&DrawLinks != 0 {
		world.EachLink(func(l Linker) {
			DrawLink(l, drawer)
		})
	}

	if flags&DrawContactMarks != 0 {
		world.EachItem(func(item *Item) {
			if item.Contacts().Any() {
				DrawContacts(item, drawer)
			}
		})
	}
}
