package universe

import (
	"testing"

	"github.com/setanarut/vec"
)

func TestDynamicLeavesFollowUnit(t *testing.T) {
	for _, tt := range []struct {
		unit float64
		want Rect
	}{
		{1, Rect{L: -1, B: -1, R: 11, T: 11}},
		{4, Rect{L: -1, B: -1, R: 12, T: 11}},
	} {
		w := NewWorld(Rect{L: -100, B: -100, R: 100, T: 100})
		w.Unit = tt.unit
		item := NewItem(DefaultAttributes(Rect{R: 10, T: 10}))
		item.SetSpeed(vec.Vec2{X: 5})
		w.Add(item)

		if got := w.dynamicItems.GetBB(item); got != tt.want {
			t.Errorf("unit %v: leaf %v, want %v", tt.unit, got, tt.want)
		}
	}
}
