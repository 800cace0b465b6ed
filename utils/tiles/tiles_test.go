package tiles_test

import (
	"testing"

	"github.com/setanarut/universe"
	"github.com/setanarut/universe/utils/tiles"
	"github.com/setanarut/vec"
)

// grid samples unit cells of rows, written top row first.
func grid(rows ...string) tiles.SampleFunc {
	return func(p vec.Vec2) float64 {
		r := len(rows) - 1 - int(p.Y)
		if rows[r][int(p.X)] == '#' {
			return 1
		}
		return 0
	}
}

func TestBoxes(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want []universe.Rect
	}{
		{
			name: "empty",
			rows: []string{"...", "..."},
			want: nil,
		},
		{
			name: "full",
			rows: []string{"###", "###"},
			want: []universe.Rect{{L: 0, B: 0, R: 3, T: 2}},
		},
		{
			name: "cup",
			rows: []string{
				"#..#",
				"#..#",
				"####",
			},
			want: []universe.Rect{
				{L: 0, B: 0, R: 4, T: 1},
				{L: 0, B: 1, R: 1, T: 3},
				{L: 3, B: 1, R: 4, T: 3},
			},
		},
		{
			name: "platforms",
			rows: []string{
				"##..",
				"....",
				".###",
			},
			want: []universe.Rect{
				{L: 1, B: 0, R: 4, T: 1},
				{L: 0, B: 2, R: 2, T: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := len(tt.rows[0]), len(tt.rows)
			bounds := universe.Rect{R: float64(cols), T: float64(rows)}
			got := tiles.Boxes(bounds, cols, rows, 0.5, grid(tt.rows...))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("box %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBoxesScalesCells(t *testing.T) {
	bounds := universe.Rect{L: 10, B: 20, R: 18, T: 24}
	got := tiles.Boxes(bounds, 2, 2, 0.5, func(p vec.Vec2) float64 {
		if p.X < 14 {
			return 1
		}
		return 0
	})
	want := universe.Rect{L: 10, B: 20, R: 14, T: 24}
	if len(got) != 1 || got[0] != want {
		t.Errorf("got %v, want [%v]", got, want)
	}
}

func TestBoxesEmptyGrid(t *testing.T) {
	if got := tiles.Boxes(universe.Rect{R: 1, T: 1}, 0, 3, 0.5, grid("#")); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestPopulate(t *testing.T) {
	w := universe.NewWorld(universe.Rect{L: -10, B: -10, R: 10, T: 10})
	attr := universe.DefaultAttributes(universe.Rect{})
	attr.ContactFriction = 0.4
	attr.Elasticity = 0.5

	boxes := []universe.Rect{
		{L: 0, B: 0, R: 4, T: 1},
		{L: 0, B: 1, R: 1, T: 3},
	}
	items := tiles.Populate(w, boxes, attr)

	if len(items) != len(boxes) {
		t.Fatalf("got %d items, want %d", len(items), len(boxes))
	}
	if w.StaticItemCount() != len(boxes) {
		t.Errorf("world has %d static items", w.StaticItemCount())
	}
	for i, item := range items {
		if !item.IsStatic() || item.World() != w {
			t.Errorf("item %d should be static and in the world", i)
		}
		if item.BoundingBox() != boxes[i] {
			t.Errorf("item %d box %v, want %v", i, item.BoundingBox(), boxes[i])
		}
		if item.ContactFriction() != 0.4 || item.Elasticity() != 0.5 {
			t.Errorf("item %d friction %v elasticity %v", i, item.ContactFriction(), item.Elasticity())
		}
	}
}
