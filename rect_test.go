package universe_test

import (
	"math"
	"testing"

	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

func TestNewRectNormalizesCorners(t *testing.T) {
	if got, want := universe.NewRect(3, 4, 1, 2), box(1, 2, 3, 4); got != want {
		t.Errorf("got %v want %v", got, want)
	}
}

func TestNewRectSize(t *testing.T) {
	r := universe.NewRectSize(vec.Vec2{X: 1, Y: 2}, vec.Vec2{X: 3, Y: 4})
	if got, want := r, box(1, 2, 4, 6); got != want {
		t.Errorf("got %v want %v", got, want)
	}
	if r.Area() != 12 {
		t.Errorf("area %v", r.Area())
	}
	if got, want := r.Center(), (vec.Vec2{X: 2.5, Y: 4}); got != want {
		t.Errorf("center %v want %v", got, want)
	}

	mustViolate(t, func() { universe.NewRectSize(vec.Vec2{}, vec.Vec2{X: -1, Y: 1}) })
	mustViolate(t, func() { universe.NewRectSize(vec.Vec2{}, vec.Vec2{X: 1, Y: math.NaN()}) })
}

func TestRectIntersectsAndOverlaps(t *testing.T) {
	a := box(0, 0, 1, 1)
	tests := []struct {
		name       string
		b          universe.Rect
		intersects bool
		overlaps   bool
	}{
		{"inside", box(0.25, 0.25, 0.75, 0.75), true, true},
		{"edge", box(1, 0, 2, 1), true, false},
		{"corner", box(1, 1, 2, 2), true, false},
		{"apart", box(1.5, 0, 2, 1), false, false},
		{"crossing", box(0.5, -1, 0.6, 2), true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.intersects {
				t.Errorf("Intersects = %v", got)
			}
			if got := a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("Overlaps = %v", got)
			}
			if a.Overlaps(tt.b) != tt.b.Overlaps(a) {
				t.Error("Overlaps is not symmetric")
			}
		})
	}
}

func TestRectIntersection(t *testing.T) {
	a := box(0, 0, 4, 4)
	if got, want := a.Intersection(box(2, 1, 6, 3)), box(2, 1, 4, 3); got != want {
		t.Errorf("got %v want %v", got, want)
	}
	if got := a.Intersection(box(5, 5, 6, 6)); got != (universe.Rect{}) {
		t.Errorf("disjoint boxes intersect in %v", got)
	}
	if got := a.Intersection(box(4, 0, 5, 4)); got.Area() != 0 {
		t.Errorf("touching boxes share area %v", got.Area())
	}
}

func TestRectMergeContains(t *testing.T) {
	a, b := box(0, 0, 1, 1), box(2, -1, 3, 0.5)
	m := a.Merge(b)
	if got, want := m, box(0, -1, 3, 1); got != want {
		t.Errorf("got %v want %v", got, want)
	}
	if !m.Contains(a) || !m.Contains(b) || a.Contains(m) {
		t.Error("merge should contain both boxes")
	}
	if got, want := a.Expand(vec.Vec2{X: -1, Y: 2}), box(-1, 0, 1, 2); got != want {
		t.Errorf("expand got %v want %v", got, want)
	}
	if !a.Includes(vec.Vec2{X: 1, Y: 1}) || a.Includes(vec.Vec2{X: 1.1, Y: 1}) {
		t.Error("Includes must be closed")
	}
}

func TestRectMoveEdges(t *testing.T) {
	r := box(0.1, 0.2, 0.4, 0.9)
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"left", r.MoveLeftTo(0.3).L, 0.3},
		{"right", r.MoveRightTo(1.7).R, 1.7},
		{"bottom", r.MoveBottomTo(-0.3).B, -0.3},
		{"top", r.MoveTopTo(0.7).T, 0.7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the aligned edge is set exactly, not recomputed from the size
			if tt.got != tt.want {
				t.Errorf("got %v want %v", tt.got, tt.want)
			}
		})
	}

	moved := r.MoveTo(vec.Vec2{X: 5, Y: 5})
	if !near(moved.Width(), r.Width()) || !near(moved.Height(), r.Height()) {
		t.Errorf("MoveTo changed the size: %v", moved)
	}
	if got, want := r.Offset(vec.Vec2{X: 1, Y: -1}), box(1.1, -0.8, 1.4, -0.1); !nearRect(got, want) {
		t.Errorf("offset got %v want %v", got, want)
	}
}

func TestRectSegmentQuery(t *testing.T) {
	r := box(0, 0, 1, 1)
	tests := []struct {
		name string
		a, b vec.Vec2
		want float64
	}{
		{"through", vec.Vec2{X: -1, Y: 0.5}, vec.Vec2{X: 1, Y: 0.5}, 0.5},
		{"from inside", vec.Vec2{X: 0.5, Y: 0.5}, vec.Vec2{X: 3, Y: 0.5}, 0},
		{"above", vec.Vec2{X: -1, Y: 2}, vec.Vec2{X: 1, Y: 2}, math.Inf(1)},
		{"too short", vec.Vec2{X: -3, Y: 0.5}, vec.Vec2{X: -1, Y: 0.5}, math.Inf(1)},
		{"diagonal", vec.Vec2{X: -1, Y: -1}, vec.Vec2{X: 1, Y: 1}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.SegmentQuery(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("got %v want %v", got, tt.want)
			}
			if r.IntersectsSegment(tt.a, tt.b) == math.IsInf(tt.want, 1) {
				t.Error("IntersectsSegment disagrees with SegmentQuery")
			}
		})
	}
}

func TestRectClampVect(t *testing.T) {
	r := box(0, 0, 2, 2)
	if got, want := r.ClampVect(vec.Vec2{X: 3, Y: -1}), (vec.Vec2{X: 2, Y: 0}); got != want {
		t.Errorf("got %v want %v", got, want)
	}
	if got, want := r.ClampVect(vec.Vec2{X: 1, Y: 1}), (vec.Vec2{X: 1, Y: 1}); got != want {
		t.Errorf("got %v want %v", got, want)
	}
}
