package universe_test

import (
	"slices"
	"testing"

	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

func TestForceMapAverage(t *testing.T) {
	m := universe.NewForceMap(vec.Vec2{})
	m.Add(box(10, 10, 20, 20), vec.Vec2{X: 3, Y: 2})
	m.Add(box(20, 10, 30, 20), vec.Vec2{X: 4, Y: 3})

	tests := []struct {
		name  string
		query universe.Rect
		want  vec.Vec2
	}{
		{"two regions", box(15, 12, 25, 17), vec.Vec2{X: 3.5, Y: 2.5}},
		{"half covered", box(5, 10, 15, 20), vec.Vec2{X: 1.5, Y: 1}},
		{"inside one", box(12, 12, 14, 14), vec.Vec2{X: 3, Y: 2}},
		{"outside", box(50, 50, 60, 60), vec.Vec2{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.AverageIn(tt.query); !nearVec(got, tt.want) {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}
}

func TestFrictionMapDefault(t *testing.T) {
	m := universe.NewFrictionMap(1)
	m.Add(box(10, 10, 20, 20), 2)

	if got := m.AverageIn(box(5, 10, 15, 20)); !near(got, 1.5) {
		t.Errorf("got %v want 1.5", got)
	}
	if got := m.ValueAt(vec.Vec2{X: 15, Y: 15}); got != 2 {
		t.Errorf("value at got %v want 2", got)
	}
	if got := m.ValueAt(vec.Vec2{}); got != 1 {
		t.Errorf("default got %v want 1", got)
	}
	// a box without area reads the value at its corner
	if got := m.AverageIn(box(15, 15, 15, 18)); got != 2 {
		t.Errorf("flat box got %v want 2", got)
	}
}

func TestDensityMapOverlappingRegions(t *testing.T) {
	m := universe.NewDensityMap(0)
	m.Add(box(0, 0, 10, 10), 1)
	m.Add(box(0, 0, 10, 10), 3)

	// overlapping regions are averaged rather than summed
	if got := m.AverageIn(box(2, 2, 4, 4)); !near(got, 2) {
		t.Errorf("got %v want 2", got)
	}
}

func TestRegionSetRemove(t *testing.T) {
	m := universe.NewFrictionMap(1)
	r := m.Add(box(0, 0, 10, 10), 0.5)
	m.Add(box(20, 0, 30, 10), 0.25)

	if m.Len() != 2 {
		t.Fatalf("len %d", m.Len())
	}
	if !m.Remove(r) {
		t.Error("region should be removed")
	}
	if m.Remove(r) {
		t.Error("region removed twice")
	}
	if got := m.AverageIn(box(0, 0, 10, 10)); got != 1 {
		t.Errorf("got %v after removal", got)
	}
}

func TestEnvironmentsAt(t *testing.T) {
	m := universe.NewEnvironmentMap(universe.Air)
	m.Add(box(0, 0, 10, 10), universe.Water)
	m.Add(box(10, 0, 20, 10), universe.Ice)

	tests := []struct {
		name  string
		query universe.Rect
		want  []universe.Environment
	}{
		{"inside", box(2, 2, 4, 4), []universe.Environment{universe.Water}},
		{"partly", box(5, 5, 15, 15), []universe.Environment{universe.Water, universe.Ice, universe.Air}},
		{"covered by two", box(5, 2, 15, 4), []universe.Environment{universe.Water, universe.Ice}},
		{"outside", box(20, 20, 30, 30), []universe.Environment{universe.Air}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.EnvironmentsAt(tt.query); !slices.Equal(got, tt.want) {
				t.Errorf("got %v want %v", got, tt.want)
			}
		})
	}

	if !m.IsIn(box(9, 9, 11, 11), universe.Ice) || m.IsIn(box(2, 2, 4, 4), universe.Air) {
		t.Error("IsIn")
	}
	if got := universe.Water.String(); got != "water" {
		t.Errorf("got %q", got)
	}
}
