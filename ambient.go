package universe

import (
	"slices"

	"github.com/setanarut/vec"
)

// Region is a box carrying an ambient value. Box and Value may be changed in
// place through the handle returned by Add; the next query sees the change.
type Region[T any] struct {
	Box   Rect
	Value T
}

// RegionSet is an unordered collection of regions.
type RegionSet[T any] struct {
	regions []*Region[T]
}

// Add stores a new region and returns its handle.
func (s *RegionSet[T]) Add(box Rect, value T) *Region[T] {
	r := &Region[T]{Box: box, Value: value}
	s.regions = append(s.regions, r)
	return r
}

// Remove forgets a region. It reports whether the region was found.
func (s *RegionSet[T]) Remove(r *Region[T]) bool {
	i := slices.Index(s.regions, r)
	if i < 0 {
		return false
	}
	s.regions = slices.Delete(s.regions, i, i+1)
	return true
}

// Len returns the number of stored regions.
func (s *RegionSet[T]) Len() int {
	return len(s.regions)
}

// Each calls f for every region in insertion order.
func (s *RegionSet[T]) Each(f func(r *Region[T])) {
	for _, r := range s.regions {
		f(r)
	}
}

// Overlapping calls f with every region sharing a positive area with box,
// along with that shared part.
func (s *RegionSet[T]) Overlapping(box Rect, f func(r *Region[T], inter Rect)) {
	for _, r := range s.regions {
		if r.Box.Overlaps(box) {
			f(r, r.Box.Intersection(box))
		}
	}
}

// AmbientMap is a default value overridden by regions. Values are averaged
// over a box, weighted by area.
type AmbientMap[T any] struct {
	RegionSet[T]
	Default T

	add   func(a, b T) T
	scale func(a T, s float64) T
}

// NewAmbientMap creates a map over any value with the given arithmetic.
func NewAmbientMap[T any](def T, add func(a, b T) T, scale func(a T, s float64) T) *AmbientMap[T] {
	return &AmbientMap[T]{Default: def, add: add, scale: scale}
}

// NewForceMap creates a map of forces.
func NewForceMap(def vec.Vec2) *AmbientMap[vec.Vec2] {
	return NewAmbientMap(def,
		func(a, b vec.Vec2) vec.Vec2 { return a.Add(b) },
		func(a vec.Vec2, s float64) vec.Vec2 { return a.Scale(s) })
}

func addFloat(a, b float64) float64 { return a + b }

func scaleFloat(a, s float64) float64 { return a * s }

// NewFrictionMap creates a map of friction coefficients.
func NewFrictionMap(def float64) *AmbientMap[float64] {
	return NewAmbientMap(def, addFloat, scaleFloat)
}

// NewDensityMap creates a map of fluid densities.
func NewDensityMap(def float64) *AmbientMap[float64] {
	return NewAmbientMap(def, addFloat, scaleFloat)
}

// ValueAt returns the value of the first region including p, or the default.
func (m *AmbientMap[T]) ValueAt(p vec.Vec2) T {
	for _, r := range m.regions {
		if r.Box.Includes(p) {
			return r.Value
		}
	}
	return m.Default
}

// AverageIn returns the area-weighted mean value over box. The part of box
// not covered by any region counts with the default value. A box without
// area takes the value at its bottom-left corner.
func (m *AmbientMap[T]) AverageIn(box Rect) T {
	area := box.Area()
	if area <= 0 {
		return m.ValueAt(box.BottomLeft())
	}

	var sum T
	covered := 0.0
	m.Overlapping(box, func(r *Region[T], inter Rect) {
		a := inter.Area()
		covered += a
		sum = m.add(sum, m.scale(r.Value, a))
	})

	if covered < area {
		sum = m.add(sum, m.scale(m.Default, area-covered))
	}

	// overlapping regions may cover more than the box itself
	return m.scale(sum, 1/max(area, covered))
}

// Environment is a kind of surrounding an item can be in.
type Environment uint8

const (
	Air Environment = iota
	Ground
	Water
	Ice
	Fire
	Freezing
)

var environmentNames = [...]string{"air", "ground", "water", "ice", "fire", "freezing"}

func (e Environment) String() string {
	if int(e) < len(environmentNames) {
		return environmentNames[e]
	}
	return "unknown"
}

// EnvironmentMap tells which environments a box is in. Outside every region
// the default environment applies.
type EnvironmentMap struct {
	RegionSet[Environment]
	Default Environment
}

// NewEnvironmentMap creates an environment map with the given default.
func NewEnvironmentMap(def Environment) *EnvironmentMap {
	return &EnvironmentMap{Default: def}
}

// EnvironmentsAt returns the distinct environments box overlaps, in the order
// their regions were added. The default is included when part of the box is
// not covered.
func (m *EnvironmentMap) EnvironmentsAt(box Rect) []Environment {
	var envs []Environment
	covered := 0.0
	m.Overlapping(box, func(r *Region[Environment], inter Rect) {
		covered += inter.Area()
		if !slices.Contains(envs, r.Value) {
			envs = append(envs, r.Value)
		}
	})
	if covered < box.Area() || len(envs) == 0 {
		if !slices.Contains(envs, m.Default) {
			envs = append(envs, m.Default)
		}
	}
	return envs
}

// IsIn reports whether any part of box is in env.
func (m *EnvironmentMap) IsIn(box Rect, env Environment) bool {
	return slices.Contains(m.EnvironmentsAt(box), env)
}
