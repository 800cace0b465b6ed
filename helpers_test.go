package universe_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/universe"
	"github.com/setanarut/vec"
)

const tolerance = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < tolerance || mgl64.FloatEqualThreshold(a, b, tolerance)
}

func nearVec(a, b vec.Vec2) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func nearRect(a, b universe.Rect) bool {
	return near(a.L, b.L) && near(a.B, b.B) && near(a.R, b.R) && near(a.T, b.T)
}

// mustViolate fails the test unless f panics with a *universe.ContractError.
func mustViolate(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		err, ok := r.(error)
		var ce *universe.ContractError
		if !ok || !errors.As(err, &ce) {
			t.Errorf("expected a contract violation, got %v", r)
		}
	}()
	f()
}

func box(l, b, r, t float64) universe.Rect {
	return universe.Rect{L: l, B: b, R: r, T: t}
}

// newItem returns a pushable item of mass 1 without self friction.
func newItem(r universe.Rect) *universe.Item {
	attr := universe.DefaultAttributes(r)
	attr.SelfFriction = 1
	return universe.NewItem(attr)
}
