package universe

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/setanarut/vec"
)

const (
	pooledBufferSize        int = 1024
	defaultResolutionPasses int = 10
)

// infinity is the mass of static items. It must stay a genuine IEEE-754
// infinity: correction shares rely on m/(m+inf) == 0.
var infinity = mgl64.InfPos

var (
	// ErrStaleItem is returned when an ItemID refers to a slot that was reused.
	ErrStaleItem = errors.New("universe: stale item id")
	// ErrNotInWorld is returned when an item is used with a world it does not belong to.
	ErrNotInWorld = errors.New("universe: item is not in this world")
)

// ContractError is the panic value raised when a caller breaks a precondition
// of the physics core.
type ContractError struct {
	Op  string
	Msg string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("universe: %s: %s", e.Op, e.Msg)
}

func violation(op, format string, args ...any) {
	panic(&ContractError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// Unit coefficients (friction, elasticity) live in [0, 1].
func clamp01(f float64) float64 {
	return mgl64.Clamp(f, 0, 1)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isFiniteVec(v vec.Vec2) bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func isZeroVec(v vec.Vec2) bool {
	return v.X == 0 && v.Y == 0
}

// unitOrZero normalizes v, returning the zero vector for a zero-length input.
func unitOrZero(v vec.Vec2) vec.Vec2 {
	if isZeroVec(v) || !isFiniteVec(v) {
		return vec.Vec2{}
	}
	return v.Unit()
}

// orthonormalAnticlockwise returns v rotated by +90 degrees and normalized.
func orthonormalAnticlockwise(v vec.Vec2) vec.Vec2 {
	return unitOrZero(v.Perp())
}

// orthonormalClockwise returns v rotated by -90 degrees and normalized.
func orthonormalClockwise(v vec.Vec2) vec.Vec2 {
	return unitOrZero(v.ReversePerp())
}

// correctionShares splits a correction between two items of mass ma and mb.
// The heavier item gets the smaller share, an infinite mass gets none. Two
// infinite masses get nothing. ok is false when the masses cannot decide.
func correctionShares(ma, mb float64) (sa, sb float64, ok bool) {
	switch {
	case math.IsInf(ma, 1) && math.IsInf(mb, 1):
		return 0, 0, true
	case math.IsInf(mb, 1):
		sb = ma / (ma + mb)
		return 1 - sb, sb, true
	}

	sum := ma + mb
	if ma == mb || sum == 0 || math.IsNaN(sum) {
		return 0.5, 0.5, false
	}

	sa = mb / sum
	return sa, 1 - sa, true
}

// hardnessShares splits a correction by relative softness: the harder item
// gets the smaller share.
func hardnessShares(ha, hb float64) (sa, sb float64) {
	sa, sb, ok := correctionShares(ha, hb)
	if !ok || (sa == 0 && sb == 0) {
		return 0.5, 0.5
	}
	return sa, sb
}

func inverse(m float64) float64 {
	if math.IsInf(m, 1) {
		return 0
	}
	return 1 / m
}
