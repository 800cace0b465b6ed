package universe

import (
	"math"

	"github.com/setanarut/vec"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ForcedMovement drives an item instead of the forces applied to it.
// Positions are in world units.
type ForcedMovement interface {
	// Init binds the movement to item and restarts it.
	Init(item *Item)
	// Next moves the item for dt seconds and returns the time left unused
	// when the movement finished before the end of dt.
	Next(dt float64) float64
	IsFinished() bool
}

// ForcedTranslation moves an item at a constant speed. A zero Duration never
// finishes.
type ForcedTranslation struct {
	Speed    vec.Vec2
	Duration float64

	item    *Item
	elapsed float64
}

func (m *ForcedTranslation) Init(item *Item) {
	m.item = item
	m.elapsed = 0
}

func (m *ForcedTranslation) Next(dt float64) float64 {
	if m.IsFinished() {
		return dt
	}
	step := dt
	if m.Duration > 0 {
		step = math.Min(dt, m.Duration-m.elapsed)
	}
	m.elapsed += step
	m.item.SetPosition(m.item.Position().Add(m.Speed.Scale(step)))
	return dt - step
}

func (m *ForcedTranslation) IsFinished() bool {
	return m.item == nil || (m.Duration > 0 && m.elapsed >= m.Duration)
}

// ForcedTracking keeps an item at a constant distance from another one. It
// finishes when the target dies or after Duration when it is not zero.
type ForcedTracking struct {
	Target   *Item
	Distance vec.Vec2
	Duration float64

	item    *Item
	elapsed float64
}

func (m *ForcedTracking) Init(item *Item) {
	if item == m.Target {
		violation("ForcedTracking.Init", "item %v tracks itself", item)
	}
	m.item = item
	m.elapsed = 0
}

func (m *ForcedTracking) Next(dt float64) float64 {
	if m.IsFinished() {
		return dt
	}
	step := dt
	if m.Duration > 0 {
		step = math.Min(dt, m.Duration-m.elapsed)
	}
	m.elapsed += step
	m.item.SetPosition(m.Target.Position().Add(m.Distance))
	return dt - step
}

func (m *ForcedTracking) IsFinished() bool {
	return m.item == nil || m.Target == nil || m.Target.IsDead() ||
		(m.Duration > 0 && m.elapsed >= m.Duration)
}

// ForcedGoto moves the bottom-left corner of an item to Target in Duration
// seconds, following Easing (linear when nil).
type ForcedGoto struct {
	Target   vec.Vec2
	Duration float64
	Easing   ease.TweenFunc

	item     *Item
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	finished bool
}

func (m *ForcedGoto) Init(item *Item) {
	fn := m.Easing
	if fn == nil {
		fn = ease.Linear
	}
	from := item.Position()
	m.item = item
	m.finished = m.Duration <= 0
	m.tweenX = gween.New(float32(from.X), float32(m.Target.X), float32(m.Duration), fn)
	m.tweenY = gween.New(float32(from.Y), float32(m.Target.Y), float32(m.Duration), fn)
	if m.finished {
		item.SetPosition(m.Target)
	}
}

func (m *ForcedGoto) Next(dt float64) float64 {
	if m.IsFinished() {
		return dt
	}
	x, doneX := m.tweenX.Update(float32(dt))
	y, doneY := m.tweenY.Update(float32(dt))
	if doneX && doneY {
		m.finished = true
		m.item.SetPosition(m.Target)
		return math.Max(float64(m.tweenX.Overflow), 0)
	}
	m.item.SetPosition(vec.Vec2{X: float64(x), Y: float64(y)})
	return 0
}

func (m *ForcedGoto) IsFinished() bool {
	return m.item == nil || m.finished
}

// ForcedSequence plays movements one after the other, Loops times or
// forever when Loops is zero.
type ForcedSequence struct {
	Movements []ForcedMovement
	Loops     int

	item    *Item
	current int
	loop    int
}

func (m *ForcedSequence) Init(item *Item) {
	m.item = item
	m.current = 0
	m.loop = 0
	if len(m.Movements) > 0 {
		m.Movements[0].Init(item)
	}
}

func (m *ForcedSequence) Next(dt float64) float64 {
	// a full pass without consuming time would never end
	idle := 0
	for dt > 0 && !m.IsFinished() && idle <= len(m.Movements) {
		cur := m.Movements[m.current]
		remaining := cur.Next(dt)
		if remaining < dt {
			idle = 0
		} else {
			idle++
		}
		dt = remaining
		if !cur.IsFinished() {
			break
		}
		m.advance()
	}
	return dt
}

func (m *ForcedSequence) advance() {
	m.current++
	if m.current == len(m.Movements) {
		m.current = 0
		m.loop++
		if m.Loops > 0 && m.loop >= m.Loops {
			return
		}
	}
	m.Movements[m.current].Init(m.item)
}

func (m *ForcedSequence) IsFinished() bool {
	return m.item == nil || len(m.Movements) == 0 || (m.Loops > 0 && m.loop >= m.Loops)
}
