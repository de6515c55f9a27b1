package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inputFixture struct {
	scroll *ScrollState
	clock  *fakeClock
	in     *InputController
}

func newInputFixture(autoRotate bool) *inputFixture {
	cfg := DefaultConfig()
	cfg.AutoRotate = autoRotate
	s := NewScrollState(cfg.Ease, cfg.MaxVelocity)
	f := &inputFixture{scroll: &s, clock: newFakeClock()}
	f.in = NewInputController(f.scroll, cfg, func() float64 { return 10 }, f.clock.Now)
	return f
}

func TestDragMovesTargetAgainstPointer(t *testing.T) {
	f := newInputFixture(false)
	f.in.PointerDown(500)
	require.True(t, f.in.Dragging())

	// 80px left at ScrollSpeed 2: 80 * 2 * 0.025 = 4.
	f.in.PointerMove(420)
	assert.InDelta(t, 4, f.scroll.Target, 1e-12)

	// Distance is measured from the press, not accumulated per move.
	f.in.PointerMove(540)
	assert.InDelta(t, -2, f.scroll.Target, 1e-12)
}

func TestPointerMoveWithoutPressIsIgnored(t *testing.T) {
	f := newInputFixture(false)
	f.in.PointerMove(100)
	f.in.PointerUp()
	assert.Zero(t, f.scroll.Target)
	assert.False(t, f.in.Dragging())
}

func TestPointerUpSnapsToItemBoundary(t *testing.T) {
	tests := []struct {
		name   string
		moveTo float64
		want   float64
	}{
		{"short drag snaps back", 420, 0},
		{"past half snaps forward", 380, 10},
		{"rightward drag snaps negative", 630, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInputFixture(false)
			f.in.PointerDown(500)
			f.in.PointerMove(tt.moveTo)
			f.in.PointerUp()
			assert.InDelta(t, tt.want, f.scroll.Target, 1e-12)
		})
	}
}

func TestDragStartsFromCurrentTarget(t *testing.T) {
	f := newInputFixture(false)
	f.scroll.Target = 30
	f.in.PointerDown(0)
	f.in.PointerMove(40)
	assert.InDelta(t, 28, f.scroll.Target, 1e-12)
}

func TestWheelStepSignAndBound(t *testing.T) {
	f := newInputFixture(false)
	f.in.Wheel(100)
	assert.InDelta(t, 0.4, f.scroll.Target, 1e-12)

	f.clock.Advance(5 * time.Second)
	f.in.Wheel(-100)
	assert.InDelta(t, 0, f.scroll.Target, 1e-12)

	// Huge deltas are capped to one notch.
	f.clock.Advance(5 * time.Second)
	f.in.Wheel(100000)
	assert.InDelta(t, 0.4, f.scroll.Target, 1e-12)

	// Fine-grained trackpad deltas scale down.
	f.clock.Advance(5 * time.Second)
	f.in.Wheel(-25)
	assert.InDelta(t, 0.3, f.scroll.Target, 1e-12)

	f.in.Wheel(0)
	assert.InDelta(t, 0.3, f.scroll.Target, 1e-12)
}

func TestWheelBurstDamping(t *testing.T) {
	f := newInputFixture(false)
	f.in.Wheel(100)
	require.InDelta(t, 0.4, f.scroll.Target, 1e-12)

	f.clock.Advance(50 * time.Millisecond)
	f.in.Wheel(100)
	assert.InDelta(t, 0.4+0.12, f.scroll.Target, 1e-12)

	// Halfway between the burst and idle windows.
	f.clock.Advance(1050 * time.Millisecond)
	before := f.scroll.Target
	f.in.Wheel(100)
	factor := 0.3 + 0.7*float64(1050-100)/float64(2000-100)
	assert.InDelta(t, 0.4*factor, f.scroll.Target-before, 1e-9)
}

func TestWheelSnapsAfterDelay(t *testing.T) {
	f := newInputFixture(false)
	f.scroll.Target = 20
	f.in.Wheel(100)
	f.in.Wheel(100)

	f.clock.Advance(150 * time.Millisecond)
	f.in.Update(f.clock.Now())
	assert.Greater(t, f.scroll.Target, 20.0)

	f.clock.Advance(50 * time.Millisecond)
	f.in.Update(f.clock.Now())
	assert.InDelta(t, 20, f.scroll.Target, 1e-12)
}

func TestWheelSnapWaitsForDragRelease(t *testing.T) {
	f := newInputFixture(false)
	f.in.Wheel(100)
	f.in.PointerDown(0)
	f.in.PointerMove(100)
	f.clock.Advance(time.Second)
	f.in.Update(f.clock.Now())
	assert.InDelta(t, 0.4-5, f.scroll.Target, 1e-12)
}

func TestAutoRotateGating(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newInputFixture(false)
		assert.False(t, f.in.AutoRotating(f.clock.Now()))
	})

	t.Run("idle from start", func(t *testing.T) {
		f := newInputFixture(true)
		assert.True(t, f.in.AutoRotating(f.clock.Now()))
	})

	t.Run("suspended while dragging then resumes after grace", func(t *testing.T) {
		f := newInputFixture(true)
		f.in.PointerDown(0)
		f.clock.Advance(10 * time.Second)
		assert.False(t, f.in.AutoRotating(f.clock.Now()))

		f.in.PointerUp()
		f.clock.Advance(2999 * time.Millisecond)
		assert.False(t, f.in.AutoRotating(f.clock.Now()))
		f.clock.Advance(time.Millisecond)
		assert.True(t, f.in.AutoRotating(f.clock.Now()))
	})

	t.Run("resumes two seconds after wheel", func(t *testing.T) {
		f := newInputFixture(true)
		f.in.Wheel(100)
		f.clock.Advance(1900 * time.Millisecond)
		assert.False(t, f.in.AutoRotating(f.clock.Now()))
		f.clock.Advance(100 * time.Millisecond)
		assert.True(t, f.in.AutoRotating(f.clock.Now()))
	})
}
