package carousel

import (
	"math"
	"time"
)

const (
	// dragScale converts ScrollSpeed into world units per dragged pixel.
	dragScale = 0.025
	// wheelScale converts ScrollSpeed into the world-unit step of one notch.
	wheelScale = 0.2

	autoRotateIdle   = 2 * time.Second
	dragResumeDelay  = 3 * time.Second
	wheelResumeDelay = 2 * time.Second
)

// InputController turns pointer and wheel input into Target deltas and
// decides when auto-rotation may run. Drag and wheel are tracked
// independently but write the same Target.
type InputController struct {
	scroll    *ScrollState
	itemWidth func() float64
	now       func() time.Time

	autoRotate     bool
	dragSpeed      float64
	responsiveness float64
	wheelStep      float64
	wheel          WheelConfig

	dragging   bool
	startX     float64
	dragOrigin float64

	lastInteraction time.Time
	resumeAt        time.Time
	lastWheel       time.Time
	snapAt          time.Time
}

func NewInputController(scroll *ScrollState, cfg Config, itemWidth func() float64, now func() time.Time) *InputController {
	if now == nil {
		now = time.Now
	}
	return &InputController{
		scroll:         scroll,
		itemWidth:      itemWidth,
		now:            now,
		autoRotate:     cfg.AutoRotate,
		dragSpeed:      cfg.ScrollSpeed * dragScale,
		responsiveness: cfg.Responsiveness,
		wheelStep:      cfg.ScrollSpeed * wheelScale,
		wheel:          cfg.Wheel,
	}
}

func (in *InputController) PointerDown(x float64) {
	in.dragging = true
	in.startX = x
	in.dragOrigin = in.scroll.Target
	in.snapAt = time.Time{}
	in.lastInteraction = in.now()
}

func (in *InputController) PointerMove(x float64) {
	if !in.dragging {
		return
	}
	distance := (in.startX - x) * in.dragSpeed
	in.scroll.Target = in.dragOrigin + distance*in.responsiveness
	in.lastInteraction = in.now()
}

func (in *InputController) PointerUp() {
	if !in.dragging {
		return
	}
	in.dragging = false
	now := in.now()
	in.lastInteraction = now
	in.resumeAt = now.Add(dragResumeDelay)
	in.snap()
}

// Wheel adds a bounded step signed like deltaY. Events arriving in quick
// succession (inertial trackpads) contribute less.
func (in *InputController) Wheel(deltaY float64) {
	if deltaY == 0 || math.IsNaN(deltaY) {
		return
	}
	now := in.now()
	step := in.wheelStep * math.Min(math.Abs(deltaY)/in.wheel.Notch, 1) * in.burstDamping(now)
	if deltaY < 0 {
		step = -step
	}
	in.scroll.Target += step

	in.lastWheel = now
	in.lastInteraction = now
	in.resumeAt = now.Add(wheelResumeDelay)
	in.snapAt = now.Add(time.Duration(in.wheel.SnapDelayMS) * time.Millisecond)
}

// burstDamping is BurstFactor for gaps under BurstMS, 1 after IdleMS and
// linear in between.
func (in *InputController) burstDamping(now time.Time) float64 {
	if in.lastWheel.IsZero() {
		return 1
	}
	gap := now.Sub(in.lastWheel)
	burst := time.Duration(in.wheel.BurstMS) * time.Millisecond
	idle := time.Duration(in.wheel.IdleMS) * time.Millisecond
	switch {
	case gap < burst:
		return in.wheel.BurstFactor
	case gap >= idle || idle == burst:
		return 1
	}
	t := float64(gap-burst) / float64(idle-burst)
	return in.wheel.BurstFactor + (1-in.wheel.BurstFactor)*t
}

// Update runs timers that fire between input events.
func (in *InputController) Update(now time.Time) {
	if !in.snapAt.IsZero() && !now.Before(in.snapAt) && !in.dragging {
		in.snapAt = time.Time{}
		in.snap()
	}
}

// AutoRotating reports whether the auto-rotate increment applies this frame.
func (in *InputController) AutoRotating(now time.Time) bool {
	if !in.autoRotate || in.dragging || now.Before(in.resumeAt) {
		return false
	}
	return in.lastInteraction.IsZero() || now.Sub(in.lastInteraction) >= autoRotateIdle
}

func (in *InputController) Dragging() bool { return in.dragging }

// snap moves Target to the nearest item boundary, keeping its sign.
func (in *InputController) snap() {
	w := in.itemWidth()
	if w <= 0 {
		return
	}
	t := in.scroll.Target
	item := math.Round(math.Abs(t)/w) * w
	if t < 0 {
		item = -item
	}
	in.scroll.Target = item
}
