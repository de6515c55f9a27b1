package carousel

// velocityFactor turns the remaining distance into the velocity estimate
// used for damping-tier selection.
const velocityFactor = 0.5

// Direction of travel for one frame. Rightward means Current grew, so items
// slide towards negative x.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// ScrollState is the single scalar scroll position shared by input and
// layout. Current only ever moves towards Target by interpolation.
type ScrollState struct {
	Current, Target, Last float64
	Velocity              float64
	Ease                  float64
	MaxVelocity           float64
}

func NewScrollState(ease, maxVelocity float64) ScrollState {
	return ScrollState{Ease: ease, MaxVelocity: maxVelocity}
}

// Step advances one frame. autoRotate is added to Target first (pass 0
// when auto-rotation is suspended).
func (s *ScrollState) Step(autoRotate float64) {
	s.Target += autoRotate
	s.Velocity = (s.Target - s.Current) * velocityFactor
	ease := dampedEase(s.Ease, s.MaxVelocity, s.Velocity)
	s.Last = s.Current
	s.Current += (s.Target - s.Current) * ease
}

// Direction compares Current with the value before the last Step.
func (s *ScrollState) Direction() Direction {
	if s.Current > s.Last {
		return Right
	}
	return Left
}

// Speed is the distance covered by the last Step.
func (s *ScrollState) Speed() float64 { return s.Current - s.Last }

// dampedEase picks the damping tier: full ease up to 0.7·max, ×0.7 up to
// and including max, ×0.4 beyond it.
func dampedEase(ease, maxVelocity, velocity float64) float64 {
	v := velocity
	if v < 0 {
		v = -v
	}
	switch {
	case v <= 0.7*maxVelocity:
		return ease
	case v <= maxVelocity:
		return ease * 0.7
	default:
		return ease * 0.4
	}
}
