package handtrack

import (
	"math"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultStabilizerHalfLife removes tracking jitter without noticeable
// lag at 60-90 Hz update rates.
const DefaultStabilizerHalfLife = 10 * time.Millisecond

// Ray is a pointing ray: origin and direction in world space. The
// direction is not necessarily normalized.
type Ray struct {
	Origin    r3.Vec
	Direction r3.Vec
}

// StabilizedRay smooths a stream of noisy per-frame ray samples with an
// exponential moving average whose per-sample weight depends on the
// time elapsed since the previous sample:
//
//	w = 1 - 2^(-dt/halfLife)
//
// After one half-life of held-constant input the accumulated state has
// moved halfway to that input, regardless of how many samples arrived
// in between, so the smoothing is frame-rate independent. Tick
// intervals vary with system load, which makes a fixed-alpha filter
// unsuitable here.
//
// A StabilizedRay is owned by a single update pipeline and is not safe
// for concurrent use; HandPipeline provides the locked wrapper.
type StabilizedRay struct {
	halfLife time.Duration

	position  r3.Vec
	direction r3.Vec

	lastSample  time.Time
	initialized bool
}

// NewStabilizedRay returns a stabilizer with the given half-life. A
// half-life <= 0 disables smoothing: every sample passes through.
func NewStabilizedRay(halfLife time.Duration) *StabilizedRay {
	return &StabilizedRay{halfLife: halfLife}
}

// AddSample ingests one raw (origin, direction) observation taken at
// now. The first sample initializes the state directly with no
// blending. No inputs are rejected: degenerate zero directions are
// accepted and propagate through the smoothing, the consumer
// normalizes before use.
func (s *StabilizedRay) AddSample(origin, direction r3.Vec, now time.Time) {
	if !s.initialized {
		s.position = origin
		s.direction = direction
		s.lastSample = now
		s.initialized = true
		return
	}

	dt := now.Sub(s.lastSample).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.lastSample = now

	w := 1.0
	if s.halfLife > 0 {
		w = 1 - math.Pow(2, -dt/s.halfLife.Seconds())
	}
	s.position = r3.Add(s.position, r3.Scale(w, r3.Sub(origin, s.position)))
	s.direction = r3.Add(s.direction, r3.Scale(w, r3.Sub(direction, s.direction)))
}

// Ray returns the current smoothed ray. Before the first sample it is
// the zero ray.
func (s *StabilizedRay) Ray() Ray {
	return Ray{Origin: s.position, Direction: s.direction}
}
