package handtrack

import (
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// minHeadForwardNorm guards the degenerate case where the head-forward
// vector has collapsed (tracking loss). The instantaneous check fails
// closed.
const minHeadForwardNorm = 1e-6

// GateConfig holds the tolerances for the pointing-pose check.
// Tolerances are dot-product thresholds in [-1, 1]; a negative value
// disables the corresponding criterion.
type GateConfig struct {
	// BackwardTolerance rejects palms judged to face the user:
	// dot(unit palm normal, -headForward) above this means the hand is
	// turned back toward the face, not a pointing posture.
	BackwardTolerance float64

	// UpTolerance rejects palms facing upward: dot(palm normal,
	// world-up) above this means the palm is flipped over.
	UpTolerance float64

	// FingerPointedTolerance rejects curled fingers: the unit
	// finger-forward direction must reach at least this dot product
	// with the expected pointing direction.
	FingerPointedTolerance float64

	// Delay is how long the gate stays open after the last passing
	// check. The instantaneous check flickers false during fast
	// transition gestures (closing into a grab); holding the last-true
	// state for a short window smooths this without materially delaying
	// the pointing-stopped signal.
	Delay time.Duration
}

// DefaultVectorGateConfig returns the tuning used with free-vector pose
// sources.
func DefaultVectorGateConfig() GateConfig {
	return GateConfig{
		BackwardTolerance:      0.5,
		UpTolerance:            0.8,
		FingerPointedTolerance: 0.3,
		Delay:                  200 * time.Millisecond,
	}
}

// DefaultJointGateConfig returns the tuning used with joint-pose
// sources. Joint orientations are less noisy than derived free vectors,
// so the curl check is tighter and the decay shorter.
func DefaultJointGateConfig() GateConfig {
	return GateConfig{
		BackwardTolerance:      0.5,
		UpTolerance:            0.8,
		FingerPointedTolerance: 0.6,
		Delay:                  100 * time.Millisecond,
	}
}

// PoseVectors are the per-tick geometric inputs to the gate criteria.
type PoseVectors struct {
	HeadForward   r3.Vec
	PalmNormal    r3.Vec
	FingerForward r3.Vec

	// FingerReference is the expected pointing direction the
	// finger-forward vector is compared against for the curl check.
	FingerReference r3.Vec
}

// PoseSource supplies the gate inputs for one tick. ok reports whether
// the source has the data it needs; when false no criteria are
// evaluated this tick and the gate holds its last validity through the
// decay timer.
type PoseSource interface {
	Sample() (v PoseVectors, ok bool)
}

// PointingGate decides, once per tick, whether the hand pose signals
// intent to point at a distant target. A passing multi-criterion check
// arms a decay timer; the reported value is "the timer has not yet
// expired", which gives the gate hysteresis across brief failing ticks.
//
// Owned by a single update pipeline; call Evaluate exactly once per
// tick and read the cached result through IsPointing.
type PointingGate struct {
	config     GateConfig
	validUntil time.Time
	pointing   bool
}

// NewPointingGate returns a gate with the given tolerances. The gate
// starts closed.
func NewPointingGate(config GateConfig) *PointingGate {
	return &PointingGate{config: config}
}

// Evaluate runs the criteria against the source and returns the gated
// value at now. The criteria run in strict order with short-circuit;
// the decay timer is consulted even when the source has no data.
func (g *PointingGate) Evaluate(src PoseSource, now time.Time) bool {
	if v, ok := src.Sample(); ok && g.poseValid(v) {
		g.validUntil = now.Add(g.config.Delay)
	}
	g.pointing = now.Before(g.validUntil)
	return g.pointing
}

// IsPointing reports the result of the most recent Evaluate.
func (g *PointingGate) IsPointing() bool {
	return g.pointing
}

// poseValid is the instantaneous multi-criterion check, without
// hysteresis.
func (g *PointingGate) poseValid(v PoseVectors) bool {
	if r3.Norm(v.HeadForward) < minHeadForwardNorm {
		return false
	}
	palm := normalizeOrZero(v.PalmNormal)
	if tol := g.config.BackwardTolerance; tol >= 0 {
		headBackward := r3.Scale(-1, normalizeOrZero(v.HeadForward))
		if r3.Dot(palm, headBackward) > tol {
			return false
		}
	}
	if tol := g.config.UpTolerance; tol >= 0 {
		if r3.Dot(palm, WorldUp) > tol {
			return false
		}
	}
	if tol := g.config.FingerPointedTolerance; tol >= 0 {
		aligned := r3.Dot(normalizeOrZero(v.FingerForward), normalizeOrZero(v.FingerReference))
		if aligned < tol {
			return false
		}
	}
	return true
}
