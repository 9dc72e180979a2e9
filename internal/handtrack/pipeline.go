package handtrack

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// Config collects the tuning for one hand pipeline.
type Config struct {
	Pivot              PivotConfig
	Gate               GateConfig
	StabilizerHalfLife time.Duration
}

// DefaultConfig returns the tuning used with vector-based tracking
// backends. Joint-based backends swap in DefaultJointGateConfig.
func DefaultConfig() Config {
	return Config{
		Pivot:              DefaultPivotConfig(),
		Gate:               DefaultVectorGateConfig(),
		StabilizerHalfLife: DefaultStabilizerHalfLife,
	}
}

// FrameInput is one tick of vector-based tracking input.
type FrameInput struct {
	Timestamp     time.Time
	Head          Pose
	HandPosition  r3.Vec
	PalmNormal    r3.Vec
	FingerForward r3.Vec
}

// Snapshot is a consistent copy of a pipeline's outputs, taken under
// the pipeline lock.
type Snapshot struct {
	Hand      Handedness
	Ray       Ray
	Pivot     r3.Vec
	Pointing  bool
	Timestamp time.Time
}

// HandPipeline derives the stabilized pointing ray and pointing-pose
// gate for one hand. The Update methods are single-writer: exactly one
// tracking callback mutates a pipeline. Readers take consistent
// snapshot copies rather than observing fields mid-update.
type HandPipeline struct {
	mu   sync.RWMutex
	hand Handedness

	config     Config
	stabilizer *StabilizedRay
	gate       *PointingGate

	lastPivot  r3.Vec
	lastUpdate time.Time
}

// NewHandPipeline returns a pipeline for the given hand.
func NewHandPipeline(hand Handedness, config Config) *HandPipeline {
	return &HandPipeline{
		hand:       hand,
		config:     config,
		stabilizer: NewStabilizedRay(config.StabilizerHalfLife),
		gate:       NewPointingGate(config.Gate),
	}
}

// Update ingests one tick of vector-based tracking input: computes the
// pivot, feeds the raw ray sample into the stabilizer, and re-evaluates
// the pointing gate.
func (p *HandPipeline) Update(in FrameInput) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pivot := ComputePivot(p.config.Pivot, in.HandPosition, in.Head, p.hand)
	p.stabilizer.AddSample(in.HandPosition, r3.Sub(in.HandPosition, pivot), in.Timestamp)
	p.gate.Evaluate(VectorPoseSource{
		HeadForward:   in.Head.Forward(),
		PalmNormal:    in.PalmNormal,
		FingerForward: in.FingerForward,
	}, in.Timestamp)

	p.lastPivot = pivot
	p.lastUpdate = in.Timestamp
}

// UpdateHandJoints ingests one tick of joint-based tracking input. A
// missing index knuckle skips the ray sample for this tick; the gate is
// still evaluated, and itself holds last validity when the joints it
// needs are missing.
func (p *HandPipeline) UpdateHandJoints(timestamp time.Time, head Pose, joints map[HandJoint]Pose) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if knuckle, ok := joints[JointIndexKnuckle]; ok {
		pivot := ComputePivot(p.config.Pivot, knuckle.Position, head, p.hand)
		p.stabilizer.AddSample(knuckle.Position, r3.Sub(knuckle.Position, pivot), timestamp)
		p.lastPivot = pivot
	}
	p.gate.Evaluate(JointPoseSource{Head: head, Joints: joints}, timestamp)
	p.lastUpdate = timestamp
}

// Hand returns which hand this pipeline tracks.
func (p *HandPipeline) Hand() Handedness {
	return p.hand
}

// PointerRay returns the current stabilized ray.
func (p *HandPipeline) PointerRay() Ray {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stabilizer.Ray()
}

// IsPointing reports the gate value from the most recent update.
func (p *HandPipeline) IsPointing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gate.IsPointing()
}

// Snapshot returns a consistent copy of the pipeline outputs.
func (p *HandPipeline) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		Hand:      p.hand,
		Ray:       p.stabilizer.Ray(),
		Pivot:     p.lastPivot,
		Pointing:  p.gate.IsPointing(),
		Timestamp: p.lastUpdate,
	}
}
