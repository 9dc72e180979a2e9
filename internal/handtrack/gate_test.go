package handtrack

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// pointingVectors is a pose that passes every default criterion: palm
// down, finger extended forward, head looking forward.
func pointingVectors() VectorPoseSource {
	return VectorPoseSource{
		HeadForward:   r3.Vec{Z: 1},
		PalmNormal:    r3.Vec{Y: -1},
		FingerForward: r3.Vec{Z: 1},
	}
}

func TestGateOpensOnPointingPose(t *testing.T) {
	g := NewPointingGate(DefaultVectorGateConfig())

	now := time.Unix(100, 0)
	if !g.Evaluate(pointingVectors(), now) {
		t.Fatal("gate should open on a pointing pose")
	}
	if !g.IsPointing() {
		t.Error("IsPointing should report the cached Evaluate result")
	}
}

func TestGatePalmFacingUserFails(t *testing.T) {
	g := NewPointingGate(DefaultVectorGateConfig())

	// Palm turned back toward the face: dot(palm, -headForward) = 1,
	// above the 0.5 backward tolerance.
	src := pointingVectors()
	src.PalmNormal = r3.Vec{Z: -1}

	if g.Evaluate(src, time.Unix(100, 0)) {
		t.Error("gate should stay closed when the palm faces the user")
	}
}

func TestGatePalmDownPassesUpCriterion(t *testing.T) {
	cfg := DefaultVectorGateConfig()
	cfg.UpTolerance = 0.8
	g := NewPointingGate(cfg)

	// dot(palm(0,-1,0), up) = -1, well under the tolerance.
	if !g.Evaluate(pointingVectors(), time.Unix(100, 0)) {
		t.Error("palm facing down must pass the up criterion")
	}
}

func TestGatePalmFacingUpFails(t *testing.T) {
	g := NewPointingGate(DefaultVectorGateConfig())

	src := pointingVectors()
	src.PalmNormal = r3.Vec{Y: 1}

	if g.Evaluate(src, time.Unix(100, 0)) {
		t.Error("gate should stay closed when the palm faces up")
	}
}

func TestGateCurledFingerFails(t *testing.T) {
	g := NewPointingGate(DefaultVectorGateConfig())

	// Finger pointing straight down while the palm faces down: far from
	// the expected forward direction.
	src := pointingVectors()
	src.FingerForward = r3.Vec{Y: -1}

	if g.Evaluate(src, time.Unix(100, 0)) {
		t.Error("gate should stay closed when the finger is curled")
	}
}

func TestGateDegenerateHeadForwardFails(t *testing.T) {
	g := NewPointingGate(DefaultVectorGateConfig())

	src := pointingVectors()
	src.HeadForward = r3.Vec{}

	if g.Evaluate(src, time.Unix(100, 0)) {
		t.Error("gate should stay closed on a degenerate head-forward vector")
	}
}

func TestGateNegativeTolerancesDisableCriteria(t *testing.T) {
	cfg := GateConfig{
		BackwardTolerance:      -1,
		UpTolerance:            -1,
		FingerPointedTolerance: -1,
		Delay:                  100 * time.Millisecond,
	}
	g := NewPointingGate(cfg)

	// A pose that would fail every enabled criterion.
	src := VectorPoseSource{
		HeadForward:   r3.Vec{Z: 1},
		PalmNormal:    r3.Vec{Z: -1},
		FingerForward: r3.Vec{Y: -1},
	}

	if !g.Evaluate(src, time.Unix(100, 0)) {
		t.Error("disabled criteria must not close the gate")
	}
}

func TestGateHysteresisWindow(t *testing.T) {
	cfg := DefaultVectorGateConfig()
	cfg.Delay = 200 * time.Millisecond
	g := NewPointingGate(cfg)

	start := time.Unix(100, 0)
	if !g.Evaluate(pointingVectors(), start) {
		t.Fatal("gate should open at the passing tick")
	}

	failing := pointingVectors()
	failing.PalmNormal = r3.Vec{Z: -1}

	// Still open inside the decay window despite failing checks.
	if !g.Evaluate(failing, start.Add(100*time.Millisecond)) {
		t.Error("gate should hold inside the decay window")
	}

	// Closed once the window expires without renewal.
	if g.Evaluate(failing, start.Add(200*time.Millisecond)) {
		t.Error("gate should close at the end of the decay window")
	}
	if g.Evaluate(failing, start.Add(300*time.Millisecond)) {
		t.Error("gate should stay closed after the decay window")
	}
}

func TestGateRenewalExtendsWindow(t *testing.T) {
	cfg := DefaultVectorGateConfig()
	cfg.Delay = 200 * time.Millisecond
	g := NewPointingGate(cfg)

	start := time.Unix(100, 0)
	g.Evaluate(pointingVectors(), start)
	g.Evaluate(pointingVectors(), start.Add(150*time.Millisecond))

	failing := pointingVectors()
	failing.PalmNormal = r3.Vec{Z: -1}

	// The second pass moved validUntil forward.
	if !g.Evaluate(failing, start.Add(300*time.Millisecond)) {
		t.Error("renewed gate should hold past the original window")
	}
	if g.Evaluate(failing, start.Add(350*time.Millisecond)) {
		t.Error("gate should close once the renewed window expires")
	}
}

func TestGateMissingJointsHoldLastValidity(t *testing.T) {
	g := NewPointingGate(DefaultJointGateConfig())

	head := Pose{Orientation: IdentityOrientation}
	joints := map[HandJoint]Pose{
		JointPalm:        flatPalmPose(),
		JointIndexMiddle: flatPalmPose(),
	}

	start := time.Unix(100, 0)
	if !g.Evaluate(JointPoseSource{Head: head, Joints: joints}, start) {
		t.Fatal("gate should open on a pointing joint pose")
	}

	// Drop the palm joint: no criteria run, the timer still applies.
	missing := JointPoseSource{Head: head, Joints: map[HandJoint]Pose{}}
	if !g.Evaluate(missing, start.Add(50*time.Millisecond)) {
		t.Error("gate should hold last validity while joints are missing")
	}
	if g.Evaluate(missing, start.Add(150*time.Millisecond)) {
		t.Error("gate should decay closed when joints stay missing")
	}
}

// flatPalmPose orients a joint like a flat palm pointing forward: local
// -Y (the palm normal) faces the floor and local +Z faces forward.
func flatPalmPose() Pose {
	return Pose{Orientation: IdentityOrientation}
}

func TestJointPoseSourceVectors(t *testing.T) {
	src := JointPoseSource{
		Head: Pose{Orientation: IdentityOrientation},
		Joints: map[HandJoint]Pose{
			JointPalm:        flatPalmPose(),
			JointIndexMiddle: flatPalmPose(),
		},
	}

	v, ok := src.Sample()
	if !ok {
		t.Fatal("sample should be available with palm and index joints present")
	}
	if !vecApproxEqual(v.PalmNormal, r3.Vec{Y: -1}, 1e-12) {
		t.Errorf("palm normal should be the palm joint's -Y axis, got %+v", v.PalmNormal)
	}
	if !vecApproxEqual(v.FingerReference, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("finger reference should be the palm joint's forward axis, got %+v", v.FingerReference)
	}
}

func TestVectorPoseSourceFingerReference(t *testing.T) {
	src := pointingVectors()
	v, ok := src.Sample()
	if !ok {
		t.Fatal("vector source always has a sample")
	}

	// Palm facing down rotated -90 degrees about world-right points
	// forward: a flat palm expects the finger to extend forward.
	if !vecApproxEqual(v.FingerReference, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("expected forward finger reference, got %+v", v.FingerReference)
	}
}
