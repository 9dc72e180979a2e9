package handtrack

import (
	"sync"
	"testing"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

func pointingFrame(ts time.Time) FrameInput {
	return FrameInput{
		Timestamp:     ts,
		Head:          Pose{Orientation: IdentityOrientation},
		HandPosition:  r3.Vec{X: 0.1, Y: 0, Z: 0.5},
		PalmNormal:    r3.Vec{Y: -1},
		FingerForward: r3.Vec{Z: 1},
	}
}

func TestHandPipelineUpdateProducesRayFromPivot(t *testing.T) {
	p := NewHandPipeline(RightHand, DefaultConfig())

	in := pointingFrame(time.Unix(100, 0))
	p.Update(in)

	ray := p.PointerRay()
	if ray.Origin != in.HandPosition {
		t.Errorf("first sample ray should originate at the hand: got %+v", ray.Origin)
	}

	// Pivot for this hand position: X = 0.03+0.65*0.1 = 0.095,
	// Y = clamp(-0.1, -0.6, -0.2) = -0.2, Z = 0.2.
	wantDir := r3.Sub(in.HandPosition, r3.Vec{X: 0.095, Y: -0.2, Z: 0.2})
	if !vecApproxEqual(ray.Direction, wantDir, 1e-9) {
		t.Errorf("ray direction should run from pivot to hand: got %+v want %+v", ray.Direction, wantDir)
	}

	if !p.IsPointing() {
		t.Error("pointing pose should open the gate")
	}
}

func TestHandPipelineJointUpdate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gate = DefaultJointGateConfig()
	p := NewHandPipeline(RightHand, cfg)

	head := Pose{Orientation: IdentityOrientation}
	joints := map[HandJoint]Pose{
		JointPalm:         {Position: r3.Vec{X: 0.1, Z: 0.45}, Orientation: IdentityOrientation},
		JointIndexMiddle:  {Position: r3.Vec{X: 0.1, Z: 0.52}, Orientation: IdentityOrientation},
		JointIndexKnuckle: {Position: r3.Vec{X: 0.1, Z: 0.5}, Orientation: IdentityOrientation},
	}

	ts := time.Unix(100, 0)
	p.UpdateHandJoints(ts, head, joints)

	if !p.IsPointing() {
		t.Error("flat forward joint pose should open the gate")
	}
	ray := p.PointerRay()
	if ray.Origin != joints[JointIndexKnuckle].Position {
		t.Errorf("ray should originate at the index knuckle, got %+v", ray.Origin)
	}
}

func TestHandPipelineMissingKnuckleKeepsRay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gate = DefaultJointGateConfig()
	p := NewHandPipeline(RightHand, cfg)

	head := Pose{Orientation: IdentityOrientation}
	full := map[HandJoint]Pose{
		JointPalm:         {Position: r3.Vec{Z: 0.45}, Orientation: IdentityOrientation},
		JointIndexMiddle:  {Position: r3.Vec{Z: 0.52}, Orientation: IdentityOrientation},
		JointIndexKnuckle: {Position: r3.Vec{Z: 0.5}, Orientation: IdentityOrientation},
	}

	ts := time.Unix(100, 0)
	p.UpdateHandJoints(ts, head, full)
	before := p.PointerRay()

	// Losing the knuckle must not disturb the stabilized ray.
	p.UpdateHandJoints(ts.Add(10*time.Millisecond), head, map[HandJoint]Pose{})
	after := p.PointerRay()

	if before != after {
		t.Errorf("ray changed without a knuckle sample: before %+v after %+v", before, after)
	}
}

func TestHandPipelineSnapshotMatchesAccessors(t *testing.T) {
	p := NewHandPipeline(LeftHand, DefaultConfig())
	p.Update(pointingFrame(time.Unix(100, 0)))

	snap := p.Snapshot()
	if snap.Hand != LeftHand {
		t.Errorf("snapshot hand mismatch: %v", snap.Hand)
	}
	if snap.Ray != p.PointerRay() {
		t.Error("snapshot ray should match PointerRay")
	}
	if snap.Pointing != p.IsPointing() {
		t.Error("snapshot gate value should match IsPointing")
	}
	if snap.Timestamp != time.Unix(100, 0) {
		t.Errorf("snapshot timestamp mismatch: %v", snap.Timestamp)
	}
}

func TestHandPipelineConcurrentReaders(t *testing.T) {
	p := NewHandPipeline(RightHand, DefaultConfig())

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		ts := time.Unix(100, 0)
		for i := 0; i < 500; i++ {
			ts = ts.Add(10 * time.Millisecond)
			p.Update(pointingFrame(ts))
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					_ = p.Snapshot()
					_ = p.PointerRay()
					_ = p.IsPointing()
				}
			}
		}()
	}

	wg.Wait()
}
