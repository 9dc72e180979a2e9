package handtrack

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// palmToFinger rotates a palm normal into the direction the fingers
// extend when the hand is flat: -90 degrees about world-right.
var palmToFinger = r3.NewRotation(-math.Pi/2, WorldRight)

// VectorPoseSource feeds the gate from free palm/head/finger vectors,
// as reported by tracking backends that expose a pointer ray rather
// than a full joint skeleton. The curl reference is the palm normal
// rotated flat.
type VectorPoseSource struct {
	HeadForward   r3.Vec
	PalmNormal    r3.Vec
	FingerForward r3.Vec
}

func (s VectorPoseSource) Sample() (PoseVectors, bool) {
	return PoseVectors{
		HeadForward:     s.HeadForward,
		PalmNormal:      s.PalmNormal,
		FingerForward:   s.FingerForward,
		FingerReference: palmToFinger.Rotate(s.PalmNormal),
	}, true
}

// HandJoint names a tracked skeletal joint supplied by a joint-based
// backend. Only the joints the pipeline consumes are named here.
type HandJoint string

const (
	JointWrist        HandJoint = "wrist"
	JointPalm         HandJoint = "palm"
	JointIndexKnuckle HandJoint = "indexKnuckle"
	JointIndexMiddle  HandJoint = "indexMiddle"
	JointIndexTip     HandJoint = "indexTip"
)

// JointPoseSource feeds the gate from tracked joint poses. The palm
// normal is the palm joint's local -Y axis, and the curl check compares
// the index-middle joint's forward axis against the palm joint's own
// forward axis. Missing joints report ok=false, which holds the gate's
// last validity rather than forcing it closed.
type JointPoseSource struct {
	Head   Pose
	Joints map[HandJoint]Pose
}

func (s JointPoseSource) Sample() (PoseVectors, bool) {
	palm, okPalm := s.Joints[JointPalm]
	index, okIndex := s.Joints[JointIndexMiddle]
	if !okPalm || !okIndex {
		return PoseVectors{}, false
	}
	return PoseVectors{
		HeadForward:     s.Head.Forward(),
		PalmNormal:      r3.Scale(-1, palm.Up()),
		FingerForward:   index.Forward(),
		FingerReference: palm.Forward(),
	}, true
}
