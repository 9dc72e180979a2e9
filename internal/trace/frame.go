// Package trace reads and writes hand-tracking captures: one JSON
// frame per line, ordered by timestamp. Captures feed the replay
// daemon and the analysis tools, and a synthetic generator produces
// deterministic captures for testing without tracking hardware.
package trace

import (
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/glia-xr/handray/internal/handtrack"
)

// PoseRecord is the wire form of a pose: position and a w,x,y,z unit
// quaternion.
type PoseRecord struct {
	Position    [3]float64 `json:"pos"`
	Orientation [4]float64 `json:"quat"`
}

// Frame is one tick of captured tracking input. Vector-based captures
// fill the free-vector fields; joint-based captures fill Joints
// (keyed by handtrack.HandJoint names) and may leave the free vectors
// zero.
type Frame struct {
	TimestampNanos int64      `json:"t_ns"`
	Hand           string     `json:"hand"`
	Head           PoseRecord `json:"head"`

	HandPosition  [3]float64 `json:"hand_pos"`
	PalmNormal    [3]float64 `json:"palm_normal"`
	FingerForward [3]float64 `json:"finger_forward"`

	Joints map[string]PoseRecord `json:"joints,omitempty"`
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func record(v r3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// Pose converts the record into a handtrack pose.
func (p PoseRecord) Pose() handtrack.Pose {
	return handtrack.Pose{
		Position: vec(p.Position),
		Orientation: quat.Number{
			Real: p.Orientation[0],
			Imag: p.Orientation[1],
			Jmag: p.Orientation[2],
			Kmag: p.Orientation[3],
		},
	}
}

// NewPoseRecord converts a handtrack pose into its wire form.
func NewPoseRecord(p handtrack.Pose) PoseRecord {
	return PoseRecord{
		Position: record(p.Position),
		Orientation: [4]float64{
			p.Orientation.Real,
			p.Orientation.Imag,
			p.Orientation.Jmag,
			p.Orientation.Kmag,
		},
	}
}

// Timestamp returns the frame time.
func (f *Frame) Timestamp() time.Time {
	return time.Unix(0, f.TimestampNanos)
}

// Handedness returns which hand the frame belongs to. Unlabelled
// frames default to the right hand.
func (f *Frame) Handedness() handtrack.Handedness {
	if f.Hand == string(handtrack.LeftHand) {
		return handtrack.LeftHand
	}
	return handtrack.RightHand
}

// HasJoints reports whether this is a joint-based frame.
func (f *Frame) HasJoints() bool {
	return len(f.Joints) > 0
}

// Input converts a vector-based frame into pipeline input.
func (f *Frame) Input() handtrack.FrameInput {
	return handtrack.FrameInput{
		Timestamp:     f.Timestamp(),
		Head:          f.Head.Pose(),
		HandPosition:  vec(f.HandPosition),
		PalmNormal:    vec(f.PalmNormal),
		FingerForward: vec(f.FingerForward),
	}
}

// JointPoses converts a joint-based frame's joints into pipeline input.
func (f *Frame) JointPoses() map[handtrack.HandJoint]handtrack.Pose {
	joints := make(map[handtrack.HandJoint]handtrack.Pose, len(f.Joints))
	for name, pose := range f.Joints {
		joints[handtrack.HandJoint(name)] = pose.Pose()
	}
	return joints
}
