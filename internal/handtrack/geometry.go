package handtrack

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// WorldUp and WorldRight are the fixed world axes referenced by the
// pose checks and the pivot mapping.
var (
	WorldUp    = r3.Vec{Y: 1}
	WorldRight = r3.Vec{X: 1}

	worldForward = r3.Vec{Z: 1}
)

// Handedness identifies which hand a pipeline tracks. The pivot mapping
// is mirrored across hands.
type Handedness string

const (
	LeftHand  Handedness = "left"
	RightHand Handedness = "right"
)

// Pose is a position plus orientation in world space. Orientation is
// expected to be a unit quaternion.
type Pose struct {
	Position    r3.Vec
	Orientation quat.Number
}

// IdentityOrientation is the no-rotation quaternion.
var IdentityOrientation = quat.Number{Real: 1}

// Forward returns the pose's local +Z axis in world space.
func (p Pose) Forward() r3.Vec {
	return r3.Rotation(p.Orientation).Rotate(worldForward)
}

// Up returns the pose's local +Y axis in world space.
func (p Pose) Up() r3.Vec {
	return r3.Rotation(p.Orientation).Rotate(WorldUp)
}

// yawRotation extracts the yaw-only component of an orientation: the
// rotation about world-up that carries world-forward onto the
// horizontal projection of the oriented forward axis. Pitch and roll
// are discarded. Looking straight up or down leaves no usable yaw, so
// the identity rotation is returned.
func yawRotation(orientation quat.Number) r3.Rotation {
	fwd := r3.Rotation(orientation).Rotate(worldForward)
	flat := r3.Vec{X: fwd.X, Z: fwd.Z}
	if r3.Norm2(flat) < 1e-12 {
		return r3.NewRotation(0, WorldUp)
	}
	return r3.NewRotation(math.Atan2(flat.X, flat.Z), WorldUp)
}

// inverseRotation returns the inverse of a unit rotation.
func inverseRotation(r r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(quat.Number(r)))
}

// normalizeOrZero returns the unit vector along v, or the zero vector
// when v is numerically zero (r3.Unit would return NaNs there).
func normalizeOrZero(v r3.Vec) r3.Vec {
	n := r3.Norm(v)
	if n < 1e-12 {
		return r3.Vec{}
	}
	return r3.Scale(1/n, v)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
