package handtrack

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// PivotConfig holds the clamped piecewise-linear mapping from head-local
// hand position to the ray pivot offset. Offsets are meters in
// head-local yaw-only space: X right, Y up, Z forward.
type PivotConfig struct {
	// Vertical mapping. The pivot drops as the hand rises, counteracting
	// the natural shoulder-pivot feel, but stays within [MinY, MaxY].
	BaseY       float64
	MultiplierY float64
	MinY        float64
	MaxY        float64

	// Lateral mapping, stated for the right hand. The left hand negates
	// BaseX and mirrors the bounds.
	BaseX       float64
	MultiplierX float64
	MinX        float64
	MaxX        float64

	// OffsetZ is the fixed forward-of-head distance.
	OffsetZ float64
}

// DefaultPivotConfig returns the pivot mapping tuned on the shipping
// rigs.
func DefaultPivotConfig() PivotConfig {
	return PivotConfig{
		BaseY:       -0.1,
		MultiplierY: 0.65,
		MinY:        -0.6,
		MaxY:        -0.2,

		BaseX:       0.03,
		MultiplierX: 0.65,
		MinX:        0.08,
		MaxX:        0.15,

		OffsetZ: 0.2,
	}
}

// ComputePivot returns the world-space anchor point the pointing ray's
// direction is measured from: a shoulder-like point below and beside
// the head, shifted by a clamped linear function of the hand's
// head-local position. Pivoting the ray there rather than at the hand
// itself keeps the far ray ergonomically stable; the clamps prevent
// extreme pivot excursions when the hand is raised very high or low.
//
// Pure function: only the head's yaw is used for the head-local frame,
// so head roll and pitch do not swing the pivot.
func ComputePivot(cfg PivotConfig, handPosition r3.Vec, head Pose, hand Handedness) r3.Vec {
	yaw := yawRotation(head.Orientation)
	local := inverseRotation(yaw).Rotate(r3.Sub(handPosition, head.Position))

	offY := cfg.BaseY + math.Min(cfg.MultiplierY*local.Y, 0)
	offY = clamp(offY, cfg.MinY, cfg.MaxY)

	var offX float64
	if hand == LeftHand {
		offX = clamp(-cfg.BaseX+cfg.MultiplierX*local.X, -cfg.MaxX, -cfg.MinX)
	} else {
		offX = clamp(cfg.BaseX+cfg.MultiplierX*local.X, cfg.MinX, cfg.MaxX)
	}

	offset := r3.Vec{X: offX, Y: offY, Z: cfg.OffsetZ}
	return r3.Add(head.Position, yaw.Rotate(offset))
}
