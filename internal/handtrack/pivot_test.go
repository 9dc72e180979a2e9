package handtrack

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

func identityHead() Pose {
	return Pose{Orientation: IdentityOrientation}
}

func TestComputePivotXClamp(t *testing.T) {
	cfg := DefaultPivotConfig()

	// Hand 0.2m to the right: raw X = 0.03 + 0.65*0.2 = 0.16, clamped
	// to the 0.15 bound.
	pivot := ComputePivot(cfg, r3.Vec{X: 0.2, Y: 0.1, Z: 0.4}, identityHead(), RightHand)

	if math.Abs(pivot.X-0.15) > 1e-9 {
		t.Errorf("expected X offset clamped to 0.15, got %v", pivot.X)
	}
	if pivot.Z != cfg.OffsetZ {
		t.Errorf("expected fixed Z offset %v, got %v", cfg.OffsetZ, pivot.Z)
	}
}

func TestComputePivotOffsetsWithinBounds(t *testing.T) {
	cfg := DefaultPivotConfig()
	head := identityHead()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		hand := r3.Vec{
			X: (rng.Float64() - 0.5) * 10,
			Y: (rng.Float64() - 0.5) * 10,
			Z: (rng.Float64() - 0.5) * 10,
		}

		right := ComputePivot(cfg, hand, head, RightHand)
		if right.Y < cfg.MinY || right.Y > cfg.MaxY {
			t.Fatalf("right pivot Y %v out of [%v, %v] for hand %+v", right.Y, cfg.MinY, cfg.MaxY, hand)
		}
		if right.X < cfg.MinX || right.X > cfg.MaxX {
			t.Fatalf("right pivot X %v out of [%v, %v] for hand %+v", right.X, cfg.MinX, cfg.MaxX, hand)
		}

		left := ComputePivot(cfg, hand, head, LeftHand)
		if left.X < -cfg.MaxX || left.X > -cfg.MinX {
			t.Fatalf("left pivot X %v out of [%v, %v] for hand %+v", left.X, -cfg.MaxX, -cfg.MinX, hand)
		}
	}
}

func TestComputePivotLeftRightMirror(t *testing.T) {
	cfg := DefaultPivotConfig()
	head := identityHead()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		hand := r3.Vec{
			X: (rng.Float64() - 0.5) * 2,
			Y: (rng.Float64() - 0.5) * 2,
			Z: rng.Float64(),
		}
		mirrored := r3.Vec{X: -hand.X, Y: hand.Y, Z: hand.Z}

		right := ComputePivot(cfg, hand, head, RightHand)
		left := ComputePivot(cfg, mirrored, head, LeftHand)

		if math.Abs(right.X+left.X) > 1e-9 {
			t.Fatalf("pivots not mirrored: right X %v, left X %v for hand %+v", right.X, left.X, hand)
		}
		if math.Abs(right.Y-left.Y) > 1e-9 || math.Abs(right.Z-left.Z) > 1e-9 {
			t.Fatalf("Y/Z offsets should match across hands: right %+v left %+v", right, left)
		}
	}
}

func TestComputePivotPivotDropsAsHandRises(t *testing.T) {
	cfg := DefaultPivotConfig()
	head := identityHead()

	low := ComputePivot(cfg, r3.Vec{Y: -0.3, Z: 0.4}, head, RightHand)
	high := ComputePivot(cfg, r3.Vec{Y: 0.3, Z: 0.4}, head, RightHand)

	// Raising the hand must never raise the pivot.
	if high.Y > low.Y {
		t.Errorf("pivot rose with the hand: low %v, high %v", low.Y, high.Y)
	}
}

func TestComputePivotFollowsHeadYaw(t *testing.T) {
	cfg := DefaultPivotConfig()

	// Head yawed 90 degrees about +Y: forward becomes +X.
	yaw := math.Pi / 2
	head := Pose{Orientation: quat.Number{Real: math.Cos(yaw / 2), Jmag: math.Sin(yaw / 2)}}

	// Hand at the head position: local offsets are the clamped bases.
	pivot := ComputePivot(cfg, r3.Vec{}, head, RightHand)

	// Local offset (0.08, -0.2, 0.2) rotated by the head yaw.
	want := r3.Vec{X: 0.2, Y: -0.2, Z: -0.08}
	if !vecApproxEqual(pivot, want, 1e-9) {
		t.Errorf("pivot did not follow head yaw: got %+v want %+v", pivot, want)
	}
}

func TestComputePivotIgnoresHeadPitch(t *testing.T) {
	cfg := DefaultPivotConfig()
	hand := r3.Vec{X: 0.1, Y: 0, Z: 0.4}

	level := ComputePivot(cfg, hand, identityHead(), RightHand)

	// Pitch the head down 45 degrees about +X; the yaw-only frame must
	// leave the pivot unchanged.
	pitch := math.Pi / 4
	pitched := Pose{Orientation: quat.Number{Real: math.Cos(pitch / 2), Imag: math.Sin(pitch / 2)}}
	got := ComputePivot(cfg, hand, pitched, RightHand)

	if !vecApproxEqual(got, level, 1e-9) {
		t.Errorf("head pitch moved the pivot: level %+v pitched %+v", level, got)
	}
}
