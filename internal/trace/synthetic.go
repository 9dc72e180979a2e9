package trace

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/glia-xr/handray/internal/handtrack"
)

// SyntheticGenerator produces a deterministic stream of plausible
// pointing frames: the hand sweeps an arc in front of the head with
// tracking jitter, and periodically turns the palm back toward the
// face (as if closing into a grab) so the pointing gate has something
// to reject. The same seed always yields the same capture.
type SyntheticGenerator struct {
	hand     handtrack.Handedness
	rng      *rand.Rand
	interval time.Duration
	start    time.Time
	frame    int
}

// NewSyntheticGenerator returns a generator for the given hand. Frames
// tick at 100 Hz from a fixed epoch.
func NewSyntheticGenerator(hand handtrack.Handedness, seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{
		hand:     hand,
		rng:      rand.New(rand.NewSource(seed)),
		interval: 10 * time.Millisecond,
		start:    time.Unix(1700000000, 0),
	}
}

func (g *SyntheticGenerator) jitter() float64 {
	return g.rng.NormFloat64() * 0.002
}

// NextFrame returns the next frame of the capture.
func (g *SyntheticGenerator) NextFrame() *Frame {
	t := float64(g.frame) * g.interval.Seconds()
	ts := g.start.Add(time.Duration(g.frame) * g.interval)
	g.frame++

	side := 1.0
	if g.hand == handtrack.LeftHand {
		side = -1.0
	}

	handPos := r3.Vec{
		X: side*(0.12+0.10*math.Sin(0.4*t)) + g.jitter(),
		Y: -0.05 + 0.15*math.Sin(0.25*t) + g.jitter(),
		Z: 0.45 + 0.03*math.Sin(0.3*t) + g.jitter(),
	}

	// For one second out of every six the palm turns back toward the
	// face with the finger curled, which must close the gate.
	grabbing := math.Mod(t, 6) >= 5

	var palm, finger r3.Vec
	if grabbing {
		palm = r3.Vec{X: g.jitter(), Y: g.jitter(), Z: -1}
		finger = r3.Vec{X: g.jitter(), Y: -1, Z: 0.2}
	} else {
		palm = r3.Vec{X: g.jitter(), Y: -1, Z: 0.25 + g.jitter()}
		finger = r3.Vec{X: g.jitter(), Y: g.jitter(), Z: 1}
	}

	// Slow head yaw wobble.
	yaw := 0.15 * math.Sin(0.1*t)
	head := handtrack.Pose{
		Orientation: quat.Number{Real: math.Cos(yaw / 2), Jmag: math.Sin(yaw / 2)},
	}

	return &Frame{
		TimestampNanos: ts.UnixNano(),
		Hand:           string(g.hand),
		Head:           NewPoseRecord(head),
		HandPosition:   record(handPos),
		PalmNormal:     record(palm),
		FingerForward:  record(finger),
	}
}
