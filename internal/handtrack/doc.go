// Package handtrack derives a stable far-pointing ray from noisy
// per-frame hand tracking, and gates it on whether the hand pose
// currently signals intent to point at a distant target.
//
// The pipeline runs once per input tick: the pivot locator computes a
// head-relative anchor for the ray, the stabilizer smooths the raw
// (origin, direction) sample, and the pointing gate re-evaluates a
// multi-criterion pose check with a decay timer to suppress flicker.
//
// Coordinate convention throughout: X=right, Y=up, Z=forward, meters,
// world frame unless a function says otherwise.
package handtrack
