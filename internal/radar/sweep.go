package radar

import (
	"math"

	"hive-map.klederson.com/internal/config"
)

// Sweep is the rotating sweep line. It advances a fixed step per tick
// instead of following wall time, so a frame fully determines its position.
type Sweep struct {
	Angle float64 // Current angle in radians [0, 2π)
}

// SweepAt returns the sweep position for a tick.
func SweepAt(tick int) Sweep {
	return Sweep{Angle: NormalizeAngle(DegToRad(float64(tick) * config.SweepStepDeg))}
}

// Degrees returns the current sweep angle in degrees.
func (s Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow intensity [0, 1] for a given cell angle.
// The sweep has a trailing glow of SweepTrailDeg degrees.
// Returns 0 if the cell is outside the sweep trail.
func (s Sweep) Intensity(cellAngle float64) float64 {
	// How far behind the sweep this angle is
	diff := NormalizeAngle(s.Angle - cellAngle)

	trailRad := DegToRad(config.SweepTrailDeg)
	if diff > trailRad {
		return 0
	}

	// Linear falloff: 1.0 at sweep head → 0.0 at trail end
	return 1.0 - diff/trailRad
}
