package radar

import (
	"math"
	"time"

	"uwb-radar.klederson.com/internal/config"
)

// Sweep is the rotating activity line. It turns only while ranging is active
// and holds its angle when ranging stops.
type Sweep struct {
	Angle  float64 // radians [0, 2π)
	Active bool

	last time.Time
}

// NewSweep creates an idle sweep pointing up.
func NewSweep() *Sweep {
	return &Sweep{}
}

// Update advances the sweep to now if ranging is active.
func (s *Sweep) Update(now time.Time, ranging bool) {
	if s.Active && ranging && !s.last.IsZero() {
		rps := float64(config.SweepSpeedRPM) / 60.0
		s.Angle = NormalizeAngle(s.Angle + now.Sub(s.last).Seconds()*rps*2*math.Pi)
	}
	s.Active = ranging
	s.last = now
}

// Degrees returns the current sweep angle in degrees.
func (s *Sweep) Degrees() float64 {
	return s.Angle * 180 / math.Pi
}

// Intensity returns the glow [0, 1] for a cell angle. The glow trails the
// sweep head by SweepTrailDeg and is off while ranging is stopped.
func (s *Sweep) Intensity(cellAngle float64) float64 {
	if s == nil || !s.Active {
		return 0
	}
	diff := NormalizeAngle(s.Angle - cellAngle)
	trail := config.SweepTrailDeg * math.Pi / 180.0
	if diff > trail {
		return 0
	}
	return 1.0 - diff/trail
}
