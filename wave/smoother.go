// Package wave holds the numeric side of the indicator: amplitude smoothing,
// bar synthesis and the amplitude sources that feed them.
package wave

import "math"

// DefaultK is the fraction of the remaining gap closed per frame.
const DefaultK = 0.15

// Amplitude is the displayed level and the level it is easing toward.
// Both stay in [0,1].
type Amplitude struct {
	Current float64
	Target  float64
}

// Smoother is a first-order low-pass filter applied once per frame.
type Smoother struct {
	K float64
}

func NewSmoother(k float64) Smoother {
	if k <= 0 || k > 1 || math.IsNaN(k) {
		k = DefaultK
	}
	return Smoother{K: k}
}

// Advance closes K of the gap between a.Current and target.
func (s Smoother) Advance(a Amplitude, target float64) Amplitude {
	target = Clamp(target)
	cur := Clamp(a.Current)
	cur += (target - cur) * s.K
	return Amplitude{Current: Clamp(cur), Target: target}
}

// Prime starts a fresh session at target with no easing.
func (s Smoother) Prime(target float64) Amplitude {
	target = Clamp(target)
	return Amplitude{Current: target, Target: target}
}

// MaxStep is the largest change Advance can make to Current in one frame.
func (s Smoother) MaxStep() float64 {
	return s.K
}

// Clamp limits v to [0,1]. NaN maps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
