package wave

import "math"

const (
	DefaultBars       = 12
	DefaultBaseHeight = 4.0
	DefaultMaxHeight  = 32.0

	phasePerFrame = 0.08
	phasePerBar   = 0.3
	edgeWeight    = 0.5
)

// Synth turns a frame number and a smoothed amplitude into bar heights.
// It keeps no state between calls.
type Synth struct {
	N    int
	Base float64
	Max  float64
}

func NewSynth(n int, base, peak float64) Synth {
	if n <= 0 {
		n = DefaultBars
	}
	if peak < base {
		base, peak = peak, base
	}
	return Synth{N: n, Base: base, Max: peak}
}

// CenterBoost weights bar i by its distance from the middle of the row:
// 1 at the center, 0.5 at either edge, mirrored about the center.
func (s Synth) CenterBoost(i int) float64 {
	if s.N <= 1 {
		return 1
	}
	half := float64(s.N-1) / 2
	d := math.Abs(float64(i)-half) / half
	return 1 - edgeWeight*d
}

// Wave is the traveling ripple for bar i at frame, in [0,1].
func (s Synth) Wave(frame uint64, i int) float64 {
	phase := float64(frame)*phasePerFrame + float64(i)*phasePerBar
	return (math.Sin(phase) + 1) / 2
}

// Bars returns a new slice of N heights.
func (s Synth) Bars(frame uint64, amplitude float64) []float64 {
	return s.BarsInto(nil, frame, amplitude)
}

// BarsInto writes N heights into dst, growing it only when it is too small.
func (s Synth) BarsInto(dst []float64, frame uint64, amplitude float64) []float64 {
	if cap(dst) < s.N {
		dst = make([]float64, s.N)
	}
	dst = dst[:s.N]
	amplitude = Clamp(amplitude)
	span := s.Max - s.Base
	for i := range dst {
		mod := 0.5 + 0.5*s.Wave(frame, i)
		dst[i] = s.Base + span*amplitude*s.CenterBoost(i)*mod
	}
	return dst
}
