package wave

import (
	"math"
	"math/rand/v2"
	"sync"
)

// DefaultNoise is the upper bound of the random term added by Synthetic.
const DefaultNoise = 0.2

// Source supplies the target amplitude for a frame.
type Source interface {
	Level(frame uint64) float64
}

// Synthetic is a slow sine plus bounded noise. It stands in for a real
// audio level meter.
type Synthetic struct {
	Noise float64
	rng   *rand.Rand
}

// NewSynthetic uses rng for the noise term, or the global source if rng is nil.
func NewSynthetic(noise float64, rng *rand.Rand) *Synthetic {
	if noise < 0 {
		noise = 0
	}
	return &Synthetic{Noise: noise, rng: rng}
}

func (s *Synthetic) Level(frame uint64) float64 {
	base := math.Sin(float64(frame)*0.05)*0.5 + 0.5
	var u float64
	if s.rng != nil {
		u = s.rng.Float64()
	} else {
		u = rand.Float64()
	}
	return Clamp(base + u*s.Noise)
}

// Fixed always reports the same level.
type Fixed float64

func (f Fixed) Level(uint64) float64 { return Clamp(float64(f)) }

// Pushed reports the last level handed to Push. Push may be called from
// any goroutine.
type Pushed struct {
	mu    sync.Mutex
	level float64
}

func (p *Pushed) Push(level float64) {
	p.mu.Lock()
	p.level = Clamp(level)
	p.mu.Unlock()
}

func (p *Pushed) Level(uint64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}
