package hud

import "github.com/charmbracelet/harmonica"

const (
	fadeFrequency = 12.0
	fadeDamping   = 1.0
)

// Fade eases the indicator's opacity toward 1 while visible and toward 0
// while fading out. Critically damped, so it never overshoots.
type Fade struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func NewFade(fps int) *Fade {
	if fps <= 0 {
		fps = 30
	}
	return &Fade{spring: harmonica.NewSpring(harmonica.FPS(fps), fadeFrequency, fadeDamping)}
}

// Step advances one frame toward target and returns the opacity in [0,1].
func (f *Fade) Step(target float64) float64 {
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, target)
	switch {
	case f.pos < 0:
		f.pos, f.vel = 0, 0
	case f.pos > 1:
		f.pos, f.vel = 1, 0
	}
	return f.pos
}

func (f *Fade) Value() float64 { return f.pos }

func (f *Fade) Reset() { f.pos, f.vel = 0, 0 }
