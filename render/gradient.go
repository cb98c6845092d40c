package render

import (
	"image"
	"image/color"
	"math"
)

// gradient is an unbounded image whose color depends only on y: top at or
// above y0, bottom at or below y1, linear in between.
type gradient struct {
	top, bottom color.NRGBA
	y0, y1      float64
}

var everywhere = image.Rectangle{
	Min: image.Point{X: -1 << 30, Y: -1 << 30},
	Max: image.Point{X: 1 << 30, Y: 1 << 30},
}

func (g *gradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *gradient) Bounds() image.Rectangle { return everywhere }

func (g *gradient) At(_, y int) color.Color {
	t := 0.0
	if g.y1 > g.y0 {
		t = (float64(y) + 0.5 - g.y0) / (g.y1 - g.y0)
	}
	t = math.Max(0, math.Min(1, t))
	return color.NRGBA{
		R: lerp8(g.top.R, g.bottom.R, t),
		G: lerp8(g.top.G, g.bottom.G, t),
		B: lerp8(g.top.B, g.bottom.B, t),
		A: lerp8(g.top.A, g.bottom.A, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}
