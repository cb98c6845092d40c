// Package render draws bar heights onto an owned RGBA surface and presents
// that surface to hosts.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ErrNoSurface is returned when drawing to a nil or released surface.
var ErrNoSurface = errors.New("render: no drawing surface")

// Surface is a fixed-size pixel buffer addressed in logical units. The
// buffer is Scale times the logical size and is allocated once.
type Surface struct {
	Width  float64
	Height float64
	Scale  float64
	img    *image.RGBA
}

// NewSurface allocates width*scale by height*scale pixels, rounded up.
func NewSurface(width, height, scale float64) *Surface {
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	w := int(math.Ceil(width * scale))
	h := int(math.Ceil(height * scale))
	return &Surface{
		Width:  width,
		Height: height,
		Scale:  scale,
		img:    image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1))),
	}
}

// Image returns the backing buffer, or nil once released.
func (s *Surface) Image() *image.RGBA {
	if s == nil {
		return nil
	}
	return s.img
}

func (s *Surface) Attached() bool {
	return s != nil && s.img != nil
}

// Release detaches the buffer. Later draws fail with ErrNoSurface.
func (s *Surface) Release() {
	if s != nil {
		s.img = nil
	}
}

func (s *Surface) clear() {
	clear(s.img.Pix)
}

// Compose paints bg and then the surface over it into dst, reallocating dst
// only when its size does not match. A released surface leaves just bg.
func Compose(dst *image.RGBA, s *Surface, bg color.Color) *image.RGBA {
	if s == nil {
		return dst
	}
	bounds := image.Rect(0, 0, int(math.Ceil(s.Width*s.Scale)), int(math.Ceil(s.Height*s.Scale)))
	if src := s.Image(); src != nil {
		bounds = src.Bounds()
	}
	if dst == nil || dst.Bounds() != bounds {
		dst = image.NewRGBA(bounds)
	}
	draw.Draw(dst, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	if src := s.Image(); src != nil {
		draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	}
	return dst
}
