package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
)

// Style is the bar look in logical units.
type Style struct {
	BarWidth    float64
	Gap         float64
	Color       color.NRGBA // gradient top
	BottomAlpha float64     // gradient bottom is Color at this alpha
	Glow        color.NRGBA
	GlowBlur    float64
}

func DefaultStyle() Style {
	return Style{
		BarWidth:    3,
		Gap:         2,
		Color:       color.NRGBA{R: 0x6A, G: 0xE3, B: 0xFF, A: 0xFF},
		BottomAlpha: 0.4,
		Glow:        color.NRGBA{R: 0x6A, G: 0xE3, B: 0xFF, A: 0x80},
		GlowBlur:    8,
	}
}

// Renderer draws one row of bars per call. Its scratch buffers are reused
// across frames; it is not safe for concurrent use.
type Renderer struct {
	style   Style
	opacity float64

	z       *vector.Rasterizer
	grad    gradient
	glowSrc *image.Uniform
	mask    *image.Alpha
	colW    []float64
	rowW    []float64
}

func NewRenderer(style Style) *Renderer {
	return &Renderer{
		style:   style,
		opacity: 1,
		z:       vector.NewRasterizer(0, 0),
		glowSrc: image.NewUniform(color.Transparent),
	}
}

func (r *Renderer) Style() Style { return r.style }

// SetOpacity scales every color drawn from now on; clamped to [0,1].
func (r *Renderer) SetOpacity(a float64) {
	r.opacity = math.Max(0, math.Min(1, a))
}

func (r *Renderer) Opacity() float64 { return r.opacity }

// Layout returns the logical x of the first bar so the row is centered in
// width, and the stride between bars.
func (r *Renderer) Layout(width float64, n int) (startX, stride float64) {
	stride = r.style.BarWidth + r.style.Gap
	total := float64(n)*stride - r.style.Gap
	return (width - total) / 2, stride
}

// Draw clears s and paints bars, each vertically centered, with a gradient
// fill, a glow pass and a second fill on top of the glow.
func (r *Renderer) Draw(s *Surface, bars []float64) error {
	if !s.Attached() {
		return ErrNoSurface
	}
	s.clear()
	if len(bars) == 0 {
		return nil
	}

	dst := s.img
	scale := s.Scale
	startX, stride := r.Layout(s.Width, len(bars))

	top := fade(r.style.Color, r.opacity)
	bottom := fade(r.style.Color, r.opacity*r.style.BottomAlpha)
	r.glowSrc.C = fade(r.style.Glow, r.opacity)

	for i, h := range bars {
		if h <= 0 {
			continue
		}
		x := startX + float64(i)*stride
		y := (s.Height - h) / 2
		x0, y0 := x*scale, y*scale
		x1, y1 := (x+r.style.BarWidth)*scale, (y+h)*scale

		r.grad = gradient{top: top, bottom: bottom, y0: y0, y1: y1}
		r.fill(dst, x0, y0, x1, y1)
		r.glow(dst, x0, y0, x1, y1, r.style.GlowBlur*scale/2)
		r.fill(dst, x0, y0, x1, y1)
	}
	return nil
}

// fill rasterizes the rectangle with anti-aliased edges through the
// current gradient.
func (r *Renderer) fill(dst *image.RGBA, x0, y0, x1, y1 float64) {
	b := dst.Bounds()
	x0, x1 = clampf(x0, b.Min.X, b.Max.X), clampf(x1, b.Min.X, b.Max.X)
	y0, y1 = clampf(y0, b.Min.Y, b.Max.Y), clampf(y1, b.Min.Y, b.Max.Y)
	box := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	if box.Empty() {
		return
	}

	ox, oy := float64(box.Min.X), float64(box.Min.Y)
	r.z.Reset(box.Dx(), box.Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(x0-ox), float32(y0-oy))
	r.z.LineTo(float32(x1-ox), float32(y0-oy))
	r.z.LineTo(float32(x1-ox), float32(y1-oy))
	r.z.LineTo(float32(x0-ox), float32(y1-oy))
	r.z.ClosePath()
	r.z.Draw(dst, box, &r.grad, box.Min)
}

// glow composites a Gaussian-blurred copy of the rectangle in the glow
// color. The blur of a box is separable, so each axis is an erf difference.
func (r *Renderer) glow(dst *image.RGBA, x0, y0, x1, y1, sigma float64) {
	if sigma <= 0 || r.glowSrc.C.(color.NRGBA).A == 0 {
		return
	}
	reach := 3 * sigma
	box := image.Rect(
		int(math.Floor(x0-reach)), int(math.Floor(y0-reach)),
		int(math.Ceil(x1+reach)), int(math.Ceil(y1+reach)),
	).Intersect(dst.Bounds())
	if box.Empty() {
		return
	}
	if r.mask == nil || r.mask.Bounds() != dst.Bounds() {
		r.mask = image.NewAlpha(dst.Bounds())
	}

	r.colW = resize(r.colW, box.Dx())
	for i := range r.colW {
		r.colW[i] = boxBlur(float64(box.Min.X+i)+0.5, x0, x1, sigma)
	}
	r.rowW = resize(r.rowW, box.Dy())
	for j := range r.rowW {
		r.rowW[j] = boxBlur(float64(box.Min.Y+j)+0.5, y0, y1, sigma)
	}
	for j, wy := range r.rowW {
		off := r.mask.PixOffset(box.Min.X, box.Min.Y+j)
		for i, wx := range r.colW {
			r.mask.Pix[off+i] = uint8(math.Round(255 * wx * wy))
		}
	}
	draw.DrawMask(dst, box, r.glowSrc, image.Point{}, r.mask, box.Min, draw.Over)
}

// boxBlur is the fraction of a unit box [lo,hi] that lands at c after a
// Gaussian blur with the given sigma.
func boxBlur(c, lo, hi, sigma float64) float64 {
	k := sigma * math.Sqrt2
	return 0.5 * (math.Erf((hi-c)/k) - math.Erf((lo-c)/k))
}

func fade(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * math.Max(0, math.Min(1, a))))
	return c
}

func clampf(v float64, lo, hi int) float64 {
	return math.Max(float64(lo), math.Min(float64(hi), v))
}

func resize(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}
