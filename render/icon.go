package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
)

// iconBars are the logical bar heights of the tray icon, low at the edges.
var iconBars = []float64{6, 11, 16, 11, 6}

// Icon draws a size x size PNG: a dark disc with a short row of bars in the
// style's color. Recording icons get a red ring.
func Icon(size int, style Style, recording bool) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cx, cy := float64(size)/2, float64(size)/2
	r := float64(size)/2 - 1
	ring := color.RGBA{R: 255, G: 59, B: 48, A: 255}
	disc := color.RGBA{R: 21, G: 27, B: 44, A: 255}
	for y := range size {
		for x := range size {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			switch {
			case d > r:
			case recording && d > r-float64(size)/11:
				img.SetRGBA(x, y, ring)
			default:
				img.SetRGBA(x, y, disc)
			}
		}
	}

	// draw the bars on a 22-unit logical grid scaled to the icon
	scale := float64(size) / 22
	s := NewSurface(22, 22, scale)
	style.GlowBlur = 0
	if err := NewRenderer(style).Draw(s, iconBars); err != nil {
		return nil, err
	}
	draw.Draw(img, img.Bounds(), s.Image(), image.Point{}, draw.Over)
	return EncodePNG(img)
}

func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
