package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// styleCacheLimit bounds the per-presenter style cache; fading produces a
// new color per frame so the cache is reset rather than grown forever.
const styleCacheLimit = 4096

type cellKey struct{ fg, bg string }

// HalfBlock presents an RGBA buffer as terminal text, two pixel rows per
// line using the upper half block glyph.
type HalfBlock struct {
	bg     colorful.Color
	bgHex  string
	blank  string
	styles map[cellKey]lipgloss.Style
}

// NewHalfBlock returns a presenter that composites pixels over bg.
func NewHalfBlock(bg color.Color) *HalfBlock {
	c, _ := colorful.MakeColor(opaque(bg))
	hex := c.Hex()
	return &HalfBlock{
		bg:     c,
		bgHex:  hex,
		blank:  lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render(" "),
		styles: make(map[cellKey]lipgloss.Style),
	}
}

// HalfBlocks renders img over bg with a throwaway presenter.
func HalfBlocks(img *image.RGBA, bg color.Color) string {
	return NewHalfBlock(bg).Render(img)
}

// Render returns one line per two pixel rows. A nil image renders empty.
func (h *HalfBlock) Render(img *image.RGBA) string {
	if img == nil {
		return ""
	}
	b := img.Bounds()
	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := h.over(img, x, y)
			bot := h.bgHex
			if y+1 < b.Max.Y {
				bot = h.over(img, x, y+1)
			}
			switch {
			case top == h.bgHex && bot == h.bgHex:
				out.WriteString(h.blank)
			case top == bot:
				out.WriteString(h.style(top, "").Render("█"))
			default:
				out.WriteString(h.style(top, bot).Render("▀"))
			}
		}
		if y+2 < b.Max.Y {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// over composites the premultiplied pixel at x,y over the background.
func (h *HalfBlock) over(img *image.RGBA, x, y int) string {
	i := img.PixOffset(x, y)
	p := img.Pix[i : i+4 : i+4]
	if p[3] == 0 {
		return h.bgHex
	}
	rest := 1 - float64(p[3])/255
	return colorful.Color{
		R: float64(p[0])/255 + h.bg.R*rest,
		G: float64(p[1])/255 + h.bg.G*rest,
		B: float64(p[2])/255 + h.bg.B*rest,
	}.Clamped().Hex()
}

func (h *HalfBlock) style(fg, bg string) lipgloss.Style {
	k := cellKey{fg, bg}
	if s, ok := h.styles[k]; ok {
		return s
	}
	if len(h.styles) >= styleCacheLimit {
		clear(h.styles)
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	h.styles[k] = s
	return s
}

func opaque(c color.Color) color.Color {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return color.Black
	}
	return color.RGBA64{
		R: uint16(r * 0xffff / a),
		G: uint16(g * 0xffff / a),
		B: uint16(b * 0xffff / a),
		A: 0xffff,
	}
}
