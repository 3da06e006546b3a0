package render

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// glyphHeight is the pixel height of the built-in face at scale 1.
const glyphHeight = 13

// TextScale returns the integer magnification that brings the built-in face
// closest to the requested text size in pixels, never less than 1.
func TextScale(size int) int {
	return max(1, (size+glyphHeight/2)/glyphHeight)
}

// DrawText draws text with its top-left corner at (x, y), magnified by scale.
// Glyph pixels falling outside the framebuffer are skipped.
func (fb *Framebuffer) DrawText(x, y int, text string, g uint8, scale int) {
	if text == "" {
		return
	}
	scale = max(scale, 1)

	face := basicfont.Face7x13
	metrics := face.Metrics()
	w := font.MeasureString(face, text).Ceil()
	h := metrics.Height.Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	for my := range h {
		for mx := range w {
			if mask.AlphaAt(mx, my).A < 0x80 {
				continue
			}
			for sy := range scale {
				for sx := range scale {
					fb.SetPixel(x+mx*scale+sx, y+my*scale+sy, g)
				}
			}
		}
	}
}

// Caption describes the text drawn onto a labeled image.
type Caption struct {
	Header string   // Drawn at the top-left corner of the image
	Lines  []string // Drawn one per line in the rows below the image
}

// LabelLayout places caption text.
type LabelLayout struct {
	TextSize   int   // Requested glyph height in pixels
	LineHeight int   // Rows reserved per caption line
	Margin     int   // Left margin and header offset
	Color      uint8 // Text grey
}

// DefaultLabelLayout returns 32 pixel text on 40 pixel lines in black.
func DefaultLabelLayout() LabelLayout {
	return LabelLayout{TextSize: 32, LineHeight: 40, Margin: 10, Color: 0}
}

// ExtraRows returns the rows to add below the image for n caption lines.
func (l LabelLayout) ExtraRows(n int) int {
	return n * l.LineHeight
}

// DrawCaption draws c onto fb. imageHeight is the height of the rendered
// image; caption lines start directly below it.
func (fb *Framebuffer) DrawCaption(c Caption, imageHeight int, l LabelLayout) {
	scale := TextScale(l.TextSize)
	fb.DrawText(l.Margin, l.Margin, c.Header, l.Color, scale)
	for i, line := range c.Lines {
		fb.DrawText(l.Margin, imageHeight+i*l.LineHeight, line, l.Color, scale)
	}
}
