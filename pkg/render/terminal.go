package render

import (
	"image/color"

	"github.com/anthonynsimon/bild/transform"
	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen.
// The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top grey and bg=bottom grey

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: color.Gray{Y: fb.GetPixel(x, topY)},
					Bg: color.Gray{Y: fb.GetPixel(x, botY)},
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalSize returns the framebuffer size that fills a terminal of the
// given columns and rows using half-block cells.
func TerminalSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Fit scales fb to fit inside width x height pixels, keeping its aspect ratio.
func (fb *Framebuffer) Fit(width, height int) *Framebuffer {
	if fb.Width == 0 || fb.Height == 0 || width <= 0 || height <= 0 {
		return NewFramebuffer(max(width, 0), max(height, 0), 0)
	}
	sx := float64(width) / float64(fb.Width)
	sy := float64(height) / float64(fb.Height)
	s := min(sx, sy)
	w := max(1, int(float64(fb.Width)*s))
	h := max(1, int(float64(fb.Height)*s))
	return FramebufferFromImage(transform.Resize(fb.ToImage(), w, h, transform.Linear))
}
