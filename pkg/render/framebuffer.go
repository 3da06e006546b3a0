// Package render scatters lit surface samples into an 8-bit grayscale
// framebuffer and moves that framebuffer to PNG files and the terminal.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
)

// Framebuffer is a fixed-size grid of grey levels, row-major by (y, x).
// It is owned by a single render pass and is not safe for concurrent writers.
type Framebuffer struct {
	Width  int     // Width in pixels
	Height int     // Height in pixels
	Pixels []uint8 // Row-major grey levels
}

// NewFramebuffer creates a framebuffer filled with the background grey.
func NewFramebuffer(width, height int, background uint8) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint8, width*height),
	}
	fb.Clear(background)
	return fb
}

// Clear fills the framebuffer with a solid grey.
func (fb *Framebuffer) Clear(g uint8) {
	// Use copy-doubling for faster clearing
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = g
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// InBounds reports whether (x, y) addresses a pixel of the framebuffer.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets the pixel at (x, y), overwriting any previous value.
// Out-of-range writes are skipped and reported by returning false.
func (fb *Framebuffer) SetPixel(x, y int, g uint8) bool {
	if !fb.InBounds(x, y) {
		return false
	}
	fb.Pixels[y*fb.Width+x] = g
	return true
}

// GetPixel returns the grey at (x, y).
// Returns 0 if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) uint8 {
	if !fb.InBounds(x, y) {
		return 0
	}
	return fb.Pixels[y*fb.Width+x]
}

// Count returns how many pixels hold exactly g.
func (fb *Framebuffer) Count(g uint8) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == g {
			n++
		}
	}
	return n
}

// ToImage converts the framebuffer to a standard Go image.Gray.
func (fb *Framebuffer) ToImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Pixels)
	return img
}

// FramebufferFromImage converts any image to a grey framebuffer using the
// standard luminance conversion.
func FramebufferFromImage(img image.Image) *Framebuffer {
	bounds := img.Bounds()
	fb := &Framebuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: make([]uint8, bounds.Dx()*bounds.Dy()),
	}
	if g, ok := img.(*image.Gray); ok && g.Stride == fb.Width && bounds.Min == (image.Point{}) {
		copy(fb.Pixels, g.Pix)
		return fb
	}
	for y := range fb.Height {
		for x := range fb.Width {
			c := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			fb.Pixels[y*fb.Width+x] = c.(color.Gray).Y
		}
	}
	return fb
}

// SavePNG saves the framebuffer as an 8-bit grayscale PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	if err := imgio.Save(path, fb.ToImage(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// LoadPNG loads an image file (PNG or JPEG) into a grey framebuffer.
func LoadPNG(path string) (*Framebuffer, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return FramebufferFromImage(img), nil
}
