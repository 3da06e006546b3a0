package render

import (
	"math"

	"github.com/taigrr/toroid/pkg/math3d"
)

// Projection maps surface points to pixels with a fixed orthographic scale
// and center offset. The Z coordinate is dropped.
type Projection struct {
	PixelsPerUnit float64 // Pixels per geometry unit
	CenterX       int     // Pixel column of the geometry origin
	CenterY       int     // Pixel row of the geometry origin
}

// Project returns the pixel for p. Coordinates are truncated toward zero, not
// rounded, for positive and negative values alike.
func (pr Projection) Project(p math3d.Vec3) (x, y int) {
	return pr.CenterX + int(p.X*pr.PixelsPerUnit), pr.CenterY + int(p.Y*pr.PixelsPerUnit)
}

// GreyMap converts intensities (and optional decoration colors) to raw grey
// values before clamping.
type GreyMap struct {
	Offset            int     // Base grey added to undecorated samples
	Scale             float64 // Grey levels per unit of intensity
	DecorationDivisor int     // Decoration color is divided by this before blending
}

// DefaultGreyMap maps intensity 0 to 64 and intensity 1 to 256.
func DefaultGreyMap() GreyMap {
	return GreyMap{Offset: 64, Scale: 192, DecorationDivisor: 3}
}

// Raw returns offset + trunc(scale*intensity).
func (m GreyMap) Raw(intensity float64) int {
	return m.Offset + int(m.Scale*intensity)
}

// RawDecorated returns color/divisor + trunc(scale*intensity). The offset is
// not applied; the decoration takes its place.
func (m GreyMap) RawDecorated(color uint8, intensity float64) int {
	d := m.DecorationDivisor
	if d == 0 {
		d = 1
	}
	return int(color)/d + int(m.Scale*intensity)
}

// Clamp limits a raw grey value to [0, 255].
func Clamp(g int) uint8 {
	return uint8(min(max(g, 0), 255))
}

// Extrema tracks the observed intensity and raw grey ranges of a render.
type Extrema struct {
	MinIntensity float64
	MaxIntensity float64
	MinGrey      int // Raw grey, before clamping
	MaxGrey      int // Raw grey, before clamping
	Samples      int
}

// NewExtrema returns empty extrema.
func NewExtrema() Extrema {
	return Extrema{
		MinIntensity: math.Inf(1),
		MaxIntensity: math.Inf(-1),
		MinGrey:      math.MaxInt,
		MaxGrey:      math.MinInt,
	}
}

// Observe widens the ranges to include one sample.
func (e *Extrema) Observe(intensity float64, grey int) {
	e.MinIntensity = math.Min(e.MinIntensity, intensity)
	e.MaxIntensity = math.Max(e.MaxIntensity, intensity)
	e.MinGrey = min(e.MinGrey, grey)
	e.MaxGrey = max(e.MaxGrey, grey)
	e.Samples++
}

// Empty reports whether no sample has been observed.
func (e Extrema) Empty() bool {
	return e.Samples == 0
}

// Rasterizer scatters lit samples into a framebuffer.
//
// Every sample overwrites whatever its pixel already holds: there is no depth
// test, so the order samples arrive in decides which one survives where
// several land on the same pixel.
type Rasterizer struct {
	fb      *Framebuffer
	proj    Projection
	grey    GreyMap
	Extrema Extrema // Intensity and raw grey ranges seen so far
	Written int     // Samples stored in the framebuffer
	Clipped int     // Samples whose pixel fell outside the framebuffer
}

// NewRasterizer creates a rasterizer writing into fb.
func NewRasterizer(fb *Framebuffer, proj Projection, grey GreyMap) *Rasterizer {
	return &Rasterizer{
		fb:      fb,
		proj:    proj,
		grey:    grey,
		Extrema: NewExtrema(),
	}
}

// Plot stores an undecorated sample.
func (r *Rasterizer) Plot(p math3d.Vec3, intensity float64) {
	r.store(p, intensity, r.grey.Raw(intensity))
}

// PlotDecorated stores a sample whose grey blends a decoration color with the
// intensity contribution.
func (r *Rasterizer) PlotDecorated(p math3d.Vec3, intensity float64, color uint8) {
	r.store(p, intensity, r.grey.RawDecorated(color, intensity))
}

func (r *Rasterizer) store(p math3d.Vec3, intensity float64, raw int) {
	r.Extrema.Observe(intensity, raw)
	x, y := r.proj.Project(p)
	if r.fb.SetPixel(x, y, Clamp(raw)) {
		r.Written++
	} else {
		r.Clipped++
	}
}
