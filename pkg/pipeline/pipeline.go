// Package pipeline renders a configured surface: it plans the sampling grid,
// walks it phi-major, lights every sample and scatters it into a framebuffer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taigrr/toroid/pkg/config"
	"github.com/taigrr/toroid/pkg/lighting"
	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/sampling"
	"github.com/taigrr/toroid/pkg/surface"
)

// Options is everything a render needs. It is built once and not modified
// while rendering.
type Options struct {
	Surface     surface.Surface
	Lighting    lighting.Params
	Projection  render.Projection
	Grey        render.GreyMap
	Decoration  render.Decoration // nil for plain shading
	Theta       sampling.Range
	Orientation math3d.Mat4

	Width      int
	Height     int // Height of the rendered image, excluding caption rows
	Background uint8

	Label       bool
	LabelLayout render.LabelLayout

	Logger *slog.Logger // nil discards diagnostics
}

// FromConfig builds render options from a validated config.
func FromConfig(cfg config.Config) (Options, error) {
	s, err := cfg.BuildSurface()
	if err != nil {
		return Options{}, err
	}
	d, err := cfg.Decoration()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Surface:     s,
		Lighting:    cfg.LightingParams(),
		Projection:  cfg.Projection(),
		Grey:        cfg.GreyMap(),
		Decoration:  d,
		Theta:       cfg.ThetaRange(),
		Orientation: cfg.Orientation(),
		Width:       cfg.Canvas.Width,
		Height:      cfg.Canvas.Height,
		Background:  cfg.Canvas.Background,
		Label:       cfg.Label.Enabled,
		LabelLayout: cfg.LabelLayout(),
	}, nil
}

// Sample is one lit point of the surface.
type Sample struct {
	Phi, Theta float64
	Point      math3d.Vec3
	Normal     math3d.Vec3
	Intensity  float64
}

// Stats summarizes a render.
type Stats struct {
	Steps   sampling.Steps
	Written int // Samples stored in the framebuffer
	Clipped int // Samples projected outside the framebuffer
	Extrema render.Extrema
	Elapsed time.Duration // Wall time of the sampling loop
}

// Result is a finished render.
type Result struct {
	Frame *render.Framebuffer
	Stats Stats
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Plan returns the sampling grid size for the options.
func (o Options) Plan() sampling.Steps {
	return sampling.Plan(o.Surface.Extent(), o.Projection.PixelsPerUnit)
}

// Walk visits every sample in traversal order: the outer loop runs over phi,
// the inner loop over theta. fn sees samples in the same order on every call.
func Walk(o Options, steps sampling.Steps, fn func(Sample)) {
	log := o.logger()
	progress := log.Enabled(context.Background(), slog.LevelDebug)
	orient := !o.Orientation.IsIdentity()

	thetas := sampling.Linspace(o.Theta, steps.Theta)
	for i, phi := range sampling.Linspace(sampling.PhiRange, steps.Phi) {
		for _, theta := range thetas {
			p, n := o.Surface.PointNormal(phi, theta)
			if orient {
				p = o.Orientation.MulVec3(p)
				n = o.Orientation.MulVec3Dir(n)
			}
			fn(Sample{
				Phi:       phi,
				Theta:     theta,
				Point:     p,
				Normal:    n,
				Intensity: o.Lighting.Illuminate(p, n),
			})
		}
		if progress {
			log.Debug("phi slice", "step", i+1, "of", steps.Phi, "phi", phi)
		}
	}
}

// Render draws one image. It is deterministic: the same options always
// produce the same pixels.
func Render(o Options) Result {
	log := o.logger()
	steps := o.Plan()
	log.Info("sampling planned", "phi_steps", steps.Phi, "theta_steps", steps.Theta, "samples", steps.Total())

	height := o.Height
	var caption render.Caption
	if o.Label {
		caption = Caption(o, render.NewExtrema(), time.Time{})
		height += o.LabelLayout.ExtraRows(len(caption.Lines))
	}

	fb := render.NewFramebuffer(o.Width, height, o.Background)
	r := render.NewRasterizer(fb, o.Projection, o.Grey)

	start := time.Now()
	Walk(o, steps, func(s Sample) {
		if o.Decoration != nil {
			r.PlotDecorated(s.Point, s.Intensity, o.Decoration.Color(s.Phi, s.Theta))
			return
		}
		r.Plot(s.Point, s.Intensity)
	})
	elapsed := time.Since(start)

	stats := Stats{
		Steps:   steps,
		Written: r.Written,
		Clipped: r.Clipped,
		Extrema: r.Extrema,
		Elapsed: elapsed,
	}
	log.Info("render complete",
		"elapsed", elapsed.Round(time.Millisecond),
		"intensity_min", round2(stats.Extrema.MinIntensity),
		"intensity_max", round2(stats.Extrema.MaxIntensity),
		"grey_min", stats.Extrema.MinGrey,
		"grey_max", stats.Extrema.MaxGrey,
		"written", stats.Written,
		"clipped", stats.Clipped)
	if stats.Clipped > 0 {
		log.Warn("samples fell outside the canvas", "clipped", stats.Clipped)
	}

	if o.Label {
		fb.DrawCaption(Caption(o, stats.Extrema, time.Now()), o.Height, o.LabelLayout)
	}

	return Result{Frame: fb, Stats: stats}
}

// Caption builds the label text for a render: a timestamp header and lines
// for the decoration formula, the grey formula and the observed ranges.
// A zero timestamp leaves the header empty.
func Caption(o Options, e render.Extrema, at time.Time) render.Caption {
	var c render.Caption
	if !at.IsZero() {
		c.Header = at.Format("01/02/2006 15:04")
	}
	if o.Decoration != nil {
		c.Lines = append(c.Lines, o.Decoration.Formula())
	}
	c.Lines = append(c.Lines, render.GreyFormula(o.Grey, o.Decoration))
	if e.Empty() {
		c.Lines = append(c.Lines, "Intensity: (-, -); Grey: (-, -);")
	} else {
		c.Lines = append(c.Lines, fmt.Sprintf("Intensity: (%.2f, %.2f); Grey: (%d, %d);",
			e.MinIntensity, e.MaxIntensity, e.MinGrey, e.MaxGrey))
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
