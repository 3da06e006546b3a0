// Package cloud holds sampled surface points and moves them in and out of
// binary glTF files.
package cloud

import (
	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/pipeline"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/sampling"
)

// Point is one shaded surface sample.
type Point struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Grey     uint8
}

// Cloud is an ordered point set. Order is the sampling traversal order, so
// scattering the points in sequence reproduces last-write-wins rendering.
type Cloud struct {
	Name   string
	Points []Point

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// New creates an empty cloud.
func New(name string) *Cloud {
	return &Cloud{Name: name}
}

// FromRender samples the surface described by o, shading every point with
// the same grey the scatter renderer would store.
func FromRender(name string, o pipeline.Options, steps sampling.Steps) *Cloud {
	c := New(name)
	c.Points = make([]Point, 0, steps.Total())
	pipeline.Walk(o, steps, func(s pipeline.Sample) {
		raw := o.Grey.Raw(s.Intensity)
		if o.Decoration != nil {
			raw = o.Grey.RawDecorated(o.Decoration.Color(s.Phi, s.Theta), s.Intensity)
		}
		c.Points = append(c.Points, Point{
			Position: s.Point,
			Normal:   s.Normal,
			Grey:     render.Clamp(raw),
		})
	})
	c.CalculateBounds()
	return c
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return len(c.Points)
}

// CalculateBounds computes the axis-aligned bounding box.
func (c *Cloud) CalculateBounds() {
	if len(c.Points) == 0 {
		return
	}

	c.BoundsMin = c.Points[0].Position
	c.BoundsMax = c.Points[0].Position

	for _, p := range c.Points[1:] {
		c.BoundsMin = c.BoundsMin.Min(p.Position)
		c.BoundsMax = c.BoundsMax.Max(p.Position)
	}
}

// Center returns the center of the bounding box.
func (c *Cloud) Center() math3d.Vec3 {
	return c.BoundsMin.Add(c.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (c *Cloud) Size() math3d.Vec3 {
	return c.BoundsMax.Sub(c.BoundsMin)
}

// Transform applies m to every point and recomputes the bounds.
func (c *Cloud) Transform(m math3d.Mat4) {
	for i := range c.Points {
		c.Points[i].Position = m.MulVec3(c.Points[i].Position)
		c.Points[i].Normal = m.MulVec3Dir(c.Points[i].Normal).Normalize()
	}
	c.CalculateBounds()
}

// Draw scatters the points into fb in order and reports how many landed
// inside and outside the canvas.
func (c *Cloud) Draw(fb *render.Framebuffer, proj render.Projection) (written, clipped int) {
	for _, p := range c.Points {
		x, y := proj.Project(p.Position)
		if fb.SetPixel(x, y, p.Grey) {
			written++
		} else {
			clipped++
		}
	}
	return written, clipped
}
