// Package lighting implements the Blinn-Phong reflection model for a single
// point light and a single viewer.
package lighting

import (
	"math"

	"github.com/taigrr/toroid/pkg/math3d"
)

// Params holds the reflection coefficients, intensities and the positions of
// the light and the viewer. A Params value is read-only during a render.
type Params struct {
	Ka float64 // Ambient coefficient
	Kd float64 // Diffuse coefficient
	Ks float64 // Specular coefficient

	Ia float64 // Ambient light intensity
	Il float64 // Point light intensity

	Shininess float64 // Specular exponent (higher = sharper highlights)

	Light  math3d.Vec3 // Point light position
	Viewer math3d.Vec3 // Viewer position
}

// DefaultParams returns a dim ambient term, a strong diffuse term and a tight
// highlight, with the light above and to the side of a viewer on the +Z axis.
func DefaultParams() Params {
	return Params{
		Ka:        0.1,
		Kd:        0.7,
		Ks:        0.2,
		Ia:        0.2,
		Il:        1.0,
		Shininess: 32,
		Light:     math3d.V3(25, 25, 25),
		Viewer:    math3d.V3(0, 0, 25),
	}
}

// Ambient returns the constant ambient contribution ka*Ia, which is also the
// lowest intensity Illuminate can return.
func (p Params) Ambient() float64 {
	return p.Ka * p.Ia
}

// Illuminate returns the reflected intensity at point for the given normal.
//
// The diffuse and specular terms are clamped at zero so surfaces facing away
// from the light or the halfway vector add nothing. The result is not
// clamped from above.
func (p Params) Illuminate(point, normal math3d.Vec3) float64 {
	ambient, diffuse, specular := p.Components(point, normal)
	return ambient + diffuse + specular
}

// Components returns the ambient, diffuse and specular terms separately.
// Their sum equals Illuminate.
func (p Params) Components(point, normal math3d.Vec3) (ambient, diffuse, specular float64) {
	l := p.Light.Sub(point).Normalize()
	v := p.Viewer.Sub(point).Normalize()
	h := l.Add(v).Normalize()

	ambient = p.Ambient()
	diffuse = p.Kd * p.Il * math.Max(0, normal.Dot(l))
	specular = p.Ks * p.Il * math.Pow(math.Max(0, normal.Dot(h)), p.Shininess)
	return ambient, diffuse, specular
}
