// Package surface provides the parametric surfaces that are sampled into
// point clouds: the plain torus and the bulbous (lobed) torus.
package surface

import (
	"fmt"
	"math"

	"github.com/taigrr/toroid/pkg/math3d"
)

// Surface maps a pair of parametric angles to a point and its normal.
// phi sweeps around the main axis, theta sweeps around the tube.
type Surface interface {
	PointNormal(phi, theta float64) (point, normal math3d.Vec3)
	Extent() Extent
}

// Extent is the worst-case size of a surface, used to plan sampling density.
// Both fields are magnitudes: a negative radius traces the same circle as its
// absolute value.
type Extent struct {
	Major float64 // Distance from the main axis to the tube center
	Minor float64 // Largest tube radius, including any bulge
}

// Outer returns the largest distance from the main axis to the surface.
func (e Extent) Outer() float64 {
	return e.Major + e.Minor
}

// Torus is the plain ring torus.
type Torus struct {
	Major float64 // Distance from the main axis to the tube center
	Minor float64 // Tube radius
}

// NewTorus creates a torus with major radius major and tube radius minor.
func NewTorus(major, minor float64) Torus {
	return Torus{Major: major, Minor: minor}
}

// PointNormal implements Surface.
//
// The normal is the unit normal of the ideal torus. It is not renormalized.
func (t Torus) PointNormal(phi, theta float64) (math3d.Vec3, math3d.Vec3) {
	return tubePoint(t.Major, t.Minor, phi, theta), tubeNormal(phi, theta)
}

// Extent implements Surface.
func (t Torus) Extent() Extent {
	return Extent{Major: math.Abs(t.Major), Minor: math.Abs(t.Minor)}
}

// Bulbous is a torus whose tube radius is modulated around phi:
// re(phi) = r + rb*sin(lobes*phi).
type Bulbous struct {
	Major float64 // Distance from the main axis to the tube center
	Minor float64 // Base tube radius
	Bulb  float64 // Modulation amplitude
	Lobes int     // Number of lobes around the ring
}

// NewBulbous creates a bulbous torus.
func NewBulbous(major, minor, bulb float64, lobes int) Bulbous {
	return Bulbous{Major: major, Minor: minor, Bulb: bulb, Lobes: lobes}
}

// Radius returns the effective tube radius at phi.
func (b Bulbous) Radius(phi float64) float64 {
	return b.Minor + b.Bulb*math.Sin(float64(b.Lobes)*phi)
}

// PointNormal implements Surface.
//
// The normal is the plain torus normal. It ignores the slope that the
// phi-dependent radius introduces, so it is only approximate when Bulb != 0.
func (b Bulbous) PointNormal(phi, theta float64) (math3d.Vec3, math3d.Vec3) {
	return tubePoint(b.Major, b.Radius(phi), phi, theta), tubeNormal(phi, theta)
}

// Extent implements Surface.
func (b Bulbous) Extent() Extent {
	return Extent{Major: math.Abs(b.Major), Minor: math.Abs(b.Minor) + math.Abs(b.Bulb)}
}

func tubePoint(major, minor, phi, theta float64) math3d.Vec3 {
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	ring := major + minor*ct
	return math3d.V3(ring*cp, ring*sp, minor*st)
}

func tubeNormal(phi, theta float64) math3d.Vec3 {
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return math3d.V3(cp*ct, sp*ct, st)
}

// Kind selects a surface variant.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindBulbous Kind = "bulbous"
)

// New builds the surface of the given kind. Bulb and lobes are ignored for
// the plain torus.
func New(kind Kind, major, minor, bulb float64, lobes int) (Surface, error) {
	switch kind {
	case KindPlain, "":
		return NewTorus(major, minor), nil
	case KindBulbous:
		return NewBulbous(major, minor, bulb, lobes), nil
	default:
		return nil, fmt.Errorf("unknown surface %q (use %q or %q)", kind, KindPlain, KindBulbous)
	}
}
