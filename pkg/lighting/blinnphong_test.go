package lighting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/surface"
)

func TestAmbientFloor(t *testing.T) {
	p := DefaultParams()
	tor := surface.NewTorus(10, 3)
	for i := range 60 {
		for j := range 30 {
			phi := float64(i) * 2 * math.Pi / 59
			theta := float64(j) * 2 * math.Pi / 29
			pt, n := tor.PointNormal(phi, theta)
			assert.GreaterOrEqual(t, p.Illuminate(pt, n), p.Ambient())
		}
	}
}

func TestFacingAway(t *testing.T) {
	p := DefaultParams()
	// A normal pointing straight away from both the light and the viewer.
	point := math3d.V3(0, 0, 0)
	normal := p.Light.Add(p.Viewer).Normalize().Negate()
	assert.InDelta(t, p.Ambient(), p.Illuminate(point, normal), 1e-12)
}

func TestHeadOnHighlight(t *testing.T) {
	p := DefaultParams()
	// Light and viewer coincide: L == V == H, so n == L gives full diffuse and specular.
	p.Light = math3d.V3(0, 0, 25)
	p.Viewer = math3d.V3(0, 0, 25)
	got := p.Illuminate(math3d.Vec3{}, math3d.V3(0, 0, 1))
	assert.InDelta(t, p.Ka*p.Ia+p.Kd*p.Il+p.Ks*p.Il, got, 1e-12)
}

func TestCoincidentLightIsFinite(t *testing.T) {
	p := DefaultParams()
	// Point at the light position: L is the zero vector and stays zero.
	got := p.Illuminate(p.Light, math3d.V3(1, 0, 0))
	assert.False(t, math.IsNaN(got))
	assert.GreaterOrEqual(t, got, p.Ambient())
}

func TestComponentsSum(t *testing.T) {
	p := DefaultParams()
	pt, n := surface.NewTorus(10, 3).PointNormal(0.7, 0.4)
	a, d, s := p.Components(pt, n)
	assert.Equal(t, p.Illuminate(pt, n), a+d+s)
	assert.GreaterOrEqual(t, d, 0.0)
	assert.GreaterOrEqual(t, s, 0.0)
}

func TestKnownSample(t *testing.T) {
	p := DefaultParams()
	pt, n := surface.NewTorus(10, 3).PointNormal(0, 0)

	l := math3d.V3(12, 25, 25).Normalize()
	v := math3d.V3(-13, 0, 25).Normalize()
	h := l.Add(v).Normalize()
	want := 0.1*0.2 + 0.7*math.Max(0, n.Dot(l)) + 0.2*math.Pow(math.Max(0, n.Dot(h)), 32)

	assert.InDelta(t, want, p.Illuminate(pt, n), 1e-12)
}

func BenchmarkIlluminate(b *testing.B) {
	p := DefaultParams()
	pt, n := surface.NewTorus(10, 3).PointNormal(0.7, 0.4)
	for b.Loop() {
		_ = p.Illuminate(pt, n)
	}
}
