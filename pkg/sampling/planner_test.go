package sampling

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/toroid/pkg/surface"
)

func TestPlanReferenceTorus(t *testing.T) {
	steps := Plan(surface.NewTorus(10, 3).Extent(), 30)

	assert.Equal(t, int(math.Ceil(2*math.Pi*13*30*1.414)), steps.Phi)
	assert.Equal(t, int(math.Ceil(math.Pi*3*30*1.414)), steps.Theta)
	assert.Equal(t, 3465, steps.Phi)
	assert.Equal(t, 400, steps.Theta)
	assert.Equal(t, 3465*400, steps.Total())
}

func TestPlanBulbous(t *testing.T) {
	steps := Plan(surface.NewBulbous(10, 3, 0.25, 5).Extent(), 30)

	assert.Equal(t, int(math.Ceil(2*math.Pi*13.25*30*1.414)), steps.Phi)
	assert.Equal(t, int(math.Ceil(math.Pi*3.25*30*1.414)), steps.Theta)
}

func TestPlanMonotonic(t *testing.T) {
	prev := Steps{}
	for ppu := 0.0; ppu <= 60; ppu += 2.5 {
		s := Plan(surface.Extent{Major: 10, Minor: 3}, ppu)
		assert.GreaterOrEqual(t, s.Phi, prev.Phi, "ppu=%v", ppu)
		assert.GreaterOrEqual(t, s.Theta, prev.Theta, "ppu=%v", ppu)
		prev = s
	}

	prev = Steps{}
	for minor := 0.0; minor <= 5; minor += 0.25 {
		s := Plan(surface.Extent{Major: 10, Minor: minor}, 30)
		assert.GreaterOrEqual(t, s.Phi, prev.Phi, "minor=%v", minor)
		assert.GreaterOrEqual(t, s.Theta, prev.Theta, "minor=%v", minor)
		prev = s
	}

	prev = Steps{}
	for major := 0.0; major <= 20; major++ {
		s := Plan(surface.Extent{Major: major, Minor: 3}, 30)
		assert.GreaterOrEqual(t, s.Phi, prev.Phi, "major=%v", major)
		prev = s
	}
}

func TestPlanDegenerate(t *testing.T) {
	assert.Equal(t, Steps{}, Plan(surface.Extent{Major: 10, Minor: 3}, 0))
	assert.Equal(t, 0, Plan(surface.Extent{Major: 10}, 30).Theta)
}

func TestPlanNeverNegative(t *testing.T) {
	// Negative scale or a hand-built negative extent yields no samples.
	assert.Equal(t, Steps{}, Plan(surface.Extent{Major: 10, Minor: 3}, -30))
	s := Plan(surface.Extent{Major: 10, Minor: -1}, 5)
	assert.Positive(t, s.Phi)
	assert.Zero(t, s.Theta)
	assert.Zero(t, s.Total())

	// Negative radii on a surface plan like their magnitudes.
	assert.Equal(t, Plan(surface.NewTorus(10, 1).Extent(), 5), Plan(surface.NewTorus(10, -1).Extent(), 5))
	assert.Equal(t,
		Plan(surface.NewBulbous(10, 3, 0.5, 4).Extent(), 5),
		Plan(surface.NewBulbous(10, 3, -0.5, 4).Extent(), 5))
}

func TestPlanNoGaps(t *testing.T) {
	// Adjacent samples at the outer equator move less than one pixel.
	const ppu = 30.0
	e := surface.Extent{Major: 10, Minor: 3}
	s := Plan(e, ppu)

	dPhi := 2 * math.Pi / float64(s.Phi-1)
	assert.Less(t, e.Outer()*dPhi*ppu, 1.0)

	dTheta := math.Pi / float64(s.Theta-1)
	assert.Less(t, e.Minor*dTheta*ppu, 1.0)
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		n        int
		expected []float64
	}{
		{"empty", Range{0, 1}, 0, nil},
		{"negative", Range{0, 1}, -3, nil},
		{"single", Range{2, 5}, 1, []float64{2}},
		{"two", Range{2, 5}, 2, []float64{2, 5}},
		{"five", Range{0, 1}, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Linspace(tc.r, tc.n))
		})
	}
}

func TestLinspaceEndpoints(t *testing.T) {
	v := Linspace(PhiRange, 3465)
	require.Len(t, v, 3465)
	assert.Equal(t, 0.0, v[0])
	assert.Equal(t, 2*math.Pi, v[len(v)-1])
	for i := 1; i < len(v); i++ {
		require.Greater(t, v[i], v[i-1])
	}
}
