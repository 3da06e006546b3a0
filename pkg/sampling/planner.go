// Package sampling plans how densely a parametric surface must be sampled so
// that scatter-plotted samples leave no gaps once projected to pixels.
package sampling

import (
	"math"

	"github.com/taigrr/toroid/pkg/surface"
)

// SafetyFactor allows for worst-case diagonal travel between neighbouring
// samples (approximately sqrt(2)).
const SafetyFactor = 1.414

// Steps is the number of samples along each parametric angle.
type Steps struct {
	Phi   int
	Theta int
}

// Total returns the number of (phi, theta) samples.
func (s Steps) Total() int {
	return s.Phi * s.Theta
}

// Plan returns step counts so that adjacent samples are at most one pixel
// apart at the outer envelope of a surface with extent e, projected at
// pixelsPerUnit.
//
//	phi   = ceil(2π·(major+minor)·ppu·SafetyFactor)
//	theta = ceil(π·minor·ppu·SafetyFactor)
//
// The bound is computed once from the worst case, not per sample. Inputs that
// make a count negative (a negative radius or scale) yield zero steps on that
// axis, so such a surface renders nothing.
func Plan(e surface.Extent, pixelsPerUnit float64) Steps {
	return Steps{
		Phi:   max(0, int(math.Ceil(2*math.Pi*e.Outer()*pixelsPerUnit*SafetyFactor))),
		Theta: max(0, int(math.Ceil(math.Pi*e.Minor*pixelsPerUnit*SafetyFactor))),
	}
}

// Range is a closed interval of angles sampled with evenly spaced values.
type Range struct {
	Start, Stop float64
}

// PhiRange is the full sweep around the main axis.
var PhiRange = Range{0, 2 * math.Pi}

// ThetaRange is the upper half of the tube, the part facing a viewer on +Z.
var ThetaRange = Range{0, math.Pi}

// Linspace returns n evenly spaced values from r.Start to r.Stop inclusive.
// It returns no values for n <= 0 and only r.Start for n == 1.
func Linspace(r Range, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = r.Start
		return out
	}
	step := (r.Stop - r.Start) / float64(n-1)
	for i := range n {
		out[i] = r.Start + float64(i)*step
	}
	out[n-1] = r.Stop
	return out
}
