package math3d

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		in       Vec3
		expected Vec3
	}{
		{"unit x", V3(1, 0, 0), V3(1, 0, 0)},
		{"3-4-5", V3(0, 3, 4), V3(0, 0.6, 0.8)},
		{"negative", V3(-2, 0, 0), V3(-1, 0, 0)},
		{"zero stays zero", Vec3{}, Vec3{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if !got.ApproxEqual(tc.expected, 1e-12) {
				t.Errorf("Normalize(%v) = %v, want %v", tc.in, got, tc.expected)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) || math.IsNaN(got.Z) {
				t.Errorf("Normalize(%v) produced NaN", tc.in)
			}
		})
	}
}

func TestDot(t *testing.T) {
	x, y := V3(1, 0, 0), V3(0, 1, 0)
	if d := x.Dot(y); d != 0 {
		t.Errorf("x·y = %v, want 0", d)
	}
	if d := V3(1, 2, 3).Dot(V3(4, 5, 6)); d != 32 {
		t.Errorf("dot = %v, want 32", d)
	}
}

func TestNegate(t *testing.T) {
	if got := V3(1, -2, 0.5).Negate(); got != V3(-1, 2, -0.5) {
		t.Errorf("Negate = %v", got)
	}
}

func TestOrientationIdentity(t *testing.T) {
	if !Orientation(0, 0).IsIdentity() {
		t.Error("zero orientation should be identity")
	}
	p := V3(13, 0, 0)
	if got := Orientation(0, 0).MulVec3(p); got != p {
		t.Errorf("identity moved point: %v", got)
	}
}

func TestOrientationRotates(t *testing.T) {
	// Spin 90 degrees about Z takes +X to +Y.
	got := Orientation(0, 90).MulVec3Dir(V3(1, 0, 0))
	if !got.ApproxEqual(V3(0, 1, 0), 1e-12) {
		t.Errorf("spin 90: got %v, want (0,1,0)", got)
	}

	// Tilt 90 degrees about X takes +Y to +Z.
	got = Orientation(90, 0).MulVec3Dir(V3(0, 1, 0))
	if !got.ApproxEqual(V3(0, 0, 1), 1e-12) {
		t.Errorf("tilt 90: got %v, want (0,0,1)", got)
	}

	// Rotations preserve length.
	v := V3(3, -4, 12)
	if l := Orientation(33, 71).MulVec3Dir(v).Len(); math.Abs(l-13) > 1e-9 {
		t.Errorf("rotated length = %v, want 13", l)
	}
}

func TestMulVec3Translate(t *testing.T) {
	got := Translate(V3(1, 2, 3)).MulVec3(V3(1, 1, 1))
	if got != V3(2, 3, 4) {
		t.Errorf("translate point = %v, want (2,3,4)", got)
	}
	dir := Translate(V3(1, 2, 3)).MulVec3Dir(V3(1, 1, 1))
	if dir != V3(1, 1, 1) {
		t.Errorf("translate direction = %v, want unchanged", dir)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := V3(1, -2, 3)
	b := V3(-1, 5, 3)
	if got := a.Min(b); got != V3(-1, -2, 3) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != V3(1, 5, 3) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3Float32RoundTrip(t *testing.T) {
	v := V3(13, -0.5, 2.25)
	if got := FromFloat32(v.Float32()); got != v {
		t.Errorf("FromFloat32(Float32()) = %v, want %v", got, v)
	}
}
