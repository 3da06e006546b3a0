package render

import "testing"

func TestTextScale(t *testing.T) {
	tests := []struct {
		size, expected int
	}{
		{0, 1},
		{6, 1},
		{13, 1},
		{20, 2},
		{32, 2},
		{40, 3},
	}
	for _, tc := range tests {
		if got := TextScale(tc.size); got != tc.expected {
			t.Errorf("TextScale(%d) = %d, want %d", tc.size, got, tc.expected)
		}
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	fb := NewFramebuffer(200, 40, 192)
	fb.DrawText(2, 2, "Intensity", 0, 1)

	n := fb.Count(0)
	if n == 0 {
		t.Fatal("DrawText drew nothing")
	}

	// Doubling the scale quadruples the inked area.
	big := NewFramebuffer(400, 80, 192)
	big.DrawText(4, 4, "Intensity", 0, 2)
	if got := big.Count(0); got != 4*n {
		t.Errorf("scaled ink = %d, want %d", got, 4*n)
	}
}

func TestDrawTextClipped(t *testing.T) {
	fb := NewFramebuffer(10, 10, 192)
	fb.DrawText(-50, -50, "clipped", 0, 3)
	if fb.Count(192) != 100 {
		t.Error("text entirely outside the framebuffer should not draw")
	}
	fb.DrawText(0, 0, "", 0, 1)
	if fb.Count(192) != 100 {
		t.Error("empty text should not draw")
	}
}

func TestDrawCaption(t *testing.T) {
	l := DefaultLabelLayout()
	if got := l.ExtraRows(3); got != 120 {
		t.Fatalf("ExtraRows(3) = %d, want 120", got)
	}

	fb := NewFramebuffer(400, 100+l.ExtraRows(2), 192)
	fb.DrawCaption(Caption{Lines: []string{"first", "second"}}, 100, l)

	// Nothing above the caption rows without a header.
	for y := range 100 {
		for x := range fb.Width {
			if fb.GetPixel(x, y) != 192 {
				t.Fatalf("caption ink at (%d, %d) above the caption rows", x, y)
			}
		}
	}
	if fb.Count(0) == 0 {
		t.Error("caption lines drew nothing")
	}
}
