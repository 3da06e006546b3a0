package render

import (
	"fmt"
	"math"
)

// Decoration produces an auxiliary color per sample that is blended into the
// grey value in place of the base offset.
type Decoration interface {
	Color(phi, theta float64) uint8
	// Formula describes the decoration for image captions.
	Formula() string
}

// Stripes paints alternating dark and light bands around the main axis:
// color = trunc(128*sin(Frequency*phi)) + 128, clamped to [0, 255].
type Stripes struct {
	Frequency float64
}

// Color implements Decoration.
func (s Stripes) Color(phi, _ float64) uint8 {
	return Clamp(int(128*math.Sin(s.Frequency*phi)) + 128)
}

// Formula implements Decoration.
func (s Stripes) Formula() string {
	return fmt.Sprintf("color = int(128 * sin(%g*phi)) + 128", s.Frequency)
}

// Rings paints bands around the tube instead of around the main axis.
type Rings struct {
	Frequency float64
}

// Color implements Decoration.
func (r Rings) Color(_, theta float64) uint8 {
	return Clamp(int(128*math.Sin(r.Frequency*theta)) + 128)
}

// Formula implements Decoration.
func (r Rings) Formula() string {
	return fmt.Sprintf("color = int(128 * sin(%g*theta)) + 128", r.Frequency)
}

// DecorationKind selects a decoration.
type DecorationKind string

const (
	DecorationNone    DecorationKind = "none"
	DecorationStripes DecorationKind = "stripes"
	DecorationRings   DecorationKind = "rings"
)

// NewDecoration builds the decoration of the given kind. It returns nil for
// DecorationNone.
func NewDecoration(kind DecorationKind, frequency float64) (Decoration, error) {
	switch kind {
	case DecorationNone, "":
		return nil, nil
	case DecorationStripes:
		return Stripes{Frequency: frequency}, nil
	case DecorationRings:
		return Rings{Frequency: frequency}, nil
	default:
		return nil, fmt.Errorf("unknown decoration %q", kind)
	}
}

// GreyFormula describes how grey values are computed, for image captions.
func GreyFormula(m GreyMap, d Decoration) string {
	if d == nil {
		return fmt.Sprintf("grey = %d + int(%g * intensity)", m.Offset, m.Scale)
	}
	return fmt.Sprintf("grey = int(color/%d) + int(%g * intensity)", m.DecorationDivisor, m.Scale)
}
