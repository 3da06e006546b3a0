// Package config holds the render configuration record and its TOML file
// format.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/toroid/pkg/lighting"
	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/sampling"
	"github.com/taigrr/toroid/pkg/surface"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete, immutable description of a render.
type Config struct {
	Surface  Surface  `toml:"surface"`
	Lighting Lighting `toml:"lighting"`
	Canvas   Canvas   `toml:"canvas"`
	Shading  Shading  `toml:"shading"`
	Sampling Sampling `toml:"sampling"`
	Label    Label    `toml:"label"`
	View     View     `toml:"view"`
}

// Surface selects and sizes the sampled surface.
type Surface struct {
	Kind  surface.Kind `toml:"kind" comment:"plain or bulbous"`
	Major float64      `toml:"major" comment:"distance from the main axis to the tube center"`
	Minor float64      `toml:"minor" comment:"tube radius"`
	Bulb  float64      `toml:"bulb" comment:"tube radius modulation (bulbous only)"`
	Lobes int          `toml:"lobes" comment:"number of lobes (bulbous only)"`
}

// Lighting holds the Blinn-Phong coefficients and positions.
type Lighting struct {
	Ka        float64    `toml:"ka"`
	Kd        float64    `toml:"kd"`
	Ks        float64    `toml:"ks"`
	Ia        float64    `toml:"ia"`
	Il        float64    `toml:"il"`
	Shininess float64    `toml:"shininess"`
	Light     [3]float64 `toml:"light"`
	Viewer    [3]float64 `toml:"viewer"`
}

// Canvas sizes the output image and the projection onto it.
type Canvas struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	Background    uint8   `toml:"background"`
	PixelsPerUnit float64 `toml:"pixels_per_unit"`
	// CenterX and CenterY default to the middle of the canvas when negative.
	CenterX int `toml:"center_x"`
	CenterY int `toml:"center_y"`
}

// Shading maps intensity and decoration to grey.
type Shading struct {
	Offset            int                   `toml:"offset"`
	Scale             float64               `toml:"scale"`
	Decoration        render.DecorationKind `toml:"decoration" comment:"none, stripes or rings"`
	Frequency         float64               `toml:"frequency"`
	DecorationDivisor int                   `toml:"decoration_divisor"`
}

// Sampling sets the theta sweep. Phi always covers the full circle.
type Sampling struct {
	ThetaStart float64 `toml:"theta_start"`
	ThetaStop  float64 `toml:"theta_stop"`
}

// Label controls the caption drawn onto the image.
type Label struct {
	Enabled    bool  `toml:"enabled"`
	TextSize   int   `toml:"text_size"`
	LineHeight int   `toml:"line_height"`
	Color      uint8 `toml:"color"`
}

// View orients the surface before lighting and projection.
type View struct {
	TiltX float64 `toml:"tilt_x" comment:"degrees about X"`
	SpinZ float64 `toml:"spin_z" comment:"degrees about Z"`
}

// Default returns the reference configuration: a 10/3 torus at 30 pixels per
// unit on a 1024x1024 light grey canvas.
func Default() Config {
	lp := lighting.DefaultParams()
	gm := render.DefaultGreyMap()
	ll := render.DefaultLabelLayout()
	return Config{
		Surface: Surface{
			Kind:  surface.KindPlain,
			Major: 10,
			Minor: 3,
			Bulb:  0.25,
			Lobes: 1,
		},
		Lighting: Lighting{
			Ka:        lp.Ka,
			Kd:        lp.Kd,
			Ks:        lp.Ks,
			Ia:        lp.Ia,
			Il:        lp.Il,
			Shininess: lp.Shininess,
			Light:     [3]float64{lp.Light.X, lp.Light.Y, lp.Light.Z},
			Viewer:    [3]float64{lp.Viewer.X, lp.Viewer.Y, lp.Viewer.Z},
		},
		Canvas: Canvas{
			Width:         1024,
			Height:        1024,
			Background:    192,
			PixelsPerUnit: 30,
			CenterX:       -1,
			CenterY:       -1,
		},
		Shading: Shading{
			Offset:            gm.Offset,
			Scale:             gm.Scale,
			Decoration:        render.DecorationNone,
			Frequency:         16,
			DecorationDivisor: gm.DecorationDivisor,
		},
		Sampling: Sampling{
			ThetaStart: sampling.ThetaRange.Start,
			ThetaStop:  sampling.ThetaRange.Stop,
		},
		Label: Label{
			Enabled:    false,
			TextSize:   ll.TextSize,
			LineHeight: ll.LineHeight,
			Color:      ll.Color,
		},
	}
}

// Load reads a TOML file on top of Default and validates the result.
// Keys the Config does not define are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes TOML data on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(c)
}

// Marshal encodes the config as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Save writes the config as TOML to path.
func (c Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects settings no render can use. Degenerate geometry (zero
// radii) is allowed.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalidConfig, c.Canvas.Width, c.Canvas.Height)
	}
	if _, err := surface.New(c.Surface.Kind, 0, 0, 0, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := render.NewDecoration(c.Shading.Decoration, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Shading.DecorationDivisor == 0 {
		return fmt.Errorf("%w: decoration_divisor must not be zero", ErrInvalidConfig)
	}
	for name, v := range map[string]float64{
		"pixels_per_unit": c.Canvas.PixelsPerUnit,
		"major":           c.Surface.Major,
		"minor":           c.Surface.Minor,
		"bulb":            c.Surface.Bulb,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidConfig, name, v)
		}
	}
	return nil
}

// LightingParams converts the lighting section.
func (c Config) LightingParams() lighting.Params {
	l := c.Lighting
	return lighting.Params{
		Ka:        l.Ka,
		Kd:        l.Kd,
		Ks:        l.Ks,
		Ia:        l.Ia,
		Il:        l.Il,
		Shininess: l.Shininess,
		Light:     math3d.V3(l.Light[0], l.Light[1], l.Light[2]),
		Viewer:    math3d.V3(l.Viewer[0], l.Viewer[1], l.Viewer[2]),
	}
}

// BuildSurface constructs the configured surface.
func (c Config) BuildSurface() (surface.Surface, error) {
	s := c.Surface
	return surface.New(s.Kind, s.Major, s.Minor, s.Bulb, s.Lobes)
}

// Projection returns the orthographic projection onto the canvas.
func (c Config) Projection() render.Projection {
	cx, cy := c.Canvas.CenterX, c.Canvas.CenterY
	if cx < 0 {
		cx = c.Canvas.Width / 2
	}
	if cy < 0 {
		cy = c.Canvas.Height / 2
	}
	return render.Projection{PixelsPerUnit: c.Canvas.PixelsPerUnit, CenterX: cx, CenterY: cy}
}

// GreyMap returns the intensity to grey mapping.
func (c Config) GreyMap() render.GreyMap {
	return render.GreyMap{
		Offset:            c.Shading.Offset,
		Scale:             c.Shading.Scale,
		DecorationDivisor: c.Shading.DecorationDivisor,
	}
}

// Decoration builds the configured decoration, or nil for none.
func (c Config) Decoration() (render.Decoration, error) {
	return render.NewDecoration(c.Shading.Decoration, c.Shading.Frequency)
}

// LabelLayout returns the caption layout.
func (c Config) LabelLayout() render.LabelLayout {
	l := render.DefaultLabelLayout()
	l.TextSize = c.Label.TextSize
	l.LineHeight = c.Label.LineHeight
	l.Color = c.Label.Color
	return l
}

// ThetaRange returns the theta sweep.
func (c Config) ThetaRange() sampling.Range {
	return sampling.Range{Start: c.Sampling.ThetaStart, Stop: c.Sampling.ThetaStop}
}

// Orientation returns the model rotation.
func (c Config) Orientation() math3d.Mat4 {
	return math3d.Orientation(c.View.TiltX, c.View.SpinZ)
}
