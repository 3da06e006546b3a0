package pipeline

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/toroid/pkg/config"
	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/surface"
)

// bg is darker than any undecorated grey, so it never collides with a sample.
const bg uint8 = 10

// smallConfig is the reference torus at 5 pixels per unit on a 160x160 canvas.
func smallConfig() config.Config {
	cfg := config.Default()
	cfg.Canvas.Width = 160
	cfg.Canvas.Height = 160
	cfg.Canvas.PixelsPerUnit = 5
	cfg.Canvas.Background = bg
	return cfg
}

func mustOptions(t *testing.T, cfg config.Config) Options {
	t.Helper()
	o, err := FromConfig(cfg)
	require.NoError(t, err)
	return o
}

func TestRenderDeterministic(t *testing.T) {
	o := mustOptions(t, smallConfig())
	a := Render(o)
	b := Render(o)
	assert.True(t, bytes.Equal(a.Frame.Pixels, b.Frame.Pixels), "renders differ")
	assert.Equal(t, a.Stats.Extrema, b.Stats.Extrema)
}

func TestRenderStats(t *testing.T) {
	o := mustOptions(t, smallConfig())
	res := Render(o)

	assert.Equal(t, o.Plan(), res.Stats.Steps)
	assert.Equal(t, res.Stats.Steps.Total(), res.Stats.Written+res.Stats.Clipped)
	assert.Zero(t, res.Stats.Clipped)
	assert.Equal(t, res.Stats.Steps.Total(), res.Stats.Extrema.Samples)
	assert.GreaterOrEqual(t, res.Stats.Extrema.MinIntensity, o.Lighting.Ambient())
	assert.Equal(t, 160, res.Frame.Width)
	assert.Equal(t, 160, res.Frame.Height)
}

func TestRenderCoversRing(t *testing.T) {
	o := mustOptions(t, smallConfig())
	fb := Render(o).Frame

	// Outer equator at phi=0 lands at (cx + trunc(13*5), cy).
	assert.Equal(t, uint8(111), fb.GetPixel(80+65, 80))
	// The hole and the corners stay background.
	assert.Equal(t, bg, fb.GetPixel(80, 80))
	assert.Equal(t, bg, fb.GetPixel(0, 0))

	// No gaps along the outer half of the ring on the +X axis.
	for x := 80 + 50; x <= 80+64; x++ {
		assert.NotEqual(t, bg, fb.GetPixel(x, 80), "gap at x=%d", x)
	}
}

func TestWalkOrder(t *testing.T) {
	o := mustOptions(t, smallConfig())
	steps := o.Plan()

	var first Sample
	var n int
	prevPhi := -1.0
	Walk(o, steps, func(s Sample) {
		if n == 0 {
			first = s
		}
		require.GreaterOrEqual(t, s.Phi, prevPhi, "phi must be the outer loop")
		prevPhi = s.Phi
		n++
	})

	assert.Equal(t, steps.Total(), n)
	assert.Equal(t, math3d.V3(13, 0, 0), first.Point)
	assert.Equal(t, math3d.V3(1, 0, 0), first.Normal)

	x, y := o.Projection.Project(first.Point)
	assert.Equal(t, 80+65, x)
	assert.Equal(t, 80, y)
}

func TestBulbousZeroBulbRendersLikeTorus(t *testing.T) {
	plain := smallConfig()
	plain.Surface.Bulb = 0

	bulbous := plain
	bulbous.Surface.Kind = surface.KindBulbous
	bulbous.Surface.Lobes = 6

	a := Render(mustOptions(t, plain))
	b := Render(mustOptions(t, bulbous))
	assert.True(t, bytes.Equal(a.Frame.Pixels, b.Frame.Pixels))
}

func TestBulbousDiffers(t *testing.T) {
	cfg := smallConfig()
	cfg.Surface.Kind = surface.KindBulbous
	cfg.Surface.Bulb = 1.5
	cfg.Surface.Lobes = 4

	a := Render(mustOptions(t, smallConfig()))
	b := Render(mustOptions(t, cfg))
	assert.False(t, bytes.Equal(a.Frame.Pixels, b.Frame.Pixels))
	assert.Greater(t, b.Stats.Steps.Phi, a.Stats.Steps.Phi)
}

func TestDecorationChangesShading(t *testing.T) {
	cfg := smallConfig()
	cfg.Shading.Decoration = render.DecorationStripes

	a := Render(mustOptions(t, smallConfig()))
	b := Render(mustOptions(t, cfg))
	assert.False(t, bytes.Equal(a.Frame.Pixels, b.Frame.Pixels))

	// Undecorated grey never drops below offset + trunc(scale*ambient).
	assert.GreaterOrEqual(t, a.Stats.Extrema.MinGrey, 64)
	assert.Less(t, b.Stats.Extrema.MinGrey, 64)
}

func TestOrientationIdentityIsNoop(t *testing.T) {
	o := mustOptions(t, smallConfig())
	assert.True(t, o.Orientation.IsIdentity())

	// A full turn about Z is not bitwise the identity but leaves points in
	// place.
	cfg := smallConfig()
	cfg.View.SpinZ = 360
	spun := mustOptions(t, cfg)
	assert.False(t, spun.Orientation.IsIdentity())

	var first Sample
	Walk(spun, spun.Plan(), func(s Sample) {
		if s.Phi == 0 && s.Theta == 0 {
			first = s
		}
	})
	assert.True(t, first.Point.ApproxEqual(math3d.V3(13, 0, 0), 1e-9), "%v", first.Point)
	assert.True(t, first.Normal.ApproxEqual(math3d.V3(1, 0, 0), 1e-9), "%v", first.Normal)
}

func TestTiltSquashesRing(t *testing.T) {
	cfg := smallConfig()
	cfg.View.TiltX = 80
	fb := Render(mustOptions(t, cfg)).Frame

	// Seen almost edge-on the ring no longer reaches 60 pixels above center.
	for x := range fb.Width {
		assert.Equal(t, bg, fb.GetPixel(x, 80-60))
		assert.Equal(t, bg, fb.GetPixel(x, 80+60))
	}
	assert.NotEqual(t, bg, fb.GetPixel(80+65, 80))
}

func TestClippedSamplesCounted(t *testing.T) {
	cfg := smallConfig()
	cfg.Canvas.PixelsPerUnit = 10 // ring radius 130 px on a 160 px canvas
	res := Render(mustOptions(t, cfg))

	assert.Positive(t, res.Stats.Clipped)
	assert.Equal(t, res.Stats.Steps.Total(), res.Stats.Written+res.Stats.Clipped)
}

func TestLabelExtendsCanvas(t *testing.T) {
	cfg := smallConfig()
	cfg.Canvas.Width = 600
	cfg.Label.Enabled = true
	cfg.Shading.Decoration = render.DecorationStripes

	res := Render(mustOptions(t, cfg))
	assert.Equal(t, 160+3*40, res.Frame.Height)

	// Caption text in the extra rows.
	ink := 0
	for y := 160; y < res.Frame.Height; y++ {
		for x := range res.Frame.Width {
			if res.Frame.GetPixel(x, y) == 0 {
				ink++
			}
		}
	}
	assert.Positive(t, ink)
}

func TestCaption(t *testing.T) {
	o := mustOptions(t, smallConfig())
	e := render.NewExtrema()
	e.Observe(0.02, 67)
	e.Observe(0.91, 238)

	c := Caption(o, e, time.Date(2025, 3, 4, 5, 6, 0, 0, time.UTC))
	assert.Equal(t, "03/04/2025 05:06", c.Header)
	assert.Equal(t, []string{
		"grey = 64 + int(192 * intensity)",
		"Intensity: (0.02, 0.91); Grey: (67, 238);",
	}, c.Lines)

	assert.Empty(t, Caption(o, e, time.Time{}).Header)
}

func TestRenderLogs(t *testing.T) {
	var buf bytes.Buffer
	o := mustOptions(t, smallConfig())
	o.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	Render(o)

	out := buf.String()
	assert.Contains(t, out, "phi_steps=")
	assert.Contains(t, out, "render complete")
	assert.Contains(t, out, "phi slice")
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{"plain", func(*config.Config) {}, "torus.png"},
		{"stripes", func(c *config.Config) { c.Shading.Decoration = render.DecorationStripes }, "torus-stripes.png"},
		{"bulbs", func(c *config.Config) { c.Surface.Kind = surface.KindBulbous; c.Surface.Lobes = 7 }, "bulbs-7.png"},
		{"bulbs rings", func(c *config.Config) {
			c.Surface.Kind = surface.KindBulbous
			c.Surface.Lobes = 11
			c.Shading.Decoration = render.DecorationRings
		}, "bulbs-11-rings.png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			assert.Equal(t, tc.expected, FileName(cfg))
		})
	}
}

func TestRenderBatch(t *testing.T) {
	dir := t.TempDir()
	jobs := LobeJobs(smallConfig(), 1, 4, dir)
	require.Len(t, jobs, 4)

	stats, err := RenderBatch(context.Background(), jobs, 2, nil)
	require.NoError(t, err)
	require.Len(t, stats, 4)

	for i, job := range jobs {
		assert.Equal(t, filepath.Join(dir, "bulbs-"+string(rune('1'+i))+".png"), job.Path)
		_, err := os.Stat(job.Path)
		assert.NoError(t, err)
		assert.Equal(t, i+1, job.Config.Surface.Lobes)
		assert.Positive(t, stats[i].Written)

		// Each image matches a sequential render of the same config.
		got, err := render.LoadPNG(job.Path)
		require.NoError(t, err)
		want := Render(mustOptions(t, job.Config)).Frame
		assert.True(t, bytes.Equal(want.Pixels, got.Pixels), job.Path)
	}
}

func TestRenderBatchError(t *testing.T) {
	jobs := LobeJobs(smallConfig(), 1, 2, filepath.Join(t.TempDir(), "missing"))
	_, err := RenderBatch(context.Background(), jobs, 1, nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "missing"))
}

func TestReferenceRender(t *testing.T) {
	if testing.Short() {
		t.Skip("full-size render")
	}
	res := Render(mustOptions(t, config.Default()))

	assert.Equal(t, 3465, res.Stats.Steps.Phi)
	assert.Equal(t, 400, res.Stats.Steps.Theta)
	assert.Zero(t, res.Stats.Clipped)
	assert.NotEqual(t, uint8(192), res.Frame.GetPixel(512+390, 512))
	assert.Equal(t, uint8(192), res.Frame.GetPixel(512, 512))
}
