package main

import (
	"math"
	"math/rand/v2"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/pipeline"
	"github.com/taigrr/toroid/pkg/render"
)

const previewHelp = `Controls:
  W/S, Up/Down     - Tilt
  A/D, Left/Right  - Spin
  Space            - Random spin
  T                - Cycle decoration
  +/-              - Zoom
  R                - Reset view
  Q, Esc           - Quit`

func newPreviewCmd(g *globals) *cobra.Command {
	var (
		o        overrides
		fps      int
		spinRate float64
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Spin the configured surface in the terminal",
		Long: "Render the configured surface live in the terminal, two pixels per cell, " +
			"re-sampled every frame at the terminal's resolution.\n\n" + previewHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configure(g, cmd, &o)
			if err != nil {
				return err
			}
			base, err := pipeline.FromConfig(cfg)
			if err != nil {
				return err
			}
			base.Logger = g.logger()
			p := &previewer{
				base:     base,
				tilt0:    cfg.View.TiltX,
				spin0:    cfg.View.SpinZ,
				freq:     cfg.Shading.Frequency,
				rotation: NewRotationState(fps),
				spinRate: spinRate / float64(fps),
				zoom:     1,
			}
			return p.run(cmd, fps)
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().IntVar(&fps, "fps", 30, "Target FPS")
	cmd.Flags().Float64Var(&spinRate, "spin-rate", 20, "Idle spin in degrees per second")
	return cmd
}

// previewer holds the interactive view state. It is only touched from the
// preview loop.
type previewer struct {
	base         pipeline.Options
	tilt0, spin0 float64
	freq         float64
	rotation     *RotationState
	spinRate     float64 // Degrees per frame
	zoom         float64
	decoration   render.DecorationKind

	cols, rows int
	frames     int
}

// frame renders the current view at the terminal's pixel resolution.
func (p *previewer) frame() (*render.Framebuffer, error) {
	w, h := render.TerminalSize(p.cols, p.rows)
	o := p.base
	o.Width, o.Height = w, h
	o.Label = false
	o.Logger = nil
	o.Projection = fitProjection(o.Surface.Extent(), w, h, p.zoom)
	o.Orientation = math3d.Orientation(p.tilt0+p.rotation.Tilt.Position, p.spin0+p.rotation.Spin.Position)
	if p.decoration != "" {
		d, err := render.NewDecoration(p.decoration, p.freq)
		if err != nil {
			return nil, err
		}
		o.Decoration = d
	}
	return pipeline.Render(o).Frame, nil
}

func (p *previewer) cycleDecoration() {
	switch p.decoration {
	case "":
		p.decoration = render.DecorationStripes
	case render.DecorationStripes:
		p.decoration = render.DecorationRings
	case render.DecorationRings:
		p.decoration = render.DecorationNone
	default:
		p.decoration = ""
	}
}

// handleKey applies a key press and reports whether the preview should exit.
func (p *previewer) handleKey(ev uv.KeyPressEvent) bool {
	const impulse = 1.5 // Degrees per frame
	switch {
	case isQuit(ev):
		return true
	case ev.MatchString("w", "up"):
		p.rotation.ApplyImpulse(-impulse, 0)
	case ev.MatchString("s", "down"):
		p.rotation.ApplyImpulse(impulse, 0)
	case ev.MatchString("a", "left"):
		p.rotation.ApplyImpulse(0, -impulse)
	case ev.MatchString("d", "right"):
		p.rotation.ApplyImpulse(0, impulse)
	case ev.MatchString("space"):
		p.rotation.ApplyImpulse((rand.Float64()-0.5)*8, (rand.Float64()-0.5)*8)
	case ev.MatchString("t"):
		p.cycleDecoration()
	case ev.MatchString("+", "="):
		p.zoom = math.Min(4, p.zoom*1.1)
	case ev.MatchString("-", "_"):
		p.zoom = math.Max(0.25, p.zoom/1.1)
	case ev.MatchString("r"):
		p.rotation.Reset()
		p.zoom = 1
	}
	return false
}

func (p *previewer) run(cmd *cobra.Command, fps int) error {
	log := p.base.Logger
	term, cols, rows, err := openTerminal()
	if err != nil {
		return err
	}
	p.cols, p.rows = cols, rows

	ctx := cmd.Context()
	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()
	start := time.Now()

	err = func() error {
		defer closeTerminal(term)
		events := term.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					p.cols, p.rows = ev.Width, ev.Height
					term.Erase()
					if err := term.Resize(p.cols, p.rows); err != nil {
						return err
					}
				case uv.KeyPressEvent:
					if p.handleKey(ev) {
						return nil
					}
				}
			case <-ticker.C:
				p.rotation.Spin.Position += p.spinRate
				p.rotation.Update()
				fb, err := p.frame()
				if err != nil {
					return err
				}
				if err := show(term, fb); err != nil {
					return err
				}
				p.frames++
			}
		}
	}()

	elapsed := time.Since(start)
	log.Info("preview closed", "frames", p.frames,
		"fps", math.Round(float64(p.frames)/max(elapsed.Seconds(), 1e-9)))
	return err
}
