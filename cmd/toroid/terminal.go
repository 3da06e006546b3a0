package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/surface"
)

// openTerminal starts the default terminal in the alternate screen and
// returns it with its size in cells.
func openTerminal() (term *uv.Terminal, cols, rows int, err error) {
	term = uv.DefaultTerminal()

	cols, rows, err = term.GetSize()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return nil, 0, 0, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(cols, rows); err != nil {
		return nil, 0, 0, fmt.Errorf("resize terminal: %w", err)
	}
	return term, cols, rows, nil
}

func closeTerminal(term *uv.Terminal) {
	term.ExitAltScreen()
	term.ShowCursor()
	_ = term.Shutdown(context.Background())
}

// show draws fb on the terminal and flushes the frame.
func show(term *uv.Terminal, fb *render.Framebuffer) error {
	term.Draw(fb)
	if err := term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// isQuit reports whether a key press ends an interactive command.
func isQuit(ev uv.KeyPressEvent) bool {
	return ev.MatchString("q", "escape", "ctrl+c")
}

// fitProjection centers the surface on a width x height canvas, scaled so
// that any orientation of it stays inside with a small margin.
func fitProjection(e surface.Extent, width, height int, zoom float64) render.Projection {
	ppu := 1.0
	if outer := e.Outer(); outer > 0 {
		ppu = 0.45 * float64(min(width, height)) / outer * zoom
	}
	return render.Projection{PixelsPerUnit: ppu, CenterX: width / 2, CenterY: height / 2}
}

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64 // Degrees
	Velocity  float64 // Degrees per frame
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Frequency 4.0 = moderate speed, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState drives the view tilt and spin.
type RotationState struct {
	Tilt, Spin RotationAxis
	fps        int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Tilt: NewRotationAxis(fps),
		Spin: NewRotationAxis(fps),
		fps:  fps,
	}
}

func (r *RotationState) Update() {
	r.Tilt.Update()
	r.Spin.Update()
}

func (r *RotationState) ApplyImpulse(tilt, spin float64) {
	r.Tilt.Velocity += tilt
	r.Spin.Velocity += spin
}

func (r *RotationState) Reset() {
	r.Tilt = NewRotationAxis(r.fps)
	r.Spin = NewRotationAxis(r.fps)
}
