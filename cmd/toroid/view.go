package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/toroid/pkg/cloud"
	"github.com/taigrr/toroid/pkg/math3d"
	"github.com/taigrr/toroid/pkg/render"
)

func newViewCmd(g *globals) *cobra.Command {
	var (
		background  uint8
		tilt, spin float64
	)
	cmd := &cobra.Command{
		Use:   "view <image.png|cloud.glb>",
		Short: "Show a rendered PNG or exported GLB in the terminal",
		Long: "Show a rendered image scaled to the terminal, or scatter an exported point " +
			"cloud at the terminal's resolution. Press q or Esc to quit.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var draw func(cols, rows int) *render.Framebuffer

			switch ext := strings.ToLower(filepath.Ext(path)); ext {
			case ".png":
				img, err := render.LoadPNG(path)
				if err != nil {
					return err
				}
				g.logger().Info("loaded image", "path", path, "width", img.Width, "height", img.Height)
				draw = func(cols, rows int) *render.Framebuffer {
					return img.Fit(render.TerminalSize(cols, rows))
				}
			case ".glb", ".gltf":
				c, err := cloud.Load(path)
				if err != nil {
					return err
				}
				g.logger().Info("loaded point cloud", "path", path, "points", c.Len())
				orientCloud(c, tilt, spin)
				draw = func(cols, rows int) *render.Framebuffer {
					w, h := render.TerminalSize(cols, rows)
					fb := render.NewFramebuffer(w, h, background)
					c.Draw(fb, cloudProjection(c, w, h))
					return fb
				}
			default:
				return fmt.Errorf("unsupported format: %s (use .png or .glb)", ext)
			}

			return viewLoop(cmd, draw)
		},
	}
	cmd.Flags().Uint8Var(&background, "bg", 192, "Background grey for point clouds")
	cmd.Flags().Float64Var(&tilt, "tilt", 0, "Tilt point clouds about X in degrees")
	cmd.Flags().Float64Var(&spin, "spin", 0, "Spin point clouds about Z in degrees")
	return cmd
}

// orientCloud moves the cloud's bounding-box center to the origin, then
// rotates it by the given tilt and spin.
func orientCloud(c *cloud.Cloud, tilt, spin float64) {
	m := math3d.Orientation(tilt, spin).Mul(math3d.Translate(c.Center().Negate()))
	c.Transform(m)
}

// cloudProjection fits the X/Y bounds of c onto a width x height canvas.
func cloudProjection(c *cloud.Cloud, width, height int) render.Projection {
	size := c.Size()
	center := c.Center()
	span := math.Max(size.X, size.Y)
	ppu := 1.0
	if span > 0 {
		ppu = 0.9 * float64(min(width, height)) / span
	}
	return render.Projection{
		PixelsPerUnit: ppu,
		CenterX:       width/2 - int(center.X*ppu),
		CenterY:       height/2 - int(center.Y*ppu),
	}
}

// viewLoop shows a static picture until the user quits, redrawing on resize.
func viewLoop(cmd *cobra.Command, draw func(cols, rows int) *render.Framebuffer) error {
	term, cols, rows, err := openTerminal()
	if err != nil {
		return err
	}
	defer closeTerminal(term)

	if err := show(term, draw(cols, rows)); err != nil {
		return err
	}

	ctx := cmd.Context()
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
				term.Erase()
				if err := term.Resize(ev.Width, ev.Height); err != nil {
					return err
				}
				if err := show(term, draw(ev.Width, ev.Height)); err != nil {
					return err
				}
			case uv.KeyPressEvent:
				if isQuit(ev) {
					return nil
				}
			}
		}
	}
}
