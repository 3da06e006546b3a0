package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taigrr/toroid/pkg/cloud"
	"github.com/taigrr/toroid/pkg/config"
	"github.com/taigrr/toroid/pkg/pipeline"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/surface"
)

// overrides are per-command flags layered over the config file. Only flags
// the user set are applied.
type overrides struct {
	kind       string
	lobes      int
	bulb       float64
	decoration string
	label      bool
	ppu        float64
	tilt       float64
	spin       float64
}

func (o *overrides) register(fs *pflag.FlagSet) {
	fs.StringVar(&o.kind, "surface", "", "Surface kind (plain or bulbous)")
	fs.IntVar(&o.lobes, "lobes", 0, "Lobe count of the bulbous torus")
	fs.Float64Var(&o.bulb, "bulb", 0, "Tube radius modulation of the bulbous torus")
	fs.StringVar(&o.decoration, "decoration", "", "Decoration (none, stripes or rings)")
	fs.BoolVar(&o.label, "label", false, "Draw the caption below the image")
	fs.Float64Var(&o.ppu, "ppu", 0, "Pixels per geometry unit")
	fs.Float64Var(&o.tilt, "tilt", 0, "Tilt about X in degrees")
	fs.Float64Var(&o.spin, "spin", 0, "Spin about Z in degrees")
}

func (o *overrides) apply(fs *pflag.FlagSet, cfg *config.Config) error {
	if fs.Changed("surface") {
		cfg.Surface.Kind = surface.Kind(o.kind)
	}
	if fs.Changed("lobes") {
		cfg.Surface.Lobes = o.lobes
	}
	if fs.Changed("bulb") {
		cfg.Surface.Bulb = o.bulb
	}
	if fs.Changed("decoration") {
		cfg.Shading.Decoration = render.DecorationKind(o.decoration)
	}
	if fs.Changed("label") {
		cfg.Label.Enabled = o.label
	}
	if fs.Changed("ppu") {
		cfg.Canvas.PixelsPerUnit = o.ppu
	}
	if fs.Changed("tilt") {
		cfg.View.TiltX = o.tilt
	}
	if fs.Changed("spin") {
		cfg.View.SpinZ = o.spin
	}
	return cfg.Validate()
}

// configure loads the config file and applies the command's overrides.
func configure(g *globals, cmd *cobra.Command, o *overrides) (config.Config, error) {
	cfg, err := g.load()
	if err != nil {
		return cfg, err
	}
	if err := o.apply(cmd.Flags(), &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newRenderCmd(g *globals) *cobra.Command {
	var (
		o   overrides
		out string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one image",
		Long: "Render the configured surface to a grayscale PNG. Without --out the file " +
			"is named after the surface: torus.png, torus-stripes.png or bulbs-<lobes>.png.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configure(g, cmd, &o)
			if err != nil {
				return err
			}
			if out == "" {
				out = pipeline.FileName(cfg)
			}
			opts, err := pipeline.FromConfig(cfg)
			if err != nil {
				return err
			}
			opts.Logger = g.logger().With("image", filepath.Base(out))
			_, err = pipeline.RenderFile(opts, out)
			return err
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output PNG path")
	return cmd
}

func newBulbsCmd(g *globals) *cobra.Command {
	var (
		o        overrides
		from, to int
		jobs     int
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "bulbs",
		Short: "Render the bulbous torus for a range of lobe counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from < 1 || to < from {
				return fmt.Errorf("invalid lobe range %d..%d", from, to)
			}
			cfg, err := configure(g, cmd, &o)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			log := g.logger()
			start := time.Now()
			stats, err := pipeline.RenderBatch(cmd.Context(), pipeline.LobeJobs(cfg, from, to, dir), jobs, log)
			if err != nil {
				return err
			}
			var clipped int
			for _, s := range stats {
				clipped += s.Clipped
			}
			log.Info("batch complete", "images", len(stats), "clipped", clipped,
				"elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().IntVar(&from, "from", 1, "First lobe count")
	cmd.Flags().IntVar(&to, "to", 11, "Last lobe count")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Images rendered in parallel")
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Output directory")
	return cmd
}

func newExportCmd(g *globals) *cobra.Command {
	var (
		o   overrides
		out string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the sample cloud as a binary glTF point cloud",
		Long: "Sample the configured surface exactly as render does and write every sample " +
			"as a point with its normal and shaded grey. Lower --ppu for smaller files.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configure(g, cmd, &o)
			if err != nil {
				return err
			}
			opts, err := pipeline.FromConfig(cfg)
			if err != nil {
				return err
			}
			if out == "" {
				out = trimExt(pipeline.FileName(cfg)) + ".glb"
			}
			log := g.logger().With("cloud", filepath.Base(out))
			steps := opts.Plan()
			log.Info("sampling planned", "phi_steps", steps.Phi, "theta_steps", steps.Theta, "samples", steps.Total())

			c := cloud.FromRender(filepath.Base(out), opts, steps)
			if err := c.SaveGLB(out); err != nil {
				return err
			}
			log.Info("saved point cloud", "path", out, "points", c.Len(),
				"bounds_min", c.BoundsMin, "bounds_max", c.BoundsMax)
			return nil
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output GLB path")
	return cmd
}

func newConfigCmd(g *globals) *cobra.Command {
	var (
		o   overrides
		out string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configure(g, cmd, &o)
			if err != nil {
				return err
			}
			if out != "" {
				return cfg.Save(out)
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	o.register(cmd.Flags())
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
