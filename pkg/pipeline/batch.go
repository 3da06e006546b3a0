package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/toroid/pkg/config"
	"github.com/taigrr/toroid/pkg/render"
	"github.com/taigrr/toroid/pkg/surface"
)

// FileName returns the output name for a configuration: torus.png,
// torus-stripes.png, bulbs-<lobes>.png or bulbs-<lobes>-stripes.png.
func FileName(cfg config.Config) string {
	base := "torus"
	if cfg.Surface.Kind == surface.KindBulbous {
		base = fmt.Sprintf("bulbs-%d", cfg.Surface.Lobes)
	}
	if d := cfg.Shading.Decoration; d != "" && d != render.DecorationNone {
		base += "-" + string(d)
	}
	return base + ".png"
}

// Job is one image of a batch.
type Job struct {
	Config config.Config
	Path   string
}

// LobeJobs returns one bulbous job per lobe count in [from, to], writing into
// dir.
func LobeJobs(base config.Config, from, to int, dir string) []Job {
	var jobs []Job
	for lobes := from; lobes <= to; lobes++ {
		cfg := base
		cfg.Surface.Kind = surface.KindBulbous
		cfg.Surface.Lobes = lobes
		jobs = append(jobs, Job{Config: cfg, Path: filepath.Join(dir, FileName(cfg))})
	}
	return jobs
}

// RenderFile renders one job and saves it as PNG.
func RenderFile(o Options, path string) (Stats, error) {
	res := Render(o)
	if err := res.Frame.SavePNG(path); err != nil {
		return res.Stats, err
	}
	o.logger().Info("saved image", "path", path)
	return res.Stats, nil
}

// RenderBatch renders jobs with at most parallel images in flight. Images share
// no mutable state, so each gets its own framebuffer. The first error cancels
// the jobs that have not started yet.
func RenderBatch(ctx context.Context, jobs []Job, parallel int, logger *slog.Logger) ([]Stats, error) {
	stats := make([]Stats, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := FromConfig(job.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			if logger != nil {
				o.Logger = logger.With("image", filepath.Base(job.Path))
			}
			s, err := RenderFile(o, job.Path)
			if err != nil {
				return err
			}
			stats[i] = s
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}
