// toroid - Scatter-rendered tori
// Render Blinn-Phong shaded tori and bulbous tori to grayscale PNGs, export
// their sample clouds as glTF, and preview them in the terminal.
//
// Commands:
//
//	render   - Render one image
//	bulbs    - Render the lobe series (bulbs-1.png .. bulbs-11.png)
//	export   - Write the sample cloud as a binary glTF point cloud
//	preview  - Spin the configured surface in the terminal
//	view     - Show a rendered PNG or exported GLB in the terminal
//	config   - Print the effective configuration as TOML
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/toroid/pkg/config"
)

var version = "dev"

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	verbose    bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd(&globals{}), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(g *globals) *cobra.Command {
	root := &cobra.Command{
		Use:   "toroid",
		Short: "Scatter-rendered tori",
		Long: "toroid samples a torus or bulbous torus on a dense parametric grid, " +
			"shades every sample with Blinn-Phong lighting and scatters it into a grayscale image.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Log per-slice progress")

	root.AddCommand(
		newRenderCmd(g),
		newBulbsCmd(g),
		newExportCmd(g),
		newPreviewCmd(g),
		newViewCmd(g),
		newConfigCmd(g),
	)
	return root
}

// logger returns the command logger. Diagnostics go to stderr so stdout stays
// free for the config command.
func (g *globals) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// load reads the config file, or the defaults when none is given.
func (g *globals) load() (config.Config, error) {
	if g.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(g.configPath)
}
