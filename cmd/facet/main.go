// facet renders OBJ and glTF models with a software rasterizer: live in a
// terminal or a desktop window, or headless to a PNG or WebP file.
//
// Controls (terminal and window):
//
//	W/S A/D     - Move forward/back, strafe left/right
//	R/F         - Move up/down
//	Arrows      - Yaw and pitch
//	Q/E         - Roll left/right
//	1           - Toggle fill
//	X           - Toggle wireframe
//	T           - Toggle texture
//	I           - Toggle overview inset
//	L           - Toggle headlamp/fixed light
//	Space       - Spin impulse
//	0           - Reset camera and spin
//	?           - Toggle HUD
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taigrr/facet/internal/app"
	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/internal/window"
	"github.com/taigrr/facet/pkg/render"
)

// options collects flag values before they are merged into a Config.
type options struct {
	configPath string
	verbose    bool
	vector     bool
	flags      config.Flags
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "facet",
		Short: "Software 3D model viewer",
		Long:  "facet draws OBJ and glTF models with a flat-shaded, perspective-correct software rasterizer.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "JSON config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	pf.StringVar(&opts.flags.Texture, "texture", "", "texture image replacing the model's own")
	pf.StringVar(&opts.flags.Filter, "filter", "", "texture filter: nearest or bilinear")
	pf.StringVar(&opts.flags.Wrap, "wrap", "", "texture wrap: repeat or clamp")
	pf.Float64Var(&opts.flags.FOV, "fov", 0, "vertical field of view in degrees (default 90)")
	pf.IntVar(&opts.flags.FPS, "fps", 0, "target frames per second (default 30)")
	pf.StringVar(&opts.flags.Light, "light", "", "light source: headlamp or fixed")
	pf.Bool("fill", true, "fill triangles")
	pf.Bool("wireframe", false, "draw triangle edges")
	pf.Bool("textured", true, "sample textures where the model has them")
	pf.Bool("inset", false, "show the overview inset")
	pf.Bool("debug", false, "log per-frame stats (with --verbose)")

	root.AddCommand(newViewCmd(opts), newWindowCmd(opts), newSnapshotCmd(opts))
	return root
}

func newViewCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "view [model]",
		Short: "View a model in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			s, err := app.NewScene(cfg)
			if err != nil {
				return err
			}
			return app.RunTerminal(cmd.Context(), s, cfg.FPS)
		},
	}
}

func newWindowCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window [model]",
		Short: "View a model in a desktop window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			s, err := app.NewScene(cfg)
			if err != nil {
				return err
			}
			return window.Run(s, cfg.Snapshot.Width, cfg.Snapshot.Height, cfg.FPS)
		},
	}
	sizeFlags(cmd.Flags(), opts)
	return cmd
}

func newSnapshotCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot [model]",
		Short: "Render one frame to a PNG or WebP file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, args)
			if err != nil {
				return err
			}
			return snapshot(cfg, opts.vector)
		},
	}
	f := cmd.Flags()
	sizeFlags(f, opts)
	f.IntVarP(&opts.flags.Supersample, "supersample", "s", 0, "render at N times the size and downsample (default 1)")
	f.StringVarP(&opts.flags.Output, "output", "o", "", "output file, .png or .webp (default frame.png)")
	f.BoolVar(&opts.vector, "vector", false, "draw through the gg vector surface")
	return cmd
}

func sizeFlags(f *pflag.FlagSet, opts *options) {
	f.IntVar(&opts.flags.Width, "width", 0, "image width in pixels (default 640)")
	f.IntVar(&opts.flags.Height, "height", 0, "image height in pixels (default 480)")
}

// loadConfig reads the config file, applies flags that were set on the
// command line and fills defaults.
func loadConfig(cmd *cobra.Command, opts *options, args []string) (config.Config, error) {
	var cfg config.Config
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, err
		}
	}

	flags := opts.flags
	if len(args) > 0 {
		flags.Model = args[0]
	}
	f := cmd.Flags()
	for name, dst := range map[string]**bool{
		"fill":      &flags.Fill,
		"wireframe": &flags.Wireframe,
		"textured":  &flags.Textured,
		"inset":     &flags.Inset,
		"debug":     &flags.Debug,
	} {
		if !f.Changed(name) {
			continue
		}
		v, err := f.GetBool(name)
		if err != nil {
			return cfg, err
		}
		*dst = &v
	}

	cfg.Resolve(flags)
	return cfg, cfg.Validate()
}

func snapshot(cfg config.Config, vector bool) error {
	s, err := app.NewScene(cfg)
	if err != nil {
		return err
	}

	ss := cfg.Snapshot
	w, h := ss.Width*ss.Supersample, ss.Height*ss.Supersample
	var (
		img   image.Image
		stats render.Stats
	)
	if vector {
		surf := render.NewVectorSurface(w, h)
		defer surf.Close()
		stats = s.Draw(surf)
		if err := surf.Err(); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		img = surf.Image()
	} else {
		fb := render.NewFramebuffer(w, h)
		stats = s.Draw(fb)
		img = fb.Image()
	}

	if err := render.SaveImage(ss.Output, render.Downsample(img, ss.Width, ss.Height)); err != nil {
		return err
	}
	render.Logger().Info("snapshot written",
		slog.String("path", ss.Output),
		slog.Int("width", ss.Width),
		slog.Int("height", ss.Height),
		slog.Int("drawn", stats.Drawn),
		slog.Int("culled", stats.Culled))
	return nil
}
