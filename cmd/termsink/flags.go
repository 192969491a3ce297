package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/config"
	"github.com/lixenwraith/termsink/render"
	"github.com/lixenwraith/termsink/status"
)

func defaultConfigHint() string {
	return config.DefaultPath()
}

// renderFlags are the frame loop settings overridable per invocation
type renderFlags struct {
	frames        int
	interval      time.Duration
	clearOnResize bool
	colorMode     string
	sink          string
}

func addRenderFlags(cmd *cobra.Command, f *renderFlags) {
	cmd.Flags().IntVarP(&f.frames, "frames", "n", 1000, "frames to render; 0 runs until interrupted")
	cmd.Flags().DurationVar(&f.interval, "interval", 16*time.Millisecond, "minimum time between frames")
	cmd.Flags().BoolVar(&f.clearOnResize, "clear-on-resize", true, "clear the sink when the viewport changes")
	cmd.Flags().StringVar(&f.colorMode, "color", "", "color mode: truecolor, 256 (default: detect)")
	cmd.Flags().StringVar(&f.sink, "sink", "", "local sink: ansi or tcell")
}

// loadConfig reads the config file and applies flags the user set explicitly
func loadConfig(cmd *cobra.Command, opts *options, rf *renderFlags) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if rf != nil {
		flags := cmd.Flags()
		if flags.Changed("frames") {
			cfg.Render.MaxFrames = rf.frames
		}
		if flags.Changed("interval") {
			cfg.Render.FrameInterval = config.Duration(rf.interval)
		}
		if flags.Changed("clear-on-resize") {
			cfg.Render.ClearOnResize = rf.clearOnResize
		}
		if flags.Changed("color") {
			cfg.Terminal.ColorMode = rf.colorMode
		}
		if flags.Changed("sink") {
			cfg.Host.Sink = rf.sink
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func driverOptions(cfg *config.Config, reg *status.Registry) []render.Option {
	return []render.Option{
		render.WithStatus(reg),
		render.WithMaxFrames(cfg.Render.MaxFrames),
		render.WithFrameInterval(time.Duration(cfg.Render.FrameInterval)),
		render.WithClearOnResize(cfg.Render.ClearOnResize),
		render.WithLogger(logger()),
	}
}

// logStatus writes the final counters to the debug log
func logStatus(reg *status.Registry) {
	reg.WriteTo(logger().Writer())
}
