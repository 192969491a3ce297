package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/demo"
	"github.com/lixenwraith/termsink/render"
	"github.com/lixenwraith/termsink/status"
)

func newDemoCmd(opts *options) *cobra.Command {
	rf := &renderFlags{}
	var title string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Render the demo scene on this terminal",
		Long:  "Render a full-screen rounded block for a fixed number of frames, then restore the cursor.\nPress q or Ctrl-C to stop early.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, rf)
			if err != nil {
				return err
			}

			lt, err := newLocalTerminal(cfg)
			if err != nil {
				return err
			}
			if err := lt.start(nil); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			lt.watchQuit(cancel)

			reg := status.NewRegistry()
			d := render.NewDriver(lt.sink, demo.Scene(title, cfg.Render.MaxFrames), driverOptions(cfg, reg)...)
			runErr := d.Run(ctx)
			logger().Printf("demo: %d frames, err=%v", d.Frames(), runErr)
			logStatus(reg)

			return finish(runErr, lt.close())
		},
	}

	addRenderFlags(cmd, rf)
	cmd.Flags().StringVar(&title, "title", demo.Title, "block title")
	return cmd
}
