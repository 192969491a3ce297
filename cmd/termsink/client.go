package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/backend/remote"
	"github.com/lixenwraith/termsink/demo"
	"github.com/lixenwraith/termsink/render"
	"github.com/lixenwraith/termsink/status"
)

func newClientCmd(opts *options) *cobra.Command {
	rf := &renderFlags{}
	var (
		address string
		netw    string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Render the demo scene on a remote host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("connect") {
				cfg.Network.Address = address
			}
			if cmd.Flags().Changed("network") {
				cfg.Network.Network = netw
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			tr, err := remote.Dial(cfg.NetworkConfig())
			if err != nil {
				return err
			}
			defer tr.Close()
			logger().Printf("client: session %s", tr.Session())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := status.NewRegistry()
			d := render.NewDriver(remote.NewSink(tr), demo.Scene(title, cfg.Render.MaxFrames), driverOptions(cfg, reg)...)
			err = d.Run(ctx)
			logger().Printf("client: %d frames, err=%v", d.Frames(), err)
			logStatus(reg)
			return err
		},
	}

	addRenderFlags(cmd, rf)
	cmd.Flags().StringVar(&address, "connect", "", "host address (default from config)")
	cmd.Flags().StringVar(&netw, "network", "", "tcp or unix")
	cmd.Flags().StringVar(&title, "title", demo.Title, "block title")
	return cmd
}
