package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/backend/remote"
	"github.com/lixenwraith/termsink/network"
	"github.com/lixenwraith/termsink/status"
)

func newHostCmd(opts *options) *cobra.Command {
	rf := &renderFlags{}
	var (
		address string
		netw    string
	)

	cmd := &cobra.Command{
		Use:   "host",
		Short: "Display a remote client's frames on this terminal",
		Long:  "Listen for one client at a time and apply its backend calls to the local sink.\nA second client is rejected while one is connected. Press q or Ctrl-C to stop.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Network.Address = address
			}
			if cmd.Flags().Changed("network") {
				cfg.Network.Network = netw
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			lt, err := newLocalTerminal(cfg)
			if err != nil {
				return err
			}

			netCfg := cfg.NetworkConfig()
			netCfg.MaxConns = 1
			reg := status.NewRegistry()
			host := remote.NewHost(lt.sink, logger())
			host.SetStatus(reg)
			netSvc := network.NewService(host.ServeConn, lt.deps()...)
			if err := lt.hub.Register(netSvc); err != nil {
				lt.closeScreen()
				return err
			}

			if err := lt.start(map[string][]any{
				netSvc.Name(): {netCfg, logger()},
			}); err != nil {
				return err
			}
			logger().Printf("host: listening on %v", netSvc.Addr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			lt.watchQuit(cancel)

			<-ctx.Done()
			err = lt.close()
			logStatus(reg)
			return err
		},
	}

	addRenderFlags(cmd, rf)
	cmd.Flags().StringVarP(&address, "listen", "l", "", "address to listen on (default from config)")
	cmd.Flags().StringVar(&netw, "network", "", "tcp or unix")
	return cmd
}
