package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/termsink/wasmhost"
)

func newWasmCmd(opts *options) *cobra.Command {
	rf := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "wasm <module.wasm> [args...]",
		Short: "Run a wasip1 guest that renders through this terminal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts, rf)
			if err != nil {
				return err
			}

			wasm, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read guest: %w", err)
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

			runErr := wasmhost.Run(ctx, wasm, lt.sink, wasmhost.Options{Args: args[1:]})
			logger().Printf("wasm: %s finished, err=%v", args[0], runErr)

			return finish(runErr, lt.close())
		},
	}

	addRenderFlags(cmd, rf)
	return cmd
}
