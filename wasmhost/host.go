// Package wasmhost exposes a backend to WebAssembly guests through wazero.
//
// Guests built with GOOS=wasip1 use remote.NewHostCallSink, whose imports
// resolve against the module registered by Bind.
package wasmhost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/backend/remote"
	"github.com/lixenwraith/termsink/terminal"
)

// ErrExit reports a guest that exited with a non-zero code
var ErrExit = errors.New("guest exited")

// Bind registers the termsink host module on rt, forwarding to b
func Bind(ctx context.Context, rt wazero.Runtime, b backend.Backend) (api.Module, error) {
	status := func(err error) uint32 {
		if err != nil {
			return remote.StatusFailed
		}
		return remote.StatusOK
	}

	return rt.NewHostModuleBuilder(remote.ImportModule).
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, x, y, r, fg, bg, attrs uint32) uint32 {
			return status(b.Draw([]backend.Change{{
				X: uint16(x),
				Y: uint16(y),
				Cell: terminal.Cell{
					Rune:  rune(r),
					Fg:    remote.UnpackRGB(fg),
					Bg:    remote.UnpackRGB(bg),
					Attrs: terminal.Attr(attrs),
				},
			}}))
		}).
		Export("draw_cell").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint32 { return status(b.HideCursor()) }).
		Export("hide_cursor").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint32 { return status(b.ShowCursor()) }).
		Export("show_cursor").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context, x, y uint32) uint32 {
			return status(b.SetCursor(backend.Position{X: uint16(x), Y: uint16(y)}))
		}).
		Export("set_cursor").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint32 { return status(b.Clear()) }).
		Export("clear").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint64 {
			r, err := b.Size()
			if err != nil {
				return remote.SizeFailed
			}
			return remote.PackRect(r)
		}).
		Export("size").
		NewFunctionBuilder().
		WithFunc(func(ctx context.Context) uint32 { return status(b.Flush()) }).
		Export("flush").
		Instantiate(ctx)
}

// Options for Run
type Options struct {
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
}

// Run instantiates wasm as a command module and runs it to completion
// Exit code zero is success
func Run(ctx context.Context, wasm []byte, b backend.Backend, opts Options) error {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	if _, err := Bind(ctx, rt, b); err != nil {
		return fmt.Errorf("bind host module: %w", err)
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	cfg := wazero.NewModuleConfig().
		WithStderr(stderr).
		WithArgs(append([]string{"guest"}, opts.Args...)...)
	if opts.Stdout != nil {
		cfg = cfg.WithStdout(opts.Stdout)
	}

	_, err := rt.InstantiateWithConfig(ctx, wasm, cfg)
	if err != nil {
		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.ExitCode() == 0 {
				return nil
			}
			return fmt.Errorf("%w with code %d", ErrExit, exitErr.ExitCode())
		}
		return fmt.Errorf("run guest: %w", err)
	}
	return nil
}
