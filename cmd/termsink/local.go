package main

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/backend/ansi"
	"github.com/lixenwraith/termsink/backend/tcellsink"
	"github.com/lixenwraith/termsink/config"
	"github.com/lixenwraith/termsink/service"
	"github.com/lixenwraith/termsink/terminal"
)

// localTerminal is the controlling terminal behind the configured sink
// The ansi sink runs under the terminal service; tcell manages the tty itself
type localTerminal struct {
	cfg   *config.Config
	hub   *service.Hub
	sink  backend.Backend
	dev   *terminal.Device
	tcell *tcellsink.Sink
}

func newLocalTerminal(cfg *config.Config) (*localTerminal, error) {
	lt := &localTerminal{cfg: cfg, hub: service.NewHub()}

	switch cfg.Host.Sink {
	case config.SinkTcell:
		s, err := tcellsink.Open()
		if err != nil {
			return nil, fmt.Errorf("open tcell screen: %w", err)
		}
		if cfg.Terminal.MouseCapture {
			s.Screen().EnableMouse()
		}
		lt.tcell = s
		lt.sink = s
	default:
		lt.dev = terminal.Stdio()
		lt.sink = ansi.New(lt.dev, ansi.WithColorMode(cfg.ColorMode()))
		if err := lt.hub.Register(terminal.NewService(lt.dev)); err != nil {
			return nil, err
		}
	}
	return lt, nil
}

// deps names the services a consumer of the sink must start after
func (lt *localTerminal) deps() []string {
	if lt.tcell != nil {
		return nil
	}
	return []string{"terminal"}
}

// start initializes and starts every registered service
// args carries Init arguments for services other than terminal
func (lt *localTerminal) start(args map[string][]any) error {
	if args == nil {
		args = make(map[string][]any)
	}
	args["terminal"] = []any{lt.cfg.SessionOptions()}

	if err := lt.hub.InitAll(args); err != nil {
		lt.closeScreen()
		return err
	}
	if err := lt.hub.StartAll(); err != nil {
		lt.closeScreen()
		return err
	}
	logger().Printf("termsink: %s sink started, services %v", lt.cfg.Host.Sink, lt.hub.Order())
	return nil
}

// close stops services in reverse order and releases the screen
func (lt *localTerminal) close() error {
	err := lt.hub.StopAll()
	lt.closeScreen()
	return err
}

func (lt *localTerminal) closeScreen() {
	if lt.tcell != nil {
		lt.tcell.Close()
	}
}

// watchQuit cancels on 'q' or Ctrl-C typed at the terminal
// Raw mode turns Ctrl-C into input, so signals alone cannot stop the loop
func (lt *localTerminal) watchQuit(cancel context.CancelFunc) {
	if lt.tcell != nil {
		screen := lt.tcell.Screen()
		go func() {
			for {
				ev := screen.PollEvent()
				if ev == nil {
					return
				}
				if key, ok := ev.(*tcell.EventKey); ok {
					if key.Key() == tcell.KeyCtrlC || key.Key() == tcell.KeyEscape || key.Rune() == 'q' {
						cancel()
						return
					}
				}
			}
		}()
		return
	}

	go func() {
		buf := make([]byte, 64)
		for {
			n, err := lt.dev.Read(buf)
			if err != nil {
				return
			}
			for _, b := range buf[:n] {
				if b == 0x03 || b == 'q' {
					cancel()
					return
				}
			}
		}
	}()
}

// finish picks the error a command returns after closing the local terminal
// A close failure behind a run failure is logged rather than returned
func finish(runErr, closeErr error) error {
	if runErr == nil {
		return closeErr
	}
	if closeErr != nil {
		logger().Printf("termsink: close after failed run: %v", closeErr)
	}
	return runErr
}
