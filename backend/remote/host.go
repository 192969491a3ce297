package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/network"
	"github.com/lixenwraith/termsink/status"
)

// Host applies forwarded operations to a backend
type Host struct {
	mu     sync.Mutex
	b      backend.Backend
	logger *log.Logger
	stats  *hostStats
}

type hostStats struct {
	sessions *atomic.Int64
	ops      *atomic.Int64
	failures *atomic.Int64
	session  *status.AtomicString
}

// NewHost creates a host over b; a nil logger discards output
func NewHost(b backend.Backend, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Host{b: b, logger: logger}
}

// SetStatus publishes session and op counters into reg under the "host." prefix
// Call before serving
func (h *Host) SetStatus(reg *status.Registry) {
	h.stats = &hostStats{
		sessions: reg.Ints.Get("host.sessions"),
		ops:      reg.Ints.Get("host.ops"),
		failures: reg.Ints.Get("host.failures"),
		session:  reg.Strings.Get("host.session"),
	}
}

// Apply decodes payload for op and performs it
// Only OpSize returns a payload
func (h *Host) Apply(op Op, payload []byte) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch op {
	case OpDraw:
		changes, err := decodeChanges(payload)
		if err != nil {
			return nil, err
		}
		return nil, h.b.Draw(changes)
	case OpHideCursor:
		return nil, h.b.HideCursor()
	case OpShowCursor:
		return nil, h.b.ShowCursor()
	case OpSetCursor:
		pos, err := decodePosition(payload)
		if err != nil {
			return nil, err
		}
		return nil, h.b.SetCursor(pos)
	case OpClear:
		return nil, h.b.Clear()
	case OpSize:
		r, err := h.b.Size()
		if err != nil {
			return nil, err
		}
		return encodeRect(r), nil
	case OpFlush:
		return nil, h.b.Flush()
	default:
		return nil, fmt.Errorf("unknown op %d", op)
	}
}

// ServeConn runs one client session until disconnect, error, or ctx cancellation
// The first request must be MsgConnect
func (h *Host) ServeConn(ctx context.Context, c *network.Conn) {
	req, err := c.ReceiveRequest()
	if err != nil {
		h.logger.Printf("remote: conn %d: %v", c.ID, err)
		return
	}
	if req.Type != network.MsgConnect {
		c.Reply(req, network.MsgNack, []byte("expected connect"))
		return
	}
	hello, err := network.UnmarshalConnect(req.Payload)
	if err == nil && hello.Version != network.ProtocolVersion {
		err = fmt.Errorf("unsupported version %d", hello.Version)
	}
	if err != nil {
		c.Reply(req, network.MsgNack, []byte(err.Error()))
		return
	}
	if err := c.Reply(req, network.MsgAck, nil); err != nil {
		return
	}
	h.logger.Printf("remote: session %s from %s", hello.Session, c.Addr)
	if h.stats != nil {
		h.stats.sessions.Add(1)
		h.stats.session.Store(hello.Session.String())
	}

	for ctx.Err() == nil {
		req, err := c.ReceiveRequest()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				h.logger.Printf("remote: session %s: %v", hello.Session, err)
			}
			return
		}

		if req.Type == network.MsgDisconnect {
			c.Reply(req, network.MsgAck, nil)
			h.logger.Printf("remote: session %s ended", hello.Session)
			return
		}

		op, ok := messageOps[req.Type]
		if !ok {
			if err := c.Reply(req, network.MsgNack, []byte("unknown message "+req.Type.String())); err != nil {
				return
			}
			continue
		}

		out, err := h.Apply(op, req.Payload)
		if h.stats != nil {
			h.stats.ops.Add(1)
			if err != nil {
				h.stats.failures.Add(1)
			}
		}
		if err != nil {
			err = c.Reply(req, network.MsgNack, []byte(err.Error()))
		} else {
			err = c.Reply(req, network.MsgAck, out)
		}
		if err != nil {
			h.logger.Printf("remote: session %s: reply: %v", hello.Session, err)
			return
		}
	}
}

// Serve hosts b on cfg.Address, one client at a time, until ctx is done
func Serve(ctx context.Context, cfg *network.Config, b backend.Backend, logger *log.Logger) error {
	single := *cfg
	single.MaxConns = 1

	srv := network.NewServer(&single, NewHost(b, logger).ServeConn, logger)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("serve %s: %w", cfg.Address, err)
	}
	<-ctx.Done()
	return srv.Stop()
}
