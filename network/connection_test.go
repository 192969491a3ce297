package network

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"
)

func testConfig() *Config {
	cfg := DebugConfig("tcp", "127.0.0.1:0")
	cfg.ReadTimeout = 2 * time.Second
	cfg.WriteTimeout = 2 * time.Second
	return cfg
}

func pipeConns(t *testing.T, cfg *Config) (*Conn, *Conn) {
	t.Helper()
	a, b := net.Pipe()
	client, server := NewConn(a, cfg), NewConn(b, cfg)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

// echoOnce answers a single request with Ack and the request payload
func echoOnce(server *Conn) <-chan error {
	done := make(chan error, 1)
	go func() {
		req, err := server.Receive(0)
		if err != nil {
			done <- err
			return
		}
		done <- server.Reply(req, MsgAck, req.Payload)
	}()
	return done
}

func TestCallMatchesAck(t *testing.T) {
	client, server := pipeConns(t, testConfig())

	for i := 1; i <= 3; i++ {
		done := echoOnce(server)
		reply, err := client.Call(MsgSetCursor, []byte{0, byte(i), 0, 1})
		if err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
		if err := <-done; err != nil {
			t.Fatalf("server %d failed: %v", i, err)
		}
		if reply.Type != MsgAck {
			t.Errorf("Expected ack, got %v", reply.Type)
		}
		if reply.Ack != uint32(i) {
			t.Errorf("Expected Ack %d, got %d", i, reply.Ack)
		}
		if reply.Payload[1] != byte(i) {
			t.Errorf("Expected echoed payload, got %v", reply.Payload)
		}
	}

	if got := server.InSeq.Load(); got != 3 {
		t.Errorf("Expected server InSeq 3, got %d", got)
	}
}

func TestCallRejectsMismatchedAck(t *testing.T) {
	client, server := pipeConns(t, testConfig())

	go func() {
		if _, err := server.Receive(0); err != nil {
			return
		}
		bogus := NewMessage(MsgAck, nil)
		bogus.Ack = 99
		server.Send(bogus)
	}()

	if _, err := client.Call(MsgFlush, nil); !errors.Is(err, ErrUnexpectedAck) {
		t.Errorf("Expected ErrUnexpectedAck, got %v", err)
	}
}

func TestCallReject(t *testing.T) {
	client, server := pipeConns(t, testConfig())

	go func() {
		req, err := server.Receive(0)
		if err != nil {
			return
		}
		server.Reply(req, MsgReject, []byte("busy"))
	}()

	if _, err := client.Call(MsgConnect, nil); !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected, got %v", err)
	}
}

func TestCallReadTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.ReadTimeout = 50 * time.Millisecond
	client, server := pipeConns(t, cfg)

	// Consume the request but never answer
	go server.Receive(0)

	_, err := client.Call(MsgFlush, nil)
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestSendAfterClose(t *testing.T) {
	client, _ := pipeConns(t, testConfig())
	client.Close()
	client.Close()

	if err := client.Send(NewMessage(MsgFlush, nil)); !errors.Is(err, net.ErrClosed) {
		t.Errorf("Expected net.ErrClosed, got %v", err)
	}
	select {
	case <-client.Done():
	default:
		t.Error("Expected Done closed")
	}
}

func TestServerLimitRejectsSecondClient(t *testing.T) {
	cfg := testConfig()
	cfg.MaxConns = 1

	var mu sync.Mutex
	handled := 0
	srv := NewServer(cfg, func(ctx context.Context, c *Conn) {
		mu.Lock()
		handled++
		mu.Unlock()
		for {
			req, err := c.Receive(0)
			if err != nil {
				return
			}
			if err := c.Reply(req, MsgAck, nil); err != nil {
				return
			}
		}
	}, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer srv.Stop()

	clientCfg := testConfig()
	clientCfg.Address = srv.Addr().String()

	first, err := Dial(clientCfg)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer first.Close()
	if _, err := first.Call(MsgConnect, nil); err != nil {
		t.Fatalf("first client call failed: %v", err)
	}

	second, err := Dial(clientCfg)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer second.Close()
	if _, err := second.Call(MsgConnect, nil); !errors.Is(err, ErrRejected) {
		t.Errorf("Expected ErrRejected for second client, got %v", err)
	}

	if got := srv.ConnCount(); got != 1 {
		t.Errorf("Expected 1 active connection, got %d", got)
	}

	// First client keeps working
	if _, err := first.Call(MsgFlush, nil); err != nil {
		t.Errorf("Expected first client unaffected, got %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if handled != 1 {
		t.Errorf("Expected handler invoked once, got %d", handled)
	}
}

func TestServerStopClosesConnections(t *testing.T) {
	cfg := testConfig()
	entered := make(chan struct{})
	srv := NewServer(cfg, func(ctx context.Context, c *Conn) {
		close(entered)
		c.Receive(0)
	}, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	clientCfg := testConfig()
	clientCfg.Address = srv.Addr().String()
	c, err := Dial(clientCfg)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handler not invoked")
	}

	if err := srv.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if srv.IsRunning() {
		t.Error("Expected server stopped")
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Expected second Stop to be a no-op, got %v", err)
	}
}

func TestServiceDisabledWithoutAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = ""

	s := NewService(func(context.Context, *Conn) {}, "terminal")
	if err := s.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if s.IsRunning() || s.Addr() != nil {
		t.Error("Expected disabled service to stay idle")
	}
	if got := s.Dependencies(); len(got) != 1 || got[0] != "terminal" {
		t.Errorf("Expected [terminal] dependencies, got %v", got)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
