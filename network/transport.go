package network

import (
	"context"
	"errors"
	"io"
	"log"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ConnHandler serves one accepted connection until it returns
// ctx is cancelled when the server stops
type ConnHandler func(ctx context.Context, c *Conn)

// Server accepts connections and hands each to a handler
// Connections over the limit receive MsgReject and are closed
type Server struct {
	config   *Config
	listener net.Listener
	conns    *ConnManager
	handler  ConnHandler
	logger   *log.Logger

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a server; a nil logger discards output
func NewServer(cfg *Config, handler ConnHandler, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		config:  cfg,
		conns:   NewConnManager(cfg),
		handler: handler,
		logger:  logger,
	}
}

// Start binds the listener and begins accepting
func (s *Server) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil // Already running
	}

	ln, err := listen(s.config)
	if err != nil {
		s.running.Store(false)
		return err
	}
	s.listener = ln
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Printf("network: listening on %s %s", networkOf(s.config), ln.Addr())

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// acceptLoop handles incoming connections
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Printf("network: accept: %v", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		c, err := s.conns.Add(conn)
		if err != nil {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.reject(conn)
			}()
			continue
		}

		s.logger.Printf("network: conn %d from %s", c.ID, c.Addr)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.conns.Remove(c.ID)
			defer c.Close()
			stop := context.AfterFunc(s.ctx, func() { c.Close() })
			defer stop()
			s.handler(s.ctx, c)
			s.logger.Printf("network: conn %d closed", c.ID)
		}()
	}
}

// reject answers the first request of a connection over the limit and closes it
// The request is read first so the client never sees a reset before the reply
func (s *Server) reject(conn net.Conn) {
	defer conn.Close()
	s.logger.Printf("network: rejecting %s: %v", conn.RemoteAddr(), ErrTooManyConns)

	c := NewConn(conn, s.config)
	reason := []byte(ErrTooManyConns.Error())

	timeout := s.config.ReadTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	req, err := c.Receive(timeout)
	if err != nil {
		err = c.Send(NewMessage(MsgReject, reason))
	} else {
		err = c.Reply(req, MsgReject, reason)
	}
	if err != nil {
		s.logger.Printf("network: reject: %v", err)
	}
}

// Addr returns the bound address, nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listener and all connections, then waits for handlers
func (s *Server) Stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	s.cancel()
	err := s.listener.Close()
	s.conns.Close()
	s.wg.Wait()

	if errors.Is(err, net.ErrClosed) {
		err = nil
	}
	return err
}

// ConnCount returns the number of active connections
func (s *Server) ConnCount() int {
	return s.conns.Count()
}

// IsRunning returns server state
func (s *Server) IsRunning() bool {
	return s.running.Load()
}
