package network

import (
	"log"
	"net"
	"sync/atomic"
)

// Service wraps Server as a hub-managed service
type Service struct {
	config  *Config
	handler ConnHandler
	deps    []string
	logger  *log.Logger
	server  *Server

	disabled atomic.Bool
}

// NewService creates a network service serving handler
// deps names services that must initialize first
func NewService(handler ConnHandler, deps ...string) *Service {
	return &Service{
		config:  DefaultConfig(),
		handler: handler,
		deps:    deps,
	}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "network"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return s.deps
}

// Init implements service.Service
// args[0]: *Config (optional, overrides default)
// args[1]: *log.Logger (optional)
// An empty address disables the service
func (s *Service) Init(args ...any) error {
	if len(args) > 0 {
		if cfg, ok := args[0].(*Config); ok && cfg != nil {
			s.config = cfg
		}
	}
	if len(args) > 1 {
		if l, ok := args[1].(*log.Logger); ok {
			s.logger = l
		}
	}

	if s.config.Address == "" {
		s.disabled.Store(true)
		return nil
	}

	s.server = NewServer(s.config, s.handler, s.logger)
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() || s.server == nil {
		return nil
	}
	return s.server.Start()
}

// Stop implements service.Service
func (s *Service) Stop() error {
	if s.server != nil {
		return s.server.Stop()
	}
	return nil
}

// Addr returns the bound address, nil when not listening
func (s *Service) Addr() net.Addr {
	if s.server == nil {
		return nil
	}
	return s.server.Addr()
}

// ConnCount returns active connection count
func (s *Service) ConnCount() int {
	if s.server == nil {
		return 0
	}
	return s.server.ConnCount()
}

// IsRunning returns true if the server is accepting
func (s *Service) IsRunning() bool {
	return s.server != nil && s.server.IsRunning()
}
