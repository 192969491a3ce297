package terminal

import (
	"fmt"
	"sync"
)

// TerminalService manages the tty lifecycle around a render loop
type TerminalService struct {
	dev     *Device
	session *Session
	opts    SessionOptions

	mu      sync.Mutex
	running bool
}

// NewService creates a terminal service over dev
func NewService(dev *Device) *TerminalService {
	return &TerminalService{dev: dev}
}

// Name implements Service
func (s *TerminalService) Name() string {
	return "terminal"
}

// Dependencies implements Service
func (s *TerminalService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: SessionOptions (optional, defaults to alternate screen without mouse capture)
func (s *TerminalService) Init(args ...any) error {
	s.opts = SessionOptions{AltScreen: true}
	if len(args) > 0 {
		if o, ok := args[0].(SessionOptions); ok {
			s.opts = o
		}
	}

	if err := s.dev.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	s.session = NewSession(s.dev, s.opts)
	return nil
}

// Start implements Service - enters the configured screen modes
func (s *TerminalService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if err := s.session.Enter(); err != nil {
		return fmt.Errorf("terminal session: %w", err)
	}
	s.running = true
	return nil
}

// Stop implements Service - leaves screen modes and restores the tty
func (s *TerminalService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var leaveErr error
	if s.running {
		s.running = false
		leaveErr = s.session.Leave()
	}
	if err := s.dev.Fini(); err != nil {
		return fmt.Errorf("terminal restore: %w", err)
	}
	return leaveErr
}

// Device returns the wrapped device
func (s *TerminalService) Device() *Device {
	return s.dev
}
