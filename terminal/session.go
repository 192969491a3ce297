package terminal

import (
	"bufio"
	"io"
	"sync"
)

// SessionOptions selects the screen modes entered around a render loop
type SessionOptions struct {
	AltScreen    bool
	MouseCapture bool
}

// Session enters and leaves terminal screen modes
// Cursor visibility is left to the render loop, Leave only forces it back on
type Session struct {
	w    *bufio.Writer
	opts SessionOptions

	mu     sync.Mutex
	active bool
}

// NewSession creates a session writing to w
func NewSession(w io.Writer, opts SessionOptions) *Session {
	return &Session{
		w:    bufio.NewWriter(w),
		opts: opts,
	}
}

// Active reports whether Enter has run without a matching Leave
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Enter switches to the configured modes and clears the screen. Safe to call multiple times
func (s *Session) Enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return nil
	}

	w := s.w
	if s.opts.AltScreen {
		w.Write(csiAltScreenEnter)
	}
	// Prevents terminal scroll/wrap on bottom-right corner write
	w.Write(csiAutoWrapOff)
	if s.opts.MouseCapture {
		// SGR first, then click as base and drag on top
		w.Write(csiMouseSGROn)
		w.Write(csiMouseClickOn)
		w.Write(csiMouseDragOn)
	}
	w.Write(csiSGR0)
	w.Write(csiClear)

	if err := w.Flush(); err != nil {
		return err
	}
	s.active = true
	return nil
}

// Leave undoes Enter in reverse order. Safe to call multiple times
func (s *Session) Leave() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil
	}
	s.active = false

	w := s.w
	if s.opts.MouseCapture {
		w.Write(csiMouseDragOff)
		w.Write(csiMouseClickOff)
		w.Write(csiMouseSGROff)
	}
	w.Write(csiCursorShow)
	if s.opts.AltScreen {
		w.Write(csiAltScreenExit)
	}
	// Re-enable auto-wrap after exiting alt screen so the main buffer has wrap enabled
	w.Write(csiAutoWrapOn)
	w.Write(csiSGR0)

	return w.Flush()
}
