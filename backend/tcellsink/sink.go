// Package tcellsink drives a tcell.Screen through the backend contract.
package tcellsink

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

// ErrClosed is returned after Close
var ErrClosed = errors.New("screen closed")

// Sink forwards contract calls to a tcell screen
// tcell couples cursor visibility with position, so both are tracked here
// Cursor calls show the screen immediately so a final ShowCursor takes effect without Flush
type Sink struct {
	mu      sync.Mutex
	screen  tcell.Screen
	closed  bool
	visible bool
	pos     backend.Position
}

// New wraps an initialized screen
func New(screen tcell.Screen) *Sink {
	return &Sink{screen: screen, visible: true}
}

// Open creates and initializes the default terminal screen
func Open() (*Sink, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen), nil
}

// Screen returns the wrapped screen
func (s *Sink) Screen() tcell.Screen {
	return s.screen
}

// Close finalizes the screen; later calls fail with ErrClosed
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.screen.Fini()
}

func (s *Sink) check(op string) error {
	if s.closed {
		return backend.Wrap(op, ErrClosed)
	}
	return nil
}

func (s *Sink) Draw(changes []backend.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpDraw); err != nil {
		return err
	}
	for _, ch := range changes {
		s.screen.SetContent(int(ch.X), int(ch.Y), ch.Cell.Glyph(), nil, convertStyle(ch.Cell))
	}
	return nil
}

func (s *Sink) HideCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpHideCursor); err != nil {
		return err
	}
	s.visible = false
	s.screen.HideCursor()
	s.screen.Show()
	return nil
}

func (s *Sink) ShowCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpShowCursor); err != nil {
		return err
	}
	s.visible = true
	s.screen.ShowCursor(int(s.pos.X), int(s.pos.Y))
	s.screen.Show()
	return nil
}

// GetCursor returns the last position accepted by SetCursor
func (s *Sink) GetCursor() (backend.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpGetCursor); err != nil {
		return backend.Position{}, err
	}
	return s.pos, nil
}

// SetCursor ignores positions outside the current screen
func (s *Sink) SetCursor(pos backend.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpSetCursor); err != nil {
		return err
	}

	w, h := s.screen.Size()
	if int(pos.X) >= w || int(pos.Y) >= h {
		return nil
	}
	s.pos = pos
	if s.visible {
		s.screen.ShowCursor(int(pos.X), int(pos.Y))
		s.screen.Show()
	}
	return nil
}

func (s *Sink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpClear); err != nil {
		return err
	}
	s.screen.Clear()
	return nil
}

func (s *Sink) Size() (backend.Rect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpSize); err != nil {
		return backend.Rect{}, err
	}
	w, h := s.screen.Size()
	return backend.Rect{Width: dim(w), Height: dim(h)}, nil
}

// Flush shows the screen
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(backend.OpFlush); err != nil {
		return err
	}
	s.screen.Show()
	return nil
}

// convertStyle maps a cell's colors and attributes to a tcell style
// Blank cells keep the screen default style
func convertStyle(c terminal.Cell) tcell.Style {
	style := tcell.StyleDefault
	if c.IsBlank() {
		return style
	}

	style = style.Foreground(convertColor(c.Fg, c.Attrs&terminal.AttrFg256 != 0))
	style = style.Background(convertColor(c.Bg, c.Attrs&terminal.AttrBg256 != 0))

	if c.Attrs.Has(terminal.AttrBold) {
		style = style.Bold(true)
	}
	if c.Attrs.Has(terminal.AttrDim) {
		style = style.Dim(true)
	}
	if c.Attrs.Has(terminal.AttrItalic) {
		style = style.Italic(true)
	}
	if c.Attrs.Has(terminal.AttrUnderline) {
		style = style.Underline(true)
	}
	if c.Attrs.Has(terminal.AttrBlink) {
		style = style.Blink(true)
	}
	if c.Attrs.Has(terminal.AttrReverse) {
		style = style.Reverse(true)
	}
	return style
}

func convertColor(c terminal.RGB, palette bool) tcell.Color {
	if palette {
		return tcell.PaletteColor(int(c.R))
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func dim(v int) uint16 {
	return uint16(min(max(v, 0), 0xFFFF))
}
