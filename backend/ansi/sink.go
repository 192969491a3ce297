// Package ansi is the direct terminal sink: it writes control sequences for the
// backend contract to a tty through one buffered writer.
package ansi

import (
	"bufio"
	"io"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

const defaultBufferSize = 131072 // 128KB

// Output is the terminal the sink writes to; terminal.Device satisfies it
type Output interface {
	io.Writer
	Size() (width, height int, err error)
}

// Option configures a Sink
type Option func(*Sink)

// WithColorMode overrides environment detection
func WithColorMode(mode terminal.ColorMode) Option {
	return func(s *Sink) {
		s.colorMode = mode
	}
}

// WithBufferSize sets the output buffer size in bytes
func WithBufferSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// Sink writes changed cells and cursor commands as ANSI sequences
// Draw output is buffered until Flush; cursor and clear commands are flushed immediately
type Sink struct {
	out       Output
	w         *bufio.Writer
	colorMode terminal.ColorMode
	bufSize   int

	mu sync.Mutex

	// Write position of the terminal cursor while drawing
	col, row int
	colValid bool

	sgr sgrState

	viewport backend.Rect
	hasSize  bool

	// Position requested through SetCursor; restored at Flush after drawing moved the cursor
	cursor      backend.Position
	cursorSet   bool
	cursorMoved bool
}

// New creates a sink writing to out
func New(out Output, opts ...Option) *Sink {
	s := &Sink{
		out:       out,
		colorMode: terminal.DetectColorMode(),
		bufSize:   defaultBufferSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.w = bufio.NewWriterSize(out, s.bufSize)
	return s
}

// ColorMode returns the color mode used for RGB cells
func (s *Sink) ColorMode() terminal.ColorMode {
	return s.colorMode
}

// Draw writes every change; positions are absolute viewport cells
func (s *Sink) Draw(changes []backend.Change) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}

	w := s.w
	for _, ch := range changes {
		x, y := int(ch.X), int(ch.Y)

		if !s.colValid || y != s.row || x != s.col {
			// Forward movement over already drawn cells is non-destructive
			if s.colValid && y == s.row && x > s.col {
				writeCursorForward(w, x-s.col)
			} else {
				writeCursorPos(w, x, y)
			}
			s.col, s.row = x, y
			s.colValid = true
		}

		s.writeStyle(w, ch.Cell)

		r := printable(ch.Cell.Glyph())
		if r < 0x80 {
			w.WriteByte(byte(r))
		} else {
			w.WriteRune(r)
		}
		s.col += runewidth.RuneWidth(r)
	}

	s.cursorMoved = true
	s.sgr.valid = false
	_, err := w.Write(csiSGR0)
	return backend.Wrap(backend.OpDraw, err)
}

// HideCursor writes DECTCEM off
func (s *Sink) HideCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeNow(backend.OpHideCursor, csiCursorHide)
}

// ShowCursor writes DECTCEM on
func (s *Sink) ShowCursor() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeNow(backend.OpShowCursor, csiCursorShow)
}

// GetCursor returns the last position set; the terminal itself is never queried
func (s *Sink) GetCursor() (backend.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, nil
}

// SetCursor moves the cursor, clamped to the last reported viewport
func (s *Sink) SetCursor(pos backend.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasSize && !s.viewport.Empty() {
		pos = s.viewport.Clamp(pos)
	}
	writeCursorPos(s.w, int(pos.X), int(pos.Y))
	if err := s.w.Flush(); err != nil {
		return backend.Wrap(backend.OpSetCursor, err)
	}

	s.cursor = pos
	s.cursorSet = true
	s.cursorMoved = false
	s.col, s.row = int(pos.X), int(pos.Y)
	s.colValid = true
	return nil
}

// Clear resets attributes and erases the screen, leaving the cursor at the origin
func (s *Sink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Write(csiSGR0)
	if err := s.writeNow(backend.OpClear, csiClear); err != nil {
		return err
	}
	s.col, s.row = 0, 0
	s.colValid = true
	s.sgr.valid = false
	s.cursorMoved = s.cursorSet
	return nil
}

// Size queries the output and records the viewport for cursor clamping
func (s *Sink) Size() (backend.Rect, error) {
	w, h, err := s.out.Size()
	if err != nil {
		return backend.Rect{}, backend.Wrap(backend.OpSize, err)
	}

	r := backend.Rect{Width: clampDim(w), Height: clampDim(h)}

	s.mu.Lock()
	s.viewport = r
	s.hasSize = true
	s.mu.Unlock()
	return r, nil
}

// Flush writes buffered output, putting the cursor back where SetCursor left it
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursorSet && s.cursorMoved {
		writeCursorPos(s.w, int(s.cursor.X), int(s.cursor.Y))
		s.col, s.row = int(s.cursor.X), int(s.cursor.Y)
		s.colValid = true
		s.cursorMoved = false
	}
	return backend.Wrap(backend.OpFlush, s.w.Flush())
}

// writeNow appends seq and flushes so cursor commands keep their place in the stream
func (s *Sink) writeNow(op string, seq []byte) error {
	s.w.Write(seq)
	return backend.Wrap(op, s.w.Flush())
}

func clampDim(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// printable replaces runes that would move the terminal cursor or start a
// control sequence, and zero-width runes, with a space. Each cell then
// advances the tracked column exactly as the terminal does
func printable(r rune) rune {
	if r < 0x20 || (r >= 0x7f && r < 0xa0) || runewidth.RuneWidth(r) == 0 {
		return ' '
	}
	return r
}
