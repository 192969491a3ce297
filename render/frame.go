package render

import (
	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

// ComposeFunc fills the target buffer of one frame
type ComposeFunc func(f *Frame)

type visibilityRequest uint8

const (
	visibilityKeep visibilityRequest = iota
	visibilityShow
	visibilityHide
)

// Frame is the compose callback's view of one iteration
// Cursor and stop requests are recorded and applied by the driver after the callback returns
type Frame struct {
	area  backend.Rect
	buf   *Buffer
	count int

	visibility visibilityRequest
	cursor     backend.Position
	moveCursor bool
	stop       bool
}

// Area returns the viewport reported by the sink for this frame
func (f *Frame) Area() backend.Rect {
	return f.area
}

// Buffer returns the target buffer, blank at the start of every frame
func (f *Frame) Buffer() *Buffer {
	return f.buf
}

// SetCell writes one cell; positions outside the viewport are ignored
func (f *Frame) SetCell(x, y int, c terminal.Cell) {
	f.buf.Set(x, y, c)
}

// SetCursor requests a cursor move, clamped to the viewport when applied
func (f *Frame) SetCursor(x, y int) {
	f.cursor = backend.Position{X: clampCoord(x), Y: clampCoord(y)}
	f.moveCursor = true
}

// ShowCursor requests a visible cursor
func (f *Frame) ShowCursor() {
	f.visibility = visibilityShow
}

// HideCursor requests a hidden cursor
func (f *Frame) HideCursor() {
	f.visibility = visibilityHide
}

// Stop ends the loop after this frame is flushed
func (f *Frame) Stop() {
	f.stop = true
}

// Count returns the number of frames completed before this one
func (f *Frame) Count() int {
	return f.count
}

func clampCoord(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}
