// Package backend defines the contract between the frame loop and a display sink.
//
// A sink receives batches of changed cells, cursor commands, clear, size queries and
// flush. It never sees the composed frame itself, so the same loop drives a raw
// terminal, a tcell screen or a renderer on the far side of a process boundary.
package backend

import "github.com/lixenwraith/termsink/terminal"

// Position is a 0-based cell coordinate
type Position struct {
	X, Y uint16
}

// Rect is the viewport rectangle reported by a sink
type Rect struct {
	X, Y          uint16
	Width, Height uint16
}

// Empty reports whether r contains no cells
func (r Rect) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// Area returns the number of cells in r
func (r Rect) Area() int {
	return int(r.Width) * int(r.Height)
}

// Contains reports whether p lies inside r
func (r Rect) Contains(p Position) bool {
	return int(p.X) >= int(r.X) && int(p.X) < int(r.X)+int(r.Width) &&
		int(p.Y) >= int(r.Y) && int(p.Y) < int(r.Y)+int(r.Height)
}

// Clamp returns p moved to the nearest position inside r
// r must not be empty
func (r Rect) Clamp(p Position) Position {
	maxX := int(r.X) + int(r.Width) - 1
	maxY := int(r.Y) + int(r.Height) - 1
	x := min(max(int(p.X), int(r.X)), maxX)
	y := min(max(int(p.Y), int(r.Y)), maxY)
	return Position{X: uint16(x), Y: uint16(y)}
}

// Change is one cell a sink must draw
type Change struct {
	X, Y uint16
	Cell terminal.Cell
}

// PlaceholderCursor is reported by sinks that cannot read the hardware cursor
var PlaceholderCursor = Position{X: 100, Y: 100}

// Backend is a display sink driven by one frame loop at a time
//
// Draw receives each position at most once per call. HideCursor and ShowCursor are
// idempotent. SetCursor positions lie within the last reported Size. Flush makes
// buffered output visible and is called at least once per frame.
// Every failure is reported as *IoError.
type Backend interface {
	Draw(changes []Change) error
	HideCursor() error
	ShowCursor() error
	GetCursor() (Position, error)
	SetCursor(pos Position) error
	Clear() error
	Size() (Rect, error)
	Flush() error
}
