package render

import "github.com/lixenwraith/termsink/backend"

// CursorState is the visibility tracked by Cursor
type CursorState uint8

const (
	CursorShown CursorState = iota
	CursorHidden
)

func (s CursorState) String() string {
	if s == CursorHidden {
		return "hidden"
	}
	return "shown"
}

// Cursor forwards visibility changes only on transitions and clamps positions to the viewport
// State changes only after the sink accepted the call
type Cursor struct {
	b      backend.Backend
	state  CursorState
	pos    backend.Position
	hasPos bool
}

// NewCursor creates a cursor in the Shown state
func NewCursor(b backend.Backend) *Cursor {
	return &Cursor{b: b, state: CursorShown}
}

// State returns the current visibility
func (c *Cursor) State() CursorState {
	return c.state
}

// Position returns the last position accepted by the sink
func (c *Cursor) Position() (backend.Position, bool) {
	return c.pos, c.hasPos
}

// Hide forwards HideCursor if the cursor is shown
func (c *Cursor) Hide() error {
	if c.state == CursorHidden {
		return nil
	}
	if err := c.b.HideCursor(); err != nil {
		return backend.Wrap(backend.OpHideCursor, err)
	}
	c.state = CursorHidden
	return nil
}

// Show forwards ShowCursor if the cursor is hidden
func (c *Cursor) Show() error {
	if c.state == CursorShown {
		return nil
	}
	if err := c.b.ShowCursor(); err != nil {
		return backend.Wrap(backend.OpShowCursor, err)
	}
	c.state = CursorShown
	return nil
}

// MoveTo forwards pos clamped into viewport
// An empty viewport has no valid position and nothing is forwarded
func (c *Cursor) MoveTo(pos backend.Position, viewport backend.Rect) error {
	if viewport.Empty() {
		return nil
	}
	pos = viewport.Clamp(pos)
	if err := c.b.SetCursor(pos); err != nil {
		return backend.Wrap(backend.OpSetCursor, err)
	}
	c.pos = pos
	c.hasPos = true
	return nil
}

// Restore forwards ShowCursor regardless of the tracked state
func (c *Cursor) Restore() error {
	if err := c.b.ShowCursor(); err != nil {
		return backend.Wrap(backend.OpShowCursor, err)
	}
	c.state = CursorShown
	return nil
}
