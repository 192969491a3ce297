package render

import "github.com/lixenwraith/termsink/backend"

// Renderer sends only the cells that changed since the last committed frame
type Renderer struct {
	prev    *Buffer
	changes []backend.Change // reused across frames, sinks must not retain it
	drawn   int
}

// NewRenderer creates a renderer whose first frame is a full redraw
func NewRenderer() *Renderer {
	return &Renderer{
		prev: NewBuffer(backend.Rect{}),
	}
}

// Render draws the difference between the committed frame and target with at most one Draw
// On success target becomes the committed frame and the old one is returned for reuse as the
// next target. On failure the committed frame is untouched and target is returned
func (r *Renderer) Render(b backend.Backend, target *Buffer) (*Buffer, error) {
	r.changes = AppendDiff(r.changes[:0], r.prev, target)
	r.drawn = 0

	if len(r.changes) > 0 {
		if err := b.Draw(r.changes); err != nil {
			return target, backend.Wrap(backend.OpDraw, err)
		}
		r.drawn = len(r.changes)
	}

	old := r.prev
	r.prev = target
	return old, nil
}

// Drawn returns the number of cells sent by the last successful Render
func (r *Renderer) Drawn() int {
	return r.drawn
}

// Previous returns the committed frame
func (r *Renderer) Previous() *Buffer {
	return r.prev
}

// Reset forgets the committed frame so the next Render is a full redraw
func (r *Renderer) Reset() {
	r.prev.Resize(backend.Rect{})
}

// Blank records that the sink shows an all-blank area, as after Clear
func (r *Renderer) Blank(area backend.Rect) {
	r.prev.Resize(area)
}
