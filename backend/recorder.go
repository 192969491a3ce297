package backend

import (
	"sync"

	"github.com/lixenwraith/termsink/terminal"
)

// Call is one operation received by a Recorder
type Call struct {
	Op      string
	Changes []Change // Draw only
	Pos     Position // SetCursor only
	Err     error    // injected failure, if any
}

// Recorder is an in-memory sink that records every call
// Failures can be injected per operation; failed calls are recorded and have no effect
type Recorder struct {
	mu sync.Mutex

	viewport Rect
	calls    []Call
	counts   map[string]int
	cells    map[Position]terminal.Cell
	cursor   Position
	visible  bool

	failAlways map[string]error
	failNth    map[string]map[int]error
}

// NewRecorder creates a recorder reporting viewport from Size
func NewRecorder(viewport Rect) *Recorder {
	return &Recorder{
		viewport:   viewport,
		counts:     make(map[string]int),
		cells:      make(map[Position]terminal.Cell),
		visible:    true,
		failAlways: make(map[string]error),
		failNth:    make(map[string]map[int]error),
	}
}

// SetSize changes the viewport reported by subsequent Size calls
func (r *Recorder) SetSize(viewport Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = viewport
}

// FailOn makes every call of op fail with err; a nil err clears the failure
func (r *Recorder) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failAlways, op)
		return
	}
	r.failAlways[op] = err
}

// FailNth makes the nth call (1-based) of op fail with err
func (r *Recorder) FailNth(op string, n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNth[op] == nil {
		r.failNth[op] = make(map[int]error)
	}
	r.failNth[op][n] = err
}

// Calls returns a copy of the recorded calls
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Ops returns the recorded operation names in order
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]string, len(r.calls))
	for i, c := range r.calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many times op was called, failed calls included
func (r *Recorder) Count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[op]
}

// Last returns the most recent call
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return Call{}, false
	}
	return r.calls[len(r.calls)-1], true
}

// ResetCalls forgets recorded calls and counts, screen state is kept
func (r *Recorder) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.counts = make(map[string]int)
}

// Cell returns the cell last drawn at (x, y) since the last Clear
func (r *Recorder) Cell(x, y uint16) terminal.Cell {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cells[Position{X: x, Y: y}]
}

// CursorVisible reports the visibility implied by the calls received
func (r *Recorder) CursorVisible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// record appends a call and returns the injected failure for it
// Caller must hold mu
func (r *Recorder) record(c Call) error {
	r.counts[c.Op]++
	n := r.counts[c.Op]

	err := r.failAlways[c.Op]
	if nth, ok := r.failNth[c.Op][n]; ok {
		err = nth
	}
	c.Err = Wrap(c.Op, err)
	r.calls = append(r.calls, c)
	return c.Err
}

func (r *Recorder) Draw(changes []Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make([]Change, len(changes))
	copy(batch, changes)
	if err := r.record(Call{Op: OpDraw, Changes: batch}); err != nil {
		return err
	}
	for _, ch := range batch {
		r.cells[Position{X: ch.X, Y: ch.Y}] = ch.Cell
	}
	return nil
}

func (r *Recorder) HideCursor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpHideCursor}); err != nil {
		return err
	}
	r.visible = false
	return nil
}

func (r *Recorder) ShowCursor() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpShowCursor}); err != nil {
		return err
	}
	r.visible = true
	return nil
}

func (r *Recorder) GetCursor() (Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpGetCursor}); err != nil {
		return Position{}, err
	}
	return r.cursor, nil
}

func (r *Recorder) SetCursor(pos Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpSetCursor, Pos: pos}); err != nil {
		return err
	}
	r.cursor = pos
	return nil
}

func (r *Recorder) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpClear}); err != nil {
		return err
	}
	clear(r.cells)
	return nil
}

func (r *Recorder) Size() (Rect, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.record(Call{Op: OpSize}); err != nil {
		return Rect{}, err
	}
	return r.viewport, nil
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record(Call{Op: OpFlush})
}
