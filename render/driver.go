package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/status"
)

// StopFunc reports whether the loop should stop given the number of completed frames
type StopFunc func(frames int) bool

// Option configures a Driver
type Option func(*Driver)

// WithStop sets a stop predicate checked at every frame boundary
func WithStop(fn StopFunc) Option {
	return func(d *Driver) {
		d.stop = fn
	}
}

// WithMaxFrames stops the loop after n frames; n <= 0 means no limit
func WithMaxFrames(n int) Option {
	return func(d *Driver) {
		d.maxFrames = n
	}
}

// WithLogger sets the logger for frame diagnostics
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithClearOnResize selects whether a viewport change clears the sink before the full redraw
func WithClearOnResize(on bool) Option {
	return func(d *Driver) {
		d.clearOnResize = on
	}
}

// WithFrameInterval paces the loop; zero runs frames back to back
func WithFrameInterval(interval time.Duration) Option {
	return func(d *Driver) {
		d.interval = interval
	}
}

// WithStatus publishes frame counters into reg under the "render." prefix
func WithStatus(reg *status.Registry) Option {
	return func(d *Driver) {
		if reg != nil {
			d.stats = newDriverStats(reg)
		}
	}
}

// driverStats caches registry cells written once per frame
type driverStats struct {
	frames  *atomic.Int64
	cells   *atomic.Int64
	resizes *atomic.Int64
	frameMs *status.AtomicFloat
	visible *atomic.Bool
	lastErr *status.AtomicString
}

func newDriverStats(reg *status.Registry) *driverStats {
	return &driverStats{
		frames:  reg.Ints.Get("render.frames"),
		cells:   reg.Ints.Get("render.cells"),
		resizes: reg.Ints.Get("render.resizes"),
		frameMs: reg.Floats.Get("render.frame_ms"),
		visible: reg.Bools.Get("render.cursor_visible"),
		lastErr: reg.Strings.Get("render.last_error"),
	}
}

// ShutdownError carries a frame error together with a failed cursor restore
type ShutdownError struct {
	Err     error
	Restore error
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("%v (restore: %v)", e.Err, e.Restore)
}

// Unwrap exposes both errors, the frame error first
func (e *ShutdownError) Unwrap() []error {
	return []error{e.Err, e.Restore}
}

// Driver runs the compose, diff, draw, cursor, flush cycle against one sink
// A Driver is not safe for concurrent use; it owns the sink while Run executes
type Driver struct {
	b        backend.Backend
	compose  ComposeFunc
	renderer *Renderer
	cursor   *Cursor
	target   *Buffer

	stop          StopFunc
	maxFrames     int
	logger        *log.Logger
	clearOnResize bool
	interval      time.Duration
	stats         *driverStats

	frames   int
	area     backend.Rect
	hasArea  bool
	stopping bool
}

// NewDriver creates a driver for b calling compose once per frame
func NewDriver(b backend.Backend, compose ComposeFunc, opts ...Option) *Driver {
	d := &Driver{
		b:             b,
		compose:       compose,
		renderer:      NewRenderer(),
		cursor:        NewCursor(b),
		target:        NewBuffer(backend.Rect{}),
		logger:        log.New(io.Discard, "", 0),
		clearOnResize: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Frames returns the number of completed frames
func (d *Driver) Frames() int {
	return d.frames
}

// Previous returns the last committed frame
func (d *Driver) Previous() *Buffer {
	return d.renderer.Previous()
}

// Cursor returns the cursor state machine
func (d *Driver) Cursor() *Cursor {
	return d.cursor
}

// Clear blanks the sink; the committed frame becomes all-blank
func (d *Driver) Clear() error {
	if err := d.b.Clear(); err != nil {
		return backend.Wrap(backend.OpClear, err)
	}
	d.renderer.Blank(d.area)
	return nil
}

// Run executes frames until ctx is done, a stop condition holds or a step fails
// ShowCursor is always the last sink call. Cancellation and stop conditions return nil
func (d *Driver) Run(ctx context.Context) (err error) {
	d.stopping = false

	defer func() {
		restoreErr := d.cursor.Restore()
		switch {
		case restoreErr == nil:
		case err == nil:
			err = restoreErr
		default:
			d.logger.Printf("cursor restore after failed frame: %v", restoreErr)
			err = &ShutdownError{Err: err, Restore: restoreErr}
		}
	}()

	for {
		if d.shouldStop(ctx) {
			d.logger.Printf("render loop stopped after %d frames", d.frames)
			return nil
		}

		start := time.Now()
		if err := d.frame(); err != nil {
			d.logger.Printf("frame %d: %v", d.frames, err)
			if d.stats != nil {
				d.stats.lastErr.Store(err.Error())
			}
			return err
		}
		d.frames++
		if d.stats != nil {
			d.stats.frames.Add(1)
			d.stats.cells.Add(int64(d.renderer.Drawn()))
			d.stats.frameMs.Set(float64(time.Since(start).Microseconds()) / 1000)
			d.stats.visible.Store(d.cursor.State() == CursorShown)
		}

		if d.interval > 0 && !d.wait(ctx) {
			return nil
		}
	}
}

// shouldStop checks every stop condition at the frame boundary
func (d *Driver) shouldStop(ctx context.Context) bool {
	if ctx.Err() != nil || d.stopping {
		return true
	}
	if d.maxFrames > 0 && d.frames >= d.maxFrames {
		return true
	}
	return d.stop != nil && d.stop(d.frames)
}

// wait sleeps for the frame interval, false if ctx ended first
func (d *Driver) wait(ctx context.Context) bool {
	timer := time.NewTimer(d.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// frame runs one full iteration
func (d *Driver) frame() error {
	area, err := d.b.Size()
	if err != nil {
		return backend.Wrap(backend.OpSize, err)
	}

	if d.hasArea && area != d.area {
		d.logger.Printf("viewport %dx%d -> %dx%d", d.area.Width, d.area.Height, area.Width, area.Height)
		if d.stats != nil {
			d.stats.resizes.Add(1)
		}
		if d.clearOnResize {
			if err := d.b.Clear(); err != nil {
				return backend.Wrap(backend.OpClear, err)
			}
		}
		d.renderer.Reset()
	}
	d.area = area
	d.hasArea = true

	d.target.Resize(area)
	f := &Frame{area: area, buf: d.target, count: d.frames}
	d.compose(f)
	if f.stop {
		d.stopping = true
	}

	next, err := d.renderer.Render(d.b, d.target)
	if err != nil {
		return err
	}
	d.target = next

	switch f.visibility {
	case visibilityShow:
		err = d.cursor.Show()
	case visibilityHide:
		err = d.cursor.Hide()
	}
	if err != nil {
		return err
	}
	if f.moveCursor {
		if err := d.cursor.MoveTo(f.cursor, area); err != nil {
			return err
		}
	}

	if err := d.b.Flush(); err != nil {
		// Sink state is unknown once buffered output is lost
		d.renderer.Reset()
		return backend.Wrap(backend.OpFlush, err)
	}
	return nil
}

// IsShutdownError reports whether err carries a failed restore
func IsShutdownError(err error) bool {
	var se *ShutdownError
	return errors.As(err, &se)
}
