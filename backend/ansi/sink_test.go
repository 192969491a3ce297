package ansi

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/render"
	"github.com/lixenwraith/termsink/terminal"
)

// fakeOutput is an in-memory terminal
type fakeOutput struct {
	bytes.Buffer
	w, h    int
	sizeErr error
	failErr error
}

func (f *fakeOutput) Write(p []byte) (int, error) {
	if f.failErr != nil {
		return 0, f.failErr
	}
	return f.Buffer.Write(p)
}

func (f *fakeOutput) Size() (int, int, error) {
	return f.w, f.h, f.sizeErr
}

var (
	white = terminal.RGB{R: 255, G: 255, B: 255}
	black = terminal.RGB{}
)

const sgrWhiteOnBlack = "\x1b[0;38;2;255;255;255;48;2;0;0;0m"

func newTestSink(mode terminal.ColorMode) (*Sink, *fakeOutput) {
	out := &fakeOutput{w: 10, h: 5}
	return New(out, WithColorMode(mode)), out
}

func cell(r rune) terminal.Cell {
	return terminal.Cell{Rune: r, Fg: white, Bg: black}
}

func TestDrawBuffersUntilFlush(t *testing.T) {
	s, out := newTestSink(terminal.ColorModeTrueColor)

	err := s.Draw([]backend.Change{
		{X: 0, Y: 0, Cell: cell('a')},
		{X: 1, Y: 0, Cell: cell('b')},
	})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("Expected nothing written before Flush, got %q", out.String())
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	want := "\x1b[1;1H" + sgrWhiteOnBlack + "ab\x1b[0m"
	if got := out.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDrawCursorMovement(t *testing.T) {
	tests := []struct {
		name    string
		changes []backend.Change
		want    string
	}{
		{
			name: "forward on same row",
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: cell('a')},
				{X: 3, Y: 0, Cell: cell('b')},
			},
			want: "\x1b[1;1H" + sgrWhiteOnBlack + "a\x1b[2Cb\x1b[0m",
		},
		{
			name: "single column forward",
			changes: []backend.Change{
				{X: 4, Y: 2, Cell: cell('a')},
				{X: 6, Y: 2, Cell: cell('b')},
			},
			want: "\x1b[3;5H" + sgrWhiteOnBlack + "a\x1b[Cb\x1b[0m",
		},
		{
			name: "next row",
			changes: []backend.Change{
				{X: 9, Y: 0, Cell: cell('a')},
				{X: 0, Y: 1, Cell: cell('b')},
			},
			want: "\x1b[1;10H" + sgrWhiteOnBlack + "a\x1b[2;1Hb\x1b[0m",
		},
		{
			name: "wide rune advances two columns",
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: cell('世')},
				{X: 2, Y: 0, Cell: cell('x')},
			},
			want: "\x1b[1;1H" + sgrWhiteOnBlack + "世x\x1b[0m",
		},
		{
			name: "newline rune stays on its row",
			changes: []backend.Change{
				{X: 0, Y: 1, Cell: cell('\n')},
				{X: 1, Y: 1, Cell: cell('Z')},
			},
			want: "\x1b[2;1H" + sgrWhiteOnBlack + " Z\x1b[0m",
		},
		{
			name: "escape, bell and C1 CSI are not emitted",
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: cell('\x1b')},
				{X: 1, Y: 0, Cell: cell('\a')},
				{X: 2, Y: 0, Cell: cell('\u009b')},
				{X: 3, Y: 0, Cell: cell('k')},
			},
			want: "\x1b[1;1H" + sgrWhiteOnBlack + "   k\x1b[0m",
		},
		{
			name: "combining mark takes its own cell",
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: cell('\u0301')},
				{X: 1, Y: 0, Cell: cell('y')},
			},
			want: "\x1b[1;1H" + sgrWhiteOnBlack + " y\x1b[0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestSink(terminal.ColorModeTrueColor)
			if err := s.Draw(tt.changes); err != nil {
				t.Fatalf("Draw failed: %v", err)
			}
			s.Flush()
			if got := out.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDrawStyleCoalescing(t *testing.T) {
	tests := []struct {
		name    string
		mode    terminal.ColorMode
		changes []backend.Change
		want    string
	}{
		{
			name:    "blank cell uses defaults",
			mode:    terminal.ColorModeTrueColor,
			changes: []backend.Change{{X: 0, Y: 0}, {X: 1, Y: 0}},
			want:    "\x1b[1;1H\x1b[0m  \x1b[0m",
		},
		{
			name: "fg only change",
			mode: terminal.ColorModeTrueColor,
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: cell('a')},
				{X: 1, Y: 0, Cell: terminal.Cell{Rune: 'b', Fg: terminal.RGB{R: 1, G: 2, B: 3}, Bg: black}},
			},
			want: "\x1b[1;1H" + sgrWhiteOnBlack + "a\x1b[38;2;1;2;3mb\x1b[0m",
		},
		{
			name: "attributes",
			mode: terminal.ColorModeTrueColor,
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: terminal.Cell{Rune: 'a', Fg: white, Attrs: terminal.AttrBold | terminal.AttrUnderline}},
			},
			want: "\x1b[1;1H\x1b[0;1;4;38;2;255;255;255;48;2;0;0;0ma\x1b[0m",
		},
		{
			name: "256 quantized",
			mode: terminal.ColorMode256,
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: terminal.Cell{Rune: 'r', Fg: terminal.RGB{R: 255}, Bg: black}},
			},
			want: "\x1b[1;1H\x1b[0;38;5;196;48;5;16mr\x1b[0m",
		},
		{
			name: "palette index",
			mode: terminal.ColorModeTrueColor,
			changes: []backend.Change{
				{X: 0, Y: 0, Cell: terminal.Cell{Rune: 'p', Fg: terminal.RGB{R: 42}, Attrs: terminal.AttrFg256}},
			},
			want: "\x1b[1;1H\x1b[0;38;5;42;48;2;0;0;0mp\x1b[0m",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestSink(tt.mode)
			if err := s.Draw(tt.changes); err != nil {
				t.Fatalf("Draw failed: %v", err)
			}
			s.Flush()
			if got := out.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCursorCommandsWriteImmediately(t *testing.T) {
	s, out := newTestSink(terminal.ColorModeTrueColor)

	if err := s.HideCursor(); err != nil {
		t.Fatalf("HideCursor failed: %v", err)
	}
	if got := out.String(); got != "\x1b[?25l" {
		t.Errorf("Expected hide sequence, got %q", got)
	}

	out.Reset()
	if err := s.ShowCursor(); err != nil {
		t.Fatalf("ShowCursor failed: %v", err)
	}
	if got := out.String(); got != "\x1b[?25h" {
		t.Errorf("Expected show sequence, got %q", got)
	}

	out.Reset()
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got := out.String(); got != "\x1b[0m\x1b[2J\x1b[H" {
		t.Errorf("Expected clear sequence, got %q", got)
	}
}

func TestSetCursorClampsToViewport(t *testing.T) {
	s, out := newTestSink(terminal.ColorModeTrueColor)

	r, err := s.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if r != (backend.Rect{Width: 10, Height: 5}) {
		t.Errorf("Expected 10x5 viewport, got %+v", r)
	}

	if err := s.SetCursor(backend.Position{X: 20, Y: 20}); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	if got := out.String(); got != "\x1b[5;10H" {
		t.Errorf("Expected clamped CUP, got %q", got)
	}
	pos, _ := s.GetCursor()
	if pos != (backend.Position{X: 9, Y: 4}) {
		t.Errorf("Expected GetCursor {9 4}, got %+v", pos)
	}
}

func TestFlushRestoresCursorAfterDraw(t *testing.T) {
	s, out := newTestSink(terminal.ColorModeTrueColor)
	s.SetCursor(backend.Position{X: 2, Y: 1})
	out.Reset()

	s.Draw([]backend.Change{{X: 0, Y: 0, Cell: cell('a')}})
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := out.String(); !strings.HasSuffix(got, "\x1b[0m\x1b[2;3H") {
		t.Errorf("Expected cursor restored after draw, got %q", got)
	}

	// Nothing drawn since: no extra CUP
	out.Reset()
	s.Flush()
	if out.Len() != 0 {
		t.Errorf("Expected empty flush, got %q", out.String())
	}
}

func TestErrorsAreIoErrors(t *testing.T) {
	boom := errors.New("broken pipe")
	out := &fakeOutput{w: 10, h: 5, failErr: boom, sizeErr: boom}
	s := New(out, WithColorMode(terminal.ColorModeTrueColor))

	checks := []struct {
		op  string
		err error
	}{
		{backend.OpHideCursor, s.HideCursor()},
		{backend.OpFlush, func() error {
			s.Draw([]backend.Change{{Cell: cell('a')}})
			return s.Flush()
		}()},
		{backend.OpSize, func() error { _, err := s.Size(); return err }()},
	}
	for _, c := range checks {
		var ioErr *backend.IoError
		if !errors.As(c.err, &ioErr) {
			t.Errorf("%s: expected *IoError, got %v", c.op, c.err)
			continue
		}
		if ioErr.Op != c.op {
			t.Errorf("Expected op %q, got %q", c.op, ioErr.Op)
		}
		if !errors.Is(c.err, boom) {
			t.Errorf("%s: expected cause preserved, got %v", c.op, c.err)
		}
	}
}

func TestDriverOverAnsiSink(t *testing.T) {
	out := &fakeOutput{w: 3, h: 1}
	s := New(out, WithColorMode(terminal.ColorModeTrueColor))

	d := render.NewDriver(s, func(f *render.Frame) {
		f.SetCell(0, 0, cell('a'))
		if f.Count() == 1 {
			f.SetCell(2, 0, cell('c'))
		}
		f.HideCursor()
	}, render.WithMaxFrames(2))

	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := "\x1b[1;1H" + sgrWhiteOnBlack + "a\x1b[0m  \x1b[0m" + // frame 0: full row
		"\x1b[?25l" + // hide
		"\x1b[1;3H" + sgrWhiteOnBlack + "c\x1b[0m" + // frame 1: one cell
		"\x1b[?25h" // restore
	if got := out.String(); got != want {
		t.Errorf("Expected\n%q\ngot\n%q", want, got)
	}
}
