package terminal

import (
	"bytes"
	"testing"
)

func TestSessionEnterLeave(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf, SessionOptions{AltScreen: true})

	if err := s.Enter(); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	want := "\x1b[?1049h\x1b[?7l\x1b[0m\x1b[2J\x1b[H"
	if got := buf.String(); got != want {
		t.Errorf("Expected enter sequence %q, got %q", want, got)
	}
	if !s.Active() {
		t.Error("Expected session to be active after Enter")
	}

	// Second Enter is a no-op
	buf.Reset()
	if err := s.Enter(); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output on repeated Enter, got %q", buf.String())
	}

	buf.Reset()
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	want = "\x1b[?25h\x1b[?1049l\x1b[?7h\x1b[0m"
	if got := buf.String(); got != want {
		t.Errorf("Expected leave sequence %q, got %q", want, got)
	}

	buf.Reset()
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output on repeated Leave, got %q", buf.String())
	}
}

func TestSessionMouseCapture(t *testing.T) {
	var buf bytes.Buffer
	s := NewSession(&buf, SessionOptions{MouseCapture: true})

	if err := s.Enter(); err != nil {
		t.Fatalf("Enter failed: %v", err)
	}
	want := "\x1b[?7l\x1b[?1006h\x1b[?1000h\x1b[?1002h\x1b[0m\x1b[2J\x1b[H"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	buf.Reset()
	if err := s.Leave(); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	want = "\x1b[?1002l\x1b[?1000l\x1b[?1006l\x1b[?25h\x1b[?7h\x1b[0m"
	if got := buf.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestEmergencyResetShowsCursor(t *testing.T) {
	var buf bytes.Buffer
	EmergencyReset(&buf)

	out := buf.Bytes()
	for _, seq := range [][]byte{csiCursorShow, csiAltScreenExit, csiAutoWrapOn, csiMouseSGROff} {
		if !bytes.Contains(out, seq) {
			t.Errorf("Expected reset output to contain %q", seq)
		}
	}
	if !bytes.HasSuffix(out, csiRIS) {
		t.Error("Expected reset output to end with RIS")
	}
}
