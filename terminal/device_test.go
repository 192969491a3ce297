//go:build linux

package terminal

import (
	"errors"
	"os"
	"testing"

	"github.com/creack/pty"
)

func openPty(t *testing.T, cols, rows uint16) (*os.File, *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: cols, Rows: rows}); err != nil {
		t.Fatalf("Setsize failed: %v", err)
	}
	return ptmx, tty
}

func TestDeviceSize(t *testing.T) {
	ptmx, tty := openPty(t, 80, 24)
	dev := NewDevice(tty, tty)

	w, h, err := dev.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if w != 80 || h != 24 {
		t.Errorf("Expected 80x24, got %dx%d", w, h)
	}

	if err := pty.Setsize(ptmx, &pty.Winsize{Cols: 100, Rows: 30}); err != nil {
		t.Fatalf("Setsize failed: %v", err)
	}
	w, h, err = dev.Size()
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if w != 100 || h != 30 {
		t.Errorf("Expected 100x30 after resize, got %dx%d", w, h)
	}
}

func TestDeviceRawMode(t *testing.T) {
	_, tty := openPty(t, 80, 24)
	dev := NewDevice(tty, tty)

	if !dev.IsTerminal() {
		t.Fatal("Expected pty to be a terminal")
	}
	if err := dev.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := dev.Init(); err != nil {
		t.Errorf("Expected repeated Init to succeed, got %v", err)
	}
	if err := dev.Fini(); err != nil {
		t.Errorf("Fini failed: %v", err)
	}
	if err := dev.Fini(); err != nil {
		t.Errorf("Expected repeated Fini to succeed, got %v", err)
	}
}

func TestDeviceNotTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe failed: %v", err)
	}
	defer r.Close()
	defer w.Close()

	dev := NewDevice(r, w)
	if err := dev.Init(); !errors.Is(err, ErrNotTerminal) {
		t.Errorf("Expected ErrNotTerminal, got %v", err)
	}
	if _, _, err := dev.Size(); err == nil {
		t.Error("Expected Size on a pipe to fail")
	}
}

func TestTerminalServiceLifecycle(t *testing.T) {
	ptmx, tty := openPty(t, 40, 10)

	// Drain the master side so session writes never block
	go func() {
		buf := make([]byte, 1024)
		for {
			if _, err := ptmx.Read(buf); err != nil {
				return
			}
		}
	}()

	svc := NewService(NewDevice(tty, tty))
	if svc.Name() != "terminal" {
		t.Errorf("Expected name terminal, got %q", svc.Name())
	}
	if err := svc.Init(SessionOptions{AltScreen: true, MouseCapture: true}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := svc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
	if err := svc.Stop(); err != nil {
		t.Errorf("Expected repeated Stop to succeed, got %v", err)
	}
}

func TestDeviceReadRawInterrupt(t *testing.T) {
	ptmx, tty := openPty(t, 80, 24)
	dev := NewDevice(tty, tty)
	if err := dev.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer dev.Fini()

	// Ctrl-C is delivered as a byte instead of SIGINT
	if _, err := ptmx.Write([]byte{0x03}); err != nil {
		t.Fatalf("pty write failed: %v", err)
	}
	buf := make([]byte, 8)
	n, err := dev.Read(buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if n != 1 || buf[0] != 0x03 {
		t.Errorf("Expected [0x03], got %v", buf[:n])
	}
}
