package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned by Device.Init when the input is not a tty
var ErrNotTerminal = errors.New("not a terminal")

// Device is the controlling tty of the process: raw mode on input, writes and size on output
// It satisfies the direct sink's Output interface
type Device struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int

	mu       sync.Mutex
	oldState *term.State
}

// NewDevice wraps the given input and output files
func NewDevice(in, out *os.File) *Device {
	return &Device{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
	}
}

// Stdio returns the Device over os.Stdin and os.Stdout
func Stdio() *Device {
	return NewDevice(os.Stdin, os.Stdout)
}

// IsTerminal reports whether the input side is a tty
func (d *Device) IsTerminal() bool {
	return term.IsTerminal(d.inFd)
}

// Init enters raw mode. Safe to call multiple times
func (d *Device) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.oldState != nil {
		return nil
	}
	if !term.IsTerminal(d.inFd) {
		return fmt.Errorf("%s: %w", d.in.Name(), ErrNotTerminal)
	}

	old, err := term.MakeRaw(d.inFd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	d.oldState = old
	return nil
}

// Fini restores the mode saved by Init. Safe to call multiple times
func (d *Device) Fini() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.oldState == nil {
		return nil
	}
	err := term.Restore(d.inFd, d.oldState)
	d.oldState = nil
	return err
}

// Read reads raw input bytes; in raw mode Ctrl-C arrives as 0x03, not a signal
func (d *Device) Read(p []byte) (int, error) {
	return d.in.Read(p)
}

// Write writes raw bytes to the output side
func (d *Device) Write(p []byte) (int, error) {
	return d.out.Write(p)
}

// Size returns the current window size in columns and rows
func (d *Device) Size() (int, int, error) {
	return windowSize(d.outFd)
}
