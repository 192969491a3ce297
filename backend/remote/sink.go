// Package remote forwards backend calls across a process or module boundary.
//
// The client side is Sink, which encodes each contract call as one ordered
// request on a Transport. The host side is Host, which decodes requests and
// applies them to any backend.Backend. Two transports exist: a framed stream
// (Dial, Serve) and, under GOOS=wasip1, direct host function imports.
package remote

import (
	"github.com/lixenwraith/termsink/backend"
)

// Op identifies a forwarded contract operation
type Op uint8

const (
	OpDraw Op = iota + 1
	OpHideCursor
	OpShowCursor
	OpSetCursor
	OpClear
	OpSize
	OpFlush
)

var opNames = [...]string{
	OpDraw:       backend.OpDraw,
	OpHideCursor: backend.OpHideCursor,
	OpShowCursor: backend.OpShowCursor,
	OpSetCursor:  backend.OpSetCursor,
	OpClear:      backend.OpClear,
	OpSize:       backend.OpSize,
	OpFlush:      backend.OpFlush,
}

// String returns the backend operation name used in IoError
func (o Op) String() string {
	if int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return "unknown"
}

// Transport carries one request and waits for its answer
// Only OpSize answers with a payload; failures carry the host's reason
type Transport interface {
	Call(op Op, payload []byte) ([]byte, error)
}

// Sink implements backend.Backend by forwarding every call
// GetCursor is answered locally with the last forwarded position
type Sink struct {
	t       Transport
	cursor  backend.Position
	scratch []byte
}

// NewSink creates a forwarding sink over t
func NewSink(t Transport) *Sink {
	return &Sink{t: t, cursor: backend.PlaceholderCursor}
}

func (s *Sink) call(op Op, payload []byte) ([]byte, error) {
	out, err := s.t.Call(op, payload)
	if err != nil {
		return nil, backend.Wrap(op.String(), err)
	}
	return out, nil
}

func (s *Sink) Draw(changes []backend.Change) error {
	s.scratch = appendChanges(s.scratch[:0], changes)
	_, err := s.call(OpDraw, s.scratch)
	return err
}

func (s *Sink) HideCursor() error {
	_, err := s.call(OpHideCursor, nil)
	return err
}

func (s *Sink) ShowCursor() error {
	_, err := s.call(OpShowCursor, nil)
	return err
}

// GetCursor never crosses the boundary
func (s *Sink) GetCursor() (backend.Position, error) {
	return s.cursor, nil
}

func (s *Sink) SetCursor(pos backend.Position) error {
	if _, err := s.call(OpSetCursor, encodePosition(pos)); err != nil {
		return err
	}
	s.cursor = pos
	return nil
}

func (s *Sink) Clear() error {
	_, err := s.call(OpClear, nil)
	return err
}

func (s *Sink) Size() (backend.Rect, error) {
	out, err := s.call(OpSize, nil)
	if err != nil {
		return backend.Rect{}, err
	}
	r, err := decodeRect(out)
	if err != nil {
		return backend.Rect{}, backend.Wrap(backend.OpSize, err)
	}
	return r, nil
}

func (s *Sink) Flush() error {
	_, err := s.call(OpFlush, nil)
	return err
}
