//go:build wasip1

package remote

import (
	"errors"
	"fmt"
)

// errHostCall is returned when an import reports failure status
var errHostCall = errors.New("host call failed")

//go:wasmimport termsink draw_cell
func hostDrawCell(x, y, r, fg, bg, attrs uint32) uint32

//go:wasmimport termsink hide_cursor
func hostHideCursor() uint32

//go:wasmimport termsink show_cursor
func hostShowCursor() uint32

//go:wasmimport termsink set_cursor
func hostSetCursor(x, y uint32) uint32

//go:wasmimport termsink clear
func hostClear() uint32

//go:wasmimport termsink size
func hostSize() uint64

//go:wasmimport termsink flush
func hostFlush() uint32

// hostCallTransport turns each op into direct import calls
// It takes the same encoded payloads as the stream transport so Sink has one
// code path; the draw batch is decoded again here before the per-cell imports
type hostCallTransport struct{}

// NewHostCallSink returns a sink that calls the termsink host module
func NewHostCallSink() *Sink {
	return NewSink(hostCallTransport{})
}

func hostStatus(s uint32) error {
	if s != StatusOK {
		return errHostCall
	}
	return nil
}

func (hostCallTransport) Call(op Op, payload []byte) ([]byte, error) {
	switch op {
	case OpDraw:
		changes, err := decodeChanges(payload)
		if err != nil {
			return nil, err
		}
		for _, ch := range changes {
			c := ch.Cell
			s := hostDrawCell(uint32(ch.X), uint32(ch.Y), uint32(c.Rune), PackRGB(c.Fg), PackRGB(c.Bg), uint32(c.Attrs))
			if err := hostStatus(s); err != nil {
				return nil, err
			}
		}
		return nil, nil
	case OpHideCursor:
		return nil, hostStatus(hostHideCursor())
	case OpShowCursor:
		return nil, hostStatus(hostShowCursor())
	case OpSetCursor:
		pos, err := decodePosition(payload)
		if err != nil {
			return nil, err
		}
		return nil, hostStatus(hostSetCursor(uint32(pos.X), uint32(pos.Y)))
	case OpClear:
		return nil, hostStatus(hostClear())
	case OpSize:
		packed := hostSize()
		if packed == SizeFailed {
			return nil, errHostCall
		}
		return encodeRect(UnpackRect(packed)), nil
	case OpFlush:
		return nil, hostStatus(hostFlush())
	default:
		return nil, fmt.Errorf("unknown op %d", op)
	}
}
