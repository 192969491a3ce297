package remote

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

// ErrMalformed reports a payload that does not decode for its op
var ErrMalformed = errors.New("malformed payload")

// Payload sizes
const (
	positionSize = 4
	rectSize     = 8
	changeSize   = 15 // x u16, y u16, rune u32, fg 3, bg 3, attrs 1
)

func encodePosition(p backend.Position) []byte {
	b := make([]byte, positionSize)
	binary.BigEndian.PutUint16(b[0:2], p.X)
	binary.BigEndian.PutUint16(b[2:4], p.Y)
	return b
}

func decodePosition(b []byte) (backend.Position, error) {
	if len(b) != positionSize {
		return backend.Position{}, fmt.Errorf("%w: position %d bytes", ErrMalformed, len(b))
	}
	return backend.Position{
		X: binary.BigEndian.Uint16(b[0:2]),
		Y: binary.BigEndian.Uint16(b[2:4]),
	}, nil
}

func encodeRect(r backend.Rect) []byte {
	b := make([]byte, rectSize)
	binary.BigEndian.PutUint16(b[0:2], r.X)
	binary.BigEndian.PutUint16(b[2:4], r.Y)
	binary.BigEndian.PutUint16(b[4:6], r.Width)
	binary.BigEndian.PutUint16(b[6:8], r.Height)
	return b
}

func decodeRect(b []byte) (backend.Rect, error) {
	if len(b) != rectSize {
		return backend.Rect{}, fmt.Errorf("%w: rect %d bytes", ErrMalformed, len(b))
	}
	return backend.Rect{
		X:      binary.BigEndian.Uint16(b[0:2]),
		Y:      binary.BigEndian.Uint16(b[2:4]),
		Width:  binary.BigEndian.Uint16(b[4:6]),
		Height: binary.BigEndian.Uint16(b[6:8]),
	}, nil
}

// appendChanges appends the count followed by one fixed-size record per change
func appendChanges(dst []byte, changes []backend.Change) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(changes)))
	for _, ch := range changes {
		c := ch.Cell
		dst = binary.BigEndian.AppendUint16(dst, ch.X)
		dst = binary.BigEndian.AppendUint16(dst, ch.Y)
		dst = binary.BigEndian.AppendUint32(dst, uint32(c.Rune))
		dst = append(dst, c.Fg.R, c.Fg.G, c.Fg.B, c.Bg.R, c.Bg.G, c.Bg.B, byte(c.Attrs))
	}
	return dst
}

func decodeChanges(b []byte) ([]backend.Change, error) {
	if len(b) < 4 {
		return nil, fmt.Errorf("%w: draw %d bytes", ErrMalformed, len(b))
	}
	n := binary.BigEndian.Uint32(b[0:4])
	body := b[4:]
	if uint64(len(body)) != uint64(n)*changeSize {
		return nil, fmt.Errorf("%w: draw count %d with %d bytes", ErrMalformed, n, len(body))
	}

	changes := make([]backend.Change, n)
	for i := range changes {
		rec := body[i*changeSize : (i+1)*changeSize]
		changes[i] = backend.Change{
			X: binary.BigEndian.Uint16(rec[0:2]),
			Y: binary.BigEndian.Uint16(rec[2:4]),
			Cell: terminal.Cell{
				Rune:  rune(binary.BigEndian.Uint32(rec[4:8])),
				Fg:    terminal.RGB{R: rec[8], G: rec[9], B: rec[10]},
				Bg:    terminal.RGB{R: rec[11], G: rec[12], B: rec[13]},
				Attrs: terminal.Attr(rec[14]),
			},
		}
	}
	return changes, nil
}
