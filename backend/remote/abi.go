package remote

import (
	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

// Host import ABI shared by the wasip1 guest and wasmhost.
// Module "termsink"; every function returns 0 on success and 1 on failure,
// except size which returns a packed rect or SizeFailed.
const (
	ImportModule = "termsink"

	StatusOK     uint32 = 0
	StatusFailed uint32 = 1

	SizeFailed = ^uint64(0)
)

// PackRGB carries a colour in one u32 as 0x00RRGGBB
func PackRGB(c terminal.RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func UnpackRGB(v uint32) terminal.RGB {
	return terminal.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// PackRect packs r as x<<48 | y<<32 | w<<16 | h
func PackRect(r backend.Rect) uint64 {
	return uint64(r.X)<<48 | uint64(r.Y)<<32 | uint64(r.Width)<<16 | uint64(r.Height)
}

func UnpackRect(v uint64) backend.Rect {
	return backend.Rect{
		X:      uint16(v >> 48),
		Y:      uint16(v >> 32),
		Width:  uint16(v >> 16),
		Height: uint16(v),
	}
}
