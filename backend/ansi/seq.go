package ansi

import "bufio"

// Pre-allocated ANSI sequence fragments (avoid allocations during draw)
var (
	csi      = []byte("\x1b[")
	csiSGR0  = []byte("\x1b[0m")
	csiClear = []byte("\x1b[2J\x1b[H")

	csiCursorHide    = []byte("\x1b[?25l")
	csiCursorShow    = []byte("\x1b[?25h")
	csiCursorForward = []byte("\x1b[C")

	// Color parameters, written after CSI or ';'
	paramFg256 = []byte("38;5;")
	paramBg256 = []byte("48;5;")
	paramFgRGB = []byte("38;2;")
	paramBgRGB = []byte("48;2;")
)

// writeInt writes an integer without allocation
// Optimized for terminal values (0-255 common, 0-999 typical max)
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n < 10:
		w.WriteByte(byte(n) + '0')
	case n < 100:
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
	case n < 1000:
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
	default:
		var buf [6]byte
		i := len(buf)
		for n > 0 {
			i--
			buf[i] = byte(n%10) + '0'
			n /= 10
		}
		w.Write(buf[i:])
	}
}

// writeCursorPos writes CUP for a 0-indexed position
func writeCursorPos(w *bufio.Writer, x, y int) {
	w.Write(csi)
	writeInt(w, y+1)
	w.WriteByte(';')
	writeInt(w, x+1)
	w.WriteByte('H')
}

// writeCursorForward writes CUF for n columns
func writeCursorForward(w *bufio.Writer, n int) {
	if n <= 0 {
		return
	}
	if n == 1 {
		w.Write(csiCursorForward)
		return
	}
	w.Write(csi)
	writeInt(w, n)
	w.WriteByte('C')
}
