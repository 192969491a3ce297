package ansi

import (
	"bufio"

	"github.com/lixenwraith/termsink/terminal"
)

// SGR parameter per style attribute, in emission order
var styleParams = [...]struct {
	bit  terminal.Attr
	code byte
}{
	{terminal.AttrBold, '1'},
	{terminal.AttrDim, '2'},
	{terminal.AttrItalic, '3'},
	{terminal.AttrUnderline, '4'},
	{terminal.AttrBlink, '5'},
	{terminal.AttrReverse, '7'},
}

// sgrState is the style last emitted to the stream
type sgrState struct {
	fg, bg terminal.RGB
	attr   terminal.Attr
	plain  bool // terminal default colors, no attributes
	valid  bool
}

// writeStyle emits a single combined SGR sequence when the cell style differs from the last one
// Blank cells use the terminal defaults so they match what Clear leaves behind
func (s *Sink) writeStyle(w *bufio.Writer, c terminal.Cell) {
	last := &s.sgr

	if c.IsBlank() {
		if last.valid && last.plain {
			return
		}
		w.Write(csiSGR0)
		*last = sgrState{plain: true, valid: true}
		return
	}

	reset := !last.valid || last.plain || c.Attrs&terminal.AttrStyle != last.attr&terminal.AttrStyle
	fgChanged := reset || c.Fg != last.fg || c.Attrs&terminal.AttrFg256 != last.attr&terminal.AttrFg256
	bgChanged := reset || c.Bg != last.bg || c.Attrs&terminal.AttrBg256 != last.attr&terminal.AttrBg256
	if !fgChanged && !bgChanged {
		return
	}

	w.Write(csi)
	sep := false
	if reset {
		// Attribute changes need a reset, colors are restated after it
		w.WriteByte('0')
		for _, p := range styleParams {
			if c.Attrs&p.bit != 0 {
				w.WriteByte(';')
				w.WriteByte(p.code)
			}
		}
		sep = true
	}
	if fgChanged {
		if sep {
			w.WriteByte(';')
		}
		s.writeColor(w, paramFg256, paramFgRGB, c.Fg, c.Attrs&terminal.AttrFg256 != 0)
		sep = true
	}
	if bgChanged {
		if sep {
			w.WriteByte(';')
		}
		s.writeColor(w, paramBg256, paramBgRGB, c.Bg, c.Attrs&terminal.AttrBg256 != 0)
	}
	w.WriteByte('m')

	*last = sgrState{fg: c.Fg, bg: c.Bg, attr: c.Attrs, valid: true}
}

// writeColor writes color parameters (no CSI prefix, no 'm' suffix)
// palette means the color is already a 256-color index in R
func (s *Sink) writeColor(w *bufio.Writer, p256, pRGB []byte, c terminal.RGB, palette bool) {
	switch {
	case palette:
		w.Write(p256)
		writeInt(w, int(c.R))
	case s.colorMode == terminal.ColorModeTrueColor:
		w.Write(pRGB)
		writeInt(w, int(c.R))
		w.WriteByte(';')
		writeInt(w, int(c.G))
		w.WriteByte(';')
		writeInt(w, int(c.B))
	default:
		w.Write(p256)
		writeInt(w, int(terminal.RGBTo256(c)))
	}
}
