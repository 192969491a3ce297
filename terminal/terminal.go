package terminal

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
	AttrFg256     Attr = 1 << 6 // Fg.R is 256-color palette index
	AttrBg256     Attr = 1 << 7 // Bg.R is 256-color palette index
)

// AttrStyle masks only the style bits (excludes color mode flags)
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse

// Has returns true if all bits of a are set
func (a Attr) Has(bits Attr) bool {
	return a&bits == bits
}

// Cell represents a single terminal cell
// Cells are plain values: a frame replaces them, never mutates a shared one
// The zero Cell is blank and is emitted as a space
type Cell struct {
	Rune  rune
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// Blank is the zero cell
var Blank = Cell{}

// IsBlank reports whether c is the zero cell
func (c Cell) IsBlank() bool {
	return c == Blank
}

// Glyph returns the rune a sink should emit for c
func (c Cell) Glyph() rune {
	if c.Rune == 0 {
		return ' '
	}
	return c.Rune
}

// NewCell builds a cell with the given rune and colors and no attributes
func NewCell(r rune, fg, bg RGB) Cell {
	return Cell{Rune: r, Fg: fg, Bg: bg}
}
