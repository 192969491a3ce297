package render

import (
	"github.com/lixenwraith/termsink/backend"
	"github.com/lixenwraith/termsink/terminal"
)

// Buffer holds one frame of cells for a viewport area
// Cells are row-major; coordinates are absolute, so (area.X, area.Y) is the first cell
type Buffer struct {
	area  backend.Rect
	cells []terminal.Cell
}

// NewBuffer creates an all-blank buffer covering area
func NewBuffer(area backend.Rect) *Buffer {
	return &Buffer{
		area:  area,
		cells: make([]terminal.Cell, area.Area()),
	}
}

// Area returns the viewport area the buffer covers
func (b *Buffer) Area() backend.Rect {
	return b.area
}

// Resize sets the covered area and blanks every cell
// Reallocates only if capacity is insufficient
func (b *Buffer) Resize(area backend.Rect) {
	size := area.Area()
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.area = area
	b.Clear()
}

// Clear resets all cells to blank
func (b *Buffer) Clear() {
	clear(b.cells)
}

// Fill sets every cell to c using exponential copy
func (b *Buffer) Fill(c terminal.Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// index returns the slice index of (x, y), false if outside the area
func (b *Buffer) index(x, y int) (int, bool) {
	lx := x - int(b.area.X)
	ly := y - int(b.area.Y)
	if lx < 0 || ly < 0 || lx >= int(b.area.Width) || ly >= int(b.area.Height) {
		return 0, false
	}
	return ly*int(b.area.Width) + lx, true
}

// Set replaces the cell at (x, y); writes outside the area are ignored
func (b *Buffer) Set(x, y int, c terminal.Cell) {
	if i, ok := b.index(x, y); ok {
		b.cells[i] = c
	}
}

// Get returns the cell at (x, y), blank outside the area
func (b *Buffer) Get(x, y int) terminal.Cell {
	if i, ok := b.index(x, y); ok {
		return b.cells[i]
	}
	return terminal.Blank
}

// Cells exposes the row-major backing slice
func (b *Buffer) Cells() []terminal.Cell {
	return b.cells
}

// Equal reports whether both buffers cover the same area with identical cells
func (b *Buffer) Equal(other *Buffer) bool {
	if b.area != other.area {
		return false
	}
	for i, c := range b.cells {
		if c != other.cells[i] {
			return false
		}
	}
	return true
}

