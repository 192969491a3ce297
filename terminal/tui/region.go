package tui

import "github.com/lixenwraith/termsink/terminal"

// Canvas accepts cells at absolute positions and ignores those outside its area
type Canvas interface {
	Set(x, y int, c terminal.Cell)
}

// Region represents a rectangular area within a canvas
// All coordinates are relative to the region's origin
type Region struct {
	Canvas Canvas
	X, Y   int // Absolute position on the canvas
	W, H   int // Region dimensions
}

// NewRegion creates a region over canvas with bounds
func NewRegion(canvas Canvas, x, y, w, h int) Region {
	return Region{
		Canvas: canvas,
		X:      x,
		Y:      y,
		W:      max(w, 0),
		H:      max(h, 0),
	}
}

// Sub returns a nested region with coordinates relative to parent, result is clipped to parent bounds
func (r Region) Sub(x, y, w, h int) Region {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > r.W {
		w = r.W - x
	}
	if y+h > r.H {
		h = r.H - y
	}

	return Region{
		Canvas: r.Canvas,
		X:      r.X + x,
		Y:      r.Y + y,
		W:      max(w, 0),
		H:      max(h, 0),
	}
}

// Inset returns a region shrunk by n cells on all sides
func (r Region) Inset(n int) Region {
	return r.Sub(n, n, r.W-2*n, r.H-2*n)
}

// Cell sets a single cell with bounds checking
func (r Region) Cell(x, y int, ch rune, fg, bg terminal.RGB, attr terminal.Attr) {
	if x < 0 || x >= r.W || y < 0 || y >= r.H {
		return
	}
	r.Canvas.Set(r.X+x, r.Y+y, terminal.Cell{Rune: ch, Fg: fg, Bg: bg, Attrs: attr})
}

// Fill fills entire region with background color
func (r Region) Fill(bg terminal.RGB) {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Cell(x, y, ' ', terminal.RGB{}, bg, terminal.AttrNone)
		}
	}
}

// Clear resets region cells to blank
func (r Region) Clear() {
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			r.Canvas.Set(r.X+x, r.Y+y, terminal.Blank)
		}
	}
}

// Bounds returns absolute position and dimensions
func (r Region) Bounds() (x, y, w, h int) {
	return r.X, r.Y, r.W, r.H
}
