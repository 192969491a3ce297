// Package tui provides immediate-mode drawing primitives over a cell canvas.
//
// Core abstraction is Region, a rectangular window onto a Canvas such as
// render.Buffer. All drawing is relative to the region origin and clipped to
// its bounds.
//
// Usage pattern, inside a frame callback:
//
//	root := tui.NewRegion(f.Buffer(), 0, 0, w, h)
//	content := root.Card("Title", tui.LineRounded, borderColor)
//	content.TextCenter(0, "Hello", fg, bg, terminal.AttrNone)
package tui
