// Package demo holds the scene drawn by the termsink commands and the wasm guest.
package demo

import (
	"strconv"

	"github.com/lixenwraith/termsink/render"
	"github.com/lixenwraith/termsink/terminal"
	"github.com/lixenwraith/termsink/terminal/tui"
)

// Title is the default heading of the scene
const Title = "Main block with round corners"

var (
	borderColor = terminal.RGB{R: 130, G: 170, B: 255}
	textColor   = terminal.RGB{R: 220, G: 220, B: 220}
	dimColor    = terminal.RGB{R: 120, G: 120, B: 120}
)

// Scene returns a compose callback drawing a full-viewport rounded block
// with title centered on its top edge and a frame counter inside
func Scene(title string, maxFrames int) render.ComposeFunc {
	return func(f *render.Frame) {
		area := f.Area()
		root := tui.NewRegion(f.Buffer(), int(area.X), int(area.Y), int(area.Width), int(area.Height))

		content := root.Card(title, tui.LineRounded, borderColor)
		f.HideCursor()
		if content.H <= 0 {
			return
		}

		mid := content.H / 2
		content.TextCenter(mid, "frame "+progress(f.Count(), maxFrames), textColor, terminal.RGB{}, terminal.AttrNone)
		if mid+1 < content.H {
			content.TextCenter(mid+1, size(area.Width, area.Height), dimColor, terminal.RGB{}, terminal.AttrDim)
		}
	}
}

func progress(n, total int) string {
	s := strconv.Itoa(n + 1)
	if total > 0 {
		s += "/" + strconv.Itoa(total)
	}
	return s
}

func size(w, h uint16) string {
	return strconv.Itoa(int(w)) + "x" + strconv.Itoa(int(h))
}
