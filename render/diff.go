package render

import "github.com/lixenwraith/termsink/backend"

// Diff returns the changes that turn prev into next, row-major
// A nil prev or a different area makes every cell of next a change
func Diff(prev, next *Buffer) []backend.Change {
	return AppendDiff(nil, prev, next)
}

// AppendDiff appends the changes that turn prev into next to dst
func AppendDiff(dst []backend.Change, prev, next *Buffer) []backend.Change {
	area := next.area
	if area.Empty() {
		return dst
	}

	full := prev == nil || prev.area != area
	w := int(area.Width)

	for i, c := range next.cells {
		if !full && prev.cells[i] == c {
			continue
		}
		dst = append(dst, backend.Change{
			X:    area.X + uint16(i%w),
			Y:    area.Y + uint16(i/w),
			Cell: c,
		})
	}
	return dst
}
