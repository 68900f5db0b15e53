package status

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"strings"
)

const (
	off = common.Grey
	on  = common.BrightGreen
)

// FrameBlock renders a frame as coloured cells, only emitting a colour code when it changes.
func FrameBlock(f common.Frame) string {
	var b strings.Builder
	lastColour := ""
	for _, lit := range f {
		colour, cell := off, "○"
		if lit {
			colour, cell = on, "●"
		}
		if colour != lastColour {
			b.WriteString(colour)
			lastColour = colour
		}
		b.WriteString(cell)
		b.WriteString(" ")
	}
	b.WriteString(common.Reset)
	return b.String()
}

// PlainBlock renders a frame without escape codes, e.g. "*..*....".
func PlainBlock(f common.Frame) string {
	bs := make([]byte, len(f))
	for i, lit := range f {
		bs[i] = '.'
		if lit {
			bs[i] = '*'
		}
	}
	return string(bs)
}
