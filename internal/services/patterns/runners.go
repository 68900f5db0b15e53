package patterns

import "github.td.teradata.com/sandbox/led-ctl/internal/services/common"

const stackHoldMs = 1000

// Table cycles through a fixed frame list forever.
type Table struct {
	frames []common.Frame
	index  int
}

func NewTable(frames []common.Frame) *Table {
	return &Table{frames: frames}
}

func (t *Table) Run(e Engine, delay *int) bool {
	if len(t.frames) == 0 {
		return false
	}
	for {
		e.Apply(t.frames[t.index])
		if e.Wait(*delay, delay) {
			return true
		}
		t.index = (t.index + 1) % len(t.frames)
	}
}

// Bounce moves a single lit cell end to end and back.
type Bounce struct {
	index int
	dir   int
}

func (b *Bounce) Run(e Engine, delay *int) bool {
	if b.dir == 0 {
		b.index, b.dir = 0, 1
	}
	for {
		var f common.Frame
		f[b.index] = true
		e.Apply(f)
		if e.Wait(*delay, delay) {
			return true
		}
		b.index += b.dir
		if b.index == 0 || b.index == common.Cells-1 {
			b.dir = -b.dir
		}
	}
}

// Counter shows an 8 bit binary count, wrapping at 255.
type Counter struct {
	value uint8
}

func (c *Counter) Run(e Engine, delay *int) bool {
	for {
		e.Apply(common.FrameFromBits(c.value))
		if e.Wait(*delay, delay) {
			return true
		}
		c.value++
	}
}

// Stack drops one cell at a time onto a growing pile from the right, blinking
// each as it lands. It ends with every cell lit.
type Stack struct{}

func (Stack) Run(e Engine, delay *int) bool {
	var stacked common.Frame
	for s := 0; s < common.Cells; s++ {
		target := common.Cells - 1 - s
		for pos := 0; pos <= target; pos++ {
			f := stacked
			f[pos] = true
			e.Apply(f)
			if e.Wait(*delay, delay) {
				return true
			}
		}
		for k := 0; k < 4; k++ {
			f := stacked
			f[target] = k%2 == 0
			e.Apply(f)
			if e.Wait(*delay/2, delay) {
				return true
			}
		}
		stacked[target] = true
	}
	e.Apply(stacked)
	e.Hold(stackHoldMs)
	return false
}

// FillDrain lights cells left to right, pauses full, then clears them in the
// same order.
type FillDrain struct{}

func (FillDrain) Run(e Engine, delay *int) bool {
	for {
		for i := 0; i < common.Cells; i++ {
			var f common.Frame
			for j := 0; j <= i; j++ {
				f[j] = true
			}
			e.Apply(f)
			if e.Wait(*delay, delay) {
				return true
			}
		}
		if e.Wait(*delay, delay) {
			return true
		}
		for i := 0; i < common.Cells; i++ {
			var f common.Frame
			for j := i + 1; j < common.Cells; j++ {
				f[j] = true
			}
			e.Apply(f)
			if e.Wait(*delay, delay) {
				return true
			}
		}
	}
}
