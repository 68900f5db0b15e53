package driver

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/events"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/input"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"time"
)

// SliceMs is the granularity at which a wait polls for input.
const SliceMs = 10

// Slices is the number of 10 ms slices a wait of totalMs is cut into.
func Slices(totalMs int) int {
	n := (totalMs + SliceMs - 1) / SliceMs
	if n < 1 {
		n = 1
	}
	return n
}

// RunSlice waits totalMs in 10 ms slices. Each slice refreshes the readout,
// polls the channel and applies what it got. A speed key changes *delay at once
// but the slices already committed for this wait still run. A quit blanks the
// bank, restores the terminal and returns true.
func (d *Driver) RunSlice(totalMs int, delay *int) bool {
	slices := Slices(totalMs)
	for s := 0; s < slices; s++ {
		d.channel.Readout(*delay, d.renderer.LastFrame(), s == 0)

		d.pending = d.channel.Poll(d.pending[:0])
		for _, ev := range d.pending {
			switch ev {
			case input.Quit:
				d.renderer.AllOff()
				d.raw.Restore()
				return true
			case input.SpeedUp:
				d.changeSpeed(delay, speed.Faster(*delay))
			case input.SpeedDown:
				d.changeSpeed(delay, speed.Slower(*delay))
			}
		}

		d.clock.Sleep(SliceMs * time.Millisecond)
	}
	return false
}

func (d *Driver) changeSpeed(delay *int, next int) {
	if next == *delay {
		return
	}
	log.Debugf("Delay %d -> %d ms", *delay, next)
	d.bus.Publish(events.SpeedChangedEvent{From: *delay, To: next})
	*delay = next
}
