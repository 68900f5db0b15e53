package input

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"time"
)

const DebounceInterval = 80 * time.Millisecond

// Decoder turns the control byte grammar (q/Q, ESC [ A, ESC [ B) into events.
// Each channel owns one, so debounce timers never cross channels.
type Decoder struct {
	clock    common.Clock
	last     time.Duration
	accepted bool
}

func NewDecoder(clock common.Clock) *Decoder {
	return &Decoder{clock: clock}
}

// Drain reads src until it would block and appends the decoded events to dst.
// A quit ends the drain immediately and leaves later bytes unread.
func (d *Decoder) Drain(src common.ByteSource, dst []Event) []Event {
	for {
		b, err := src.ReadByte()
		if err != nil {
			return dst
		}

		switch b {
		case 'q', 'Q':
			return append(dst, Quit)
		case esc:
			// Both reads are attempted. A sequence split across polls is dropped.
			b1, err1 := src.ReadByte()
			b2, err2 := src.ReadByte()
			if err1 != nil || err2 != nil || b1 != csi {
				continue
			}
			if !d.debounce() {
				continue
			}
			switch b2 {
			case cursorUp:
				dst = append(dst, SpeedUp)
			case cursorDown:
				dst = append(dst, SpeedDown)
			}
		}
	}
}

func (d *Decoder) debounce() bool {
	now := d.clock.Now()
	if d.accepted && now-d.last < DebounceInterval {
		return false
	}
	d.accepted = true
	d.last = now
	return true
}
