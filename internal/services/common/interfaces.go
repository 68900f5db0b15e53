package common

import (
	"errors"
	"time"
)

// ErrWouldBlock is returned by non-blocking byte sources when no data is buffered.
var ErrWouldBlock = errors.New("would block")

const Cells = 8

// Frame is one on/off assignment for every indicator, index 0..7.
type Frame [Cells]bool

func (f Frame) Bits() uint8 {
	b := uint8(0)
	for j, on := range f {
		if on {
			b |= 1 << uint(j)
		}
	}
	return b
}

func FrameFromBits(v uint8) Frame {
	var f Frame
	for j := 0; j < Cells; j++ {
		f[j] = (v>>uint(j))&1 == 1
	}
	return f
}

type OutputBank interface {
	WriteCell(index int, on bool) error
	Close() error
}

type ByteSource interface {
	ReadByte() (byte, error)
}

// Clock is a monotonic millisecond clock plus the engine's one blocking wait.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}
func (c *SystemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
