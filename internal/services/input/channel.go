package input

import (
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/status"
	"io"
)

// Channel is the single authoritative control source for one engine run.
type Channel interface {
	Name() string
	Poll(dst []Event) []Event
	// Readout shows the running delay. first is set on the opening slice of a wait.
	Readout(delay int, frame common.Frame, first bool)
}

// Link is the duplex byte view of a remote transport.
type Link interface {
	Available() bool
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

type Local struct {
	src     common.ByteSource
	out     io.Writer
	decoder *Decoder
}

func NewLocal(src common.ByteSource, out io.Writer, clock common.Clock) *Local {
	return &Local{
		src:     src,
		out:     out,
		decoder: NewDecoder(clock),
	}
}

func (l *Local) Name() string {
	return "local"
}
func (l *Local) Poll(dst []Event) []Event {
	return l.decoder.Drain(l.src, dst)
}
func (l *Local) Readout(delay int, frame common.Frame, first bool) {
	_, _ = fmt.Fprintf(l.out, "\r%s Speed: %4d ms - %5.2f Hz   ", status.FrameBlock(frame), delay, speed.Hz(delay))
}

type Remote struct {
	link      Link
	decoder   *Decoder
	lastShown int
}

func NewRemote(link Link, clock common.Clock) *Remote {
	return &Remote{
		link:      link,
		decoder:   NewDecoder(clock),
		lastShown: -1,
	}
}

func (r *Remote) Name() string {
	return "remote"
}
func (r *Remote) Poll(dst []Event) []Event {
	return r.decoder.Drain(r, dst)
}

// ReadByte gates the link on its availability predicate.
func (r *Remote) ReadByte() (byte, error) {
	if !r.link.Available() {
		return 0, common.ErrWouldBlock
	}
	return r.link.ReadByte()
}

// Readout only re-sends the line when the delay moved, to keep the link quiet.
func (r *Remote) Readout(delay int, _ common.Frame, first bool) {
	if !first && delay == r.lastShown {
		return
	}
	r.lastShown = delay
	_, _ = fmt.Fprintf(r.link, "\rSpeed: %4d ms - %5.2f Hz   ", delay, speed.Hz(delay))
}
