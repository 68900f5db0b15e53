package gpio

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/status"
	"sync"
)

// Renderer pushes whole frames to a bank. Write failures are reported once.
// After Halt every later frame is dropped, so the bank stays dark.
type Renderer struct {
	mu      sync.Mutex
	bank    common.OutputBank
	last    common.Frame
	warned  bool
	stopped bool
}

func NewRenderer(bank common.OutputBank) *Renderer {
	return &Renderer{bank: bank}
}

func (r *Renderer) Apply(frame common.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.write(frame)
	log.Debugf("Frame %s", status.PlainBlock(frame))
}

func (r *Renderer) write(frame common.Frame) {
	for i, on := range frame {
		if err := r.bank.WriteCell(i, on); err != nil && !r.warned {
			r.warned = true
			log.Warnf("Unable to write cell %d: %v", i, err)
		}
	}
	r.last = frame
}

func (r *Renderer) AllOff() {
	r.Apply(common.Frame{})
}

// Halt blanks the bank and stops the renderer for good. It is safe to call
// from the interrupt path while another goroutine is applying frames.
func (r *Renderer) Halt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	r.write(common.Frame{})
}

// LastFrame is the most recent frame written to the bank.
func (r *Renderer) LastFrame() common.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
