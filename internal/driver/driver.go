package driver

import (
	"errors"
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/events"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/gpio"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/input"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/patterns"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"time"
)

var (
	ErrTerminalSetup  = errors.New("terminal setup failed")
	ErrUnknownPattern = patterns.ErrUnknownPattern
	ErrNoChannel      = errors.New("no input channel selected")
)

// RawMode is the tty switch the engine flips around a run.
type RawMode interface {
	EnterNonBlockingRaw() error
	Restore()
}

// Driver runs patterns on the caller's goroutine against one authoritative
// input channel.
type Driver struct {
	raw      RawMode
	renderer *gpio.Renderer
	clock    common.Clock
	store    *speed.Store
	bus      *events.Bus
	channel  input.Channel
	pending  []input.Event
}

func NewDriver(raw RawMode, renderer *gpio.Renderer, clock common.Clock, store *speed.Store, bus *events.Bus) *Driver {
	return &Driver{
		raw:      raw,
		renderer: renderer,
		clock:    clock,
		store:    store,
		bus:      bus,
		pending:  make([]input.Event, 0, 16),
	}
}

// SetChannel selects the channel polled by every following run.
func (d *Driver) SetChannel(channel input.Channel) {
	d.channel = channel
}
func (d *Driver) Channel() input.Channel {
	return d.channel
}

// RunPattern runs id until the operator quits or, for finite patterns, until
// it ends. The delay the operator left a cancelled run at is kept for the next
// run of the same pattern.
func (d *Driver) RunPattern(id patterns.ID, initialDelayMs int) error {
	p, err := patterns.Lookup(id)
	if err != nil {
		return err
	}
	if d.channel == nil {
		return ErrNoChannel
	}
	if err := d.raw.EnterNonBlockingRaw(); err != nil {
		return fmt.Errorf("%w: %w", ErrTerminalSetup, err)
	}

	delay := speed.Clamp(d.store.Get(int(id), initialDelayMs))
	log.Infof("Running %s at %d ms on the %s channel", id, delay, d.channel.Name())
	d.bus.Publish(events.PatternStartedEvent{Pattern: id.String(), Channel: d.channel.Name(), Delay: delay})

	cancelled := p.Run(d, &delay)
	if cancelled {
		d.store.Set(int(id), delay)
	} else {
		d.renderer.AllOff()
		d.raw.Restore()
	}

	log.Infof("Stopped %s at %d ms, cancelled=%t", id, delay, cancelled)
	d.bus.Publish(events.PatternStoppedEvent{Pattern: id.String(), Cancelled: cancelled, Delay: delay})
	return nil
}

// ResetAllSpeeds forgets every remembered delay.
func (d *Driver) ResetAllSpeeds() {
	d.store.ResetAll()
	log.Infof("All pattern speeds reset")
}

// Apply shows frame on the indicators.
func (d *Driver) Apply(frame common.Frame) {
	d.renderer.Apply(frame)
}

// Wait spends ms in slices, reacting to input, and reports whether the
// operator quit.
func (d *Driver) Wait(ms int, delay *int) bool {
	return d.RunSlice(ms, delay)
}

// Hold sleeps without polling. Keys pressed meanwhile wait for the next poll.
func (d *Driver) Hold(ms int) {
	d.clock.Sleep(time.Duration(ms) * time.Millisecond)
}
