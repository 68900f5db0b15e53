package adc

import (
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"io"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	controlAnalogIn = 0x40
	maxReading      = 255
)

// PCF8591 reads one analogue input of a PCF8591 converter.
type PCF8591 struct {
	dev     *i2c.Dev
	bus     io.Closer
	channel byte
	buf     [2]byte
}

// Open initialises the host drivers and opens the configured bus. An empty bus
// name selects the first bus found.
func Open(cfg *config.Adc) (*PCF8591, error) {
	if cfg.Channel < 0 || cfg.Channel > 3 {
		return nil, fmt.Errorf("adc channel %d out of range 0..3", cfg.Channel)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialise host drivers: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("unable to open i2c bus %q: %w", cfg.Bus, err)
	}
	log.Infof("PCF8591 at %#x on %s channel %d", cfg.Address, bus, cfg.Channel)
	return New(bus, bus, uint16(cfg.Address), cfg.Channel), nil
}

func New(bus i2c.Bus, closer io.Closer, addr uint16, channel int) *PCF8591 {
	return &PCF8591{
		dev:     &i2c.Dev{Addr: addr, Bus: bus},
		bus:     closer,
		channel: byte(channel),
	}
}

// Read returns the raw 0..255 conversion. The first byte the chip returns is
// the previous conversion and is discarded.
func (p *PCF8591) Read() (int, error) {
	if err := p.dev.Tx([]byte{controlAnalogIn | p.channel}, p.buf[:]); err != nil {
		return 0, fmt.Errorf("pcf8591 read: %w", err)
	}
	return int(p.buf[1]), nil
}

// ReadDelay maps a fresh reading onto the delay band.
func (p *PCF8591) ReadDelay() (int, int, error) {
	raw, err := p.Read()
	if err != nil {
		return 0, 0, err
	}
	return raw, ToDelay(raw), nil
}

func (p *PCF8591) Close() error {
	if p.bus == nil {
		return nil
	}
	return p.bus.Close()
}

// Map re-scales x from one range to another with integer arithmetic.
func Map(x, inMin, inMax, outMin, outMax int) int {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

func ToDelay(raw int) int {
	return speed.Clamp(Map(raw, 0, maxReading, speed.Min, speed.Max))
}
