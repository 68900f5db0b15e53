package gpio

import (
	"errors"
	"fmt"
	"github.com/warthog618/go-gpiocdev"
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
)

const consumer = "led-ctl"

var ErrLineCount = fmt.Errorf("gpio bank needs exactly %d lines", common.Cells)

type line interface {
	SetValue(value int) error
	Reconfigure(options ...gpiocdev.LineConfigOption) error
	Close() error
}

// requestLine is swapped out by tests.
var requestLine = func(chip string, offset int) (line, error) {
	return gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
}

// Bank drives one character device line per indicator cell.
type Bank struct {
	chip    string
	offsets []int
	lines   []line
}

func Open(cfg *config.Gpio) (*Bank, error) {
	if len(cfg.Lines) != common.Cells {
		return nil, fmt.Errorf("%w, got %d", ErrLineCount, len(cfg.Lines))
	}

	b := &Bank{
		chip:    cfg.Chip,
		offsets: append([]int(nil), cfg.Lines...),
		lines:   make([]line, 0, common.Cells),
	}
	for _, offset := range b.offsets {
		l, err := requestLine(cfg.Chip, offset)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("unable to request %s:%d: %w", cfg.Chip, offset, err)
		}
		b.lines = append(b.lines, l)
		log.Debugf("Requested line %s:%d as output", cfg.Chip, offset)
	}
	log.Infof("GPIO bank ready on %s %v", cfg.Chip, b.offsets)
	return b, nil
}

func (b *Bank) WriteCell(index int, on bool) error {
	if index < 0 || index >= len(b.lines) {
		return fmt.Errorf("cell %d out of range", index)
	}
	v := 0
	if on {
		v = 1
	}
	return b.lines[index].SetValue(v)
}

// Close drives every line low, reverts it to an input and releases it.
func (b *Bank) Close() error {
	var errs []error
	for i, l := range b.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, err)
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, err)
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s:%d: %w", b.chip, b.offsets[i], err))
		}
	}
	b.lines = nil
	return errors.Join(errs...)
}
