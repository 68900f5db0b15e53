package gpio

import (
	"errors"
	"github.com/warthog618/go-gpiocdev"
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"sync"
	"testing"
)

type fakeLine struct {
	offset       int
	values       []int
	reconfigured bool
	closed       bool
}

func (l *fakeLine) SetValue(v int) error {
	l.values = append(l.values, v)
	return nil
}
func (l *fakeLine) Reconfigure(...gpiocdev.LineConfigOption) error {
	l.reconfigured = true
	return nil
}
func (l *fakeLine) Close() error {
	l.closed = true
	return nil
}

func stubLines(t *testing.T, failAt int) map[int]*fakeLine {
	t.Helper()
	lines := make(map[int]*fakeLine)
	saved := requestLine
	requestLine = func(chip string, offset int) (line, error) {
		if offset == failAt {
			return nil, errors.New("busy")
		}
		l := &fakeLine{offset: offset}
		lines[offset] = l
		return l, nil
	}
	t.Cleanup(func() { requestLine = saved })
	return lines
}

func TestBankOpenWriteClose(t *testing.T) {
	lines := stubLines(t, -1)
	cfg := &config.Gpio{Chip: "gpiochip0", Lines: config.DefaultLines}

	b, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(lines) != common.Cells {
		t.Fatalf("requested %d lines", len(lines))
	}

	if err := b.WriteCell(0, true); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteCell(7, false); err != nil {
		t.Fatal(err)
	}
	if err := b.WriteCell(8, true); err == nil {
		t.Error("WriteCell(8) error = nil")
	}
	if got := lines[23].values; len(got) != 1 || got[0] != 1 {
		t.Errorf("cell 0 line values = %v", got)
	}
	if got := lines[26].values; len(got) != 1 || got[0] != 0 {
		t.Errorf("cell 7 line values = %v", got)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	for offset, l := range lines {
		if !l.closed || !l.reconfigured || l.values[len(l.values)-1] != 0 {
			t.Errorf("line %d not released low as input: %+v", offset, l)
		}
	}
}

func TestBankOpenReleasesOnFailure(t *testing.T) {
	lines := stubLines(t, 12)
	cfg := &config.Gpio{Chip: "gpiochip0", Lines: config.DefaultLines}

	if _, err := Open(cfg); err == nil {
		t.Fatal("Open() error = nil")
	}
	for offset, l := range lines {
		if !l.closed {
			t.Errorf("line %d left requested", offset)
		}
	}
}

func TestBankLineCount(t *testing.T) {
	stubLines(t, -1)
	if _, err := Open(&config.Gpio{Chip: "gpiochip0", Lines: []int{1, 2}}); !errors.Is(err, ErrLineCount) {
		t.Errorf("Open() error = %v, want ErrLineCount", err)
	}
}

func TestRendererApply(t *testing.T) {
	v := NewVirtual()
	r := NewRenderer(v)

	frame := common.FrameFromBits(0b10000101)
	r.Apply(frame)
	if v.Cells() != frame || r.LastFrame() != frame {
		t.Errorf("cells = %v, want %v", v.Cells(), frame)
	}
	if v.Writes() != common.Cells {
		t.Errorf("writes = %d, want one per cell", v.Writes())
	}

	r.AllOff()
	if v.Cells() != (common.Frame{}) {
		t.Errorf("cells after AllOff = %v", v.Cells())
	}
}

func TestRendererIgnoresWriteErrors(t *testing.T) {
	v := NewVirtual()
	v.Fail = errors.New("gone")
	r := NewRenderer(v)

	r.Apply(common.FrameFromBits(0xff))
	r.Apply(common.FrameFromBits(0x0f))
	if !r.warned {
		t.Error("write failure not reported")
	}
	if r.LastFrame() != common.FrameFromBits(0x0f) {
		t.Errorf("last frame = %v", r.LastFrame())
	}
}

func TestRendererHaltWinsOverLateFrames(t *testing.T) {
	v := NewVirtual()
	r := NewRenderer(v)
	r.Apply(common.FrameFromBits(0xff))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r.Apply(common.FrameFromBits(0xff))
		}
	}()
	r.Halt()
	wg.Wait()

	if v.Cells() != (common.Frame{}) {
		t.Errorf("cells after Halt = %v, want all off", v.Cells())
	}
	r.Apply(common.FrameFromBits(0x01))
	r.AllOff()
	if v.Cells() != (common.Frame{}) || r.LastFrame() != (common.Frame{}) {
		t.Errorf("frame applied after Halt: cells = %v", v.Cells())
	}
}
