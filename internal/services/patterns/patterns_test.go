package patterns

import (
	"errors"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"testing"
)

// recorder cancels on the wait numbered quitAt (1-based); 0 never cancels.
type recorder struct {
	frames []common.Frame
	waits  []int
	holds  []int
	quitAt int
}

func (r *recorder) Apply(f common.Frame) {
	r.frames = append(r.frames, f)
}
func (r *recorder) Wait(ms int, _ *int) bool {
	r.waits = append(r.waits, ms)
	return r.quitAt > 0 && len(r.waits) >= r.quitAt
}
func (r *recorder) Hold(ms int) {
	r.holds = append(r.holds, ms)
}

func single(i int) common.Frame {
	var f common.Frame
	f[i] = true
	return f
}

func TestTableCycles(t *testing.T) {
	for _, frames := range [][]common.Frame{carrera, choque, danza, escaleraCentral} {
		n := len(frames)
		r := &recorder{quitAt: n + 3}
		delay := 100
		if !NewTable(frames).Run(r, &delay) {
			t.Fatal("table run not cancelled")
		}
		if len(r.frames) != n+3 {
			t.Fatalf("applied %d frames, want %d", len(r.frames), n+3)
		}
		for k, f := range r.frames {
			if f != frames[k%n] {
				t.Errorf("frame %d = %v, want %v", k, f, frames[k%n])
			}
		}
	}
}

func TestTableSizes(t *testing.T) {
	sizes := map[string]int{
		"carrera":         len(carrera),
		"choque":          len(choque),
		"danza":           len(danza),
		"escaleraCentral": len(escaleraCentral),
	}
	want := map[string]int{"carrera": 11, "choque": 8, "danza": 9, "escaleraCentral": 8}
	for name, n := range want {
		if sizes[name] != n {
			t.Errorf("%s has %d rows, want %d", name, sizes[name], n)
		}
	}
}

func TestBounceOrder(t *testing.T) {
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 6, 5, 4, 3, 2, 1, 0, 1}
	r := &recorder{quitAt: len(want)}
	delay := 100
	if !(&Bounce{}).Run(r, &delay) {
		t.Fatal("bounce not cancelled")
	}
	for k, idx := range want {
		if r.frames[k] != single(idx) {
			t.Errorf("step %d = %v, want cell %d", k, r.frames[k], idx)
		}
	}
}

func TestCounterBits(t *testing.T) {
	r := &recorder{quitAt: 258}
	delay := 50
	(&Counter{}).Run(r, &delay)
	for k, f := range r.frames {
		v := uint8(k)
		for j := 0; j < common.Cells; j++ {
			if f[j] != ((v>>uint(j))&1 == 1) {
				t.Fatalf("step %d cell %d = %v", k, j, f[j])
			}
		}
	}
	if r.frames[256] != (common.Frame{}) {
		t.Errorf("counter did not wrap: %v", r.frames[256])
	}
}

func TestStackIsFinite(t *testing.T) {
	r := &recorder{}
	delay := 200
	if (Stack{}).Run(r, &delay) {
		t.Fatal("stack reported cancellation")
	}

	sweeps := 0
	for s := 0; s < common.Cells; s++ {
		sweeps += common.Cells - s
	}
	if got, want := len(r.waits), sweeps+4*common.Cells; got != want {
		t.Errorf("waits = %d, want %d", got, want)
	}
	if r.waits[0] != 200 || r.waits[8] != 100 {
		t.Errorf("wait lengths = %v", r.waits[:12])
	}
	if last := r.frames[len(r.frames)-1]; last != common.FrameFromBits(0xff) {
		t.Errorf("final frame = %v, want all on", last)
	}
	if len(r.holds) != 1 || r.holds[0] != stackHoldMs {
		t.Errorf("holds = %v", r.holds)
	}

	// first landing blinks cell 7 on, off, on, off
	for k, on := range []bool{true, false, true, false} {
		if r.frames[8+k][7] != on {
			t.Errorf("blink %d cell 7 = %v", k, r.frames[8+k][7])
		}
	}
}

func TestStackCancel(t *testing.T) {
	r := &recorder{quitAt: 3}
	delay := 200
	if !(Stack{}).Run(r, &delay) {
		t.Error("stack ignored cancellation")
	}
	if len(r.holds) != 0 {
		t.Error("cancelled stack still held")
	}
}

func TestFillDrain(t *testing.T) {
	r := &recorder{quitAt: 18}
	delay := 100
	if !(FillDrain{}).Run(r, &delay) {
		t.Fatal("fill/drain not cancelled")
	}
	if len(r.frames) != 17 {
		t.Fatalf("frames = %d, want 17", len(r.frames))
	}
	if r.frames[0] != common.FrameFromBits(0x01) || r.frames[7] != common.FrameFromBits(0xff) {
		t.Errorf("fill = %v .. %v", r.frames[0], r.frames[7])
	}
	if r.frames[8] != common.FrameFromBits(0xfe) || r.frames[15] != (common.Frame{}) {
		t.Errorf("drain = %v .. %v", r.frames[8], r.frames[15])
	}
	if r.frames[16] != common.FrameFromBits(0x01) {
		t.Errorf("did not repeat: %v", r.frames[16])
	}
}

func TestParseAndLookup(t *testing.T) {
	tests := []struct {
		in   string
		want ID
	}{
		{"1", AutoFantastico},
		{"8", EscaleraCentral},
		{"danza", Danza},
		{"First-On-First-Off", FirstOnFirstOff},
		{"binariocompleto", BinarioCompleto},
	}
	for _, tt := range tests {
		id, err := Parse(tt.in)
		if err != nil || id != tt.want {
			t.Errorf("Parse(%q) = %v, %v", tt.in, id, err)
		}
	}
	for _, bad := range []string{"0", "9", "waltz"} {
		if _, err := Parse(bad); !errors.Is(err, ErrUnknownPattern) {
			t.Errorf("Parse(%q) error = %v", bad, err)
		}
	}

	for _, id := range IDs() {
		if _, err := Lookup(id); err != nil {
			t.Errorf("Lookup(%v) error = %v", id, err)
		}
	}
	if _, err := Lookup(ID(42)); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("Lookup(42) error = %v", err)
	}
}
