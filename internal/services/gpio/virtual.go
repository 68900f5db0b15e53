package gpio

import (
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"sync"
)

// Virtual is an in-memory bank used for dry runs and tests.
type Virtual struct {
	mu     sync.Mutex
	cells  common.Frame
	writes int
	closed bool
	// Fail, when set, makes every write return it.
	Fail error
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) WriteCell(index int, on bool) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.Fail != nil {
		return v.Fail
	}
	if index < 0 || index >= common.Cells {
		return fmt.Errorf("cell %d out of range", index)
	}
	v.cells[index] = on
	v.writes++
	return nil
}

func (v *Virtual) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cells = common.Frame{}
	v.closed = true
	return nil
}

func (v *Virtual) Cells() common.Frame {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cells
}
func (v *Virtual) Writes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.writes
}
func (v *Virtual) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}
