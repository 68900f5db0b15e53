// https://www.lihaoyi.com/post/BuildyourownCommandLinewithANSIescapecodes.html#colors
package display

import (
	"errors"
	"fmt"
	"github.com/pkg/term/termios"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
	"io"
	"os"
	"sync/atomic"
)

var ErrNotTerminal = errors.New("not a terminal")

// sys is the set of tty calls the raw mode needs, swappable in tests.
type sys struct {
	isTerminal func(fd int) bool
	getattr    func(fd uintptr, t *unix.Termios) error
	setattr    func(fd uintptr, t *unix.Termios) error
	getfl      func(fd int) (int, error)
	setfl      func(fd int, flags int) error
	read       func(fd int, p []byte) (int, error)
}

var hostSys = sys{
	isTerminal: xterm.IsTerminal,
	getattr:    termios.Tcgetattr,
	setattr: func(fd uintptr, t *unix.Termios) error {
		return termios.Tcsetattr(fd, termios.TCSANOW, t)
	},
	getfl: func(fd int) (int, error) {
		return unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	},
	setfl: func(fd int, flags int) error {
		_, err := unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags)
		return err
	},
	read: unix.Read,
}

// Terminal owns the controlling tty: raw non-blocking input for the engine and
// ANSI output for the menus.
type Terminal struct {
	fd    int
	out   io.Writer
	cols  int
	sys   sys
	saved unix.Termios
	flags int
	raw   atomic.Bool
	buf   [1]byte
}

// New sizes the terminal from the tty, or uses width when that is unknown.
func New(in *os.File, out io.Writer, width int) *Terminal {
	t := &Terminal{
		fd:   int(in.Fd()),
		out:  out,
		cols: width,
		sys:  hostSys,
	}
	if w, _, e := xterm.GetSize(t.fd); e == nil && w > 0 {
		t.cols = w
	}
	return t
}

// EnterNonBlockingRaw clears ICANON and ECHO, sets VMIN/VTIME to zero and puts
// the descriptor in O_NONBLOCK. The previous settings are kept for Restore.
func (t *Terminal) EnterNonBlockingRaw() error {
	if !t.sys.isTerminal(t.fd) {
		return ErrNotTerminal
	}

	var orig unix.Termios
	if err := t.sys.getattr(uintptr(t.fd), &orig); err != nil {
		return fmt.Errorf("tcgetattr: %w", err)
	}

	raw := orig
	raw.Lflag &^= unix.ECHO | unix.ICANON
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err := t.sys.setattr(uintptr(t.fd), &raw); err != nil {
		_ = t.sys.setattr(uintptr(t.fd), &orig)
		return fmt.Errorf("tcsetattr: %w", err)
	}

	flags, err := t.sys.getfl(t.fd)
	if err != nil {
		_ = t.sys.setattr(uintptr(t.fd), &orig)
		return fmt.Errorf("fcntl F_GETFL: %w", err)
	}
	if err := t.sys.setfl(t.fd, flags|unix.O_NONBLOCK); err != nil {
		_ = t.sys.setattr(uintptr(t.fd), &orig)
		return fmt.Errorf("fcntl F_SETFL: %w", err)
	}

	t.saved = orig
	t.flags = flags
	t.raw.Store(true)
	return nil
}

// Restore puts back the settings saved by EnterNonBlockingRaw. Only the first
// call after entering raw mode does anything. It performs no allocation.
func (t *Terminal) Restore() {
	if !t.raw.CompareAndSwap(true, false) {
		return
	}
	_ = t.sys.setattr(uintptr(t.fd), &t.saved)
	_ = t.sys.setfl(t.fd, t.flags)
}

func (t *Terminal) Raw() bool {
	return t.raw.Load()
}

// ReadByte is a single non-blocking read from the tty.
func (t *Terminal) ReadByte() (byte, error) {
	n, err := t.sys.read(t.fd, t.buf[:])
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0, common.ErrWouldBlock
	case err != nil:
		return 0, err
	case n == 0:
		return 0, io.EOF
	}
	return t.buf[0], nil
}

func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

func (t *Terminal) Cols() int {
	return t.cols
}
