package serial

import (
	"errors"
	"fmt"
	srl "github.com/jacobsa/go-serial/serial"
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

const (
	bufferSize = 1024
	idlePause  = 10 * time.Millisecond
)

var ErrClosed = errors.New("serial link closed")

// Link is a duplex byte link. A reader goroutine pumps inbound bytes into a
// buffer so the engine can poll it without blocking.
type Link struct {
	port      io.ReadWriteCloser
	name      string
	buffer    chan byte
	lost      atomic.Bool
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

func Open(cfg *config.Serial) (*Link, error) {
	options := srl.OpenOptions{
		PortName:              cfg.PortName,
		BaudRate:              uint(cfg.BaudRate),
		DataBits:              uint(cfg.DataBits),
		StopBits:              toStopBits(cfg.StopBits),
		ParityMode:            toParity(cfg.Parity),
		MinimumReadSize:       uint(cfg.MinimumReadSize),
		InterCharacterTimeout: uint(cfg.InterCharTimeoutMs),
	}

	port, err := srl.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.PortName, err)
	}
	log.Infof("Opened port %s at %d baud", cfg.PortName, cfg.BaudRate)
	return NewLink(port, cfg.PortName), nil
}

func NewLink(port io.ReadWriteCloser, name string) *Link {
	l := &Link{
		port:   port,
		name:   name,
		buffer: make(chan byte, bufferSize),
		done:   make(chan struct{}),
	}
	go l.readPort()
	return l
}

func toStopBits(value int) uint {
	switch value {
	case 1, 2:
		return uint(value)
	default:
		log.Warnf("Invalid stop bits %d, using 1", value)
		return 1
	}
}
func toParity(value int) srl.ParityMode {
	switch value {
	case 0:
		return srl.PARITY_NONE
	case 1:
		return srl.PARITY_ODD
	case 2:
		return srl.PARITY_EVEN
	default:
		log.Warnf("Invalid parity %d, using none", value)
		return srl.PARITY_NONE
	}
}

// readPort pumps the port until it fails or is closed. With VMIN=0 an idle
// termios read times out as (0, io.EOF), which only means no data arrived.
func (l *Link) readPort() {
	defer close(l.done)
	bs := make([]byte, 100)
	for {
		n, err := l.port.Read(bs)
		if n == 0 && err == io.EOF && !l.closed.Load() {
			time.Sleep(idlePause)
			continue
		}
		for i := 0; i < n; i++ {
			select {
			case l.buffer <- bs[i]:
			default:
				log.Debugf("Serial buffer full, dropping %#02x", bs[i])
			}
		}
		if err != nil {
			if !l.closed.Load() {
				log.Warnf("Lost port %s: %v", l.name, err)
			}
			l.lost.Store(true)
			return
		}
	}
}

func (l *Link) Name() string {
	return l.name
}

// Available reports whether at least one inbound byte is buffered.
func (l *Link) Available() bool {
	return len(l.buffer) > 0
}

// ReadByte never blocks: ErrWouldBlock when the buffer is empty, io.EOF once
// the port is gone and drained.
func (l *Link) ReadByte() (byte, error) {
	select {
	case b := <-l.buffer:
		return b, nil
	default:
		if l.lost.Load() {
			return 0, io.EOF
		}
		return 0, common.ErrWouldBlock
	}
}

func (l *Link) Write(p []byte) (int, error) {
	if l.closed.Load() {
		return 0, ErrClosed
	}
	return l.port.Write(p)
}

// Puts is fire-and-forget; write failures are only logged.
func (l *Link) Puts(s string) {
	if _, err := l.Write([]byte(s)); err != nil {
		log.Debugf("Serial write to %s failed: %v", l.name, err)
	}
}

func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		err = l.port.Close()
	})
	return err
}

// Done is closed once the reader goroutine has stopped.
func (l *Link) Done() <-chan struct{} {
	return l.done
}
