package driver

import (
	"bufio"
	"errors"
	"fmt"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/display"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/events"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/gpio"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/input"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/patterns"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/speed"
	"io"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

const (
	OptionCalibrate = 9
	OptionReset     = 10
	OptionExit      = 11
	OptionSwitch    = 12

	maxLine             = 15
	linePoll            = 10 * time.Millisecond
	localCalibrateTick  = 100 * time.Millisecond
	remoteCalibrateTick = 5 * time.Millisecond
	remoteCalibrateSpan = 150 * time.Millisecond
)

var ErrLinkUnavailable = errors.New("serial link unavailable")

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLocal, "":
		return ModeLocal, nil
	case ModeRemote:
		return ModeRemote, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Console is the local tty: raw switch, non-blocking key source and screen.
type Console interface {
	RawMode
	common.ByteSource
	io.Writer
	Cls()
	Cll()
	Bell()
	HideCursor()
	ShowCursor()
}

// Sampler yields a raw reading and the delay it maps to.
type Sampler interface {
	ReadDelay() (int, int, error)
}

type SessionOptions struct {
	Console        Console
	Lines          io.Reader
	Link           input.Link
	Sampler        Sampler
	Renderer       *gpio.Renderer
	Clock          common.Clock
	Store          *speed.Store
	Bus            *events.Bus
	Mode           Mode
	InitialDelayMs int
	Width          int
}

// Session is the interactive front end: it owns the speed store, the active
// mode and the initial delay, and hands pattern runs to the Driver.
type Session struct {
	driver       *Driver
	console      Console
	lines        *bufio.Reader
	link         input.Link
	sampler      Sampler
	clock        common.Clock
	local        *input.Local
	remote       *input.Remote
	mode         Mode
	initialDelay int
	width        int
}

func NewSession(opts SessionOptions) *Session {
	store := opts.Store
	if store == nil {
		store = speed.NewStore()
	}
	lines := opts.Lines
	if lines == nil {
		lines = strings.NewReader("")
	}

	s := &Session{
		driver:       NewDriver(opts.Console, opts.Renderer, opts.Clock, store, opts.Bus),
		console:      opts.Console,
		lines:        bufio.NewReader(lines),
		link:         opts.Link,
		sampler:      opts.Sampler,
		clock:        opts.Clock,
		local:        input.NewLocal(opts.Console, opts.Console, opts.Clock),
		initialDelay: speed.Clamp(opts.InitialDelayMs),
		width:        opts.Width,
	}
	if s.link != nil {
		s.remote = input.NewRemote(s.link, opts.Clock)
	}

	if s.sampler != nil {
		if raw, delay, err := s.sampler.ReadDelay(); err != nil {
			log.Warnf("ADC read failed, using %d ms: %v", s.initialDelay, err)
		} else {
			log.Infof("ADC reading %d gives an initial delay of %d ms", raw, delay)
			s.initialDelay = delay
		}
	}

	s.setMode(opts.Mode)
	return s
}

func (s *Session) Driver() *Driver {
	return s.driver
}
func (s *Session) Mode() Mode {
	return s.mode
}
func (s *Session) InitialDelay() int {
	return s.initialDelay
}

// setMode makes mode authoritative. Remote without a link falls back to local.
func (s *Session) setMode(mode Mode) {
	if mode == ModeRemote && s.link == nil {
		log.Errorf("Remote mode requested: %v, falling back to local mode", ErrLinkUnavailable)
		mode = ModeLocal
	}
	s.mode = mode

	if mode == ModeRemote {
		s.driver.raw = headless{s.console}
		s.driver.SetChannel(s.remote)
		s.say(s.console, "Running remote mode on the serial link\n")
		return
	}
	s.driver.raw = s.console
	s.driver.SetChannel(s.local)
	s.console.Cls()
	if s.link != nil {
		s.say(s.link, "Running local mode\r\n")
	}
}

// RunPattern runs one pattern in the current mode, starting at delayMs
// unless the store remembers a delay for it.
func (s *Session) RunPattern(id patterns.ID, delayMs int) error {
	if s.mode == ModeRemote {
		s.say(s.link, "\033[2J\033[HRunning %s. Arrow keys change speed, q stops.\r\n", id.Title())
	} else {
		s.say(s.console, "Running %s. Arrow keys change speed, q stops.\n", id.Title())
		s.console.HideCursor()
	}

	err := s.driver.RunPattern(id, delayMs)
	if s.mode == ModeRemote {
		s.say(s.link, "\r\n")
	} else {
		s.console.ShowCursor()
		s.console.Cls()
	}
	return err
}

// Menu runs the interactive loop until exit or the local input ends.
func (s *Session) Menu() error {
	for {
		s.showMenu()
		line, err := s.readLine()
		if err != nil {
			if s.mode == ModeRemote {
				log.Errorf("Serial link lost: %v", err)
				s.link = nil
				s.setMode(ModeLocal)
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			s.invalid("Invalid option %q", line)
			continue
		}

		switch {
		case patterns.ID(choice).Valid():
			if err := s.RunPattern(patterns.ID(choice), s.initialDelay); err != nil {
				log.Errorf("Unable to run %s: %v", patterns.ID(choice), err)
				s.notice("Unable to run pattern: %v", err)
			}
		case choice == OptionCalibrate:
			if err := s.Calibrate(); err != nil {
				s.notice("Calibration failed: %v", err)
			}
		case choice == OptionReset:
			s.driver.ResetAllSpeeds()
			s.notice("All speeds reset to the initial delay")
		case choice == OptionExit:
			s.notice("Bye")
			return nil
		case choice == OptionSwitch:
			if s.mode == ModeLocal {
				s.setMode(ModeRemote)
			} else {
				s.setMode(ModeLocal)
			}
		default:
			s.invalid("Invalid option %d", choice)
		}
	}
}

func (s *Session) readLine() (string, error) {
	if s.mode == ModeRemote {
		return s.readRemoteLine()
	}
	line, err := s.lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readRemoteLine edits a line on the link: printable bytes echo, BS/DEL erase,
// CR or LF submit a non-empty line.
func (s *Session) readRemoteLine() (string, error) {
	var buf [maxLine]byte
	n := 0
	for {
		b, err := s.link.ReadByte()
		if errors.Is(err, common.ErrWouldBlock) {
			s.clock.Sleep(linePoll)
			continue
		} else if err != nil {
			return "", err
		}

		switch {
		case b == '\r' || b == '\n':
			if n == 0 {
				continue
			}
			s.say(s.link, "\r\n")
			return string(buf[:n]), nil
		case b == '\b' || b == 127:
			if n > 0 {
				n--
				s.say(s.link, "\b \b")
			}
		case b >= ' ' && b < 127 && n < maxLine:
			buf[n] = b
			n++
			_, _ = s.link.Write(buf[n-1 : n])
		}
	}
}

// Calibrate samples the ADC until the operator confirms and adopts the last
// mapped delay as the initial delay.
func (s *Session) Calibrate() error {
	if s.sampler == nil {
		return errors.New("adc not enabled")
	}
	var delay int
	var err error
	if s.mode == ModeRemote {
		delay, err = s.calibrateRemote()
	} else {
		delay, err = s.calibrateLocal()
	}
	if err != nil {
		return err
	}
	s.initialDelay = delay
	log.Infof("Initial delay calibrated to %d ms", delay)
	return nil
}

func (s *Session) calibrateLocal() (int, error) {
	if err := s.console.EnterNonBlockingRaw(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTerminalSetup, err)
	}
	defer s.console.Restore()

	s.say(s.console, "Turn the potentiometer, Enter accepts.\n")
	for {
		raw, delay, err := s.sampler.ReadDelay()
		if err != nil {
			return 0, err
		}
		s.console.Cll()
		s.say(s.console, "ADC: %3d  Delay: %4d ms - %5.2f Hz", raw, delay, speed.Hz(delay))
		if enterPressed(s.console) {
			s.say(s.console, "\n")
			return delay, nil
		}
		s.clock.Sleep(localCalibrateTick)
	}
}

func (s *Session) calibrateRemote() (int, error) {
	s.say(s.link, "Turn the potentiometer, Enter accepts.\r\n")
	for {
		raw, delay, err := s.sampler.ReadDelay()
		if err != nil {
			return 0, err
		}
		s.say(s.link, "\rADC: %3d  Delay: %4d ms - %5.2f Hz   ", raw, delay, speed.Hz(delay))
		for waited := time.Duration(0); waited < remoteCalibrateSpan; waited += remoteCalibrateTick {
			if enterPressed(s.remote) {
				s.say(s.link, "\r\n")
				return delay, nil
			}
			s.clock.Sleep(remoteCalibrateTick)
		}
	}
}

// enterPressed drains src and reports whether it held a CR or LF.
func enterPressed(src common.ByteSource) bool {
	for {
		b, err := src.ReadByte()
		if err != nil {
			return false
		}
		if b == '\r' || b == '\n' {
			return true
		}
	}
}

func (s *Session) say(w io.Writer, format string, a ...interface{}) {
	if w == nil {
		return
	}
	_, _ = fmt.Fprintf(w, format, a...)
}

func (s *Session) notice(format string, a ...interface{}) {
	if s.mode == ModeRemote {
		s.say(s.link, format+"\r\n", a...)
		return
	}
	s.say(s.console, format+"\n", a...)
}

func (s *Session) invalid(format string, a ...interface{}) {
	if s.mode == ModeLocal {
		s.console.Bell()
	}
	s.notice(format, a...)
}

// headless lets remote mode run with no controlling tty.
type headless struct {
	Console
}

func (h headless) EnterNonBlockingRaw() error {
	if err := h.Console.EnterNonBlockingRaw(); err != nil && !errors.Is(err, display.ErrNotTerminal) {
		return err
	}
	return nil
}
