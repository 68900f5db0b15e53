package cmd

import (
	"github.td.teradata.com/sandbox/led-ctl/internal/config"
	"github.td.teradata.com/sandbox/led-ctl/internal/driver"
	"github.td.teradata.com/sandbox/led-ctl/internal/log"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/adc"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/common"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/display"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/events"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/gpio"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/metrics"
	"github.td.teradata.com/sandbox/led-ctl/internal/services/serial"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

const interruptedExitCode = 130

// app holds the hardware and plumbing one command invocation needs.
type app struct {
	cfg       *config.Config
	terminal  *display.Terminal
	bank      common.OutputBank
	renderer  *gpio.Renderer
	link      *serial.Link
	adc       *adc.PCF8591
	bus       *events.Bus
	detach    func()
	server    *http.Server
	emergency *display.Emergency
	signals   chan os.Signal
}

func newApp(cfg *config.Config, mode driver.Mode) (*app, error) {
	a := &app{
		cfg:      cfg,
		terminal: display.New(os.Stdin, os.Stdout, cfg.Terminal.Width),
		bus:      events.New(),
	}

	if cfg.DryRun {
		log.Infof("Dry run, using a virtual bank")
		a.bank = gpio.NewVirtual()
	} else {
		bank, err := gpio.Open(cfg.Gpio)
		if err != nil {
			return nil, err
		}
		a.bank = bank
	}

	if cfg.Adc.Enabled {
		p, err := adc.Open(cfg.Adc)
		if err != nil {
			log.Warnf("ADC unavailable, using the configured delay: %v", err)
		} else {
			a.adc = p
		}
	}

	link, err := serial.Open(cfg.Serial)
	if err != nil {
		if mode == driver.ModeRemote {
			log.Errorf("%v", err)
		} else {
			log.Infof("%v", err)
		}
	} else {
		a.link = link
	}

	a.detach = metrics.Attach(a.bus)
	a.server = metrics.Serve(cfg.Metrics.Listen)

	a.renderer = gpio.NewRenderer(a.bank)
	a.emergency = display.NewEmergency(a.terminal, a.renderer)
	a.signals = make(chan os.Signal, 1)
	signal.Notify(a.signals, syscall.SIGINT, syscall.SIGTERM)
	go a.watchSignals()
	return a, nil
}

func (a *app) watchSignals() {
	if _, ok := <-a.signals; !ok {
		return
	}
	a.emergency.Fire()
	os.Exit(interruptedExitCode)
}

func (a *app) Session(mode driver.Mode) *driver.Session {
	opts := driver.SessionOptions{
		Console:        a.terminal,
		Lines:          os.Stdin,
		Renderer:       a.renderer,
		Clock:          common.NewSystemClock(),
		Bus:            a.bus,
		Mode:           mode,
		InitialDelayMs: a.cfg.Engine.InitialDelayMs,
		Width:          a.terminal.Cols(),
	}
	if a.link != nil {
		opts.Link = a.link
	}
	if a.adc != nil {
		opts.Sampler = a.adc
	}
	return driver.NewSession(opts)
}

func (a *app) Close() {
	signal.Stop(a.signals)
	close(a.signals)
	a.emergency.Fire()

	if a.server != nil {
		_ = a.server.Close()
	}
	a.detach()
	if a.link != nil {
		_ = a.link.Close()
	}
	if a.adc != nil {
		_ = a.adc.Close()
	}
	if err := a.bank.Close(); err != nil {
		log.Warnf("Unable to release the bank: %v", err)
	}
}
