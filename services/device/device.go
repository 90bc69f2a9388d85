// Package device wires the console together and runs its tick loop.
//
// Every tick runs, in order: input sampling, the mode step (which may switch
// the bridge routes), the bridge pump, LCD render and flush, the shell status
// line, and the watchdog kick. Everything runs on one goroutine.
package device

import (
	"context"
	"time"

	"miniconsole-go/bus"
	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/errcode"
	"miniconsole-go/platform"
	"miniconsole-go/services/bridge"
	"miniconsole-go/services/input"
	"miniconsole-go/services/mode"
	"miniconsole-go/services/shell"
	"miniconsole-go/types"
	"miniconsole-go/x/logx"
)

// How long the boot splash stays on the LCD before the status screen.
const splashMS = 2000

// Hardware is what the board provides. LCD, Watchdog and Bus may be nil.
type Hardware struct {
	Pins     platform.PinFactory
	Ports    map[types.Endpoint]platform.Port
	LCD      lcd.Controller
	Watchdog platform.Watchdog
	Bus      *bus.Connection
}

type Device struct {
	cfg   *config.Config
	hw    Hardware
	in    *input.Sampler
	br    *bridge.Bridge
	mode  *mode.Controller
	shell *shell.Shell
	disp  *lcd.Display
	bl    platform.GPIOPin

	tick        int64
	splashTicks int64
	started     bool
}

// New validates cfg and builds every component. Nothing is written to the
// peripherals until Start.
func New(cfg *config.Config, hw Hardware) (*Device, error) {
	const op = "device.new"
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if hw.Pins == nil {
		return nil, errcode.Wrap(errcode.InvalidParams, op, "no pin factory", nil)
	}
	in, err := input.New(cfg, hw.Pins)
	if err != nil {
		return nil, err
	}
	bl, ok := hw.Pins.ByNumber(cfg.Pins.LCDBacklight)
	if !ok {
		return nil, errcode.Wrap(errcode.UnknownPin, op, "lcd backlight", nil)
	}

	d := &Device{
		cfg:         cfg,
		hw:          hw,
		in:          in,
		bl:          bl,
		splashTicks: int64(splashMS / cfg.TickPeriodMS()),
	}
	d.br = bridge.New(cfg, hw.Ports)
	d.shell = shell.New(cfg, d.br, hw.Bus)
	d.mode = mode.New(cfg, d.br, hw.Bus)
	d.mode.OnChange(d.shell.Announce)
	if hw.LCD != nil {
		d.disp = lcd.New(hw.LCD, cfg.LCD.Cols, cfg.LCD.Rows)
	}
	return d, nil
}

// Start applies the port rates, lights the backlight, clears the LCD and
// emits the banner.
func (d *Device) Start() error {
	if d.started {
		return nil
	}
	for ep, p := range d.hw.Ports {
		if bs, ok := p.(platform.BaudSetter); ok {
			bs.SetBaudRate(d.cfg.Ports.For(ep).Baud)
		}
	}
	if err := d.bl.ConfigureOutput(true); err != nil {
		return errcode.Wrap(errcode.Error, "device.start", "backlight", err)
	}
	if d.disp != nil {
		d.disp.Reset()
	}
	d.shell.Banner(d.disp)
	if d.disp != nil {
		d.disp.Flush()
	}
	d.started = true
	logx.Info(logx.Device, "started", "board", d.cfg.Board, "tick_ms", d.cfg.TickPeriodMS())
	return nil
}

// Tick runs one cycle.
func (d *Device) Tick() {
	snap := d.in.Sample()
	d.tick = snap.Tick
	d.mode.Step(snap)
	d.br.Pump()
	if d.disp != nil {
		if d.tick > d.splashTicks {
			d.mode.Render(d.disp)
		}
		d.disp.Flush()
	}
	d.shell.Tick(d.mode.Mode(), d.tick)
	if d.hw.Watchdog != nil {
		d.hw.Watchdog.Update()
	}
}

// Run starts the device if needed and ticks every period until ctx ends.
func (d *Device) Run(ctx context.Context, period time.Duration) error {
	if err := d.Start(); err != nil {
		return err
	}
	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			logx.Info(logx.Device, "stopping", "ticks", d.tick)
			return ctx.Err()
		case <-t.C:
			d.Tick()
		}
	}
}

func (d *Device) Mode() types.Mode          { return d.mode.Mode() }
func (d *Device) Bridge() *bridge.Bridge    { return d.br }
func (d *Device) Display() *lcd.Display     { return d.disp }
func (d *Device) Ticks() int64              { return d.tick }
func (d *Device) Monitor() *mode.MonitorLog { return d.mode.Log() }
