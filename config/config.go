// Package config holds the console's immutable device configuration.
//
// A Config is built once at startup (Default, ForBoard, or Load on host
// builds), validated, and handed to every component by pointer. Components
// read it and never write it.
package config

import (
	"miniconsole-go/errcode"
	"miniconsole-go/types"
	"miniconsole-go/x/conv"
	"miniconsole-go/x/mathx"
)

// Pins is the fixed GPIO map (Raspberry Pi Pico GP numbering).
type Pins struct {
	LCDData      [8]int `yaml:"lcd_data"` // DB0..DB7
	LCDEnable    int    `yaml:"lcd_en"`
	LCDRegSelect int    `yaml:"lcd_rs"`
	LCDBacklight int    `yaml:"lcd_bl"`
	Jumpers      [2]int `yaml:"jumpers"` // JP2, JP3
	Buttons      [6]int `yaml:"buttons"` // PB0..PB5
	UART0TX      int    `yaml:"uart0_tx"`
	UART0RX      int    `yaml:"uart0_rx"`
	UART1TX      int    `yaml:"uart1_tx"`
	UART1RX      int    `yaml:"uart1_rx"`
}

type PortConfig struct {
	Baud     uint32       `yaml:"baud"`
	DataBits uint8        `yaml:"data_bits"`
	StopBits uint8        `yaml:"stop_bits"`
	Parity   types.Parity `yaml:"parity"`
	Device   string       `yaml:"device,omitempty"` // host builds: OS serial device path
}

type Ports struct {
	Console PortConfig `yaml:"console"`
	UARTA   PortConfig `yaml:"uart_a"`
	UARTB   PortConfig `yaml:"uart_b"`
}

// For returns the port settings of ep.
func (p *Ports) For(ep types.Endpoint) PortConfig {
	switch ep {
	case types.UARTA:
		return p.UARTA
	case types.UARTB:
		return p.UARTB
	default:
		return p.Console
	}
}

// Messages is the text table shown on the console and the LCD.
type Messages struct {
	Product        string `yaml:"product"`
	Product2       string `yaml:"product2"`
	SoftwarePrefix string `yaml:"software_prefix"`
	Version        string `yaml:"version"`
	Copyright      string `yaml:"copyright"`
	Initializing   string `yaml:"initializing"`
}

type InputConfig struct {
	TickMS    int  `yaml:"tick_ms"`
	Debounce  int  `yaml:"debounce"`   // K: consecutive identical samples before a flip
	ActiveLow bool `yaml:"active_low"` // fitted jumper / pressed button pulls the pin low
	PullUp    bool `yaml:"pull_up"`
}

// ButtonActions maps PB0..PB5 to an action, per mode.
type ButtonActions struct {
	Idle        [6]types.Action `yaml:"idle"`
	Passthrough [6]types.Action `yaml:"passthrough"`
	Monitor     [6]types.Action `yaml:"monitor"`
	Loopback    [6]types.Action `yaml:"loopback"`
}

// For returns the action table of m; unknown modes get no actions.
func (b *ButtonActions) For(m types.Mode) [6]types.Action {
	switch m {
	case types.ModeIdle:
		return b.Idle
	case types.ModePassthrough:
		return b.Passthrough
	case types.ModeMonitor:
		return b.Monitor
	case types.ModeLoopback:
		return b.Loopback
	}
	return [6]types.Action{}
}

type ModeConfig struct {
	// Indexed by jumper pattern: bit0 = JP2 fitted, bit1 = JP3 fitted.
	JumperModes   [4]types.Mode `yaml:"jumper_modes"`
	StableSamples int           `yaml:"stable_samples"`
	Buttons       ButtonActions `yaml:"buttons"`
}

type BridgeConfig struct {
	QueueSize       int `yaml:"queue_size"` // per endpoint outbound queue, power of two
	Burst           int `yaml:"burst"`      // max bytes read per endpoint per tick
	MonitorLogLines int `yaml:"monitor_log_lines"`
}

type LCDConfig struct {
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`
}

type ShellConfig struct {
	StatusEvery  int  `yaml:"status_every"` // ticks between status lines; 0 disables
	AnnounceMode bool `yaml:"announce_mode"`
}

type WatchdogConfig struct {
	TimeoutMS uint32 `yaml:"timeout_ms"` // 0 disables
}

type Config struct {
	Board    string         `yaml:"board"`
	Pins     Pins           `yaml:"pins"`
	Ports    Ports          `yaml:"ports"`
	Messages Messages       `yaml:"messages"`
	Input    InputConfig    `yaml:"input"`
	Mode     ModeConfig     `yaml:"mode"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	LCD      LCDConfig      `yaml:"lcd"`
	Shell    ShellConfig    `yaml:"shell"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
}

// Default reproduces the original board: Pico, 20x4 LCD on an 8-bit bus,
// USB console at 115200 and both UARTs at 38400.
func Default() Config {
	serial := PortConfig{Baud: 38400, DataBits: 8, StopBits: 1, Parity: types.ParityNone}
	return Config{
		Board: "pico",
		Pins: Pins{
			LCDData:      [8]int{2, 3, 4, 5, 10, 11, 12, 13},
			LCDEnable:    7,
			LCDRegSelect: 6,
			LCDBacklight: 14,
			Jumpers:      [2]int{16, 15},
			Buttons:      [6]int{17, 18, 19, 20, 21, 22},
			UART0TX:      0,
			UART0RX:      1,
			UART1TX:      8,
			UART1RX:      9,
		},
		Ports: Ports{
			Console: PortConfig{Baud: 115200, DataBits: 8, StopBits: 1},
			UARTA:   serial,
			UARTB:   serial,
		},
		Messages: Messages{
			Product:        "Mini serial console",
			Product2:       "with two serial port",
			SoftwarePrefix: "Software: v",
			Version:        "0.1",
			Copyright:      "(C)2022 Pozsar Zsolt",
			Initializing:   "Initializing...",
		},
		Input: InputConfig{TickMS: 10, Debounce: 3, ActiveLow: true, PullUp: true},
		Mode: ModeConfig{
			JumperModes:   [4]types.Mode{types.ModeIdle, types.ModePassthrough, types.ModeMonitor, types.ModeLoopback},
			StableSamples: 3,
			Buttons: ButtonActions{
				Monitor:  [6]types.Action{types.ActionPageUp, types.ActionPageDown, types.ActionClearLog, types.ActionNone, types.ActionNone, types.ActionResetStats},
				Loopback: [6]types.Action{5: types.ActionResetStats},
			},
		},
		Bridge: BridgeConfig{QueueSize: 256, Burst: 64, MonitorLogLines: 32},
		LCD:    LCDConfig{Cols: 20, Rows: 4},
		Shell:  ShellConfig{AnnounceMode: true},
	}
}

// ForBoard returns the defaults for a named board profile.
func ForBoard(name string) (Config, bool) {
	c := Default()
	switch name {
	case "pico", "":
		c.Watchdog.TimeoutMS = 1000
	case "host":
		c.Board = "host"
	default:
		return c, false
	}
	return c, true
}

// Banner returns the lines written to the console at startup.
func (c *Config) Banner() []string {
	m := &c.Messages
	return []string{
		"",
		"",
		m.Product + " " + m.Product2,
		m.SoftwarePrefix + m.Version,
		m.Copyright,
		m.Initializing,
	}
}

// SplashLines returns the LCD boot screen, one entry per row.
func (c *Config) SplashLines() []string {
	m := &c.Messages
	return []string{m.Product, m.Product2, m.SoftwarePrefix + m.Version, m.Initializing}
}

// TickPeriodMS is the sampling period, never below 1 ms.
func (c *Config) TickPeriodMS() int { return max(c.Input.TickMS, 1) }

// LogLines is the monitor log depth, at least one LCD page.
func (c *Config) LogLines() int {
	return mathx.Clamp(c.Bridge.MonitorLogLines, max(c.LCD.Rows-1, 1), 256)
}

// BurstBytes is the per-endpoint read budget of one pump, bounded by the queue.
func (c *Config) BurstBytes() int { return mathx.Clamp(c.Bridge.Burst, 1, c.Bridge.QueueSize) }

const maxPin = 28

// Validate checks the invariants every component relies on.
func (c *Config) Validate() error {
	const op = "config.validate"

	type named struct {
		name string
		pin  int
	}
	p := &c.Pins
	pins := []named{
		{"lcd_en", p.LCDEnable}, {"lcd_rs", p.LCDRegSelect}, {"lcd_bl", p.LCDBacklight},
		{"uart0_tx", p.UART0TX}, {"uart0_rx", p.UART0RX}, {"uart1_tx", p.UART1TX}, {"uart1_rx", p.UART1RX},
		{"jp2", p.Jumpers[0]}, {"jp3", p.Jumpers[1]},
	}
	for i, n := range p.LCDData {
		pins = append(pins, named{"lcd_db" + itoa(i), n})
	}
	for i, n := range p.Buttons {
		pins = append(pins, named{"pb" + itoa(i), n})
	}
	seen := make(map[int]string, len(pins))
	for _, n := range pins {
		if n.pin < 0 || n.pin > maxPin {
			return errcode.Wrap(errcode.UnknownPin, op, n.name+"="+itoa(n.pin), nil)
		}
		if other, dup := seen[n.pin]; dup {
			return errcode.Wrap(errcode.PinInUse, op, "gp"+itoa(n.pin)+" used by "+other+" and "+n.name, nil)
		}
		seen[n.pin] = n.name
	}

	for _, ep := range types.Endpoints {
		pc := c.Ports.For(ep)
		if pc.Baud == 0 {
			return errcode.Wrap(errcode.InvalidConfig, op, ep.String()+": baud must be > 0", nil)
		}
		if pc.DataBits < 5 || pc.DataBits > 8 {
			return errcode.Wrap(errcode.InvalidConfig, op, ep.String()+": data bits must be 5..8", nil)
		}
		if pc.StopBits < 1 || pc.StopBits > 2 {
			return errcode.Wrap(errcode.InvalidConfig, op, ep.String()+": stop bits must be 1 or 2", nil)
		}
		if !pc.Parity.Valid() {
			return errcode.Wrap(errcode.InvalidConfig, op, ep.String()+": parity must be none, even or odd", nil)
		}
	}

	if c.Input.TickMS < 1 || c.Input.Debounce < 1 {
		return errcode.Wrap(errcode.InvalidConfig, op, "input tick and debounce must be >= 1", nil)
	}
	if c.Mode.StableSamples < 1 {
		return errcode.Wrap(errcode.InvalidConfig, op, "stable_samples must be >= 1", nil)
	}
	for i, m := range c.Mode.JumperModes {
		if !m.Valid() {
			return errcode.Wrap(errcode.InvalidMode, op, "jumper pattern "+itoa(i), nil)
		}
	}

	for _, m := range [...]types.Mode{types.ModeIdle, types.ModePassthrough, types.ModeMonitor, types.ModeLoopback} {
		for i, a := range c.Mode.Buttons.For(m) {
			if !a.Valid() {
				return errcode.Wrap(errcode.InvalidConfig, op, m.String()+" pb"+itoa(i)+": unknown button action", nil)
			}
		}
	}

	q := c.Bridge.QueueSize
	if q < 2 || !mathx.IsPow2(q) {
		return errcode.Wrap(errcode.InvalidConfig, op, "queue_size must be a power of two >= 2", nil)
	}
	if c.Bridge.Burst < 1 {
		return errcode.Wrap(errcode.InvalidConfig, op, "burst must be >= 1", nil)
	}

	switch c.LCD.Rows {
	case 1, 2, 4:
	default:
		return errcode.Wrap(errcode.InvalidConfig, op, "lcd rows must be 1, 2 or 4", nil)
	}
	if !mathx.Between(c.LCD.Cols, 8, 40) {
		return errcode.Wrap(errcode.InvalidConfig, op, "lcd cols must be 8..40", nil)
	}
	if c.Shell.StatusEvery < 0 {
		return errcode.Wrap(errcode.InvalidConfig, op, "status_every must be >= 0", nil)
	}
	return nil
}

func itoa(n int) string { return conv.Itoa(n) }
