// platform/factories_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"github.com/jangala-dev/tinygo-uartx/uartx"

	"miniconsole-go/config"
	"miniconsole-go/errcode"
	"miniconsole-go/types"
)

// -----------------------------------------------------------------------------
// Defaults used on Raspberry Pi Pico / Pico 2 (RP2 family)
// -----------------------------------------------------------------------------

// DefaultPinFactory maps logical numbers directly to machine.Pin(n).
// This matches Pico/Pico 2 GP numbering.
func DefaultPinFactory() PinFactory { return rp2PinFactory{} }

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (GPIOPin, bool) {
	// Constrain to RP2's user GPIOs (GP0..GP28).
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }

// ---- UART ports (uartx) ----

// UARTPort adapts an interrupt-driven uartx UART to Port.
type UARTPort struct{ u *uartx.UART }

// OpenUART configures UART0 for UART-A or UART1 for UART-B.
func OpenUART(ep types.Endpoint, pc config.PortConfig, tx, rx int) (*UARTPort, error) {
	const op = "platform.open_uart"
	var hw *uartx.UART
	switch ep {
	case types.UARTA:
		hw = uartx.UART0
	case types.UARTB:
		hw = uartx.UART1
	default:
		return nil, errcode.Wrap(errcode.UnknownEndpoint, op, ep.String(), nil)
	}
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: pc.Baud,
		TX:       machine.Pin(tx),
		RX:       machine.Pin(rx),
	}); err != nil {
		return nil, errcode.Wrap(errcode.PortOpenFailed, op, ep.String(), err)
	}
	var par uartx.UARTParity
	switch pc.Parity {
	case types.ParityEven:
		par = uartx.ParityEven
	case types.ParityOdd:
		par = uartx.ParityOdd
	default:
		par = uartx.ParityNone
	}
	if err := hw.SetFormat(pc.DataBits, pc.StopBits, par); err != nil {
		return nil, errcode.Wrap(errcode.PortOpenFailed, op, ep.String()+" format", err)
	}
	return &UARTPort{u: hw}, nil
}

func (p *UARTPort) TryRead(b []byte) int  { return p.u.TryRead(b) }
func (p *UARTPort) TryWrite(b []byte) int { return p.u.TryWrite(b) }
func (p *UARTPort) SetBaudRate(br uint32) { p.u.SetBaudRate(br) }

// LineErrors reports framing+parity errors counted by the ISR. The counters
// are only live in uartxdebug builds; otherwise they read zero.
func (p *UARTPort) LineErrors() uint32 {
	s := p.u.DebugStats()
	return s.ErrFraming + s.ErrParity
}

// ---- USB CDC console ----

// USBConsole adapts machine.Serial (USB CDC on the Pico) to Port.
type USBConsole struct{ s machine.Serialer }

func NewUSBConsole() *USBConsole { return &USBConsole{s: machine.Serial} }

func (c *USBConsole) TryRead(p []byte) int {
	n := 0
	for n < len(p) && c.s.Buffered() > 0 {
		b, err := c.s.ReadByte()
		if err != nil {
			break
		}
		p[n] = b
		n++
	}
	return n
}

// TryWrite discards output while no terminal holds the port open, so an
// unattended console never backs up the bridge.
func (c *USBConsole) TryWrite(p []byte) int {
	if !c.s.DTR() {
		return len(p)
	}
	n, _ := c.s.Write(p)
	return n
}

// ---- Watchdog ----

type rp2Watchdog struct{}

// StartWatchdog arms the hardware watchdog. timeoutMS == 0 returns nil.
func StartWatchdog(timeoutMS uint32) (Watchdog, error) {
	if timeoutMS == 0 {
		return nil, nil
	}
	if err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: timeoutMS}); err != nil {
		return nil, err
	}
	if err := machine.Watchdog.Start(); err != nil {
		return nil, err
	}
	return rp2Watchdog{}, nil
}

func (rp2Watchdog) Update() { machine.Watchdog.Update() }
