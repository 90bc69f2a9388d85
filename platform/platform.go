// Package platform abstracts the console's peripherals: GPIO pins, byte
// stream ports and the watchdog. RP2 builds back them with machine and
// uartx; host builds with OS serial ports, stdio and in-memory fakes.
package platform

// ---- GPIO abstractions ----

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by Pico GP number.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// ---------------- Stream abstractions ----------------

// Port is a non-blocking byte stream. Both calls return immediately with the
// number of bytes moved; 0 means "nothing now".
type Port interface {
	TryRead(p []byte) int
	TryWrite(p []byte) int
}

// LineErrorCounter is implemented by ports whose peripheral detects framing
// and parity errors. The count is cumulative; errored bytes never reach
// TryRead.
type LineErrorCounter interface {
	LineErrors() uint32
}

// BaudSetter is implemented by ports whose rate can change at runtime.
type BaudSetter interface {
	SetBaudRate(br uint32)
}

// Watchdog resets the device unless Update is called within its timeout.
type Watchdog interface {
	Update()
}
