package types

import "strings"

// ------------------------
// Endpoints
// ------------------------

// Endpoint names one of the three byte streams the console bridges.
type Endpoint uint8

const (
	Console Endpoint = iota // USB CDC, host facing
	UARTA                   // serial port 0 (TTL)
	UARTB                   // serial port 1 (RS232C)

	NumEndpoints = 3
)

// Endpoints lists every endpoint in pump order.
var Endpoints = [NumEndpoints]Endpoint{Console, UARTA, UARTB}

func (e Endpoint) String() string {
	switch e {
	case Console:
		return "console"
	case UARTA:
		return "uart_a"
	case UARTB:
		return "uart_b"
	default:
		return "unknown"
	}
}

// Valid reports whether e names a real endpoint.
func (e Endpoint) Valid() bool { return e < NumEndpoints }

// ------------------------
// Operation modes
// ------------------------

// Mode is the operation mode selected by the JP2/JP3 jumpers.
type Mode uint8

const (
	ModeIdle Mode = iota
	ModePassthrough
	ModeMonitor
	ModeLoopback

	NumModes = 4
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModePassthrough:
		return "Passthrough"
	case ModeMonitor:
		return "Monitor"
	case ModeLoopback:
		return "Loopback"
	default:
		return "Invalid"
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool { return m < NumModes }

// ParseMode accepts the String() form, case-insensitively.
func ParseMode(s string) (Mode, bool) {
	for m := Mode(0); m < NumModes; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return ModeIdle, false
}

// UnmarshalYAML lets configuration files name modes.
func (m *Mode) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, ok := ParseMode(s)
	if !ok {
		// Kept as an invalid value so Validate can name it.
		*m = NumModes
		return nil
	}
	*m = v
	return nil
}

// ------------------------
// Button actions
// ------------------------

// Action is what a pushbutton does in a given mode.
type Action uint8

const (
	ActionNone Action = iota
	ActionPageUp
	ActionPageDown
	ActionClearLog
	ActionResetStats
	ActionNextMode

	NumActions = 6
)

var actionNames = [...]string{"none", "page_up", "page_down", "clear_log", "reset_stats", "next_mode"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

func (a Action) Valid() bool { return a < NumActions }

// UnmarshalYAML accepts the String() form.
func (a *Action) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	for i, n := range actionNames {
		if strings.EqualFold(s, n) {
			*a = Action(i)
			return nil
		}
	}
	// Kept as an invalid value so Validate can name it.
	*a = NumActions
	return nil
}
