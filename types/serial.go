package types

import "strings"

// ------------------------
// Serial
// ------------------------

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

func (p Parity) String() string {
	switch p {
	case ParityEven:
		return "even"
	case ParityOdd:
		return "odd"
	case ParityNone:
		return "none"
	}
	return "invalid"
}

func (p Parity) Valid() bool { return p <= ParityOdd }

// UnmarshalYAML accepts "none", "even" or "odd".
func (p *Parity) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	switch {
	case strings.EqualFold(s, "none"):
		*p = ParityNone
	case strings.EqualFold(s, "even"):
		*p = ParityEven
	case strings.EqualFold(s, "odd"):
		*p = ParityOdd
	default:
		// Kept as an invalid value so Validate can name it.
		*p = ParityOdd + 1
	}
	return nil
}

// PortStats are the per-endpoint bridge counters.
type PortStats struct {
	RxBytes    uint32 `json:"rx_bytes"`    // read from the peripheral
	TxBytes    uint32 `json:"tx_bytes"`    // accepted by the peripheral
	Overruns   uint32 `json:"overruns"`    // bytes dropped because the outbound queue was full
	LineErrors uint32 `json:"line_errors"` // framing/parity errors (byte discarded by the peripheral)
	Discarded  uint32 `json:"discarded"`   // inbound bytes with no route in the current mode
	Flushed    uint32 `json:"flushed"`     // queued bytes dropped by a routing change
	Queued     int    `json:"queued"`      // bytes waiting in the outbound queue
}
