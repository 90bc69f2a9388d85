//go:build !rp2040 && !rp2350

package platform

import (
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"miniconsole-go/config"
	"miniconsole-go/errcode"
	"miniconsole-go/types"
)

// Bounded read so the reader goroutine notices Close.
const serialReadTimeout = 100 * time.Millisecond

// OpenSerial opens an OS serial device as a Port.
func OpenSerial(path string, pc config.PortConfig) (*StreamPort, error) {
	const op = "platform.open_serial"
	p, err := serial.Open(path, SerialMode(pc))
	if err != nil {
		return nil, errcode.Wrap(errcode.PortOpenFailed, op, path, err)
	}
	if err := p.SetReadTimeout(serialReadTimeout); err != nil {
		_ = p.Close()
		return nil, errcode.Wrap(errcode.PortOpenFailed, op, path, err)
	}
	s := NewStreamPort(p, p, 4096)
	s.closer = p
	return s, nil
}

// SerialMode maps a port configuration to go.bug.st/serial settings.
func SerialMode(pc config.PortConfig) *serial.Mode {
	m := &serial.Mode{
		BaudRate: int(pc.Baud),
		DataBits: int(pc.DataBits),
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch pc.Parity {
	case types.ParityEven:
		m.Parity = serial.EvenParity
	case types.ParityOdd:
		m.Parity = serial.OddParity
	}
	if pc.StopBits == 2 {
		m.StopBits = serial.TwoStopBits
	}
	return m
}

// PortInfo describes one OS serial device.
type PortInfo struct {
	Name         string
	USB          bool
	VID, PID     string
	SerialNumber string
}

// ListSerialPorts returns the serial devices the OS knows about, with USB
// details when the enumerator can provide them.
func ListSerialPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err == nil {
		out := make([]PortInfo, 0, len(details))
		for _, d := range details {
			out = append(out, PortInfo{Name: d.Name, USB: d.IsUSB, VID: d.VID, PID: d.PID, SerialNumber: d.SerialNumber})
		}
		return out, nil
	}
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, "platform.list_serial", "", err)
	}
	out := make([]PortInfo, 0, len(names))
	for _, n := range names {
		out = append(out, PortInfo{Name: n})
	}
	return out, nil
}
