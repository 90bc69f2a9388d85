//go:build !rp2040 && !rp2350

package platform

import (
	"bytes"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"go.bug.st/serial"

	"miniconsole-go/config"
	"miniconsole-go/types"
)

func TestHostPinFactory_StablePins(t *testing.T) {
	f := &HostPinFactory{}
	a, ok := f.ByNumber(16)
	if !ok {
		t.Fatal("pin 16 should exist")
	}
	b, _ := f.ByNumber(16)
	if a != b {
		t.Fatal("factory must return the same pin instance")
	}
	if _, ok := f.ByNumber(29); ok {
		t.Fatal("pin 29 should not exist")
	}
	if _, ok := f.ByNumber(-1); ok {
		t.Fatal("negative pin should not exist")
	}
}

func TestFakePin_PullUpFloatsHigh(t *testing.T) {
	f := &HostPinFactory{}
	p, _ := f.ByNumber(17)
	if err := p.ConfigureInput(PullUp); err != nil {
		t.Fatal(err)
	}
	if !p.Get() {
		t.Fatal("pulled-up input should read high")
	}
	if f.Get(17).Pull() != PullUp {
		t.Fatalf("pull = %v", f.Get(17).Pull())
	}
	f.Get(17).Set(false)
	if p.Get() {
		t.Fatal("Set(false) should pull the input low")
	}
	if err := p.ConfigureOutput(true); err != nil {
		t.Fatal(err)
	}
	if !f.Get(17).IsOutput() || !p.Get() {
		t.Fatal("output should be high after ConfigureOutput(true)")
	}
}

func TestFakePort_ReadWriteLimits(t *testing.T) {
	p := NewFakePort()
	p.Inject([]byte("hello"))
	buf := make([]byte, 3)
	if n := p.TryRead(buf); n != 3 || string(buf) != "hel" {
		t.Fatalf("TryRead = %d %q", n, buf[:n])
	}
	if p.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", p.Pending())
	}

	p.SetWriteLimit(2)
	if n := p.TryWrite([]byte("abcd")); n != 2 {
		t.Fatalf("limited TryWrite = %d, want 2", n)
	}
	p.SetWriteLimit(0)
	if n := p.TryWrite([]byte("x")); n != 0 {
		t.Fatalf("stalled TryWrite = %d, want 0", n)
	}
	p.SetWriteLimit(-1)
	p.TryWrite([]byte("cd"))
	if got := string(p.TakeOutput()); got != "abcd" {
		t.Fatalf("output = %q", got)
	}
	if len(p.Output()) != 0 {
		t.Fatal("TakeOutput should clear")
	}

	p.AddLineErrors(3)
	var lc LineErrorCounter = p
	if lc.LineErrors() != 3 {
		t.Fatalf("LineErrors = %d", lc.LineErrors())
	}
}

func TestCountingWatchdog(t *testing.T) {
	w := &CountingWatchdog{}
	var wd Watchdog = w
	wd.Update()
	wd.Update()
	if w.Updates() != 2 {
		t.Fatalf("Updates = %d", w.Updates())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStreamPort_RoundTrip(t *testing.T) {
	local, remote := net.Pipe()
	defer remote.Close()
	s := NewStreamPort(local, local, 256)
	defer s.Close()

	go func() { _, _ = remote.Write([]byte("ping")) }()
	var got []byte
	buf := make([]byte, 16)
	waitFor(t, func() bool {
		got = append(got, buf[:s.TryRead(buf)]...)
		return len(got) == 4
	})
	if string(got) != "ping" {
		t.Fatalf("rx = %q", got)
	}

	if n := s.TryWrite([]byte("pong")); n != 4 {
		t.Fatalf("TryWrite = %d", n)
	}
	out := make([]byte, 4)
	_ = remote.SetReadDeadline(time.Now().Add(time.Second))
	if _, err := io.ReadFull(remote, out); err != nil {
		t.Fatal(err)
	}
	if string(out) != "pong" {
		t.Fatalf("tx = %q", out)
	}
}

func TestStreamPort_OverflowCountsDropped(t *testing.T) {
	r := bytes.NewReader(bytes.Repeat([]byte{'x'}, 300))
	s := NewStreamPort(r, io.Discard, 256)
	defer s.Close()

	waitFor(t, func() bool { return errors.Is(s.Err(), io.EOF) })
	if s.Dropped() != 44 {
		t.Fatalf("Dropped = %d, want 44", s.Dropped())
	}
	buf := make([]byte, 512)
	if n := s.TryRead(buf); n != 256 {
		t.Fatalf("TryRead = %d, want 256", n)
	}
}

func TestSerialMode(t *testing.T) {
	m := SerialMode(config.PortConfig{Baud: 9600, DataBits: 7, StopBits: 2, Parity: types.ParityEven})
	if m.BaudRate != 9600 || m.DataBits != 7 {
		t.Fatalf("mode = %+v", m)
	}
	if m.Parity != serial.EvenParity || m.StopBits != serial.TwoStopBits {
		t.Fatalf("mode = %+v", m)
	}
	m = SerialMode(config.PortConfig{Baud: 38400, DataBits: 8, StopBits: 1, Parity: types.ParityOdd})
	if m.Parity != serial.OddParity || m.StopBits != serial.OneStopBit {
		t.Fatalf("mode = %+v", m)
	}
}
