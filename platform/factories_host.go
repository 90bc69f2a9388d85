// platform/factories_host.go
//go:build !rp2040 && !rp2350

package platform

import "sync"

// ----------------------------- GPIO (host) -----------------------------------

// FakePin implements GPIOPin for host runs and tests. Input pins float high
// when configured with a pull-up, mirroring the real board.
type FakePin struct {
	mu      sync.RWMutex
	number  int
	level   bool
	modeOut bool
	pull    Pull
}

func (p *FakePin) ConfigureInput(pull Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	if pull == PullUp {
		p.level = true
	}
	p.mu.Unlock()
	return nil
}

func (p *FakePin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *FakePin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *FakePin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *FakePin) Number() int { return p.number }

// IsOutput reports whether the pin was last configured as an output.
func (p *FakePin) IsOutput() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.modeOut
}

// Pull returns the bias last requested by ConfigureInput.
func (p *FakePin) Pull() Pull {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pull
}

// HostPinFactory returns stable *FakePin instances per number.
type HostPinFactory struct {
	mu   sync.Mutex
	pins map[int]*FakePin
}

func (f *HostPinFactory) ByNumber(n int) (GPIOPin, bool) {
	if n < 0 || n > 28 {
		return nil, false
	}
	return f.pin(n), true
}

func (f *HostPinFactory) pin(n int) *FakePin {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pins == nil {
		f.pins = make(map[int]*FakePin)
	}
	p, ok := f.pins[n]
	if !ok {
		p = &FakePin{number: n}
		f.pins[n] = p
	}
	return p
}

// Get exposes the underlying *FakePin for tests (e.g. to drive input levels).
func (f *HostPinFactory) Get(n int) *FakePin { return f.pin(n) }

// ----------------------------- Ports (host) ----------------------------------

// FakePort is an in-memory Port. Tests inject inbound bytes, cap how much a
// single TryWrite accepts, and add line errors as the peripheral would.
type FakePort struct {
	mu         sync.Mutex
	rx         []byte
	tx         []byte
	writeLimit int // <0 unlimited
	lineErrs   uint32
	baud       uint32
}

func NewFakePort() *FakePort { return &FakePort{writeLimit: -1} }

// Inject queues bytes as if they arrived on the wire.
func (f *FakePort) Inject(p []byte) {
	f.mu.Lock()
	f.rx = append(f.rx, p...)
	f.mu.Unlock()
}

// AddLineErrors records n errored bytes (dropped before TryRead).
func (f *FakePort) AddLineErrors(n uint32) {
	f.mu.Lock()
	f.lineErrs += n
	f.mu.Unlock()
}

// SetWriteLimit caps each TryWrite; 0 stalls the port, <0 removes the cap.
func (f *FakePort) SetWriteLimit(n int) {
	f.mu.Lock()
	f.writeLimit = n
	f.mu.Unlock()
}

// Output returns everything written so far.
func (f *FakePort) Output() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.tx...)
}

// TakeOutput returns and clears the written bytes.
func (f *FakePort) TakeOutput() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.tx
	f.tx = nil
	return out
}

// Pending is the number of injected bytes not yet read.
func (f *FakePort) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rx)
}

func (f *FakePort) TryRead(p []byte) int {
	f.mu.Lock()
	n := copy(p, f.rx)
	f.rx = f.rx[n:]
	f.mu.Unlock()
	return n
}

func (f *FakePort) TryWrite(p []byte) int {
	f.mu.Lock()
	n := len(p)
	if f.writeLimit >= 0 && n > f.writeLimit {
		n = f.writeLimit
	}
	f.tx = append(f.tx, p[:n]...)
	f.mu.Unlock()
	return n
}

func (f *FakePort) SetBaudRate(br uint32) {
	f.mu.Lock()
	f.baud = br
	f.mu.Unlock()
}

// Baud is the last rate set through SetBaudRate.
func (f *FakePort) Baud() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.baud
}

func (f *FakePort) LineErrors() uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lineErrs
}

// ---- Watchdog (host) ----

// CountingWatchdog records Update calls.
type CountingWatchdog struct {
	mu      sync.Mutex
	updates int
}

func (w *CountingWatchdog) Update() {
	w.mu.Lock()
	w.updates++
	w.mu.Unlock()
}

func (w *CountingWatchdog) Updates() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.updates
}
