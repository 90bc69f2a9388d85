// Package input samples the jumper and pushbutton GPIOs once per tick and
// debounces them.
package input

import (
	"miniconsole-go/config"
	"miniconsole-go/errcode"
	"miniconsole-go/platform"
	"miniconsole-go/x/conv"
	"miniconsole-go/x/logx"
)

const (
	NumJumpers = 2
	NumButtons = 6
)

// Snapshot is the debounced input state after one tick. Edge masks carry
// one bit per pin (bit i = jumper/button i) and report each flip once.
type Snapshot struct {
	Tick          int64
	Jumpers       [NumJumpers]bool // true = fitted
	Buttons       [NumButtons]bool // true = pressed
	JumperChanged uint8
	Pressed       uint8
	Released      uint8
}

// JumperPattern packs the jumpers: bit0 = JP2 fitted, bit1 = JP3 fitted.
func (s Snapshot) JumperPattern() int {
	p := 0
	for i, on := range s.Jumpers {
		if on {
			p |= 1 << i
		}
	}
	return p
}

// Debouncer is a counter debounce for one pin. The reported state flips only
// after the raw level has disagreed with it for k consecutive updates.
type Debouncer struct {
	k     int
	state bool
	count int
}

func NewDebouncer(k int) Debouncer {
	if k < 1 {
		k = 1
	}
	return Debouncer{k: k}
}

// Update feeds one raw sample and reports whether the state flipped.
func (d *Debouncer) Update(raw bool) (state, changed bool) {
	if raw == d.state {
		d.count = 0
		return d.state, false
	}
	d.count++
	if d.count < d.k {
		return d.state, false
	}
	d.state = raw
	d.count = 0
	return d.state, true
}

func (d *Debouncer) State() bool { return d.state }

// Sampler owns the eight input pins.
type Sampler struct {
	activeLow bool
	jumpers   [NumJumpers]platform.GPIOPin
	buttons   [NumButtons]platform.GPIOPin
	jdeb      [NumJumpers]Debouncer
	bdeb      [NumButtons]Debouncer
	tick      int64
}

// New configures the inputs as pulled-up (or floating) GPIO inputs.
func New(cfg *config.Config, pins platform.PinFactory) (*Sampler, error) {
	const op = "input.new"
	pull := platform.PullNone
	if cfg.Input.PullUp {
		pull = platform.PullUp
	}
	s := &Sampler{activeLow: cfg.Input.ActiveLow}

	open := func(n int) (platform.GPIOPin, error) {
		p, ok := pins.ByNumber(n)
		if !ok {
			return nil, errcode.Wrap(errcode.UnknownPin, op, "gp"+itoa(n), nil)
		}
		if err := p.ConfigureInput(pull); err != nil {
			return nil, errcode.Wrap(errcode.Error, op, "gp"+itoa(n), err)
		}
		return p, nil
	}
	for i, n := range cfg.Pins.Jumpers {
		p, err := open(n)
		if err != nil {
			return nil, err
		}
		s.jumpers[i] = p
		s.jdeb[i] = NewDebouncer(cfg.Input.Debounce)
	}
	for i, n := range cfg.Pins.Buttons {
		p, err := open(n)
		if err != nil {
			return nil, err
		}
		s.buttons[i] = p
		s.bdeb[i] = NewDebouncer(cfg.Input.Debounce)
	}
	return s, nil
}

func (s *Sampler) active(p platform.GPIOPin) bool { return p.Get() != s.activeLow }

// Sample reads every pin once and returns the debounced state.
func (s *Sampler) Sample() Snapshot {
	s.tick++
	snap := Snapshot{Tick: s.tick}
	for i, p := range s.jumpers {
		st, changed := s.jdeb[i].Update(s.active(p))
		snap.Jumpers[i] = st
		if changed {
			snap.JumperChanged |= 1 << i
			logx.Debug(logx.Input, "jumper", "index", i, "fitted", st)
		}
	}
	for i, p := range s.buttons {
		st, changed := s.bdeb[i].Update(s.active(p))
		snap.Buttons[i] = st
		if !changed {
			continue
		}
		if st {
			snap.Pressed |= 1 << i
		} else {
			snap.Released |= 1 << i
		}
		logx.Debug(logx.Input, "button", "index", i, "pressed", st)
	}
	return snap
}

func itoa(n int) string { return conv.Itoa(n) }
