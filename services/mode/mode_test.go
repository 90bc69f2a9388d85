package mode

import (
	"testing"
	"time"

	"miniconsole-go/bus"
	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/platform"
	"miniconsole-go/services/bridge"
	"miniconsole-go/services/input"
	"miniconsole-go/types"
)

type rig struct {
	cfg     config.Config
	br      *bridge.Bridge
	c       *Controller
	console *platform.FakePort
	a       *platform.FakePort
	b       *platform.FakePort
	conn    *bus.Connection
	changes []types.ModeChange
	tick    int64
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		cfg:     config.Default(),
		console: platform.NewFakePort(),
		a:       platform.NewFakePort(),
		b:       platform.NewFakePort(),
	}
	r.br = bridge.New(&r.cfg, map[types.Endpoint]platform.Port{
		types.Console: r.console, types.UARTA: r.a, types.UARTB: r.b,
	})
	r.conn = bus.NewBus(8).NewConnection("test")
	r.c = New(&r.cfg, r.br, r.conn)
	r.c.OnChange(func(ev types.ModeChange) { r.changes = append(r.changes, ev) })
	return r
}

// step feeds one snapshot with the given jumper pattern and pressed mask.
func (r *rig) step(pattern int, pressed uint8) {
	r.tick++
	s := input.Snapshot{Tick: r.tick, Pressed: pressed}
	s.Jumpers[0] = pattern&1 != 0
	s.Jumpers[1] = pattern&2 != 0
	r.c.Step(s)
}

func TestStep_RequiresStableSamples(t *testing.T) {
	r := newRig(t)
	r.step(2, 0)
	r.step(2, 0)
	if r.c.Mode() != types.ModeIdle {
		t.Fatalf("mode changed after 2 samples: %v", r.c.Mode())
	}
	r.step(2, 0)
	if r.c.Mode() != types.ModeMonitor {
		t.Fatalf("mode = %v, want Monitor", r.c.Mode())
	}
	if len(r.changes) != 1 || r.changes[0].From != types.ModeIdle || r.changes[0].To != types.ModeMonitor {
		t.Fatalf("changes = %+v", r.changes)
	}
	if r.changes[0].Tick != 3 || r.changes[0].Manual {
		t.Fatalf("change = %+v", r.changes[0])
	}
	if !r.br.Routes().Has(types.UARTA, types.Console) {
		t.Fatal("bridge routes not switched")
	}
}

func TestStep_GlitchRestartsCount(t *testing.T) {
	r := newRig(t)
	for _, p := range []int{1, 1, 0, 1, 1} {
		r.step(p, 0)
	}
	if r.c.Mode() != types.ModeIdle {
		t.Fatalf("mode = %v after glitch", r.c.Mode())
	}
	r.step(1, 0)
	if r.c.Mode() != types.ModePassthrough {
		t.Fatalf("mode = %v, want Passthrough", r.c.Mode())
	}
	// a pattern still settling keeps the active mode rather than Idle
	r.step(2, 0)
	r.step(2, 0)
	if r.c.Mode() != types.ModePassthrough {
		t.Fatalf("mode = %v while settling, want Passthrough", r.c.Mode())
	}
	r.step(2, 0)
	if r.c.Mode() != types.ModeMonitor {
		t.Fatalf("mode = %v, want Monitor", r.c.Mode())
	}
}

func TestStep_InvalidPatternIsIdle(t *testing.T) {
	r := newRig(t)
	r.cfg.Mode.JumperModes[3] = types.NumModes
	for i := 0; i < 3; i++ {
		r.step(1, 0)
	}
	for i := 0; i < 3; i++ {
		r.step(3, 0)
	}
	if r.c.Mode() != types.ModeIdle {
		t.Fatalf("mode = %v, want Idle", r.c.Mode())
	}
	if got := r.c.ModeFor(9); got != types.ModeIdle {
		t.Fatalf("ModeFor(9) = %v", got)
	}
}

func TestStep_PublishesRetainedMode(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 3; i++ {
		r.step(3, 0)
	}
	sub := r.conn.Subscribe(bus.T(types.TopicConsole, types.TopicMode))
	select {
	case m := <-sub.Channel():
		ev, ok := m.Payload.(types.ModeChange)
		if !ok || ev.To != types.ModeLoopback {
			t.Fatalf("payload = %#v", m.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no retained mode message")
	}
}

func TestMonitor_MirrorsReadOnly(t *testing.T) {
	r := newRig(t)
	for i := 0; i < 3; i++ {
		r.step(2, 0)
	}
	r.a.Inject([]byte("hello\n"))
	r.console.Inject([]byte("typed"))
	r.br.Pump()

	if got := string(r.console.Output()); got != "hello\n" {
		t.Fatalf("console = %q", got)
	}
	if len(r.a.Output()) != 0 || len(r.b.Output()) != 0 {
		t.Fatal("console keystrokes reached a UART")
	}
	if got := r.c.Log().Lines(); len(got) != 1 || got[0] != "A>hello" {
		t.Fatalf("log = %q", got)
	}
}

func TestButtons_PerModeActions(t *testing.T) {
	r := newRig(t)
	// idle: default table is empty
	r.a.Inject([]byte("x"))
	r.br.Pump()
	r.step(0, 1<<5)
	if r.br.Stats(types.UARTA).Discarded != 1 {
		t.Fatal("idle must ignore buttons")
	}

	for i := 0; i < 3; i++ {
		r.step(2, 0)
	}
	for i := 0; i < 10; i++ {
		r.a.Inject([]byte("line\n"))
		r.br.Pump()
	}
	r.step(2, 1<<0) // PB0 page up
	if r.c.Log().Offset() != 3 {
		t.Fatalf("offset after page up = %d", r.c.Log().Offset())
	}
	r.step(2, 1<<1) // PB1 page down
	if r.c.Log().Offset() != 0 {
		t.Fatalf("offset after page down = %d", r.c.Log().Offset())
	}
	r.step(2, 1<<2) // PB2 clear
	if len(r.c.Log().Lines()) != 0 {
		t.Fatal("log not cleared")
	}
	r.step(2, 1<<5) // PB5 reset stats
	if s := r.br.Stats(types.UARTA); s.RxBytes != 0 {
		t.Fatalf("stats not reset: %+v", s)
	}
}

func TestButtons_NextModeHeldUntilJumpersChange(t *testing.T) {
	r := newRig(t)
	r.cfg.Mode.Buttons.Idle[4] = types.ActionNextMode
	r.cfg.Mode.Buttons.Passthrough[4] = types.ActionNextMode
	for i := 0; i < 3; i++ {
		r.step(0, 0)
	}
	r.step(0, 1<<4)
	if r.c.Mode() != types.ModePassthrough || !r.c.Manual() {
		t.Fatalf("mode = %v manual=%v", r.c.Mode(), r.c.Manual())
	}
	for i := 0; i < 10; i++ {
		r.step(0, 0)
	}
	if r.c.Mode() != types.ModePassthrough {
		t.Fatal("override lost while jumpers unchanged")
	}
	if last := r.changes[len(r.changes)-1]; !last.Manual {
		t.Fatal("override change must be flagged manual")
	}
	for i := 0; i < 3; i++ {
		r.step(3, 0)
	}
	if r.c.Mode() != types.ModeLoopback || r.c.Manual() {
		t.Fatalf("jumper change should end the override: %v manual=%v", r.c.Mode(), r.c.Manual())
	}
}

type nopController struct{}

func (nopController) SetCursor(int, int)          {}
func (nopController) Write(p []byte) (int, error) { return len(p), nil }
func (nopController) Clear()                      {}

func TestRender(t *testing.T) {
	r := newRig(t)
	d := lcd.New(nopController{}, 20, 4)

	r.c.Render(d)
	if got := d.Line(0); got != "Mode: Idle          " {
		t.Fatalf("row 0 = %q", got)
	}
	if got := d.Line(1); got != "A rx0 tx0           " {
		t.Fatalf("row 1 = %q", got)
	}

	for i := 0; i < 3; i++ {
		r.step(2, 0)
	}
	r.a.Inject([]byte("one\ntwo\n"))
	r.b.Inject([]byte("three"))
	r.br.Pump()
	r.c.Render(d)
	want := []string{"Mode: Monitor", "A>one", "A>two", "B>three"}
	for i, w := range want {
		if got := d.Line(i); got[:len(w)] != w {
			t.Fatalf("row %d = %q, want prefix %q", i, got, w)
		}
	}
}
