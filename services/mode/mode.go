// Package mode selects the operation mode from the JP2/JP3 jumpers, applies
// it to the bridge, and handles the pushbuttons.
package mode

import (
	"miniconsole-go/bus"
	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/services/bridge"
	"miniconsole-go/services/input"
	"miniconsole-go/types"
	"miniconsole-go/x/conv"
	"miniconsole-go/x/logx"
)

// Controller is stepped once per tick, before the bridge pump, so a new
// routing table is in force for that tick's traffic.
type Controller struct {
	cfg  *config.Config
	br   *bridge.Bridge
	conn *bus.Connection
	log  *MonitorLog

	mode    types.Mode
	manual  bool
	pattern int // last applied jumper pattern, -1 before the first
	cand    int
	seen    int
	tick    int64

	onChange func(types.ModeChange)
}

// New starts in Idle with an empty routing table. conn may be nil.
func New(cfg *config.Config, br *bridge.Bridge, conn *bus.Connection) *Controller {
	c := &Controller{
		cfg:     cfg,
		br:      br,
		conn:    conn,
		log:     NewMonitorLog(cfg.LogLines(), cfg.LCD.Cols),
		mode:    types.ModeIdle,
		pattern: -1,
		cand:    -1,
	}
	br.SetRoutes(bridge.RoutesFor(types.ModeIdle))
	br.SetTap(c.log.Feed)
	return c
}

// OnChange registers a hook called after every transition.
func (c *Controller) OnChange(fn func(types.ModeChange)) { c.onChange = fn }

func (c *Controller) Mode() types.Mode { return c.mode }

// Manual reports whether a button override is in force.
func (c *Controller) Manual() bool { return c.manual }

func (c *Controller) Log() *MonitorLog { return c.log }

// ModeFor maps a jumper pattern through the configured table. Anything
// unknown is Idle.
func (c *Controller) ModeFor(pattern int) types.Mode {
	if pattern < 0 || pattern >= len(c.cfg.Mode.JumperModes) {
		return types.ModeIdle
	}
	m := c.cfg.Mode.JumperModes[pattern]
	if !m.Valid() {
		return types.ModeIdle
	}
	return m
}

// Step consumes one input snapshot.
func (c *Controller) Step(s input.Snapshot) {
	c.tick = s.Tick
	c.stepJumpers(s.JumperPattern())
	if s.Pressed != 0 {
		c.dispatch(s.Pressed)
	}
}

func (c *Controller) stepJumpers(p int) {
	if p == c.pattern {
		c.cand, c.seen = -1, 0
		return
	}
	if p != c.cand {
		c.cand, c.seen = p, 0
	}
	c.seen++
	if c.seen < c.cfg.Mode.StableSamples {
		return
	}
	c.pattern = p
	c.cand, c.seen = -1, 0
	c.manual = false
	c.apply(c.ModeFor(p), false)
}

func (c *Controller) dispatch(pressed uint8) {
	actions := c.cfg.Mode.Buttons.For(c.mode)
	for i, a := range actions {
		if pressed&(1<<i) == 0 || a == types.ActionNone {
			continue
		}
		logx.Debug(logx.Mode, "button", "index", i, "action", a.String(), "mode", c.mode.String())
		rows := c.pageRows()
		switch a {
		case types.ActionPageUp:
			c.log.PageUp(rows)
		case types.ActionPageDown:
			c.log.PageDown(rows)
		case types.ActionClearLog:
			c.log.Clear()
		case types.ActionResetStats:
			c.br.ResetStats()
		case types.ActionNextMode:
			c.manual = true
			c.apply((c.mode+1)%types.NumModes, true)
		}
	}
}

func (c *Controller) pageRows() int {
	if c.cfg.LCD.Rows > 1 {
		return c.cfg.LCD.Rows - 1
	}
	return 1
}

func (c *Controller) apply(to types.Mode, manual bool) {
	from := c.mode
	if to == from {
		return
	}
	c.mode = to
	c.br.SetRoutes(bridge.RoutesFor(to))
	if to == types.ModeMonitor {
		c.log.offset = 0
	}
	ev := types.ModeChange{From: from, To: to, Manual: manual, Tick: c.tick}
	logx.Info(logx.Mode, "mode change", "from", from.String(), "to", to.String(), "manual", manual)
	if c.conn != nil {
		c.conn.Publish(c.conn.NewMessage(bus.T(types.TopicConsole, types.TopicMode), ev, true))
	}
	if c.onChange != nil {
		c.onChange(ev)
	}
}

// -----------------------------------------------------------------------------
// LCD status screen
// -----------------------------------------------------------------------------

// Render draws the status screen: the mode on row 0, then the monitor log
// page in Monitor or the port counters otherwise.
func (c *Controller) Render(d *lcd.Display) {
	head := "Mode: " + c.mode.String()
	if c.manual {
		head += "*"
	}
	d.WriteLine(0, head)
	rows := d.Rows() - 1
	if rows < 1 {
		return
	}
	if c.mode == types.ModeMonitor {
		view := c.log.View(rows)
		for r := 0; r < rows; r++ {
			line := ""
			if r < len(view) {
				line = view[r]
			}
			d.WriteLine(r+1, line)
		}
		return
	}
	a, b := c.br.Stats(types.UARTA), c.br.Stats(types.UARTB)
	lines := []string{
		"A rx" + u32(a.RxBytes) + " tx" + u32(a.TxBytes),
		"B rx" + u32(b.RxBytes) + " tx" + u32(b.TxBytes),
		"ovr" + u32(a.Overruns+b.Overruns) + " err" + u32(a.LineErrors+b.LineErrors),
	}
	for r := 0; r < rows; r++ {
		line := ""
		if r < len(lines) {
			line = lines[r]
		}
		d.WriteLine(r+1, line)
	}
}

func u32(n uint32) string { return conv.Utoa(n) }
