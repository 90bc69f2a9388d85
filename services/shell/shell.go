// Package shell writes the console's own text: the startup banner, mode
// announcements and periodic status lines. It accepts no commands.
package shell

import (
	"miniconsole-go/bus"
	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/services/bridge"
	"miniconsole-go/types"
	"miniconsole-go/x/conv"
	"miniconsole-go/x/logx"
)

const crlf = "\r\n"

type Shell struct {
	cfg    *config.Config
	br     *bridge.Bridge
	conn   *bus.Connection // optional
	ticks  int
	banner bool
}

func New(cfg *config.Config, br *bridge.Bridge, conn *bus.Connection) *Shell {
	return &Shell{cfg: cfg, br: br, conn: conn}
}

// Banner queues the startup banner for the console and draws the splash
// screen on d (if not nil). Only the first call has any effect.
func (s *Shell) Banner(d *lcd.Display) {
	if s.banner {
		return
	}
	s.banner = true
	var out []byte
	for _, line := range s.cfg.Banner() {
		out = append(out, line...)
		out = append(out, crlf...)
	}
	if n := s.br.Inject(types.Console, out); n < len(out) {
		logx.Warn(logx.Shell, "banner truncated", "queued", n, "len", len(out))
	}
	if d != nil {
		for r, line := range s.cfg.SplashLines() {
			d.WriteLine(r, line)
		}
	}
}

// Announce writes "[mode] From -> To" when announcements are enabled.
func (s *Shell) Announce(ev types.ModeChange) {
	if !s.cfg.Shell.AnnounceMode {
		return
	}
	line := "[mode] " + ev.From.String() + " -> " + ev.To.String()
	if ev.Manual {
		line += " (button)"
	}
	s.br.Inject(types.Console, []byte(line+crlf))
}

// Tick emits a status line every StatusEvery calls; 0 disables it.
func (s *Shell) Tick(m types.Mode, tick int64) {
	every := s.cfg.Shell.StatusEvery
	if every <= 0 {
		return
	}
	s.ticks++
	if s.ticks < every {
		return
	}
	s.ticks = 0
	rep := types.StatusReport{Mode: m, Tick: tick, Ports: s.br.AllStats()}
	s.br.Inject(types.Console, append(StatusLine(rep), crlf...))
	if s.conn != nil {
		s.conn.Publish(s.conn.NewMessage(bus.T(types.TopicConsole, types.TopicStats), rep, false))
	}
}

// StatusLine formats rep without fmt, e.g.
//
//	[status] mode=Monitor a.rx=12 a.tx=0 a.ovr=0 a.err=0 b.rx=3 b.tx=0 b.ovr=0 b.err=0
func StatusLine(rep types.StatusReport) []byte {
	out := make([]byte, 0, 128)
	out = append(out, "[status] mode="...)
	out = append(out, rep.Mode.String()...)
	for _, ep := range []types.Endpoint{types.UARTA, types.UARTB} {
		p := rep.Ports[ep]
		name := "a."
		if ep == types.UARTB {
			name = "b."
		}
		for _, f := range [...]struct {
			key string
			val uint32
		}{{"rx", p.RxBytes}, {"tx", p.TxBytes}, {"ovr", p.Overruns}, {"err", p.LineErrors}} {
			out = append(out, ' ')
			out = append(out, name...)
			out = append(out, f.key...)
			out = append(out, '=')
			out = conv.AppendUint(out, uint64(f.val))
		}
	}
	return out
}
