package mode

import "miniconsole-go/types"

// MonitorLog keeps the last lines of mirrored UART traffic for the LCD.
// Each line starts with its source ("A>" or "B>"); a new line starts on
// '\n', when the width is reached, or when the source changes. '\r' is
// dropped and other control bytes show as '.'.
type MonitorLog struct {
	lines  []string // oldest first, at most max
	max    int
	width  int
	cur    []byte
	curSrc types.Endpoint
	open   bool
	offset int // lines scrolled back from the newest page; held in place while > 0
}

func NewMonitorLog(max, width int) *MonitorLog {
	if max < 1 {
		max = 1
	}
	if width < 3 {
		width = 3
	}
	return &MonitorLog{max: max, width: width, cur: make([]byte, 0, width)}
}

func prefix(src types.Endpoint) string {
	switch src {
	case types.UARTA:
		return "A>"
	case types.UARTB:
		return "B>"
	}
	return "?>"
}

// Feed appends bytes read from src.
func (l *MonitorLog) Feed(src types.Endpoint, p []byte) {
	for _, c := range p {
		if c == '\r' {
			continue
		}
		if l.open && src != l.curSrc {
			l.commit()
		}
		if !l.open {
			l.cur = append(l.cur[:0], prefix(src)...)
			l.curSrc = src
			l.open = true
			if l.offset > 0 {
				// keep a scrolled-back page on the same lines
				l.offset = min(l.offset+1, l.max)
			}
		}
		if c == '\n' {
			l.commit()
			continue
		}
		if c < 0x20 || c > 0x7e {
			c = '.'
		}
		l.cur = append(l.cur, c)
		if len(l.cur) >= l.width {
			l.commit()
		}
	}
}

func (l *MonitorLog) commit() {
	if !l.open {
		return
	}
	l.lines = append(l.lines, string(l.cur))
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
	l.cur = l.cur[:0]
	l.open = false
}

// Lines returns committed lines plus the line being built.
func (l *MonitorLog) Lines() []string {
	out := append([]string(nil), l.lines...)
	if l.open {
		out = append(out, string(l.cur))
	}
	return out
}

// View returns the page of n lines at the current scroll offset.
func (l *MonitorLog) View(n int) []string {
	all := l.Lines()
	end := len(all) - l.offset
	if end < 0 {
		end = 0
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	return all[start:end]
}

// PageUp scrolls back by n lines, stopping at the oldest page.
func (l *MonitorLog) PageUp(n int) {
	total := len(l.Lines())
	l.offset += n
	if lim := total - n; l.offset > lim {
		l.offset = lim
	}
	if l.offset < 0 {
		l.offset = 0
	}
}

// PageDown scrolls towards the newest lines.
func (l *MonitorLog) PageDown(n int) {
	l.offset -= n
	if l.offset < 0 {
		l.offset = 0
	}
}

// Offset is the scroll-back distance in lines. At 0 the view follows new
// traffic; otherwise it grows with each new line so the page stays put.
func (l *MonitorLog) Offset() int { return l.offset }

func (l *MonitorLog) Clear() {
	l.lines = l.lines[:0]
	l.cur = l.cur[:0]
	l.open = false
	l.offset = 0
}
