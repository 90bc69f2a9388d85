package lcd

import (
	"bytes"
	"io"
	"sync"
)

// TextController draws the LCD as a framed text block on an io.Writer.
// A frame is written on every Sync, i.e. once per Flush that changed cells.
type TextController struct {
	mu   sync.Mutex
	w    io.Writer
	cols int
	rows int
	grid []byte
	col  int
	row  int
}

func NewTextController(w io.Writer, cols, rows int) *TextController {
	t := &TextController{w: w, cols: cols, rows: rows, grid: make([]byte, cols*rows)}
	fill(t.grid)
	return t
}

func (t *TextController) SetCursor(col, row int) {
	t.mu.Lock()
	t.col, t.row = col, row
	t.mu.Unlock()
}

// Write stores p from the cursor on, clipping at the row end like the
// hardware does on a single line.
func (t *TextController) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.row < 0 || t.row >= t.rows {
		return len(p), nil
	}
	for _, b := range p {
		if t.col >= 0 && t.col < t.cols {
			t.grid[t.row*t.cols+t.col] = b
		}
		t.col++
	}
	return len(p), nil
}

func (t *TextController) Clear() {
	t.mu.Lock()
	fill(t.grid)
	t.col, t.row = 0, 0
	t.mu.Unlock()
}

// Sync writes the current frame.
func (t *TextController) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var buf bytes.Buffer
	edge := "+" + string(bytes.Repeat([]byte{'-'}, t.cols)) + "+\n"
	buf.WriteString(edge)
	for r := 0; r < t.rows; r++ {
		buf.WriteByte('|')
		buf.Write(t.grid[r*t.cols : (r+1)*t.cols])
		buf.WriteString("|\n")
	}
	buf.WriteString(edge)
	_, err := t.w.Write(buf.Bytes())
	return err
}

// Lines returns what the simulated glass shows.
func (t *TextController) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, t.rows)
	for r := range out {
		out[r] = string(t.grid[r*t.cols : (r+1)*t.cols])
	}
	return out
}
