// Package lcd keeps a character LCD in sync with an in-memory cell grid.
//
// Callers draw into the Display with WriteAt/WriteLine, then call Flush once
// per tick. Flush compares the grid with a shadow of what the glass shows and
// sends only maximal runs of changed cells, so an unchanged screen costs no
// bus traffic at all.
package lcd

// Controller is the minimal character-display device the Display drives.
// Coordinates are physical: col 0..cols-1, row 0..rows-1.
type Controller interface {
	SetCursor(col, row int)
	Write(p []byte) (int, error)
	Clear()
}

// syncer is implemented by controllers that batch output per frame.
type syncer interface {
	Sync() error
}

const blank = ' '

// Display is a rows x cols grid with change tracking.
type Display struct {
	c      Controller
	cols   int
	rows   int
	cells  []byte
	shadow []byte
}

// New returns a Display of the given size. Both grids start blank; call
// Reset before the first Flush to bring the glass into the same state.
func New(c Controller, cols, rows int) *Display {
	d := &Display{
		c:      c,
		cols:   cols,
		rows:   rows,
		cells:  make([]byte, cols*rows),
		shadow: make([]byte, cols*rows),
	}
	fill(d.cells)
	fill(d.shadow)
	return d
}

func (d *Display) Cols() int { return d.cols }
func (d *Display) Rows() int { return d.rows }

// WriteAt draws text from (row, col). Cells past the row end are clipped.
func (d *Display) WriteAt(row, col int, text string) {
	if row < 0 || row >= d.rows || col >= d.cols {
		return
	}
	for i := 0; i < len(text); i++ {
		x := col + i
		if x < 0 {
			continue
		}
		if x >= d.cols {
			break
		}
		d.cells[row*d.cols+x] = printable(text[i])
	}
}

// WriteLine replaces a whole row, padding with blanks.
func (d *Display) WriteLine(row int, text string) {
	if row < 0 || row >= d.rows {
		return
	}
	line := d.cells[row*d.cols : (row+1)*d.cols]
	fill(line)
	d.WriteAt(row, 0, text)
}

// Clear blanks the grid. The glass changes on the next Flush.
func (d *Display) Clear() { fill(d.cells) }

// Reset clears the controller immediately and forgets the shadow.
func (d *Display) Reset() {
	d.c.Clear()
	fill(d.cells)
	fill(d.shadow)
}

// Flush writes changed runs to the controller and returns the number of
// cells sent.
func (d *Display) Flush() int {
	n := 0
	for r := 0; r < d.rows; r++ {
		base := r * d.cols
		for x := 0; x < d.cols; {
			if d.cells[base+x] == d.shadow[base+x] {
				x++
				continue
			}
			start := x
			for x < d.cols && d.cells[base+x] != d.shadow[base+x] {
				x++
			}
			run := d.cells[base+start : base+x]
			d.c.SetCursor(start, r)
			if _, err := d.c.Write(run); err != nil {
				// shadow left stale so the run is retried next flush
				continue
			}
			copy(d.shadow[base+start:base+x], run)
			n += len(run)
		}
	}
	if n > 0 {
		if s, ok := d.c.(syncer); ok {
			_ = s.Sync()
		}
	}
	return n
}

// Line returns the grid contents of row (not necessarily flushed).
func (d *Display) Line(row int) string {
	if row < 0 || row >= d.rows {
		return ""
	}
	return string(d.cells[row*d.cols : (row+1)*d.cols])
}

func printable(b byte) byte {
	if b < 0x20 || b > 0x7e {
		return '?'
	}
	return b
}

func fill(p []byte) {
	for i := range p {
		p[i] = blank
	}
}
