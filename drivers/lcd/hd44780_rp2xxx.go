//go:build rp2040 || rp2350

package lcd

import (
	"machine"

	"tinygo.org/x/drivers/hd44780"

	"miniconsole-go/config"
	"miniconsole-go/errcode"
)

// HD44780 drives an HD44780-compatible panel on an 8-bit GPIO bus with RW
// tied to ground.
//
// A 4-line panel is two controller lines of 2*cols cells: physical rows 2
// and 3 continue rows 0 and 1 in DDRAM. The controller is therefore set up
// as a (2*cols) x 2 display and rows are remapped here.
type HD44780 struct {
	dev  hd44780.Device
	cols int
	rows int
}

// NewHD44780 configures the data bus and the controller. The backlight pin
// is driven by the caller.
func NewHD44780(p config.Pins, cols, rows int) (*HD44780, error) {
	const op = "lcd.hd44780"
	data := make([]machine.Pin, len(p.LCDData))
	for i, n := range p.LCDData {
		data[i] = machine.Pin(n)
	}
	dev, err := hd44780.NewGPIO8Bit(data, machine.Pin(p.LCDEnable), machine.Pin(p.LCDRegSelect), machine.NoPin)
	if err != nil {
		return nil, errcode.Wrap(errcode.Error, op, "gpio bus", err)
	}
	w, h := cols, rows
	if rows == 4 {
		w, h = 2*cols, 2
	}
	if err := dev.Configure(hd44780.Config{Width: int16(w), Height: int16(h)}); err != nil {
		return nil, errcode.Wrap(errcode.Error, op, "configure", err)
	}
	return &HD44780{dev: dev, cols: cols, rows: rows}, nil
}

func (h *HD44780) SetCursor(col, row int) {
	x, y := col, row
	if h.rows == 4 {
		x, y = col+h.cols*(row/2), row%2
	}
	h.dev.SetCursor(uint8(x), uint8(y))
}

// Write sends p at the cursor. The driver buffers until Display.
func (h *HD44780) Write(p []byte) (int, error) {
	n, err := h.dev.Write(p)
	if err != nil {
		return n, err
	}
	return n, h.dev.Display()
}

func (h *HD44780) Clear() { h.dev.ClearDisplay() }
