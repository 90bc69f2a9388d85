//go:build rp2040 || rp2350

package main

import (
	"context"
	"time"

	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/platform"
	"miniconsole-go/services/device"
	"miniconsole-go/types"
)

func fail(stage string, err error) {
	for {
		println("[console] FAIL", stage+":", err.Error())
		time.Sleep(2 * time.Second)
	}
}

func main() {
	// Allow USB CDC to enumerate before the banner goes out.
	time.Sleep(1500 * time.Millisecond)
	println("[console] boot")

	cfg, _ := config.ForBoard("pico")
	if err := cfg.Validate(); err != nil {
		fail("config", err)
	}

	ua, err := platform.OpenUART(types.UARTA, cfg.Ports.UARTA, cfg.Pins.UART0TX, cfg.Pins.UART0RX)
	if err != nil {
		fail("uart_a", err)
	}
	ub, err := platform.OpenUART(types.UARTB, cfg.Ports.UARTB, cfg.Pins.UART1TX, cfg.Pins.UART1RX)
	if err != nil {
		fail("uart_b", err)
	}
	panel, err := lcd.NewHD44780(cfg.Pins, cfg.LCD.Cols, cfg.LCD.Rows)
	if err != nil {
		fail("lcd", err)
	}
	wd, err := platform.StartWatchdog(cfg.Watchdog.TimeoutMS)
	if err != nil {
		fail("watchdog", err)
	}

	dev, err := device.New(&cfg, device.Hardware{
		Pins: platform.DefaultPinFactory(),
		Ports: map[types.Endpoint]platform.Port{
			types.Console: platform.NewUSBConsole(),
			types.UARTA:   ua,
			types.UARTB:   ub,
		},
		LCD:      panel,
		Watchdog: wd,
	})
	if err != nil {
		fail("device", err)
	}
	println("[console] running")
	if err := dev.Run(context.Background(), time.Duration(cfg.TickPeriodMS())*time.Millisecond); err != nil {
		fail("run", err)
	}
}
