//go:build !rp2040 && !rp2350

// Command console-host runs the serial console on a PC: stdin/stdout is the
// console endpoint, -a and -b name OS serial devices for UART-A and UART-B,
// and -jumpers stands in for the JP2/JP3 straps.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"miniconsole-go/bus"
	"miniconsole-go/config"
	"miniconsole-go/drivers/lcd"
	"miniconsole-go/errcode"
	"miniconsole-go/platform"
	"miniconsole-go/services/device"
	"miniconsole-go/types"
	"miniconsole-go/x/logx"
)

var (
	configPath = flag.String("config", "", "YAML configuration file (defaults apply when empty)")
	devA       = flag.String("a", "", "serial device for UART-A (e.g. /dev/ttyUSB0)")
	devB       = flag.String("b", "", "serial device for UART-B")
	jumpers    = flag.Int("jumpers", 0, "jumper pattern 0..3 (bit0 = JP2 fitted, bit1 = JP3 fitted)")
	list       = flag.Bool("list", false, "list serial devices and exit")
	showLCD    = flag.Bool("lcd", false, "draw the LCD on stderr")
	logLevel   = flag.String("log-level", "warn", "log level: debug, info, warn, error")
	logJSON    = flag.Bool("log-json", false, "log as JSON")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		logx.Error(logx.Host, "exit", "code", string(errcode.Of(err)), "err", err)
		os.Exit(1)
	}
}

func run() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	logx.SetLevel(lvl)
	if *logJSON {
		logx.SetOutput(os.Stderr, logx.FormatJSON)
	}

	if *list {
		return listPorts(os.Stdout)
	}
	if *jumpers < 0 || *jumpers > 3 {
		return fmt.Errorf("jumpers: %d out of range 0..3", *jumpers)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *devA != "" {
		cfg.Ports.UARTA.Device = *devA
	}
	if *devB != "" {
		cfg.Ports.UARTB.Device = *devB
	}

	ports := map[types.Endpoint]platform.Port{}
	console := platform.NewStreamPort(os.Stdin, os.Stdout, 4096)
	defer console.Close()
	ports[types.Console] = console
	for _, ep := range []types.Endpoint{types.UARTA, types.UARTB} {
		pc := cfg.Ports.For(ep)
		if pc.Device == "" {
			logx.Info(logx.Host, "endpoint not attached", "endpoint", ep.String())
			continue
		}
		p, err := platform.OpenSerial(pc.Device, pc)
		if err != nil {
			return err
		}
		defer p.Close()
		ports[ep] = p
		logx.Info(logx.Host, "endpoint attached", "endpoint", ep.String(), "device", pc.Device, "baud", pc.Baud)
	}

	pins := &platform.HostPinFactory{}
	var panel lcd.Controller
	if *showLCD {
		panel = lcd.NewTextController(os.Stderr, cfg.LCD.Cols, cfg.LCD.Rows)
	}

	b := bus.NewBus(8)
	events := b.NewConnection("host")
	dev, err := device.New(&cfg, device.Hardware{
		Pins:  pins,
		Ports: ports,
		LCD:   panel,
		Bus:   b.NewConnection("device"),
	})
	if err != nil {
		return err
	}
	// straps are read as active-low inputs after device.New configured them
	for i, n := range cfg.Pins.Jumpers {
		pins.Get(n).Set(*jumpers&(1<<i) == 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go logEvents(ctx, events)

	err = dev.Run(ctx, time.Duration(cfg.TickPeriodMS())*time.Millisecond)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func logEvents(ctx context.Context, conn *bus.Connection) {
	sub := conn.Subscribe(bus.T(types.TopicConsole, bus.MultiWild))
	defer conn.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case m := <-sub.Channel():
			switch ev := m.Payload.(type) {
			case types.ModeChange:
				logx.Info(logx.Host, "mode", "from", ev.From.String(), "to", ev.To.String(), "manual", ev.Manual)
			case types.StatusReport:
				logx.Debug(logx.Host, "stats", "mode", ev.Mode.String(),
					"a_rx", ev.Ports[types.UARTA].RxBytes, "b_rx", ev.Ports[types.UARTB].RxBytes)
			}
		}
	}
}

func listPorts(w io.Writer) error {
	ports, err := platform.ListSerialPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for _, p := range ports {
		if p.USB {
			fmt.Fprintf(w, "%s\tusb %s:%s %s\n", p.Name, p.VID, p.PID, p.SerialNumber)
			continue
		}
		fmt.Fprintln(w, p.Name)
	}
	return nil
}
