//go:build tinygo

package main

import (
	"log/slog"
	"machine"
	"time"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/app"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/board"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/buttons"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/leds"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/protocol"
	"github.com/tuffrabit/tinygo-joystick-rp2040/serial"
)

// MAIN THREAD DUTIES
// - Sample the stick, drive the LEDs, redraw the OLED
// - Answer status requests on USB CDC between cycles
//
// INTERRUPT DUTIES
// - Debounce both buttons and flip the toggles

func main() {
	boot := time.Now()
	cfg := config.Default()

	// Diagnostics go to UART0 so USB CDC carries only protocol frames
	machine.UART0.Configure(machine.UARTConfig{BaudRate: 115200})
	logger := slog.New(slog.NewTextHandler(machine.UART0, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	stick, err := board.NewStick()
	if err != nil {
		fatal(logger, "adc setup", err)
	}

	pwm, err := board.NewLEDPWM()
	if err != nil {
		fatal(logger, "pwm setup", err)
	}
	actuator := leds.NewActuator(cfg, pwm, pwm.Red, pwm.Blue)

	toggles := buttons.NewToggleState()
	source := buttons.NewSource(cfg, toggles, board.NewGreenLED(), buttons.MillisSince(boot))
	if err := board.AttachButtons(source); err != nil {
		fatal(logger, "button setup", err)
	}

	oled, err := display.Open(board.DisplayBus)
	if err != nil {
		fatal(logger, "display setup", err)
	}
	presenter := display.NewPresenter(oled, cfg.Settle(), time.Sleep)

	a, err := app.New(app.Params{
		Settings: cfg,
		Reader:   stick,
		Toggles:  toggles,
		Buttons:  source,
		LEDs:     actuator,
		Display:  presenter,
		Logger:   logger,
		Sleep:    time.Sleep,
	})
	if err != nil {
		fatal(logger, "app setup", err)
	}

	if err := a.Calibrate(); err != nil {
		fatal(logger, "calibration", err)
	}

	a.SetConsole(serial.NewConsole(machine.Serial, protocol.NewHandler(a), logger))

	logger.Info("running",
		"major", protocol.FirmwareMajor,
		"minor", protocol.FirmwareMinor,
		"boot_ms", time.Since(boot).Milliseconds())
	a.Run()
}

// fatal logs a startup failure and halts.
func fatal(logger *slog.Logger, what string, err error) {
	logger.Error(what+" failed", "err", err)
	panic(err)
}
