// Package app ties the joystick, buttons, LEDs and display together into the
// firmware's polling loop.
//
// Everything here runs on the main thread. The only state shared with
// interrupt context is the ToggleState, which the loop reads and never writes.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/buttons"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/joystick"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/protocol"
)

var (
	ErrMissing       = errors.New("missing collaborator")
	ErrNotCalibrated = errors.New("joystick not calibrated")
)

// LEDs is the output actuator (*leds.Actuator).
type LEDs interface {
	Apply(dx, dy int, enabled bool)
	Levels() (red, blue uint32)
}

// Display is the presenter (*display.Presenter).
type Display interface {
	Render(rawX, rawY uint16, border bool) error
	Splash(lines ...string) error
	Blank() error
}

// Poller is serviced once per cycle (*serial.Console).
type Poller interface {
	Poll() error
}

// Params collects what New needs. Buttons and Logger are optional.
type Params struct {
	Settings config.Settings
	Reader   joystick.Reader
	Toggles  *buttons.ToggleState
	Buttons  *buttons.Source
	LEDs     LEDs
	Display  Display
	Logger   *slog.Logger
	Sleep    func(time.Duration)
}

// App is the firmware's application context.
type App struct {
	settings config.Settings
	reader   joystick.Reader
	toggles  *buttons.ToggleState
	buttons  *buttons.Source
	leds     LEDs
	display  Display
	console  Poller
	logger   *slog.Logger
	sleep    func(time.Duration)

	center     joystick.Center
	calibrated bool
	last       buttons.Toggles
	cycles     uint32
	status     protocol.Status
}

// New validates p and builds an App. The joystick must be calibrated before
// the first Step.
func New(p Params) (*App, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, err
	}
	switch {
	case p.Reader == nil:
		return nil, fmt.Errorf("%w: joystick reader", ErrMissing)
	case p.Toggles == nil:
		return nil, fmt.Errorf("%w: toggle state", ErrMissing)
	case p.LEDs == nil:
		return nil, fmt.Errorf("%w: leds", ErrMissing)
	case p.Display == nil:
		return nil, fmt.Errorf("%w: display", ErrMissing)
	}

	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &App{
		settings: p.Settings,
		reader:   p.Reader,
		toggles:  p.Toggles,
		buttons:  p.Buttons,
		leds:     p.LEDs,
		display:  p.Display,
		logger:   logger,
		sleep:    sleep,
		last:     p.Toggles.Snapshot(),
	}, nil
}

// SetConsole registers a poller serviced after every Step.
func (a *App) SetConsole(c Poller) {
	a.console = c
}

// Calibrate measures the stick's resting position. The stick must not be
// touched while this runs.
func (a *App) Calibrate() error {
	if err := a.display.Splash("Calibrating...", "hands off stick"); err != nil {
		a.logger.Warn("splash failed", "err", err)
	}

	start := time.Now()
	center, err := joystick.Calibrate(a.reader,
		int(a.settings.CalibrationSamples),
		a.settings.CalibrationInterval(),
		a.sleep)
	if err != nil {
		return fmt.Errorf("calibrate: %w", err)
	}

	a.center = center
	a.calibrated = true

	if err := a.display.Blank(); err != nil {
		a.logger.Warn("clear splash failed", "err", err)
	}
	a.logger.Info("calibrated",
		"center_x", center.X,
		"center_y", center.Y,
		"samples", a.settings.CalibrationSamples,
		"took", time.Since(start))
	return nil
}

// Step runs one loop iteration: sample, normalize, drive the LEDs, render.
// A failed ADC read skips the rest of the cycle; a failed flush is logged and
// returned after the status has been recorded.
func (a *App) Step() error {
	if !a.calibrated {
		return ErrNotCalibrated
	}

	s, err := joystick.ReadSample(a.reader)
	if err != nil {
		a.logger.Error("skipping cycle", "err", err)
		return err
	}
	a.logger.Debug("axes", "x", s.X, "y", s.Y)

	t := a.toggles.Snapshot()
	a.logTransitions(t)

	dx, dy := joystick.Deviation(s, a.center, int(a.settings.DeadZone))
	a.leds.Apply(dx, dy, t.PWMEnabled)

	renderErr := a.display.Render(s.X, s.Y, t.Border)
	if renderErr != nil {
		a.logger.Error("render failed", "err", renderErr)
	}

	a.cycles++
	a.record(s, dx, dy, t)
	return renderErr
}

// Run loops forever.
func (a *App) Run() {
	for {
		a.cycle()
	}
}

func (a *App) cycle() {
	a.Step()
	if a.console != nil {
		if err := a.console.Poll(); err != nil {
			a.logger.Warn("console write failed", "err", err)
		}
	}
	a.sleep(a.settings.LoopInterval())
}

// logTransitions reports flags flipped by the interrupt handler since the
// previous cycle.
func (a *App) logTransitions(t buttons.Toggles) {
	if t.GreenLED != a.last.GreenLED {
		a.logger.Info("green led", "on", t.GreenLED)
	}
	if t.Border != a.last.Border {
		a.logger.Info("border", "visible", t.Border)
	}
	if t.PWMEnabled != a.last.PWMEnabled {
		a.logger.Info("pwm", "enabled", t.PWMEnabled)
	}
	a.last = t
}

func (a *App) record(s joystick.Sample, dx, dy int, t buttons.Toggles) {
	cur := display.CursorAt(s.X, s.Y)
	red, blue := a.leds.Levels()

	var flags uint8
	if t.GreenLED {
		flags |= protocol.FlagGreenLED
	}
	if t.Border {
		flags |= protocol.FlagBorder
	}
	if t.PWMEnabled {
		flags |= protocol.FlagPWMEnabled
	}
	if a.calibrated {
		flags |= protocol.FlagCalibrated
	}

	st := protocol.Status{
		RawX:      s.X,
		RawY:      s.Y,
		DevX:      int16(dx),
		DevY:      int16(dy),
		CursorRow: uint8(cur.Row),
		CursorCol: uint8(cur.Col),
		Flags:     flags,
		RedDuty:   uint16(red),
		BlueDuty:  uint16(blue),
		Cycles:    a.cycles,
	}
	if a.buttons != nil {
		st.JoystickPresses = uint16(a.buttons.Accepted(buttons.ButtonJoystick))
		st.ActionPresses = uint16(a.buttons.Accepted(buttons.ButtonAction))
	}
	a.status = st
}

// Status returns what the last completed cycle saw and did.
func (a *App) Status() protocol.Status {
	return a.status
}

// Calibration returns the measured stick center.
func (a *App) Calibration() joystick.Center {
	return a.center
}

// Settings returns the settings the App was built with.
func (a *App) Settings() config.Settings {
	return a.settings
}
