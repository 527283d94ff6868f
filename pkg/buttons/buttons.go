// Package buttons implements interrupt-driven debouncing for the joystick
// press and action buttons, and the toggle flags those buttons own.
//
// The interrupt handler is the only writer of ToggleState; the main loop only
// reads it. Every flag and timestamp is an atomic so a read from the loop can
// never observe a torn value, no matter where the interrupt lands.
package buttons

import (
	"sync/atomic"
	"time"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
)

// Button identifies one of the two push-buttons.
type Button uint8

const (
	ButtonJoystick Button = 0 // stick press: green LED + display border
	ButtonAction   Button = 1 // button A: PWM LEDs on/off

	numButtons = 2
)

// String returns a short name for log output.
func (b Button) String() string {
	switch b {
	case ButtonJoystick:
		return "joystick"
	case ButtonAction:
		return "action"
	default:
		return "unknown"
	}
}

// Output is a digital output such as machine.Pin.
type Output interface {
	Set(high bool)
}

// Clock returns milliseconds since boot. It is called from interrupt context
// and must not block.
type Clock func() uint32

// Toggles is a plain copy of ToggleState taken at one point in time.
type Toggles struct {
	GreenLED   bool
	Border     bool
	PWMEnabled bool
}

// ToggleState holds the flags flipped by accepted button edges.
type ToggleState struct {
	greenLED atomic.Bool
	border   atomic.Bool
	pwm      atomic.Bool
}

// NewToggleState returns the power-on state: PWM enabled, everything else off.
func NewToggleState() *ToggleState {
	t := &ToggleState{}
	t.pwm.Store(true)
	return t
}

// GreenLED reports whether the green LED is on.
func (t *ToggleState) GreenLED() bool { return t.greenLED.Load() }

// Border reports whether the display border is visible.
func (t *ToggleState) Border() bool { return t.border.Load() }

// PWMEnabled reports whether the red and blue LEDs follow the stick.
func (t *ToggleState) PWMEnabled() bool { return t.pwm.Load() }

// Snapshot copies all three flags. Each flag is read atomically, but an
// interrupt may land between two of the loads.
func (t *ToggleState) Snapshot() Toggles {
	return Toggles{
		GreenLED:   t.greenLED.Load(),
		Border:     t.border.Load(),
		PWMEnabled: t.pwm.Load(),
	}
}

// Source converts falling edges into debounced toggle events.
type Source struct {
	toggles *ToggleState
	green   Output
	clock   Clock
	window  uint32
	shared  bool

	last     [numButtons]atomic.Uint32
	accepted [numButtons]atomic.Uint32
}

// NewSource creates a debouncer writing to toggles. green is driven directly
// on every accepted joystick press and may be nil.
//
// With cfg.SharedDebounce() set, one timestamp gates both buttons: a press on
// either button locks out the other for the debounce window.
func NewSource(cfg config.Settings, toggles *ToggleState, green Output, clock Clock) *Source {
	s := &Source{
		toggles: toggles,
		green:   green,
		clock:   clock,
		window:  uint32(cfg.DebounceMs),
		shared:  cfg.SharedDebounce(),
	}

	// Arm every slot so the first edge after boot is accepted.
	now := clock()
	for i := range s.last {
		s.last[i].Store(now - s.window)
	}
	return s
}

// Edge handles one falling edge on button b and reports whether it was
// accepted. It runs in interrupt context: no allocation, no sleeping, no I/O.
func (s *Source) Edge(b Button) bool {
	if b >= numButtons {
		return false
	}

	slot := b
	if s.shared {
		slot = ButtonJoystick
	}

	// GPIO interrupts are serviced one at a time, so the load/store pair
	// below is not raced by another edge.
	now := s.clock()
	if now-s.last[slot].Load() < s.window {
		return false
	}
	s.last[slot].Store(now)
	s.accepted[b].Add(1)

	switch b {
	case ButtonJoystick:
		on := !s.toggles.greenLED.Load()
		s.toggles.greenLED.Store(on)
		s.toggles.border.Store(!s.toggles.border.Load())
		if s.green != nil {
			s.green.Set(on)
		}
	case ButtonAction:
		s.toggles.pwm.Store(!s.toggles.pwm.Load())
	}
	return true
}

// Accepted returns how many edges on b have been accepted since boot.
func (s *Source) Accepted(b Button) uint32 {
	if b >= numButtons {
		return 0
	}
	return s.accepted[b].Load()
}

// Handler returns an interrupt callback for button b, typed for the pin
// argument the GPIO driver passes (machine.Pin on TinyGo).
func Handler[P any](s *Source, b Button) func(P) {
	return func(P) {
		s.Edge(b)
	}
}

// MillisSince returns a Clock counting milliseconds from start.
func MillisSince(start time.Time) Clock {
	return func() uint32 {
		return uint32(time.Since(start) / time.Millisecond)
	}
}
