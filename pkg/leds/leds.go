// Package leds drives the red and blue status LEDs from joystick deviations.
// The green LED is a plain digital output flipped by the button handler.
package leds

import "github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"

// Dimmer is the PWM collaborator. machine.PWM6 on the RP2040 satisfies it:
// GPIO12 and GPIO13 are channels A and B of the same slice.
type Dimmer interface {
	Set(channel uint8, value uint32)
}

// Actuator maps deviations onto LED brightness.
type Actuator struct {
	pwm           Dimmer
	red           uint8
	blue          uint8
	zeroOnDisable bool

	redLevel  uint32
	blueLevel uint32
}

// NewActuator creates an actuator for the given PWM channels. Both LEDs start
// dark.
func NewActuator(cfg config.Settings, pwm Dimmer, redChannel, blueChannel uint8) *Actuator {
	a := &Actuator{
		pwm:           pwm,
		red:           redChannel,
		blue:          blueChannel,
		zeroOnDisable: cfg.ZeroOnDisable(),
	}
	a.set(0, 0)
	return a
}

// Apply updates the LEDs. Red follows the Y deviation and blue the X
// deviation, at twice the magnitude. When PWM is disabled the last levels are
// kept, unless the actuator was built with ZeroOnDisable.
func (a *Actuator) Apply(dx, dy int, enabled bool) {
	if !enabled {
		if a.zeroOnDisable && (a.redLevel != 0 || a.blueLevel != 0) {
			a.set(0, 0)
		}
		return
	}
	a.set(Duty(dy), Duty(dx))
}

// Levels returns the duty cycles last written to the red and blue channels.
func (a *Actuator) Levels() (red, blue uint32) {
	return a.redLevel, a.blueLevel
}

func (a *Actuator) set(red, blue uint32) {
	a.pwm.Set(a.red, red)
	a.pwm.Set(a.blue, blue)
	a.redLevel = red
	a.blueLevel = blue
}

// Duty converts a deviation to a duty cycle: |dev|*2, clamped to the PWM wrap.
func Duty(dev int) uint32 {
	if dev < 0 {
		dev = -dev
	}
	d := dev * 2
	if d > config.PWMWrap {
		return config.PWMWrap
	}
	return uint32(d)
}
