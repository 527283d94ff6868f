//go:build tinygo

// Package board wires the RP2040's peripherals to the firmware packages.
package board

import (
	"fmt"
	"machine"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/buttons"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/display"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/joystick"
	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/leds"
)

// Pin assignments
const (
	JoystickXPin = machine.GPIO26 // ADC0
	JoystickYPin = machine.GPIO27 // ADC1

	JoystickButtonPin = machine.GPIO22
	ActionButtonPin   = machine.GPIO5

	RedLEDPin   = machine.GPIO13 // PWM6 B
	GreenLEDPin = machine.GPIO11
	BlueLEDPin  = machine.GPIO12 // PWM6 A

	DisplaySDAPin = machine.GPIO14
	DisplaySCLPin = machine.GPIO15

	DisplayAddress = 0x3C
)

// DisplayBus is the OLED's I2C wiring.
var DisplayBus = display.Bus{
	I2C:     machine.I2C1,
	SDA:     DisplaySDAPin,
	SCL:     DisplaySCLPin,
	Address: DisplayAddress,
}

// Stick reads both joystick axes through the RP2040's 12-bit ADC.
type Stick struct {
	x machine.ADC
	y machine.ADC
}

// NewStick initializes the ADC block and both axis inputs.
func NewStick() (*Stick, error) {
	machine.InitADC()

	s := &Stick{
		x: machine.ADC{Pin: JoystickXPin},
		y: machine.ADC{Pin: JoystickYPin},
	}
	if err := s.x.Configure(machine.ADCConfig{}); err != nil {
		return nil, fmt.Errorf("configure x axis adc: %w", err)
	}
	if err := s.y.Configure(machine.ADCConfig{}); err != nil {
		return nil, fmt.Errorf("configure y axis adc: %w", err)
	}
	return s, nil
}

// ReadAxis implements joystick.Reader.
func (s *Stick) ReadAxis(axis joystick.Axis) (uint16, error) {
	// Get scales the 12-bit conversion up to 16 bits
	switch axis {
	case joystick.AxisX:
		return s.x.Get() >> 4, nil
	case joystick.AxisY:
		return s.y.Get() >> 4, nil
	default:
		return 0, fmt.Errorf("no adc for axis %d", axis)
	}
}

// LEDPWM is the PWM slice driving the red and blue LEDs, with the channel
// each LED sits on.
type LEDPWM struct {
	leds.Dimmer
	Red  uint8
	Blue uint8
}

// NewLEDPWM configures PWM6 with a wrap of MaxADC so duty values are raw
// 12-bit levels.
func NewLEDPWM() (*LEDPWM, error) {
	pwm := machine.PWM6
	if err := pwm.Configure(machine.PWMConfig{}); err != nil {
		return nil, fmt.Errorf("configure pwm: %w", err)
	}
	pwm.SetTop(config.PWMWrap)

	red, err := pwm.Channel(RedLEDPin)
	if err != nil {
		return nil, fmt.Errorf("red led channel: %w", err)
	}
	blue, err := pwm.Channel(BlueLEDPin)
	if err != nil {
		return nil, fmt.Errorf("blue led channel: %w", err)
	}

	return &LEDPWM{Dimmer: pwm, Red: red, Blue: blue}, nil
}

// NewGreenLED configures the green LED as a digital output, initially off.
func NewGreenLED() machine.Pin {
	GreenLEDPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	GreenLEDPin.Low()
	return GreenLEDPin
}

// AttachButtons configures both buttons as pulled-up inputs and routes their
// falling edges to src.
func AttachButtons(src *buttons.Source) error {
	pins := []struct {
		pin    machine.Pin
		button buttons.Button
	}{
		{JoystickButtonPin, buttons.ButtonJoystick},
		{ActionButtonPin, buttons.ButtonAction},
	}

	for _, p := range pins {
		p.pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
		if err := p.pin.SetInterrupt(machine.PinFalling, buttons.Handler[machine.Pin](src, p.button)); err != nil {
			return fmt.Errorf("%s button interrupt: %w", p.button, err)
		}
	}
	return nil
}
