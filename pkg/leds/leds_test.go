package leds

import (
	"testing"

	"github.com/tuffrabit/tinygo-joystick-rp2040/pkg/config"
)

const (
	chanBlue = 0 // GPIO12, PWM6 A
	chanRed  = 1 // GPIO13, PWM6 B
)

// fakePWM keeps the current level of every channel and counts writes.
type fakePWM struct {
	levels map[uint8]uint32
	writes int
}

func newFakePWM() *fakePWM {
	return &fakePWM{levels: map[uint8]uint32{}}
}

func (p *fakePWM) Set(channel uint8, value uint32) {
	p.levels[channel] = value
	p.writes++
}

func TestDuty(t *testing.T) {
	tests := []struct {
		dev  int
		want uint32
	}{
		{0, 0},
		{300, 600},
		{-300, 600},
		{2047, 4094},
		{2048, 4095}, // 4096 clamps to the wrap
		{-2095, 4095},
		{5000, 4095},
	}

	for _, tt := range tests {
		if got := Duty(tt.dev); got != tt.want {
			t.Errorf("Duty(%d): expected %d, got %d", tt.dev, tt.want, got)
		}
	}
}

func TestActuatorStartsDark(t *testing.T) {
	pwm := newFakePWM()
	NewActuator(config.Default(), pwm, chanRed, chanBlue)

	if pwm.levels[chanRed] != 0 || pwm.levels[chanBlue] != 0 {
		t.Errorf("Expected both channels at 0, got red=%d blue=%d", pwm.levels[chanRed], pwm.levels[chanBlue])
	}
}

func TestActuatorApply(t *testing.T) {
	pwm := newFakePWM()
	a := NewActuator(config.Default(), pwm, chanRed, chanBlue)

	// center 2000/2000, raw (2300, 1700): dx=300, dy=-300
	a.Apply(300, -300, true)

	if pwm.levels[chanRed] != 600 {
		t.Errorf("Red duty: expected 600, got %d", pwm.levels[chanRed])
	}
	if pwm.levels[chanBlue] != 600 {
		t.Errorf("Blue duty: expected 600, got %d", pwm.levels[chanBlue])
	}

	a.Apply(-1000, 250, true)
	red, blue := a.Levels()
	if red != 500 {
		t.Errorf("Red level: expected 500, got %d", red)
	}
	if blue != 2000 {
		t.Errorf("Blue level: expected 2000, got %d", blue)
	}
}

func TestActuatorDisabledKeepsLevels(t *testing.T) {
	pwm := newFakePWM()
	a := NewActuator(config.Default(), pwm, chanRed, chanBlue)

	a.Apply(300, -300, true)
	writes := pwm.writes

	a.Apply(1500, 1500, false)

	if pwm.writes != writes {
		t.Errorf("Disabled apply should not write PWM, got %d extra writes", pwm.writes-writes)
	}
	if pwm.levels[chanRed] != 600 || pwm.levels[chanBlue] != 600 {
		t.Errorf("Expected levels to stay at 600, got red=%d blue=%d", pwm.levels[chanRed], pwm.levels[chanBlue])
	}
}

func TestActuatorZeroOnDisable(t *testing.T) {
	cfg := config.Default()
	cfg.Flags |= config.FlagZeroOnDisable

	pwm := newFakePWM()
	a := NewActuator(cfg, pwm, chanRed, chanBlue)

	a.Apply(300, -300, true)
	a.Apply(300, -300, false)

	if pwm.levels[chanRed] != 0 || pwm.levels[chanBlue] != 0 {
		t.Errorf("Expected both channels forced to 0, got red=%d blue=%d", pwm.levels[chanRed], pwm.levels[chanBlue])
	}

	// Already dark: no further writes while disabled
	writes := pwm.writes
	a.Apply(300, -300, false)
	if pwm.writes != writes {
		t.Errorf("Expected no writes while dark and disabled, got %d", pwm.writes-writes)
	}
}
