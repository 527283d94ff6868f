// Package config holds the compile-time settings of the joystick firmware.
// Nothing here is writable at runtime; the Settings struct only exists so the
// rest of the firmware (and the status protocol) can see one consistent copy.
package config

import (
	"encoding/binary"
	"errors"
	"time"
)

// CurrentVersion is the settings layout version reported over the status
// protocol. Bump this when the binary layout of Settings changes.
const CurrentVersion uint16 = 1

// Hardware ranges
const (
	MaxADC  = 4095 // 12-bit ADC full scale
	PWMWrap = 4095 // PWM counter top for the red and blue LEDs
)

// Joystick and button tuning
const (
	DeadZone              = 200 // ADC units around the calibrated center
	DebounceMs            = 200
	CalibrationSamples    = 150
	CalibrationIntervalMs = 10
)

// Loop and display timing
const (
	LoopIntervalMs = 100
	SettleMs       = 40
)

// Display geometry
const (
	ScreenWidth   = 128
	ScreenHeight  = 64
	CursorSize    = 8
	CursorRowSpan = 52  // rows the cursor can travel (0..52)
	CursorColSpan = 113 // columns the cursor can travel (0..113)
	BannerText    = "JOYSTICK  RP2040"
	BannerX       = 8
	BannerY       = 18 // text baseline
)

// Settings flags
const (
	FlagSharedDebounce uint8 = 1 << 0 // one debounce timestamp gates both buttons
	FlagZeroOnDisable  uint8 = 1 << 1 // force PWM duties to 0 when PWM is toggled off
)

// settingsSize is the fixed binary size of Settings.
const settingsSize = 16

// Settings is the full set of tunables used by the firmware.
// Total size: 16 bytes
// Layout:
//
//	[0-1]:   Version (uint16)
//	[2-3]:   DeadZone (uint16)
//	[4-5]:   DebounceMs (uint16)
//	[6-7]:   CalibrationSamples (uint16)
//	[8]:     CalibrationIntervalMs (uint8)
//	[9]:     SettleMs (uint8)
//	[10-11]: LoopIntervalMs (uint16)
//	[12]:    Flags (uint8)
//	[13]:    Reserved (uint8)
//	[14-15]: Reserved (uint16)
type Settings struct {
	Version               uint16
	DeadZone              uint16
	DebounceMs            uint16
	CalibrationSamples    uint16
	CalibrationIntervalMs uint8
	SettleMs              uint8
	LoopIntervalMs        uint16
	Flags                 uint8
	Reserved1             uint8
	Reserved2             uint16
}

// Errors
var (
	ErrInvalidSize     = errors.New("invalid settings size")
	ErrInvalidSettings = errors.New("invalid settings")
)

// Default returns the settings the firmware is built with.
// Buttons debounce independently and PWM levels persist when disabled.
func Default() Settings {
	return Settings{
		Version:               CurrentVersion,
		DeadZone:              DeadZone,
		DebounceMs:            DebounceMs,
		CalibrationSamples:    CalibrationSamples,
		CalibrationIntervalMs: CalibrationIntervalMs,
		SettleMs:              SettleMs,
		LoopIntervalMs:        LoopIntervalMs,
	}
}

// Validate checks that the settings can drive the firmware.
func (s *Settings) Validate() error {
	if s.CalibrationSamples == 0 {
		return ErrInvalidSettings
	}
	if s.DeadZone >= MaxADC {
		return ErrInvalidSettings
	}
	if s.DebounceMs == 0 {
		return ErrInvalidSettings
	}
	return nil
}

// SharedDebounce reports whether both buttons share one debounce timestamp.
func (s *Settings) SharedDebounce() bool {
	return s.Flags&FlagSharedDebounce != 0
}

// ZeroOnDisable reports whether the PWM LEDs are forced off when PWM is disabled.
func (s *Settings) ZeroOnDisable() bool {
	return s.Flags&FlagZeroOnDisable != 0
}

// CalibrationInterval is the pause between paired calibration samples.
func (s *Settings) CalibrationInterval() time.Duration {
	return time.Duration(s.CalibrationIntervalMs) * time.Millisecond
}

// LoopInterval is the sleep at the end of every main loop iteration.
func (s *Settings) LoopInterval() time.Duration {
	return time.Duration(s.LoopIntervalMs) * time.Millisecond
}

// Settle is the delay after every display flush.
func (s *Settings) Settle() time.Duration {
	return time.Duration(s.SettleMs) * time.Millisecond
}

// MarshalBinary implements encoding.BinaryMarshaler for Settings.
func (s *Settings) MarshalBinary() ([]byte, error) {
	buf := make([]byte, settingsSize)
	binary.LittleEndian.PutUint16(buf[0:], s.Version)
	binary.LittleEndian.PutUint16(buf[2:], s.DeadZone)
	binary.LittleEndian.PutUint16(buf[4:], s.DebounceMs)
	binary.LittleEndian.PutUint16(buf[6:], s.CalibrationSamples)
	buf[8] = s.CalibrationIntervalMs
	buf[9] = s.SettleMs
	binary.LittleEndian.PutUint16(buf[10:], s.LoopIntervalMs)
	buf[12] = s.Flags
	buf[13] = s.Reserved1
	binary.LittleEndian.PutUint16(buf[14:], s.Reserved2)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for Settings.
func (s *Settings) UnmarshalBinary(data []byte) error {
	if len(data) < settingsSize {
		return ErrInvalidSize
	}

	s.Version = binary.LittleEndian.Uint16(data[0:])
	s.DeadZone = binary.LittleEndian.Uint16(data[2:])
	s.DebounceMs = binary.LittleEndian.Uint16(data[4:])
	s.CalibrationSamples = binary.LittleEndian.Uint16(data[6:])
	s.CalibrationIntervalMs = data[8]
	s.SettleMs = data[9]
	s.LoopIntervalMs = binary.LittleEndian.Uint16(data[10:])
	s.Flags = data[12]
	s.Reserved1 = data[13]
	s.Reserved2 = binary.LittleEndian.Uint16(data[14:])
	return nil
}
