package config

import (
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()

	if s.Version != CurrentVersion {
		t.Errorf("Version: expected %d, got %d", CurrentVersion, s.Version)
	}
	if s.DeadZone != 200 {
		t.Errorf("DeadZone: expected 200, got %d", s.DeadZone)
	}
	if s.DebounceMs != 200 {
		t.Errorf("DebounceMs: expected 200, got %d", s.DebounceMs)
	}
	if s.CalibrationSamples != 150 {
		t.Errorf("CalibrationSamples: expected 150, got %d", s.CalibrationSamples)
	}
	if s.CalibrationInterval() != 10*time.Millisecond {
		t.Errorf("CalibrationInterval: expected 10ms, got %v", s.CalibrationInterval())
	}
	if s.LoopInterval() != 100*time.Millisecond {
		t.Errorf("LoopInterval: expected 100ms, got %v", s.LoopInterval())
	}
	if s.Settle() != 40*time.Millisecond {
		t.Errorf("Settle: expected 40ms, got %v", s.Settle())
	}
	if s.SharedDebounce() {
		t.Error("SharedDebounce should be off by default")
	}
	if s.ZeroOnDisable() {
		t.Error("ZeroOnDisable should be off by default")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Default settings should validate, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"no samples", func(s *Settings) { s.CalibrationSamples = 0 }},
		{"dead zone too wide", func(s *Settings) { s.DeadZone = MaxADC }},
		{"no debounce", func(s *Settings) { s.DebounceMs = 0 }},
	}

	for _, tt := range tests {
		s := Default()
		tt.modify(&s)
		if err := s.Validate(); err != ErrInvalidSettings {
			t.Errorf("%s: expected ErrInvalidSettings, got %v", tt.name, err)
		}
	}
}

func TestSettingsFlags(t *testing.T) {
	s := Default()
	s.Flags = FlagSharedDebounce | FlagZeroOnDisable

	if !s.SharedDebounce() {
		t.Error("SharedDebounce flag not reported")
	}
	if !s.ZeroOnDisable() {
		t.Error("ZeroOnDisable flag not reported")
	}
}

func TestSettingsMarshalUnmarshal(t *testing.T) {
	original := Default()
	original.Flags = FlagZeroOnDisable
	original.Reserved2 = 0xABCD

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != 16 {
		t.Errorf("Expected 16 bytes, got %d", len(data))
	}

	// Spot-check the packed layout
	if data[2] != 200 || data[3] != 0 {
		t.Errorf("DeadZone bytes: expected [200 0], got [%d %d]", data[2], data[3])
	}
	if data[12] != FlagZeroOnDisable {
		t.Errorf("Flags byte: expected 0x%x, got 0x%x", FlagZeroOnDisable, data[12])
	}

	var decoded Settings
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if decoded != original {
		t.Errorf("Decoded settings differ: expected %+v, got %+v", original, decoded)
	}
}

func TestUnmarshalInvalidSize(t *testing.T) {
	var s Settings
	err := s.UnmarshalBinary([]byte{1, 2, 3})
	if err != ErrInvalidSize {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}
