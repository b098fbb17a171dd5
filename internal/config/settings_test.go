package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hive.yaml")
	data := []byte(`
preset: static
rate: 6
range: 12
wireless:
  backend: demo
  timeout: 250ms
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Preset != "static" || s.Rate != 6 || s.Range != 12 {
		t.Errorf("got preset=%s rate=%d range=%.1f", s.Preset, s.Rate, s.Range)
	}
	if s.Wireless.Backend != "demo" || s.Wireless.Timeout != 250*time.Millisecond {
		t.Errorf("wireless = %+v", s.Wireless)
	}
	// Untouched keys keep their defaults.
	if s.Listen != ":8080" || !s.Audio.Enabled {
		t.Errorf("defaults lost: listen=%q audio=%v", s.Listen, s.Audio.Enabled)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Settings)
		valid bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"bad preset", func(s *Settings) { s.Preset = "turbo" }, false},
		{"rate low", func(s *Settings) { s.Rate = 1 }, false},
		{"rate high", func(s *Settings) { s.Rate = 13 }, false},
		{"range low", func(s *Settings) { s.Range = 7.9 }, false},
		{"range high", func(s *Settings) { s.Range = 20.5 }, false},
		{"bad backend", func(s *Settings) { s.Wireless.Backend = "zigbee" }, false},
		{"ble backend", func(s *Settings) { s.Wireless.Backend = "ble" }, true},
	}

	for _, tt := range tests {
		s := Defaults()
		tt.edit(&s)
		err := s.Validate()
		if tt.valid && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.valid && !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", tt.name, err)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := ClampRate(0); got != MinRate {
		t.Errorf("ClampRate(0) = %d", got)
	}
	if got := ClampRate(40); got != MaxRate {
		t.Errorf("ClampRate(40) = %d", got)
	}
	if got := ClampRange(12); got != 12 {
		t.Errorf("ClampRange(12) = %f", got)
	}
	if got := ClampRange(100); got != MaxRange {
		t.Errorf("ClampRange(100) = %f", got)
	}
}
