package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure returned from Settings.Validate.
var ErrInvalid = errors.New("invalid settings")

// Settings holds the tunables a user may change from a YAML file or flags.
type Settings struct {
	Preset  Preset  `yaml:"preset"`
	Live    bool    `yaml:"live"`
	Rate    int     `yaml:"rate"`
	Range   float64 `yaml:"range"`
	Listen  string  `yaml:"listen"`
	LogFile string  `yaml:"log_file"`
	Debug   bool    `yaml:"debug"`

	Wireless WirelessSettings `yaml:"wireless"`
	Audio    AudioSettings    `yaml:"audio"`
}

// WirelessSettings selects the scan backend.
type WirelessSettings struct {
	Backend   string        `yaml:"backend"` // auto, nmcli, iw, ble, demo, off
	Interface string        `yaml:"interface"`
	Timeout   time.Duration `yaml:"timeout"`
}

// AudioSettings selects the capture backend.
type AudioSettings struct {
	Enabled bool   `yaml:"enabled"`
	Device  string `yaml:"device"` // ALSA device passed to arecord, empty = default
}

// Defaults returns the settings used when no file is given.
func Defaults() Settings {
	return Settings{
		Preset: PresetLive,
		Live:   true,
		Rate:   DefaultRate,
		Range:  DefaultRange,
		Listen: ":8080",
		Wireless: WirelessSettings{
			Backend: "auto",
			Timeout: ScanTimeout,
		},
		Audio: AudioSettings{
			Enabled: true,
		},
	}
}

// Load reads a YAML settings file on top of Defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Validate checks ranges the UI selectors enforce.
func (s Settings) Validate() error {
	if !s.Preset.Valid() {
		return fmt.Errorf("%w: preset %q (want live or static)", ErrInvalid, s.Preset)
	}
	if s.Rate < MinRate || s.Rate > MaxRate {
		return fmt.Errorf("%w: rate %d outside [%d,%d]", ErrInvalid, s.Rate, MinRate, MaxRate)
	}
	if s.Range < MinRange || s.Range > MaxRange {
		return fmt.Errorf("%w: range %.1f outside [%.0f,%.0f]", ErrInvalid, s.Range, MinRange, MaxRange)
	}
	switch s.Wireless.Backend {
	case "auto", "nmcli", "iw", "ble", "demo", "off":
	default:
		return fmt.Errorf("%w: wireless backend %q", ErrInvalid, s.Wireless.Backend)
	}
	return nil
}

// ClampRate keeps a refresh rate inside the selector bounds.
func ClampRate(rate int) int {
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}

// ClampRange keeps a radar range inside the selector bounds.
func ClampRange(r float64) float64 {
	if r < MinRange {
		return MinRange
	}
	if r > MaxRange {
		return MaxRange
	}
	return r
}
