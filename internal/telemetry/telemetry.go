// Package telemetry computes the four status gauges. The values are smoothed
// pseudo-random walks, not measurements.
package telemetry

import (
	"math"
	"math/rand"

	"github.com/samber/lo"
	"hive-map.klederson.com/internal/config"
)

// BatteryCycle is the drain period of the live battery gauge, in ticks.
const BatteryCycle = 240

// Snapshot is one set of gauge readings.
type Snapshot struct {
	DeviceCount             int `json:"device_count"`
	LinkQualityPercent      int `json:"link_quality"`
	BatteryPercent          int `json:"battery"`
	NoiseSuppressionPercent int `json:"noise_suppression"`
}

// Gauges produces snapshots for one session.
type Gauges struct {
	Preset config.Preset
	rng    *rand.Rand
}

// New creates gauges for preset.
func New(preset config.Preset, rng *rand.Rand) *Gauges {
	return &Gauges{Preset: preset, rng: rng}
}

// Compute returns the gauges for tick. scanned is the live network count and
// is used as the device count when haveScan is true.
func (g *Gauges) Compute(tick, scanned int, haveScan bool) Snapshot {
	s := Snapshot{DeviceCount: scanned}
	if !haveScan {
		s.DeviceCount = config.DeviceCountMin + g.rng.Intn(config.DeviceCountMax-config.DeviceCountMin)
	}

	if g.Preset == config.PresetStatic {
		s.BatteryPercent = g.normal(78, 8, 35, 98)
		s.LinkQualityPercent = g.normal(93, 4, 70, 100)
		s.NoiseSuppressionPercent = g.normal(84, 6, 40, 99)
		return s
	}

	t := float64(tick)
	link := 90 + 6*math.Sin(t/9) + g.rng.NormFloat64()*1.2
	drain := 81 * float64(tick%BatteryCycle) / BatteryCycle
	battery := 99 - drain + g.rng.NormFloat64()*0.5
	noise := 74 + 9*math.Sin(t/15) + g.rng.NormFloat64()*1.5

	s.LinkQualityPercent = int(lo.Clamp(link, 72, 99))
	s.BatteryPercent = int(lo.Clamp(battery, 18, 99))
	s.NoiseSuppressionPercent = int(lo.Clamp(noise, 60, 90))
	return s
}

func (g *Gauges) normal(mean, sigma, floor, ceil float64) int {
	return int(lo.Clamp(mean+g.rng.NormFloat64()*sigma, floor, ceil))
}
