package config

// Preset selects between the two dashboard variants. They differ in spectrum
// drift, alert threshold and gauge formulas.
type Preset string

const (
	PresetLive   Preset = "live"
	PresetStatic Preset = "static"
)

func (p Preset) Valid() bool {
	return p == PresetLive || p == PresetStatic
}

// AlertThreshold is the spectrum peak level that trips the audio alert.
func (p Preset) AlertThreshold() float64 {
	if p == PresetStatic {
		return 0.65
	}
	return 0.45
}
