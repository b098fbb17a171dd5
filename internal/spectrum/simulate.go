package spectrum

import (
	"math"
	"math/rand"

	"github.com/samber/lo"
	"hive-map.klederson.com/internal/config"
)

type peak struct {
	center float64
	gain   float64
}

var peakGains = [4]float64{0.9, 0.7, 0.5, 0.35}

// Static centers are drawn from these bands on every call.
var staticBands = [4][2]float64{
	{120, 220},
	{350, 600},
	{1000, 1500},
	{2200, 2800},
}

// Generator builds simulated spectra. Not safe for concurrent use; each
// session owns its own.
type Generator struct {
	Preset config.Preset
	Bins   int
	MaxHz  float64

	rng *rand.Rand
}

// NewGenerator creates a generator with the given bin count.
func NewGenerator(preset config.Preset, bins int, rng *rand.Rand) *Generator {
	if bins < 2 {
		bins = config.SpectrumBins
	}
	return &Generator{Preset: preset, Bins: bins, MaxHz: config.SpectrumMaxHz, rng: rng}
}

// Generate returns the simulated spectrum for tick.
func (g *Generator) Generate(tick int) Spectrum {
	freqs := LinearBins(g.Bins, g.MaxHz)
	amps := make([]float64, len(freqs))

	minW, maxW, noise := 70.0, 140.0, 0.06
	if g.Preset == config.PresetLive {
		maxW, noise = 95.0, 0.08
	}

	for _, p := range g.peaks(tick) {
		width := minW + g.rng.Float64()*(maxW-minW)
		for i, f := range freqs {
			z := (f - p.center) / width
			amps[i] += p.gain * math.Exp(-0.5*z*z)
		}
	}

	samples := make([]Sample, len(freqs))
	for i, f := range freqs {
		a := amps[i] + noise*g.rng.Float64()
		samples[i] = Sample{FrequencyHz: f, Amplitude: lo.Clamp(a, 0, 1)}
	}
	return Spectrum{Samples: samples, Source: SourceSimulated}
}

// peaks returns the four peak centers. Live centers drift smoothly with the
// tick so the curve animates instead of jumping.
func (g *Generator) peaks(tick int) [4]peak {
	var ps [4]peak
	if g.Preset == config.PresetLive {
		t := float64(tick)
		ps[0].center = 170 + 50*math.Sin(0.21*t)
		ps[1].center = 475 + 120*math.Cos(0.13*t)
		ps[2].center = 1250 + 250*math.Sin(0.07*t)
		ps[3].center = 2500 + 300*math.Cos(0.05*t)
	} else {
		for i, b := range staticBands {
			ps[i].center = b[0] + g.rng.Float64()*(b[1]-b[0])
		}
	}
	for i := range ps {
		ps[i].gain = peakGains[i]
	}
	return ps
}
