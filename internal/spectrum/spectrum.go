// Package spectrum produces the acoustic spectrum shown next to the radar:
// a simulated curve of Gaussian peaks, or the magnitude spectrum of a short
// microphone capture when one is available.
package spectrum

import (
	"github.com/samber/lo"
)

// Source names reported in frames.
const (
	SourceSimulated = "simulated"
	SourceCapture   = "capture"
)

// Sample is one frequency bin.
type Sample struct {
	FrequencyHz float64 `json:"hz"`
	Amplitude   float64 `json:"amp"`
}

// Spectrum is an ordered run of samples, frequency strictly ascending from 0
// to the Nyquist limit.
type Spectrum struct {
	Samples []Sample `json:"samples"`
	Source  string   `json:"source"`
}

// Peak returns the largest amplitude, the value the alert latch watches.
func (s Spectrum) Peak() float64 {
	if len(s.Samples) == 0 {
		return 0
	}
	return lo.MaxBy(s.Samples, func(a, b Sample) bool { return a.Amplitude > b.Amplitude }).Amplitude
}

// Amplitudes returns the amplitude column.
func (s Spectrum) Amplitudes() []float64 {
	return lo.Map(s.Samples, func(x Sample, _ int) float64 { return x.Amplitude })
}

// Frequencies returns the frequency column.
func (s Spectrum) Frequencies() []float64 {
	return lo.Map(s.Samples, func(x Sample, _ int) float64 { return x.FrequencyHz })
}

// Smoothed returns a trailing rolling mean over window bins. The first bins
// average over however many values exist so far.
func (s Spectrum) Smoothed(window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(s.Samples))
	var sum float64
	for i, x := range s.Samples {
		sum += x.Amplitude
		if i >= window {
			sum -= s.Samples[i-window].Amplitude
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// LinearBins returns n frequencies evenly spaced over [0, maxHz], with the
// last exactly maxHz.
func LinearBins(n int, maxHz float64) []float64 {
	if n < 2 {
		return []float64{0, maxHz}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = maxHz * float64(i) / float64(n-1)
	}
	out[n-1] = maxHz
	return out
}
