package spectrum

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
)

// Analyze turns a captured buffer into a spectrum: Hann window, magnitude of
// the real DFT, normalized by its own peak. A silent buffer yields all zeros.
func Analyze(samples []float64, sampleRate int) (Spectrum, error) {
	n := len(samples)
	if n%2 == 1 {
		n-- // keep the last bin on the Nyquist frequency
	}
	if n < 2 {
		return Spectrum{}, ErrNoSamples
	}

	seq := window.Hann(append([]float64(nil), samples[:n]...))
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	mags := make([]float64, len(coeffs))
	var peak float64
	for i, c := range coeffs {
		mags[i] = cmplx.Abs(c)
		peak = max(peak, mags[i])
	}

	out := make([]Sample, len(coeffs))
	for i, m := range mags {
		amp := 0.0
		if peak > 0 {
			amp = m / peak
		}
		out[i] = Sample{
			FrequencyHz: fft.Freq(i) * float64(sampleRate),
			Amplitude:   amp,
		}
	}
	return Spectrum{Samples: out, Source: SourceCapture}, nil
}
