package spectrum

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Source yields one spectrum per tick, preferring a real capture and falling
// back to the generator for that tick on any failure.
type Source struct {
	Capturer   Capturer
	Generator  *Generator
	SampleRate int
	Timeout    time.Duration
	Log        logrus.FieldLogger
}

// Next never fails; capture errors are logged at debug level and replaced by
// a simulated spectrum.
func (s *Source) Next(ctx context.Context, tick int) Spectrum {
	if s.Capturer != nil && s.Capturer.Available() {
		spec, err := s.capture(ctx)
		if err == nil {
			return spec
		}
		if s.Log != nil {
			s.Log.WithError(err).WithField("tick", tick).Debug("audio capture failed, simulating")
		}
	}
	return s.Generator.Generate(tick)
}

func (s *Source) capture(ctx context.Context) (Spectrum, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	samples, err := s.Capturer.Capture(ctx)
	if err != nil {
		return Spectrum{}, err
	}
	return Analyze(samples, s.SampleRate)
}
