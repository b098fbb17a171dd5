package spectrum

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

var (
	// ErrUnavailable is returned by capturers that were not usable at probe time.
	ErrUnavailable = errors.New("audio capture unavailable")
	// ErrNoSamples means a capture returned an empty buffer.
	ErrNoSamples = errors.New("no audio samples captured")
)

// Capturer records a short mono buffer. Samples are scaled to [-1, 1].
type Capturer interface {
	Name() string
	Available() bool
	Capture(ctx context.Context) ([]float64, error)
}

// Unavailable is the Capturer used when no audio backend could be probed.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string    { return "none" }
func (u Unavailable) Available() bool { return false }

func (u Unavailable) Capture(context.Context) ([]float64, error) {
	return nil, ErrUnavailable
}

// ARecord captures signed 16-bit little-endian PCM through ALSA's arecord.
type ARecord struct {
	Device     string
	SampleRate int
	Samples    int
}

func (a *ARecord) Name() string    { return "arecord" }
func (a *ARecord) Available() bool { return true }

func (a *ARecord) args() []string {
	args := []string{"-q", "-t", "raw", "-f", "S16_LE", "-c", "1",
		"-r", strconv.Itoa(a.SampleRate), "-s", strconv.Itoa(a.Samples)}
	if a.Device != "" {
		args = append(args, "-D", a.Device)
	}
	return append(args, "-")
}

// Capture blocks for the length of the recording.
func (a *ARecord) Capture(ctx context.Context) ([]float64, error) {
	out, err := exec.CommandContext(ctx, "arecord", a.args()...).Output()
	if err != nil {
		return nil, fmt.Errorf("arecord: %w", err)
	}
	samples := decodePCM16(out)
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	return samples, nil
}

func decodePCM16(b []byte) []float64 {
	out := make([]float64, len(b)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(b[2*i:]))
		out[i] = float64(v) / 32768
	}
	return out
}

// ProbeCapturer picks the audio backend once at startup.
func ProbeCapturer(enabled bool, device string, sampleRate, samples int, log logrus.FieldLogger) Capturer {
	var c Capturer
	switch {
	case !enabled:
		c = Unavailable{Reason: "disabled"}
	default:
		if _, err := exec.LookPath("arecord"); err != nil {
			c = Unavailable{Reason: "arecord not found"}
		} else {
			c = &ARecord{Device: device, SampleRate: sampleRate, Samples: samples}
		}
	}

	entry := log.WithField("backend", c.Name())
	if u, ok := c.(Unavailable); ok {
		entry.WithField("reason", u.Reason).Info("audio capture disabled, simulating spectrum")
	} else {
		entry.Info("audio capture available")
	}
	return c
}
