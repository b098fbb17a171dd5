// Package dashboard owns the per-session state and turns one tick into one
// Frame. It has no timer of its own; drivers call Advance at their cadence.
package dashboard

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/eventlog"
	"hive-map.klederson.com/internal/logging"
	"hive-map.klederson.com/internal/radar"
	"hive-map.klederson.com/internal/spectrum"
	"hive-map.klederson.com/internal/telemetry"
	"hive-map.klederson.com/internal/wireless"
)

// Options configures a Session. Zero values get sensible defaults.
type Options struct {
	Preset config.Preset
	Range  float64

	Scanner     wireless.Scanner
	ScanEvery   int
	ScanTimeout time.Duration

	Capturer       spectrum.Capturer
	CaptureTimeout time.Duration
	SampleRate     int
	Bins           int

	Rand  *rand.Rand
	Clock func() time.Time
	Log   logrus.FieldLogger
}

func (o *Options) setDefaults() {
	if !o.Preset.Valid() {
		o.Preset = config.PresetLive
	}
	if o.Range == 0 {
		o.Range = config.DefaultRange
	}
	o.Range = config.ClampRange(o.Range)
	if o.Scanner == nil {
		o.Scanner = wireless.Unavailable{Reason: "not configured"}
	}
	if o.ScanEvery == 0 {
		o.ScanEvery = config.ScanEveryTicks
	}
	if o.ScanTimeout == 0 {
		o.ScanTimeout = config.ScanTimeout
	}
	if o.Capturer == nil {
		o.Capturer = spectrum.Unavailable{Reason: "not configured"}
	}
	if o.CaptureTimeout == 0 {
		o.CaptureTimeout = config.CaptureTimeout
	}
	if o.SampleRate == 0 {
		o.SampleRate = config.SampleRate
	}
	if o.Bins == 0 {
		o.Bins = config.SpectrumBins
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
}

// Session is the state of one rendering context. Not safe for concurrent
// use; each driver owns its own.
type Session struct {
	opts Options

	tick   int
	nodes  []radar.Node
	poller *wireless.Poller
	source *spectrum.Source
	latch  *spectrum.Latch
	gauges *telemetry.Gauges
	events *eventlog.Log
}

// New creates a session at tick 0.
func New(opts Options) *Session {
	opts.setDefaults()
	s := &Session{
		opts:   opts,
		poller: wireless.NewPoller(opts.Scanner, opts.ScanEvery, opts.ScanTimeout),
		source: &spectrum.Source{
			Capturer:   opts.Capturer,
			Generator:  spectrum.NewGenerator(opts.Preset, opts.Bins, opts.Rand),
			SampleRate: opts.SampleRate,
			Timeout:    opts.CaptureTimeout,
			Log:        opts.Log,
		},
		latch:  spectrum.NewLatch(opts.Preset.AlertThreshold(), config.AlertHoldTicks),
		gauges: telemetry.New(opts.Preset, opts.Rand),
		events: eventlog.New(opts.Clock),
	}
	return s
}

// Tick returns the number of frames produced since the session started.
func (s *Session) Tick() int { return s.tick }

// Preset returns the session's preset.
func (s *Session) Preset() config.Preset { return s.opts.Preset }

// Range returns the current radar range.
func (s *Session) Range() float64 { return s.opts.Range }

// SetRange changes the radar range, clamped to the selector bounds. It takes
// effect on the next Advance.
func (s *Session) SetRange(r float64) {
	s.opts.Range = config.ClampRange(r)
}

// Rescan discards all session state. The next Advance starts from tick 1
// with empty logs and no cached scan.
func (s *Session) Rescan() {
	s.tick = 0
	s.nodes = nil
	s.poller.Reset()
	s.latch.Reset()
	s.events.Reset()
	s.opts.Log.Debug("session state discarded")
}

// Advance moves the session forward one tick and returns what to draw.
// Blocking real-data calls (scan, capture) happen here and are bounded by
// their timeouts and by ctx.
func (s *Session) Advance(ctx context.Context) Frame {
	s.tick++
	tick := s.tick
	log := s.opts.Log.WithField("tick", tick)

	scan := s.poller.Poll(ctx, tick)
	if scan.Attempted {
		switch {
		case scan.Err != nil:
			log.WithError(scan.Err).Debug("wireless scan failed")
		case scan.Found > 0:
			s.events.Append(eventlog.Radar, eventlog.OK, fmt.Sprintf("wireless scan found %d networks", scan.Found))
		}
		if scan.Found == 0 && !scan.HaveData {
			s.events.Append(eventlog.Radar, eventlog.Warn, "wireless scan returned nothing, using fallback nodes")
		}
	}

	s.events.AppendScheduled(tick)

	nodeSource := s.updateNodes(scan)

	spec := s.source.Next(ctx, tick)
	peak := spec.Peak()
	alert, entered := s.latch.Observe(tick, peak)
	if entered {
		s.events.Append(eventlog.Audio, eventlog.Warn, fmt.Sprintf("voice signature above threshold (peak %.2f)", peak))
		log.WithField("peak", peak).Debug("audio alert latched")
	}

	f := Frame{
		Tick:      tick,
		Time:      s.opts.Clock(),
		Preset:    s.opts.Preset,
		Range:     s.opts.Range,
		Sweep:     radar.SweepAt(tick).Degrees(),
		Nodes:     append([]radar.Node(nil), s.nodes...),
		Hover:     lo.Map(s.nodes, func(n radar.Node, _ int) string { return n.Hover() }),
		Spectrum:  spec,
		Smoothed:  spec.Smoothed(config.SmoothWindow),
		Peak:      peak,
		Alert:     alert,
		Telemetry: s.gauges.Compute(tick, len(scan.Networks), scan.HaveData),
		Logs:      make(map[eventlog.Channel][]eventlog.Entry, len(eventlog.Channels)),
		Sources: Sources{
			Wireless: s.opts.Scanner.Name(),
			Audio:    s.opts.Capturer.Name(),
			Nodes:    nodeSource,
			Spectrum: spec.Source,
		},
	}
	f.LastScanTick, f.LastAlertTick = s.poller.LastSuccess(), -1
	if trig, ok := s.latch.LastTrigger(); ok {
		f.LastAlertTick = trig
	}
	if alert {
		f.VoiceMatch = spectrum.VoiceMatch(peak)
	}
	for _, c := range eventlog.Channels {
		f.Logs[c] = s.events.View(c)
	}
	return f
}

// updateNodes recomputes the node list. Without a scanner every tick gets a
// fresh simulated set; with one, the last non-empty scan is shown, or the
// fallback nodes when no scan has produced anything yet.
func (s *Session) updateNodes(scan wireless.PollResult) string {
	r := s.opts.Range
	switch {
	case !s.opts.Scanner.Available():
		s.nodes = radar.GenerateNodes(s.opts.Rand, radar.SimulatedCount(s.opts.Rand), r)
		return NodesSimulated
	case scan.HaveData:
		networks := lo.Map(scan.Networks, func(n wireless.Network, _ int) radar.Network {
			return radar.Network{Name: n.Name, SignalDBm: n.SignalDBm}
		})
		s.nodes = radar.NodesFromNetworks(networks, r)
		return NodesScan
	default:
		s.nodes = radar.FallbackNodes(r)
		return NodesFallback
	}
}
