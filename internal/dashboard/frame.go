package dashboard

import (
	"time"

	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/eventlog"
	"hive-map.klederson.com/internal/radar"
	"hive-map.klederson.com/internal/spectrum"
	"hive-map.klederson.com/internal/telemetry"
)

// Where the frame's nodes came from.
const (
	NodesSimulated = "simulated"
	NodesScan      = "scan"
	NodesFallback  = "fallback"
)

// Sources names the backends that produced a frame.
type Sources struct {
	Wireless string `json:"wireless"`
	Audio    string `json:"audio"`
	Nodes    string `json:"nodes"`
	Spectrum string `json:"spectrum"`
}

// Frame is everything a surface needs to draw one tick.
type Frame struct {
	Tick   int           `json:"tick"`
	Time   time.Time     `json:"time"`
	Preset config.Preset `json:"preset"`

	// Ticks of the last non-empty scan and the last alert trigger, -1 if none
	// happened since the session started or was rescanned.
	LastScanTick  int `json:"last_scan_tick"`
	LastAlertTick int `json:"last_alert_tick"`

	Range float64      `json:"range"`
	Sweep float64      `json:"sweep"` // degrees
	Nodes []radar.Node `json:"nodes"`
	Hover []string     `json:"hover"`

	Spectrum   spectrum.Spectrum `json:"spectrum"`
	Smoothed   []float64         `json:"smoothed"`
	Peak       float64           `json:"peak"`
	Alert      bool              `json:"alert"`
	VoiceMatch int               `json:"voice_match,omitempty"`

	Telemetry telemetry.Snapshot                    `json:"telemetry"`
	Logs      map[eventlog.Channel][]eventlog.Entry `json:"logs"`
	Sources   Sources                               `json:"sources"`
}

// SweepState returns the sweep in the form the terminal renderer takes.
func (f Frame) SweepState() radar.Sweep {
	return radar.Sweep{Angle: radar.DegToRad(f.Sweep)}
}
