package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/eventlog"
	"hive-map.klederson.com/internal/spectrum"
	"hive-map.klederson.com/internal/telemetry"
)

func TestResampleKeepsPeaks(t *testing.T) {
	in := make([]float64, 170)
	in[101] = 1
	out := resample(in, 40)
	if len(out) != 40 {
		t.Fatalf("len = %d", len(out))
	}
	peaks := 0
	for _, v := range out {
		if v == 1 {
			peaks++
		}
	}
	if peaks != 1 {
		t.Errorf("peak survived in %d buckets, want 1", peaks)
	}
	if resample(nil, 10) != nil {
		t.Error("empty input should give nil")
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		percent, width, filled int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{140, 10, 10},
	}
	for _, tt := range tests {
		bar := renderBar(tt.percent, tt.width)
		if w := lipgloss.Width(bar); w != tt.width+2 {
			t.Errorf("renderBar(%d) width %d, want %d", tt.percent, w, tt.width+2)
		}
		if got := strings.Count(bar, "|"); got != tt.filled {
			t.Errorf("renderBar(%d) filled %d, want %d", tt.percent, got, tt.filled)
		}
	}
}

func TestSparklineWidth(t *testing.T) {
	vals := []float64{0, 0.25, 0.5, 0.75, 1, 1.5, -1}
	if got := []rune(renderSparkline(vals, 5)); len(got) != 5 {
		t.Errorf("sparkline has %d cells, want 5", len(got))
	}
	if got := renderSparkline(nil, 5); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
}

func TestClampLines(t *testing.T) {
	if got := strings.Count(clampLines("a\nb\nc\nd", 2), "\n"); got != 1 {
		t.Errorf("truncated to %d lines", got+1)
	}
	if got := strings.Count(clampLines("a", 4), "\n"); got != 3 {
		t.Errorf("padded to %d lines", got+1)
	}
}

func TestRenderLogPanelHeight(t *testing.T) {
	var entries []eventlog.Entry
	for i := 0; i < 20; i++ {
		entries = append(entries, eventlog.Entry{
			Channel:   eventlog.Radar,
			Severity:  eventlog.Warn,
			Timestamp: "12:00:00.000",
			Message:   strings.Repeat("long message ", 10),
		})
	}
	out := RenderLogPanel(eventlog.Radar, entries, 40, 8)
	if lines := strings.Split(out, "\n"); len(lines) != 8 {
		t.Errorf("panel has %d lines, want 8", len(lines))
	}
	if !strings.Contains(out, "RADAR LOG [20]") {
		t.Error("missing title")
	}
}

func TestRenderSpectrumPanelAlert(t *testing.T) {
	f := dashboard.Frame{
		Time:       time.Now(),
		Spectrum:   spectrum.Spectrum{Samples: []spectrum.Sample{{FrequencyHz: 0, Amplitude: 0.2}, {FrequencyHz: 4000, Amplitude: 0.9}}, Source: spectrum.SourceSimulated},
		Smoothed:   []float64{0.2, 0.55},
		Peak:       0.9,
		Alert:      true,
		VoiceMatch: 98,
	}
	out := RenderSpectrumPanel(f, 60, 16)
	if !strings.Contains(out, "match 98%") {
		t.Error("alert badge missing")
	}
	if lines := strings.Split(out, "\n"); len(lines) != 16 {
		t.Errorf("panel has %d lines, want 16", len(lines))
	}
}

func TestRenderGauges(t *testing.T) {
	out := RenderGauges(telemetry.Snapshot{DeviceCount: 7, LinkQualityPercent: 91, BatteryPercent: 64, NoiseSuppressionPercent: 80}, 50)
	for _, want := range []string{"Devices", "7", "91%", "64%", "80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("gauges missing %q", want)
		}
	}
}

func TestStatusBarShowsLastTicks(t *testing.T) {
	f := dashboard.Frame{Tick: 14, LastScanTick: 11, LastAlertTick: -1}
	out := RenderStatusBar(200, true, f)
	if !strings.Contains(out, "scan t11") || !strings.Contains(out, "alert -") {
		t.Errorf("status bar = %q", out)
	}
}
