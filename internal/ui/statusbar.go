package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/dashboard"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, live bool, f dashboard.Frame) string {
	status := StyleStatusPaused.Render("[PAUSED]")
	if live {
		status = StyleStatusLive.Render("[LIVE]")
	}

	info := fmt.Sprintf(" Tick: %d  Nodes: %d (%s)  Sweep: %ddeg  Range: 0-%.0fm  WiFi: %s (scan %s)  Audio: %s (alert %s)  Preset: %s",
		f.Tick, len(f.Nodes), f.Sources.Nodes, int(f.Sweep), f.Range,
		f.Sources.Wireless, tickLabel(f.LastScanTick), f.Sources.Spectrum, tickLabel(f.LastAlertTick), f.Preset)

	content := status + StyleStatusBar.Foreground(ColorGreen).Render(info)

	gap := max(0, width-lipgloss.Width(content))
	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}

// tickLabel formats a tick that may be -1 for "never".
func tickLabel(tick int) string {
	if tick < 0 {
		return "-"
	}
	return fmt.Sprintf("t%d", tick)
}
