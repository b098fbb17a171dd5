package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/telemetry"
)

// RenderGauges renders the four status gauges as labelled bars.
func RenderGauges(t telemetry.Snapshot, width int) string {
	innerW := max(24, width-4)
	barW := max(8, innerW-22)

	lines := []string{
		StylePanelTitle.Render("TELEMETRY"),
		gaugeLine("Devices", fmt.Sprintf("%d", t.DeviceCount), ""),
		gaugeLine("Link", fmt.Sprintf("%d%%", t.LinkQualityPercent), renderBar(t.LinkQualityPercent, barW)),
		gaugeLine("Battery", fmt.Sprintf("%d%%", t.BatteryPercent), renderBar(t.BatteryPercent, barW)),
		gaugeLine("Noise sup", fmt.Sprintf("%d%%", t.NoiseSuppressionPercent), renderBar(t.NoiseSuppressionPercent, barW)),
	}
	return StylePanelBorder.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func gaugeLine(label, value, bar string) string {
	return StyleGaugeLabel.Render(fmt.Sprintf("  %-10s", label)) + bar + StyleGaugeValue.Render(" "+value)
}

// renderBar fills width cells in proportion to a 0-100 percentage.
func renderBar(percent, width int) string {
	ratio := math.Max(0, math.Min(1, float64(percent)/100))
	filled := int(math.Round(ratio * float64(width)))

	bar := strings.Repeat("|", filled) + strings.Repeat("-", width-filled)
	filledPart := lipgloss.NewStyle().Foreground(levelColor(percent)).Render(bar[:filled])
	emptyPart := lipgloss.NewStyle().Foreground(ColorDimGreen).Render(bar[filled:])
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

func levelColor(percent int) lipgloss.Color {
	switch {
	case percent >= 70:
		return ColorLime
	case percent >= 40:
		return ColorWarning
	default:
		return ColorError
	}
}
