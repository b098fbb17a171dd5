package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/dashboard"
)

// RenderSpectrumPanel draws the amplitude curve as a character plot with the
// smoothed trace over it, and the alert badge underneath.
func RenderSpectrumPanel(f dashboard.Frame, width, height int) string {
	innerW := max(20, width-4)
	innerH := max(8, height-2)

	title := StylePanelTitle.Render("AUDIO // SPECTRUM")
	src := StyleHelp.Render(f.Sources.Spectrum)
	titleLine := title + strings.Repeat(" ", max(0, innerW-lipgloss.Width(title)-lipgloss.Width(src))) + src

	plotH := innerH - 4 // title, axis, badge, spark
	amps := resample(f.Spectrum.Amplitudes(), innerW-5)
	smooth := resample(f.Smoothed, innerW-5)

	lines := []string{titleLine}
	lines = append(lines, renderPlot(amps, smooth, plotH)...)
	lines = append(lines, StyleAxis.Render(fmt.Sprintf("     0%sHz 4000", strings.Repeat(" ", max(1, innerW-16)))))
	lines = append(lines, "     "+StyleSmoothed.Render(renderSparkline(smooth, innerW-5)))
	lines = append(lines, alertBadge(f))

	style := StylePanelBorder
	if f.Alert {
		style = StylePanelAlert
	}
	return clampLines(style.Width(width-2).Height(innerH).Render(strings.Join(lines, "\n")), height)
}

func alertBadge(f dashboard.Frame) string {
	if f.Alert {
		return StyleAlertBadge.Render(fmt.Sprintf("VOICE PEAK DETECTED  match %d%%  peak %.2f", f.VoiceMatch, f.Peak))
	}
	return StyleCalmBadge.Render(fmt.Sprintf("background noise nominal  peak %.2f", f.Peak))
}

// renderPlot draws one column per value. Rows run top (1.0) to bottom (0.0);
// the raw trace wins where both traces share a cell.
func renderPlot(amps, smooth []float64, rows int) []string {
	rows = max(2, rows)
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, len(amps))
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	rowOf := func(v float64) int {
		return rows - 1 - int(math.Round(clamp01(v)*float64(rows-1)))
	}
	for c, v := range smooth {
		if c < len(amps) {
			grid[rowOf(v)][c] = StyleSmoothed.Render("·")
		}
	}
	for c, v := range amps {
		top := rowOf(v)
		grid[top][c] = StyleTrace.Render("█")
		for r := top + 1; r < rows; r++ {
			grid[r][c] = StyleTrace.Render("│")
		}
	}

	out := make([]string, rows)
	for r := range grid {
		label := "     "
		switch r {
		case 0:
			label = " 1.0 "
		case rows - 1:
			label = " 0.0 "
		}
		out[r] = StyleAxis.Render(label) + strings.Join(grid[r], "")
	}
	return out
}

// resample picks the max of each bucket so narrow peaks survive.
func resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		start := i * len(values) / n
		end := max(start+1, (i+1)*len(values)/n)
		for _, v := range values[start:min(end, len(values))] {
			out[i] = max(out[i], v)
		}
	}
	return out
}

func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	start := 0
	if len(values) > width {
		start = len(values) - width
	}

	var sb strings.Builder
	for _, v := range values[start:] {
		idx := int(clamp01(v) * float64(len(chars)-1))
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
