package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the radar beside the spectrum and gauge
// column, the three log panels and the status bar.
func ComposeLayout(menuBar, radarPanel, sideColumn, logRow, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, radarPanel, sideColumn)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, logRow, statusBar)
}

// Column stacks panels vertically.
func Column(panels ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

// Row joins panels side by side.
func Row(panels ...string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}
