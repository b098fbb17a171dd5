package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar with the key bindings and the
// current live/rate/range selection.
func RenderMenuBar(width int, live bool, rate int, maxRange float64) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"SPC", "live"},
		{"+/-", "rate"},
		{"[/]", "range"},
		{"R", "escan"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStatusPaused.Render("PAUSED")
	if live {
		status = StyleStatusLive.Render("LIVE")
	}
	settings := StyleMenuLabel.Render(fmt.Sprintf("%d fps  %.0fm", rate, maxRange))

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + settings + " "

	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
