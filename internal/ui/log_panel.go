package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"hive-map.klederson.com/internal/eventlog"
)

// RenderLogPanel renders one channel's log, newest entry on top. The title
// stays fixed and entries are clipped to the panel height.
func RenderLogPanel(c eventlog.Channel, entries []eventlog.Entry, width, height int) string {
	innerW := max(10, width-4)

	title := StylePanelTitle.Render(fmt.Sprintf("%s LOG [%d]", strings.ToUpper(c.String()), len(entries)))
	separator := StyleRule.Render(strings.Repeat("-", innerW))
	headerLines := []string{title, separator}

	innerH := max(len(headerLines)+1, height-2)
	space := innerH - len(headerLines)

	var lines []string
	if len(entries) == 0 {
		lines = append(lines, StyleHelp.Render(" Waiting for events"))
	}
	for _, e := range entries {
		if len(lines) >= space {
			break
		}
		lines = append(lines, renderLogEntry(e, innerW))
	}
	for len(lines) < space {
		lines = append(lines, "")
	}

	all := append(headerLines, lines...)
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(all, "\n"))
	return clampLines(rendered, height)
}

func renderLogEntry(e eventlog.Entry, maxW int) string {
	// [15:04:05.000] WARN message
	msgW := max(4, maxW-21)
	msg := e.Message
	if len(msg) > msgW {
		msg = msg[:msgW]
	}
	return StyleLogTime.Render("["+e.Timestamp+"]") + " " +
		severityStyle(e.Severity).Render(fmt.Sprintf("%-4s", e.Severity)) + " " +
		StyleLogText.Render(msg)
}

func severityStyle(s eventlog.Severity) lipgloss.Style {
	switch s {
	case eventlog.OK:
		return StyleSevOK
	case eventlog.Warn:
		return StyleSevWarn
	case eventlog.Err:
		return StyleSevErr
	default:
		return StyleSevInfo
	}
}

// clampLines pads or truncates rendered output to exactly height lines.
// lipgloss Height() only sets a minimum; it won't truncate overflow.
func clampLines(rendered string, height int) string {
	outLines := strings.Split(rendered, "\n")
	if len(outLines) > height {
		outLines = outLines[:height]
	}
	for len(outLines) < height {
		outLines = append(outLines, "")
	}
	return strings.Join(outLines, "\n")
}
