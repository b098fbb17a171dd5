package ui

import "github.com/charmbracelet/lipgloss"

// Night-ops palette: neon lime on near-black with electric blue accents.
var (
	ColorLime        = lipgloss.Color("#A6FF00")
	ColorGreen       = lipgloss.Color("#6FA800")
	ColorMidGreen    = lipgloss.Color("#4F8A00")
	ColorDimGreen    = lipgloss.Color("#1E3300")
	ColorBlue        = lipgloss.Color("#00D9FF")
	ColorBorderNorm  = lipgloss.Color("#2E5200")
	ColorBorderAlert = lipgloss.Color("#FF0050")
	ColorError       = lipgloss.Color("#FF3300")
	ColorWarning     = lipgloss.Color("#FFAA00")
	ColorText        = lipgloss.Color("#EAF2FF")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#0B1400")).
			Foreground(ColorLime).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorLime).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#0B1400")).
			Foreground(ColorGreen).
			Padding(0, 1)

	StyleStatusLive = lipgloss.NewStyle().
			Foreground(ColorLime).
			Bold(true)

	StyleStatusPaused = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderNorm)

	StylePanelAlert = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorderAlert)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorLime).
			Bold(true).
			Padding(0, 1)

	StyleRule = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleTrace = lipgloss.NewStyle().
			Foreground(ColorBlue)

	StyleSmoothed = lipgloss.NewStyle().
			Foreground(ColorLime)

	StyleAxis = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleAlertBadge = lipgloss.NewStyle().
			Background(lipgloss.Color("#330010")).
			Foreground(lipgloss.Color("#FFECEC")).
			Bold(true).
			Padding(0, 1)

	StyleCalmBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8FFE0")).
			Padding(0, 1)

	StyleGaugeLabel = lipgloss.NewStyle().
			Foreground(ColorGreen)

	StyleGaugeValue = lipgloss.NewStyle().
			Foreground(ColorLime).
			Bold(true)

	StyleLogTime = lipgloss.NewStyle().
			Foreground(ColorMidGreen)

	StyleLogText = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleSevInfo = lipgloss.NewStyle().
			Foreground(ColorBlue)

	StyleSevOK = lipgloss.NewStyle().
			Foreground(ColorLime).
			Bold(true)

	StyleSevWarn = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleSevErr = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDimGreen)
)
