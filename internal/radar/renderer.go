package radar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	colorBright  = lipgloss.Color("#A6FF00")
	colorMid     = lipgloss.Color("#4F8A00")
	colorDim     = lipgloss.Color("#1E3300")
	colorStrong  = lipgloss.Color("#A6FF00")
	colorWeak    = lipgloss.Color("#00D9FF")
	colorLabel   = lipgloss.Color("#6FA800")
	colorSweepHi = lipgloss.Color("#D4FF66")

	styleCenter    = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing      = lipgloss.NewStyle().Foreground(colorMid)
	styleDot       = lipgloss.NewStyle().Foreground(colorDim)
	styleStrong    = lipgloss.NewStyle().Foreground(colorStrong).Bold(true)
	styleWeak      = lipgloss.NewStyle().Foreground(colorWeak).Bold(true)
	styleLit       = lipgloss.NewStyle().Foreground(colorSweepHi).Bold(true)
	styleLabel     = lipgloss.NewStyle().Foreground(colorLabel)
	styleLegStrong = lipgloss.NewStyle().Foreground(colorStrong)
	styleLegWeak   = lipgloss.NewStyle().Foreground(colorWeak)
)

const (
	maxLabelLen = 8
	strongDBm   = -60.0 // at or above: drawn as a strong node
)

type segment struct{ start, end int }

// Render draws the radar disc with rings, crosshair, sweep trail and the
// node markers with their IDs.
func Render(width, height int, nodes []Node, maxRange float64, sweep Sweep) string {
	if width < 10 || height < 5 {
		return ""
	}

	g := newGrid(width, height)
	markers, labels := placeNodes(g, nodes, maxRange, width)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			key := row*width + col
			if ch, ok := labels[key]; ok {
				if ch != 0 {
					sb.WriteString(styleLabel.Render(string(ch)))
				}
				continue
			}
			dist, angle := g.polar(col, row)
			if n, ok := markers[key]; ok {
				sb.WriteString(renderNode(n, sweep, angle))
				continue
			}
			sb.WriteString(renderCell(g, col, row, dist, angle, sweep))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// placeNodes returns marker and label cells keyed by row*width+col. A label
// goes right of its marker, or one row below or above; if all three
// collide it is dropped. A double-width rune owns two cells; the second
// is stored as 0 and draws nothing.
func placeNodes(g grid, nodes []Node, maxRange float64, width int) (map[int]Node, map[int]rune) {
	markers := make(map[int]Node, len(nodes))
	labels := make(map[int]rune)
	occupied := make(map[int][]segment)

	for _, n := range nodes {
		col, row := g.cell(n, maxRange)
		markers[row*width+col] = n
		occupied[row] = append(occupied[row], segment{col, col + 1})

		label := runewidth.Truncate(n.ID, maxLabelLen, "")
		w := runewidth.StringWidth(label)
		lc := col + 2
		if lc+w >= width {
			lc = max(0, col-w-1)
		}
		if w == 0 || lc+w > width {
			continue
		}
		for _, lr := range []int{row, row + 1, row - 1} {
			if collides(occupied[lr], lc, lc+w) {
				continue
			}
			c := lc
			for _, r := range label {
				labels[lr*width+c] = r
				for i := 1; i < runewidth.RuneWidth(r); i++ {
					labels[lr*width+c+i] = 0
				}
				c += runewidth.RuneWidth(r)
			}
			occupied[lr] = append(occupied[lr], segment{lc, lc + w})
			break
		}
	}

	return markers, labels
}

func collides(segs []segment, start, end int) bool {
	for _, seg := range segs {
		if start < seg.end && end > seg.start {
			return true
		}
	}
	return false
}

func renderCell(g grid, col, row int, dist, angle float64, sweep Sweep) string {
	switch {
	case dist > g.radius+0.5:
		return " "
	case col == g.cx && row == g.cy:
		return styleCenter.Render("+")
	case col == g.cx:
		return renderSweepChar('|', sweep, angle)
	case row == g.cy:
		return renderSweepChar('-', sweep, angle)
	case g.onRing(dist):
		return renderSweepChar(ringChar(angle), sweep, angle)
	case dist <= g.radius:
		return renderSweepChar('.', sweep, angle)
	}
	return " "
}

func renderNode(n Node, sweep Sweep, cellAngle float64) string {
	if sweep.Intensity(cellAngle) > 0.5 {
		return styleLit.Render("+")
	}
	if n.SignalDBm >= strongDBm {
		return styleStrong.Render("+")
	}
	return styleWeak.Render("x")
}

func renderSweepChar(ch rune, sweep Sweep, angle float64) string {
	color := sweepColor(sweep.Intensity(angle))
	if color == "" {
		if ch == '.' {
			return styleDot.Render(".")
		}
		return styleRing.Render(string(ch))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(ch))
}

func sweepColor(intensity float64) string {
	if intensity <= 0 {
		return ""
	}
	if intensity > 0.8 {
		return "#D4FF66"
	}
	if intensity > 0.5 {
		return "#A6FF00"
	}
	if intensity > 0.3 {
		return "#6FA800"
	}
	return "#2E5200"
}

// RenderLegend produces the radar legend line.
func RenderLegend(width int) string {
	legend := "   " +
		styleLegStrong.Render("+ strong") +
		"  " +
		styleLegWeak.Render("x weak")

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}
