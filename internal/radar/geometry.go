package radar

import (
	"math"

	"hive-map.klederson.com/internal/config"
)

// PolarToXY converts a compass bearing and range to plane coordinates with
// north on +Y and east on +X.
func PolarToXY(angleDeg, r float64) (x, y float64) {
	a := DegToRad(angleDeg)
	return r * math.Sin(a), r * math.Cos(a)
}

// DegToRad converts compass degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// grid maps terminal cells to the radar disc. Rows are squashed by
// config.AspectRatio since a cell is about twice as tall as it is wide.
type grid struct {
	cx, cy int
	radius float64
	rings  []float64
}

func newGrid(width, height int) grid {
	g := grid{cx: width / 2, cy: height / 2}
	g.radius = max(3, float64(min(g.cx-1, int(float64(g.cy-1)/config.AspectRatio))))
	g.rings = make([]float64, config.RingCount)
	for i := range g.rings {
		g.rings[i] = g.radius * float64(i+1) / float64(config.RingCount)
	}
	return g
}

// polar returns the distance from the center in cell widths and the compass
// bearing in radians, 0 = north, clockwise.
func (g grid) polar(col, row int) (dist, angle float64) {
	dx := float64(col - g.cx)
	dy := float64(row-g.cy) / config.AspectRatio
	return math.Hypot(dx, dy), NormalizeAngle(math.Atan2(dx, -dy))
}

// cell places a node. Ranges beyond maxRange sit on the outer ring.
func (g grid) cell(n Node, maxRange float64) (col, row int) {
	r := g.radius * math.Min(n.RangeMeters/maxRange, 1)
	x, y := PolarToXY(n.AngleDegrees, r)
	return g.cx + int(math.Round(x)), g.cy - int(math.Round(y*config.AspectRatio))
}

// onRing reports whether dist falls on one of the range rings.
func (g grid) onRing(dist float64) bool {
	for _, r := range g.rings {
		if math.Abs(dist-r) < 0.8 {
			return true
		}
	}
	return false
}

// ringChar picks the stroke that best follows a ring at angle.
func ringChar(angle float64) rune {
	switch int(math.Round(angle/(math.Pi/4))) % 8 {
	case 0, 4:
		return '-'
	case 1, 5:
		return '/'
	case 2, 6:
		return '|'
	default:
		return '\\'
	}
}
