package web

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/samber/lo"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/radar"
)

const chartSize = 520

var (
	colorPanel  = drawing.ColorFromHex("05080A")
	colorGrid   = drawing.ColorFromHex("2E5200")
	colorLime   = drawing.ColorFromHex("A6FF00")
	colorBlue   = drawing.ColorFromHex("00D9FF")
	colorAlert  = drawing.ColorFromHex("FF0050")
	colorLabels = drawing.ColorFromHex("EAF2FF")
)

// pointStyle renders points only, sized per point by size.
func pointStyle(col drawing.Color, size chart.SizeProvider) chart.Style {
	return chart.Style{
		StrokeWidth:      0,
		StrokeColor:      drawing.ColorTransparent,
		DotWidth:         4,
		DotColor:         col,
		DotWidthProvider: size,
	}
}

func lineStyle(col drawing.Color, width float64) chart.Style {
	return chart.Style{StrokeColor: col, StrokeWidth: width}
}

func axisStyle() chart.Style {
	return chart.Style{FontColor: colorLabels, StrokeColor: colorGrid}
}

// SpectrumChart draws the amplitude curve and its smoothed trace.
func SpectrumChart(f dashboard.Frame) chart.Chart {
	freqs := f.Spectrum.Frequencies()
	trace := colorBlue
	if f.Alert {
		trace = colorAlert
	}
	return chart.Chart{
		Title:      fmt.Sprintf("Spectrum (%s)  peak %.2f", f.Spectrum.Source, f.Peak),
		TitleStyle: chart.Style{FontColor: colorLabels},
		Width:      chartSize * 3 / 2,
		Height:     chartSize * 2 / 3,
		Background: chart.Style{FillColor: colorPanel, Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: colorPanel},
		XAxis: chart.XAxis{
			Name:      "Frequency (Hz)",
			NameStyle: axisStyle(),
			Style:     axisStyle(),
			Range:     &chart.ContinuousRange{Min: 0, Max: config.SpectrumMaxHz},
		},
		YAxis: chart.YAxis{
			Name:      "Amplitude",
			NameStyle: axisStyle(),
			Style:     axisStyle(),
			Range:     &chart.ContinuousRange{Min: 0, Max: 1.05},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "Spectrum", XValues: freqs, YValues: f.Spectrum.Amplitudes(), Style: lineStyle(trace, 2.6)},
			chart.ContinuousSeries{Name: "Smoothed", XValues: freqs, YValues: f.Smoothed, Style: lineStyle(colorLime, 1.4)},
		},
	}
}

// RadarChart draws the polar plot on cartesian axes: range rings as line
// series and the nodes as points sized by their marker size.
func RadarChart(f dashboard.Frame) chart.Chart {
	r := f.Range
	series := make([]chart.Series, 0, config.RingCount+2)
	for i := 1; i <= config.RingCount; i++ {
		xs, ys := circle(r*float64(i)/config.RingCount, 90)
		series = append(series, chart.ContinuousSeries{XValues: xs, YValues: ys, Style: lineStyle(colorGrid, 1)})
	}

	sx, sy := radar.PolarToXY(f.Sweep, r)
	series = append(series, chart.ContinuousSeries{
		Name:    "Sweep",
		XValues: []float64{0, sx},
		YValues: []float64{0, sy},
		Style:   lineStyle(colorLime, 2),
	})

	nodes := f.Nodes
	xs := make([]float64, len(nodes))
	ys := make([]float64, len(nodes))
	for i, n := range nodes {
		xs[i], ys[i] = radar.PolarToXY(n.AngleDegrees, n.RangeMeters)
	}
	sizes := lo.Map(nodes, func(n radar.Node, _ int) float64 { return n.MarkerSize / 2 })
	series = append(series, chart.ContinuousSeries{
		Name:    "Nodes",
		XValues: xs,
		YValues: ys,
		Style: pointStyle(colorBlue, func(_, _ chart.Range, index int, _, _ float64) float64 {
			if index < len(sizes) {
				return sizes[index]
			}
			return 4
		}),
	})

	xRange := &chart.ContinuousRange{Min: -r, Max: r}
	return chart.Chart{
		Title:      fmt.Sprintf("Radar  %d nodes  0-%.0fm", len(nodes), r),
		TitleStyle: chart.Style{FontColor: colorLabels},
		Width:      chartSize,
		Height:     chartSize,
		Background: chart.Style{FillColor: colorPanel, Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Canvas:     chart.Style{FillColor: colorPanel},
		XAxis:      chart.XAxis{Style: axisStyle(), Range: xRange},
		YAxis:      chart.YAxis{Style: axisStyle(), Range: &chart.ContinuousRange{Min: -r, Max: r}},
		Series:     series,
	}
}

// circle samples a ring of radius r in n+1 points, closing the loop.
func circle(r float64, n int) ([]float64, []float64) {
	xs := make([]float64, n+1)
	ys := make([]float64, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		xs[i] = r * math.Sin(a)
		ys[i] = r * math.Cos(a)
	}
	return xs, ys
}

func renderPNG(c chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func (ws *WebServer) writePNG(w http.ResponseWriter, c chart.Chart) {
	data, err := renderPNG(c)
	if err != nil {
		ws.log.WithError(err).Debug("chart render failed")
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (ws *WebServer) handleSpectrumChart(w http.ResponseWriter, r *http.Request) {
	f, ok := ws.staticFrame(w, r)
	if !ok {
		return
	}
	ws.writePNG(w, SpectrumChart(f))
}

func (ws *WebServer) handleRadarChart(w http.ResponseWriter, r *http.Request) {
	f, ok := ws.staticFrame(w, r)
	if !ok {
		return
	}
	ws.writePNG(w, RadarChart(f))
}
