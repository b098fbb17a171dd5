package radar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/samber/lo"
	"hive-map.klederson.com/internal/config"
)

// Node is one point on the polar plot.
type Node struct {
	ID           string  `json:"id"`
	AngleDegrees float64 `json:"angle"` // [0, 360), 0=north, clockwise
	RangeMeters  float64 `json:"range"` // (0, maxRange]
	SignalDBm    float64 `json:"rssi"`
	MarkerSize   float64 `json:"size"`
}

// Hover returns the tooltip text for the node.
func (n Node) Hover() string {
	return fmt.Sprintf("%s | RSSI: %.0f dBm | Range: %.1f m", n.ID, n.SignalDBm, n.RangeMeters)
}

// Network is a scan result reduced to what the radar needs.
type Network struct {
	Name      string
	SignalDBm float64
}

// SimulatedCount picks a node count for pure-simulation mode.
func SimulatedCount(rng *rand.Rand) int {
	return config.SimNodeMin + rng.Intn(config.SimNodeMax-config.SimNodeMin)
}

// GenerateNodes produces n synthetic nodes. Ranges are uniform in
// (0, maxRange] and sorted descending over evenly spaced angles; signal is
// a linear map of normalized range onto the dBm band plus bounded jitter.
func GenerateNodes(rng *rand.Rand, n int, maxRange float64) []Node {
	if n < 1 {
		n = 1
	}
	ranges := make([]float64, n)
	for i := range ranges {
		// 1-Float64() lies in (0, 1]
		ranges[i] = maxRange * (1 - rng.Float64())
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ranges)))

	nodes := make([]Node, n)
	for i, r := range ranges {
		jitter := lo.Clamp(rng.NormFloat64()*config.JitterSigma, -config.JitterBound, config.JitterBound)
		nodes[i] = Node{
			ID:           fmt.Sprintf("NODE-%02d", i+1),
			AngleDegrees: 360 * float64(i) / float64(n),
			RangeMeters:  r,
			SignalDBm:    RangeToDBm(r, maxRange) + jitter,
		}
	}
	applyMarkerSizes(nodes)
	return nodes
}

// RangeToDBm maps a range onto [StrongestDBm, WeakestDBm] linearly.
func RangeToDBm(r, maxRange float64) float64 {
	norm := lo.Clamp(r/maxRange, 0, 1)
	return config.StrongestDBm + norm*(config.WeakestDBm-config.StrongestDBm)
}

// NodesFromNetworks places scan results on the radar. Angle comes from a
// hash of the network name so a network keeps its bearing across scans.
func NodesFromNetworks(networks []Network, maxRange float64) []Node {
	nodes := make([]Node, 0, len(networks))
	for _, nw := range networks {
		dist := RSSIToDistance(nw.SignalDBm, config.MeasuredPower, config.PathLossExp)
		nodes = append(nodes, Node{
			ID:           nw.Name,
			AngleDegrees: NameToAngle(nw.Name),
			RangeMeters:  lo.Clamp(dist, 0.1, maxRange),
			SignalDBm:    nw.SignalDBm,
		})
	}
	applyMarkerSizes(nodes)
	return nodes
}

// FallbackNodes is shown when a live scan returned nothing and there is no
// earlier result to keep.
func FallbackNodes(maxRange float64) []Node {
	nodes := []Node{
		{ID: "NODE-01", AngleDegrees: 45, RangeMeters: maxRange * 0.25},
		{ID: "NODE-02", AngleDegrees: 165, RangeMeters: maxRange * 0.55},
		{ID: "NODE-03", AngleDegrees: 285, RangeMeters: maxRange * 0.8},
	}
	for i := range nodes {
		nodes[i].SignalDBm = RangeToDBm(nodes[i].RangeMeters, maxRange)
	}
	applyMarkerSizes(nodes)
	return nodes
}

// MarkerSize grows with signal strength: the strongest node gets MarkerMax
// and each dB below it shrinks the marker by one unit, down to MarkerMin.
func MarkerSize(signal, strongest float64) float64 {
	return lo.Clamp(config.MarkerMax-(strongest-signal), config.MarkerMin, config.MarkerMax)
}

func applyMarkerSizes(nodes []Node) {
	if len(nodes) == 0 {
		return
	}
	strongest := lo.MaxBy(nodes, func(a, b Node) bool { return a.SignalDBm > b.SignalDBm }).SignalDBm
	for i := range nodes {
		nodes[i].MarkerSize = MarkerSize(nodes[i].SignalDBm, strongest)
	}
}

// NameToAngle derives a consistent bearing in degrees [0, 360) from a name.
func NameToAngle(name string) float64 {
	h := sha256.Sum256([]byte(name))
	val := binary.BigEndian.Uint32(h[:4])
	return float64(val) / (float64(math.MaxUint32) + 1) * 360
}

// RSSIToDistance estimates distance from RSSI using the log-distance path loss model.
// Formula: d = 10^((measuredPower - rssi) / (10 * n))
func RSSIToDistance(rssi, measuredPower, pathLossExp float64) float64 {
	if rssi >= 0 {
		return 0.1
	}
	d := math.Pow(10, (measuredPower-rssi)/(10*pathLossExp))
	if d < 0.1 {
		return 0.1
	}
	return d
}
