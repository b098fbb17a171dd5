package wireless

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

var demoNetworkNames = []string{
	"HomeNetwork_2G",
	"XFINITY-7A3F",
	"TP-Link_5GHz",
	"AndroidAP",
	"Starlink_WiFi",
	"MESH-RELAY-04",
	"Rescue-Uplink",
	"iPhone 15 Pro",
	"Galaxy S24 Ultra",
	"Pixel 9 Pro",
	"Tile Tracker",
	"Apple Watch",
}

// 5 GHz channel options for demo networks.
var wifi5GChannels = []int{36, 40, 44, 48, 149, 153, 157, 161}

type demoNetwork struct {
	mac       string
	name      string
	baseRSSI  float64
	phase     float64
	amplitude float64
	active    bool
	freq      int
	channel   int
}

// DemoScanner fakes a scan backend with a fixed population of networks whose
// signal drifts sinusoidally. Safe for concurrent use.
type DemoScanner struct {
	mu       sync.Mutex
	rng      *rand.Rand
	networks []demoNetwork
	t        float64
}

// NewDemoScanner picks 6-9 networks from the templates. A nil rng is seeded
// from the clock.
func NewDemoScanner(rng *rand.Rand) *DemoScanner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	total := 6 + rng.Intn(4)
	perm := rng.Perm(len(demoNetworkNames))
	networks := make([]demoNetwork, 0, total)
	for _, idx := range perm[:total] {
		nw := demoNetwork{
			mac:       randomMAC(rng),
			name:      demoNetworkNames[idx],
			baseRSSI:  -40 - rng.Float64()*45, // -40 to -85 dBm
			phase:     rng.Float64() * 2 * math.Pi,
			amplitude: 3 + rng.Float64()*6, // 3-9 dBm fluctuation
			active:    true,
		}
		if rng.Intn(2) == 0 {
			nw.freq = 2412 + rng.Intn(11)*5
			nw.channel = (nw.freq - 2407) / 5
		} else {
			nw.channel = wifi5GChannels[rng.Intn(len(wifi5GChannels))]
			nw.freq = 5000 + nw.channel*5
		}
		networks = append(networks, nw)
	}

	return &DemoScanner{rng: rng, networks: networks}
}

func (s *DemoScanner) Name() string    { return "demo" }
func (s *DemoScanner) Available() bool { return true }

// Scan advances the simulation by one step and reports visible networks.
func (s *DemoScanner) Scan(ctx context.Context) ([]Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.t += 1.0
	var out []Network
	for i := range s.networks {
		nw := &s.networks[i]

		// Networks occasionally drop out and come back.
		if s.rng.Float64() < 0.05 {
			nw.active = !nw.active
		}
		if !nw.active {
			continue
		}

		rssi := nw.baseRSSI + nw.amplitude*math.Sin(s.t*0.5+nw.phase) + (s.rng.Float64()-0.5)*4
		out = append(out, Network{
			Name:      nw.name,
			BSSID:     nw.mac,
			SignalDBm: math.Round(rssi),
			Frequency: nw.freq,
			Channel:   nw.channel,
		})
	}
	return out, nil
}

func randomMAC(rng *rand.Rand) string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rng.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}
