package wireless

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// NmcliScanner reads the NetworkManager scan cache. No root needed.
type NmcliScanner struct{}

func (s *NmcliScanner) Name() string    { return "nmcli" }
func (s *NmcliScanner) Available() bool { return true }

// Scan reads the cached list. NetworkManager refreshes it on its own, and
// forcing a rescan empties it for a moment.
func (s *NmcliScanner) Scan(ctx context.Context) ([]Network, error) {
	out, err := exec.CommandContext(ctx, "nmcli", "-t", "-f", "BSSID,SSID,FREQ,CHAN,SIGNAL", "dev", "wifi", "list").Output()
	if err != nil {
		return nil, fmt.Errorf("nmcli scan: %w", err)
	}
	return parseNmcliScan(string(out)), nil
}

// splitTerse splits one line of nmcli -t output. nmcli escapes colons and
// backslashes inside values with a backslash, so a value ending in \ shows
// up as \\ right before the separator.
func splitTerse(line string) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
		case c == ':':
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	fields = append(fields, cur.String())
	return lo.Map(fields, func(f string, _ int) string { return strings.TrimSpace(f) })
}

// nmcliSignalToDBm maps nmcli's 0-100 quality onto -100..-30 dBm.
func nmcliSignalToDBm(field string) float64 {
	quality, err := strconv.Atoi(field)
	if err != nil {
		return -80
	}
	return float64(-100 + quality*70/100)
}

// parseNmcliScan parses BSSID:SSID:FREQ:CHAN:SIGNAL lines.
func parseNmcliScan(output string) []Network {
	var results []Network
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		f := splitTerse(sc.Text())
		if len(f) < 5 {
			continue
		}
		bssid := strings.ToUpper(f[0])
		if !isValidMAC(bssid) {
			continue
		}
		freq, _ := strconv.Atoi(strings.TrimSuffix(f[2], " MHz"))
		channel, _ := strconv.Atoi(f[3])
		results = append(results, Network{
			Name:      f[1],
			BSSID:     bssid,
			SignalDBm: nmcliSignalToDBm(f[4]),
			Frequency: freq,
			Channel:   channel,
		})
	}
	return results
}

// IWScanner runs `iw dev <iface> scan`. Needs root.
type IWScanner struct {
	iface string
}

func (s *IWScanner) Name() string    { return "iw" }
func (s *IWScanner) Available() bool { return true }

func (s *IWScanner) Scan(ctx context.Context) ([]Network, error) {
	out, err := exec.CommandContext(ctx, "iw", "dev", s.iface, "scan").Output()
	if err != nil {
		return nil, fmt.Errorf("iw scan on %s: %w", s.iface, err)
	}
	return parseIWScan(string(out)), nil
}

// iwFields maps a line prefix inside a BSS block to the field it fills.
var iwFields = []struct {
	prefix string
	set    func(n *Network, v string)
}{
	{"SSID: ", func(n *Network, v string) { n.Name = v }},
	{"freq: ", func(n *Network, v string) {
		// Newer iw prints fractional MHz.
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			n.Frequency = int(f)
		}
	}},
	{"signal: ", func(n *Network, v string) {
		if dbm, err := strconv.ParseFloat(strings.TrimSuffix(v, " dBm"), 64); err == nil {
			n.SignalDBm = dbm
		}
	}},
	{"DS Parameter set: channel ", func(n *Network, v string) { n.Channel, _ = strconv.Atoi(v) }},
	{"primary channel: ", func(n *Network, v string) {
		if n.Channel == 0 {
			n.Channel, _ = strconv.Atoi(v)
		}
	}},
}

// parseIWScan parses blocks that start with "BSS aa:bb:cc:dd:ee:ff(on wlan0)".
func parseIWScan(output string) []Network {
	var (
		results []Network
		current *Network
	)
	flush := func() {
		if current != nil && isValidMAC(current.BSSID) {
			results = append(results, *current)
		}
	}

	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, "BSS "); ok {
			flush()
			bssid, _, _ := strings.Cut(rest, "(")
			current = &Network{BSSID: strings.ToUpper(strings.TrimSpace(bssid)), SignalDBm: -80}
			continue
		}
		if current == nil {
			continue
		}
		field := strings.TrimPrefix(strings.TrimSpace(line), "* ")
		for _, f := range iwFields {
			if v, ok := strings.CutPrefix(field, f.prefix); ok {
				f.set(current, strings.TrimSpace(v))
				break
			}
		}
	}
	flush()
	return results
}

// detectWiFiInterface returns the first interface `iw dev` lists, or wlan0.
func detectWiFiInterface() string {
	out, err := exec.Command("iw", "dev").Output()
	if err != nil {
		return "wlan0"
	}
	sc := bufio.NewScanner(strings.NewReader(string(out)))
	for sc.Scan() {
		if name, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "Interface "); ok {
			return name
		}
	}
	return "wlan0"
}

// isValidMAC accepts colon-separated hex octets in either case.
func isValidMAC(mac string) bool {
	if len(mac) != 17 {
		return false
	}
	for i, c := range mac {
		if i%3 == 2 {
			if c != ':' {
				return false
			}
			continue
		}
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
