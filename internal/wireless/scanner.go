package wireless

import (
	"context"
	"errors"
	"os/exec"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// ErrUnavailable is returned by scanners that were not usable at probe time.
var ErrUnavailable = errors.New("wireless scanning unavailable")

// Network is one visible network (or BLE advertiser) from a scan.
type Network struct {
	Name      string
	BSSID     string
	SignalDBm float64
	Frequency int // MHz, zero when unknown
	Channel   int // zero when unknown
}

// Scanner enumerates nearby networks. Implementations run exactly one scan
// per call and must respect ctx for their deadline.
type Scanner interface {
	Name() string
	Available() bool
	Scan(ctx context.Context) ([]Network, error)
}

// Unavailable is the Scanner used when no backend could be probed.
type Unavailable struct {
	Reason string
}

func (u Unavailable) Name() string    { return "none" }
func (u Unavailable) Available() bool { return false }

func (u Unavailable) Scan(context.Context) ([]Network, error) {
	return nil, ErrUnavailable
}

// Probe picks a scan backend once at startup. backend is one of auto, nmcli,
// iw, ble, demo or off; auto prefers nmcli (no root needed) and then iw.
func Probe(backend, iface string, log logrus.FieldLogger) Scanner {
	var s Scanner
	switch backend {
	case "off":
		s = Unavailable{Reason: "disabled"}
	case "demo":
		s = NewDemoScanner(nil)
	case "ble":
		b := NewBLEScanner()
		if err := b.enable(); err != nil {
			s = Unavailable{Reason: err.Error()}
		} else {
			s = b
		}
	case "nmcli":
		s = probeNmcli()
	case "iw":
		s = probeIW(iface)
	default:
		s = probeNmcli()
		if !s.Available() {
			s = probeIW(iface)
		}
	}

	entry := log.WithField("backend", s.Name())
	if u, ok := s.(Unavailable); ok {
		entry.WithField("reason", u.Reason).Info("wireless scan disabled, simulating nodes")
	} else {
		entry.Info("wireless scan available")
	}
	return s
}

func probeNmcli() Scanner {
	if !nmcliAvailable() {
		return Unavailable{Reason: "nmcli not found"}
	}
	return &NmcliScanner{}
}

func probeIW(iface string) Scanner {
	if !iwAvailable() {
		return Unavailable{Reason: "iw not found"}
	}
	if iface == "" {
		iface = detectWiFiInterface()
	}
	return &IWScanner{iface: iface}
}

func nmcliAvailable() bool {
	_, err := exec.LookPath("nmcli")
	return err == nil
}

func iwAvailable() bool {
	_, err := exec.LookPath("iw")
	return err == nil
}

// Dedupe drops networks without a name and keeps the first-seen entry for
// each name.
func Dedupe(networks []Network) []Network {
	named := lo.Filter(networks, func(n Network, _ int) bool { return n.Name != "" })
	return lo.UniqBy(named, func(n Network) string { return n.Name })
}
