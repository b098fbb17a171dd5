package wireless

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"
)

// bleAdapter is the part of *bluetooth.Adapter the scanner drives.
type bleAdapter interface {
	Enable() error
	Scan(callback func(*bluetooth.Adapter, bluetooth.ScanResult)) error
	StopScan() error
}

// stopRetry paces StopScan calls while a scan is still registering. The
// adapter ignores a stop that arrives before its scan has started.
const stopRetry = 20 * time.Millisecond

// BLEScanner listens for Bluetooth Low Energy advertisements for the length
// of the scan context and reports each advertiser as a network. The adapter
// runs one scan at a time, so concurrent callers queue.
type BLEScanner struct {
	adapter bleAdapter

	once      sync.Once
	enableErr error

	scanMu sync.Mutex
}

// NewBLEScanner creates a scanner on the default adapter.
func NewBLEScanner() *BLEScanner {
	return &BLEScanner{
		adapter: bluetooth.DefaultAdapter,
	}
}

func (s *BLEScanner) Name() string    { return "ble" }
func (s *BLEScanner) Available() bool { return s.enable() == nil }

func (s *BLEScanner) enable() error {
	s.once.Do(func() {
		if err := s.adapter.Enable(); err != nil {
			s.enableErr = fmt.Errorf("enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
		}
	})
	return s.enableErr
}

// Scan collects advertisements until ctx is done. Callers bound it with a
// timeout; without one the scan would never stop.
func (s *BLEScanner) Scan(ctx context.Context) ([]Network, error) {
	if err := s.enable(); err != nil {
		return nil, err
	}

	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		found []Network
	)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		s.stopOnCancel(ctx, done)
	}()

	err := s.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		mac := result.Address.String()
		name := advertiserName(result.LocalName(), mac, result.ManufacturerData())

		mu.Lock()
		found = append(found, Network{
			Name:      name,
			BSSID:     mac,
			SignalDBm: float64(result.RSSI),
		})
		mu.Unlock()
	})
	close(done)
	<-stopped
	if err != nil {
		return nil, fmt.Errorf("BLE scan: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	return found, nil
}

// stopOnCancel stops the running scan once ctx is done, retrying until the
// scan has returned. Scan waits for it while holding scanMu, so a stop never
// reaches another caller's scan.
func (s *BLEScanner) stopOnCancel(ctx context.Context, done <-chan struct{}) {
	select {
	case <-done:
		return
	case <-ctx.Done():
	}

	t := time.NewTicker(stopRetry)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		default:
		}
		if s.adapter.StopScan() == nil {
			return
		}
		select {
		case <-done:
			return
		case <-t.C:
		}
	}
}

// advertiserName prefers the advertised local name. Nameless advertisers with
// a known company ID become "<company> <last two octets>"; the rest stay
// unnamed and are dropped by Dedupe.
func advertiserName(local, mac string, mfrs []bluetooth.ManufacturerDataElement) string {
	if local != "" || len(mfrs) == 0 || len(mac) < 17 {
		return local
	}
	if company := LookupManufacturer(mfrs[0].CompanyID); company != "" {
		return company + " " + mac[12:]
	}
	return ""
}

// LookupManufacturer names a Bluetooth SIG company identifier, or returns "".
func LookupManufacturer(companyID uint16) string {
	return companyNames[companyID]
}

// Company identifiers common among consumer advertisers.
var companyNames = map[uint16]string{
	0x0002: "Intel",
	0x0006: "Microsoft",
	0x000F: "Broadcom",
	0x004C: "Apple",
	0x0059: "Nordic",
	0x0075: "Samsung",
	0x0087: "Bose",
	0x00E0: "Google",
	0x012D: "Sony",
	0x0157: "Huawei",
	0x0171: "Amazon",
	0x02FF: "Tile",
	0x0310: "Xiaomi",
	0x038F: "Garmin",
	0x03DA: "Fitbit",
}
