package wireless

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"
)

type fakeScanner struct {
	results [][]Network
	errs    []error
	calls   int
}

func (f *fakeScanner) Name() string    { return "fake" }
func (f *fakeScanner) Available() bool { return true }

func (f *fakeScanner) Scan(ctx context.Context) ([]Network, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], err
	}
	return nil, err
}

func TestParseNmcliScan(t *testing.T) {
	out := "AA\\:BB\\:CC\\:DD\\:EE\\:01:HomeNetwork_2G:2437 MHz:6:80\n" +
		"AA\\:BB\\:CC\\:DD\\:EE\\:02:Cafe\\:Guest:5180 MHz:36:30\n" +
		"garbage line\n" +
		"\n"
	got := parseNmcliScan(out)
	if len(got) != 2 {
		t.Fatalf("parsed %d networks, want 2: %+v", len(got), got)
	}
	if got[0].Name != "HomeNetwork_2G" || got[0].BSSID != "AA:BB:CC:DD:EE:01" {
		t.Errorf("first = %+v", got[0])
	}
	if got[0].SignalDBm != -44 || got[0].Frequency != 2437 || got[0].Channel != 6 {
		t.Errorf("first fields = %+v", got[0])
	}
	if got[1].Name != "Cafe:Guest" || got[1].SignalDBm != -79 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestSplitTerseEscapes(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{`AA\:BB:Home:6`, []string{"AA:BB", "Home", "6"}},
		{`AA\:BB:Back\\:6`, []string{"AA:BB", `Back\`, "6"}},
		{`AA\:BB:a\\\:b:6`, []string{"AA:BB", `a\:b`, "6"}},
		{`AA\:BB::6`, []string{"AA:BB", "", "6"}},
	}
	for _, tt := range tests {
		if got := splitTerse(tt.line); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitTerse(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}

	nets := parseNmcliScan(`AA\:BB\:CC\:DD\:EE\:03:Back\\:2412 MHz:1:50` + "\n")
	if len(nets) != 1 || nets[0].Name != `Back\` || nets[0].Channel != 1 || nets[0].Frequency != 2412 {
		t.Errorf("SSID ending in a backslash parsed as %+v", nets)
	}
}

func TestParseIWScan(t *testing.T) {
	out := `BSS 00:11:22:33:44:55(on wlan0)
	freq: 2412.0
	signal: -52.00 dBm
	SSID: Rescue-Uplink
	DS Parameter set: channel 1
BSS 66:77:88:99:aa:bb(on wlan0) -- associated
	freq: 5180
	signal: -71.00 dBm
	SSID: MESH-RELAY-04
	HT operation:
		 * primary channel: 36
`
	got := parseIWScan(out)
	if len(got) != 2 {
		t.Fatalf("parsed %d networks", len(got))
	}
	if got[0].Name != "Rescue-Uplink" || got[0].SignalDBm != -52 || got[0].Channel != 1 || got[0].Frequency != 2412 {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].BSSID != "66:77:88:99:AA:BB" || got[1].Channel != 36 || got[1].Frequency != 5180 {
		t.Errorf("second = %+v", got[1])
	}
}

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		mac  string
		want bool
	}{
		{"AA:BB:CC:DD:EE:FF", true},
		{"aa:bb:cc:dd:ee:0f", true},
		{"AA-BB-CC-DD-EE-FF", false},
		{"AA:BB:CC:DD:EE", false},
		{"GG:BB:CC:DD:EE:FF", false},
	}
	for _, tt := range tests {
		if got := isValidMAC(tt.mac); got != tt.want {
			t.Errorf("isValidMAC(%q) = %v, want %v", tt.mac, got, tt.want)
		}
	}
}

func TestDedupeKeepsFirstSeen(t *testing.T) {
	in := []Network{
		{Name: "A", SignalDBm: -40},
		{Name: "", SignalDBm: -30},
		{Name: "B", SignalDBm: -60},
		{Name: "A", SignalDBm: -90},
	}
	got := Dedupe(in)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Name != "A" || got[0].SignalDBm != -40 {
		t.Errorf("kept %+v, want first-seen A", got[0])
	}
}

func TestUnavailable(t *testing.T) {
	u := Unavailable{Reason: "no adapter"}
	if u.Available() {
		t.Error("Unavailable reports available")
	}
	if _, err := u.Scan(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestProbeOffAndDemo(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	if s := Probe("off", "", log); s.Available() {
		t.Error("off backend should be unavailable")
	}
	if s := Probe("demo", "", log); !s.Available() || s.Name() != "demo" {
		t.Errorf("demo backend = %s", s.Name())
	}
}

func TestPollerSchedule(t *testing.T) {
	fs := &fakeScanner{}
	p := NewPoller(fs, 10, time.Second)
	ctx := context.Background()

	for tick := 1; tick <= 35; tick++ {
		p.Poll(ctx, tick)
	}
	// Scans at 1, 11, 21, 31.
	if fs.calls != 4 {
		t.Errorf("scanned %d times, want 4", fs.calls)
	}
}

func TestPollerKeepsLastNonEmpty(t *testing.T) {
	fs := &fakeScanner{
		results: [][]Network{
			{{Name: "A", SignalDBm: -50}, {Name: "A", SignalDBm: -70}, {Name: "B", SignalDBm: -60}},
			nil,
			nil,
		},
		errs: []error{nil, nil, errors.New("device busy")},
	}
	p := NewPoller(fs, 1, time.Second)
	ctx := context.Background()

	res := p.Poll(ctx, 1)
	if !res.Attempted || res.Found != 2 || !res.HaveData {
		t.Fatalf("first poll = %+v", res)
	}

	res = p.Poll(ctx, 2)
	if res.Found != 0 || !res.HaveData || len(res.Networks) != 2 {
		t.Errorf("empty scan lost cached data: %+v", res)
	}

	res = p.Poll(ctx, 3)
	if res.Err == nil || !res.HaveData {
		t.Errorf("failed scan = %+v", res)
	}
	if p.LastSuccess() != 1 {
		t.Errorf("LastSuccess = %d", p.LastSuccess())
	}

	p.Reset()
	if p.LastSuccess() != -1 {
		t.Error("Reset kept the cache")
	}
}

func TestPollerUnavailableNeverScans(t *testing.T) {
	p := NewPoller(Unavailable{}, 1, time.Second)
	res := p.Poll(context.Background(), 0)
	if res.Attempted || res.HaveData {
		t.Errorf("unavailable poll = %+v", res)
	}
}

func TestDemoScanner(t *testing.T) {
	s := NewDemoScanner(rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		nets, err := s.Scan(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range nets {
			if n.SignalDBm > -25 || n.SignalDBm < -100 {
				t.Errorf("demo rssi %f", n.SignalDBm)
			}
			if !isValidMAC(n.BSSID) {
				t.Errorf("demo mac %q", n.BSSID)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Scan(ctx); err == nil {
		t.Error("cancelled scan should fail")
	}
}

func TestLookupManufacturer(t *testing.T) {
	if got := LookupManufacturer(0x004C); got != "Apple" {
		t.Errorf("0x004C = %q", got)
	}
	if got := LookupManufacturer(0xFFFF); got != "" {
		t.Errorf("unknown id = %q", got)
	}
}

func TestAdvertiserName(t *testing.T) {
	apple := []bluetooth.ManufacturerDataElement{{CompanyID: 0x004C}}
	unknown := []bluetooth.ManufacturerDataElement{{CompanyID: 0xFFFF}}
	tests := []struct {
		local string
		mfrs  []bluetooth.ManufacturerDataElement
		want  string
	}{
		{"Pixel 9 Pro", apple, "Pixel 9 Pro"},
		{"", apple, "Apple EE:FF"},
		{"", unknown, ""},
		{"", nil, ""},
	}
	for _, tt := range tests {
		if got := advertiserName(tt.local, "AA:BB:CC:DD:EE:FF", tt.mfrs); got != tt.want {
			t.Errorf("advertiserName(%q, %v) = %q, want %q", tt.local, tt.mfrs, got, tt.want)
		}
	}
}

// fakeAdapter mimics BlueZ: StopScan before a scan has registered is an
// error and a no-op, and a second concurrent Scan fails at once.
type fakeAdapter struct {
	registerDelay time.Duration

	mu       sync.Mutex
	scanning chan struct{}
	scans    int
	overlaps int
}

func (f *fakeAdapter) Enable() error { return nil }

func (f *fakeAdapter) Scan(func(*bluetooth.Adapter, bluetooth.ScanResult)) error {
	time.Sleep(f.registerDelay)
	f.mu.Lock()
	if f.scanning != nil {
		f.overlaps++
		f.mu.Unlock()
		return errors.New("already scanning")
	}
	stop := make(chan struct{})
	f.scanning = stop
	f.scans++
	f.mu.Unlock()

	<-stop
	return nil
}

func (f *fakeAdapter) StopScan() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.scanning == nil {
		return errors.New("not scanning")
	}
	close(f.scanning)
	f.scanning = nil
	return nil
}

func scanWithin(t *testing.T, s *BLEScanner, ctx context.Context) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() {
		_, err := s.Scan(ctx)
		errc <- err
	}()
	select {
	case err := <-errc:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("BLE scan did not return")
		return nil
	}
}

func TestBLEScanCancelledContext(t *testing.T) {
	fa := &fakeAdapter{}
	s := &BLEScanner{adapter: fa}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := scanWithin(t, s, ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if fa.scans != 0 {
		t.Errorf("adapter scanned %d times for a cancelled context", fa.scans)
	}
}

func TestBLEScanStopsWhenCancelledBeforeRegistering(t *testing.T) {
	fa := &fakeAdapter{registerDelay: 50 * time.Millisecond}
	s := &BLEScanner{adapter: fa}

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if err := scanWithin(t, s, ctx); err != nil {
		t.Errorf("err = %v", err)
	}
	if fa.scanning != nil {
		t.Error("adapter left scanning")
	}
}

func TestBLEScanSerializesCallers(t *testing.T) {
	fa := &fakeAdapter{}
	s := &BLEScanner{adapter: fa}

	const window = 40 * time.Millisecond
	var wg sync.WaitGroup
	errs := make([]error, 3)
	early := make([]bool, 3)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), window)
			defer cancel()
			start := time.Now()
			_, errs[i] = s.Scan(ctx)
			early[i] = time.Since(start) < window
		}(i)
	}
	wg.Wait()

	// Callers that queued past their deadline give up; the one that scanned
	// keeps going until its own deadline.
	for i, err := range errs {
		switch {
		case err == nil && early[i]:
			t.Errorf("scan %d was stopped before its deadline", i)
		case err != nil && !errors.Is(err, context.DeadlineExceeded):
			t.Errorf("scan %d: %v", i, err)
		}
	}
	if fa.overlaps != 0 || fa.scans == 0 {
		t.Errorf("scans = %d, overlaps = %d", fa.scans, fa.overlaps)
	}
}
