package config

import "time"

const (
	// RSSI to distance estimation
	MeasuredPower = -59.0 // RSSI at 1 meter (dBm)
	PathLossExp   = 2.5   // Path loss exponent (N)

	// Synthetic signal band
	StrongestDBm = -35.0 // Node at the radar center
	WeakestDBm   = -90.0 // Node at max range
	JitterSigma  = 2.0   // Gaussian jitter on derived dBm
	JitterBound  = 3 * JitterSigma

	// Marker sizing
	MarkerMin = 10.0
	MarkerMax = 26.0

	// Radar display
	DefaultRange  = 15.0 // Distance units shown on the radar
	MinRange      = 8.0
	MaxRange      = 20.0
	AspectRatio   = 0.5 // Terminal char aspect correction (chars are ~2:1 tall)
	RingCount     = 4   // Number of concentric rings
	SweepStepDeg  = 9.0 // Sweep advance per tick
	SweepTrailDeg = 60.0

	// Simulated node counts, half-open [min, max)
	SimNodeMin = 5
	SimNodeMax = 13

	// Simulated device count gauge, half-open [min, max)
	DeviceCountMin = 3
	DeviceCountMax = 9

	// Refresh loop
	DefaultRate = 4 // Frames per second
	MinRate     = 2
	MaxRate     = 12
	LiveWindow  = 8 * time.Second // Frames per invocation = rate * LiveWindow

	// Wireless scanning
	ScanEveryTicks = 10
	ScanTimeout    = 700 * time.Millisecond

	// Audio capture
	SampleRate      = 8000 // Hz, Nyquist = 4000 Hz
	CaptureDuration = 120 * time.Millisecond
	CaptureTimeout  = time.Second

	// Spectrum
	SpectrumBins   = 170
	SpectrumMaxHz  = 4000.0
	SmoothWindow   = 6
	AlertHoldTicks = 12

	// Event log capacities
	RadarLogCap     = 14
	AudioLogCap     = 14
	TelemetryLogCap = 10

	// App
	AppName    = "HIVE-MAP"
	AppVersion = "1.0"
)
