package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"hive-map.klederson.com/internal/app"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/logging"
	"hive-map.klederson.com/internal/loop"
	"hive-map.klederson.com/internal/spectrum"
	"hive-map.klederson.com/internal/web"
	"hive-map.klederson.com/internal/wireless"
)

var (
	flagConfig  string
	flagPreset  string
	flagLive    bool
	flagRate    int
	flagRange   float64
	flagScanner string
	flagIface   string
	flagNoAudio bool
	flagLogFile string
	flagDebug   bool
	flagListen  string
	flagSeed    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hive-map",
		Short: "HIVE-MAP - live radar and acoustic spectrum dashboard",
		Long: `HIVE-MAP shows nearby wireless nodes on a polar radar next to an acoustic
spectrum, with rolling event logs and status gauges.

Real data is used when available: Wi-Fi scans through nmcli or iw, BLE
advertisers through BlueZ, and microphone capture through arecord. Anything
missing is simulated, so the dashboard always runs.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	defaults := config.Defaults()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML settings file")
	pf.StringVar(&flagPreset, "preset", string(defaults.Preset), "Dashboard preset: live or static")
	pf.BoolVar(&flagLive, "live", defaults.Live, "Refresh continuously (false renders a single frame)")
	pf.IntVar(&flagRate, "rate", defaults.Rate, fmt.Sprintf("Refresh rate in frames per second (%d-%d)", config.MinRate, config.MaxRate))
	pf.Float64Var(&flagRange, "range", defaults.Range, fmt.Sprintf("Radar range (%.0f-%.0f)", config.MinRange, config.MaxRange))
	pf.StringVar(&flagScanner, "scanner", defaults.Wireless.Backend, "Wireless backend: auto, nmcli, iw, ble, demo or off")
	pf.StringVar(&flagIface, "iface", "", "Wi-Fi interface for the iw backend (default: first found)")
	pf.BoolVar(&flagNoAudio, "no-audio", false, "Never capture audio, always simulate the spectrum")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.Int64Var(&flagSeed, "seed", 0, "Random seed (0 seeds from the clock)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard to a browser",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&flagListen, "listen", defaults.Listen, "HTTP listen address")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the refresh loop headless and print one JSON frame per line",
		RunE:  runSnapshot,
	}

	rootCmd.AddCommand(serveCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the settings file, then applies flags the user set.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	s := config.Defaults()
	if flagConfig != "" {
		var err error
		if s, err = config.Load(flagConfig); err != nil {
			return s, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("preset") {
		s.Preset = config.Preset(flagPreset)
	}
	if flags.Changed("live") {
		s.Live = flagLive
	}
	if flags.Changed("rate") {
		s.Rate = flagRate
	}
	if flags.Changed("range") {
		s.Range = flagRange
	}
	if flags.Changed("scanner") {
		s.Wireless.Backend = flagScanner
	}
	if flags.Changed("iface") {
		s.Wireless.Interface = flagIface
	}
	if flags.Changed("no-audio") {
		s.Audio.Enabled = !flagNoAudio
	}
	if flags.Changed("log-file") {
		s.LogFile = flagLogFile
	}
	if flags.Changed("debug") {
		s.Debug = flagDebug
	}
	if flags.Changed("listen") {
		s.Listen = flagListen
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// probe selects the capability backends once for the whole process.
func probe(s config.Settings, log logrus.FieldLogger) (wireless.Scanner, spectrum.Capturer) {
	scanner := wireless.Probe(s.Wireless.Backend, s.Wireless.Interface, log)
	samples := int(config.CaptureDuration.Seconds() * config.SampleRate)
	capturer := spectrum.ProbeCapturer(s.Audio.Enabled, s.Audio.Device, config.SampleRate, samples, log)
	return scanner, capturer
}

func newRand() *rand.Rand {
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newSession(s config.Settings, scanner wireless.Scanner, capturer spectrum.Capturer, log logrus.FieldLogger) *dashboard.Session {
	return dashboard.New(dashboard.Options{
		Preset:      s.Preset,
		Range:       s.Range,
		Scanner:     scanner,
		ScanTimeout: s.Wireless.Timeout,
		Capturer:    capturer,
		Rand:        newRand(),
		Log:         log,
	})
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; logs only go to a file when asked.
	log, closer, err := logging.New(io.Discard, s.LogFile, s.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext()
	defer cancel()

	scanner, capturer := probe(s, log)
	if u, ok := scanner.(wireless.Unavailable); ok && s.Wireless.Backend == "ble" {
		fmt.Fprintf(os.Stderr, "\nBLE scanning unavailable: %s\n", u.Reason)
		fmt.Fprintln(os.Stderr, "Try one of:")
		fmt.Fprintln(os.Stderr, "  sudo ./hive-map --scanner ble")
		fmt.Fprintln(os.Stderr, "  sudo setcap cap_net_admin+ep ./hive-map")
		fmt.Fprintln(os.Stderr, "  ./hive-map --scanner demo    (demo mode, no hardware needed)")
		fmt.Fprintln(os.Stderr, "Continuing with simulated nodes.")
	}

	model := app.New(ctx, newSession(s, scanner, capturer, log), s.Live, s.Rate, log)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(os.Stderr, s.LogFile, s.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext()
	defer cancel()

	scanner, capturer := probe(s, log)
	srv := web.NewWebServer(web.WebServerConfig{
		Address:  s.Listen,
		Preset:   s.Preset,
		Live:     s.Live,
		Rate:     s.Rate,
		Range:    s.Range,
		Scanner:  scanner,
		Capturer: capturer,
		Log:      log,

		ScanTimeout: s.Wireless.Timeout,
		Seed:        flagSeed,
	})
	return srv.Start(ctx)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.New(os.Stderr, s.LogFile, s.Debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext()
	defer cancel()

	scanner, capturer := probe(s, log)
	session := newSession(s, scanner, capturer, log)

	enc := json.NewEncoder(cmd.OutOrStdout())
	plan := loop.NewPlan(s.Rate, s.Live)
	log.WithFields(logrus.Fields{"frames": plan.Frames(), "interval": plan.Interval()}).Debug("snapshot loop")

	n, err := loop.Run(ctx, plan, func(ctx context.Context, _ int) error {
		return enc.Encode(session.Advance(ctx))
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("snapshot after %d frames: %w", n, err)
	}
	return nil
}
