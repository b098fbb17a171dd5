// Package web serves the dashboard to a browser: an embedded page, a
// websocket frame stream with one session per connection, JSON snapshots
// and PNG charts.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/logging"
	"hive-map.klederson.com/internal/spectrum"
	"hive-map.klederson.com/internal/wireless"
)

//go:embed index.html
var indexHTML []byte

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address  string
	Preset   config.Preset
	Live     bool
	Rate     int
	Range    float64
	Scanner  wireless.Scanner
	Capturer spectrum.Capturer
	Log      logrus.FieldLogger

	// ScanTimeout bounds each wireless scan; zero uses config.ScanTimeout.
	ScanTimeout time.Duration
	// Seed makes every session start from the same random state; zero
	// seeds each session from the clock.
	Seed int64
}

// WebServer handles the HTTP interface. Probed capabilities are shared;
// every request or connection gets its own dashboard session.
type WebServer struct {
	cfg      WebServerConfig
	log      logrus.FieldLogger
	server   *http.Server
	upgrader websocket.Upgrader
	streams  atomic.Int64
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(cfg WebServerConfig) *WebServer {
	if cfg.Log == nil {
		cfg.Log = logging.Discard()
	}
	if !cfg.Preset.Valid() {
		cfg.Preset = config.PresetLive
	}
	cfg.Rate = config.ClampRate(cfg.Rate)
	if cfg.Range == 0 {
		cfg.Range = config.DefaultRange
	}

	ws := &WebServer{
		cfg: cfg,
		log: cfg.Log.WithField("component", "web"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
		},
	}
	ws.server = &http.Server{
		Addr:              cfg.Address,
		Handler:           ws.setupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return ws
}

// Handler exposes the routes, mainly for tests.
func (ws *WebServer) Handler() http.Handler {
	return ws.server.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully. It returns
// early with an error if the listener cannot be opened.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		ws.log.WithField("address", ws.cfg.Address).Info("starting HTTP server")
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen on %s: %w", ws.cfg.Address, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	ws.log.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		ws.log.WithError(err).Warn("HTTP server shutdown error")
		if err := ws.server.Close(); err != nil {
			ws.log.WithError(err).Warn("HTTP server force close error")
		}
	}

	ws.log.Info("HTTP server stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers.
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/ws", ws.handleStream)
	mux.HandleFunc("/api/frame", ws.handleFrame)
	mux.HandleFunc("/chart/spectrum.png", ws.handleSpectrumChart)
	mux.HandleFunc("/chart/radar.png", ws.handleRadarChart)
	mux.HandleFunc("/", ws.handleIndex)

	return mux
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ws.log.WithError(err).Debug("write JSON response")
	}
}

// newSession builds a fresh session for one request or connection.
func (ws *WebServer) newSession(id string, preset config.Preset, maxRange float64) *dashboard.Session {
	seed := ws.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return dashboard.New(dashboard.Options{
		Preset:      preset,
		Range:       maxRange,
		Scanner:     ws.cfg.Scanner,
		ScanTimeout: ws.cfg.ScanTimeout,
		Capturer:    ws.cfg.Capturer,
		Rand:        rand.New(rand.NewSource(seed)),
		Log:         ws.cfg.Log.WithField("session", id),
	})
}

// sessionParams reads the optional preset and range query parameters.
func (ws *WebServer) sessionParams(r *http.Request) (config.Preset, float64, error) {
	preset := ws.cfg.Preset
	if p := r.URL.Query().Get("preset"); p != "" {
		preset = config.Preset(p)
		if !preset.Valid() {
			return "", 0, fmt.Errorf("unknown preset %q", p)
		}
	}
	maxRange := ws.cfg.Range
	if s := r.URL.Query().Get("range"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", 0, fmt.Errorf("bad range %q", s)
		}
		maxRange = config.ClampRange(v)
	}
	return preset, maxRange, nil
}

// staticFrame renders exactly one frame from a new session.
func (ws *WebServer) staticFrame(w http.ResponseWriter, r *http.Request) (dashboard.Frame, bool) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return dashboard.Frame{}, false
	}
	preset, maxRange, err := ws.sessionParams(r)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return dashboard.Frame{}, false
	}
	return ws.newSession(uuid.NewString(), preset, maxRange).Advance(r.Context()), true
}

func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	ws.writeJSON(w, map[string]any{
		"status":   "ok",
		"version":  config.AppVersion,
		"wireless": scannerName(ws.cfg.Scanner),
		"audio":    capturerName(ws.cfg.Capturer),
		"streams":  ws.streams.Load(),
	})
}

func (ws *WebServer) handleFrame(w http.ResponseWriter, r *http.Request) {
	f, ok := ws.staticFrame(w, r)
	if !ok {
		return
	}
	ws.writeJSON(w, f)
}

func scannerName(s wireless.Scanner) string {
	if s == nil {
		return "none"
	}
	return s.Name()
}

func capturerName(c spectrum.Capturer) string {
	if c == nil {
		return "none"
	}
	return c.Name()
}
