package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"hive-map.klederson.com/internal/config"
	"hive-map.klederson.com/internal/dashboard"
	"hive-map.klederson.com/internal/eventlog"
	"hive-map.klederson.com/internal/loop"
	"hive-map.klederson.com/internal/radar"
	"hive-map.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	ctx     context.Context
	session *dashboard.Session
	log     logrus.FieldLogger
}

// AppModel is the root Bubble Tea model for HIVE-MAP.
type AppModel struct {
	width  int
	height int

	live bool
	rate int
	gen  int

	shared *shared

	// Last rendered frame
	frame dashboard.Frame
}

// New creates a new AppModel driving session. The session must not be used
// by anything else while the program runs.
func New(ctx context.Context, session *dashboard.Session, live bool, rate int, log logrus.FieldLogger) AppModel {
	return AppModel{
		live: live,
		rate: config.ClampRate(rate),
		shared: &shared{
			ctx:     ctx,
			session: session,
			log:     log,
		},
	}
}

// Init renders the first frame right away; live mode then keeps ticking.
func (m AppModel) Init() tea.Cmd {
	return func() tea.Msg { return TickMsg{Gen: 0, Time: time.Now()} }
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.advance()
		if !m.live {
			return m, nil
		}
		return m, m.tickCmd()
	}

	return m, nil
}

func (m *AppModel) advance() {
	m.frame = m.shared.session.Advance(m.shared.ctx)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case " ", "p", "P":
		m.live = !m.live
		m.gen++
		m.shared.log.WithField("live", m.live).Debug("live toggled")
		if m.live {
			return m, m.tickCmd()
		}

	case "+", "=":
		m.setRate(m.rate + 1)

	case "-", "_":
		m.setRate(m.rate - 1)

	case "]":
		m.shared.session.SetRange(m.shared.session.Range() + 1)
		m.advance()

	case "[":
		m.shared.session.SetRange(m.shared.session.Range() - 1)
		m.advance()

	case "r", "R":
		m.shared.session.Rescan()
		m.advance()
	}

	return m, nil
}

// setRate takes effect from the next scheduled tick.
func (m *AppModel) setRate(rate int) {
	m.rate = config.ClampRate(rate)
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing " + config.AppName + "..."
	}

	menuH := 1
	statusH := 1
	logH := max(6, m.height/3)
	bodyH := max(10, m.height-menuH-statusH-logH)

	radarW := max(30, m.width/2)
	sideW := max(30, m.width-radarW)

	menuBar := ui.RenderMenuBar(m.width, m.live, m.rate, m.frame.Range)

	innerW := max(5, radarW-4)
	innerH := max(3, bodyH-5)
	radarContent := radar.Render(innerW, innerH, m.frame.Nodes, m.frame.Range, m.frame.SweepState())
	legend := radar.RenderLegend(innerW)
	radarPanel := ui.RenderRadarPanel(radarW, bodyH, radarContent, legend)

	gauges := ui.RenderGauges(m.frame.Telemetry, sideW)
	gaugesH := 7
	spectrumPanel := ui.RenderSpectrumPanel(m.frame, sideW, max(10, bodyH-gaugesH))
	side := ui.Column(spectrumPanel, gauges)

	logW := m.width / len(eventlog.Channels)
	var logs []string
	for _, c := range eventlog.Channels {
		logs = append(logs, ui.RenderLogPanel(c, m.frame.Logs[c], logW, logH))
	}

	statusBar := ui.RenderStatusBar(m.width, m.live, m.frame)

	return ui.ComposeLayout(menuBar, radarPanel, side, ui.Row(logs...), statusBar)
}

func (m AppModel) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(loop.NewPlan(m.rate, true).Interval(), func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}
