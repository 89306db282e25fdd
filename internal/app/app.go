package app

import (
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/logging"
	"uwb-radar.klederson.com/internal/metrics"
	"uwb-radar.klederson.com/internal/radar"
	"uwb-radar.klederson.com/internal/ui"
	"uwb-radar.klederson.com/internal/uwb"
)

type viewMode int

const (
	viewRadar viewMode = iota
	viewDetail
	viewSessions
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	store     *uwb.EndpointStore
	sweep     *radar.Sweep
	source    uwb.RangingControlSource
	forwarder *uwb.Forwarder
	collector *metrics.Collector
	history   *histories
	log       *slog.Logger
	events    uint64
}

// Options wires the model to its collaborators.
type Options struct {
	Source    uwb.RangingControlSource
	Recorder  *uwb.Recorder      // optional
	Collector *metrics.Collector // optional
	Logger    *slog.Logger
	Range     float64
	Rings     int
}

// AppModel is the root Bubble Tea model for the ranging display.
type AppModel struct {
	width  int
	height int

	mode     viewMode
	cursor   int
	selected string // key of the endpoint under the cursor

	rangeMeters float64
	rings       int
	sessions    table.Model

	shared *shared

	// Cached snapshot
	snap *uwb.Snapshot
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.Range <= 0 {
		opts.Range = config.MaxRange
	}
	if opts.Rings < 1 {
		opts.Rings = config.RingCount
	}

	store := uwb.NewEndpointStore()
	return AppModel{
		rangeMeters: opts.Range,
		rings:       opts.Rings,
		sessions:    ui.NewSessionTable(),
		snap:        store.Snapshot(),
		shared: &shared{
			store:     store,
			sweep:     radar.NewSweep(),
			source:    opts.Source,
			forwarder: uwb.NewForwarder(opts.Source, opts.Recorder, log),
			collector: opts.Collector,
			history:   newHistories(config.HistorySize),
			log:       log,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	return tickCmd()
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
		m.shared.sweep.Update(time.Time(msg), m.snap.Running)
		return m, tickCmd()

	case uwb.EventMsg:
		m.applyEvent(msg.Event)
		return m.refresh(), nil

	case uwb.RunningMsg:
		m.shared.store.SetRunning(msg.Running)
		if !msg.Running {
			m.shared.history.reset()
		}
		m.shared.log.Info("ranging state folded", "running", msg.Running)
		return m.refresh(), nil
	}

	return m, nil
}

func (m AppModel) applyEvent(ev uwb.EndpointEvent) {
	m.shared.events++
	m.shared.collector.ObserveEvent(ev.Kind())
	if !m.shared.store.Apply(ev) {
		m.shared.log.Debug("event ignored", "kind", ev.Kind(), "endpoint", ev.Target().ID)
		return
	}

	key := ev.Target().Key()
	switch e := ev.(type) {
	case uwb.PositionUpdated:
		if e.Position.Distance != nil {
			m.shared.history.push(key, e.Position.Distance.Value)
		}
	case uwb.UwbDisconnected, uwb.EndpointLost:
		m.shared.history.drop(key)
	}
}

// refresh reloads the snapshot and keeps the cursor on the same endpoint.
func (m AppModel) refresh() AppModel {
	m.snap = m.shared.store.Snapshot()
	m.shared.collector.ObserveSnapshot(m.snap)
	m.sessions.SetRows(ui.SessionRows(m.snap))

	connected := m.snap.Connected
	idx := -1
	for i, c := range connected {
		if c.Endpoint.Key() == m.selected {
			idx = i
			break
		}
	}
	if idx < 0 {
		if m.mode == viewDetail {
			m.mode = viewRadar
		}
		idx = min(m.cursor, len(connected)-1)
	}
	m.setCursor(idx)
	return m
}

func (m *AppModel) setCursor(i int) {
	if len(m.snap.Connected) == 0 || i < 0 {
		m.cursor = 0
		m.selected = ""
		return
	}
	m.cursor = min(i, len(m.snap.Connected)-1)
	m.selected = m.snap.Connected[m.cursor].Endpoint.Key()
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == viewSessions {
		switch msg.String() {
		case "up", "k", "down", "j":
			var cmd tea.Cmd
			m.sessions, cmd = m.sessions.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.shared.forwarder.Stop()
		return m, tea.Quit

	case "s", "S":
		if c, ok := m.shared.source.(uwb.RangingController); ok {
			c.StartRanging()
		}

	case "p", "P":
		if c, ok := m.shared.source.(uwb.RangingController); ok {
			c.StopRanging()
		}

	case "up", "k":
		if m.cursor > 0 {
			m.setCursor(m.cursor - 1)
		}

	case "down", "j":
		m.setCursor(m.cursor + 1)

	case "enter":
		if m.selected != "" {
			m.mode = viewDetail
		}

	case "esc":
		m.mode = viewRadar

	case "t", "T":
		if m.mode == viewSessions {
			m.mode = viewRadar
		} else {
			m.mode = viewSessions
		}

	case "+", "=":
		m.rangeMeters = max(m.rangeMeters-config.RangeStep, config.MinRange)

	case "-", "_":
		m.rangeMeters = min(m.rangeMeters+config.RangeStep, config.RangeLimit)
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing UWB Radar..."
	}

	menuH := 1
	statusH := 1
	bodyH := max(m.height-menuH-statusH, 8)

	listW := max(m.width*2/5, 34)
	mainW := m.width - listW
	if mainW < 30 {
		mainW = 30
		listW = max(m.width-mainW, 20)
	}

	menuBar := ui.RenderMenuBar(m.width, m.shared.source.Name(), m.snap.Running)

	var mainPanel string
	switch m.mode {
	case viewSessions:
		mainPanel = ui.RenderSessionPanel(m.sessions, mainW, bodyH)
	case viewDetail:
		if c, ok := m.snap.Find(m.selected); ok {
			mainPanel = ui.RenderDetailPanel(c, m.cursor, mainW, bodyH, m.shared.history.values(m.selected), m.rangeMeters)
			break
		}
		fallthrough
	default:
		mainPanel = m.radarPanel(mainW, bodyH)
	}

	sidePanel := ui.RenderEndpointList(m.snap, listW, bodyH, m.cursor)

	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		Running:      m.snap.Running,
		Connected:    len(m.snap.Connected),
		Disconnected: len(m.snap.Disconnected),
		Sessions:     len(m.snap.Sessions),
		Events:       m.shared.events,
		SweepDeg:     m.shared.sweep.Degrees(),
		Range:        m.rangeMeters,
	})

	return ui.ComposeLayout(menuBar, mainPanel, sidePanel, statusBar)
}

func (m AppModel) radarPanel(width, height int) string {
	innerW := max(width-4, 10)
	opts := radar.Options{Range: m.rangeMeters, Rings: m.rings}

	readout := radar.RenderReadout(m.snap.Connected, innerW)
	legend := radar.RenderLegend(innerW, opts)
	radarH := max(height-2-strings.Count(readout, "\n")-2, 5)

	content := radar.Render(innerW, radarH, m.snap.Connected, m.shared.sweep, opts)
	return ui.RenderRadarPanel(width, height, content, readout, legend)
}

// StartSource begins forwarding the ranging source into p. Must be called
// before p.Run().
func (m *AppModel) StartSource(p uwb.Sender) {
	m.shared.forwarder.Start(p)
}

// Shutdown stops the source subscriptions and waits for the pumps to exit.
// Call it after p.Run() returned.
func (m *AppModel) Shutdown() {
	m.shared.forwarder.Stop()
	m.shared.forwarder.Wait()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
