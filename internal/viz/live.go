package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/dynamo"
	"github.com/san-kum/orrery/internal/integrators"
	"github.com/san-kum/orrery/internal/metrics"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 44
	historyCapacity = 600

	minZoom = 1.0
	maxZoom = 1024.0
)

type TickMsg time.Time

// Options configures a live Model.
type Options struct {
	Title      string
	HalfExtent float64
	FPS        int
	Trail      int
}

// Model owns the registry and integrator for the lifetime of the program and
// advances exactly one macro-step per frame tick.
type Model struct {
	registry   *body.Registry
	integrator *integrators.Integrator
	drift      *metrics.EnergyDrift

	title      string
	halfExtent float64
	zoom       float64
	frame      time.Duration
	trailLen   int

	width, height int
	canvas        *Canvas
	trails        [][]r2.Vec
	showTrails    bool
	running       bool
	showHelp      bool

	days         int
	last         dynamo.Report
	driftHistory []float64
	nonFinite    []int
}

func NewModel(reg *body.Registry, integ *integrators.Integrator, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}

	drift := metrics.NewEnergyDrift(integ.Config().Params)
	drift.Observe(reg.Snapshot())
	integ.AddObserver(drift)

	return Model{
		registry:     reg,
		integrator:   integ,
		drift:        drift,
		title:        opts.Title,
		halfExtent:   opts.HalfExtent,
		zoom:         minZoom,
		frame:        time.Second / time.Duration(fps),
		trailLen:     opts.Trail,
		width:        width,
		height:       height,
		canvas:       NewCanvas(width, height),
		trails:       make([][]r2.Vec, reg.Len()),
		showTrails:   opts.Trail > 0,
		running:      true,
		driftHistory: make([]float64, 0, historyCapacity),
	}
}

// Run starts the program on the alternate screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.showTrails = !m.showTrails
		case "c":
			NextTheme()
		case "+", "=":
			m.zoom = math.Min(m.zoom*2, maxZoom)
		case "-", "_":
			m.zoom = math.Max(m.zoom/2, minZoom)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := w - statsWidth - 4
	ch := h - 2
	if cw < 20 {
		cw = 20
	}
	if ch < 10 {
		ch = 10
	}
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// step advances one macro-step and records what the panel and trails need.
func (m *Model) step() {
	m.last = m.integrator.Advance(m.registry)
	m.days++

	snap := m.registry.Snapshot()
	if m.trailLen > 0 {
		for i := range m.trails {
			m.trails[i] = append(m.trails[i], snap.Pos(i))
			if len(m.trails[i]) > m.trailLen {
				m.trails[i] = m.trails[i][1:]
			}
		}
	}

	m.driftHistory = append(m.driftHistory, m.drift.Current())
	if len(m.driftHistory) > historyCapacity {
		m.driftHistory = m.driftHistory[1:]
	}

	m.nonFinite = dynamo.NonFinite(snap)
}

// reset restores the initial conditions and clears all derived state.
func (m *Model) reset() {
	m.registry.Reset()
	m.integrator.Reset()
	m.drift.Reset()
	m.drift.Observe(m.registry.Snapshot())

	m.days = 0
	m.last = dynamo.Report{}
	m.driftHistory = m.driftHistory[:0]
	m.nonFinite = nil
	for i := range m.trails {
		m.trails[i] = m.trails[i][:0]
	}
}

func (m *Model) projection() Projection {
	w, h := m.canvas.SubSize()
	return NewProjection(float64(w), float64(h), m.halfExtent/m.zoom)
}

// draw rasterises trails and bodies onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	var trails [][]r2.Vec
	if m.showTrails {
		trails = m.trails
	}
	DrawScene(m.canvas, m.projection(), m.registry.Bodies(), trails)
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render("ORRERY "+strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(statusStyle(true).Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusStyle(false).Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Day", fmt.Sprintf("%d", m.days))
	row("Sub-steps", fmt.Sprintf("%d", m.integrator.SubSteps()))
	row("Scheme", m.integrator.Scheme().Name())
	row("Dropped", fmt.Sprintf("%.0fs/day", m.last.Dropped))
	row("Energy drift", fmt.Sprintf("%.3e", m.drift.Current()))
	row("Max drift", fmt.Sprintf("%.3e", m.drift.Value()))
	row("Zoom", fmt.Sprintf("x%.0f", m.zoom))
	s.WriteString(SparklineChart(m.driftHistory, statsWidth-6) + "\n")

	if len(m.nonFinite) > 0 {
		bodies := m.registry.Bodies()
		names := make([]string, len(m.nonFinite))
		for i, idx := range m.nonFinite {
			names[i] = bodies[idx].Name
		}
		s.WriteString("\n" + errorStyle().Render("NON-FINITE: "+strings.Join(names, ", ")) + "\n")
	}

	s.WriteString("\n" + Separator(statsWidth-6) + "\n")
	for _, b := range m.registry.Bodies() {
		dist := r2.Norm(b.Pos) / 1e9
		s.WriteString(bodyStyle().Render(fmt.Sprintf("%-9s %10.1f Gm", b.Name, dist)) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset T:Trails C:Theme\n+/-:Zoom ?:Help Q:Quit"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset initial conditions ║
║  T        - Toggle orbit trails      ║
║  C        - Cycle themes             ║
║  +/-      - Zoom in/out              ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
