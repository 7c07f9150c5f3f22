package live

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/morganb-phys/galpy/orbit"
	"github.com/morganb-phys/galpy/symplec"
)

const (
	canvasWidth  = 70
	canvasHeight = 22
	trailCap     = 500
	historyCap   = 600
	frameSpan    = 0.02 // integration time per frame at speed 1
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type point struct{ x, y int }

type integrateFunc func(symplec.Acceleration, []float64, []float64, []float64, float64, float64, *symplec.Trajectory) (symplec.Stats, error)

// Model animates one orbit in the terminal, integrating a short span of
// time every frame and tracing the position in the q0-q1 plane.
type Model struct {
	accel  symplec.Acceleration
	field  string
	scheme string
	step   integrateFunc

	q, p       []float64
	q0, p0     []float64
	t          float64
	speed      float64
	scale      float64
	rtol, atol float64

	canvas        *Canvas
	chunk         *symplec.Trajectory
	trail         []point
	energyHistory []float64
	e0            float64
	hasEnergy     bool
	subStep       float64
	running       bool
	err           error
}

// NewModel prepares a live view of the given field and initial conditions.
func NewModel(field, scheme string, accel symplec.Acceleration, q0, p0 []float64, rtol, atol float64) Model {
	m := Model{
		accel:   accel,
		field:   field,
		scheme:  scheme,
		step:    schemeFunc(scheme),
		q:       append([]float64(nil), q0...),
		p:       append([]float64(nil), p0...),
		q0:      append([]float64(nil), q0...),
		p0:      append([]float64(nil), p0...),
		speed:   1,
		rtol:    rtol,
		atol:    atol,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		chunk:   symplec.NewTrajectory(len(q0), 2),
		trail:   make([]point, 0, trailCap),
		running: true,
	}

	// Fit the initial radius at roughly a third of the canvas height.
	var r0 float64
	for _, v := range q0 {
		r0 += v * v
	}
	r0 = math.Sqrt(r0)
	if r0 < 1e-6 {
		r0 = 1
	}
	m.scale = float64(canvasHeight*4) * 0.35 / r0

	if ham, ok := accel.(orbit.Hamiltonian); ok {
		m.hasEnergy = true
		m.e0 = ham.Energy(q0, p0)
		m.energyHistory = append(make([]float64, 0, historyCap), m.e0)
	}
	return m
}

func schemeFunc(name string) integrateFunc {
	switch name {
	case "symplec4":
		return symplec.Symplec4
	case "symplec6":
		return symplec.Symplec6
	default:
		return symplec.Leapfrog
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

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
		case "+", "=":
			m.speed *= 1.5
		case "-", "_":
			m.speed /= 1.5
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

// advance integrates one frame worth of time from the current point.
func (m *Model) advance() {
	times := []float64{m.t, m.t + frameSpan*m.speed}
	st, err := m.step(m.accel, m.q, m.p, times, m.rtol, m.atol, m.chunk)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	q1, p1 := m.chunk.At(1)
	copy(m.q, q1)
	copy(m.p, p1)
	m.t = times[1]
	m.subStep = st.Step

	if m.hasEnergy {
		e := m.accel.(orbit.Hamiltonian).Energy(m.q, m.p)
		m.energyHistory = append(m.energyHistory, e)
		if len(m.energyHistory) > historyCap {
			m.energyHistory = m.energyHistory[1:]
		}
	}

	m.trail = append(m.trail, m.project())
	if len(m.trail) > trailCap {
		m.trail = m.trail[1:]
	}
}

func (m *Model) reset() {
	copy(m.q, m.q0)
	copy(m.p, m.p0)
	m.t = 0
	m.trail = m.trail[:0]
	m.err = nil
	if m.hasEnergy {
		m.energyHistory = append(m.energyHistory[:0], m.e0)
	}
}

// project maps the leading two position components to sub-pixel
// coordinates, y axis up.
func (m *Model) project() point {
	cx, cy := canvasWidth, canvasHeight*2
	var x, y float64
	if len(m.q) > 0 {
		x = m.q[0]
	}
	if len(m.q) > 1 {
		y = m.q[1]
	}
	return point{cx + int(x*m.scale), cy - int(y*m.scale)}
}

func (m *Model) draw() {
	m.canvas.Clear()
	cw, ch := canvasWidth*2, canvasHeight*4
	m.canvas.DrawLine(0, ch/2, cw-1, ch/2)
	m.canvas.DrawLine(cw/2, 0, cw/2, ch-1)
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
	body := m.project()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			m.canvas.Set(body.x+dx, body.y+dy)
		}
	}
}

func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.field)) + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render("FAILED: " + m.err.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Scheme") + valueStyle.Render(m.scheme) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2f", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2fx", m.speed)) + "\n")
	if m.subStep > 0 {
		s.WriteString(labelStyle.Render("Sub-step") + valueStyle.Render(fmt.Sprintf("%.3g", m.subStep)) + "\n")
	}
	if m.hasEnergy {
		e := m.energyHistory[len(m.energyHistory)-1]
		s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.6f", e)) + "\n")
		if m.e0 != 0 {
			drift := math.Abs(e-m.e0) / math.Abs(m.e0)
			s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.2e", drift)) + "\n")
		}
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+/-:Speed"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
