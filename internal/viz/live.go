package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatlab/internal/engine"
	"github.com/san-kum/heatlab/internal/pde"
	"github.com/san-kum/heatlab/internal/scheme"
)

const (
	canvasWidth     = 70
	canvasHeight    = 18
	historyCapacity = 600
	shadeRamp       = " .:-=+*#%@"
)

var (
	canvasStyle   = lipgloss.NewStyle().Padding(1, 2)
	statsStyle    = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	divergedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model paces one engine from the animation loop and renders it.
type Model struct {
	eng       *engine.Engine
	speed     int
	fps       int
	canvas    *Canvas
	running   bool
	diag      engine.Diagnostics
	l2History []float64
	note      string
}

func NewModel(eng *engine.Engine, speed, fps int) Model {
	if speed < 1 {
		speed = 1
	}
	if fps < 1 {
		fps = 30
	}
	return Model{
		eng:       eng,
		speed:     speed,
		fps:       fps,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		running:   true,
		diag:      eng.Diagnostics(),
		l2History: make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

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
		case "m":
			m.cycleMethod()
		case "[":
			m.scaleDt(0.5)
		case "]":
			m.scaleDt(2)
		case "+", "=":
			m.speed++
		case "-", "_":
			if m.speed > 1 {
				m.speed--
			}
		}
	case TickMsg:
		if m.running && !m.eng.Completed() {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

// advance runs one tick's worth of steps, then reads diagnostics once.
func (m *Model) advance() {
	m.note = ""
	for i := 0; i < m.speed && !m.eng.Completed(); i++ {
		if err := m.eng.Step(); err != nil {
			if engine.IsSolverFailure(err) {
				m.note = "solver fallback: " + err.Error()
				continue
			}
			m.note = err.Error()
			break
		}
	}
	m.diag = m.eng.Diagnostics()
	m.l2History = append(m.l2History, m.diag.L2Error)
	if len(m.l2History) > historyCapacity {
		m.l2History = m.l2History[1:]
	}
}

func (m *Model) reset() {
	if err := m.eng.Reset(); err != nil {
		m.note = err.Error()
		return
	}
	m.l2History = m.l2History[:0]
	m.diag = m.eng.Diagnostics()
}

func (m *Model) cycleMethod() {
	names := scheme.Names()
	p := m.eng.Params()
	for i, name := range names {
		if name == p.Method {
			p.Method = names[(i+1)%len(names)]
			break
		}
	}
	if err := m.eng.Configure(p); err != nil {
		m.note = err.Error()
	}
}

func (m *Model) scaleDt(factor float64) {
	p := m.eng.Params()
	p.Dt *= factor
	if err := m.eng.Configure(p); err != nil {
		m.note = err.Error()
	}
}

func (m Model) View() string {
	p := m.eng.Params()

	var fieldView string
	if p.Dim == pde.Dim2D {
		fieldView = m.renderHeatmap()
	} else {
		fieldView = m.renderCurve()
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("HEAT EQUATION — "+strings.ToUpper(p.Method)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.l2History) > 1 {
		chart := asciigraph.Plot(m.l2History, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("L2 error"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	d := m.diag
	s.WriteString(labelStyle.Render("Grid") + valueStyle.Render(fmt.Sprintf("%s, nx=%d", p.Dim, p.Nx)) + "\n")
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.5f", p.Dt)) + "\n")
	s.WriteString(labelStyle.Render("r") + valueStyle.Render(m.describeR(p, d.DiffusionNumber)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f / %.1f", d.T, p.Tmax)) + "\n")
	s.WriteString(labelStyle.Render("Steps") + valueStyle.Render(fmt.Sprintf("%d (x%d per tick)", d.Steps, m.speed)) + "\n")
	s.WriteString(labelStyle.Render("L2 error") + valueStyle.Render(fmt.Sprintf("%.3e", d.L2Error)) + "\n")
	s.WriteString(labelStyle.Render("Max error") + valueStyle.Render(fmt.Sprintf("%.3e", d.MaxError)) + "\n")
	if p.Dim == pde.Dim2D {
		s.WriteString(labelStyle.Render("Max rel") + valueStyle.Render(fmt.Sprintf("%.2f%%", d.MaxRelError)) + "\n")
	}
	s.WriteString(labelStyle.Render("Ops") + valueStyle.Render(fmt.Sprintf("%.2e", d.CostEstimate)) + "\n")
	if d.SolverFailures > 0 {
		s.WriteString(labelStyle.Render("Fallbacks") + valueStyle.Render(fmt.Sprintf("%d", d.SolverFailures)) + "\n")
	}
	if m.note != "" {
		s.WriteString("\n" + helpStyle.Render(m.note) + "\n")
	}
	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset M:Method Q:Quit\n[ ]:dt/2 dtx2  + -:Speed"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(fieldView), statsStyle.Render(s.String()))
}

func (m Model) status() string {
	switch {
	case m.diag.Diverged:
		return divergedStyle.Render("DIVERGED")
	case m.eng.Completed():
		return "COMPLETED"
	case !m.running:
		return "PAUSED"
	}
	return "RUNNING"
}

func (m Model) describeR(p pde.Params, r float64) string {
	if p.Method != scheme.MethodExplicit {
		return fmt.Sprintf("%.3f (unconditionally stable)", r)
	}
	limit := 0.5
	if p.Dim == pde.Dim2D {
		// rx + ry <= 0.5 on the square grid means r <= 0.25.
		limit = 0.25
	}
	if r <= limit {
		return fmt.Sprintf("%.3f (stable, limit %.2f)", r, limit)
	}
	return fmt.Sprintf("%.3f (UNSTABLE, limit %.2f)", r, limit)
}

// renderCurve draws the 1D numerical field as a curve with the analytical
// solution dotted behind it.
func (m Model) renderCurve() string {
	m.canvas.Clear()
	u := m.eng.Field()
	exact := m.eng.Exact()
	if u == nil {
		return m.canvas.String()
	}

	cw, ch := canvasWidth*2, canvasHeight*4
	cy := ch / 2
	scaleX := float64(cw-4) / float64(u.Nx-1)
	scaleY := float64(ch) * 0.4

	m.canvas.DrawLine(2, cy, cw-2, cy)

	for i := 0; i < u.Nx; i += 2 {
		px := 2 + int(float64(i)*scaleX)
		py := clampInt(cy-int(exact.Data[i]*scaleY), 0, ch-1)
		m.canvas.Set(px, py)
	}

	prevX, prevY := 2, cy
	for i := 0; i < u.Nx; i++ {
		v := u.Data[i]
		if math.IsNaN(v) {
			continue
		}
		px := 2 + int(float64(i)*scaleX)
		py := clampInt(cy-int(v*scaleY), 0, ch-1)
		if i > 0 {
			m.canvas.DrawLine(prevX, prevY, px, py)
		}
		prevX, prevY = px, py
	}
	return m.canvas.String()
}

// renderHeatmap shades the 2D field with a character ramp, two characters
// per cell to keep the aspect ratio roughly square.
func (m Model) renderHeatmap() string {
	u := m.eng.Field()
	if u == nil {
		return ""
	}
	ramp := []rune(shadeRamp)

	rowStride := 1
	for (u.Ny-1)/rowStride+1 > canvasHeight*2 {
		rowStride++
	}

	var b strings.Builder
	for j := u.Ny - 1; j >= 0; j -= rowStride {
		for i := 0; i < u.Nx; i++ {
			v := u.At(i, j)
			idx := 0
			if !math.IsNaN(v) {
				idx = int((clampFloat(v, -1, 1) + 1) / 2 * float64(len(ramp)-1))
			}
			b.WriteRune(ramp[idx])
			b.WriteRune(ramp[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
