package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/worb/internal/geometry"
	"github.com/san-kum/worb/internal/quat"
	"github.com/san-kum/worb/internal/world"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 600
	stepsPerFrame   = 4
)

type TickMsg time.Time

// Model steps a world in real time and renders a rotatable side view of
// it, with the aggregate quantities in a side panel.
type Model struct {
	world   *world.World
	rebuild func() (*world.World, error)

	dt      float64
	running bool
	err     error

	canvas *Canvas
	yaw    float64
	scale  float64 // world units to sub-pixels
	center quat.Quaternion

	energyHistory []float64
	fps           int
}

func NewModel(w *world.World, rebuild func() (*world.World, error), dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		world:         w,
		rebuild:       rebuild,
		dt:            dt,
		running:       true,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		scale:         8,
		center:        quat.Vector(0, 2, 0),
		energyHistory: make([]float64, 0, historyCapacity),
		fps:           fps,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
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
			if m.rebuild != nil {
				w, err := m.rebuild()
				if err == nil {
					m.world = w
					m.energyHistory = m.energyHistory[:0]
					m.err = nil
				} else {
					m.err = err
				}
			}
		case "left":
			m.yaw -= 0.1
		case "right":
			m.yaw += 0.1
		case "+", "=":
			m.scale *= 1.2
		case "-":
			m.scale /= 1.2
		case "up":
			m.center.Y += 0.5
		case "down":
			m.center.Y -= 0.5
		}
		return m, nil

	case TickMsg:
		if m.running && m.err == nil {
			for i := 0; i < stepsPerFrame; i++ {
				if err := m.world.Step(m.dt); err != nil {
					m.err = err
					break
				}
			}
			m.energyHistory = append(m.energyHistory, m.world.TotalEnergy())
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m Model) View() string {
	m.canvas.Clear()

	for _, s := range m.world.Shapes() {
		switch shape := s.(type) {
		case *geometry.Sphere:
			x, y := m.project(shape.Position())
			m.canvas.DrawCircle(x, y, int(shape.Radius*m.scale))
		case *geometry.Box:
			m.drawBox(shape)
		}
	}

	stats := m.statsView()
	frame := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats),
	)

	help := helpStyle.Render("space pause · r reset · ←/→ rotate · +/- zoom · q quit")
	return frame + "\n" + help
}

// project maps a world point to sub-pixel canvas coordinates: yaw
// rotation around the Y axis, then an orthographic side view.
func (m Model) project(p quat.Quaternion) (int, int) {
	rel := p.Sub(m.center)
	sx := rel.X*math.Cos(m.yaw) + rel.Z*math.Sin(m.yaw)
	sy := rel.Y

	x := canvasWidth + int(sx*m.scale)
	y := canvasHeight*2 - int(sy*m.scale)
	return x, y
}

func (m Model) drawBox(b *geometry.Box) {
	h := b.HalfExtent

	var corners [8][2]int
	for i := 0; i < 8; i++ {
		sign := [3]float64{1, 1, 1}
		if i&1 != 0 {
			sign[0] = -1
		}
		if i&2 != 0 {
			sign[1] = -1
		}
		if i&4 != 0 {
			sign[2] = -1
		}
		local := quat.Vector(sign[0]*h.X, sign[1]*h.Y, sign[2]*h.Z)
		x, y := m.project(b.Body().ToWorld.Transform(local))
		corners[i] = [2]int{x, y}
	}

	// Corners differing in exactly one sign bit share an edge.
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			j := i ^ bit
			if i < j {
				m.canvas.DrawLine(corners[i][0], corners[i][1], corners[j][0], corners[j][1])
			}
		}
	}
}

func (m Model) statsView() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("world of rigid bodies") + "\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	row("time", fmt.Sprintf("%.2f s", m.world.Time))
	row("steps", fmt.Sprintf("%d", m.world.StepCount))
	row("E kin", fmt.Sprintf("%.3f J", m.world.TotalKineticEnergy))
	row("E pot", fmt.Sprintf("%.3f J", m.world.TotalPotentialEnergy))
	p := m.world.TotalLinearMomentum
	row("momentum", fmt.Sprintf("%.2f %.2f %.2f", p.X, p.Y, p.Z))
	row("contacts", fmt.Sprintf("%d", m.world.Contacts().Count()))

	b.WriteString("\n")
	for i, body := range m.world.Bodies() {
		line := fmt.Sprintf("body %d  y=%6.2f  |v|=%5.2f", i,
			body.Position.Y, body.Velocity.ImNorm())
		if body.Active {
			b.WriteString(valueStyle.Render(line))
		} else {
			b.WriteString(asleepStyle.Render(line + "  zZ"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + labelStyle.Render("energy") + "\n")
	b.WriteString(Sparkline(m.energyHistory, 36) + "\n")

	if !m.running {
		b.WriteString("\n" + asleepStyle.Render("paused"))
	}
	if m.err != nil {
		b.WriteString("\n" + sparkLow.Render("error: "+m.err.Error()))
	}

	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(w *world.World, rebuild func() (*world.World, error), dt float64, fps int) error {
	program := tea.NewProgram(NewModel(w, rebuild, dt, fps))
	_, err := program.Run()
	return err
}
