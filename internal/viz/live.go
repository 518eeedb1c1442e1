package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/solverlab/impulse/internal/graphics"
	"github.com/solverlab/impulse/internal/motion"
	"github.com/solverlab/impulse/internal/world"
)

const (
	canvasWidth     = 64
	canvasHeight    = 20
	historyCapacity = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a world at its fixed timestep while rendering at the frame
// rate. Bodies are drawn from their smoothed display transforms rather than
// the raw simulation state, so the view stays fluid even when the render
// clock falls between physics steps.
type Model struct {
	w        *world.World
	smoother graphics.Smoother
	scene    string
	fps      int

	renderTime  float64
	accumulator float64
	running     bool

	display      []graphics.DisplayTransform
	errorHistory []float64
	events       int
	stepErr      error

	initTransforms []motion.Transform
	initVelocities []motion.Velocity
}

func NewModel(w *world.World, store *graphics.TimeStore, scene string, fps int) Model {
	m := Model{
		w:        w,
		smoother: graphics.Smoother{Store: store},
		scene:    scene,
		fps:      fps,
		running:  true,
	}
	for i := range w.Motions {
		m.initTransforms = append(m.initTransforms, w.Motions[i].WorldFromMotion)
		m.initVelocities = append(m.initVelocities, w.Velocities[i])
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
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
		}
	case TickMsg:
		if m.running && m.stepErr == nil {
			m.advance(1.0 / float64(m.fps))
		}
		return m, m.tick()
	}
	return m, nil
}

// reset snaps every body back to its starting state. Teleport suppresses
// smoothing for the jump so the view does not blend across the restore.
func (m *Model) reset() {
	for i := range m.initTransforms {
		if err := m.w.Teleport(i, m.initTransforms[i]); err != nil {
			m.stepErr = err
			return
		}
		m.w.Velocities[i] = m.initVelocities[i]
	}
	m.errorHistory = m.errorHistory[:0]
	m.events = 0
	m.stepErr = nil
	m.running = true
}

// advance moves the render clock and runs as many fixed physics steps as
// fit, then asks the smoother for this frame's display transforms.
func (m *Model) advance(frameDt float64) {
	m.renderTime += frameDt
	m.accumulator += frameDt
	for m.accumulator >= m.w.Config.Timestep {
		events, err := m.w.Step(context.Background())
		if err != nil {
			m.stepErr = err
			return
		}
		m.events += len(events)
		m.accumulator -= m.w.Config.Timestep

		m.errorHistory = append(m.errorHistory, m.w.MaxError())
		if len(m.errorHistory) > historyCapacity {
			m.errorHistory = m.errorHistory[1:]
		}
	}

	m.display = m.display[:0]
	m.display, _ = m.smoother.Frame(m.w.Index, m.renderTime, m.w.Render, m.display)
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene)) + "\n")
	s.WriteString(canvasStyle.Render(m.drawBodies()) + "\n")

	status := "RUNNING"
	switch {
	case m.stepErr != nil:
		status = "ERROR: " + m.stepErr.Error()
	case !m.running:
		status = "PAUSED"
	}
	s.WriteString(labelStyle.Render("status") + valueStyle.Render(status) + "\n")
	s.WriteString(labelStyle.Render("sim time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.w.Elapsed())) + "\n")
	s.WriteString(labelStyle.Render("render time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.renderTime)) + "\n")
	s.WriteString(labelStyle.Render("energy") + valueStyle.Render(fmt.Sprintf("%.3f J", m.w.KineticEnergy())) + "\n")
	s.WriteString(labelStyle.Render("impulse events") + valueStyle.Render(fmt.Sprintf("%d", m.events)) + "\n")

	if len(m.errorHistory) > 2 {
		graph := asciigraph.Plot(m.errorHistory,
			asciigraph.Height(6), asciigraph.Width(canvasWidth),
			asciigraph.Caption("max constraint error"))
		s.WriteString(graphStyle.Render(graph) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause  r reset  q quit"))
	return s.String()
}

// drawBodies projects the smoothed display positions onto the xy plane of
// a character grid.
func (m Model) drawBodies() string {
	grid := make([][]rune, canvasHeight)
	for y := range grid {
		grid[y] = make([]rune, canvasWidth)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	const span = 8.0 // world units mapped across the canvas
	for _, d := range m.display {
		x := int((d.Transform.Pos[0]/span + 0.5) * float64(canvasWidth))
		y := int((0.5 - d.Transform.Pos[1]/span) * float64(canvasHeight))
		if x >= 0 && x < canvasWidth && y >= 0 && y < canvasHeight {
			grid[y][x] = 'o'
		}
	}

	rows := make([]string, canvasHeight)
	for y := range grid {
		rows[y] = string(grid[y])
	}
	return strings.Join(rows, "\n")
}

// RunLive starts the interactive viewer for a world.
func RunLive(w *world.World, store *graphics.TimeStore, scene string, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	p := tea.NewProgram(NewModel(w, store, scene, fps))
	_, err := p.Run()
	return err
}
