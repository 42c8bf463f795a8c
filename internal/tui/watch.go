// Package tui renders a scenario live in the terminal: a side-view of the
// falling bodies with the broadphase pair count in the header.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/sim"
)

const (
	canvasWidth  = 72
	canvasHeight = 22
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Model is a bubbletea model stepping a world at the display tick rate.
type Model struct {
	scn    *config.Scenario
	runner *sim.Runner

	t      float32
	steps  int
	paused bool
	canvas [][]rune
}

// NewModel builds a world for the scenario and wraps it in a watchable
// model.
func NewModel(scn *config.Scenario) (*Model, error) {
	runner, err := sim.Build(scn)
	if err != nil {
		return nil, err
	}
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
	}
	return &Model{scn: scn, runner: runner, canvas: canvas}, nil
}

func (m *Model) Init() tea.Cmd { return tick() }

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			if runner, err := sim.Build(m.scn); err == nil {
				m.runner = runner
				m.t = 0
				m.steps = 0
			}
		}
		return m, nil
	case tickMsg:
		if !m.paused && m.steps < m.scn.Steps {
			m.runner.World.Step(m.scn.Dt)
			m.t += m.scn.Dt
			m.steps++
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	m.clear()
	m.drawGround()
	m.drawBodies()

	var b strings.Builder
	header := fmt.Sprintf(" ape watch · %s  t=%.2fs  bodies=%d  pairs=%d",
		m.scn.Name, m.t, m.runner.World.Len(), m.runner.World.PairCount())
	b.WriteString(cyan.Render(header))
	if m.paused {
		b.WriteString(yellow.Render("  [paused]"))
	} else if m.steps >= m.scn.Steps {
		b.WriteString(green.Render("  [done]"))
	}
	b.WriteString("\n")
	b.WriteString(dim.Render(" " + strings.Repeat("─", canvasWidth)))
	b.WriteString("\n")

	for _, row := range m.canvas {
		b.WriteString(" ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString(dim.Render(" " + strings.Repeat("─", canvasWidth)))
	b.WriteString("\n")
	b.WriteString(dim.Render(" space pause · r reset · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) clear() {
	for y := range m.canvas {
		for x := range m.canvas[y] {
			m.canvas[y][x] = ' '
		}
	}
}

func (m *Model) drawGround() {
	for x := 0; x < canvasWidth; x++ {
		m.canvas[canvasHeight-1][x] = '='
	}
}

// drawBodies projects world x/y onto the canvas: x spans the spawn row,
// y spans [0, spawn height].
func (m *Model) drawBodies() {
	span := float32(m.scn.Spawn.Count) * m.scn.Spawn.Spacing
	if span <= 0 {
		span = 1
	}
	top := m.scn.Spawn.Height
	if top <= 0 {
		top = 1
	}

	for _, h := range m.runner.Handles {
		p := m.runner.World.Position(h)
		cx := int(p.X / span * float32(canvasWidth-1))
		cy := canvasHeight - 2 - int(p.Y/top*float32(canvasHeight-3))
		m.set(cx, cy, 'O')
	}
}

func (m *Model) set(x, y int, c rune) {
	if x >= 0 && x < canvasWidth && y >= 0 && y < canvasHeight {
		m.canvas[y][x] = c
	}
}
