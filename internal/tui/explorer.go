// Package tui is the interactive capacitor explorer.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/sim"
	"github.com/san-kum/capsim/internal/viz"
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Underline(true).Padding(0, 1)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// param is one adjustable circuit input, clamped to the ranges of the
// original dashboard sliders.
type param struct {
	label    string
	unit     string
	step     float64
	min, max float64
}

var params = []param{
	{"resistance", "Ω", 10, 1, 1000},
	{"voltage", "V", 1, 1, 50},
	{"temperature", "°C", 5, -40, 125},
}

type resultMsg struct {
	seq int
	res *sim.Result
	err error
}

// Options seeds the explorer.
type Options struct {
	Profiles []capacitor.Profile
	Selected string
	Circuit  capacitor.CircuitParameters
	Duration float64
	Samples  int
}

type Model struct {
	ctx      context.Context
	engine   *sim.Engine
	profiles []capacitor.Profile
	initial  Options

	typeIdx  int
	paramIdx int
	values   [3]float64
	duration float64
	samples  int

	editing bool
	input   textinput.Model

	seq    int
	result *sim.Result
	err    error

	keys  keyMap
	help  help.Model
	width int
}

func New(ctx context.Context, engine *sim.Engine, opts Options) Model {
	m := Model{
		ctx:      ctx,
		engine:   engine,
		profiles: opts.Profiles,
		initial:  opts,
		duration: opts.Duration,
		samples:  opts.Samples,
		input:    textinput.New(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		width:    viz.DefaultWidth,
	}
	m.input.Width = 20
	m.reset()
	return m
}

func (m *Model) reset() {
	m.typeIdx = 0
	for i, p := range m.profiles {
		if strings.EqualFold(p.Name(), m.initial.Selected) {
			m.typeIdx = i
		}
	}
	m.values = [3]float64{m.initial.Circuit.Resistance, m.initial.Circuit.SourceVoltage, m.initial.Circuit.Temperature}
	for i := range m.values {
		m.values[i] = clamp(m.values[i], params[i])
	}
}

func clamp(v float64, p param) float64 {
	return min(max(v, p.min), p.max)
}

func (m Model) circuit() capacitor.CircuitParameters {
	return capacitor.CircuitParameters{
		Resistance:    m.values[0],
		SourceVoltage: m.values[1],
		Temperature:   m.values[2],
		TimeGrid:      capacitor.LinearGrid(m.duration, m.samples),
	}
}

// simulate snapshots the inputs under the current seq. Callers bump seq
// first so a stale result is dropped.
func (m Model) simulate() tea.Cmd {
	if len(m.profiles) == 0 {
		return nil
	}
	seq, p, c := m.seq, m.profiles[m.typeIdx], m.circuit()
	ctx, engine := m.ctx, m.engine
	return func() tea.Msg {
		res, err := engine.Simulate(ctx, p, c)
		return resultMsg{seq: seq, res: res, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return m.simulate()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case resultMsg:
		if msg.seq == m.seq {
			m.result, m.err = msg.res, msg.err
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.editKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextType):
		if len(m.profiles) > 0 {
			m.typeIdx = (m.typeIdx + 1) % len(m.profiles)
		}
	case key.Matches(msg, m.keys.PrevType):
		if len(m.profiles) > 0 {
			m.typeIdx = (m.typeIdx + len(m.profiles) - 1) % len(m.profiles)
		}
	case key.Matches(msg, m.keys.Up):
		if m.paramIdx > 0 {
			m.paramIdx--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.paramIdx < len(params)-1 {
			m.paramIdx++
		}
		return m, nil
	case key.Matches(msg, m.keys.Inc):
		p := params[m.paramIdx]
		m.values[m.paramIdx] = clamp(m.values[m.paramIdx]+p.step, p)
	case key.Matches(msg, m.keys.Dec):
		p := params[m.paramIdx]
		m.values[m.paramIdx] = clamp(m.values[m.paramIdx]-p.step, p)
	case key.Matches(msg, m.keys.Reset):
		m.reset()
	case key.Matches(msg, m.keys.Edit):
		m.editing = true
		m.input.Prompt = params[m.paramIdx].label + ": "
		m.input.SetValue(strconv.FormatFloat(m.values[m.paramIdx], 'g', -1, 64))
		m.input.CursorEnd()
		return m, m.input.Focus()
	default:
		return m, nil
	}
	m.seq++
	cmd := m.simulate()
	return m, cmd
}

func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		m.editing = false
		m.input.Blur()
		v, err := strconv.ParseFloat(strings.TrimSpace(m.input.Value()), 64)
		if err != nil {
			m.err = fmt.Errorf("%s: %w", params[m.paramIdx].label, err)
			return m, nil
		}
		m.values[m.paramIdx] = clamp(v, params[m.paramIdx])
		m.seq++
		cmd := m.simulate()
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(viz.Title.Render("capsim explorer"))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.profiles))
	for i, p := range m.profiles {
		if i == m.typeIdx {
			tabs[i] = activeTabStyle.Render(p.Name())
		} else {
			tabs[i] = tabStyle.Render(p.Name())
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	for i, p := range params {
		line := fmt.Sprintf("%-12s %8.4g %s", p.label, m.values[i], p.unit)
		if i == m.paramIdx {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	if m.editing {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(viz.KeyHint.Render("enter to apply, esc to cancel"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render(m.err.Error()))
		b.WriteString("\n")
	case m.result != nil:
		p := m.profiles[m.typeIdx]
		b.WriteString(viz.Summary(p, m.circuit(), m.result))
		b.WriteString("\n")
		b.WriteString(viz.Trajectory(m.result, m.width))
		b.WriteString("\n\n")
		b.WriteString(viz.MetricLabel.Render("energy budget "))
		b.WriteString(viz.Sparkline(m.result.Breakdown.Fractions(), 6))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Run starts the explorer on the terminal.
func Run(ctx context.Context, engine *sim.Engine, opts Options) error {
	_, err := tea.NewProgram(New(ctx, engine, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
