package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/catalog"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	engine := sim.New(sim.Fixed(compute.NewPure()), nil)
	return New(context.Background(), engine, Options{
		Profiles: catalog.Default().Profiles(),
		Selected: "film",
		Circuit:  capacitor.CircuitParameters{Resistance: 100, SourceVoltage: 10, Temperature: 25},
		Duration: 0.01,
		Samples:  50,
	})
}

// drive applies msg and runs any resulting command to completion.
func drive(m Model, msg tea.Msg) Model {
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd != nil {
		if out := cmd(); out != nil {
			if _, ok := out.(resultMsg); ok {
				next, _ = m.Update(out)
				m = next.(Model)
			}
		}
	}
	return m
}

func TestExplorer_InitialSelection(t *testing.T) {
	m := newTestModel(t)
	if got := m.profiles[m.typeIdx].Name(); got != "Film" {
		t.Fatalf("expected Film selected, got %s", got)
	}

	msg := m.Init()()
	m = drive(m, msg)
	if m.result == nil {
		t.Fatal("expected initial result")
	}
	if len(m.result.Voltages) != 50 {
		t.Errorf("expected 50 points, got %d", len(m.result.Voltages))
	}
}

func TestExplorer_AdjustClamps(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 200; i++ {
		m = drive(m, tea.KeyMsg{Type: tea.KeyRight})
	}
	if m.values[0] != 1000 {
		t.Errorf("expected resistance clamped to 1000, got %g", m.values[0])
	}
	if m.result == nil || m.result.TimeConstant != 1000*1e-6 {
		t.Errorf("expected result at clamped resistance, got %+v", m.result)
	}

	m = drive(m, tea.KeyMsg{Type: tea.KeyDown})
	m = drive(m, tea.KeyMsg{Type: tea.KeyDown})
	for i := 0; i < 100; i++ {
		m = drive(m, tea.KeyMsg{Type: tea.KeyLeft})
	}
	if m.values[2] != -40 {
		t.Errorf("expected temperature clamped to -40, got %g", m.values[2])
	}
}

func TestExplorer_CycleTypes(t *testing.T) {
	m := newTestModel(t)
	start := m.typeIdx
	for range m.profiles {
		m = drive(m, tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.typeIdx != start {
		t.Errorf("expected full cycle back to %d, got %d", start, m.typeIdx)
	}
	m = drive(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.typeIdx != (start+len(m.profiles)-1)%len(m.profiles) {
		t.Errorf("unexpected index after shift+tab: %d", m.typeIdx)
	}
}

func TestExplorer_Edit(t *testing.T) {
	m := newTestModel(t)
	m = drive(m, tea.KeyMsg{Type: tea.KeyDown})
	m = drive(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.editing {
		t.Fatal("expected edit mode")
	}

	if !strings.Contains(m.View(), "esc to cancel") {
		t.Error("expected edit hint in view")
	}

	m.input.SetValue("24")
	m = drive(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.editing {
		t.Error("expected edit mode to end")
	}
	if m.values[1] != 24 {
		t.Errorf("expected voltage 24, got %g", m.values[1])
	}

	m = drive(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("abc")
	m = drive(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err == nil {
		t.Error("expected parse error")
	}
	if m.values[1] != 24 {
		t.Errorf("bad input should keep voltage, got %g", m.values[1])
	}
}

func TestExplorer_StaleResultDropped(t *testing.T) {
	m := newTestModel(t)
	stale := m.simulate()

	m = drive(m, tea.KeyMsg{Type: tea.KeyRight})
	fresh := m.result

	next, _ := m.Update(stale())
	m = next.(Model)
	if m.result != fresh {
		t.Error("stale result replaced the current one")
	}
}

func TestExplorer_View(t *testing.T) {
	m := newTestModel(t)
	m = drive(m, m.Init()())

	out := m.View()
	for _, want := range []string{"capsim explorer", "Ceramic", "Film", "resistance", "efficiency"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in view", want)
		}
	}
}
