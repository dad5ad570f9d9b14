package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/catalog"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/physics"
	"github.com/san-kum/capsim/internal/sim"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(HeaderStyle)
			}
			if col > 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})
}

// EnergyTable lists every energy component in µJ with its share of the
// budget.
func EnergyTable(b physics.EnergyBreakdown) string {
	t := newTable("Component", "Energy (µJ)", "Share")
	fractions := b.Fractions()
	for i, c := range b.Components() {
		t.Row(componentLabel(c.Name), fmt.Sprintf("%.2f", c.Value*1e6), fmt.Sprintf("%.1f%%", fractions[i]))
	}
	t.Row("total loss", fmt.Sprintf("%.2f", b.TotalLoss()*1e6), "")
	return t.String()
}

func componentLabel(name string) string {
	switch name {
	case "esr":
		return "ESR loss"
	case "self_discharge":
		return "self-discharge"
	default:
		return strings.ReplaceAll(name, "_", " ")
	}
}

// Summary renders the headline metrics of a simulation.
func Summary(p capacitor.Profile, params capacitor.CircuitParameters, res *sim.Result) string {
	lines := []string{
		Title.Render(p.Name()),
		Metric("capacitance", fmt.Sprintf("%.2f µF nominal, %.2f µF at %g °C", p.Capacitance()*1e6, res.Capacitance*1e6, params.Temperature)),
		Metric("circuit    ", fmt.Sprintf("R=%g Ω, V0=%g V", params.Resistance, params.SourceVoltage)),
		Metric("tau        ", fmt.Sprintf("%.4g s", res.TimeConstant)),
		Metric("peak       ", fmt.Sprintf("%.3f V", res.Peak())),
		Metric("efficiency ", fmt.Sprintf("%.2f%%", res.Efficiency)) + " " + ProgressBar(res.Efficiency/100, 20),
		Metric("backend    ", res.Backend),
	}
	if res.Advisory != nil {
		lines = append(lines, Advisory.Render("! "+res.Advisory.Error()))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}

// CurveTable lists the temperature curve with its change from nominal.
func CurveTable(curve []sim.CurvePoint) string {
	t := newTable("T (°C)", "C (µF)", "Change")
	for _, pt := range curve {
		t.Row(fmt.Sprintf("%.1f", pt.Temperature), fmt.Sprintf("%.4g", pt.Capacitance*1e6), fmt.Sprintf("%+.1f%%", pt.ChangePercent))
	}
	return t.String()
}

// LandscapeTable renders efficiency with one row per voltage and one column
// per resistance.
func LandscapeTable(l *sim.Landscape) string {
	headers := make([]string, 0, len(l.Resistances)+1)
	headers = append(headers, "V \\ R (Ω)")
	for _, r := range l.Resistances {
		headers = append(headers, fmt.Sprintf("%.0f", r))
	}
	t := newTable(headers...)
	for i, v := range l.Voltages {
		row := make([]string, 0, len(l.Resistances)+1)
		row = append(row, fmt.Sprintf("%.1f V", v))
		for _, eff := range l.Efficiency[i] {
			row = append(row, fmt.Sprintf("%.1f", eff))
		}
		t.Row(row...)
	}
	return t.String()
}

// ComparisonTable renders one row per profile.
func ComparisonTable(rows []sim.Comparison) string {
	t := newTable("Type", "C (µF)", "tau (s)", "Stored (µJ)", "Efficiency")
	for _, r := range rows {
		t.Row(r.Name,
			fmt.Sprintf("%.4g", r.Capacitance*1e6),
			fmt.Sprintf("%.4g", r.TimeConstant),
			fmt.Sprintf("%.2f", r.Breakdown.Stored*1e6),
			fmt.Sprintf("%.2f%%", r.Efficiency))
	}
	return t.String()
}

// CatalogTable lists entries in datasheet units.
func CatalogTable(entries []catalog.Entry) string {
	t := newTable(catalog.Columns...)
	for _, e := range entries {
		t.Row(e.Type,
			fmt.Sprintf("%g", e.Capacitance),
			fmt.Sprintf("%g", e.ESR),
			fmt.Sprintf("%g", e.Leakage),
			fmt.Sprintf("%g", e.TempCoeff))
	}
	return t.String()
}

// BackendStatus describes which model is active.
func BackendStatus(s compute.Status) string {
	lines := []string{
		Metric("state  ", s.State.String()),
		Metric("backend", s.Backend),
	}
	if s.Degraded() {
		lines = append(lines, Advisory.Render("! "+s.Advisory.Error()))
	} else if s.State == compute.StateAccelerated {
		lines = append(lines, StatusAccelerated.Render("native library loaded"))
	}
	return Panel.Render(strings.Join(lines, "\n"))
}
