package viz

import (
	"fmt"
	"os"

	"github.com/guptarohit/asciigraph"
	"golang.org/x/term"

	"github.com/san-kum/capsim/internal/sim"
)

const (
	DefaultWidth = 80
	PlotHeight   = 12
	// asciigraph's y-axis labels take roughly this many columns.
	axisMargin = 12
)

// TerminalWidth returns the width of stdout, or fallback when stdout is not
// a terminal.
func TerminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

func plotWidth(width int) int {
	return max(width-axisMargin, 20)
}

// Trajectory plots voltage against sample index with the charge/discharge
// switch in the caption.
func Trajectory(res *sim.Result, width int) string {
	if len(res.Voltages) == 0 {
		return ""
	}
	caption := fmt.Sprintf("voltage (V) over %.3g s, discharge from t=%.3g s [%s]",
		res.Times[len(res.Times)-1], res.Midpoint(), res.Backend)
	return asciigraph.Plot(res.Voltages,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(plotWidth(width)),
		asciigraph.Precision(2),
		asciigraph.Caption(caption),
	)
}

// TemperatureCurve plots capacitance in µF over the sampled temperatures.
func TemperatureCurve(curve []sim.CurvePoint, width int) string {
	if len(curve) == 0 {
		return ""
	}
	data := make([]float64, len(curve))
	for i, pt := range curve {
		data[i] = pt.Capacitance * 1e6
	}
	caption := fmt.Sprintf("capacitance (µF) from %g °C to %g °C",
		curve[0].Temperature, curve[len(curve)-1].Temperature)
	return asciigraph.Plot(data,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(plotWidth(width)),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan, asciigraph.Yellow, asciigraph.Green, asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
}

// Surface overlays up to len(seriesColors) trajectories, one per
// resistance, evenly picked across the sweep.
func Surface(s *sim.Surface, width int) string {
	if len(s.Voltages) == 0 {
		return ""
	}
	idx := pick(len(s.Voltages), len(seriesColors))

	series := make([][]float64, len(idx))
	legends := make([]string, len(idx))
	for i, j := range idx {
		series[i] = s.Voltages[j]
		legends[i] = fmt.Sprintf("%g Ω", s.Resistances[j])
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(PlotHeight),
		asciigraph.Width(plotWidth(width)),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(seriesColors[:len(idx)]...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption("voltage (V) by series resistance"),
	)
}

// pick returns at most k indices spread evenly over [0, n).
func pick(n, k int) []int {
	if n <= k {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, k)
	for i := range out {
		out[i] = i * (n - 1) / (k - 1)
	}
	return out
}
