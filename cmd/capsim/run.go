package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/sim"
	"github.com/san-kum/capsim/internal/tui"
	"github.com/san-kum/capsim/internal/viz"
)

func simulateRun(cmd *cobra.Command, args []string) error {
	p, err := profileArg(args)
	if err != nil {
		return err
	}
	params := app.cfg.Circuit.Params()

	res, err := app.engine.Simulate(cmd.Context(), p, params)
	if err != nil {
		return err
	}

	width := viz.TerminalWidth(viz.DefaultWidth)
	fmt.Println(viz.Summary(p, params, res))
	fmt.Println(viz.Separator(width))
	fmt.Println(viz.Trajectory(res, width))
	fmt.Println(viz.Separator(width))
	fmt.Println(viz.EnergyTable(res.Breakdown))
	return nil
}

func energyRun(cmd *cobra.Command, args []string) error {
	p, err := profileArg(args)
	if err != nil {
		return err
	}
	params := app.cfg.Circuit.Params()

	res, err := app.engine.Simulate(cmd.Context(), p, params)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(p.Name()))
	fmt.Println(viz.EnergyTable(res.Breakdown))
	fmt.Println(viz.Metric("efficiency", fmt.Sprintf("%.2f%%", res.Efficiency)) + " " + viz.ProgressBar(res.Efficiency/100, 30))
	if res.Advisory != nil {
		fmt.Println(viz.Advisory.Render("! " + res.Advisory.Error()))
	}
	return nil
}

func temperatureRun(cmd *cobra.Command, args []string) error {
	p, err := profileArg(args)
	if err != nil {
		return err
	}
	tc := app.cfg.TemperatureCurve

	curve, err := app.engine.TemperatureCurve(cmd.Context(), p, tc.Min, tc.Max, tc.Points)
	if err != nil {
		return err
	}
	at, err := app.engine.TemperatureCurve(cmd.Context(), p, app.cfg.Circuit.Temperature, app.cfg.Circuit.Temperature, 1)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(p.Name()))
	fmt.Println(viz.TemperatureCurve(curve, viz.TerminalWidth(viz.DefaultWidth)))
	fmt.Println()
	fmt.Println(viz.CurveTable(curve))
	fmt.Println(viz.Metric(fmt.Sprintf("at %g °C", at[0].Temperature),
		fmt.Sprintf("%.4g µF (%+.1f%% change)", at[0].Capacitance*1e6, at[0].ChangePercent)))
	return nil
}

func sweepRun(cmd *cobra.Command, args []string) error {
	p, err := profileArg(args)
	if err != nil {
		return err
	}
	if rSteps < 1 || vSteps < 1 {
		return capacitor.Invalid("steps", float64(min(rSteps, vSteps)), "must be at least 1")
	}
	circuit := app.cfg.Circuit
	rs := sim.Range(rMin, rMax, rSteps)
	vs := sim.Range(vMin, vMax, vSteps)

	land, err := app.engine.EfficiencyLandscape(cmd.Context(), p, rs, vs, circuit.Temperature)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(p.Name() + " efficiency (%)"))
	fmt.Println(viz.LandscapeTable(land))

	if surface {
		grid := capacitor.LinearGrid(circuit.Duration, circuit.Samples)
		surf, err := app.engine.VoltageSurface(cmd.Context(), p, rs, circuit.Voltage, circuit.Temperature, grid)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(viz.Surface(surf, viz.TerminalWidth(viz.DefaultWidth)))
	}
	return nil
}

func compareRun(cmd *cobra.Command, args []string) error {
	params := app.cfg.Circuit.Params()
	rows, err := app.engine.Compare(cmd.Context(), app.catalog.Profiles(), params)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("R=%g Ω, V0=%g V, T=%g °C", params.Resistance, params.SourceVoltage, params.Temperature)))
	fmt.Println(viz.ComparisonTable(rows))
	return nil
}

func backendRun(cmd *cobra.Command, args []string) error {
	var status compute.Status
	if rebuild {
		_, status = app.resolver.Reresolve(cmd.Context())
	} else {
		status = app.engine.Status(cmd.Context())
	}
	fmt.Println(viz.BackendStatus(status))
	return nil
}

func typesRun(cmd *cobra.Command, args []string) error {
	fmt.Println(viz.CatalogTable(app.catalog.Entries()))
	return nil
}

func exploreRun(cmd *cobra.Command, args []string) error {
	name := app.cfg.Capacitor
	if len(args) > 0 {
		name = args[0]
	}
	if _, err := app.catalog.Lookup(name); err != nil {
		return err
	}
	c := app.cfg.Circuit
	return tui.Run(cmd.Context(), app.engine, tui.Options{
		Profiles: app.catalog.Profiles(),
		Selected: name,
		Circuit: capacitor.CircuitParameters{
			Resistance:    c.Resistance,
			SourceVoltage: c.Voltage,
			Temperature:   c.Temperature,
		},
		Duration: c.Duration,
		Samples:  c.Samples,
	})
}
