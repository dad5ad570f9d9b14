package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/capsim/internal/config"
)

var (
	configFile  string
	catalogFile string
	backendMode string
	libraryPath string
	verbose     bool

	resistance  float64
	voltage     float64
	temperature float64
	duration    float64
	samples     int
	preset      string

	rebuild bool

	rMin, rMax float64
	rSteps     int
	vMin, vMax float64
	vSteps     int
	surface    bool

	curveMin    float64
	curveMax    float64
	curvePoints int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:               "capsim",
		Short:             "capacitor charge/discharge and energy simulator",
		PersistentPreRunE: setup,
		SilenceUsage:      true,
		Args:              cobra.MaximumNArgs(1),
		RunE:              exploreRun,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&catalogFile, "catalog", "", "capacitor specification table (csv)")
	pf.StringVar(&backendMode, "backend", "auto", "backend: auto, pure or accelerated")
	pf.StringVar(&libraryPath, "library", "", "native library path (overrides "+config.EnvLibrary+")")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	simulateCmd := &cobra.Command{
		Use:   "simulate [type]",
		Short: "simulate one charge/discharge cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  simulateRun,
	}
	addCircuitFlags(simulateCmd)

	energyCmd := &cobra.Command{
		Use:   "energy [type]",
		Short: "energy stored and lost per cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE:  energyRun,
	}
	addCircuitFlags(energyCmd)

	temperatureCmd := &cobra.Command{
		Use:   "temperature [type]",
		Short: "capacitance versus temperature",
		Args:  cobra.MaximumNArgs(1),
		RunE:  temperatureRun,
	}
	addCircuitFlags(temperatureCmd)
	temperatureCmd.Flags().Float64Var(&curveMin, "min", config.DefaultCurveMin, "lowest temperature (°C)")
	temperatureCmd.Flags().Float64Var(&curveMax, "max", config.DefaultCurveMax, "highest temperature (°C)")
	temperatureCmd.Flags().IntVar(&curvePoints, "points", config.DefaultCurvePoints, "curve points")

	sweepCmd := &cobra.Command{
		Use:   "sweep [type]",
		Short: "efficiency over resistance and voltage",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepRun,
	}
	addCircuitFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&rMin, "r-min", 50, "lowest resistance (Ω)")
	sweepCmd.Flags().Float64Var(&rMax, "r-max", 500, "highest resistance (Ω)")
	sweepCmd.Flags().IntVar(&rSteps, "r-steps", 20, "resistance steps")
	sweepCmd.Flags().Float64Var(&vMin, "v-min", 5, "lowest voltage (V)")
	sweepCmd.Flags().Float64Var(&vMax, "v-max", 25, "highest voltage (V)")
	sweepCmd.Flags().IntVar(&vSteps, "v-steps", 15, "voltage steps")
	sweepCmd.Flags().BoolVar(&surface, "surface", false, "also plot voltage over time for the swept resistances")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare every catalog type under one circuit",
		Args:  cobra.NoArgs,
		RunE:  compareRun,
	}
	addCircuitFlags(compareCmd)

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "show which behavior model is active",
		Args:  cobra.NoArgs,
		RunE:  backendRun,
	}
	backendCmd.Flags().BoolVar(&rebuild, "rebuild", false, "discard the cached resolution and resolve again")

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "list capacitor types",
		Args:  cobra.NoArgs,
		RunE:  typesRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list circuit presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p, _ := config.GetPreset(name)
				fmt.Printf("  %-14s R=%g Ω  V=%g V  T=%g °C  %g s x %d\n",
					name, p.Resistance, p.Voltage, p.Temperature, p.Duration, p.Samples)
			}
		},
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [type]",
		Short: "interactive explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exploreRun,
	}
	addCircuitFlags(exploreCmd)
	addCircuitFlags(rootCmd)

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(simulateCmd, energyCmd, temperatureCmd, sweepCmd, compareCmd, backendCmd, typesCmd, presetsCmd, exploreCmd, initCmd)

	if err := execute(ctx, rootCmd); err != nil {
		stop()
		os.Exit(1)
	}
}

// execute runs root and releases the backend and logger whether or not the
// command succeeded.
func execute(ctx context.Context, root *cobra.Command) error {
	defer teardown()
	return root.ExecuteContext(ctx)
}

func addCircuitFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64VarP(&resistance, "resistance", "r", config.DefaultResistance, "series resistance (Ω)")
	f.Float64VarP(&voltage, "voltage", "V", config.DefaultVoltage, "source voltage (V)")
	f.Float64VarP(&temperature, "temperature", "t", config.DefaultTemperature, "temperature (°C)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	f.IntVar(&samples, "samples", config.DefaultSamples, "time samples")
	f.StringVar(&preset, "preset", "", "circuit preset")
}
