package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/catalog"
	"github.com/san-kum/capsim/internal/compute"
	"github.com/san-kum/capsim/internal/config"
	"github.com/san-kum/capsim/internal/sim"
)

// app is the state shared by every subcommand, built once in setup.
var app struct {
	cfg      *config.Config
	logger   *zap.Logger
	catalog  *catalog.Catalog
	resolver *compute.Resolver
	engine   *sim.Engine
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func setup(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	app.logger = logger

	cfg := config.DefaultConfig()
	if configFile != "" {
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend.Mode = backendMode
	}
	if flags.Changed("library") {
		cfg.Backend.Library = libraryPath
	}
	if flags.Changed("catalog") {
		cfg.Catalog = catalogFile
	}
	if err := applyCircuitFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.cfg = cfg

	app.catalog = catalog.Default()
	if cfg.Catalog != "" {
		app.catalog, err = catalog.Load(cfg.Catalog)
		if err != nil {
			return err
		}
	}

	rc, err := cfg.Backend.ResolverConfig()
	if err != nil {
		return err
	}
	app.resolver = compute.NewResolver(rc, logger.Named("backend"))
	app.engine = sim.New(app.resolver, logger.Named("engine"))
	return nil
}

// applyCircuitFlags layers the preset, then explicitly set flags, over the
// configured circuit.
func applyCircuitFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("resistance") == nil {
		return nil
	}

	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Circuit = p
	}
	if flags.Changed("resistance") {
		cfg.Circuit.Resistance = resistance
	}
	if flags.Changed("voltage") {
		cfg.Circuit.Voltage = voltage
	}
	if flags.Changed("temperature") {
		cfg.Circuit.Temperature = temperature
	}
	if flags.Changed("time") {
		cfg.Circuit.Duration = duration
	}
	if flags.Changed("samples") {
		cfg.Circuit.Samples = samples
	}
	if flags.Lookup("points") != nil {
		if flags.Changed("min") {
			cfg.TemperatureCurve.Min = curveMin
		}
		if flags.Changed("max") {
			cfg.TemperatureCurve.Max = curveMax
		}
		if flags.Changed("points") {
			cfg.TemperatureCurve.Points = curvePoints
		}
	}
	return nil
}

func teardown() {
	if app.resolver != nil {
		if err := app.resolver.Close(); err != nil {
			app.logger.Warn("closing backend", zap.Error(err))
		}
		app.resolver = nil
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// profileArg resolves the optional [type] argument against the catalog,
// defaulting to the configured type.
func profileArg(args []string) (capacitor.Profile, error) {
	name := app.cfg.Capacitor
	if len(args) > 0 {
		name = args[0]
	}
	return app.catalog.Profile(name)
}
