package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/capsim/internal/capacitor"
	"github.com/san-kum/capsim/internal/compute"
)

const (
	DefaultResistance   = 100.0
	DefaultVoltage      = 10.0
	DefaultTemperature  = capacitor.ReferenceTemperature
	DefaultDuration     = 2.0
	DefaultSamples      = 200
	DefaultCurveMin     = -40.0
	DefaultCurveMax     = 125.0
	DefaultCurvePoints  = 20
	DefaultCapacitor    = "Ceramic"
	DefaultSourceDir    = "native"
	DefaultBuildTimeout = compute.DefaultBuildTimeout

	// EnvLibrary overrides backend.library.
	EnvLibrary = "CAPSIM_LIBRARY"
)

type Config struct {
	Capacitor        string        `yaml:"capacitor"`
	Catalog          string        `yaml:"catalog,omitempty"`
	Backend          BackendConfig `yaml:"backend"`
	Circuit          CircuitConfig `yaml:"circuit"`
	TemperatureCurve CurveConfig   `yaml:"temperature_curve"`
}

type BackendConfig struct {
	Mode         string        `yaml:"mode"`
	Library      string        `yaml:"library"`
	Build        bool          `yaml:"build"`
	SourceDir    string        `yaml:"source_dir"`
	BuildCommand []string      `yaml:"build_command,omitempty"`
	BuildTimeout time.Duration `yaml:"build_timeout"`
}

type CircuitConfig struct {
	Resistance  float64 `yaml:"resistance"`
	Voltage     float64 `yaml:"voltage"`
	Temperature float64 `yaml:"temperature"`
	Duration    float64 `yaml:"duration"`
	Samples     int     `yaml:"samples"`
}

type CurveConfig struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
}

// LibraryName is the platform file name of the native library.
func LibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libcapsim.dylib"
	}
	return "libcapsim.so"
}

func DefaultConfig() *Config {
	return &Config{
		Capacitor: DefaultCapacitor,
		Backend: BackendConfig{
			Mode:         string(compute.ModeAuto),
			Library:      filepath.Join(DefaultSourceDir, LibraryName()),
			Build:        true,
			SourceDir:    DefaultSourceDir,
			BuildTimeout: DefaultBuildTimeout,
		},
		Circuit: CircuitConfig{
			Resistance:  DefaultResistance,
			Voltage:     DefaultVoltage,
			Temperature: DefaultTemperature,
			Duration:    DefaultDuration,
			Samples:     DefaultSamples,
		},
		TemperatureCurve: CurveConfig{
			Min:    DefaultCurveMin,
			Max:    DefaultCurveMax,
			Points: DefaultCurvePoints,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv applies environment overrides using lookup (os.LookupEnv in
// production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLibrary); ok && v != "" {
		c.Backend.Library = v
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs error
	if _, err := compute.ParseMode(c.Backend.Mode); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Backend.BuildTimeout < 0 {
		errs = multierr.Append(errs, fmt.Errorf("config: backend.build_timeout must not be negative, got %s", c.Backend.BuildTimeout))
	}
	errs = multierr.Append(errs, c.Circuit.validate())

	tc := c.TemperatureCurve
	if tc.Points < 1 {
		errs = multierr.Append(errs, fmt.Errorf("config: temperature_curve.points must be at least 1, got %d", tc.Points))
	}
	if !isFinite(tc.Min) || !isFinite(tc.Max) || tc.Max < tc.Min {
		errs = multierr.Append(errs, fmt.Errorf("config: temperature_curve range [%g, %g] is invalid", tc.Min, tc.Max))
	}
	return errs
}

func (c CircuitConfig) validate() error {
	var errs error
	if err := capacitor.ValidateResistance(c.Resistance); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("config: circuit.resistance: %w", err))
	}
	if !isFinite(c.Voltage) {
		errs = multierr.Append(errs, fmt.Errorf("config: circuit.voltage must be finite, got %g", c.Voltage))
	}
	if !isFinite(c.Temperature) {
		errs = multierr.Append(errs, fmt.Errorf("config: circuit.temperature must be finite, got %g", c.Temperature))
	}
	if !isFinite(c.Duration) || c.Duration <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("config: circuit.duration must be positive, got %g", c.Duration))
	}
	if c.Samples < 1 {
		errs = multierr.Append(errs, fmt.Errorf("config: circuit.samples must be at least 1, got %d", c.Samples))
	}
	return errs
}

// Params builds the circuit parameters, sampling the duration uniformly.
func (c CircuitConfig) Params() capacitor.CircuitParameters {
	return capacitor.CircuitParameters{
		Resistance:    c.Resistance,
		SourceVoltage: c.Voltage,
		Temperature:   c.Temperature,
		TimeGrid:      capacitor.LinearGrid(c.Duration, c.Samples),
	}
}

// ResolverConfig maps the backend section onto the resolver. The build step
// is attached only when enabled.
func (b BackendConfig) ResolverConfig() (compute.ResolverConfig, error) {
	mode, err := compute.ParseMode(b.Mode)
	if err != nil {
		return compute.ResolverConfig{}, err
	}
	cfg := compute.ResolverConfig{Mode: mode, LibraryPath: b.Library}
	if b.Build {
		builder := compute.DefaultBuilder(b.SourceDir)
		if len(b.BuildCommand) > 0 {
			builder.Command = b.BuildCommand
			builder.Dir = b.SourceDir
		}
		if b.BuildTimeout > 0 {
			builder.Timeout = b.BuildTimeout
		}
		cfg.Build = builder
	}
	return cfg, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
