package config

import "sort"

// Presets are named circuit setups.
var Presets = map[string]CircuitConfig{
	"default":      {Resistance: DefaultResistance, Voltage: DefaultVoltage, Temperature: DefaultTemperature, Duration: DefaultDuration, Samples: DefaultSamples},
	"quick":        {Resistance: 10, Voltage: 5, Temperature: 25, Duration: 0.01, Samples: 100},
	"slow":         {Resistance: 1000, Voltage: 10, Temperature: 25, Duration: 10, Samples: 500},
	"hot":          {Resistance: 100, Voltage: 10, Temperature: 125, Duration: 2, Samples: 200},
	"cold":         {Resistance: 100, Voltage: 10, Temperature: -40, Duration: 2, Samples: 200},
	"high-voltage": {Resistance: 470, Voltage: 50, Temperature: 25, Duration: 2, Samples: 200},
}

func GetPreset(name string) (CircuitConfig, bool) {
	c, ok := Presets[name]
	return c, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
