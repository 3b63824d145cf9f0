package config

import (
	"math"
	"sort"
)

// Presets are partial configs laid over the defaults.
var Presets = map[string]func(*Config){
	"cos-pi": func(c *Config) {
		c.Function, c.A, c.B, c.NIter = "cos", 0, math.Pi, 10000
	},
	"cos-half-pi": func(c *Config) {
		c.Function, c.A, c.B, c.NIter = "cos", 0, math.Pi/2, 100000
	},
	"square-unit": func(c *Config) {
		c.Function, c.A, c.B, c.NIter = "square", 0, 1, 10000
	},
	"const-five": func(c *Config) {
		c.Function, c.A, c.B, c.NIter = "one", 0, 5, 5000
	},
	"quadratic": func(c *Config) {
		c.Function, c.A, c.B, c.NIter = "quadratic", 0, 1, 10000
	},
	"lab": func(c *Config) {
		c.Function, c.A, c.B, c.NIter, c.Jobs = "cos", 0, math.Pi, 100000, 4
		c.Bench.NIters = []int{1000, 10000, 100000}
		c.Bench.Repeats = 20
	},
	"processes": func(c *Config) {
		c.Function, c.A, c.B, c.Jobs = "heavy_cos", 0, math.Pi, 4
		c.Mode = "processes"
		c.Bench.NIters = []int{500000, 1000000}
		c.Bench.Repeats = 3
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ApplyPreset lays a preset over cfg in place.
func ApplyPreset(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if !ok {
		return false
	}
	apply(cfg)
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
