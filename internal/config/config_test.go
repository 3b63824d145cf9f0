package config

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/san-kum/quadbench/internal/engine"
	"github.com/san-kum/quadbench/internal/quad"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Function != "cos" {
		t.Errorf("expected function cos, got %s", cfg.Function)
	}
	if cfg.B != math.Pi {
		t.Errorf("expected b = pi, got %f", cfg.B)
	}
	if cfg.Bench.Repeats != 20 || cfg.Bench.Warmup != 3 {
		t.Errorf("unexpected bench defaults: %+v", cfg.Bench)
	}
	if err := cfg.ValidateBench(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("square-unit")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Function != "square" || cfg.B != 1 {
		t.Errorf("unexpected preset: %+v", cfg)
	}

	cfg.Function = "changed"
	if again := GetPreset("square-unit"); again.Function != "square" {
		t.Error("presets must not share state between calls")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if ApplyPreset(DefaultConfig(), "nonexistent") {
		t.Error("expected ApplyPreset to report a missing preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).ValidateBench(); err != nil {
			t.Errorf("preset %s does not validate: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := DefaultConfig()
	cfg.Function = "gauss"
	cfg.Jobs = 8
	cfg.Bench.NIters = []int{800, 1600}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Function != "gauss" || loaded.Jobs != 8 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if len(loaded.Bench.NIters) != 2 || loaded.Bench.NIters[1] != 1600 {
		t.Errorf("unexpected n_iters: %v", loaded.Bench.NIters)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("QUADBENCH_NITER", "2048")
	t.Setenv("QUADBENCH_MODE", "threads")
	t.Setenv("QUADBENCH_BENCH_NITERS", "100,200")
	t.Setenv("QUADBENCH_WORKERS_MAXPROCS", "2")

	cfg := DefaultConfig()
	cfg.Function = "sin"
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("apply env failed: %v", err)
	}

	if cfg.NIter != 2048 {
		t.Errorf("expected n_iter 2048, got %d", cfg.NIter)
	}
	if cfg.Mode != "threads" {
		t.Errorf("expected mode threads, got %s", cfg.Mode)
	}
	if len(cfg.Bench.NIters) != 2 || cfg.Bench.NIters[0] != 100 {
		t.Errorf("unexpected n_iters: %v", cfg.Bench.NIters)
	}
	if cfg.Workers.MaxProcs != 2 {
		t.Errorf("expected max procs 2, got %d", cfg.Workers.MaxProcs)
	}
	if cfg.Function != "sin" {
		t.Errorf("unset variables must not override, got %s", cfg.Function)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"reversed bounds", func(c *Config) { c.A, c.B = 1, 0 }, quad.ErrInvalidBounds},
		{"zero n", func(c *Config) { c.NIter = 0 }, quad.ErrInvalidPartition},
		{"negative jobs", func(c *Config) { c.Jobs = -1 }, quad.ErrInvalidPartition},
		{"bad mode", func(c *Config) { c.Mode = "gpu" }, engine.ErrUnknownMode},
		{"bad bench mode", func(c *Config) { c.Bench.Modes = []string{"gpu"} }, engine.ErrUnknownMode},
		{"bench n below jobs", func(c *Config) { c.Bench.NIters = []int{2} }, quad.ErrInvalidPartition},
		{"bad split", func(c *Config) { c.Split = "round" }, nil},
		{"zero repeats", func(c *Config) { c.Bench.Repeats = 0 }, nil},
		{"no bench modes", func(c *Config) { c.Bench.Modes = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.ValidateBench()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateIgnoresBenchSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Jobs = 5000
	cfg.NIter = 10000
	if err := cfg.Validate(); err != nil {
		t.Errorf("single-call settings are valid, got %v", err)
	}
	if err := cfg.ValidateBench(); !errors.Is(err, quad.ErrInvalidPartition) {
		t.Errorf("expected bench n below jobs to fail, got %v", err)
	}
}

func TestRequest(t *testing.T) {
	cfg := GetPreset("const-five")
	cfg.Mode = "threads"
	cfg.Split = "distribute"

	req, err := cfg.Request()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if req.Mode != engine.Threads || req.Split != quad.SplitDistribute || req.NIter != 5000 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestHistoryPath(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.HistoryPath(); got != filepath.Join(DefaultDataDir, "history.db") {
		t.Errorf("unexpected default history path: %s", got)
	}
	cfg.Storage.History = "/tmp/h.db"
	if got := cfg.HistoryPath(); got != "/tmp/h.db" {
		t.Errorf("expected override, got %s", got)
	}
}
