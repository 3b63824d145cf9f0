package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadbench/internal/engine"
	"github.com/san-kum/quadbench/internal/quad"
)

const (
	DefaultFunction = "cos"
	DefaultA        = 0.0
	DefaultNIter    = 100000
	DefaultJobs     = 4
	DefaultRepeats  = 20
	DefaultWarmup   = 3
	DefaultDataDir  = ".quadbench"

	// EnvPrefix prefixes every environment override. Names are the upper-cased
	// field path: QUADBENCH_NITER, QUADBENCH_BENCH_REPEATS, QUADBENCH_WORKERS_MAXPROCS.
	EnvPrefix = "QUADBENCH"
)

var DefaultNIters = []int{1000, 10000, 100000}

type Config struct {
	Function string  `yaml:"function"`
	A        float64 `yaml:"a"`
	B        float64 `yaml:"b"`
	NIter    int     `yaml:"n_iter"`
	Jobs     int     `yaml:"jobs"`
	Mode     string  `yaml:"mode"`
	Split    string  `yaml:"split"`

	Bench   BenchConfig   `yaml:"bench"`
	Workers WorkerConfig  `yaml:"workers"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
}

type BenchConfig struct {
	NIters  []int    `yaml:"n_iters"`
	Modes   []string `yaml:"modes"`
	Repeats int      `yaml:"repeats"`
	Warmup  int      `yaml:"warmup"`
}

type WorkerConfig struct {
	// Executable defaults to the running binary.
	Executable string `yaml:"executable"`
	MaxProcs   int    `yaml:"max_procs"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
	Trace  string `yaml:"trace"`
}

type StorageConfig struct {
	DataDir string `yaml:"data_dir"`
	History string `yaml:"history"`
}

func DefaultConfig() *Config {
	return &Config{
		Function: DefaultFunction,
		A:        DefaultA,
		B:        math.Pi,
		NIter:    DefaultNIter,
		Jobs:     DefaultJobs,
		Mode:     string(engine.Sequential),
		Split:    string(quad.SplitTruncate),
		Bench: BenchConfig{
			NIters:  append([]int(nil), DefaultNIters...),
			Modes:   []string{string(engine.Sequential), string(engine.Threads), string(engine.Processes)},
			Repeats: DefaultRepeats,
			Warmup:  DefaultWarmup,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			DataDir: DefaultDataDir,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	return LoadInto(DefaultConfig(), path)
}

// LoadInto reads a YAML file on top of base, which is modified in place.
func LoadInto(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return base, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides fields whose QUADBENCH_* variable is set. Unset
// variables leave the current value alone.
func (c *Config) ApplyEnv() error {
	return envconfig.Process(EnvPrefix, c)
}

// HistoryPath is the SQLite ledger location, defaulting to the data directory.
func (c *Config) HistoryPath() string {
	if c.Storage.History != "" {
		return c.Storage.History
	}
	return filepath.Join(c.Storage.DataDir, "history.db")
}

func (c *Config) Validate() error {
	if c.Function == "" {
		return fmt.Errorf("function is required")
	}
	if !(c.B > c.A) {
		return fmt.Errorf("%w: a=%g b=%g", quad.ErrInvalidBounds, c.A, c.B)
	}
	if c.NIter <= 0 {
		return fmt.Errorf("%w: n_iter=%d", quad.ErrInvalidPartition, c.NIter)
	}
	if c.Jobs <= 0 {
		return fmt.Errorf("%w: jobs=%d", quad.ErrInvalidPartition, c.Jobs)
	}
	if _, err := engine.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := quad.ParseSplitPolicy(c.Split); err != nil {
		return err
	}
	return nil
}

// ValidateBench checks the call settings plus the bench section.
func (c *Config) ValidateBench() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Bench.NIters) == 0 || len(c.Bench.Modes) == 0 {
		return fmt.Errorf("bench: n_iters and modes must not be empty")
	}
	for _, m := range c.Bench.Modes {
		if _, err := engine.ParseMode(m); err != nil {
			return fmt.Errorf("bench: %w", err)
		}
	}
	for _, n := range c.Bench.NIters {
		if n < c.Jobs {
			return fmt.Errorf("bench: %w: n_iter=%d is below jobs=%d", quad.ErrInvalidPartition, n, c.Jobs)
		}
	}
	if c.Bench.Repeats <= 0 {
		return fmt.Errorf("bench: repeats must be positive, got %d", c.Bench.Repeats)
	}
	if c.Bench.Warmup < 0 {
		return fmt.Errorf("bench: warmup must not be negative, got %d", c.Bench.Warmup)
	}
	return nil
}

// Request builds the single-call request described by the config.
func (c *Config) Request() (engine.Request, error) {
	mode, err := engine.ParseMode(c.Mode)
	if err != nil {
		return engine.Request{}, err
	}
	split, err := quad.ParseSplitPolicy(c.Split)
	if err != nil {
		return engine.Request{}, err
	}
	return engine.Request{
		Function: c.Function,
		A:        c.A,
		B:        c.B,
		NIter:    c.NIter,
		Jobs:     c.Jobs,
		Mode:     mode,
		Split:    split,
	}, nil
}
