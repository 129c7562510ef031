// Package config loads the declarative bench file. A config names the
// benches a project gates on and the budgets they are held to, so CI runs
// `perfgate check <bench>` without repeating flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/EffortlessMetrics/perfgate/internal/budget"
	"github.com/EffortlessMetrics/perfgate/internal/metric"
)

// Built-in fallbacks for fields the file leaves unset.
const (
	DefaultRepeat      = 5
	DefaultWarmup      = 0
	DefaultThreshold   = 0.20
	DefaultWarnFactor  = 0.90
	DefaultOutDir      = "perfgate-out"
	DefaultBaselineDir = "perfgate-baselines"
)

// Defaults applies to every bench unless it overrides a field. Threshold and
// WarnFactor are pointers so an explicit 0.0 in the file (fail or warn on any
// regression) is distinguishable from the field being unset.
type Defaults struct {
	Repeat      uint32   `toml:"repeat" yaml:"repeat"`
	Warmup      uint32   `toml:"warmup" yaml:"warmup"`
	Threshold   *float64 `toml:"threshold" yaml:"threshold"`
	WarnFactor  *float64 `toml:"warn_factor" yaml:"warn_factor"`
	OutDir      string   `toml:"out_dir" yaml:"out_dir"`
	BaselineDir string   `toml:"baseline_dir" yaml:"baseline_dir"`
}

// BudgetOverride adjusts one metric's budget for one bench. Nil fields keep
// the defaults.
type BudgetOverride struct {
	Threshold  *float64 `toml:"threshold" yaml:"threshold"`
	WarnFactor *float64 `toml:"warn_factor" yaml:"warn_factor"`
	Direction  *string  `toml:"direction" yaml:"direction"`
}

// Bench declares one gated command.
type Bench struct {
	Name    string   `toml:"name" yaml:"name"`
	Command []string `toml:"command" yaml:"command"`
	Cwd     string   `toml:"cwd" yaml:"cwd"`

	// Work is the number of work units one execution performs; setting it
	// enables the throughput metric.
	Work *uint64 `toml:"work" yaml:"work"`

	// Timeout is a Go duration string, e.g. "30s".
	Timeout string `toml:"timeout" yaml:"timeout"`

	Repeat *uint32 `toml:"repeat" yaml:"repeat"`
	Warmup *uint32 `toml:"warmup" yaml:"warmup"`

	Env map[string]string `toml:"env" yaml:"env"`

	Budgets map[string]BudgetOverride `toml:"budgets" yaml:"budgets"`
}

// Config is the whole bench file.
type Config struct {
	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Benches  []Bench  `toml:"bench" yaml:"bench"`
}

// Load reads and validates a bench file. The format follows the extension:
// .toml, or .yaml/.yml.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%s: unsupported config extension %q (expected .toml, .yaml, or .yml)", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.fillDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	if c.Defaults.Repeat == 0 {
		c.Defaults.Repeat = DefaultRepeat
	}
	if c.Defaults.Threshold == nil {
		threshold := DefaultThreshold
		c.Defaults.Threshold = &threshold
	}
	if c.Defaults.WarnFactor == nil {
		warnFactor := DefaultWarnFactor
		c.Defaults.WarnFactor = &warnFactor
	}
	if c.Defaults.OutDir == "" {
		c.Defaults.OutDir = DefaultOutDir
	}
	if c.Defaults.BaselineDir == "" {
		c.Defaults.BaselineDir = DefaultBaselineDir
	}
}

func (c *Config) validate() error {
	if *c.Defaults.Threshold < 0 {
		return fmt.Errorf("defaults.threshold %v must not be negative", *c.Defaults.Threshold)
	}
	if *c.Defaults.WarnFactor < 0 || *c.Defaults.WarnFactor > 1 {
		return fmt.Errorf("defaults.warn_factor %v must be within [0, 1]", *c.Defaults.WarnFactor)
	}
	if len(c.Benches) == 0 {
		return fmt.Errorf("no benches declared")
	}

	seen := make(map[string]bool, len(c.Benches))
	for i, b := range c.Benches {
		if b.Name == "" {
			return fmt.Errorf("bench %d: name must not be empty", i)
		}
		if seen[b.Name] {
			return fmt.Errorf("bench %q declared twice", b.Name)
		}
		seen[b.Name] = true

		if len(b.Command) == 0 {
			return fmt.Errorf("bench %q: command must not be empty", b.Name)
		}
		if b.Timeout != "" {
			if _, err := time.ParseDuration(b.Timeout); err != nil {
				return fmt.Errorf("bench %q: invalid timeout: %w", b.Name, err)
			}
		}
		if b.Repeat != nil && *b.Repeat == 0 {
			return fmt.Errorf("bench %q: repeat must be at least 1", b.Name)
		}
		for name, ov := range b.Budgets {
			if !metric.Metric(name).Valid() {
				return fmt.Errorf("bench %q: unknown metric %q in budgets", b.Name, name)
			}
			if ov.Threshold != nil && *ov.Threshold < 0 {
				return fmt.Errorf("bench %q: threshold for %s must not be negative", b.Name, name)
			}
			if ov.WarnFactor != nil && (*ov.WarnFactor < 0 || *ov.WarnFactor > 1) {
				return fmt.Errorf("bench %q: warn_factor for %s must be within [0, 1]", b.Name, name)
			}
			if ov.Direction != nil {
				if _, err := metric.ParseDirection(*ov.Direction); err != nil {
					return fmt.Errorf("bench %q: %w", b.Name, err)
				}
			}
		}
	}
	return nil
}

// Bench finds a declared bench by name.
func (c Config) Bench(name string) (Bench, bool) {
	for _, b := range c.Benches {
		if b.Name == name {
			return b, true
		}
	}
	return Bench{}, false
}

// EffectiveRepeat resolves the bench's repeat count against the defaults.
func (c Config) EffectiveRepeat(b Bench) uint32 {
	if b.Repeat != nil {
		return *b.Repeat
	}
	return c.Defaults.Repeat
}

// EffectiveWarmup resolves the bench's warmup count against the defaults.
func (c Config) EffectiveWarmup(b Bench) uint32 {
	if b.Warmup != nil {
		return *b.Warmup
	}
	return c.Defaults.Warmup
}

// TimeoutDuration parses the bench's timeout; zero means unbounded.
// Validation already proved the string parses.
func (b Bench) TimeoutDuration() time.Duration {
	if b.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// BudgetOverrides converts the bench's per-metric overrides into the
// comparator's representation.
func (b Bench) BudgetOverrides() budget.Overrides {
	ov := budget.Overrides{
		Thresholds:  make(map[metric.Metric]float64),
		WarnFactors: make(map[metric.Metric]float64),
		Directions:  make(map[metric.Metric]metric.Direction),
	}
	for name, o := range b.Budgets {
		m := metric.Metric(name)
		if o.Threshold != nil {
			ov.Thresholds[m] = *o.Threshold
		}
		if o.WarnFactor != nil {
			ov.WarnFactors[m] = *o.WarnFactor
		}
		if o.Direction != nil {
			if d, err := metric.ParseDirection(*o.Direction); err == nil {
				ov.Directions[m] = d
			}
		}
	}
	return ov
}
