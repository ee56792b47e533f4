package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"consensus-market/internal/model"
	"consensus-market/internal/sweep"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// BuildingsFile is a JSON buildings document. The first building seeds
	// the market; the rest join as remote participants.
	BuildingsFile string `yaml:"buildings_file"`
	// RemoteFiles are msgpack snapshots added as remote participants after
	// the buildings.
	RemoteFiles []string     `yaml:"remote_files"`
	Market      MarketConfig `yaml:"market"`
	Sweep       SweepConfig  `yaml:"sweep"`
	Log         LogConfig    `yaml:"log"`
}

type MarketConfig struct {
	MonotonicPolicy string `yaml:"monotonic_policy"`
}

type SweepConfig struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Step  float64 `yaml:"step"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DefaultSweep is the offer range used when none is configured: 0 to 1900 kW
// in steps of 100.
func DefaultSweep() SweepConfig {
	return SweepConfig{Start: 0, Stop: 1900, Step: 100}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked reads the YAML and resolves file paths, but neither fills
// defaults nor validates.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	base := filepath.Dir(path)
	if c.BuildingsFile != "" {
		c.BuildingsFile = resolvePath(base, c.BuildingsFile)
	}
	for i, p := range c.RemoteFiles {
		c.RemoteFiles[i] = resolvePath(base, p)
	}
	return &c, nil
}

// resolvePath interprets a relative path against the config file directory,
// falling back to the path as given (relative to cwd) if nothing is there.
func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(base, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

// ApplyDefaults fills unset fields. A zero sweep step means the whole sweep
// section was omitted.
func (c *Config) ApplyDefaults() {
	if c.Market.MonotonicPolicy == "" {
		c.Market.MonotonicPolicy = string(model.PolicyReject)
	}
	if c.Sweep.Step == 0 {
		c.Sweep = MergeSweep(DefaultSweep(), c.Sweep)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.BuildingsFile) == "" {
		return model.ConfigErrorf("buildings_file", "is required")
	}
	if _, err := c.Policy(); err != nil {
		return err
	}
	if err := c.Range().Validate(); err != nil {
		return fmt.Errorf("sweep config invalid: %w", err)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "error", "severe":
	default:
		return model.ConfigErrorf("log.level", "unknown level %q", c.Log.Level)
	}
	return nil
}

func (c *Config) Policy() (model.MonotonicPolicy, error) {
	p, err := model.ParseMonotonicPolicy(c.Market.MonotonicPolicy)
	if err != nil {
		return "", model.ConfigErrorf("market.monotonic_policy", "%v", err)
	}
	return p, nil
}

func (c *Config) Range() sweep.Range {
	return c.Sweep.Range()
}

func (s SweepConfig) Range() sweep.Range {
	return sweep.Range{Start: s.Start, Stop: s.Stop, Step: s.Step}
}

// MergeSweep overlays non-zero fields from override onto base.
// A start of 0 cannot be told apart from "unset", so callers with an explicit
// zero start assign it directly.
func MergeSweep(base, override SweepConfig) SweepConfig {
	out := base
	if override.Start != 0 {
		out.Start = override.Start
	}
	if override.Stop != 0 {
		out.Stop = override.Stop
	}
	if override.Step != 0 {
		out.Step = override.Step
	}
	return out
}
